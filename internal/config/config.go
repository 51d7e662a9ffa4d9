// Package config resolves runtime settings from environment variables
// and an optional config file.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds everything the service needs to run.
type Config struct {
	Addr           string
	DBPath         string
	TokenSecret    string
	AllowedOrigins []string
	PresetsDir     string
}

// Load reads configuration from the environment (PLANNER_ prefix) and,
// when path is non-empty, the given config file. Environment values win
// over file values.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetDefault("addr", ":8080")
	v.SetDefault("db_path", "data/planner.db")
	v.SetDefault("token_secret", "")
	v.SetDefault("allowed_origins", "")
	v.SetDefault("presets_dir", "presets")

	v.SetEnvPrefix("PLANNER")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg := Config{
		Addr:           v.GetString("addr"),
		DBPath:         v.GetString("db_path"),
		TokenSecret:    v.GetString("token_secret"),
		AllowedOrigins: splitOrigins(v.GetString("allowed_origins")),
		PresetsDir:     v.GetString("presets_dir"),
	}
	return cfg, nil
}

// Validate checks the settings a running server cannot do without.
func (c Config) Validate() error {
	if c.TokenSecret == "" {
		return fmt.Errorf("token secret is not set (PLANNER_TOKEN_SECRET)")
	}
	if c.DBPath == "" {
		return fmt.Errorf("database path is not set (PLANNER_DB_PATH)")
	}
	return nil
}

func splitOrigins(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ' '
	})
	var origins []string
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			origins = append(origins, f)
		}
	}
	return origins
}
