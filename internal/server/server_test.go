package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"planner/internal/preset"
	"planner/internal/storage/sqlite"
)

const testSecret = "test-secret"

const roadmapJSON = `{
  "name": "backend-roadmap",
  "category": "study",
  "tag_group": {"name": "Backend Roadmap", "color": "#2563eb"},
  "tags": [{"name": "language", "color": "#7c3aed"}],
  "todos": [
    {"title": "Learn a language", "tag_names": ["language"], "children": [
      {"title": "Syntax"}
    ]},
    {"title": "Databases"}
  ]
}`

func newTestServer(t *testing.T) *Server {
	t.Helper()

	store, err := sqlite.Open(filepath.Join(t.TempDir(), "planner.db"), nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	presetsDir := t.TempDir()
	if err := os.WriteFile(filepath.Join(presetsDir, "backend-roadmap.json"), []byte(roadmapJSON), 0o644); err != nil {
		t.Fatalf("write preset: %v", err)
	}

	return New(store, preset.NewLibrary(presetsDir), nil, Options{TokenSecret: testSecret})
}

func signToken(t *testing.T, secret, subject string, expiresIn time.Duration) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
	})
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func doJSON(t *testing.T, srv *Server, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	srv.Engine().ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var payload map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return payload
}

func TestAuthRejections(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"wrong secret", signToken(t, "other-secret", "u1", time.Hour)},
		{"expired", signToken(t, testSecret, "u1", -time.Hour)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, srv, http.MethodGet, "/v1/todos", tt.token, nil)
			if w.Code != http.StatusUnauthorized {
				t.Errorf("status: got %d, want 401", w.Code)
			}
		})
	}
}

func TestHealthzNeedsNoAuth(t *testing.T) {
	srv := newTestServer(t)
	w := doJSON(t, srv, http.MethodGet, "/healthz", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
}

func TestTodoCRUDOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testSecret, "u1", time.Hour)

	w := doJSON(t, srv, http.MethodPost, "/v1/todos", token, map[string]any{"title": "write tests"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create status: got %d, body %s", w.Code, w.Body.String())
	}
	created := decode(t, w)["todo"].(map[string]any)
	id := created["id"].(string)
	if created["status"] != "unscheduled" {
		t.Errorf("status: got %v, want unscheduled", created["status"])
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/todos", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list status: got %d", w.Code)
	}
	todos := decode(t, w)["todos"].([]any)
	if len(todos) != 1 {
		t.Fatalf("list count: got %d, want 1", len(todos))
	}

	// The other user's listing is empty.
	otherToken := signToken(t, testSecret, "u2", time.Hour)
	w = doJSON(t, srv, http.MethodGet, "/v1/todos", otherToken, nil)
	if others := decode(t, w)["todos"].([]any); len(others) != 0 {
		t.Errorf("u2 sees %d todos, want 0", len(others))
	}

	w = doJSON(t, srv, http.MethodPatch, "/v1/todos/"+id, token, map[string]any{"status": "scheduled"})
	if w.Code != http.StatusOK {
		t.Fatalf("patch status: got %d, body %s", w.Code, w.Body.String())
	}

	w = doJSON(t, srv, http.MethodDelete, "/v1/todos/"+id, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("delete status: got %d", w.Code)
	}
	w = doJSON(t, srv, http.MethodDelete, "/v1/todos/"+id, token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("delete missing: got %d, want 404", w.Code)
	}
}

func TestReparentCycleConflictOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testSecret, "u1", time.Hour)

	w := doJSON(t, srv, http.MethodPost, "/v1/todos", token, map[string]any{"title": "root"})
	root := decode(t, w)["todo"].(map[string]any)["id"].(string)
	w = doJSON(t, srv, http.MethodPost, "/v1/todos", token, map[string]any{"title": "child", "parent_id": root})
	child := decode(t, w)["todo"].(map[string]any)["id"].(string)

	w = doJSON(t, srv, http.MethodPatch, "/v1/todos/"+root, token, map[string]any{"parent_id": child})
	if w.Code != http.StatusConflict {
		t.Errorf("cycle patch: got %d, want 409, body %s", w.Code, w.Body.String())
	}
}

func TestTagValidationOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testSecret, "u1", time.Hour)

	w := doJSON(t, srv, http.MethodPost, "/v1/tags/groups", token, map[string]any{"name": "Work"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create group: got %d, body %s", w.Code, w.Body.String())
	}
	groupID := decode(t, w)["group"].(map[string]any)["id"].(string)

	w = doJSON(t, srv, http.MethodPost, "/v1/tags", token, map[string]any{
		"group_id": groupID, "name": "deep", "color": "#1A2B3C",
	})
	if w.Code != http.StatusCreated {
		t.Errorf("valid color: got %d, body %s", w.Code, w.Body.String())
	}

	for _, color := range []string{"1A2B3C", "#ZZZZZZ"} {
		w = doJSON(t, srv, http.MethodPost, "/v1/tags", token, map[string]any{
			"group_id": groupID, "name": "bad", "color": color,
		})
		if w.Code != http.StatusBadRequest {
			t.Errorf("color %q: got %d, want 400", color, w.Code)
		}
	}
}

func TestPresetFlowOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testSecret, "u1", time.Hour)

	w := doJSON(t, srv, http.MethodGet, "/v1/todos/presets", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("list presets: got %d", w.Code)
	}
	presets := decode(t, w)["presets"].([]any)
	if len(presets) != 1 {
		t.Fatalf("preset count: got %d, want 1", len(presets))
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/todos/presets/backend-roadmap", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get preset: got %d", w.Code)
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/todos/presets/nope", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing preset: got %d, want 404", w.Code)
	}

	w = doJSON(t, srv, http.MethodPost, "/v1/todos/initialize/backend-roadmap", token, nil)
	if w.Code != http.StatusCreated {
		t.Fatalf("initialize: got %d, body %s", w.Code, w.Body.String())
	}
	result := decode(t, w)["result"].(map[string]any)
	if result["todos_created"].(float64) != 3 {
		t.Errorf("todos_created: got %v, want 3", result["todos_created"])
	}
	if result["tags_created"].(float64) != 1 {
		t.Errorf("tags_created: got %v, want 1", result["tags_created"])
	}

	w = doJSON(t, srv, http.MethodGet, "/v1/todos", token, nil)
	if todos := decode(t, w)["todos"].([]any); len(todos) != 3 {
		t.Errorf("todo rows: got %d, want 3", len(todos))
	}
}

func TestTimersOverHTTP(t *testing.T) {
	srv := newTestServer(t)
	token := signToken(t, testSecret, "u1", time.Hour)

	w := doJSON(t, srv, http.MethodPost, "/v1/timers", token, map[string]any{"name": "focus"})
	if w.Code != http.StatusCreated {
		t.Fatalf("create timer: got %d", w.Code)
	}
	id := decode(t, w)["timer"].(map[string]any)["id"].(string)

	w = doJSON(t, srv, http.MethodPost, "/v1/timers/"+id+"/start", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("start: got %d, body %s", w.Code, w.Body.String())
	}
	w = doJSON(t, srv, http.MethodPost, "/v1/timers/"+id+"/start", token, nil)
	if w.Code != http.StatusConflict {
		t.Errorf("double start: got %d, want 409", w.Code)
	}
	w = doJSON(t, srv, http.MethodPost, "/v1/timers/"+id+"/pause", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("pause: got %d", w.Code)
	}
}

func TestOpenAPIDocument(t *testing.T) {
	srv := newTestServer(t)

	w := doJSON(t, srv, http.MethodGet, "/v1/openapi.json", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("openapi status: got %d", w.Code)
	}
	doc := decode(t, w)
	paths, ok := doc["paths"].(map[string]any)
	if !ok {
		t.Fatal("document has no paths")
	}
	for _, want := range []string{"/v1/todos", "/v1/todos/{id}", "/v1/todos/initialize/{name}", "/v1/timers/{id}/start"} {
		if _, ok := paths[want]; !ok {
			t.Errorf("path %s missing from document", want)
		}
	}

	w = doJSON(t, srv, http.MethodGet, "/docs", "", nil)
	if w.Code != http.StatusOK {
		t.Errorf("docs page: got %d", w.Code)
	}
}
