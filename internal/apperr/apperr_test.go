package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad color %q", "x"), http.StatusBadRequest},
		{"auth", Auth("expired"), http.StatusUnauthorized},
		{"not found", NotFound("todo not found"), http.StatusNotFound},
		{"conflict", Conflict("cycle"), http.StatusConflict},
		{"wrapped", fmt.Errorf("storage: %w", NotFound("gone")), http.StatusNotFound},
		{"plain", errors.New("boom"), http.StatusInternalServerError},
		{"nil-ish", fmt.Errorf("no classification"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StatusOf(tt.err); got != tt.want {
				t.Errorf("StatusOf: got %d, want %d", got, tt.want)
			}
		})
	}
}

func TestIsKind(t *testing.T) {
	err := fmt.Errorf("wrap: %w", Conflict("cycle"))
	if !IsKind(err, KindConflict) {
		t.Error("wrapped conflict not recognized")
	}
	if IsKind(err, KindNotFound) {
		t.Error("conflict misread as not found")
	}
	if IsKind(errors.New("plain"), KindConflict) {
		t.Error("plain error misread as conflict")
	}
}
