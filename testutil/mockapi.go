package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

// NewMockAPI starts an httptest server for the given mux and registers
// cleanup with the test.
func NewMockAPI(t *testing.T, mux *http.ServeMux) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// WriteData writes a {"success": true, "data": ...} envelope.
func WriteData(t *testing.T, w http.ResponseWriter, v interface{}) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"success": true,
		"data":    v,
	}); err != nil {
		t.Fatalf("Failed to encode response: %v", err)
	}
}

// WriteMessageError writes a {"message": ...} error with the given
// status.
func WriteMessageError(t *testing.T, w http.ResponseWriter, status int, message string) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]string{"message": message}); err != nil {
		t.Fatalf("Failed to encode error response: %v", err)
	}
}

// WriteDetailError writes a validation-error envelope with field-level
// detail messages.
func WriteDetailError(t *testing.T, w http.ResponseWriter, status int, msgs ...string) {
	t.Helper()
	detail := make([]map[string]string, 0, len(msgs))
	for _, m := range msgs {
		detail = append(detail, map[string]string{"msg": m})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Validation error",
		"detail":  detail,
	}); err != nil {
		t.Fatalf("Failed to encode error response: %v", err)
	}
}

// RequireBearer fails the handler with 401 when the request carries no
// bearer token, recording the received header for assertions.
func RequireBearer(w http.ResponseWriter, r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	if len(auth) < len("Bearer ") || auth[:len("Bearer ")] != "Bearer " {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"unauthorized"}`))
		return "", false
	}
	return auth[len("Bearer "):], true
}
