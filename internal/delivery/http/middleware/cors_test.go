package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := CORS([]string{" https://devevent.example/ ", ""}, next)

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"preflight allowed", http.MethodOptions, "https://devevent.example", http.StatusNoContent, "https://devevent.example"},
		{"preflight other origin", http.MethodOptions, "https://evil.example", http.StatusNoContent, ""},
		{"simple allowed", http.MethodGet, "https://devevent.example", http.StatusOK, "https://devevent.example"},
		{"simple no origin", http.MethodGet, "", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/events", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			require.Equal(t, tt.wantAllow, rr.Header().Get("Access-Control-Allow-Origin"))
			if tt.method == http.MethodOptions && tt.wantAllow != "" {
				require.Contains(t, rr.Header().Get("Access-Control-Allow-Methods"), "PUT")
				require.Contains(t, rr.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
			}
		})
	}
}
