package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"devevent/internal/domain"

	"github.com/stretchr/testify/require"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) *APIError {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Nil(t, resp.Data)
	require.NotNil(t, resp.Error)
	return resp.Error
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, ErrCodeNotFound, ""},
		{"missing field", domain.NewValidationError(domain.ErrMissingField, "title", "title is required"), http.StatusBadRequest, ErrCodeBadRequest, "title"},
		{"invalid format", domain.NewValidationError(domain.ErrInvalidFormat, "email", "bad"), http.StatusBadRequest, ErrCodeBadRequest, "email"},
		{"non empty", domain.NewValidationError(domain.ErrNonEmpty, "tags", "empty"), http.StatusBadRequest, ErrCodeBadRequest, "tags"},
		{"reference", domain.NewValidationError(domain.ErrReference, "event_id", "Referenced event does not exist"), http.StatusNotFound, ErrCodeNotFound, "event_id"},
		{"duplicate slug", domain.ErrDuplicateSlug, http.StatusConflict, ErrCodeConflict, "slug"},
		{"wrapped duplicate booking", fmt.Errorf("create: %w", domain.ErrDuplicateBooking), http.StatusConflict, ErrCodeConflict, "email"},
		{"internal", errors.New("connection reset"), http.StatusInternalServerError, ErrCodeInternalError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/events", nil)
			WriteServiceError(rec, req, testLogger, tt.err)

			require.Equal(t, tt.wantStatus, rec.Code)
			require.Equal(t, "application/json", rec.Header().Get("Content-Type"))
			apiErr := decodeError(t, rec)
			require.Equal(t, tt.wantCode, apiErr.Code)
			require.Equal(t, tt.wantField, apiErr.Field)
			require.NotContains(t, apiErr.Message, "connection reset")
		})
	}
}

type widget struct {
	Name string `json:"name"`
}

func (w widget) Validate() []string {
	if w.Name == "" {
		return []string{"name is required"}
	}
	return nil
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name string
		body string
		ok   bool
	}{
		{"valid", `{"name":"x"}`, true},
		{"validation failure", `{"name":""}`, false},
		{"unknown field", `{"name":"x","extra":1}`, false},
		{"malformed", `{`, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dest widget
			require.Equal(t, tt.ok, DecodeAndValidate(rec, req, &dest))
			if !tt.ok {
				require.Equal(t, http.StatusBadRequest, rec.Code)
				require.Equal(t, ErrCodeBadRequest, decodeError(t, rec).Code)
			}
		})
	}
}
