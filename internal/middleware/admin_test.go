package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/camp-directory/internal/middleware"
)

type staticSecret string

func (s staticSecret) Validate(candidate string) bool {
	return s != "" && string(s) == candidate
}

var _ middleware.SecretValidator = staticSecret("")

func TestRequireAdminSecret(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"correct secret passes", "s3cret", http.StatusOK},
		{"wrong secret rejected", "nope", http.StatusUnauthorized},
		{"missing header rejected", "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := middleware.RequireAdminSecret(staticSecret("s3cret"))(trivialHandler)

			req := httptest.NewRequest(http.MethodPut, "/camps/A", nil)
			if tt.header != "" {
				req.Header.Set(middleware.AdminSecretHeader, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, rec.Body.String(), `"code":"unauthorized"`)
			}
		})
	}
}

func TestRequireAdminSecret_NilValidatorRejects(t *testing.T) {
	h := middleware.RequireAdminSecret(nil)(trivialHandler)

	req := httptest.NewRequest(http.MethodDelete, "/camps/A", nil)
	req.Header.Set(middleware.AdminSecretHeader, "anything")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
