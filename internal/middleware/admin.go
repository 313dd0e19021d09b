package middleware

import (
	"net/http"
)

// AdminSecretHeader carries the shared admin secret on mutating requests.
const AdminSecretHeader = "X-Admin-Secret"

// SecretValidator reports whether a candidate admin secret is correct.
type SecretValidator interface {
	Validate(candidate string) bool
}

// RequireAdminSecret rejects requests whose X-Admin-Secret header does not
// satisfy v with 401 and the standard error body. A nil v rejects everything.
func RequireAdminSecret(v SecretValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if v == nil || !v.Validate(r.Header.Get(AdminSecretHeader)) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"unauthorized","message":"invalid admin secret"}}` + "\n"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
