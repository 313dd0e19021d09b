package handler

import "net/http"

// ValidateSecretRequest is the body of POST /auth/validate.
type ValidateSecretRequest struct {
	Secret string `json:"secret"`
}

// ValidateSecretResponse is returned when the secret matches.
type ValidateSecretResponse struct {
	Valid bool `json:"valid"`
}

// ValidateSecret handles POST /auth/validate. The management UI calls it
// once to unlock editing; the secret is then sent as X-Admin-Secret.
func (s *Server) ValidateSecret(w http.ResponseWriter, r *http.Request) {
	var body ValidateSecretRequest
	if !decodeJSON(w, r, &body) {
		return
	}
	if s.auth == nil || !s.auth.Validate(body.Secret) {
		writeJSON(w, r, http.StatusUnauthorized, unauthorizedBody())
		return
	}
	writeJSON(w, r, http.StatusOK, ValidateSecretResponse{Valid: true})
}
