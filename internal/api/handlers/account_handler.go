package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/avelez/accountd/internal/apperr"
	"github.com/avelez/accountd/internal/auth"
	"github.com/avelez/accountd/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// AccountHandler handles HTTP requests for account management.
type AccountHandler struct {
	service      services.AccountProvider
	authority    *auth.Authority
	secureCookie bool
}

// NewAccountHandler creates a new AccountHandler. secureCookie controls the
// Secure flag on the session cookie and should be set in production.
func NewAccountHandler(service services.AccountProvider, authority *auth.Authority, secureCookie bool) *AccountHandler {
	return &AccountHandler{service: service, authority: authority, secureCookie: secureCookie}
}

// LoginPayload defines the structure for login requests.
type LoginPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// ChangePasswordPayload defines the structure for password-change requests.
type ChangePasswordPayload struct {
	OldPassword     string `json:"oldPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// Register handles new user registration. Success does not log the user in.
func (h *AccountHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}

	user, err := h.service.Register(r.Context(), payload.Name, payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// Login handles user authentication and sets the session cookie.
func (h *AccountHandler) Login(w http.ResponseWriter, r *http.Request) {
	var payload LoginPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}

	name, err := h.service.Login(r.Context(), payload.Email, payload.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	token, err := h.authority.Issue(payload.Email, name)
	if err != nil {
		log.Error().Err(err).Str("email", payload.Email).Msg("Failed to issue session token")
		writeError(w, apperr.Store("failed to generate token"))
		return
	}

	h.setSessionCookie(w, token, int(h.authority.Validity().Seconds()))

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"message":  "Login successful",
		"username": name,
	})
}

// Logout requires a valid session token and tells the client to discard its
// cookie. There is no server-side revocation; the token stays structurally
// valid until it expires.
func (h *AccountHandler) Logout(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.TokenFromRequest(r)
	if tokenStr == "" {
		writeError(w, apperr.Auth("not logged in"))
		return
	}
	if _, err := h.authority.Verify(tokenStr); err != nil {
		writeError(w, apperr.Auth("not logged in"))
		return
	}

	h.setSessionCookie(w, "", -1)

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Logged out",
	})
}

// Me reports the identity bound to the presented session token, straight from
// the verified claims. An absent or invalid token is not an error here; the
// client just is not logged in.
func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	tokenStr := auth.TokenFromRequest(r)
	if tokenStr == "" {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "loggedIn": false})
		return
	}
	claims, err := h.authority.Verify(tokenStr)
	if err != nil {
		writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "loggedIn": false})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"loggedIn": true,
		"name":     claims.Name,
		"email":    claims.Email,
	})
}

// ChangePassword rotates a user's password. The route runs behind the session
// middleware; the session identity must match the target email.
func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")

	claims, ok := auth.ClaimsFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve session claims from context")
		writeError(w, apperr.Auth("not logged in"))
		return
	}
	if claims.Email != email {
		log.Warn().Str("session_email", claims.Email).Str("target_email", email).
			Msg("Password change for a different account")
		writeError(w, apperr.Auth("session does not match account"))
		return
	}

	var payload ChangePasswordPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, apperr.Validation("invalid request body"))
		return
	}

	err := h.service.ChangePassword(r.Context(), email,
		payload.OldPassword, payload.NewPassword, payload.ConfirmPassword)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "Password successfully updated",
	})
}

// Get handles retrieving a user's public record by email.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	user, err := h.service.GetUser(r.Context(), email)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"user":    user,
	})
}

// List handles retrieving all users' public records.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"users":   users,
	})
}

// Delete handles the permanent deletion of a user account.
func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	if err := h.service.DeleteUser(r.Context(), email); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

func (h *AccountHandler) setSessionCookie(w http.ResponseWriter, token string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     auth.CookieName,
		Value:    token,
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteStrictMode,
		Path:     "/",
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError translates the error taxonomy into status codes. Store errors
// never leak internal detail to the client.
func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	detail := "internal error"

	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		status = http.StatusBadRequest
		detail = err.Error()
	case apperr.KindAuth:
		status = http.StatusUnauthorized
		detail = err.Error()
	case apperr.KindConflict:
		status = http.StatusConflict
		detail = err.Error()
	case apperr.KindNotFound:
		status = http.StatusNotFound
		detail = err.Error()
	case apperr.KindStore:
		// keep the generic detail
	default:
		log.Error().Err(err).Msg("Unclassified error reached the HTTP layer")
	}

	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   detail,
	})
}
