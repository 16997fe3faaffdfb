package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/internal/services"
)

type AuthHandler struct {
	auth     services.AuthService
	validate Validator
}

func NewAuthHandler(auth services.AuthService, v Validator) *AuthHandler {
	return &AuthHandler{auth: auth, validate: v}
}

// Register godoc
// @Summary  Create an account and send a verification email
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.RegisterRequest true "Account"
// @Success  201 {object} types.APIResponse{data=types.MessageResponse}
// @Failure  400 {object} types.APIResponse
// @Router   /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req types.RegisterRequest
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	if _, err := h.auth.Register(r.Context(), req.Name, req.Email, req.Password); err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, types.MessageResponse{Message: "User registered. Check your email for verification link."})
}

// VerifyEmail godoc
// @Summary  Confirm an email address
// @Tags     auth
// @Produce  json
// @Param    token path string true "Verification token"
// @Success  200 {object} types.APIResponse{data=types.MessageResponse}
// @Failure  400 {object} types.APIResponse
// @Router   /auth/verify/{token} [get]
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.VerifyEmail(r.Context(), chi.URLParam(r, "token")); err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Email verified successfully!"})
}

// Login godoc
// @Summary  Exchange credentials for an access token
// @Tags     auth
// @Accept   json
// @Produce  json
// @Param    body body types.LoginRequest true "Credentials"
// @Success  200 {object} types.APIResponse{data=services.LoginResult}
// @Failure  400 {object} types.APIResponse
// @Failure  401 {object} types.APIResponse
// @Router   /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req types.LoginRequest
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// Logout is stateless; clients drop the token.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, types.MessageResponse{Message: "Logged out."})
}
