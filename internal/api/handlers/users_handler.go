package handlers

import (
	"net/http"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/internal/services"
)

type UsersHandler struct {
	users    services.UserService
	validate Validator
}

func NewUsersHandler(users services.UserService, v Validator) *UsersHandler {
	return &UsersHandler{users: users, validate: v}
}

// Me godoc
// @Summary   Current user's profile
// @Tags      users
// @Produce   json
// @Security  BearerAuth
// @Success   200 {object} types.APIResponse{data=models.User}
// @Failure   404 {object} types.APIResponse
// @Router    /users/me [get]
func (h *UsersHandler) Me(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	u, err := h.users.GetProfile(r.Context(), uid)
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

// UpdateProfile godoc
// @Summary   Replace the current user's profile
// @Tags      users
// @Accept    json
// @Produce   json
// @Security  BearerAuth
// @Param     body body types.UpdateProfileRequest true "Profile"
// @Success   200 {object} types.APIResponse{data=types.ProfileResponse}
// @Failure   400 {object} types.APIResponse
// @Router    /users/profile [put]
func (h *UsersHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	uid, ok := currentUser(w, r)
	if !ok {
		return
	}
	var req types.UpdateProfileRequest
	if !decodeBody(w, r, h.validate, &req) {
		return
	}
	in, err := req.ToInput()
	if err != nil {
		types.WriteInvalid(w, r, err.Error())
		return
	}
	u, err := h.users.UpdateProfile(r.Context(), uid, in)
	if err != nil {
		types.WriteError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, types.ProfileResponse{Message: "Profile created/updated successfully", User: u})
}
