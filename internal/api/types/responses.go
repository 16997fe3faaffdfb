package types

import (
	"encoding/json"
	"net/http"
)

// APIResponse is the envelope every JSON endpoint returns.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type APIError struct {
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

type Meta struct {
	RequestID string `json:"request_id,omitempty"`
	Total     int64  `json:"total,omitempty"`
}

// MessageResponse carries a user-facing confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// SlotActionResponse is returned by join, leave and cancel.
type SlotActionResponse struct {
	Message string      `json:"message"`
	Slot    interface{} `json:"slot"`
}

// ProfileResponse is returned by a profile update.
type ProfileResponse struct {
	Message string      `json:"message"`
	User    interface{} `json:"user"`
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError maps err to its HTTP status and writes the error envelope.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, apiErr := FromAppError(err)
	WriteJSON(w, status, APIResponse{Success: false, Error: apiErr, Meta: metaFor(r)})
}

// WriteInvalid writes a 400 with a plain message.
func WriteInvalid(w http.ResponseWriter, r *http.Request, msg string) {
	WriteJSON(w, http.StatusBadRequest, APIResponse{
		Success: false,
		Error:   &APIError{Code: "invalid", Message: msg},
		Meta:    metaFor(r),
	})
}
