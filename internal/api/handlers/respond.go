package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/internal/api/middleware"
	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/internal/api/validators"
	"github.com/CoderHarshaVardhan/playX/internal/services"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

const maxBodyBytes = 1 << 20

// Validator is satisfied by *validator.Validate.
type Validator interface {
	Struct(any) error
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	types.WriteJSON(w, status, types.APIResponse{Success: true, Data: data})
}

func writeList(w http.ResponseWriter, data any, total int) {
	types.WriteJSON(w, http.StatusOK, types.APIResponse{Success: true, Data: data, Meta: &types.Meta{Total: int64(total)}})
}

// decodeBody reads a JSON body into dst and validates it. It writes the
// error response itself and reports whether the handler may continue.
func decodeBody(w http.ResponseWriter, r *http.Request, v Validator, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			types.WriteInvalid(w, r, "Request body is required.")
			return false
		}
		types.WriteInvalid(w, r, "Invalid JSON body.")
		return false
	}
	if err := v.Struct(dst); err != nil {
		types.WriteError(w, r, appErr.New(appErr.CodeInvalid, validators.Message(err)).WithMeta("fields", validators.Fields(err)))
		return false
	}
	return true
}

func currentUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	uid, ok := middleware.GetUserID(r.Context())
	if !ok {
		types.WriteError(w, r, services.ErrUnauthenticated)
	}
	return uid, ok
}
