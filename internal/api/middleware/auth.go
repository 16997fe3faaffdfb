package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/internal/services"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

type userKeyType string

const UserIDKey userKeyType = "user_id"

var errNoToken = appErr.New(appErr.CodeUnauthorized, "Not authorized, no token")

// Auth resolves the Bearer token and stores the user id in the context.
func Auth(authn services.Authenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ah := r.Header.Get("Authorization")
			if len(ah) < len("Bearer ") || !strings.EqualFold(ah[:len("Bearer ")], "bearer ") {
				types.WriteError(w, r, errNoToken)
				return
			}
			uid, err := authn.Authenticate(strings.TrimSpace(ah[len("Bearer "):]))
			if err != nil {
				types.WriteError(w, r, err)
				return
			}
			ctx := context.WithValue(r.Context(), UserIDKey, uid)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserID returns the authenticated user, if any.
func GetUserID(ctx context.Context) (uuid.UUID, bool) {
	uid, ok := ctx.Value(UserIDKey).(uuid.UUID)
	return uid, ok
}
