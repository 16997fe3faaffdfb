package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"github.com/CoderHarshaVardhan/playX/internal/api/types"
	"github.com/CoderHarshaVardhan/playX/pkg/logger"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

// Recovery logs panics and returns 500 with a generic message.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logger.Ctx(r.Context()).Error("panic recovered", zap.Any("panic", rec), zap.ByteString("stack", debug.Stack()))
				types.WriteError(w, r, appErr.New(appErr.CodeInternal, "panic"))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
