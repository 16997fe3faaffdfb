package types

import (
	"context"
	"errors"
	"net/http"

	"github.com/CoderHarshaVardhan/playX/pkg/logger"
	appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"
)

const internalMessage = "Something went wrong, please try again."

// FromAppError converts err to a status and a client-safe error body.
// Internal failures never expose the wrapped cause.
func FromAppError(err error) (int, *APIError) {
	if err == nil {
		return http.StatusOK, nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, &APIError{Code: string(appErr.CodeDeadline), Message: "Request timed out."}
	}

	var e *appErr.AppError
	if !errors.As(err, &e) {
		return http.StatusInternalServerError, &APIError{Code: string(appErr.CodeInternal), Message: internalMessage}
	}

	status := appErr.HTTPStatus(e.Code)
	if status >= http.StatusInternalServerError {
		return status, &APIError{Code: string(e.Code), Message: internalMessage}
	}
	return status, &APIError{Code: string(e.Code), Message: e.Message, Details: e.Meta}
}

func metaFor(r *http.Request) *Meta {
	if r == nil {
		return nil
	}
	if id := logger.RequestID(r.Context()); id != "" {
		return &Meta{RequestID: id}
	}
	return nil
}
