package services

import appErr "github.com/CoderHarshaVardhan/playX/pkg/errors"

// Slot lifecycle failures. Handlers show Message verbatim to the user.
var (
	ErrSlotNotFound       = appErr.New(appErr.CodeNotFound, "Slot not found.")
	ErrSlotNotOpen        = appErr.New(appErr.CodeInvalidState, "Slot not found or is not open for joining.")
	ErrAlreadyJoined      = appErr.New(appErr.CodeConflict, "You have already joined this slot.")
	ErrSlotFull           = appErr.New(appErr.CodeConflict, "Slot is already full.")
	ErrCreatorCannotLeave = appErr.New(appErr.CodeInvalidState, "Creator cannot leave the slot, they must cancel it.")
	ErrNotAMember         = appErr.New(appErr.CodeInvalidState, "You are not a player in this slot.")
	ErrNotSlotCreator     = appErr.New(appErr.CodeForbidden, "You are not authorized to cancel this slot.")

	// ErrAlreadyTerminal matches both ErrAlreadyCancelled and ErrAlreadyCompleted.
	ErrAlreadyTerminal  = appErr.New(appErr.CodeInvalidState, "Slot is already finished.")
	ErrAlreadyCancelled = appErr.Wrap(ErrAlreadyTerminal, appErr.CodeInvalidState, "Slot is already cancelled.")
	ErrAlreadyCompleted = appErr.Wrap(ErrAlreadyTerminal, appErr.CodeInvalidState, "Slot is already completed.")

	ErrMissingSlotFields = appErr.New(appErr.CodeInvalid, "Missing required slot fields: sport, timeStart, capacity, and location.")
)

// Auth failures.
var (
	ErrEmailTaken         = appErr.New(appErr.CodeAlreadyExists, "Email already registered")
	ErrInvalidCredentials = appErr.New(appErr.CodeInvalid, "Invalid email or password")
	ErrEmailNotVerified   = appErr.New(appErr.CodeUnauthorized, "Please verify your email first")
	ErrInvalidToken       = appErr.New(appErr.CodeInvalid, "Invalid or expired token")
	ErrUnauthenticated    = appErr.New(appErr.CodeUnauthorized, "Not authorized, token failed")
	ErrUserNotFound       = appErr.New(appErr.CodeNotFound, "User not found")
)

func invalid(msg string) error {
	return appErr.New(appErr.CodeInvalid, msg)
}
