package services

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/internal/models"
)

// The apply* functions are the slot state machine. They only touch the slot
// they are given and run inside SlotRepository.Mutate, so whatever they
// observe is the committed state at the time of the write.

var errNoTransition = errors.New("no schedule transition due")

func applyJoin(s *models.Slot, userID uuid.UUID, now time.Time) error {
	if s.Status != models.SlotOpen {
		return ErrSlotNotOpen
	}
	if s.HasPlayer(userID) {
		return ErrAlreadyJoined
	}
	if len(s.Players) >= s.Capacity {
		return ErrSlotFull
	}
	if err := checkEligibility(s, userID); err != nil {
		return err
	}

	s.AddPlayer(userID, now)
	if len(s.Players) >= s.Capacity {
		s.Status = models.SlotFilled
	}
	return nil
}

// checkEligibility is where skill and gender requirements would be enforced.
// Slots declare them for display and filtering only, so everyone may join.
func checkEligibility(*models.Slot, uuid.UUID) error {
	return nil
}

func applyLeave(s *models.Slot, userID uuid.UUID) error {
	if s.CreatorID == userID {
		return ErrCreatorCannotLeave
	}
	if !s.RemovePlayer(userID) {
		return ErrNotAMember
	}
	if s.Status == models.SlotFilled && len(s.Players) < s.Capacity {
		s.Status = models.SlotOpen
	}
	return nil
}

func applyCancel(s *models.Slot, userID uuid.UUID) error {
	if s.CreatorID != userID {
		return ErrNotSlotCreator
	}
	switch s.Status {
	case models.SlotCancelled:
		return ErrAlreadyCancelled
	case models.SlotCompleted:
		return ErrAlreadyCompleted
	}
	s.Status = models.SlotCancelled
	return nil
}

// applySchedule moves a started slot to Ongoing and a finished one to
// Completed. A slot whose whole window passed between sweeps goes straight to
// Completed.
func applySchedule(s *models.Slot, now time.Time) error {
	switch s.Status {
	case models.SlotOpen, models.SlotFilled:
		switch {
		case !now.Before(s.EndsAt()):
			s.Status = models.SlotCompleted
		case !now.Before(s.TimeStart):
			s.Status = models.SlotOngoing
		default:
			return errNoTransition
		}
	case models.SlotOngoing:
		if now.Before(s.EndsAt()) {
			return errNoTransition
		}
		s.Status = models.SlotCompleted
	default:
		return errNoTransition
	}
	return nil
}
