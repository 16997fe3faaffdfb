package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/internal/models"
)

// SlotEventType names a slot change broadcast to the slot room.
type SlotEventType string

const (
	EventSlotCreated   SlotEventType = "slot.created"
	EventSlotJoined    SlotEventType = "slot.joined"
	EventSlotFilled    SlotEventType = "slot.filled"
	EventSlotLeft      SlotEventType = "slot.left"
	EventSlotCancelled SlotEventType = "slot.cancelled"
	EventSlotStarted   SlotEventType = "slot.started"
	EventSlotCompleted SlotEventType = "slot.completed"
)

// SlotEvent is the payload delivered to slot room subscribers.
type SlotEvent struct {
	Type        SlotEventType     `json:"type"`
	SlotID      uuid.UUID         `json:"slotId"`
	UserID      *uuid.UUID        `json:"userId,omitempty"`
	Status      models.SlotStatus `json:"status"`
	PlayerCount int               `json:"playerCount"`
	At          time.Time         `json:"at"`
}

// SlotNotifier broadcasts committed slot changes. Delivery is best effort.
type SlotNotifier interface {
	Publish(ctx context.Context, ev SlotEvent) error
}

// NopNotifier drops every event.
type NopNotifier struct{}

func (NopNotifier) Publish(context.Context, SlotEvent) error { return nil }

func newSlotEvent(t SlotEventType, s *models.Slot, userID *uuid.UUID, at time.Time) SlotEvent {
	return SlotEvent{
		Type:        t,
		SlotID:      s.ID,
		UserID:      userID,
		Status:      s.Status,
		PlayerCount: len(s.Players),
		At:          at,
	}
}
