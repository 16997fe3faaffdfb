package realtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/CoderHarshaVardhan/playX/internal/services"
)

// SlotSubject is the subject carrying events for one slot.
func SlotSubject(id uuid.UUID) string {
	return "slots." + id.String()
}

// Notifier publishes slot events as JSON on the slot's subject.
type Notifier struct {
	broker Broker
}

func NewNotifier(b Broker) *Notifier {
	return &Notifier{broker: b}
}

var _ services.SlotNotifier = (*Notifier)(nil)

func (n *Notifier) Publish(ctx context.Context, ev services.SlotEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal slot event: %w", err)
	}
	if err := n.broker.Publish(SlotSubject(ev.SlotID), data); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	return nil
}
