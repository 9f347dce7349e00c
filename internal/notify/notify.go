package notify

import (
	"context"
	"log"

	"github.com/Domenick1991/airfleet/internal/kafka"
)

// Notifier relays record-change events to operators. Currently a log
// sink consumed by the worker binary.
type Notifier struct{}

func NewNotifier() *Notifier {
	return &Notifier{}
}

func (n *Notifier) Notify(ctx context.Context, event kafka.RecordEvent) error {
	log.Printf("record event %s: %s %s id=%d at %s", event.EventID, event.Type, event.Entity, event.RecordID, event.OccurredAt.Format("2006-01-02 15:04:05"))
	return nil
}
