package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/aws/aws-lambda-go/events"
	"github.com/google/uuid"

	"github.com/promodeagro/packer-workflow/internal/notifications"
	"github.com/promodeagro/packer-workflow/internal/workflow"
)

// notificationWriter is the slice of the notifications store the processor needs.
type notificationWriter interface {
	Create(ctx context.Context, n notifications.Notification) error
}

// Processor turns order-packed events into notification records.
type Processor struct {
	notifications notificationWriter
}

// NewProcessor creates a worker processor writing to the given store.
func NewProcessor(store notificationWriter) *Processor {
	return &Processor{notifications: store}
}

// Handle receives an SQS batch event and processes each message.
func (p *Processor) Handle(ctx context.Context, ev events.SQSEvent) error {
	for _, rec := range ev.Records {
		if err := p.processMessage(ctx, rec); err != nil {
			// Return error: Lambda will retry. If failed too many times, message goes to DLQ.
			log.Printf("worker error: %v", err)
			return err
		}
	}
	return nil
}

func (p *Processor) processMessage(ctx context.Context, rec events.SQSMessage) error {
	var ev workflow.PackedEvent
	if err := json.Unmarshal([]byte(rec.Body), &ev); err != nil {
		return fmt.Errorf("invalid message body: %w", err)
	}
	if ev.OrderID == "" {
		return fmt.Errorf("packed event without order id: %s", rec.Body)
	}

	log.Printf("[worker] received packed event order=%s packed_by=%s", ev.OrderID, ev.PackedBy)

	n := notifications.Notification{
		ID:      uuid.NewString(),
		UserID:  ev.PackedBy,
		OrderID: ev.OrderID,
		Message: fmt.Sprintf("Order %s packed at %s", ev.OrderID, ev.PackedAt),
	}
	if err := p.notifications.Create(ctx, n); err != nil {
		return fmt.Errorf("write notification for order %s: %w", ev.OrderID, err)
	}

	log.Printf("[worker] notification stored order=%s user=%s", ev.OrderID, ev.PackedBy)
	return nil
}
