// Package workflow owns the order fulfillment state machine: per-item
// availability capture, summary aggregation, and the single and bulk
// completion transitions (unpacked -> packed).
package workflow

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"sync"

	"github.com/promodeagro/packer-workflow/internal/errs"
	"github.com/promodeagro/packer-workflow/internal/orders"
)

// OrderStore is the slice of the orders adapter the engine depends on.
type OrderStore interface {
	Get(ctx context.Context, orderID string) (*orders.Order, error)
	QueryByStatus(ctx context.Context, status string, limit int32, token orders.PageToken) ([]orders.Order, orders.PageToken, error)
	UpdateItems(ctx context.Context, orderID string, items []orders.OrderItem, summary orders.PackingSummary) (*orders.Order, error)
	Complete(ctx context.Context, orderID, packedBy, photoURL, videoURL string) (*orders.Order, error)
}

// EventPublisher delivers completion events to the notifications pipeline.
type EventPublisher interface {
	Publish(ctx context.Context, messageBody string, attributes map[string]string) error
}

// MetricsEmitter publishes bulk-run counters.
type MetricsEmitter interface {
	EmitCounts(ctx context.Context, counts map[string]float64) error
}

// PackedEvent is the message published when an order is completed.
type PackedEvent struct {
	OrderID  string `json:"order_id"`
	PackedBy string `json:"packed_by"`
	PackedAt string `json:"packed_at"`
}

// BatchResult accounts for a bulk completion run. Partial failure is an
// expected outcome, not an error: callers retry FailedIDs individually.
type BatchResult struct {
	Attempted    int      `json:"attempted"`
	SucceededIDs []string `json:"succeededIds"`
	FailedIDs    []string `json:"failedIds"`
}

// batchWorkers bounds concurrent Complete calls during a bulk run so a large
// batch cannot flood the store.
const batchWorkers = 4

// Engine drives order status transitions. It holds no state of its own and
// relies on the store's per-request atomicity; there is no revision check,
// so a concurrent external writer can race an update (accepted limitation).
type Engine struct {
	store     OrderStore
	publisher EventPublisher // optional, nil disables events
	metrics   MetricsEmitter // optional, nil disables counters
}

// NewEngine wires an engine to its store. publisher and metrics may be nil.
func NewEngine(store OrderStore, publisher EventPublisher, metrics MetricsEmitter) *Engine {
	return &Engine{
		store:     store,
		publisher: publisher,
		metrics:   metrics,
	}
}

// GetOrder fetches a single order.
func (e *Engine) GetOrder(ctx context.Context, orderID string) (*orders.Order, error) {
	return e.store.Get(ctx, orderID)
}

// RecordItemAvailability records one availability decision on the in-memory
// order. Nothing is persisted until CommitItemAvailability.
func (e *Engine) RecordItemAvailability(o *orders.Order, itemIndex int, decision string) error {
	if decision != orders.AvailabilityAvailable && decision != orders.AvailabilityUnavailable {
		return errs.Validationf("decision must be %q or %q", orders.AvailabilityAvailable, orders.AvailabilityUnavailable)
	}
	if itemIndex < 0 || itemIndex >= len(o.Items) {
		return errs.Validationf("item index %d out of range (order %s has %d items)", itemIndex, o.ID, len(o.Items))
	}
	o.Items[itemIndex].Availability = decision
	return nil
}

// CommitItemAvailability recomputes the packing summary from the current item
// list and persists items and summary together in one write. Call it once per
// packing pass, after all decisions are recorded; there is no mid-pass
// persistence.
func (e *Engine) CommitItemAvailability(ctx context.Context, o *orders.Order) (*orders.Order, error) {
	if len(o.Items) == 0 {
		return nil, errs.Validationf("order %s has no items to pack", o.ID)
	}
	return e.store.UpdateItems(ctx, o.ID, o.Items, Summarize(o.Items))
}

// Summarize aggregates per-item availability decisions. Unset decisions are
// counted implicitly: available + unavailable + unset == total.
func Summarize(items []orders.OrderItem) orders.PackingSummary {
	s := orders.PackingSummary{Total: len(items)}
	for _, item := range items {
		switch item.Availability {
		case orders.AvailabilityAvailable:
			s.Available++
		case orders.AvailabilityUnavailable:
			s.Unavailable++
		}
	}
	return s
}

// CompleteOrder transitions an order to packed. Both proof-of-completion
// URLs are required and validated before any store call. The write itself is
// a single atomic update of status, packer, timestamp and media URLs.
//
// Completion is deliberately not guarded against re-entry: completing an
// already-packed order succeeds and overwrites the prior completion metadata.
func (e *Engine) CompleteOrder(ctx context.Context, orderID, packerID, photoURL, videoURL string) (*orders.Order, error) {
	if strings.TrimSpace(packerID) == "" {
		return nil, errs.Validationf("packer id is required")
	}
	if strings.TrimSpace(photoURL) == "" {
		return nil, errs.Validationf("photo url is required")
	}
	if strings.TrimSpace(videoURL) == "" {
		return nil, errs.Validationf("video url is required")
	}

	updated, err := e.store.Complete(ctx, orderID, packerID, photoURL, videoURL)
	if err != nil {
		return nil, err
	}

	e.publishPacked(ctx, updated)
	return updated, nil
}

// CompleteAllUnpacked applies CompleteOrder to up to maxItems unpacked
// orders, newest first. Orders are completed independently: one failure never
// aborts the rest. The result reports every order either succeeded or failed.
func (e *Engine) CompleteAllUnpacked(ctx context.Context, packerID, photoURL, videoURL string, maxItems int) (BatchResult, error) {
	if strings.TrimSpace(packerID) == "" {
		return BatchResult{}, errs.Validationf("packer id is required")
	}
	if strings.TrimSpace(photoURL) == "" {
		return BatchResult{}, errs.Validationf("photo url is required")
	}
	if strings.TrimSpace(videoURL) == "" {
		return BatchResult{}, errs.Validationf("video url is required")
	}
	if maxItems < 1 {
		return BatchResult{}, errs.Validationf("max items must be at least 1")
	}

	page, _, err := e.store.QueryByStatus(ctx, orders.StatusUnpacked, int32(maxItems), nil)
	if err != nil {
		return BatchResult{}, err
	}

	// bounded fan-out; each slot in failures belongs to one order, so no
	// locking is needed beyond the job channel
	failures := make([]error, len(page))
	jobs := make(chan int)
	var wg sync.WaitGroup
	workers := batchWorkers
	if workers > len(page) {
		workers = len(page)
	}
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				_, err := e.CompleteOrder(ctx, page[i].ID, packerID, photoURL, videoURL)
				failures[i] = err
			}
		}()
	}
	for i := range page {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	result := BatchResult{Attempted: len(page)}
	for i, o := range page {
		if failures[i] != nil {
			log.Printf("[workflow] bulk complete failed order=%s: %v", o.ID, failures[i])
			result.FailedIDs = append(result.FailedIDs, o.ID)
			continue
		}
		result.SucceededIDs = append(result.SucceededIDs, o.ID)
	}

	if e.metrics != nil {
		if err := e.metrics.EmitCounts(ctx, map[string]float64{
			"OrdersPacked":     float64(len(result.SucceededIDs)),
			"OrdersPackFailed": float64(len(result.FailedIDs)),
		}); err != nil {
			log.Printf("[workflow] emit bulk metrics: %v", err)
		}
	}

	return result, nil
}

// publishPacked sends the completion event. Delivery is best-effort; the
// completion itself already committed, so a publish failure is only logged.
func (e *Engine) publishPacked(ctx context.Context, o *orders.Order) {
	if e.publisher == nil {
		return
	}
	event := PackedEvent{OrderID: o.ID, PackedBy: o.PackedBy, PackedAt: o.PackedAt}
	body, err := json.Marshal(event)
	if err != nil {
		log.Printf("[workflow] marshal packed event order=%s: %v", o.ID, err)
		return
	}
	attrs := map[string]string{"order_id": o.ID, "packed_by": o.PackedBy}
	if err := e.publisher.Publish(ctx, string(body), attrs); err != nil {
		log.Printf("[workflow] publish packed event order=%s: %v", o.ID, err)
	}
}
