package upload

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/evermediavault/vault-admin/internal/constants"
	"github.com/evermediavault/vault-admin/internal/events"
	"github.com/evermediavault/vault-admin/internal/models"
)

// ErrEngineClosed is returned by Register and Submit after Close.
var ErrEngineClosed = errors.New("upload engine is closed")

// Uploader is the black-box transfer primitive driving one item to the
// backend: submit file, eventually success or failure.
type Uploader interface {
	UploadItem(ctx context.Context, providerID int64, categoryUID string, item Item) (*models.FileRecord, error)
}

// Result is the terminal partition of one submission. Successful and
// failed are disjoint and exhaustive over the batch, in registration
// order; both are empty for an empty submission.
type Result struct {
	Successful []events.ItemOutcome
	Failed     []events.ItemOutcome
	Duration   time.Duration
}

// Submission is a handle on one in-flight batch.
type Submission struct {
	BatchID string

	done   chan struct{}
	result *Result
}

// Wait blocks until the submission reaches its terminal partition or ctx
// is cancelled.
func (s *Submission) Wait(ctx context.Context) (*Result, error) {
	select {
	case <-s.done:
		return s.result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Engine owns a queue of pending file transfers, enforces a bounded
// concurrency limit, and emits the upload lifecycle events. One engine
// instance per active upload surface; its queue is not meant to be shared
// across surfaces.
type Engine struct {
	uploader Uploader
	bus      *events.Bus

	// semaphore bounds in-flight items engine-wide: concurrent
	// submissions draw from the same slots, never from a fresh set.
	semaphore chan struct{}

	mu      sync.Mutex
	pending []*Item // FIFO by registration order
	count   int     // live registered-item count, updated synchronously
	closed  bool

	cancelMu sync.Mutex
	cancels  []context.CancelFunc
}

// NewEngine creates an engine driving transfers through uploader with at
// most limit concurrent in-flight items (default 4 when limit <= 0). The
// limit applies across all submissions on this engine.
func NewEngine(uploader Uploader, limit int) *Engine {
	if limit <= 0 {
		limit = constants.DefaultUploadConcurrency
	}
	return &Engine{
		uploader:  uploader,
		bus:       events.NewBus(0),
		semaphore: make(chan struct{}, limit),
	}
}

// Events returns the engine's event bus for subscriptions.
func (e *Engine) Events() *events.Bus {
	return e.bus
}

// Register adds a pending item. No network activity starts until Submit.
func (e *Engine) Register(source FileSource, displayName string, metadata []models.MetaEntry) (*Item, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrEngineClosed
	}

	item := &Item{
		ID:          uuid.NewString(),
		Source:      source,
		DisplayName: displayName,
		Metadata:    metadata,
	}
	e.pending = append(e.pending, item)
	e.count++
	return item, nil
}

// Remove drops a pending item from the selection. Returns false when the
// item is unknown or already submitted.
func (e *Engine) Remove(itemID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, item := range e.pending {
		if item.ID == itemID {
			e.pending = append(e.pending[:i], e.pending[i+1:]...)
			e.count--
			return true
		}
	}
	return false
}

// Count returns the live number of registered, not-yet-terminal items.
// It updates synchronously on every add/remove so UI affordances stay
// correct without polling.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// Submit begins transferring all currently pending items against the
// given provider (and optional category). Items go in-flight in FIFO
// registration order, at most the configured limit at a time; items
// beyond the limit wait in order. Completion order is not guaranteed to
// match submission order — consumers reconcile by item identity.
//
// The batch-level complete event fires exactly once, strictly after all
// per-item terminal events, even when every item failed and even for an
// empty submission (which also emits no start event).
//
// Submitting while a prior batch is still in flight is permitted; the
// batches share the uploader and the concurrency slots, so their combined
// in-flight items never exceed the configured limit.
func (e *Engine) Submit(ctx context.Context, providerID int64, categoryUID string) (*Submission, error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, ErrEngineClosed
	}
	items := e.pending
	e.pending = nil
	e.mu.Unlock()

	// Precondition check before anything touches the network.
	batch := Batch{ProviderID: providerID, CategoryUID: categoryUID}
	for _, item := range items {
		batch.Items = append(batch.Items, *item)
	}
	if err := batch.Validate(); err != nil {
		// Items stay registered so the caller can fix the selection.
		e.mu.Lock()
		e.pending = append(items, e.pending...)
		e.mu.Unlock()
		return nil, err
	}

	sub := &Submission{
		BatchID: uuid.NewString(),
		done:    make(chan struct{}),
	}

	ctx, cancel := context.WithCancel(ctx)
	e.trackCancel(cancel)

	go e.run(ctx, cancel, sub, providerID, categoryUID, items)
	return sub, nil
}

// run drives one submission to its terminal partition.
func (e *Engine) run(ctx context.Context, cancel context.CancelFunc, sub *Submission, providerID int64, categoryUID string, items []*Item) {
	defer cancel()
	started := time.Now()

	outcomes := make([]events.ItemOutcome, len(items))
	failed := make([]bool, len(items))

	if len(items) > 0 {
		e.bus.Publish(&events.UploadStartedEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventUploadStarted, Time: time.Now()},
			BatchID:   sub.BatchID,
			Items:     len(items),
		})
	}

	var wg sync.WaitGroup

	for i, item := range items {
		// Acquire in the dispatch loop so items go in-flight strictly in
		// registration order. The slots are engine-wide, so a sibling
		// submission's in-flight items count against the same bound.
		select {
		case e.semaphore <- struct{}{}:
		case <-ctx.Done():
			outcome := events.ItemOutcome{ItemID: item.ID, Name: item.FieldName(), Err: ctx.Err()}
			failed[i] = true
			outcomes[i] = outcome
			e.publishTerminal(sub.BatchID, outcome, false)
			e.release()
			continue
		}
		wg.Add(1)

		go func(i int, item *Item) {
			defer wg.Done()
			defer func() { <-e.semaphore }()

			record, err := e.uploader.UploadItem(ctx, providerID, categoryUID, *item)

			outcome := events.ItemOutcome{ItemID: item.ID, Name: item.FieldName()}
			if err != nil {
				// A failed item never aborts its siblings.
				outcome.Err = err
				failed[i] = true
				outcomes[i] = outcome
				e.publishTerminal(sub.BatchID, outcome, false)
			} else {
				outcome.Record = record
				outcomes[i] = outcome
				e.publishTerminal(sub.BatchID, outcome, true)
			}

			e.release()
		}(i, item)
	}

	wg.Wait()

	result := &Result{Duration: time.Since(started)}
	result.Successful = make([]events.ItemOutcome, 0, len(items))
	result.Failed = make([]events.ItemOutcome, 0)
	for i := range outcomes {
		if failed[i] {
			result.Failed = append(result.Failed, outcomes[i])
		} else {
			result.Successful = append(result.Successful, outcomes[i])
		}
	}

	e.bus.Publish(&events.BatchCompleteEvent{
		BaseEvent:  events.BaseEvent{EventType: events.EventBatchComplete, Time: time.Now()},
		BatchID:    sub.BatchID,
		Successful: result.Successful,
		Failed:     result.Failed,
		Duration:   result.Duration,
	})

	sub.result = result
	close(sub.done)
}

func (e *Engine) publishTerminal(batchID string, outcome events.ItemOutcome, succeeded bool) {
	if succeeded {
		e.bus.Publish(&events.ItemSucceededEvent{
			BaseEvent: events.BaseEvent{EventType: events.EventItemSucceeded, Time: time.Now()},
			BatchID:   batchID,
			Outcome:   outcome,
		})
		return
	}
	e.bus.Publish(&events.ItemFailedEvent{
		BaseEvent: events.BaseEvent{EventType: events.EventItemFailed, Time: time.Now()},
		BatchID:   batchID,
		Outcome:   outcome,
	})
}

// release drops a terminal item from the live count.
func (e *Engine) release() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.count > 0 {
		e.count--
	}
}

func (e *Engine) trackCancel(cancel context.CancelFunc) {
	e.cancelMu.Lock()
	defer e.cancelMu.Unlock()
	e.cancels = append(e.cancels, cancel)
}

// Close tears the engine down: no further registrations or submissions,
// no further events, and pending dispatches are cancelled. Cancellation
// is best-effort — transfers already handed to the network layer may
// still complete on the backend.
func (e *Engine) Close() {
	e.mu.Lock()
	e.closed = true
	e.pending = nil
	e.count = 0
	e.mu.Unlock()

	e.cancelMu.Lock()
	cancels := e.cancels
	e.cancels = nil
	e.cancelMu.Unlock()
	for _, cancel := range cancels {
		cancel()
	}

	e.bus.Close()
}
