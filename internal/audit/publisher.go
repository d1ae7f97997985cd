package audit

import (
	"context"
	"sync"
	"time"
)

// Emitter is the interface services depend on. Both the store-backed
// Publisher and the Kafka publisher implement it.
type Emitter interface {
	Emit(ctx context.Context, event Event) error
}

// Publisher captures structured audit events into a Store. By default Emit
// appends synchronously; WithAsyncBuffer moves persistence onto a background
// goroutine so emitting never blocks the request path.
type Publisher struct {
	store Store

	inbox chan Event
	wg    sync.WaitGroup

	closeOnce sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer enables asynchronous persistence with the given buffer
// size. When the buffer is full, Emit blocks rather than drops: audit is a
// trail, not telemetry.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		p.inbox = make(chan Event, size)
	}
}

func NewPublisher(store Store, opts ...PublisherOption) *Publisher {
	p := &Publisher{store: store}
	for _, opt := range opts {
		opt(p)
	}
	if p.inbox != nil {
		p.wg.Add(1)
		go p.drain()
	}
	return p
}

func (p *Publisher) Emit(ctx context.Context, event Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if p.inbox == nil {
		return p.store.Append(ctx, event)
	}
	p.inbox <- event
	return nil
}

// List exposes the trail for a subject.
func (p *Publisher) List(ctx context.Context, subjectID string) ([]Event, error) {
	return p.store.ListBySubject(ctx, subjectID)
}

// Close stops the background goroutine after draining buffered events.
func (p *Publisher) Close() {
	p.closeOnce.Do(func() {
		if p.inbox != nil {
			close(p.inbox)
			p.wg.Wait()
		}
	})
}

func (p *Publisher) drain() {
	defer p.wg.Done()
	for event := range p.inbox {
		// Persistence failures here have no caller to report to; the store
		// logs its own errors and the event is lost.
		_ = p.store.Append(context.Background(), event)
	}
}

// Fanout returns an Emitter that forwards each event to every sink. The
// first error is returned after all sinks have been attempted.
func Fanout(sinks ...Emitter) Emitter {
	return fanout(sinks)
}

type fanout []Emitter

func (f fanout) Emit(ctx context.Context, event Event) error {
	var firstErr error
	for _, sink := range f {
		if sink == nil {
			continue
		}
		if err := sink.Emit(ctx, event); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
