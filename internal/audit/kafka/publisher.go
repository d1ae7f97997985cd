// Package kafka publishes audit events to a Kafka topic for downstream
// consumers (the mail service reacts to profile.verified, analytics to the
// rest). Delivery is best-effort: a full buffer or a produce failure is
// logged and dropped, never surfaced to the emitting operation.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/twmb/franz-go/pkg/kgo"

	"legacylink/internal/audit"
)

const (
	defaultBuffer = 256
	flushTimeout  = 5 * time.Second
)

// Publisher buffers events on a channel; Run owns the kgo client and
// produces until the context is cancelled.
type Publisher struct {
	client *kgo.Client
	logger *slog.Logger
	inbox  chan audit.Event
}

func NewPublisher(brokers []string, topic string, logger *slog.Logger) (*Publisher, error) {
	client, err := kgo.NewClient(
		kgo.SeedBrokers(brokers...),
		kgo.DefaultProduceTopic(topic),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka client: %w", err)
	}
	return &Publisher{
		client: client,
		logger: logger,
		inbox:  make(chan audit.Event, defaultBuffer),
	}, nil
}

// Emit enqueues an event. Never blocks and never fails: when the buffer is
// full the event is dropped with a warning.
func (p *Publisher) Emit(_ context.Context, event audit.Event) error {
	select {
	case p.inbox <- event:
	default:
		p.logger.Warn("kafka audit buffer full, dropping event",
			"action", event.Action,
			"subject_id", event.SubjectID,
		)
	}
	return nil
}

// Run produces buffered events until ctx is cancelled, then flushes what is
// in flight and closes the client.
func (p *Publisher) Run(ctx context.Context) error {
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), flushTimeout)
		defer cancel()
		if err := p.client.Flush(flushCtx); err != nil {
			p.logger.Warn("kafka flush on shutdown failed", "error", err)
		}
		p.client.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event := <-p.inbox:
			p.produce(ctx, event)
		}
	}
}

func (p *Publisher) produce(ctx context.Context, event audit.Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.logger.Warn("failed to encode audit event", "error", err)
		return
	}
	record := &kgo.Record{
		Key:   []byte(event.SubjectID),
		Value: payload,
	}
	p.client.Produce(ctx, record, func(_ *kgo.Record, err error) {
		if err != nil {
			p.logger.Warn("kafka produce failed",
				"action", event.Action,
				"subject_id", event.SubjectID,
				"error", err,
			)
		}
	})
}
