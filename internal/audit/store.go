package audit

import "context"

// Store is an append-only event sink. Audit history is never mutated.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListBySubject(ctx context.Context, subjectID string) ([]Event, error)
}
