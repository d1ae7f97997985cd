package audit

import "time"

// Action names a domain event worth keeping a trail for.
type Action string

const (
	ActionProfileSignedUp   Action = "profile.signed_up"
	ActionProfileVerified   Action = "profile.verified"
	ActionProfileRejected   Action = "profile.rejected"
	ActionUniversityCreated Action = "university.created"
	ActionBadgeAwarded      Action = "badge.awarded"
)

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp time.Time `json:"timestamp"`
	ActorID   string    `json:"actor_id"`
	SubjectID string    `json:"subject_id"`
	Action    Action    `json:"action"`
	Reason    string    `json:"reason,omitempty"`
}
