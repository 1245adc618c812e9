package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/visage-campus/visage-backend/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated     EventType = "user_created"
	EventUserUpdated     EventType = "user_updated"
	EventUserDeleted     EventType = "user_deleted"
	EventProfileUpdated  EventType = "profile_updated"
	EventPasswordChanged EventType = "password_changed"
	EventLoginSucceeded  EventType = "login_succeeded"
	EventLoginFailed     EventType = "login_failed"
)

// Actor encapsulates actor metadata for an event. Zero for unauthenticated callers.
type Actor struct {
	UserID   int64           `json:"user_id,omitempty"`
	Username string          `json:"username,omitempty"`
	Role     domain.RoleName `json:"role,omitempty"`
}

// Event represents an identity lifecycle event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID int64       `json:"subject_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// New stamps an event with a fresh ID and the current time.
func New(eventType EventType, subjectID int64, actor Actor, payload interface{}) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		Actor:     actor,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserChangedPayload lists the columns touched by an update. Values are not included.
type UserChangedPayload struct {
	Fields []string `json:"fields"`
}

// LoginPayload describes an authentication attempt.
type LoginPayload struct {
	IDNumber string `json:"id_number"`
	Reason   string `json:"reason,omitempty"`
}
