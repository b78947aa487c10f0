// Package events defines the participant event payloads published by the registry.
package events

import (
	"time"

	"github.com/google/uuid"
)

// Event types carried in the Kafka "event_type" header.
const (
	TypeParticipantSignedUp     = "participant.signed_up"
	TypeParticipantUnregistered = "participant.unregistered"
)

// ParticipantSignedUp is emitted after an email is appended to an activity.
type ParticipantSignedUp struct {
	EventID    string    `json:"event_id"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ParticipantUnregistered is emitted after an email is removed from an activity.
type ParticipantUnregistered struct {
	EventID    string    `json:"event_id"`
	Activity   string    `json:"activity"`
	Email      string    `json:"email"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Envelope pairs a payload with its routing metadata.
type Envelope struct {
	Type    string
	Key     string
	Payload interface{}
}

// SignedUp builds the envelope for a successful signup.
func SignedUp(activity, email string, at time.Time) Envelope {
	return Envelope{
		Type: TypeParticipantSignedUp,
		Key:  activity,
		Payload: ParticipantSignedUp{
			EventID:    uuid.NewString(),
			Activity:   activity,
			Email:      email,
			OccurredAt: at.UTC(),
		},
	}
}

// Unregistered builds the envelope for a successful unregister.
func Unregistered(activity, email string, at time.Time) Envelope {
	return Envelope{
		Type: TypeParticipantUnregistered,
		Key:  activity,
		Payload: ParticipantUnregistered{
			EventID:    uuid.NewString(),
			Activity:   activity,
			Email:      email,
			OccurredAt: at.UTC(),
		},
	}
}
