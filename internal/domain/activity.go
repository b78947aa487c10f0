package domain

import (
	"errors"
	"slices"
)

// Activity is an extracurricular offering and its enrolled participants.
type Activity struct {
	Description     string   `yaml:"description"`
	Schedule        string   `yaml:"schedule"`
	MaxParticipants int      `yaml:"max_participants"`
	Participants    []string `yaml:"participants"`
}

// Clone returns a copy that does not share the participants slice.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = slices.Clone(a.Participants)
	if out.Participants == nil {
		out.Participants = []string{}
	}
	return out
}

// HasParticipant reports whether email is enrolled.
func (a Activity) HasParticipant(email string) bool {
	return slices.Contains(a.Participants, email)
}

// Validate checks the invariants a seeded activity must satisfy.
func (a Activity) Validate() error {
	if a.MaxParticipants <= 0 {
		return errors.New("max_participants must be > 0")
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, email := range a.Participants {
		if _, dup := seen[email]; dup {
			return errors.New("duplicate participant " + email)
		}
		seen[email] = struct{}{}
	}
	return nil
}
