package entity

import (
	"time"

	"github.com/google/uuid"
)

// Lead is the intake record built up by the onboarding dialogue. Its id is
// seeded from the session that first created it; returning visitors are
// re-keyed onto the existing record by email.
type Lead struct {
	Id    uuid.UUID
	Email string
	// Name is set exactly once, during the AwaitingName step.
	Name *string
	// Services grows monotonically with set semantics.
	Services  []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasName reports whether the name step has completed.
func (l *Lead) HasName() bool {
	return l.Name != nil && *l.Name != ""
}

// HasService reports whether service is already recorded on the lead.
func (l *Lead) HasService(service string) bool {
	for _, s := range l.Services {
		if s == service {
			return true
		}
	}
	return false
}
