package entity

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage is one free-chat turn persisted for the lead's transcript.
type ChatMessage struct {
	Id        uuid.UUID
	Chat      string
	Role      string
	LeadId    uuid.UUID
	CreatedAt time.Time
}
