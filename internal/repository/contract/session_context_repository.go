package contract

import (
	"context"

	"lead-chatbot-be/pkg/store"
)

// SessionContextRepository stores the per-browser conversational context with
// a short TTL. Backed by redis in production, an in-process cache otherwise.
type SessionContextRepository interface {
	Save(ctx context.Context, session *store.SessionContext) error
	Get(ctx context.Context, sessionID string) (*store.SessionContext, bool, error)
	Delete(ctx context.Context, sessionID string) error
}
