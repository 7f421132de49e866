package memory

import (
	"context"
	"time"

	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/pkg/store"

	"github.com/patrickmn/go-cache"
)

// SessionTTL matches the 15 minute session cookie lifetime.
const SessionTTL = 15 * time.Minute

// SessionContextRepository keeps session contexts in process memory.
// Used when no redis is configured; contexts do not survive a restart.
type SessionContextRepository struct {
	cache *cache.Cache
}

func NewSessionContextRepository() *SessionContextRepository {
	c := cache.New(SessionTTL, 10*time.Minute)
	return &SessionContextRepository{
		cache: c,
	}
}

var _ contract.SessionContextRepository = &SessionContextRepository{}

func (r *SessionContextRepository) Save(_ context.Context, session *store.SessionContext) error {
	r.cache.Set(session.SessionID, session, cache.DefaultExpiration)
	return nil
}

func (r *SessionContextRepository) Get(_ context.Context, sessionID string) (*store.SessionContext, bool, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.SessionContext), true, nil
	}
	return nil, false, nil
}

func (r *SessionContextRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
