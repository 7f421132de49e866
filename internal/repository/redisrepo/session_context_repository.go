package redisrepo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"lead-chatbot-be/internal/repository/contract"
	"lead-chatbot-be/internal/repository/memory"
	"lead-chatbot-be/pkg/store"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "chat:session:"

// SessionContextRepository persists session contexts in redis with the same
// TTL the session cookie carries, so a context outlives process restarts but
// never its cookie.
type SessionContextRepository struct {
	client *redis.Client
}

func NewSessionContextRepository(client *redis.Client) *SessionContextRepository {
	return &SessionContextRepository{
		client: client,
	}
}

var _ contract.SessionContextRepository = &SessionContextRepository{}

func (r *SessionContextRepository) Save(ctx context.Context, session *store.SessionContext) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, keyPrefix+session.SessionID, payload, memory.SessionTTL).Err()
}

func (r *SessionContextRepository) Get(ctx context.Context, sessionID string) (*store.SessionContext, bool, error) {
	payload, err := r.client.Get(ctx, keyPrefix+sessionID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	var session store.SessionContext
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, false, fmt.Errorf("corrupt session payload for %s: %w", sessionID, err)
	}
	return &session, true, nil
}

func (r *SessionContextRepository) Delete(ctx context.Context, sessionID string) error {
	return r.client.Del(ctx, keyPrefix+sessionID).Err()
}
