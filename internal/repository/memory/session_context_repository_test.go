package memory

import (
	"context"
	"testing"

	"lead-chatbot-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionContextRoundTrip(t *testing.T) {
	repo := NewSessionContextRepository()
	ctx := context.Background()

	sessionID := uuid.NewString()
	session := store.NewSessionContext(sessionID)
	session.AwaitingService = true

	require.NoError(t, repo.Save(ctx, session))

	got, found, err := repo.Get(ctx, sessionID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, sessionID, got.SessionID)
	assert.Equal(t, sessionID, got.LeadID)
	assert.True(t, got.AwaitingService)

	require.NoError(t, repo.Delete(ctx, sessionID))

	_, found, err = repo.Get(ctx, sessionID)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestGetUnknownSession(t *testing.T) {
	repo := NewSessionContextRepository()

	got, found, err := repo.Get(context.Background(), uuid.NewString())
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, got)
}
