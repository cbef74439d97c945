package auth_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nasermirzaei89/agora/auth"
	authcontext "github.com/nasermirzaei89/agora/auth/context"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memorySessionRepository struct {
	mu       sync.Mutex
	sessions map[string]*auth.Session
}

func (repo *memorySessionRepository) Insert(_ context.Context, session *auth.Session) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	repo.sessions[session.ID] = session

	return nil
}

func (repo *memorySessionRepository) Find(_ context.Context, id string) (*auth.Session, error) {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	session, ok := repo.sessions[id]
	if !ok {
		return nil, &auth.SessionNotFoundError{ID: id}
	}

	return session, nil
}

func (repo *memorySessionRepository) Delete(_ context.Context, id string) error {
	repo.mu.Lock()
	defer repo.mu.Unlock()

	if _, ok := repo.sessions[id]; !ok {
		return &auth.SessionNotFoundError{ID: id}
	}

	delete(repo.sessions, id)

	return nil
}

func TestService_GetSession(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC))
	repo := &memorySessionRepository{sessions: make(map[string]*auth.Session)}
	svc := auth.NewService(repo, clock)

	session, err := svc.CreateSession(ctx, "alice", time.Hour)
	require.NoError(t, err)

	found, err := svc.GetSession(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", found.UserID)

	_, err = svc.GetSession(ctx, "unknown")
	require.Error(t, err)

	notFoundErr := &auth.SessionNotFoundError{}
	require.ErrorAs(t, err, &notFoundErr)

	clock.Advance(2 * time.Hour)

	_, err = svc.GetSession(ctx, session.ID)
	require.Error(t, err)

	expiredErr := &auth.SessionExpiredError{}
	require.ErrorAs(t, err, &expiredErr)

	_, err = repo.Find(ctx, session.ID)
	require.ErrorAs(t, err, &notFoundErr)
}

func TestGetSubject(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	assert.Equal(t, authcontext.Anonymous, authcontext.GetSubject(ctx))
	assert.Equal(t, "bob", authcontext.GetSubject(authcontext.WithSubject(ctx, "bob")))
	assert.Equal(t, authcontext.Anonymous, authcontext.GetSubject(authcontext.WithSubject(ctx, "")))

	_, ok := authcontext.SessionIDFromContext(ctx)
	assert.False(t, ok)

	sessionID, ok := authcontext.SessionIDFromContext(authcontext.WithSessionID(ctx, "s1"))
	assert.True(t, ok)
	assert.Equal(t, "s1", sessionID)
}
