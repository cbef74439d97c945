package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
)

// Service resolves sessions written by the authentication frontend into user ids.
type Service struct {
	sessionRepo SessionRepository
	clock       clockwork.Clock
}

func NewService(sessionRepo SessionRepository, clock clockwork.Clock) *Service {
	return &Service{
		sessionRepo: sessionRepo,
		clock:       clock,
	}
}

const DefaultSessionDuration = 30 * 24 * time.Hour

func (svc *Service) CreateSession(ctx context.Context, userID string, duration time.Duration) (*Session, error) {
	if userID == "" {
		return nil, errors.New("user id is required")
	}

	timeNow := svc.clock.Now().UTC()

	session := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: timeNow,
		ExpiresAt: timeNow.Add(duration),
	}

	err := svc.sessionRepo.Insert(ctx, session)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	return session, nil
}

// GetSession returns a live session. Expired sessions are deleted on sight.
func (svc *Service) GetSession(ctx context.Context, sessionID string) (*Session, error) {
	session, err := svc.sessionRepo.Find(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if session.ExpiresAt.Before(svc.clock.Now()) {
		err = svc.sessionRepo.Delete(ctx, sessionID)
		if err != nil {
			slog.ErrorContext(ctx, "failed to delete expired session", "sessionId", sessionID, "error", err)
		}

		return nil, &SessionExpiredError{ID: sessionID}
	}

	return session, nil
}

func (svc *Service) DeleteSession(ctx context.Context, sessionID string) error {
	err := svc.sessionRepo.Delete(ctx, sessionID)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
