package service

import (
	"context"

	"resellscan/internal/dto"
	"resellscan/internal/session"

	"go.uber.org/zap"
)

// SessionService exposes the shared session registration store through
// the API. It is deliberately a thin key-value surface: the conflict
// protocol (check, register, heartbeat-verify) runs in the clients'
// session guards, and the store stays a last-writer-wins registry.
type SessionService struct {
	store  session.Store
	logger *zap.Logger
}

func NewSessionService(store session.Store, logger *zap.Logger) *SessionService {
	return &SessionService{
		store:  store,
		logger: logger,
	}
}

// Current returns the registered session id for a user, or "" when none.
func (s *SessionService) Current(ctx context.Context, userID string) (*dto.SessionResponse, error) {
	sessionID, err := s.store.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &dto.SessionResponse{SessionID: sessionID}, nil
}

// Register overwrites the user's registration with the given session id.
func (s *SessionService) Register(ctx context.Context, userID, sessionID string) error {
	if err := s.store.Put(ctx, userID, sessionID); err != nil {
		return err
	}
	s.logger.Info("session registered",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
	)
	return nil
}

// Unregister removes the registration if it still points at the given
// session id. Also serves as the operator's terminate operation for a
// foreign device's session.
func (s *SessionService) Unregister(ctx context.Context, userID, sessionID string) error {
	if err := s.store.Delete(ctx, userID, sessionID); err != nil {
		return err
	}
	s.logger.Info("session unregistered",
		zap.String("user_id", userID),
		zap.String("session_id", sessionID),
	)
	return nil
}
