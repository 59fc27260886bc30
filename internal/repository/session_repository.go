package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// SessionRepository is the SQL-backed session registration store. It
// implements session.Store, so the server-side registry endpoints and the
// guard share the same protocol semantics: plain overwrite on register,
// conditional delete on unregister.
type SessionRepository struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewSessionRepository(db *pgxpool.Pool, logger *zap.Logger) *SessionRepository {
	return &SessionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *SessionRepository) Get(ctx context.Context, userID string) (string, error) {
	query := squirrel.Select("session_id").
		From("sessions").
		Where(squirrel.Eq{"user_id": userID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return "", err
	}

	var sessionID string
	err = r.db.QueryRow(ctx, sql, args...).Scan(&sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	return sessionID, nil
}

func (r *SessionRepository) Put(ctx context.Context, userID, sessionID string) error {
	query := squirrel.Insert("sessions").
		Columns("user_id", "session_id", "updated_at").
		Values(userID, sessionID, time.Now()).
		Suffix("ON CONFLICT (user_id) DO UPDATE SET session_id = EXCLUDED.session_id, updated_at = EXCLUDED.updated_at").
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}

func (r *SessionRepository) Delete(ctx context.Context, userID, sessionID string) error {
	query := squirrel.Delete("sessions").
		Where(squirrel.Eq{"user_id": userID, "session_id": sessionID}).
		PlaceholderFormat(squirrel.Dollar)

	sql, args, err := query.ToSql()
	if err != nil {
		return err
	}

	_, err = r.db.Exec(ctx, sql, args...)
	return err
}
