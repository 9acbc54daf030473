package postgres

import (
	"context"
	"database/sql"
	"encoding/hex"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"
)

type sessionRepository struct {
	db     *sql.DB
	key    [blake2b.Size]byte
	logger *zap.Logger
}

// NewSessionRepository creates a new session repository. Session ids are stored
// as a BLAKE2b MAC keyed by keySalt, never in clear text.
func NewSessionRepository(db *sql.DB, keySalt string, logger *zap.Logger) *sessionRepository {
	return &sessionRepository{
		db:     db,
		key:    blake2b.Sum512([]byte(keySalt)),
		logger: logger,
	}
}

func (r *sessionRepository) digest(sessionID string) string {
	h, err := blake2b.New256(r.key[:])
	if err != nil {
		// key is always 64 bytes, which blake2b accepts
		panic(err)
	}
	h.Write([]byte(sessionID))
	return hex.EncodeToString(h.Sum(nil))
}

func (r *sessionRepository) Get(ctx context.Context, sessionID, key string) (string, error) {
	query := `
		SELECT value
		FROM storefront_sessions
		WHERE session_hash = $1 AND key = $2
	`

	var value string
	err := r.db.QueryRowContext(ctx, query, r.digest(sessionID), key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		r.logger.Error("Failed to get session value", zap.String("key", key), zap.Error(err))
		return "", err
	}

	return value, nil
}

func (r *sessionRepository) Put(ctx context.Context, sessionID, key, value string) error {
	query := `
		INSERT INTO storefront_sessions (session_hash, key, value, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (session_hash, key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`

	_, err := r.db.ExecContext(ctx, query, r.digest(sessionID), key, value, time.Now())
	if err != nil {
		r.logger.Error("Failed to put session value", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, sessionID, key string) error {
	query := `
		DELETE FROM storefront_sessions
		WHERE session_hash = $1 AND key = $2
	`

	_, err := r.db.ExecContext(ctx, query, r.digest(sessionID), key)
	if err != nil {
		r.logger.Error("Failed to delete session value", zap.String("key", key), zap.Error(err))
		return err
	}

	return nil
}
