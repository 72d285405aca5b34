package repository

import (
	"context"
	"database/sql"
	"time"
)

// TokenRepo keeps refresh tokens.  Only the SHA-256 hash of a token is
// stored; a token is usable while revoked_at is NULL and expires_at lies
// in the future.
type TokenRepo struct{ DB *sql.DB }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

func (r *TokenRepo) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES (?, ?, ?)`, userID, tokenHash, exp.UTC())
	return classify(err)
}

// ValidateRefresh returns the owner of a usable token, or ErrNotFound for
// unknown, revoked and expired tokens alike.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	var userID uint64
	err := r.DB.QueryRowContext(ctx, `
		SELECT user_id FROM refresh_tokens
		WHERE token_hash = ? AND revoked_at IS NULL AND expires_at > UTC_TIMESTAMP()
		LIMIT 1`, tokenHash).Scan(&userID)
	if err != nil {
		return 0, classify(err)
	}
	return userID, nil
}

// RevokeByHash revokes one token.  Revoking an already revoked token is a
// no-op.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	return r.revoke(ctx, "token_hash = ?", tokenHash)
}

// RevokeAllForUser revokes every active token of a user, e.g. after a
// password change.
func (r *TokenRepo) RevokeAllForUser(ctx context.Context, userID uint64) error {
	return r.revoke(ctx, "user_id = ?", userID)
}

func (r *TokenRepo) revoke(ctx context.Context, where string, arg any) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at = UTC_TIMESTAMP() WHERE revoked_at IS NULL AND "+where, arg)
	return classify(err)
}
