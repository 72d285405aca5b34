package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/airline-booking/internal/account"
)

// AccountStore implements account.Store on MySQL.
type AccountStore struct{ db *sql.DB }

func NewAccountStore(db *sql.DB) *AccountStore { return &AccountStore{db: db} }

func (s *AccountStore) InTx(ctx context.Context, fn func(tx account.Tx) error) error {
	return withTx(ctx, s.db, func(tx *sql.Tx) error {
		return fn(accountTx{tx})
	})
}

type accountTx struct{ tx *sql.Tx }

func (a accountTx) UserExists(ctx context.Context, id uint64) (bool, error) {
	var one int
	err := a.tx.QueryRowContext(ctx, "SELECT 1 FROM users WHERE id=? FOR UPDATE", id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	return err == nil, err
}

func (a accountTx) FindUserIDByEmail(ctx context.Context, email string) (uint64, bool, error) {
	var id uint64
	err := a.tx.QueryRowContext(ctx, "SELECT id FROM users WHERE email=? LIMIT 1", email).Scan(&id)
	if err == sql.ErrNoRows {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// CreatePlaceholderUser inserts the inactive account that inherits
// orders.  Its empty password hash never verifies.  When a concurrent
// deletion created it first, the existing id is returned.
func (a accountTx) CreatePlaceholderUser(ctx context.Context, email string) (uint64, error) {
	res, err := a.tx.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, role, is_active) VALUES (?, '', 'CUSTOMER', 0)
		ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)`, email)
	if err != nil {
		return 0, classify(err)
	}
	return lastID(res)
}

func (a accountTx) ReassignOrders(ctx context.Context, from, to uint64) (int64, error) {
	res, err := a.tx.ExecContext(ctx, "UPDATE orders SET user_id=? WHERE user_id=?", to, from)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (a accountTx) DeleteRefreshTokens(ctx context.Context, userID uint64) error {
	_, err := a.tx.ExecContext(ctx, "DELETE FROM refresh_tokens WHERE user_id=?", userID)
	return err
}

func (a accountTx) DeleteUser(ctx context.Context, userID uint64) error {
	return affectedOrNotFound(a.tx.ExecContext(ctx, "DELETE FROM users WHERE id=?", userID))
}
