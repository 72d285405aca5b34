// Package account removes user accounts without losing their orders.
// Before a user row is deleted, every order it owns is handed over to a
// well-known placeholder user that is created on first use.
package account

import (
	"context"
	"errors"
	"fmt"

	"github.com/iliyamo/airline-booking/internal/model"
)

// ErrUserNotFound is returned when the user to delete does not exist.
var ErrUserNotFound = errors.New("user not found")

// ErrSentinel is returned when asked to delete the placeholder itself.
var ErrSentinel = errors.New("the deleted-user placeholder cannot be deleted")

// Tx is the unit of work needed to remove a user.  FindUserIDByEmail
// reports found=false rather than an error when no row matches.
type Tx interface {
	UserExists(ctx context.Context, id uint64) (bool, error)
	FindUserIDByEmail(ctx context.Context, email string) (id uint64, found bool, err error)
	CreatePlaceholderUser(ctx context.Context, email string) (uint64, error)
	ReassignOrders(ctx context.Context, fromUserID, toUserID uint64) (int64, error)
	DeleteRefreshTokens(ctx context.Context, userID uint64) error
	DeleteUser(ctx context.Context, userID uint64) error
}

// Store opens transactions for Remover.
type Store interface {
	InTx(ctx context.Context, fn func(tx Tx) error) error
}

// Remover deletes users.
type Remover struct {
	store Store
}

// NewRemover returns a Remover backed by store.
func NewRemover(store Store) *Remover {
	return &Remover{store: store}
}

// Delete removes userID in one transaction and returns how many orders
// were moved to the placeholder account.
func (r *Remover) Delete(ctx context.Context, userID uint64) (int64, error) {
	var moved int64
	err := r.store.InTx(ctx, func(tx Tx) error {
		ok, err := tx.UserExists(ctx, userID)
		if err != nil {
			return err
		}
		if !ok {
			return ErrUserNotFound
		}
		placeholder, err := ensurePlaceholder(ctx, tx)
		if err != nil {
			return err
		}
		if placeholder == userID {
			return ErrSentinel
		}
		if moved, err = tx.ReassignOrders(ctx, userID, placeholder); err != nil {
			return fmt.Errorf("reassign orders: %w", err)
		}
		if err := tx.DeleteRefreshTokens(ctx, userID); err != nil {
			return fmt.Errorf("delete refresh tokens: %w", err)
		}
		if err := tx.DeleteUser(ctx, userID); err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return moved, nil
}

// ensurePlaceholder returns the id of the deleted-user account, creating
// it when it does not exist yet.
func ensurePlaceholder(ctx context.Context, tx Tx) (uint64, error) {
	id, found, err := tx.FindUserIDByEmail(ctx, model.DeletedUserEmail)
	if err != nil {
		return 0, err
	}
	if found {
		return id, nil
	}
	id, err = tx.CreatePlaceholderUser(ctx, model.DeletedUserEmail)
	if err != nil {
		return 0, fmt.Errorf("create placeholder user: %w", err)
	}
	return id, nil
}
