// Package repository implements MySQL persistence for the airline
// catalog, users and orders.  Driver failures are mapped onto the
// sentinels below so handlers can pick a status code without looking at
// MySQL error numbers.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when the addressed row does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when a write violates a unique key or points
// at a row that does not exist.
var ErrConflict = errors.New("conflict")

// ErrProtected is returned when a delete is blocked by rows that still
// reference the target, such as an airplane assigned to flights.
var ErrProtected = errors.New("protected by existing references")

// ErrTicketsOutsideGrid is returned when an airplane change would leave
// sold tickets beyond the last row or seat of the grid.
var ErrTicketsOutsideGrid = fmt.Errorf("%w: sold tickets lie outside the new seat grid", ErrProtected)

// ErrEmailExists is returned when registering an email that is taken.
var ErrEmailExists = errors.New("email already exists")

// MySQL server error numbers the repositories react to.
const (
	errDupEntry        = 1062
	errRowIsReferenced = 1451
	errNoReferencedRow = 1452
	errLockWaitTimeout = 1205
	errLockDeadlock    = 1213
)

func mysqlNumber(err error) uint16 {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number
	}
	return 0
}

// IsDuplicate reports whether err is a unique key violation.
func IsDuplicate(err error) bool { return mysqlNumber(err) == errDupEntry }

// IsContention reports whether err is a deadlock or lock wait timeout.
func IsContention(err error) bool {
	n := mysqlNumber(err)
	return n == errLockDeadlock || n == errLockWaitTimeout
}

// classify maps driver errors of writes and lookups onto sentinels.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	switch mysqlNumber(err) {
	case errDupEntry, errNoReferencedRow:
		return ErrConflict
	case errRowIsReferenced:
		return ErrProtected
	}
	return err
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// withTx runs fn inside a transaction, rolling back unless fn and the
// commit both succeed.
func withTx(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

// affectedOrNotFound turns a zero-row UPDATE or DELETE into ErrNotFound.
func affectedOrNotFound(res sql.Result, err error) error {
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// updateExisting distinguishes "nothing changed" from "no such row" for
// UPDATE statements, which MySQL reports identically.
func updateExisting(ctx context.Context, q querier, table string, id uint64, update func() (sql.Result, error)) error {
	res, err := update()
	if err != nil {
		return classify(err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}
	var one int
	return classify(q.QueryRowContext(ctx, "SELECT 1 FROM "+table+" WHERE id=?", id).Scan(&one))
}

func lastID(res sql.Result) (uint64, error) {
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}
