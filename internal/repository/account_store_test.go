package repository

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/airline-booking/internal/account"
	"github.com/iliyamo/airline-booking/internal/model"
)

// Two deletions race to create the placeholder.  The loser's INSERT hits
// the unique email and picks up the winner's id instead of failing.
func TestAccountStore_PlaceholderCreatedConcurrently(t *testing.T) {
	db, m := newMockDB(t)
	m.ExpectBegin()
	m.ExpectQuery(sqlText("SELECT 1 FROM users WHERE id=? FOR UPDATE")).WithArgs(9).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	m.ExpectQuery(sqlText("SELECT id FROM users WHERE email=?")).WithArgs(model.DeletedUserEmail).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	// MySQL reports two affected rows when ON DUPLICATE KEY UPDATE fires.
	m.ExpectExec(sqlText("ON DUPLICATE KEY UPDATE id = LAST_INSERT_ID(id)")).
		WillReturnResult(sqlmock.NewResult(4, 2))
	m.ExpectExec(sqlText("UPDATE orders SET user_id=? WHERE user_id=?")).WithArgs(4, 9).
		WillReturnResult(sqlmock.NewResult(0, 3))
	m.ExpectExec(sqlText("DELETE FROM refresh_tokens")).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectExec(sqlText("DELETE FROM users WHERE id=?")).WithArgs(9).WillReturnResult(sqlmock.NewResult(0, 1))
	m.ExpectCommit()

	moved, err := account.NewRemover(NewAccountStore(db)).Delete(context.Background(), 9)
	require.NoError(t, err)
	assert.Equal(t, int64(3), moved)
}
