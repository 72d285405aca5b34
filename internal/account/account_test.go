package account

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/airline-booking/internal/model"
)

// fakeDB keeps users by id and order owners by order id.  InTx works on a
// copy and swaps it in only on success.
type fakeDB struct {
	users  map[uint64]string
	orders map[uint64]uint64
	tokens map[uint64]int
	nextID uint64
	failOn string
}

func newFakeDB() *fakeDB {
	return &fakeDB{users: map[uint64]string{}, orders: map[uint64]uint64{}, tokens: map[uint64]int{}}
}

func (db *fakeDB) addUser(email string) uint64 {
	db.nextID++
	db.users[db.nextID] = email
	return db.nextID
}

func (db *fakeDB) clone() *fakeDB {
	c := &fakeDB{users: map[uint64]string{}, orders: map[uint64]uint64{}, tokens: map[uint64]int{}, nextID: db.nextID, failOn: db.failOn}
	for k, v := range db.users {
		c.users[k] = v
	}
	for k, v := range db.orders {
		c.orders[k] = v
	}
	for k, v := range db.tokens {
		c.tokens[k] = v
	}
	return c
}

func (db *fakeDB) InTx(_ context.Context, fn func(tx Tx) error) error {
	work := db.clone()
	if err := fn(work); err != nil {
		return err
	}
	*db = *work
	return nil
}

func (db *fakeDB) UserExists(_ context.Context, id uint64) (bool, error) {
	_, ok := db.users[id]
	return ok, nil
}

func (db *fakeDB) FindUserIDByEmail(_ context.Context, email string) (uint64, bool, error) {
	for id, e := range db.users {
		if e == email {
			return id, true, nil
		}
	}
	return 0, false, nil
}

func (db *fakeDB) CreatePlaceholderUser(_ context.Context, email string) (uint64, error) {
	return db.addUser(email), nil
}

func (db *fakeDB) ReassignOrders(_ context.Context, from, to uint64) (int64, error) {
	var n int64
	for id, owner := range db.orders {
		if owner == from {
			db.orders[id] = to
			n++
		}
	}
	return n, nil
}

func (db *fakeDB) DeleteRefreshTokens(_ context.Context, userID uint64) error {
	delete(db.tokens, userID)
	return nil
}

func (db *fakeDB) DeleteUser(_ context.Context, userID uint64) error {
	if db.failOn == "delete" {
		return errors.New("lock wait timeout")
	}
	delete(db.users, userID)
	return nil
}

func TestRemover_ReassignsOrdersToPlaceholder(t *testing.T) {
	db := newFakeDB()
	alice := db.addUser("alice@test.com")
	bob := db.addUser("bob@test.com")
	db.orders[1] = alice
	db.orders[2] = alice
	db.orders[3] = bob
	db.tokens[alice] = 2

	moved, err := NewRemover(db).Delete(context.Background(), alice)
	require.NoError(t, err)
	assert.Equal(t, int64(2), moved)

	placeholder, found, _ := db.FindUserIDByEmail(context.Background(), model.DeletedUserEmail)
	require.True(t, found)
	assert.Equal(t, placeholder, db.orders[1])
	assert.Equal(t, placeholder, db.orders[2])
	assert.Equal(t, bob, db.orders[3])
	assert.NotContains(t, db.users, alice)
	assert.NotContains(t, db.tokens, alice)
	assert.Len(t, db.orders, 3, "no order is deleted")
}

func TestRemover_ReusesExistingPlaceholder(t *testing.T) {
	db := newFakeDB()
	placeholder := db.addUser(model.DeletedUserEmail)
	carol := db.addUser("carol@test.com")
	db.orders[9] = carol

	_, err := NewRemover(db).Delete(context.Background(), carol)
	require.NoError(t, err)
	assert.Equal(t, placeholder, db.orders[9])
	assert.Len(t, db.users, 1)
}

func TestRemover_Errors(t *testing.T) {
	db := newFakeDB()
	placeholder := db.addUser(model.DeletedUserEmail)

	_, err := NewRemover(db).Delete(context.Background(), 404)
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = NewRemover(db).Delete(context.Background(), placeholder)
	assert.ErrorIs(t, err, ErrSentinel)
	assert.Contains(t, db.users, placeholder)
}

func TestRemover_RollsBackOnFailure(t *testing.T) {
	db := newFakeDB()
	dave := db.addUser("dave@test.com")
	db.orders[1] = dave
	db.failOn = "delete"

	_, err := NewRemover(db).Delete(context.Background(), dave)
	require.Error(t, err)
	assert.Equal(t, dave, db.orders[1])
	_, found, _ := db.FindUserIDByEmail(context.Background(), model.DeletedUserEmail)
	assert.False(t, found, "placeholder creation is rolled back too")
}
