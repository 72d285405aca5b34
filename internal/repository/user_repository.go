package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/airline-booking/internal/model"
	"github.com/iliyamo/airline-booking/internal/utils"
)

// UserRepo reads and writes the users table.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// NewUser carries registration input.  Password is plain text and is
// hashed with the given bcrypt cost before it is stored.
type NewUser struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      string
}

// Create inserts a user and returns its ID.
func (r *UserRepo) Create(ctx context.Context, in NewUser, cost int) (uint64, error) {
	email := normalizeEmail(in.Email)
	hash, err := utils.HashPassword(in.Password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (email, first_name, last_name, password_hash, role) VALUES (?,?,?,?,?)",
		email, in.FirstName, in.LastName, hash, in.Role)
	if err != nil {
		if IsDuplicate(err) {
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return lastID(res)
}

const userColumns = "id,email,first_name,last_name,password_hash,role,is_active,created_at,updated_at"

func scanUser(row *sql.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Email, &u.FirstName, &u.LastName, &u.PasswordHash,
		&u.Role, &u.IsActive, &u.CreatedAt, &u.UpdatedAt)
	return u, classify(err)
}

// GetByEmail fetches a user by normalized email.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", normalizeEmail(email)))
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// ProfileUpdate lists the fields a user may change on their own account.
// Nil fields are left untouched; PasswordHash must already be hashed.
type ProfileUpdate struct {
	FirstName    *string
	LastName     *string
	PasswordHash *string
}

// UpdateProfile applies a partial update to the user's own row.
func (r *UserRepo) UpdateProfile(ctx context.Context, id uint64, up ProfileUpdate) error {
	sets := []string{}
	args := []any{}
	if up.FirstName != nil {
		sets = append(sets, "first_name=?")
		args = append(args, *up.FirstName)
	}
	if up.LastName != nil {
		sets = append(sets, "last_name=?")
		args = append(args, *up.LastName)
	}
	if up.PasswordHash != nil {
		sets = append(sets, "password_hash=?")
		args = append(args, *up.PasswordHash)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)
	return updateExisting(ctx, r.DB, "users", id, func() (sql.Result, error) {
		return r.DB.ExecContext(ctx, "UPDATE users SET "+strings.Join(sets, ",")+" WHERE id=?", args...)
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
