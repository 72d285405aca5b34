package model

import "time"

// Roles stored in users.role.  Catalog writes require RoleAdmin.
const (
	RoleAdmin    = "ADMIN"
	RoleCustomer = "CUSTOMER"
)

// DeletedUserEmail identifies the placeholder account that inherits the
// orders of deleted users.
const DeletedUserEmail = "deleted_user@airport.com"

// User represents an application user record as stored in the `users`
// table.  PasswordHash is empty for the deleted-user placeholder, which
// can never log in.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	FirstName    string    // users.first_name
	LastName     string    // users.last_name
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	IsActive     bool      // users.is_active
	CreatedAt    time.Time // users.created_at
	UpdatedAt    time.Time // users.updated_at
}
