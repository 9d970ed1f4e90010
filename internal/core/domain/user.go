package domain

import (
	"errors"
	"time"
)

const (
	RoleStudent = "student"
	RoleStaff   = "staff"
	RoleAdmin   = "admin"
)

var ErrUserNotFound = errors.New("user not found")
var ErrNameExists = errors.New("name already exists")
var ErrEmailExists = errors.New("email already exists")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidEmailDomain = errors.New("email domain not allowed")
var ErrRoleMismatch = errors.New("role mismatch")
var ErrNotVerified = errors.New("account not verified")
var ErrAlreadyVerified = errors.New("account already verified")
var ErrInvalidToken = errors.New("invalid token")
var ErrForbidden = errors.New("access forbidden")
var ErrMissingParameters = errors.New("missing parameters")

// ValidRole reports whether role belongs to the fixed role set.
func ValidRole(role string) bool {
	return role == RoleStudent || role == RoleStaff || role == RoleAdmin
}

// User models a registered account. Students are verified automatically at
// registration; staff and admin accounts stay unverified until the emailed
// code is consumed.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Department   string    `json:"department"`
	IsVerified   bool      `json:"is_verified"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
