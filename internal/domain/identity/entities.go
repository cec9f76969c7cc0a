package identity

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidUser        = errors.New("name and password must not be empty")
	ErrDuplicateUser      = errors.New("user name already taken")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("name and password do not match")
	ErrRemoveAdmin        = errors.New("admin users cannot be removed")
)

type Role string

const (
	RoleBorrower Role = "Borrower"
	RoleLender   Role = "Lender"
	RoleAdmin    Role = "Admin"
	RoleAnalyst  Role = "Analyst"
)

// ParseRole maps a raw role string onto the closed role set.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleBorrower, RoleLender, RoleAdmin, RoleAnalyst:
		return Role(s), nil
	}
	return "", fmt.Errorf("unknown role %q", s)
}

// User is a registered account. Passwords are stored in plain text — this is
// a prototype-grade credential model, not a security boundary.
type User struct {
	Name     string `json:"name"`
	Role     Role   `json:"role"`
	Password string `json:"password"`
}

// Users is the full identity store. Names are unique case-insensitively.
type Users []User

// Find returns the user whose name matches case-insensitively.
func (u Users) Find(name string) (User, bool) {
	for _, usr := range u {
		if strings.EqualFold(usr.Name, name) {
			return usr, true
		}
	}
	return User{}, false
}
