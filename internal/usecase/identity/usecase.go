// Package identity owns the registered users and the login/registration
// flow. Users persist as one JSON document, independent of the offer ledger.
package identity

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"loanverse/internal/auth"
	"loanverse/internal/domain/identity"
	"loanverse/internal/domain/store"
)

type Usecase struct {
	mu     sync.RWMutex
	users  identity.Users
	store  store.Store
	tokens *auth.TokenManager
}

func NewUsecase(ctx context.Context, st store.Store, tokens *auth.TokenManager) (*Usecase, error) {
	u := &Usecase{store: st, tokens: tokens}
	doc, err := st.Load(ctx, store.KeyUsers)
	switch {
	case errors.Is(err, store.ErrKeyNotFound):
		u.users = identity.Users{}
	case err != nil:
		return nil, fmt.Errorf("load users: %w", err)
	default:
		if err := json.Unmarshal(doc, &u.users); err != nil {
			return nil, fmt.Errorf("decode users: %w", err)
		}
	}
	return u, nil
}

// UserDTO is the outward view of a user. Passwords never leave the store.
type UserDTO struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// AuthResult is a registered or logged-in user plus their session token.
type AuthResult struct {
	User  UserDTO `json:"user"`
	Token string  `json:"token"`
}

// Register creates the account and establishes a session for it.
func (u *Usecase) Register(ctx context.Context, name, role, password string) (AuthResult, error) {
	r, err := identity.ParseRole(role)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: %v", identity.ErrInvalidUser, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	next, usr, err := u.users.Register(name, r, password)
	if err != nil {
		return AuthResult{}, err
	}
	if err := u.persist(ctx, next); err != nil {
		return AuthResult{}, err
	}
	u.users = next
	return u.session(usr)
}

// Login authenticates and establishes a session.
func (u *Usecase) Login(ctx context.Context, name, password string) (AuthResult, error) {
	u.mu.RLock()
	usr, err := u.users.Authenticate(name, password)
	u.mu.RUnlock()
	if err != nil {
		return AuthResult{}, err
	}
	return u.session(usr)
}

// Users lists every registered account.
func (u *Usecase) Users(ctx context.Context) []UserDTO {
	u.mu.RLock()
	defer u.mu.RUnlock()
	out := make([]UserDTO, 0, len(u.users))
	for _, usr := range u.users {
		out = append(out, toDTO(usr))
	}
	return out
}

// AddUser creates an account without establishing a session. Admin flow.
func (u *Usecase) AddUser(ctx context.Context, name, role, password string) (UserDTO, error) {
	r, err := identity.ParseRole(role)
	if err != nil {
		return UserDTO{}, fmt.Errorf("%w: %v", identity.ErrInvalidUser, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	next, usr, err := u.users.Register(name, r, password)
	if err != nil {
		return UserDTO{}, err
	}
	if err := u.persist(ctx, next); err != nil {
		return UserDTO{}, err
	}
	u.users = next
	return toDTO(usr), nil
}

// UpdateUser rewrites a user's role and, when password is non-empty, resets
// the password. Admin flow.
func (u *Usecase) UpdateUser(ctx context.Context, name, role, password string) (UserDTO, error) {
	r, err := identity.ParseRole(role)
	if err != nil {
		return UserDTO{}, fmt.Errorf("%w: %v", identity.ErrInvalidUser, err)
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	next, usr, err := u.users.Update(name, r, password)
	if err != nil {
		return UserDTO{}, err
	}
	if err := u.persist(ctx, next); err != nil {
		return UserDTO{}, err
	}
	u.users = next
	return toDTO(usr), nil
}

// RemoveUser deletes an account. Admin accounts are not removable.
func (u *Usecase) RemoveUser(ctx context.Context, name string) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	next, err := u.users.Remove(name)
	if err != nil {
		return err
	}
	if err := u.persist(ctx, next); err != nil {
		return err
	}
	u.users = next
	return nil
}

func (u *Usecase) persist(ctx context.Context, users identity.Users) error {
	if users == nil {
		users = identity.Users{}
	}
	doc, err := json.Marshal(users)
	if err != nil {
		return fmt.Errorf("encode users: %w", err)
	}
	if err := u.store.Save(ctx, store.KeyUsers, doc); err != nil {
		return fmt.Errorf("persist users: %w", err)
	}
	return nil
}

func (u *Usecase) session(usr identity.User) (AuthResult, error) {
	token, err := u.tokens.Generate(usr)
	if err != nil {
		return AuthResult{}, fmt.Errorf("issue token: %w", err)
	}
	return AuthResult{User: toDTO(usr), Token: token}, nil
}

func toDTO(usr identity.User) UserDTO {
	return UserDTO{Name: usr.Name, Role: string(usr.Role)}
}
