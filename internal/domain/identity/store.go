package identity

import "strings"

// Register appends a new user. Names collide case-insensitively, whatever
// the requested role.
func (u Users) Register(name string, role Role, password string) (Users, User, error) {
	name = strings.TrimSpace(name)
	password = strings.TrimSpace(password)
	if name == "" || password == "" {
		return u, User{}, ErrInvalidUser
	}
	if _, exists := u.Find(name); exists {
		return u, User{}, ErrDuplicateUser
	}
	usr := User{Name: name, Role: role, Password: password}
	next := make(Users, len(u), len(u)+1)
	copy(next, u)
	return append(next, usr), usr, nil
}

// Authenticate matches the name case-insensitively and the password exactly.
func (u Users) Authenticate(name, password string) (User, error) {
	name = strings.TrimSpace(name)
	for _, usr := range u {
		if strings.EqualFold(usr.Name, name) && usr.Password == strings.TrimSpace(password) {
			return usr, nil
		}
	}
	return User{}, ErrInvalidCredentials
}

// Remove deletes the named user. Admin accounts are not removable.
func (u Users) Remove(name string) (Users, error) {
	for i, usr := range u {
		if !strings.EqualFold(usr.Name, name) {
			continue
		}
		if usr.Role == RoleAdmin {
			return u, ErrRemoveAdmin
		}
		next := make(Users, 0, len(u)-1)
		next = append(next, u[:i]...)
		next = append(next, u[i+1:]...)
		return next, nil
	}
	return u, ErrUserNotFound
}

// Update rewrites the named user's role and, when non-empty, resets the
// password. Admin edits and password resets both go through here.
func (u Users) Update(name string, role Role, password string) (Users, User, error) {
	for i, usr := range u {
		if !strings.EqualFold(usr.Name, name) {
			continue
		}
		updated := usr
		updated.Role = role
		if pw := strings.TrimSpace(password); pw != "" {
			updated.Password = pw
		}
		next := make(Users, len(u))
		copy(next, u)
		next[i] = updated
		return next, updated, nil
	}
	return u, User{}, ErrUserNotFound
}
