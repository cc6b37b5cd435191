package models

// Authentication is the user registry: the only component that creates users,
// the sole source of truth for username uniqueness, and the password gate in
// front of full-capability *User handles.
//
// Per the overall scope, passwords are stored and compared as given; there is
// no hashing layer. Serialization of access is the App's job.
type account struct {
	user     *User
	password string
}

type Authentication struct {
	accounts map[string]*account
}

func NewAuthentication() *Authentication {
	return &Authentication{accounts: make(map[string]*account)}
}

// Register creates a user under a free username and stores its password.
func (a *Authentication) Register(username, password string) (*User, error) {
	if _, ok := a.accounts[username]; ok {
		return nil, usernameTaken(username)
	}
	user := newUser(username)
	a.accounts[username] = &account{user: user, password: password}
	return user, nil
}

// Authenticate verifies the password and returns the full-capability user.
// This is the only path that may hand a *User across the trust boundary:
// holding the result grants mutation rights over all the user's calendars.
func (a *Authentication) Authenticate(username, password string) (*User, error) {
	acc, ok := a.accounts[username]
	if !ok {
		return nil, unknownUser(username)
	}
	if acc.password != password {
		return nil, accessDenied(username)
	}
	return acc.user, nil
}

// ResolveReadOnly returns the capability-reduced view of a user without asking
// for a password. It exists so other callers can read calendar names and
// public events; it must never be widened back to a *User for them.
func (a *Authentication) ResolveReadOnly(username string) (ReadOnlyUser, error) {
	acc, ok := a.accounts[username]
	if !ok {
		return nil, unknownUser(username)
	}
	return acc.user, nil
}

// resolve is the internal unrestricted lookup backing the trusted boundary.
func (a *Authentication) resolve(username string) (*User, error) {
	acc, ok := a.accounts[username]
	if !ok {
		return nil, unknownUser(username)
	}
	return acc.user, nil
}

// ChangePassword verifies the old password, then stores the new one.
func (a *Authentication) ChangePassword(username, oldPassword, newPassword string) error {
	if _, err := a.Authenticate(username, oldPassword); err != nil {
		return err
	}
	a.accounts[username].password = newPassword
	return nil
}

// Unregister verifies the password and removes the username entry. The user
// and its calendars become unreachable; prior handles no longer resolve.
func (a *Authentication) Unregister(username, password string) error {
	if _, err := a.Authenticate(username, password); err != nil {
		return err
	}
	delete(a.accounts, username)
	return nil
}
