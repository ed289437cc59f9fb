package models

import "strings"

// User represents a registered user account.
type User struct {
	// ID is the unique identifier assigned by the store.
	ID int64

	// Username is unique and used as the external key in profile URLs.
	Username string

	FirstName string
	LastName  string

	// Email is optional and not required to be unique.
	Email string

	// PasswordHash is the bcrypt hash of the user's password.
	// Never expose this in responses.
	PasswordHash string

	Created
}

// NewUser creates a User ready to be persisted.
func NewUser(username, firstName, lastName, email, passwordHash string) *User {
	return &User{
		Username:     username,
		FirstName:    firstName,
		LastName:     lastName,
		Email:        email,
		PasswordHash: passwordHash,
	}
}

// FullName returns "First Last", falling back to the username.
func (u *User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}
