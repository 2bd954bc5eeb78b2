package models

import "time"

// User represents a user account in the system. Email is the lookup key
// everywhere and is unique per account.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	CreatedAt    time.Time `json:"createdAt"`
}

// PublicUser is the client-facing view of a user record.
type PublicUser struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Public strips everything a client must not see.
func (u User) Public() PublicUser {
	return PublicUser{Name: u.Name, Email: u.Email}
}
