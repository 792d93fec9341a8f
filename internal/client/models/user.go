// Package models defines the shopkeeper domain types and their persisted
// JSON shapes.
package models

import (
	"time"

	"github.com/dmitrijs2005/shopkeeper/internal/client/storage"
)

// User is a registered customer account.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
	Orders       []Order   `json:"orders"`
}

func (u User) RecordID() string { return u.ID }

func (u User) RecordIndex() (string, string) { return u.Email, u.Phone }

// Clone returns a deep copy so callers cannot mutate shared state.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	c := *u
	c.Orders = make([]Order, len(u.Orders))
	for i := range u.Orders {
		c.Orders[i] = u.Orders[i].Clone()
	}
	return &c
}

// SessionPointer is what the flat "currentUser" key holds.
type SessionPointer struct {
	ID string `json:"id"`
}

// Users is the whole user collection.
type Users []User

func (us Users) Records() []storage.Record {
	out := make([]storage.Record, len(us))
	for i := range us {
		out[i] = us[i]
	}
	return out
}
