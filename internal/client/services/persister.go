// Package services contains the shopkeeper application services: the account
// store (sign-up, sign-in, session, profile, order lookup), the cart and the
// order book, all persisted through the storage facade.
package services

import (
	"context"

	"github.com/google/uuid"
)

// Persister is the subset of storage.Facade the services rely on.
type Persister interface {
	Available() bool
	Save(ctx context.Context, collection, flatKey string, value any)
	Replace(ctx context.Context, collection, flatKey string, value any)
	SaveFlat(ctx context.Context, flatKey string, value any)
	Remove(ctx context.Context, collection, flatKey string)
	Load(ctx context.Context, collection, id string, dest any) error
	LoadAll(ctx context.Context, collection string, dest any) error
	Find(ctx context.Context, collection, email, phone string, dest any) error
	LoadFlat(ctx context.Context, flatKey string, dest any) error
}

// newID returns a time-ordered unique identifier. Overridden in tests.
var newID = func() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}
