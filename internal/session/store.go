package session

import (
	"context"
	"encoding/json"

	"sitewatch/internal/domain"
)

// Store is the durable two-entry session record: the serialized current
// user and an authenticated flag. Single writer (login/logout),
// multiple readers. Adapters live in subpackages.
type Store interface {
	SaveUser(ctx context.Context, u *domain.User) error
	// LoadUser returns (nil, nil) when the entry is absent or
	// unparseable; a corrupted record degrades to "no session".
	LoadUser(ctx context.Context) (*domain.User, error)
	SetAuthenticated(ctx context.Context, v bool) error
	Authenticated(ctx context.Context) (bool, error)
	Clear(ctx context.Context) error
}

// Storage entry names shared by all adapters.
const (
	KeyUser          = "user"
	KeyAuthenticated = "is_authenticated"
)

// DecodeUser parses a stored user record. Parse failure is not an
// error: it means the session is gone.
func DecodeUser(b []byte) *domain.User {
	if len(b) == 0 {
		return nil
	}
	var u domain.User
	if err := json.Unmarshal(b, &u); err != nil {
		return nil
	}
	return &u
}

// EncodeUser serializes a user for storage.
func EncodeUser(u *domain.User) ([]byte, error) {
	return json.Marshal(u)
}
