// Package auth implements server-side sessions carried by a signed cookie.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Store maps session ids to user ids. Implementations enforce the TTL they
// were built with: an expired id behaves like a missing one.
type Store interface {
	Get(ctx context.Context, sessionID string) (userID string, ok bool, err error)
	Set(ctx context.Context, sessionID, userID string) error
	Clear(ctx context.Context, sessionID string) error
}

// NewSessionID returns a random, unguessable session id.
func NewSessionID() string {
	return uuid.NewString()
}
