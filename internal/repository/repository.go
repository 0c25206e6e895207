package repository

import "context"

// Store is the persistent key-value store of one visitor's browser profile.
// Values are opaque strings, usually JSON documents.
type Store interface {
	// Get returns the value stored under key, or an error wrapping
	// apperrors.ErrNotFound when the key was never set or has expired.
	Get(ctx context.Context, visitorID, key string) (string, error)

	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, visitorID, key, value string) error
}
