package nsstorage

import (
	"context"
	"errors"
)

// Backend is a string key/value store holding one JSON blob per namespace.
type Backend interface {
	// Get retrieves the blob stored under key
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a blob under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes the blob stored under key
	Delete(ctx context.Context, key string) error

	// Keys lists the stored keys without the backend prefix
	Keys(ctx context.Context) ([]string, error)
}

// Config holds common configuration for storage backends
type Config struct {
	// Prefix is prepended to all namespace keys
	Prefix string
}

// DefaultConfig returns a default backend configuration
func DefaultConfig() Config {
	return Config{
		Prefix: "bdo:",
	}
}

// ErrMiss is returned when no blob is stored under a key
type ErrMiss struct {
	Key string
}

func (e ErrMiss) Error() string {
	return "namespace miss: " + e.Key
}

// IsMiss checks if an error is a namespace miss
func IsMiss(err error) bool {
	var miss ErrMiss
	return errors.As(err, &miss)
}
