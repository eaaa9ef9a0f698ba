package storage

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound is returned by Get when nothing is stored under the key.
	ErrNotFound = errors.New("key not found")
	// ErrInvalidKey is returned for keys that are empty or could escape the storage root.
	ErrInvalidKey = errors.New("invalid storage key")
)

// Storage is a durable client-side key/value store, the CLI counterpart of browser local storage.
// Writes are last-write-wins; there is no locking between processes.
type Storage interface {
	Get(key string) (string, error)
	Set(key, value string) error
	// Remove deletes the key. Removing a missing key is not an error.
	Remove(key string) error
	// Keys returns every stored key with the given prefix in lexical order.
	Keys(prefix string) ([]string, error)
}

func validateKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key is empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." || strings.HasPrefix(key, ".") {
		return fmt.Errorf("%w %q", ErrInvalidKey, key)
	}
	return nil
}
