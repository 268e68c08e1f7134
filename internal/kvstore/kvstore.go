// Package kvstore contains key-value stores. We use them to
// persist the artifacts of each cycle.
package kvstore

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSuchKey indicates that there's no value for the given key.
	ErrNoSuchKey = errors.New("no such key")

	// ErrInvalidKey indicates that a key cannot be used as a file name.
	ErrInvalidKey = errors.New("invalid key")
)

// validateKey ensures the key is a plain file name.
func validateKey(key string) error {
	if key == "" || key == "." || key == ".." || strings.ContainsAny(key, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
