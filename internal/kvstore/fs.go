package kvstore

import (
	"bytes"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rogpeppe/go-internal/lockedfile"
	"github.com/topoprobe/campaign/internal/model"
)

// FS is a file-system based KVStore. Each key is a file inside the base
// directory and we lock files while reading or writing them, such that
// concurrent campaigns sharing the same output directory do not observe
// partially written values.
type FS struct {
	basedir string
}

var _ model.KeyValueStore = &FS{}

// NewFS creates a new [*FS] rooted at basedir, creating it if needed.
func NewFS(basedir string) (kvs *FS, err error) {
	return newFileSystem(basedir, os.MkdirAll)
}

// osMkdirAll is the type of os.MkdirAll.
type osMkdirAll func(path string, perm fs.FileMode) error

// newFileSystem is like NewFS with a customizable
// osMkdirAll function for creating the kvstore dir.
func newFileSystem(basedir string, mkdir osMkdirAll) (*FS, error) {
	if err := mkdir(basedir, 0755); err != nil {
		return nil, err
	}
	return &FS{basedir: basedir}, nil
}

// Dir returns the base directory.
func (kvs *FS) Dir() string {
	return kvs.basedir
}

// Get returns the specified key's value. In case of error, the
// error type is such that errors.Is(err, ErrNoSuchKey).
func (kvs *FS) Get(key string) ([]byte, error) {
	if err := validateKey(key); err != nil {
		return nil, err
	}
	data, err := lockedfile.Read(filepath.Join(kvs.basedir, key))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchKey, err.Error())
	}
	return data, nil
}

// Set sets the value of a specific key.
func (kvs *FS) Set(key string, value []byte) error {
	if err := validateKey(key); err != nil {
		return err
	}
	return lockedfile.Write(filepath.Join(kvs.basedir, key), bytes.NewReader(value), 0644)
}
