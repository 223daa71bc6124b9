package store

import "errors"

// ErrNotFound is returned by KV.Get when the key does not exist.
var ErrNotFound = errors.New("store: key not found")

// KV is the narrow persistence interface the daily store is built on,
// keeping the detection logic storage-agnostic. The production
// implementation is sqlite-backed; tests use the in-memory one.
type KV interface {
	Get(key string) ([]byte, error)
	Set(key string, value []byte) error
	Delete(key string) error
	KeysWithPrefix(prefix string) ([]string, error)
}
