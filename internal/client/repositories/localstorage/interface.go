// Package localstorage implements the client's persistent key/value store,
// the terminal counterpart of browser local storage. Values are opaque bytes;
// callers decide the encoding.
package localstorage

import "context"

// Repository is a flat key/value store.
//
// Get returns (nil, nil) when the key does not exist. Replace deletes any
// previous value and writes the new one as a single atomic step, so readers
// never observe a mix of the old and new value.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Replace(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	List(ctx context.Context) (map[string][]byte, error)
	Clear(ctx context.Context) error
}
