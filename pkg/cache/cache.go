// Package cache defines the caching interface consumed by the request client.
package cache

// Cacher is implemented by stores that can memoize fetched bytes.
type Cacher interface {
	Get(key string) ([]byte, bool)
	Set(key string, val []byte) error
}

// Null is a Cacher that never hits. Useful in tests and for callers that
// want the request path without persistence.
type Null struct{}

func (Null) Get(string) ([]byte, bool) { return nil, false }
func (Null) Set(string, []byte) error  { return nil }
