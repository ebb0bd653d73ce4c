package cache

import (
	"context"
	"time"
)

// NullCache discards every write and misses every read. Selecting it is how
// --no-cache and the "none" backend disable caching without branching at
// pipeline call sites.
type NullCache struct{}

// NewNullCache returns the no-op cache backend.
func NewNullCache() Cache { return NullCache{} }

func (NullCache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

func (NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }

func (NullCache) Delete(context.Context, string) error { return nil }

func (NullCache) Close() error { return nil }

var _ Cache = NullCache{}
