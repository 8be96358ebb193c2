package cache

import "errors"

// ErrCacheMiss is returned by Get when the key is absent at every level.
var ErrCacheMiss = errors.New("cache: key not found")
