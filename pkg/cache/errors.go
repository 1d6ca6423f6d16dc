package cache

import "errors"

var ErrInvalidCapacity = errors.New("cache: capacity must be positive")
