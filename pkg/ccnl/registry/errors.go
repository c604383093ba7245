package registry

import "errors"

// ErrDuplicate is returned by Add when the key is already registered.
var ErrDuplicate = errors.New("duplicate key")
