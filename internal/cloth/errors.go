package cloth

import "errors"

// ErrInvalidGrid is returned by New for a non-positive extent or resolution.
var ErrInvalidGrid = errors.New("cloth: invalid grid dimensions")
