package gravity

import "errors"

var (
	ErrInvalidBody     = errors.New("gravity: invalid body")
	ErrLastBody        = errors.New("gravity: cannot remove the last body")
	ErrIndexOutOfRange = errors.New("gravity: body index out of range")
	ErrEmptyGalaxy     = errors.New("gravity: galaxy needs at least one planet")
)
