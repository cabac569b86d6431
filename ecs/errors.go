package ecs

import "github.com/rotisserie/eris"

// Every failing operation returns one of these, wrapped with call-site context.
// Match with errors.Is.
var (
	ErrInvalidArgument  = eris.New("invalid argument")
	ErrOutOfRange       = eris.New("index out of range")
	ErrUnknownHandle    = eris.New("unknown handle")
	ErrDuplicateHandle  = eris.New("duplicate handle")
	ErrCapacityExceeded = eris.New("capacity exceeded")
	ErrEmpty            = eris.New("container is empty")
)
