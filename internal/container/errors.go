package container

import "errors"

var (
	// ErrInvalidElement indicates a boot target that is not an element node.
	ErrInvalidElement = errors.New("invalid application dom reference")
	// ErrUnknownApplication indicates a boot request for a name never declared.
	ErrUnknownApplication = errors.New("application doesn't exist")
	// ErrAlreadyBooted indicates a second boot of the same application.
	ErrAlreadyBooted = errors.New("application is already running")
)
