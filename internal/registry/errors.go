package registry

import "errors"

var (
	// ErrInjection indicates a dependency list that has nothing to invoke.
	ErrInjection = errors.New("invalid object in injector")
	// ErrUnknownReference indicates a module lookup miss.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrUnknownService indicates a service lookup miss.
	ErrUnknownService = errors.New("unknown service provider")
	// ErrDuplicateService indicates a second registration under the same service name.
	ErrDuplicateService = errors.New("service provider already exists")
	// ErrInvalidReference indicates a token that is neither "@name" nor "#name".
	ErrInvalidReference = errors.New("invalid dependency")
	// ErrInvalidService indicates a service entry or instance that cannot be used.
	ErrInvalidService = errors.New("invalid service provider")
	// ErrDependencyCycle indicates services that depend on each other.
	ErrDependencyCycle = errors.New("dependency cycle")
)
