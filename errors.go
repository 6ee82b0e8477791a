package rowecs

import "errors"

var (
	// ErrNotInitialized is returned by entity and component operations
	// attempted before Initialize succeeded.
	ErrNotInitialized = errors.New("store not initialized")
	// ErrAlreadyInitialized is returned by CreateComponent, Register and
	// Initialize once the row layout is frozen.
	ErrAlreadyInitialized = errors.New("store already initialized")
	// ErrOutOfRange is returned for entity ids outside the live row range and
	// for unregistered component ids.
	ErrOutOfRange = errors.New("id out of range")
	// ErrAllocation is returned when a growth would exceed the configured
	// limit. The structure is left unchanged.
	ErrAllocation = errors.New("allocation failed")
	// ErrInvalidComponent is returned for malformed component definitions.
	ErrInvalidComponent = errors.New("invalid component")
	// ErrInvalidData is returned when a payload is shorter than the component.
	ErrInvalidData = errors.New("invalid component data")
	// ErrUnsupportedType is returned by Register for types that cannot live in
	// untyped row bytes.
	ErrUnsupportedType = errors.New("unsupported component type")
	// ErrAlreadyProcessing is returned by BeginProcessing when a processing
	// window is already open.
	ErrAlreadyProcessing = errors.New("store already processing")
)
