package fleks

import "github.com/rotisserie/eris"

var (
	// ErrComponentNotFound is returned when a required component is absent
	// from an entity. Use GetOrNil or Contains when absence is expected.
	ErrComponentNotFound = eris.New("component not found")

	// ErrOutOfRange signals a programming error: an entity ID outside a
	// holder's capacity, or a holder index that was never materialized.
	ErrOutOfRange = eris.New("index out of range")

	// ErrTypeMismatch is returned by the type-erased paths when a value does
	// not match the holder's declared type.
	ErrTypeMismatch = eris.New("component type mismatch")

	// ErrUnknownComponent is returned when an identity or name was never registered.
	ErrUnknownComponent = eris.New("unknown component type")

	// ErrEntityNotAlive is returned by World operations given a removed or stale entity.
	ErrEntityNotAlive = eris.New("entity is not alive")
)
