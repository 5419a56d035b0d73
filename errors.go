package gridfx

import "errors"

var (
	// ErrContextUnavailable is returned when a renderer or backend is
	// constructed without a usable drawing surface. Callers are expected
	// to fall back to another backend.
	ErrContextUnavailable = errors.New("gridfx: drawing context unavailable")

	// ErrDestroyed is returned by operations on a destroyed renderer.
	ErrDestroyed = errors.New("gridfx: renderer destroyed")
)
