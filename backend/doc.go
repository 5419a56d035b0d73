// Package backend selects a painter for a gridfx renderer.
//
// The gpu, terminal and raster painters register themselves in that
// priority order. Open walks the registry and returns the first backend
// whose surface the host provided, so a host without a GPU device or a
// terminal ends up on raster:
//
//	p, name, err := backend.Open(backend.Target{Width: 800, Height: 600, Provider: dev})
//	if err != nil {
//		log.Fatal(err)
//	}
//	r, err := gridfx.New(p, gridfx.WithSize(800, 600))
//
// A backend whose surface is missing fails with
// gridfx.ErrContextUnavailable; one whose capability pre-flight fails
// returns ErrUnsupported. Both make Open move on to the next backend.
package backend
