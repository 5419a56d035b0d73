package backend

import (
	"errors"
	"fmt"
	"image"
	"sort"
	"sync"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/gpucontext"

	"github.com/gogpu/gridfx"
)

// Common backend errors.
var (
	// ErrBackendNotAvailable is returned when no requested backend could be
	// opened.
	ErrBackendNotAvailable = errors.New("backend: not available")

	// ErrUnknownBackend is returned for a name that was never registered.
	ErrUnknownBackend = errors.New("backend: unknown backend")

	// ErrUnsupported wraps a failed capability pre-flight. Open treats it
	// like gridfx.ErrContextUnavailable and moves to the next backend.
	ErrUnsupported = errors.New("backend: unsupported")
)

// Target lists the drawing surfaces a host can offer. Backends use the
// ones they understand and report gridfx.ErrContextUnavailable when theirs
// is missing.
type Target struct {
	Width, Height int

	// Image is an optional host image for the raster backend.
	Image *image.RGBA

	// Provider is the GPU device for the gpu backend.
	Provider gpucontext.DeviceProvider

	// Screen is an initialized tcell screen for the terminal backend.
	Screen tcell.Screen
}

// Factory creates a painter for t.
type Factory func(t Target) (gridfx.Painter, error)

type entry struct {
	name     string
	priority int
	factory  Factory
}

var (
	registryMu sync.RWMutex
	backends   = make(map[string]entry)
)

// Register registers a backend factory. Open without names tries backends
// by descending priority. Registering a name again replaces it.
func Register(name string, priority int, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	backends[name] = entry{name: name, priority: priority, factory: factory}
}

// Unregister removes a backend from the registry.
// This is useful for testing.
func Unregister(name string) {
	registryMu.Lock()
	defer registryMu.Unlock()
	delete(backends, name)
}

// Available returns the registered backend names, highest priority first.
func Available() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	entries := sorted()
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.name
	}
	return names
}

// IsRegistered checks if a backend with the given name is registered.
func IsRegistered(name string) bool {
	registryMu.RLock()
	defer registryMu.RUnlock()
	_, ok := backends[name]
	return ok
}

// sorted returns entries by descending priority, then name. Callers hold
// registryMu.
func sorted() []entry {
	entries := make([]entry, 0, len(backends))
	for _, e := range backends {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].priority != entries[j].priority {
			return entries[i].priority > entries[j].priority
		}
		return entries[i].name < entries[j].name
	})
	return entries
}

// Open returns the first backend that opens on t, trying names in order,
// or every registered backend by priority when names is empty. Backends
// failing with gridfx.ErrContextUnavailable or ErrUnsupported are skipped;
// any other error stops the search.
func Open(t Target, names ...string) (gridfx.Painter, string, error) {
	registryMu.RLock()
	var candidates []entry
	if len(names) == 0 {
		candidates = sorted()
	} else {
		for _, name := range names {
			e, ok := backends[name]
			if !ok {
				registryMu.RUnlock()
				return nil, "", fmt.Errorf("%w: %q", ErrUnknownBackend, name)
			}
			candidates = append(candidates, e)
		}
	}
	registryMu.RUnlock()

	var skipped []error
	for _, e := range candidates {
		p, err := e.factory(t)
		if err == nil {
			gridfx.Logger().Info("backend: selected", "backend", e.name)
			return p, e.name, nil
		}
		if !errors.Is(err, gridfx.ErrContextUnavailable) && !errors.Is(err, ErrUnsupported) {
			return nil, "", fmt.Errorf("backend %s: %w", e.name, err)
		}
		gridfx.Logger().Warn("backend: falling back", "backend", e.name, "err", err)
		skipped = append(skipped, err)
	}
	return nil, "", errors.Join(append([]error{ErrBackendNotAvailable}, skipped...)...)
}
