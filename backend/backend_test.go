package backend

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"sync"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/gogpu/wgpu/hal/noop"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/gpu"
	"github.com/gogpu/gridfx/raster"
	"github.com/gogpu/gridfx/terminal"
)

func TestAvailablePriority(t *testing.T) {
	got := Available()
	want := []string{GPU, Terminal, Raster}
	if len(got) < len(want) {
		t.Fatalf("Available() = %v, want %v", got, want)
	}
	for i, name := range want {
		if got[i] != name {
			t.Errorf("Available()[%d] = %q, want %q", i, got[i], name)
		}
	}
	for _, name := range want {
		if !IsRegistered(name) {
			t.Errorf("IsRegistered(%q) = false", name)
		}
	}
}

func TestOpenFallsBackToRaster(t *testing.T) {
	p, name, err := Open(Target{Width: 64, Height: 32})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if name != Raster {
		t.Errorf("Open() picked %q, want %q", name, Raster)
	}
	if _, ok := p.(*raster.Painter); !ok {
		t.Errorf("Open() = %T, want *raster.Painter", p)
	}
}

func TestOpenHostImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	p, _, err := Open(Target{Image: img}, Raster)
	if err != nil {
		t.Fatal(err)
	}
	if rp := p.(*raster.Painter); rp.Image() != img {
		t.Error("raster backend ignored the host image")
	}
}

func TestOpenTerminal(t *testing.T) {
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	defer s.Fini()

	p, name, err := Open(Target{Width: 64, Height: 32, Screen: s})
	if err != nil {
		t.Fatal(err)
	}
	if name != Terminal {
		t.Errorf("Open() picked %q, want %q", name, Terminal)
	}
	if _, ok := p.(*terminal.Painter); !ok {
		t.Errorf("Open() = %T, want *terminal.Painter", p)
	}
}

func TestOpenGPU(t *testing.T) {
	h, err := gpu.OpenHeadless(noop.API{})
	if err != nil {
		t.Fatal(err)
	}
	defer h.Close()

	p, name, err := Open(Target{Width: 64, Height: 32, Provider: h})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()
	if name != GPU {
		t.Errorf("Open() picked %q, want %q", name, GPU)
	}
}

func TestOpenNamedOnly(t *testing.T) {
	_, _, err := Open(Target{Width: 64, Height: 32}, GPU, Terminal)
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Open(gpu, terminal) without surfaces = %v, want ErrBackendNotAvailable", err)
	}
	if !errors.Is(err, gridfx.ErrContextUnavailable) {
		t.Errorf("error %v does not carry the skipped causes", err)
	}

	if _, _, err := Open(Target{}, "vulkan"); !errors.Is(err, ErrUnknownBackend) {
		t.Errorf("Open(unknown) = %v, want ErrUnknownBackend", err)
	}
}

func TestOpenStopsOnHardError(t *testing.T) {
	boom := errors.New("boom")
	Register("failing", 100, func(Target) (gridfx.Painter, error) { return nil, boom })
	defer Unregister("failing")

	if _, _, err := Open(Target{Width: 8, Height: 8}); !errors.Is(err, boom) {
		t.Errorf("Open() = %v, want the factory error", err)
	}
}

func TestOpenSkipsUnsupported(t *testing.T) {
	Register("picky", 100, func(Target) (gridfx.Painter, error) {
		return nil, ErrUnsupported
	})
	defer Unregister("picky")

	_, name, err := Open(Target{Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	if name != Raster {
		t.Errorf("Open() picked %q, want %q", name, Raster)
	}
}

// levelRecorder keeps the level of every record per message.
type levelRecorder struct {
	mu     sync.Mutex
	levels map[string]slog.Level
}

func (h *levelRecorder) Enabled(context.Context, slog.Level) bool { return true }

func (h *levelRecorder) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.levels[r.Message] = r.Level
	return nil
}

func (h *levelRecorder) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *levelRecorder) WithGroup(string) slog.Handler      { return h }

func TestOpenLogsFallbackAtWarn(t *testing.T) {
	orig := gridfx.Logger()
	t.Cleanup(func() { gridfx.SetLogger(orig) })
	rec := &levelRecorder{levels: map[string]slog.Level{}}
	gridfx.SetLogger(slog.New(rec))

	Register("picky", 100, func(Target) (gridfx.Painter, error) {
		return nil, ErrUnsupported
	})
	defer Unregister("picky")

	p, _, err := Open(Target{Width: 8, Height: 8})
	if err != nil {
		t.Fatal(err)
	}
	defer p.Close()

	tests := []struct {
		msg  string
		want slog.Level
	}{
		{"backend: falling back", slog.LevelWarn},
		{"backend: selected", slog.LevelInfo},
	}
	for _, tt := range tests {
		got, ok := rec.levels[tt.msg]
		if !ok {
			t.Errorf("no %q record", tt.msg)
			continue
		}
		if got != tt.want {
			t.Errorf("%q logged at %v, want %v", tt.msg, got, tt.want)
		}
	}
}
