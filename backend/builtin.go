package backend

import (
	"fmt"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/gpu"
	"github.com/gogpu/gridfx/raster"
	"github.com/gogpu/gridfx/terminal"
)

// Names of the built-in backends.
const (
	GPU      = "gpu"
	Terminal = "terminal"
	Raster   = "raster"
)

func init() {
	Register(GPU, 30, openGPU)
	Register(Terminal, 20, openTerminal)
	Register(Raster, 0, openRaster)
}

func openGPU(t Target) (gridfx.Painter, error) {
	if t.Provider == nil {
		return nil, fmt.Errorf("gpu: no device provider: %w", gridfx.ErrContextUnavailable)
	}
	if err := gpu.Supported(t.Provider); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupported, err)
	}
	return gpu.New(t.Provider, t.Width, t.Height)
}

func openTerminal(t Target) (gridfx.Painter, error) {
	return terminal.New(t.Screen)
}

func openRaster(t Target) (gridfx.Painter, error) {
	if t.Image != nil {
		return raster.NewFromImage(t.Image)
	}
	return raster.New(t.Width, t.Height)
}
