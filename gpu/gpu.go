// Package gpu paints gridfx frames with a wgpu render pipeline.
//
// Every visible cell becomes one textured quad. The glyph atlas built by
// package atlas is uploaded once per atlas key and sampled by a WGSL
// shader pair; cells in the primary color are tinted by a uniform, other
// cells carry their own vertex color.
//
// Check Supported before choosing this backend:
//
//	if err := gpu.Supported(provider); err != nil {
//		// fall back to raster
//	}
//	p, err := gpu.New(provider, width, height)
package gpu

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga"
	"github.com/gogpu/wgpu/hal"
)

var (
	// ErrNoProvider is returned for a nil device provider.
	ErrNoProvider = errors.New("gpu: nil device provider")

	// ErrNotHAL is returned when the provider's device or queue is not a
	// wgpu HAL object.
	ErrNotHAL = errors.New("gpu: provider does not expose HAL device and queue")

	// ErrSoftwareAdapter is returned by Supported for CPU adapters, which
	// are slower than the raster backend.
	ErrSoftwareAdapter = errors.New("gpu: software adapter")
)

// halProvider is implemented by providers that wrap HAL objects, such as
// the gogpu application.
type halProvider interface {
	HalDevice() any
	HalQueue() any
}

// halDevice extracts the HAL device and queue from provider.
func halDevice(provider gpucontext.DeviceProvider) (hal.Device, hal.Queue, error) {
	if provider == nil {
		return nil, nil, ErrNoProvider
	}
	var dev, q any
	if hp, ok := provider.(halProvider); ok {
		dev, q = hp.HalDevice(), hp.HalQueue()
	} else {
		dev, q = provider.Device(), provider.Queue()
	}
	device, ok := dev.(hal.Device)
	if !ok || device == nil {
		return nil, nil, ErrNotHAL
	}
	queue, ok := q.(hal.Queue)
	if !ok || queue == nil {
		return nil, nil, ErrNotHAL
	}
	return device, queue, nil
}

// Supported reports whether provider can run the GPU backend. It checks
// the provider exposes a HAL device and queue, rejects software adapters,
// and compiles the grid shader.
func Supported(provider gpucontext.DeviceProvider) error {
	if _, _, err := halDevice(provider); err != nil {
		return err
	}
	if info := provider.AdapterInfo(); info.Type == gpucontext.AdapterTypeSoftware {
		return fmt.Errorf("%w: %s", ErrSoftwareAdapter, info.Name)
	}
	if _, err := naga.Compile(gridShaderSource); err != nil {
		return fmt.Errorf("gpu: compile grid shader: %w", err)
	}
	return nil
}

// Headless is a DeviceProvider over a device opened directly from a HAL
// backend, without a window or surface.
type Headless struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue
	info     gputypes.AdapterInfo
}

// OpenHeadless opens the first adapter of backend.
func OpenHeadless(backend hal.Backend) (*Headless, error) {
	instance, err := backend.CreateInstance(nil)
	if err != nil {
		return nil, fmt.Errorf("gpu: create instance: %w", err)
	}
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: no adapters on %s", backend.Variant())
	}
	open, err := adapters[0].Adapter.Open(0, gputypes.DefaultLimits())
	if err != nil {
		instance.Destroy()
		return nil, fmt.Errorf("gpu: open adapter: %w", err)
	}
	return &Headless{
		instance: instance,
		device:   open.Device,
		queue:    open.Queue,
		info:     adapters[0].Info,
	}, nil
}

// Device returns the HAL device.
func (h *Headless) Device() gpucontext.Device { return h.device }

// Queue returns the HAL queue.
func (h *Headless) Queue() gpucontext.Queue { return h.queue }

// SurfaceFormat returns the format render targets are created with.
func (h *Headless) SurfaceFormat() gputypes.TextureFormat { return targetFormat }

// Adapter returns nil; the HAL adapter is not exposed.
func (h *Headless) Adapter() gpucontext.Adapter { return nil }

// AdapterInfo describes the opened adapter.
func (h *Headless) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Name: h.info.Name, Type: adapterType(h.info.DeviceType)}
}

// HalDevice returns the device as hal.Device.
func (h *Headless) HalDevice() any { return h.device }

// HalQueue returns the queue as hal.Queue.
func (h *Headless) HalQueue() any { return h.queue }

// Close releases the device and instance.
func (h *Headless) Close() {
	if h.device != nil {
		_ = h.device.WaitIdle()
		h.device.Destroy()
		h.device = nil
	}
	if h.instance != nil {
		h.instance.Destroy()
		h.instance = nil
	}
	h.queue = nil
}

func adapterType(t gputypes.DeviceType) gpucontext.AdapterType {
	switch t {
	case gputypes.DeviceTypeDiscreteGPU:
		return gpucontext.AdapterTypeDiscrete
	case gputypes.DeviceTypeIntegratedGPU:
		return gpucontext.AdapterTypeIntegrated
	case gputypes.DeviceTypeCPU:
		return gpucontext.AdapterTypeSoftware
	default:
		return gpucontext.AdapterTypeUnknown
	}
}
