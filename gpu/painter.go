package gpu

import (
	"fmt"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/gridfx"
	"github.com/gogpu/gridfx/atlas"
)

// Stats counts painter work since construction.
type Stats struct {
	Frames     int
	Cells      int    // quads in the last frame
	Vertices   int    // vertices in the last frame
	Skipped    int    // cells without an atlas slot in the last frame
	Uploads    int    // atlas texture uploads
	Draws      int    // draw calls recorded
	BufferSize uint64 // vertex buffer capacity in bytes
}

// Option configures a Painter.
type Option func(*Painter)

// WithAtlasCache shares an atlas cache between painters.
func WithAtlasCache(c *atlas.Cache) Option {
	return func(p *Painter) { p.atlases = c }
}

// WithTarget renders into a view the host owns. Resize keeps it.
func WithTarget(view hal.TextureView) Option {
	return func(p *Painter) { p.targetView = view }
}

// Painter is the GPU backend. It is not safe for concurrent use.
type Painter struct {
	device    hal.Device
	queue     hal.Queue
	atlases   *atlas.Cache
	ownsCache bool
	pipe      *gridPipeline

	width, height int
	target        hal.Texture
	targetView    hal.TextureView
	ownTarget     bool

	quads     quadBuilder
	vertexBuf hal.Buffer
	vertexCap uint64
	uniforms  [2]hal.Buffer // primary tint, white tint
	atlasTex  *atlasTexture
	submitted []submission
	stats     Stats
	closed    bool
}

type atlasTexture struct {
	atlas  *atlas.Atlas
	tex    hal.Texture
	view   hal.TextureView
	groups [2]hal.BindGroup
}

type submission struct {
	index uint64
	buf   hal.CommandBuffer
}

// New returns a painter on provider's device. A provider without a usable
// HAL device fails with gridfx.ErrContextUnavailable.
func New(provider gpucontext.DeviceProvider, width, height int, opts ...Option) (*Painter, error) {
	device, queue, err := halDevice(provider)
	if err != nil {
		return nil, fmt.Errorf("gpu: %w: %w", gridfx.ErrContextUnavailable, err)
	}
	p := &Painter{device: device, queue: queue}
	for _, opt := range opts {
		opt(p)
	}
	p.ownTarget = p.targetView == nil
	if p.atlases == nil {
		f, err := atlas.DefaultFont()
		if err != nil {
			return nil, fmt.Errorf("gpu: load font: %w", err)
		}
		p.atlases = atlas.NewCache(f, 0)
		p.ownsCache = true
	}

	if p.pipe, err = newGridPipeline(device); err != nil {
		return nil, fmt.Errorf("gpu: %w", err)
	}
	for i := range p.uniforms {
		buf, err := device.CreateBuffer(&hal.BufferDescriptor{
			Label: "grid_uniforms",
			Size:  uniformSize,
			Usage: gputypes.BufferUsageUniform | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			_ = p.Close()
			return nil, fmt.Errorf("gpu: create uniform buffer: %w", err)
		}
		p.uniforms[i] = buf
	}
	if err := p.Resize(width, height); err != nil {
		_ = p.Close()
		return nil, err
	}
	gridfx.Logger().Info("gpu: painter ready", "width", width, "height", height)
	return p, nil
}

// Stats returns a snapshot of the painter counters.
func (p *Painter) Stats() Stats { return p.stats }

// Atlases returns the painter's atlas cache.
func (p *Painter) Atlases() *atlas.Cache { return p.atlases }

// Target returns the texture view frames are rendered into.
func (p *Painter) Target() hal.TextureView { return p.targetView }

// Resize recreates an owned render target at width×height.
func (p *Painter) Resize(width, height int) error {
	if p.closed {
		return gridfx.ErrDestroyed
	}
	if width == p.width && height == p.height && (!p.ownTarget || p.target != nil || width <= 0 || height <= 0) {
		return nil
	}
	p.width, p.height = width, height
	if !p.ownTarget {
		return nil
	}
	p.destroyTarget()
	if width <= 0 || height <= 0 {
		return nil
	}

	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "grid_target",
		Size:          hal.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1}, //nolint:gosec // checked positive
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        targetFormat,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("gpu: create target: %w", err)
	}
	view, err := p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "grid_target_view",
		Format:        targetFormat,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		p.device.DestroyTexture(tex)
		return fmt.Errorf("gpu: create target view: %w", err)
	}
	p.target, p.targetView = tex, view
	return nil
}

// Paint renders f: a clear to the background, then one draw for primary
// cells and one for the rest.
func (p *Painter) Paint(f *gridfx.Frame) error {
	if p.closed {
		return gridfx.ErrDestroyed
	}
	p.reclaim()
	p.stats.Frames++
	if p.targetView == nil {
		return nil
	}

	var a *atlas.Atlas
	if len(f.Cells) > 0 {
		var err error
		if a, err = p.atlases.Get(f); err != nil {
			gridfx.Logger().Warn("gpu: atlas unavailable, drawing background only", "err", err)
			a = nil
		}
	}

	p.quads.reset()
	if a != nil {
		if err := p.ensureAtlas(a); err != nil {
			return err
		}
		p.quads.build(f, a)
		if err := p.upload(f); err != nil {
			return err
		}
	}
	p.stats.Cells = p.quads.cells()
	p.stats.Vertices = p.quads.cells() * VerticesPerCell
	p.stats.Skipped = p.quads.skipped

	return p.encode(f)
}

// ensureAtlas uploads a when it differs from the resident texture.
func (p *Painter) ensureAtlas(a *atlas.Atlas) error {
	if p.atlasTex != nil && p.atlasTex.atlas == a {
		return nil
	}
	p.destroyAtlas()

	w, h := a.Mask.Bounds().Dx(), a.Mask.Bounds().Dy()
	size := hal.Extent3D{Width: uint32(w), Height: uint32(h), DepthOrArrayLayers: 1} //nolint:gosec // image bounds
	tex, err := p.device.CreateTexture(&hal.TextureDescriptor{
		Label:         "grid_atlas",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Usage:         gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("gpu: create atlas texture: %w", err)
	}
	at := &atlasTexture{atlas: a, tex: tex}
	p.atlasTex = at

	if at.view, err = p.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         "grid_atlas_view",
		Format:        gputypes.TextureFormatRGBA8Unorm,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	}); err != nil {
		p.destroyAtlas()
		return fmt.Errorf("gpu: create atlas view: %w", err)
	}

	if err := p.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: tex, MipLevel: 0},
		atlasPixels(a),
		&hal.ImageDataLayout{Offset: 0, BytesPerRow: uint32(w) * 4, RowsPerImage: uint32(h)}, //nolint:gosec // image bounds
		&size,
	); err != nil {
		p.destroyAtlas()
		return fmt.Errorf("gpu: upload atlas: %w", err)
	}

	for i, label := range [2]string{"grid_bind_primary", "grid_bind_plain"} {
		if at.groups[i], err = p.pipe.bindGroup(label, p.uniforms[i], at.view); err != nil {
			p.destroyAtlas()
			return fmt.Errorf("gpu: %w", err)
		}
	}
	p.stats.Uploads++
	gridfx.Logger().Debug("gpu: atlas uploaded", "slots", a.Len(), "width", w, "height", h)
	return nil
}

// upload writes the vertex data and uniforms, growing the vertex buffer
// by doubling.
func (p *Painter) upload(f *gridfx.Frame) error {
	need := uint64(len(p.quads.data))
	if need > p.vertexCap {
		capacity := growCapacity(p.vertexCap, need)
		buf, err := p.device.CreateBuffer(&hal.BufferDescriptor{
			Label: "grid_vertices",
			Size:  capacity,
			Usage: gputypes.BufferUsageVertex | gputypes.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("gpu: create vertex buffer: %w", err)
		}
		if p.vertexBuf != nil {
			p.device.DestroyBuffer(p.vertexBuf)
		}
		p.vertexBuf, p.vertexCap = buf, capacity
		p.stats.BufferSize = capacity
		gridfx.Logger().Debug("gpu: vertex buffer grown", "bytes", capacity)
	}
	if need > 0 {
		if err := p.queue.WriteBuffer(p.vertexBuf, 0, p.quads.data); err != nil {
			return fmt.Errorf("gpu: write vertices: %w", err)
		}
	}

	r, g, b := f.Primary.Floats()
	if err := p.queue.WriteBuffer(p.uniforms[0], 0, uniformData(p.width, p.height, r, g, b)); err != nil {
		return fmt.Errorf("gpu: write uniforms: %w", err)
	}
	if err := p.queue.WriteBuffer(p.uniforms[1], 0, uniformData(p.width, p.height, 1, 1, 1)); err != nil {
		return fmt.Errorf("gpu: write uniforms: %w", err)
	}
	return nil
}

func (p *Painter) encode(f *gridfx.Frame) error {
	encoder, err := p.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: "grid_encoder"})
	if err != nil {
		return fmt.Errorf("gpu: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("grid_frame"); err != nil {
		return fmt.Errorf("gpu: begin encoding: %w", err)
	}

	bg := f.Background
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: "grid_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:    p.targetView,
			LoadOp:  gputypes.LoadOpClear,
			StoreOp: gputypes.StoreOpStore,
			ClearValue: gputypes.Color{
				R: float64(bg.R) / 255, G: float64(bg.G) / 255, B: float64(bg.B) / 255, A: 1,
			},
		}},
	})
	if p.quads.cells() > 0 {
		rp.SetPipeline(p.pipe.pipeline)
		rp.SetVertexBuffer(0, p.vertexBuf, 0)
		first := uint32(0)
		for i, n := range [2]int{p.quads.primary, p.quads.other} {
			if n == 0 {
				continue
			}
			count := uint32(n * VerticesPerCell) //nolint:gosec // bounded by cell count
			rp.SetBindGroup(0, p.atlasTex.groups[i], nil)
			rp.Draw(count, 1, first, 0)
			first += count
			p.stats.Draws++
		}
	}
	rp.End()

	cmd, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("gpu: end encoding: %w", err)
	}
	idx, err := p.queue.Submit([]hal.CommandBuffer{cmd})
	if err != nil {
		p.device.FreeCommandBuffer(cmd)
		return fmt.Errorf("gpu: submit: %w", err)
	}
	p.submitted = append(p.submitted, submission{index: idx, buf: cmd})
	return nil
}

// reclaim frees command buffers the GPU has finished with.
func (p *Painter) reclaim() {
	done := p.queue.PollCompleted()
	n := 0
	for _, s := range p.submitted {
		if s.index <= done {
			p.device.FreeCommandBuffer(s.buf)
			continue
		}
		p.submitted[n] = s
		n++
	}
	p.submitted = p.submitted[:n]
}

func (p *Painter) destroyAtlas() {
	at := p.atlasTex
	if at == nil {
		return
	}
	for i, g := range at.groups {
		if g != nil {
			p.device.DestroyBindGroup(g)
			at.groups[i] = nil
		}
	}
	if at.view != nil {
		p.device.DestroyTextureView(at.view)
	}
	if at.tex != nil {
		p.device.DestroyTexture(at.tex)
	}
	p.atlasTex = nil
}

func (p *Painter) destroyTarget() {
	if !p.ownTarget {
		return
	}
	if p.targetView != nil {
		p.device.DestroyTextureView(p.targetView)
		p.targetView = nil
	}
	if p.target != nil {
		p.device.DestroyTexture(p.target)
		p.target = nil
	}
}

// Close waits for the GPU and releases every resource the painter created.
// The device stays open. Close is idempotent.
func (p *Painter) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	if err := p.device.WaitIdle(); err != nil {
		gridfx.Logger().Warn("gpu: wait idle", "err", err)
	}
	for _, s := range p.submitted {
		p.device.FreeCommandBuffer(s.buf)
	}
	p.submitted = nil

	p.destroyAtlas()
	if p.vertexBuf != nil {
		p.device.DestroyBuffer(p.vertexBuf)
		p.vertexBuf, p.vertexCap = nil, 0
	}
	for i, u := range p.uniforms {
		if u != nil {
			p.device.DestroyBuffer(u)
			p.uniforms[i] = nil
		}
	}
	p.destroyTarget()
	if p.pipe != nil {
		p.pipe.destroy()
	}
	if p.ownsCache {
		p.atlases.Clear()
	}
	return nil
}
