package renderer

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/cogentcore/webgpu/wgpu"
)

// vertexStride is the byte size of one interleaved vertex: position vec3
// followed by UV vec2.
const vertexStride = 20

// wgpuRenderTarget is the WebGPU implementation of the RenderTarget
// interface: a color texture plus the view and sampler needed to draw into
// it and later sample it.
type wgpuRenderTarget struct {
	width  int
	height int

	format  wgpu.TextureFormat
	texture *wgpu.Texture
	view    *wgpu.TextureView
	sampler *wgpu.Sampler
}

var _ RenderTarget = &wgpuRenderTarget{}

func (t *wgpuRenderTarget) Width() int {
	return t.width
}

func (t *wgpuRenderTarget) Height() int {
	return t.height
}

func (t *wgpuRenderTarget) Release() {
	if t.sampler != nil {
		t.sampler.Release()
		t.sampler = nil
	}
	if t.view != nil {
		t.view.Release()
		t.view = nil
	}
	if t.texture != nil {
		t.texture.Release()
		t.texture = nil
	}
}

// wgpuRendererBackendImpl is the WebGPU implementation of the
// rendererBackend interface.
type wgpuRendererBackendImpl struct {
	mu     *sync.Mutex
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat *wgpu.TextureFormat
	surfaceWidth  int
	surfaceHeight int

	// One render pipeline per color attachment format: the swapchain format
	// for screen passes, the target's format for offscreen passes.
	pipelines       map[wgpu.TextureFormat]*wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	shaderModule    *wgpu.ShaderModule
	uniformBuffer   *wgpu.Buffer

	// fallbackTarget is a 1x1 white texture substituted for drawables with no
	// texture, so a single pipeline serves every draw.
	fallbackTarget *wgpuRenderTarget

	// currentTarget receives nil-target Render calls when set.
	currentTarget RenderTarget

	// viewport is the screen-pass sub-rectangle (x, y, width, height); a zero
	// width means the full surface.
	viewport [4]int
}

var _ rendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor) (rendererBackend, error) {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:        &sync.Mutex{},
		instance:  wgpu.CreateInstance(nil),
		pipelines: make(map[wgpu.TextureFormat]*wgpu.RenderPipeline),
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: b.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: no compatible adapter: %v", ErrBackendUnavailable, err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("%w: device request failed: %v", ErrBackendUnavailable, err)
	}
	b.device = d
	b.queue = d.GetQueue()

	if err := b.initShared(); err != nil {
		return nil, err
	}

	return b, nil
}

// initShared creates the resources every pass reuses: the shader module, the
// bind group layout, the camera uniform buffer, and the fallback texture.
func (b *wgpuRendererBackendImpl) initShared() error {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Passthrough Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: passthroughShaderSrc,
		},
	})
	if err != nil {
		return fmt.Errorf("%w: shader module creation failed: %v", ErrBackendUnavailable, err)
	}
	b.shaderModule = module

	layout, err := b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Passthrough Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: 64,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageFragment,
				Sampler: wgpu.SamplerBindingLayout{
					Type: wgpu.SamplerBindingTypeFiltering,
				},
			},
			{
				Binding:    2,
				Visibility: wgpu.ShaderStageFragment,
				Texture: wgpu.TextureBindingLayout{
					SampleType:    wgpu.TextureSampleTypeFloat,
					ViewDimension: wgpu.TextureViewDimension2D,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("%w: bind group layout creation failed: %v", ErrBackendUnavailable, err)
	}
	b.bindGroupLayout = layout

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Camera Uniform Buffer",
		Size:  64,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("%w: uniform buffer creation failed: %v", ErrBackendUnavailable, err)
	}
	b.uniformBuffer = buf

	fallback, err := b.createTarget(1, 1, targetConfig{format: TargetFormatRGBA8, filter: TargetFilterNearest})
	if err != nil {
		return err
	}
	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  fallback.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		[]byte{255, 255, 255, 255},
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  4,
			RowsPerImage: 1,
		},
		&wgpu.Extent3D{
			Width:              1,
			Height:             1,
			DepthOrArrayLayers: 1,
		},
	)
	b.fallbackTarget = fallback

	return nil
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.surfaceWidth = width
	b.surfaceHeight = height
}

func (b *wgpuRendererBackendImpl) CanvasSize() (width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.surfaceWidth, b.surfaceHeight
}

func (b *wgpuRendererBackendImpl) SetViewport(x, y, width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.viewport = [4]int{x, y, width, height}
}

func (b *wgpuRendererBackendImpl) SetRenderTarget(target RenderTarget) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.currentTarget = target
}

func (b *wgpuRendererBackendImpl) CreateRenderTarget(width, height int, cfg targetConfig) (RenderTarget, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTarget(width, height, cfg)
}

func (b *wgpuRendererBackendImpl) createTarget(width, height int, cfg targetConfig) (*wgpuRenderTarget, error) {
	format := wgpu.TextureFormatRGBA8Unorm
	if cfg.format == TargetFormatRGBA8Srgb {
		format = wgpu.TextureFormatRGBA8UnormSrgb
	}

	tex, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Render Target Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render target texture creation failed: %v", ErrBackendUnavailable, err)
	}

	view, err := tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("%w: render target view creation failed: %v", ErrBackendUnavailable, err)
	}

	filter := wgpu.FilterModeLinear
	if cfg.filter == TargetFilterNearest {
		filter = wgpu.FilterModeNearest
	}
	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         "Render Target Sampler",
		AddressModeU:  wgpu.AddressModeClampToEdge,
		AddressModeV:  wgpu.AddressModeClampToEdge,
		AddressModeW:  wgpu.AddressModeClampToEdge,
		MagFilter:     filter,
		MinFilter:     filter,
		MipmapFilter:  wgpu.MipmapFilterModeNearest,
		LodMinClamp:   0.0,
		LodMaxClamp:   32.0,
		MaxAnisotropy: 1,
	})
	if err != nil {
		view.Release()
		tex.Release()
		return nil, fmt.Errorf("%w: render target sampler creation failed: %v", ErrBackendUnavailable, err)
	}

	return &wgpuRenderTarget{
		width:   width,
		height:  height,
		format:  format,
		texture: tex,
		view:    view,
		sampler: samp,
	}, nil
}

// pipelineFor returns the render pipeline matching the color attachment
// format, creating and caching it on first use.
func (b *wgpuRendererBackendImpl) pipelineFor(format wgpu.TextureFormat) (*wgpu.RenderPipeline, error) {
	if p, ok := b.pipelines[format]; ok {
		return p, nil
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Passthrough Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.bindGroupLayout},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: pipeline layout creation failed: %v", ErrBackendUnavailable, err)
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Passthrough Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     b.shaderModule,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: vertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         0,
							ShaderLocation: 0,
						},
						{
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         12,
							ShaderLocation: 1,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     b.shaderModule,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: render pipeline creation failed: %v", ErrBackendUnavailable, err)
	}

	b.pipelines[format] = created
	return created, nil
}

func (b *wgpuRendererBackendImpl) Render(scn Scene, cam Camera, target RenderTarget, forceClear bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if target == nil {
		target = b.currentTarget
	}

	if target != nil {
		wt, ok := target.(*wgpuRenderTarget)
		if !ok {
			return fmt.Errorf("%w: render target is not a WebGPU target", ErrBackendUnavailable)
		}
		return b.renderPass(scn, cam, wt.view, wt.format, forceClear, nil)
	}

	// Screen pass: acquire the swapchain texture, draw, submit, present.
	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("%w: surface texture acquisition failed: %v", ErrBackendUnavailable, err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("%w: surface view creation failed: %v", ErrBackendUnavailable, err)
	}

	vp := b.viewport
	if vp[2] == 0 || vp[3] == 0 {
		vp = [4]int{0, 0, b.surfaceWidth, b.surfaceHeight}
	}

	err = b.renderPass(scn, cam, view, *b.surfaceFormat, forceClear, &vp)
	if err == nil {
		b.surface.Present()
	}

	view.Release()
	surfaceTexture.Release()
	return err
}

// renderPass encodes and submits one color pass over the scene's drawables.
// Per-drawable vertex buffers and bind groups are transient: created for the
// pass, released after submission.
func (b *wgpuRendererBackendImpl) renderPass(scn Scene, cam Camera, view *wgpu.TextureView, format wgpu.TextureFormat, forceClear bool, viewport *[4]int) error {
	renderPipeline, err := b.pipelineFor(format)
	if err != nil {
		return err
	}

	matrix := cam.ViewProjectionMatrix()
	b.queue.WriteBuffer(b.uniformBuffer, 0, wgpu.ToBytes(matrix[:]))

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("%w: command encoder creation failed: %v", ErrBackendUnavailable, err)
	}
	defer encoder.Release()

	loadOp := wgpu.LoadOpLoad
	if forceClear {
		loadOp = wgpu.LoadOpClear
	}
	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       view,
				LoadOp:     loadOp,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	if viewport != nil {
		pass.SetViewport(float32(viewport[0]), float32(viewport[1]), float32(viewport[2]), float32(viewport[3]), 0, 1)
	}
	pass.SetPipeline(renderPipeline)

	var transientBuffers []*wgpu.Buffer
	var transientGroups []*wgpu.BindGroup
	defer func() {
		for _, bg := range transientGroups {
			bg.Release()
		}
		for _, buf := range transientBuffers {
			buf.Release()
		}
	}()

	for _, drawable := range scn.Drawables() {
		data := drawable.VertexData()
		if len(data) == 0 {
			continue
		}

		vertexBuffer, bufErr := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: "Drawable Vertex Buffer",
			Size:  uint64(len(data)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if bufErr != nil {
			pass.End()
			return fmt.Errorf("%w: vertex buffer creation failed: %v", ErrBackendUnavailable, bufErr)
		}
		transientBuffers = append(transientBuffers, vertexBuffer)
		b.queue.WriteBuffer(vertexBuffer, 0, data)

		source := b.fallbackTarget
		if tex, ok := drawable.Texture().(*wgpuRenderTarget); ok && tex != nil {
			source = tex
		}

		bindGroup, bgErr := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Drawable Bind Group",
			Layout: b.bindGroupLayout,
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  b.uniformBuffer,
					Offset:  0,
					Size:    wgpu.WholeSize,
				},
				{
					Binding: 1,
					Sampler: source.sampler,
				},
				{
					Binding:     2,
					TextureView: source.view,
				},
			},
		})
		if bgErr != nil {
			pass.End()
			return fmt.Errorf("%w: bind group creation failed: %v", ErrBackendUnavailable, bgErr)
		}
		transientGroups = append(transientGroups, bindGroup)

		pass.SetBindGroup(0, bindGroup, nil)
		pass.SetVertexBuffer(0, vertexBuffer, 0, wgpu.WholeSize)
		pass.Draw(uint32(drawable.VertexCount()), 1, 0, 0)
	}

	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("%w: command encoding failed: %v", ErrBackendUnavailable, err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()

	return nil
}
