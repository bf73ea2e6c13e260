package commands

import (
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"structs"
	"unsafe"

	"github.com/oliverbestmann/rtcylinder/glm"
	"github.com/oliverbestmann/rtcylinder/pulse"
	"github.com/oliverbestmann/webgpu/wgpu"
)

//go:embed mesh3d.wgsl
var mesh3dShaderCode string

const (
	FragmentBasic = "fs_basic"
	FragmentTiled = "fs_tiled"
)

type MeshVertex struct {
	_ structs.HostLayout

	Position glm.Vec3f
	UV       glm.Vec2f
}

type meshUniforms struct {
	_ structs.HostLayout

	Transform     glm.Mat4f
	Grid          glm.Vec2f
	EncodeSRGB    float32
	Premultiplied float32
}

// MeshBuffers holds the vertex and index buffers of an uploaded mesh.
type MeshBuffers struct {
	Vertices   *wgpu.Buffer
	Indices    *wgpu.Buffer
	IndexCount uint32
}

func NewMeshBuffers(ctx *pulse.Context, label string, vertices []MeshVertex, indices []uint32) (*MeshBuffers, error) {
	if len(vertices) == 0 || len(indices) == 0 {
		return nil, errors.New("mesh has no triangles")
	}

	bufVertices, err := ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + ".Vertices",
		Contents: wgpu.ToBytes(vertices),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return nil, fmt.Errorf("create vertex buffer: %w", err)
	}

	bufIndices, err := ctx.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    label + ".Indices",
		Contents: wgpu.ToBytes(indices),
		Usage:    wgpu.BufferUsageIndex,
	})
	if err != nil {
		bufVertices.Release()
		return nil, fmt.Errorf("create index buffer: %w", err)
	}

	return &MeshBuffers{
		Vertices:   bufVertices,
		Indices:    bufIndices,
		IndexCount: uint32(len(indices)),
	}, nil
}

func (m *MeshBuffers) Release() {
	m.Vertices.Release()
	m.Indices.Release()
}

// DrawMesh3dOptions describes one mesh of a render pass.
type DrawMesh3dOptions struct {
	Mesh    *MeshBuffers
	Texture *pulse.Texture

	// model view projection matrix
	Transform glm.Mat4f

	// FragmentBasic or FragmentTiled
	Fragment string

	// grid of the tiled fragment shader, see TileGrid
	Grid glm.Vec2f

	// Texture holds premultiplied colors, true for render targets
	Premultiplied bool

	CullMode    wgpu.CullMode
	AddressMode wgpu.AddressMode
}

// TileGrid packs a rows x cols grid for FragmentTiled. The shader scales
// uv by (grid.y, grid.x), so u repeats cols times and v repeats rows times.
func TileGrid(rows, cols float32) glm.Vec2f {
	return glm.Vec2f{rows, cols}
}

type Mesh3dCommand struct {
	ctx *pulse.Context

	pipelineCache *pulse.PipelineCache[mesh3dPipelineConfig]

	// one uniform buffer per mesh of a pass, reused by the next pass
	uniforms []*wgpu.Buffer
}

func NewMesh3dCommand(ctx *pulse.Context) *Mesh3dCommand {
	return &Mesh3dCommand{
		ctx:           ctx,
		pipelineCache: pulse.NewPipelineCache[mesh3dPipelineConfig](ctx),
	}
}

// Render records a single render pass into target. The pass clears color and
// depth before the meshes are drawn in order.
func (p *Mesh3dCommand) Render(target *pulse.RenderTarget, clearColor pulse.Color, meshes []DrawMesh3dOptions) error {
	// the surface is not srgb, encode in the shader to match the offscreen path
	var encodeSRGB float32
	if target.Color.Format() == wgpu.TextureFormatBGRA8Unorm {
		encodeSRGB = 1
	}

	if err := p.ensureUniforms(len(meshes)); err != nil {
		return err
	}

	depthFormat := wgpu.TextureFormatUndefined
	if target.Depth != nil {
		depthFormat = target.Depth.Format()
	}

	var bindGroups []*wgpu.BindGroup
	defer func() {
		for _, bg := range bindGroups {
			bg.Release()
		}
	}()

	encoder, err := p.ctx.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	defer encoder.Release()

	view, resolveTarget := target.Color.RenderViews()

	desc := &wgpu.RenderPassDescriptor{
		Label: "RenderPassMesh3d",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:          view,
				ResolveTarget: resolveTarget,
				LoadOp:        wgpu.LoadOpClear,
				StoreOp:       wgpu.StoreOpStore,
				ClearValue:    clearColor.ToWGPU(),
			},
		},
	}

	if target.Depth != nil {
		desc.DepthStencilAttachment = &wgpu.RenderPassDepthStencilAttachment{
			View:            target.Depth.SourceView(),
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: 1.0,
		}
	}

	pass := encoder.BeginRenderPass(desc)
	passGuard := pulse.NewReleaseGuard(pass)
	defer passGuard.Release()

	for idx, mesh := range meshes {
		pc, err := p.pipelineCache.Get(mesh3dPipelineConfig{
			TargetFormat:      target.Color.Format(),
			TargetSampleCount: target.Color.SampleCount(),
			DepthFormat:       depthFormat,
			CullMode:          mesh.CullMode,
			FragmentEntry:     mesh.Fragment,
			ShaderSource:      mesh3dShaderCode,
		})
		if err != nil {
			return fmt.Errorf("get pipeline: %w", err)
		}

		sampler, err := pulse.CachedSampler(p.ctx.Device, wgpu.SamplerDescriptor{
			Label:         "Mesh3d.Sampler",
			AddressModeU:  mesh.AddressMode,
			AddressModeV:  mesh.AddressMode,
			AddressModeW:  mesh.AddressMode,
			MagFilter:     wgpu.FilterModeLinear,
			MinFilter:     wgpu.FilterModeLinear,
			MipmapFilter:  wgpu.MipmapFilterModeNearest,
			LodMaxClamp:   32,
			MaxAnisotropy: 1,
		})
		if err != nil {
			return err
		}

		uni := meshUniforms{
			Transform:  mesh.Transform,
			Grid:       mesh.Grid,
			EncodeSRGB: encodeSRGB,
		}

		if mesh.Premultiplied {
			uni.Premultiplied = 1
		}

		err = p.ctx.WriteBuffer(p.uniforms[idx], 0, pulse.AsByteSlice(&uni))
		if err != nil {
			return fmt.Errorf("update uniform buffer: %w", err)
		}

		bindGroup, err := p.ctx.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:  "Mesh3d.BindGroup",
			Layout: pc.GetBindGroupLayout(0),
			Entries: []wgpu.BindGroupEntry{
				{
					Binding: 0,
					Buffer:  p.uniforms[idx],
					Size:    wgpu.WholeSize,
				},
				{
					Binding:     1,
					TextureView: mesh.Texture.SourceView(),
				},
				{
					Binding: 2,
					Sampler: sampler,
				},
			},
		})
		if err != nil {
			return fmt.Errorf("create bind group: %w", err)
		}

		bindGroups = append(bindGroups, bindGroup)

		pass.SetPipeline(pc.Pipeline)
		pass.SetBindGroup(0, bindGroup, nil)
		pass.SetVertexBuffer(0, mesh.Mesh.Vertices, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.Mesh.Indices, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(mesh.Mesh.IndexCount, 1, 0, 0, 0)
	}

	if err := pass.End(); err != nil {
		return fmt.Errorf("end render pass: %w", err)
	}

	// must release pass before finishing the encoder
	passGuard.Release()

	cmdBuffer, err := encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("finish encoder: %w", err)
	}

	defer cmdBuffer.Release()

	p.ctx.Submit(cmdBuffer)

	return nil
}

func (p *Mesh3dCommand) ensureUniforms(count int) error {
	for len(p.uniforms) < count {
		buf, err := p.ctx.CreateBuffer(&wgpu.BufferDescriptor{
			Label: fmt.Sprintf("Mesh3d.Uniforms.%d", len(p.uniforms)),
			Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
			Size:  uint64(unsafe.Sizeof(meshUniforms{})),
		})
		if err != nil {
			return fmt.Errorf("create uniform buffer: %w", err)
		}

		p.uniforms = append(p.uniforms, buf)
	}

	return nil
}

func (p *Mesh3dCommand) Release() {
	for _, buf := range p.uniforms {
		buf.Release()
	}

	p.uniforms = nil
}

type mesh3dPipelineConfig struct {
	TargetFormat      wgpu.TextureFormat
	TargetSampleCount uint32
	DepthFormat       wgpu.TextureFormat
	CullMode          wgpu.CullMode
	FragmentEntry     string
	ShaderSource      string
}

func (conf mesh3dPipelineConfig) Specialize(dev *wgpu.Device) (*wgpu.RenderPipeline, error) {
	slog.Info(
		"Create RenderPipeline for mesh3d",
		slog.Any("format", conf.TargetFormat),
		slog.Any("cullMode", conf.CullMode),
		slog.String("fragment", conf.FragmentEntry),
	)

	shader, err := dev.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:      "Mesh3d.ShaderSource",
		WGSLSource: &wgpu.ShaderSourceWGSL{Code: conf.ShaderSource},
	})
	if err != nil {
		return nil, fmt.Errorf("compile mesh3d shader: %w", err)
	}

	defer shader.Release()

	var depthStencil *wgpu.DepthStencilState
	if conf.DepthFormat != wgpu.TextureFormatUndefined {
		keep := wgpu.StencilFaceState{
			Compare:     wgpu.CompareFunctionAlways,
			FailOp:      wgpu.StencilOperationKeep,
			DepthFailOp: wgpu.StencilOperationKeep,
			PassOp:      wgpu.StencilOperationKeep,
		}

		depthStencil = &wgpu.DepthStencilState{
			Format:            conf.DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLessEqual,
			StencilFront:      keep,
			StencilBack:       keep,
		}
	}

	desc := &wgpu.RenderPipelineDescriptor{
		Label: fmt.Sprintf("Mesh3d.%s.%s", conf.TargetFormat, conf.FragmentEntry),
		Vertex: wgpu.VertexState{
			Module:     shader,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(unsafe.Sizeof(MeshVertex{})),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{
							// position
							Format:         wgpu.VertexFormatFloat32x3,
							Offset:         uint64(unsafe.Offsetof(MeshVertex{}.Position)),
							ShaderLocation: 0,
						},
						{
							// uv
							Format:         wgpu.VertexFormatFloat32x2,
							Offset:         uint64(unsafe.Offsetof(MeshVertex{}.UV)),
							ShaderLocation: 1,
						},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     shader,
			EntryPoint: conf.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    conf.TargetFormat,
					Blend:     &wgpu.BlendStatePremultipliedAlphaBlending,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  conf.CullMode,
		},
		DepthStencil: depthStencil,
		Multisample: wgpu.MultisampleState{
			Count:                  conf.TargetSampleCount,
			Mask:                   0xFFFFFFFF,
			AlphaToCoverageEnabled: false,
		},
	}

	pipeline, err := dev.CreateRenderPipeline(desc)
	if err != nil {
		return nil, fmt.Errorf("build mesh3d pipeline: %w", err)
	}

	return pipeline, nil
}
