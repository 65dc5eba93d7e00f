package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/gekko3d/melt/particles"
	"github.com/gekko3d/melt/render/shaders"
)

// Pipeline draws a Binding as translucent camera-facing quads.
type Pipeline struct {
	Device     *wgpu.Device
	Pipeline   *wgpu.RenderPipeline
	UniformBuf *wgpu.Buffer
	BindGroup  *wgpu.BindGroup
}

func NewPipeline(device *wgpu.Device, format wgpu.TextureFormat) (*Pipeline, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          "Melt Points Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: shaders.MeltPointsWGSL},
	})
	if err != nil {
		return nil, err
	}
	defer module.Release()

	instanceLayout := func(a particles.Attribute, format wgpu.VertexFormat) wgpu.VertexBufferLayout {
		return wgpu.VertexBufferLayout{
			ArrayStride: attributeStride(a),
			StepMode:    wgpu.VertexStepModeInstance,
			Attributes: []wgpu.VertexAttribute{
				{Format: format, Offset: 0, ShaderLocation: uint32(a)},
			},
		}
	}

	pipeline, err := device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Melt Points Pipeline",
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				instanceLayout(particles.AttrPosition, wgpu.VertexFormatFloat32x3),
				instanceLayout(particles.AttrSize, wgpu.VertexFormatFloat32),
				instanceLayout(particles.AttrAlpha, wgpu.VertexFormatFloat32),
				instanceLayout(particles.AttrVelocity, wgpu.VertexFormatFloat32),
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{{
				Format:    format,
				WriteMask: wgpu.ColorWriteMaskAll,
				Blend: &wgpu.BlendState{
					Color: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorSrcAlpha,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
					Alpha: wgpu.BlendComponent{
						Operation: wgpu.BlendOperationAdd,
						SrcFactor: wgpu.BlendFactorOne,
						DstFactor: wgpu.BlendFactorOneMinusSrcAlpha,
					},
				},
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		// Translucent points do not write depth.
		DepthStencil: nil,
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, err
	}

	uniformBuf, err := device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Melt Uniforms",
		Size:  UniformSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		pipeline.Release()
		return nil, err
	}

	bindGroup, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Melt Uniforms BG",
		Layout: pipeline.GetBindGroupLayout(0),
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: uniformBuf, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		uniformBuf.Release()
		pipeline.Release()
		return nil, err
	}

	return &Pipeline{
		Device:     device,
		Pipeline:   pipeline,
		UniformBuf: uniformBuf,
		BindGroup:  bindGroup,
	}, nil
}

func (p *Pipeline) UpdateUniforms(u Uniforms) error {
	if err := p.Device.GetQueue().WriteBuffer(p.UniformBuf, 0, u.Bytes()); err != nil {
		return fmt.Errorf("write uniforms: %w", err)
	}
	return nil
}

// Draw records the particle draw into pass. Slots are bound in attribute order.
func (p *Pipeline) Draw(pass *wgpu.RenderPassEncoder, b *Binding) {
	count := b.InstanceCount()
	if count == 0 {
		return
	}
	pass.SetPipeline(p.Pipeline)
	pass.SetBindGroup(0, p.BindGroup, nil)
	for _, a := range particles.Attributes() {
		wb, ok := b.Buffer(a).(*wgpu.Buffer)
		if !ok {
			return
		}
		pass.SetVertexBuffer(uint32(a), wb, 0, wb.GetSize())
	}
	pass.Draw(6, count, 0, 0)
}

func (p *Pipeline) Release() {
	if p.BindGroup != nil {
		p.BindGroup.Release()
	}
	if p.UniformBuf != nil {
		p.UniformBuf.Release()
	}
	if p.Pipeline != nil {
		p.Pipeline.Release()
	}
}
