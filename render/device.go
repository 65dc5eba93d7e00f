package render

import (
	"fmt"

	"github.com/cogentcore/webgpu/wgpu"
)

// GPUBuffer is the part of a GPU buffer the binding needs. *wgpu.Buffer satisfies it.
type GPUBuffer interface {
	GetSize() uint64
	Release()
}

// Device creates vertex buffers and writes into them.
type Device interface {
	CreateBuffer(label string, size uint64) (GPUBuffer, error)
	WriteBuffer(buf GPUBuffer, offset uint64, data []byte) error
}

// bufferWriter is the queue operation WGPUDevice uploads through. *wgpu.Queue satisfies it.
type bufferWriter interface {
	WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error
}

// WGPUDevice adapts a wgpu device and its queue.
type WGPUDevice struct {
	Device *wgpu.Device
	queue  bufferWriter
}

func NewWGPUDevice(device *wgpu.Device) *WGPUDevice {
	return &WGPUDevice{Device: device, queue: device.GetQueue()}
}

func (d *WGPUDevice) CreateBuffer(label string, size uint64) (GPUBuffer, error) {
	buf, err := d.Device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", label, err)
	}
	return buf, nil
}

func (d *WGPUDevice) WriteBuffer(buf GPUBuffer, offset uint64, data []byte) error {
	wb, ok := buf.(*wgpu.Buffer)
	if !ok {
		return fmt.Errorf("buffer %T was not created by this device", buf)
	}
	if err := d.queue.WriteBuffer(wb, offset, data); err != nil {
		return fmt.Errorf("write %d bytes at %d: %w", len(data), offset, err)
	}
	return nil
}
