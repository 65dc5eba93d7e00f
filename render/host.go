package render

import "fmt"

// HostBuffer is a GPU buffer stand-in backed by host memory.
type HostBuffer struct {
	Label    string
	Data     []byte
	released bool
}

func (b *HostBuffer) GetSize() uint64 { return uint64(len(b.Data)) }
func (b *HostBuffer) Release()        { b.released = true; b.Data = nil }
func (b *HostBuffer) Released() bool  { return b.released }

// HostDevice keeps particle buffers in memory. Headless runs use it to exercise the same upload
// path as the wgpu device.
type HostDevice struct {
	Created int
	Writes  int
	Bytes   uint64
}

func NewHostDevice() *HostDevice {
	return &HostDevice{}
}

func (d *HostDevice) CreateBuffer(label string, size uint64) (GPUBuffer, error) {
	d.Created++
	return &HostBuffer{Label: label, Data: make([]byte, size)}, nil
}

func (d *HostDevice) WriteBuffer(buf GPUBuffer, offset uint64, data []byte) error {
	hb, ok := buf.(*HostBuffer)
	if !ok {
		return fmt.Errorf("buffer %T was not created by this device", buf)
	}
	if hb.released {
		return fmt.Errorf("write to released buffer %s", hb.Label)
	}
	if offset+uint64(len(data)) > uint64(len(hb.Data)) {
		return fmt.Errorf("write of %d bytes at %d overflows %s (%d bytes)", len(data), offset, hb.Label, len(hb.Data))
	}
	copy(hb.Data[offset:], data)
	d.Writes++
	d.Bytes += uint64(len(data))
	return nil
}
