package assets

import (
	"bytes"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type voxBuilder struct {
	chunks bytes.Buffer
}

func (b *voxBuilder) chunk(id string, data []byte) *voxBuilder {
	b.chunks.WriteString(id)
	binary.Write(&b.chunks, binary.LittleEndian, int32(len(data)))
	binary.Write(&b.chunks, binary.LittleEndian, int32(0))
	b.chunks.Write(data)
	return b
}

func (b *voxBuilder) size(x, y, z uint32) *voxBuilder {
	var d [12]byte
	binary.LittleEndian.PutUint32(d[0:], x)
	binary.LittleEndian.PutUint32(d[4:], y)
	binary.LittleEndian.PutUint32(d[8:], z)
	return b.chunk("SIZE", d[:])
}

func (b *voxBuilder) xyzi(voxels ...Voxel) *voxBuilder {
	d := make([]byte, 4, 4+4*len(voxels))
	binary.LittleEndian.PutUint32(d, uint32(len(voxels)))
	for _, v := range voxels {
		d = append(d, v.X, v.Y, v.Z, v.ColorIndex)
	}
	return b.chunk("XYZI", d)
}

func (b *voxBuilder) bytes() []byte {
	var out bytes.Buffer
	out.WriteString("VOX ")
	binary.Write(&out, binary.LittleEndian, int32(150))
	out.WriteString("MAIN")
	binary.Write(&out, binary.LittleEndian, int32(0))
	binary.Write(&out, binary.LittleEndian, int32(b.chunks.Len()))
	out.Write(b.chunks.Bytes())
	return out.Bytes()
}

func shrimpVox() []byte {
	b := &voxBuilder{}
	b.size(2, 2, 1).xyzi(Voxel{0, 0, 0, 1}, Voxel{1, 0, 0, 2}, Voxel{1, 1, 0, 2})
	pal := make([]byte, 255*4)
	copy(pal, []byte{0xff, 0x80, 0x40, 0xff})
	b.chunk("RGBA", pal)
	return b.bytes()
}

func matlChunk(id int32, props ...string) []byte {
	var d bytes.Buffer
	binary.Write(&d, binary.LittleEndian, id)
	binary.Write(&d, binary.LittleEndian, int32(len(props)/2))
	for _, s := range props {
		binary.Write(&d, binary.LittleEndian, int32(len(s)))
		d.WriteString(s)
	}
	return d.Bytes()
}

func TestParseVox_SingleModel(t *testing.T) {
	vf, err := ParseVox(bytes.NewReader(shrimpVox()))
	require.NoError(t, err)

	assert.Equal(t, 150, vf.Version)
	require.Len(t, vf.Models, 1)
	m := vf.Models[0]
	assert.Equal(t, [3]uint32{2, 2, 1}, [3]uint32{m.SizeX, m.SizeY, m.SizeZ})
	assert.Equal(t, []Voxel{{0, 0, 0, 1}, {1, 0, 0, 2}, {1, 1, 0, 2}}, m.Voxels)
	assert.Equal(t, 3, vf.VoxelCount())
	assert.Equal(t, [4]byte{0xff, 0x80, 0x40, 0xff}, vf.Palette[1])
	assert.Equal(t, [4]byte{255, 255, 255, 255}, vf.Palette[0])
}

func TestParseVox_PackedModels(t *testing.T) {
	b := &voxBuilder{}
	var pack [4]byte
	binary.LittleEndian.PutUint32(pack[:], 2)
	b.chunk("PACK", pack[:])
	b.size(1, 1, 1).xyzi(Voxel{0, 0, 0, 1})
	b.size(3, 1, 1).xyzi(Voxel{0, 0, 0, 1}, Voxel{2, 0, 0, 1})

	vf, err := ParseVox(bytes.NewReader(b.bytes()))
	require.NoError(t, err)
	require.Len(t, vf.Models, 2)
	assert.Len(t, vf.Models[0].Voxels, 1)
	assert.Equal(t, uint32(3), vf.Models[1].SizeX)
	assert.Len(t, vf.Models[1].Voxels, 2)
}

func TestParseVox_Material(t *testing.T) {
	b := &voxBuilder{}
	b.size(1, 1, 1).xyzi(Voxel{0, 0, 0, 7})
	b.chunk("MATL", matlChunk(7, "_type", "_glass", "_weight", "0.25", "_rough", "0.1"))

	vf, err := ParseVox(bytes.NewReader(b.bytes()))
	require.NoError(t, err)
	require.Len(t, vf.Materials, 1)
	mat := vf.Materials[0]
	assert.Equal(t, 7, mat.ID)
	assert.Equal(t, 2, mat.Type)
	assert.InDelta(t, 0.25, mat.Weight, 1e-6)
	assert.Equal(t, "0.1", mat.Property["_rough"])
}

func TestParseVox_Rejects(t *testing.T) {
	_, err := ParseVox(strings.NewReader("glTF...."))
	assert.ErrorIs(t, err, ErrNotVox)

	_, err = ParseVox(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrNotVox)

	truncated := shrimpVox()
	_, err = ParseVox(bytes.NewReader(truncated[:len(truncated)-10]))
	assert.Error(t, err)

	b := &voxBuilder{}
	b.xyzi(Voxel{0, 0, 0, 1})
	_, err = ParseVox(bytes.NewReader(b.bytes()))
	assert.Error(t, err, "XYZI without SIZE")

	bad := make([]byte, 4)
	binary.LittleEndian.PutUint32(bad, 1000)
	b = &voxBuilder{}
	b.size(1, 1, 1).chunk("XYZI", bad)
	_, err = ParseVox(bytes.NewReader(b.bytes()))
	assert.Error(t, err)
}
