package assets

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
)

const voxMagic = "VOX "

// ErrNotVox is returned when the input does not start with the MagicaVoxel header.
var ErrNotVox = errors.New("assets: not a VOX file")

type Voxel struct {
	X, Y, Z, ColorIndex byte
}

type VoxModel struct {
	SizeX, SizeY, SizeZ uint32
	Voxels              []Voxel
}

type VoxPalette [256][4]byte // RGBA

type VoxMaterial struct {
	ID       int
	Type     int
	Weight   float32
	Property map[string]string
}

type VoxFile struct {
	Version   int
	Models    []VoxModel
	Palette   VoxPalette
	Materials []VoxMaterial
}

// VoxelCount sums the voxels of every model in the file.
func (f *VoxFile) VoxelCount() int {
	n := 0
	for _, m := range f.Models {
		n += len(m.Voxels)
	}
	return n
}

func LoadVoxFile(path string) (*VoxFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	vf, err := ParseVox(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return vf, nil
}

// ParseVox reads a MagicaVoxel file. MAIN is treated as a container; unknown chunks are skipped.
func ParseVox(r io.Reader) (*VoxFile, error) {
	var magic [4]byte
	if _, err := io.ReadFull(r, magic[:]); err != nil {
		return nil, ErrNotVox
	}
	if string(magic[:]) != voxMagic {
		return nil, ErrNotVox
	}

	var version int32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return nil, fmt.Errorf("read version: %w", err)
	}

	vf := &VoxFile{
		Version: int(version),
		Palette: defaultPalette(),
	}

	// SIZE and XYZI come in pairs; without a PACK chunk each SIZE opens a new model.
	packed := false
	next := 0

	for {
		var header [12]byte
		if _, err := io.ReadFull(r, header[:]); err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("read chunk header: %w", err)
		}
		id := string(header[:4])
		size := int32(binary.LittleEndian.Uint32(header[4:8]))
		if size < 0 {
			return nil, fmt.Errorf("chunk %s: negative size", id)
		}
		if id == "MAIN" {
			// Children follow inline.
			if _, err := io.CopyN(io.Discard, r, int64(size)); err != nil {
				return nil, fmt.Errorf("chunk MAIN: %w", err)
			}
			continue
		}

		data := make([]byte, size)
		if _, err := io.ReadFull(r, data); err != nil {
			return nil, fmt.Errorf("chunk %s: %w", id, err)
		}

		switch id {
		case "PACK":
			if len(data) < 4 {
				return nil, errors.New("PACK chunk too small")
			}
			vf.Models = make([]VoxModel, binary.LittleEndian.Uint32(data[:4]))
			packed = true
		case "SIZE":
			if len(data) < 12 {
				return nil, errors.New("SIZE chunk too small")
			}
			if !packed {
				vf.Models = append(vf.Models, VoxModel{})
			} else if next >= len(vf.Models) {
				return nil, errors.New("more SIZE chunks than PACK declared")
			}
			m := &vf.Models[len(vf.Models)-1]
			if packed {
				m = &vf.Models[next]
			}
			m.SizeX = binary.LittleEndian.Uint32(data[0:4])
			m.SizeY = binary.LittleEndian.Uint32(data[4:8])
			m.SizeZ = binary.LittleEndian.Uint32(data[8:12])
		case "XYZI":
			if len(vf.Models) == 0 {
				return nil, errors.New("XYZI chunk before SIZE")
			}
			if len(data) < 4 {
				return nil, errors.New("XYZI chunk too small")
			}
			m := &vf.Models[len(vf.Models)-1]
			if packed {
				if next >= len(vf.Models) {
					return nil, errors.New("more XYZI chunks than PACK declared")
				}
				m = &vf.Models[next]
				next++
			}
			n := int(binary.LittleEndian.Uint32(data[:4]))
			if 4+n*4 > len(data) {
				return nil, errors.New("XYZI chunk data overflow")
			}
			m.Voxels = make([]Voxel, n)
			for i := range m.Voxels {
				o := 4 + i*4
				m.Voxels[i] = Voxel{X: data[o], Y: data[o+1], Z: data[o+2], ColorIndex: data[o+3]}
			}
		case "RGBA":
			// Palette entry i+1 is stored at i; index 0 stays unused.
			for i := 0; i < 255 && i*4+3 < len(data); i++ {
				copy(vf.Palette[i+1][:], data[i*4:i*4+4])
			}
		case "MATL":
			mat, err := parseMaterial(data)
			if err != nil {
				return nil, fmt.Errorf("chunk MATL: %w", err)
			}
			vf.Materials = append(vf.Materials, mat)
		}
	}

	return vf, nil
}

func parseMaterial(data []byte) (VoxMaterial, error) {
	mat := VoxMaterial{Property: make(map[string]string)}

	readInt := func() (int, error) {
		if len(data) < 4 {
			return 0, io.ErrUnexpectedEOF
		}
		v := int(binary.LittleEndian.Uint32(data[:4]))
		data = data[4:]
		return v, nil
	}
	readString := func() (string, error) {
		n, err := readInt()
		if err != nil {
			return "", err
		}
		if n < 0 || n > len(data) {
			return "", io.ErrUnexpectedEOF
		}
		s := string(data[:n])
		data = data[n:]
		return s, nil
	}

	var err error
	if mat.ID, err = readInt(); err != nil {
		return mat, err
	}
	count, err := readInt()
	if err != nil {
		return mat, err
	}
	for i := 0; i < count && len(data) > 0; i++ {
		key, err := readString()
		if err != nil {
			return mat, err
		}
		value, err := readString()
		if err != nil {
			return mat, err
		}
		if key == "_weight" {
			w, err := strconv.ParseFloat(value, 32)
			if err != nil {
				return mat, fmt.Errorf("_weight %q: %w", value, err)
			}
			mat.Weight = float32(w)
			continue
		}
		mat.Property[key] = value
	}
	if t, ok := mat.Property["_type"]; ok {
		switch t {
		case "_metal":
			mat.Type = 1
		case "_glass":
			mat.Type = 2
		case "_emit":
			mat.Type = 3
		}
	}
	return mat, nil
}

func defaultPalette() VoxPalette {
	var palette VoxPalette
	for i := range palette {
		palette[i] = [4]byte{255, 255, 255, 255}
	}
	return palette
}
