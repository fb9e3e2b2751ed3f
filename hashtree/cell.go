package hashtree

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// CellCode identifies a cell at the tree's max depth: the Morton interleave of its
// integer coordinates, x in the lowest bit of each group.
type CellCode uint64

// CellCoord holds integer cell coordinates per axis. Z is always 0 in a quadtree.
type CellCoord [3]uint32

// EncodeCell2 interleaves x and y.
func EncodeCell2(x, y uint32) CellCode {
	return CellCode(spread2(uint64(x)) | spread2(uint64(y))<<1)
}

// DecodeCell2 is the inverse of EncodeCell2.
func DecodeCell2(c CellCode) (x, y uint32) {
	return uint32(compact2(uint64(c))), uint32(compact2(uint64(c) >> 1))
}

// EncodeCell3 interleaves the low 21 bits of x, y and z.
func EncodeCell3(x, y, z uint32) CellCode {
	return CellCode(spread3(uint64(x)) | spread3(uint64(y))<<1 | spread3(uint64(z))<<2)
}

// DecodeCell3 is the inverse of EncodeCell3.
func DecodeCell3(c CellCode) (x, y, z uint32) {
	v := uint64(c)
	return uint32(compact3(v)), uint32(compact3(v >> 1)), uint32(compact3(v >> 2))
}

func encode(dims int, cc CellCoord) uint64 {
	if dims == 2 {
		return uint64(EncodeCell2(cc[0], cc[1]))
	}
	return uint64(EncodeCell3(cc[0], cc[1], cc[2]))
}

func decode(dims int, code uint64) CellCoord {
	if dims == 2 {
		x, y := DecodeCell2(CellCode(code))
		return CellCoord{x, y, 0}
	}
	x, y, z := DecodeCell3(CellCode(code))
	return CellCoord{x, y, z}
}

func spread2(v uint64) uint64 {
	v &= 0xFFFFFFFF
	v = (v | v<<16) & 0x0000FFFF0000FFFF
	v = (v | v<<8) & 0x00FF00FF00FF00FF
	v = (v | v<<4) & 0x0F0F0F0F0F0F0F0F
	v = (v | v<<2) & 0x3333333333333333
	v = (v | v<<1) & 0x5555555555555555
	return v
}

func compact2(v uint64) uint64 {
	v &= 0x5555555555555555
	v = (v | v>>1) & 0x3333333333333333
	v = (v | v>>2) & 0x0F0F0F0F0F0F0F0F
	v = (v | v>>4) & 0x00FF00FF00FF00FF
	v = (v | v>>8) & 0x0000FFFF0000FFFF
	v = (v | v>>16) & 0x00000000FFFFFFFF
	return v
}

func spread3(v uint64) uint64 {
	v &= 0x1FFFFF
	v = (v | v<<32) & 0x001F00000000FFFF
	v = (v | v<<16) & 0x001F0000FF0000FF
	v = (v | v<<8) & 0x100F00F00F00F00F
	v = (v | v<<4) & 0x10C30C30C30C30C3
	v = (v | v<<2) & 0x1249249249249249
	return v
}

func compact3(v uint64) uint64 {
	v &= 0x1249249249249249
	v = (v | v>>2) & 0x10C30C30C30C30C3
	v = (v | v>>4) & 0x100F00F00F00F00F
	v = (v | v>>8) & 0x001F0000FF0000FF
	v = (v | v>>16) & 0x001F00000000FFFF
	v = (v | v>>32) & 0x00000000001FFFFF
	return v
}

// cellCoordinates maps p to integer cell coordinates at max depth. Positions outside
// the indexed region land in the nearest border cell; NaN lands in cell 0.
func (t *tree[T]) cellCoordinates(p mgl32.Vec3) CellCoord {
	var cc CellCoord
	last := float64(t.side - 1)
	for a := 0; a < t.dims; a++ {
		f := math.Floor((float64(p[a]) - float64(t.cfg.Origin[a])) / float64(t.cfg.Scale[a]) * float64(t.side))
		switch {
		case math.IsNaN(f) || f < 0:
			f = 0
		case f > last:
			f = last
		}
		cc[a] = uint32(f)
	}
	return cc
}
