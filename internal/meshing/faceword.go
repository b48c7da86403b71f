package meshing

import "blockmesh/internal/registry"

// FaceWord is the per-cell scratch word of a meshing pass.
//
//	bits 0-5   pending faces, in registry face order
//	bits 6-14  AO samples one layer up (z+1), 3x3 around the cell
//	bits 15-23 AO samples one layer down (z-1)
//	bit  24    plane shape waiting to be emitted
//	bit  25    slab drawn at its reduced height
//
// AO sample (dx, dy), both in -1..1, sits at bit (dy+1)*3 + (dx+1) of its layer.
type FaceWord uint32

const (
	faceBits     FaceWord = 1<<registry.NumFaces - 1
	aoUpperShift          = 6
	aoLowerShift          = 15
	aoLayerBits  FaceWord = 0x1FF
	planeBit     FaceWord = 1 << 24
	shortSlabBit FaceWord = 1 << 25
)

// Has reports whether face f is pending.
func (w FaceWord) Has(f registry.Face) bool { return w&(1<<f) != 0 }

// Set marks face f pending.
func (w *FaceWord) Set(f registry.Face) { *w |= 1 << f }

// Clear marks face f done.
func (w *FaceWord) Clear(f registry.Face) { *w &^= 1 << f }

// Faces returns the pending face mask.
func (w FaceWord) Faces() uint8 { return uint8(w & faceBits) }

func aoBit(dx, dy int) uint { return uint((dy+1)*3 + (dx + 1)) }

// Upper reports whether the AO sample at (x+dx, y+dy, z+1) is occupied.
func (w FaceWord) Upper(dx, dy int) bool { return w&(1<<(aoUpperShift+aoBit(dx, dy))) != 0 }

// SetUpper marks the AO sample at (x+dx, y+dy, z+1) occupied.
func (w *FaceWord) SetUpper(dx, dy int) { *w |= 1 << (aoUpperShift + aoBit(dx, dy)) }

// Lower reports whether the AO sample at (x+dx, y+dy, z-1) is occupied.
func (w FaceWord) Lower(dx, dy int) bool { return w&(1<<(aoLowerShift+aoBit(dx, dy))) != 0 }

// SetLower marks the AO sample at (x+dx, y+dy, z-1) occupied.
func (w *FaceWord) SetLower(dx, dy int) { *w |= 1 << (aoLowerShift + aoBit(dx, dy)) }

// Sample reads layer dz (+1 or -1).
func (w FaceWord) Sample(dx, dy, dz int) bool {
	if dz > 0 {
		return w.Upper(dx, dy)
	}
	return w.Lower(dx, dy)
}

// Plane reports whether the cell holds a plane shape still to be emitted.
func (w FaceWord) Plane() bool { return w&planeBit != 0 }

// SetPlane marks the cell as holding a plane shape.
func (w *FaceWord) SetPlane() { *w |= planeBit }

// ShortSlab reports whether the slab in this cell is drawn at reduced height.
func (w FaceWord) ShortSlab() bool { return w&shortSlabBit != 0 }

// SetShortSlab marks the slab in this cell as drawn at reduced height.
func (w *FaceWord) SetShortSlab() { *w |= shortSlabBit }

// AOMask returns the AO bits that shade face f: the whole upper layer for
// the top face, the whole lower layer for the bottom face, and for a side
// face the three samples in front of it on both layers.
func AOMask(f registry.Face) FaceWord {
	switch f {
	case registry.FacePosZ:
		return aoLayerBits << aoUpperShift
	case registry.FaceNegZ:
		return aoLayerBits << aoLowerShift
	}
	var m FaceWord
	o := f.Offset()
	for t := -1; t <= 1; t++ {
		dx, dy := o[0], t
		if f.Axis() == 1 {
			dx, dy = t, o[1]
		}
		m.SetUpper(dx, dy)
		m.SetLower(dx, dy)
	}
	return m
}
