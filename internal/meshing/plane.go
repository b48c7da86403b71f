package meshing

import (
	"blockmesh/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// emitPlanes emits every cell marked as a plane shape. Planes are never
// merged. Each copy is a vertical quad through the cell center, rotated
// about Z by BaseRotation + i*RepeatRotation degrees, drawn from both sides.
func (b *Builder) emitPlanes() {
	for z := 0; z < b.Dims[2]; z++ {
		for y := 0; y < b.Dims[1]; y++ {
			for x := 0; x < b.Dims[0]; x++ {
				i := b.index(x, y, z)
				if !b.words[i].Plane() {
					continue
				}
				b.emitPlane(b.desc(b.Blocks[i]), x, y, z)
				b.words[i] &^= planeBit
			}
		}
	}
}

func (b *Builder) emitPlane(d *registry.Descriptor, x, y, z int) {
	p := d.Plane
	vis := d.Faces[0]
	center := mgl32.Vec3{float32(x) + 0.5 + p.OffsetX, float32(y) + 0.5 + p.OffsetY, float32(z)}
	hw := p.Width / 2
	local := [4]mgl32.Vec3{{-hw, 0, 0}, {hw, 0, 0}, {hw, 0, p.Height}, {-hw, 0, p.Height}}
	uvs := [4]mgl32.Vec2{
		vis.UVMin,
		{vis.UVMax[0], vis.UVMin[1]},
		vis.UVMax,
		{vis.UVMin[0], vis.UVMax[1]},
	}
	atlas := mgl32.Vec4{vis.AtlasMin[0], vis.AtlasMin[1], vis.AtlasMax[0], vis.AtlasMax[1]}
	color := packColor(vis.Color)
	material := vis.Material
	if d.CastsShadows() {
		material |= ShadowBit
	}

	for r := 0; r < max(p.RepeatCount, 1); r++ {
		rot := mgl32.Rotate3DZ(mgl32.DegToRad(p.BaseRotation + float32(r)*p.RepeatRotation))
		base := uint32(len(b.out.Vertices))
		for k, l := range local {
			pos := center.Add(rot.Mul3x1(l))
			b.out.Vertices = append(b.out.Vertices, Vertex{
				Position:   b.Translation.Add(pos.Mul(b.Scale)),
				TexCoord:   uvs[k],
				AtlasRange: atlas,
				Color:      color,
				Face:       PlaneFace,
			})
		}
		for _, t := range [4][3]uint32{{0, 1, 2}, {0, 2, 3}, {0, 2, 1}, {0, 3, 2}} {
			b.out.Triangles = append(b.out.Triangles, Triangle{
				Material: material,
				Face:     PlaneFace,
				Indices:  [3]uint32{base + t[0], base + t[1], base + t[2]},
			})
		}
	}
}
