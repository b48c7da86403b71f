package meshing

import (
	"blockmesh/internal/registry"

	"github.com/go-gl/mathgl/mgl32"
)

// Brightness maps a corner light level (0 fully occluded .. 4 open) to the
// factor multiplied into the face color.
var Brightness = [5]float32{0, 0.4, 0.6, 0.8, 1.0}

// sweepAxes returns the two axes a quad on face f grows along. The second
// one is vertical for side faces.
func sweepAxes(f registry.Face) (a0, a1 int) {
	switch f.Axis() {
	case 0:
		return 1, 2
	case 1:
		return 0, 2
	}
	return 0, 1
}

// joinFunc reports whether cell j may be merged into a quad started at cell i.
type joinFunc func(i, j int) bool

// renderJoin merges cells of the same block and slab height whose AO on
// face f matches. Mergeable volumes ignore AO.
func (b *Builder) renderJoin(f registry.Face) joinFunc {
	mask := AOMask(f) | shortSlabBit
	return func(i, j int) bool {
		id := b.Blocks[i]
		if b.Blocks[j] != id {
			return false
		}
		if b.desc(id).MergeableVolume() {
			return b.words[i]&shortSlabBit == b.words[j]&shortSlabBit
		}
		return b.words[i]&mask == b.words[j]&mask
	}
}

// collisionJoin merges cells of the same block and slab height.
func (b *Builder) collisionJoin(i, j int) bool {
	return b.Blocks[i] == b.Blocks[j] && b.words[i]&shortSlabBit == b.words[j]&shortSlabBit
}

// greedy covers every cell with face f pending by maximal rectangles, growing
// along the first sweep axis and then the second, and hands each rectangle
// to emit. Covered cells have f cleared. Slab side faces only grow along the
// first axis.
func (b *Builder) greedy(f registry.Face, join joinFunc, emit func(f registry.Face, p [3]int, run [2]int)) {
	a0, a1 := sweepAxes(f)
	joins := func(i int, q [3]int) bool {
		j := b.index(q[0], q[1], q[2])
		return b.words[j].Has(f) && join(i, j)
	}

	for z := 0; z < b.Dims[2]; z++ {
		for y := 0; y < b.Dims[1]; y++ {
			for x := 0; x < b.Dims[0]; x++ {
				i := b.index(x, y, z)
				if !b.words[i].Has(f) {
					continue
				}
				p := [3]int{x, y, z}

				n0 := 1
				for ; p[a0]+n0 < b.Dims[a0]; n0++ {
					q := p
					q[a0] += n0
					if !joins(i, q) {
						break
					}
				}

				n1 := 1
				if !(f.IsSide() && b.desc(b.Blocks[i]).Shape == registry.ShapeSlab) {
				grow:
					for ; p[a1]+n1 < b.Dims[a1]; n1++ {
						q := p
						q[a1] += n1
						for k := 0; k < n0; k++ {
							q[a0] = p[a0] + k
							if !joins(i, q) {
								break grow
							}
						}
					}
				}

				for k1 := 0; k1 < n1; k1++ {
					for k0 := 0; k0 < n0; k0++ {
						q := p
						q[a0] += k0
						q[a1] += k1
						b.words[b.index(q[0], q[1], q[2])].Clear(f)
					}
				}
				emit(f, p, [2]int{n0, n1})
			}
		}
	}
}

// cornerLight returns the light level (0..4) of the corner of face f whose
// tangent directions along the sweep axes are t0 and t1 (each -1 or +1).
// The top and bottom faces look at the 2x2 samples around the corner on
// their layer; side faces at the two samples in front of the face on the
// layer the corner leans toward.
func cornerLight(w FaceWord, f registry.Face, t0, t1 int) int {
	n := 0
	switch f {
	case registry.FacePosZ, registry.FaceNegZ:
		dz := f.Sign()
		for _, s := range [4][2]int{{0, 0}, {t0, 0}, {0, t1}, {t0, t1}} {
			if w.Sample(s[0], s[1], dz) {
				n++
			}
		}
	default:
		o := f.Offset()
		samples := [2][2]int{{o[0], 0}, {o[0], t0}}
		if f.Axis() == 1 {
			samples = [2][2]int{{0, o[1]}, {t0, o[1]}}
		}
		for _, s := range samples {
			if w.Sample(s[0], s[1], t1) {
				n++
			}
		}
	}
	return 4 - n
}

// counterClockwise reports whether corners ordered (0,0),(1,0),(1,1),(0,1)
// in sweep coordinates wind counter-clockwise seen from outside face f.
func counterClockwise(f registry.Face) bool {
	a0, a1 := sweepAxes(f)
	cyclic := (a0+1)%3 == a1
	return cyclic == (f.Sign() > 0)
}

type corner struct {
	pos   mgl32.Vec3
	uv    mgl32.Vec2
	light int
}

// emitQuad appends the quad covering run cells from p on face f.
// Collision quads carry positions and face only.
func (b *Builder) emitQuad(f registry.Face, p [3]int, run [2]int, collision bool) {
	i := b.index(p[0], p[1], p[2])
	id := b.Blocks[i]
	d := b.desc(id)
	w := b.words[i]
	a0, a1 := sweepAxes(f)
	axis := f.Axis()

	var lo, hi mgl32.Vec3
	for a := 0; a < 3; a++ {
		lo[a] = float32(p[a])
		hi[a] = lo[a] + 1
	}
	hi[a0] = lo[a0] + float32(run[0])
	hi[a1] = lo[a1] + float32(run[1])
	if w.ShortSlab() {
		hi[2] -= 1 - d.Slab.Height
	}
	plane := lo[axis]
	if f.Sign() > 0 {
		plane = hi[axis]
	}

	vis := d.Faces[f]
	e0, e1 := hi[a0]-lo[a0], hi[a1]-lo[a1]
	var cs [4]corner
	for k, uv := range [4][2]int{{0, 0}, {1, 0}, {1, 1}, {0, 1}} {
		var pos mgl32.Vec3
		pos[axis] = plane
		pos[a0] = lo[a0] + float32(uv[0])*e0
		pos[a1] = lo[a1] + float32(uv[1])*e1
		c := corner{pos: b.Translation.Add(pos.Mul(b.Scale)), light: 4}
		if !collision {
			c.uv = mgl32.Vec2{
				vis.UVMin[0] + (vis.UVMax[0]-vis.UVMin[0])*float32(uv[0])*e0,
				vis.UVMin[1] + (vis.UVMax[1]-vis.UVMin[1])*float32(uv[1])*e1,
			}
			if b.AmbientOcclusion {
				q := p
				q[a0] += uv[0] * (run[0] - 1)
				q[a1] += uv[1] * (run[1] - 1)
				cw := b.words[b.index(q[0], q[1], q[2])]
				c.light = cornerLight(cw, f, 2*uv[0]-1, 2*uv[1]-1)
			}
		}
		cs[k] = c
	}
	if !counterClockwise(f) {
		cs[1], cs[3] = cs[3], cs[1]
	}

	material := uint32(0)
	if !collision {
		material = vis.Material
		if d.CastsShadows() {
			material |= ShadowBit
		}
	}
	atlas := mgl32.Vec4{vis.AtlasMin[0], vis.AtlasMin[1], vis.AtlasMax[0], vis.AtlasMax[1]}

	base := uint32(len(b.out.Vertices))
	for _, c := range cs {
		v := Vertex{Position: c.pos, Face: uint8(f)}
		if !collision {
			br := Brightness[c.light]
			v.TexCoord = c.uv
			v.AtlasRange = atlas
			v.Color = packColor(mgl32.Vec4{vis.Color[0] * br, vis.Color[1] * br, vis.Color[2] * br, vis.Color[3]})
		}
		b.out.Vertices = append(b.out.Vertices, v)
	}

	// Split along the brighter diagonal.
	tris := [2][3]uint32{{0, 1, 2}, {0, 2, 3}}
	if cs[0].light+cs[2].light < cs[1].light+cs[3].light {
		tris = [2][3]uint32{{1, 2, 3}, {1, 3, 0}}
	}
	for _, t := range tris {
		b.out.Triangles = append(b.out.Triangles, Triangle{
			Material: material,
			Face:     uint8(f),
			Indices:  [3]uint32{base + t[0], base + t[1], base + t[2]},
		})
	}
}
