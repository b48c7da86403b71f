package world

import (
	"sort"
	"sync"

	"blockmesh/internal/profiling"
	"blockmesh/internal/registry"
)

// TileCoord addresses a tile of a Store in tile units.
type TileCoord struct {
	X, Y, Z int
}

// Store keeps a sparse set of equally sized volumes tiling space, so a large
// scene can be meshed tile by tile with neighbor grids taken from the
// adjacent tiles.
type Store struct {
	TileSize [3]int
	Scale    float32
	Registry registry.Registry

	mu       sync.RWMutex
	tiles    map[TileCoord]*Volume
	modCount uint64
}

// NewStore creates an empty store of tiles with the given edge lengths.
func NewStore(tileSize [3]int, scale float32, reg registry.Registry) *Store {
	checkBox("NewStore", [3]int{1, 1, 1}, tileSize)
	return &Store{
		TileSize: tileSize,
		Scale:    scale,
		Registry: reg,
		tiles:    make(map[TileCoord]*Volume),
	}
}

// TileOf returns the tile containing block (x,y,z).
func (s *Store) TileOf(x, y, z int) TileCoord {
	return TileCoord{
		X: floorDiv(x, s.TileSize[0]),
		Y: floorDiv(y, s.TileSize[1]),
		Z: floorDiv(z, s.TileSize[2]),
	}
}

// Tile returns the volume for c. When it does not exist and create is true
// an empty one is created.
func (s *Store) Tile(c TileCoord, create bool) *Volume {
	s.mu.RLock()
	v, ok := s.tiles[c]
	s.mu.RUnlock()
	if ok || !create {
		return v
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if existing, ok := s.tiles[c]; ok {
		return existing
	}
	min := [3]int{c.X * s.TileSize[0], c.Y * s.TileSize[1], c.Z * s.TileSize[2]}
	max := [3]int{min[0] + s.TileSize[0] - 1, min[1] + s.TileSize[1] - 1, min[2] + s.TileSize[2] - 1}
	v = New(min, max, s.Scale, s.Registry)
	s.tiles[c] = v
	s.modCount++
	return v
}

// Get returns the block at world block coordinates; missing tiles read as air.
func (s *Store) Get(x, y, z int) registry.BlockType {
	v := s.Tile(s.TileOf(x, y, z), false)
	if v == nil {
		return registry.Air
	}
	return v.GetBlock(x, y, z)
}

// Set writes a block, creating its tile on demand. Touching a tile border
// marks the neighbor across that border dirty, since its mesh culls against
// this tile.
func (s *Store) Set(x, y, z int, id registry.BlockType) {
	c := s.TileOf(x, y, z)
	v := s.Tile(c, true)
	v.SetBlock(x, y, z, id)

	p := [3]int{x, y, z}
	for f := registry.Face(0); f < registry.NumFaces; f++ {
		a := f.Axis()
		edge := v.Min[a]
		if f.Sign() > 0 {
			edge = v.Max[a]
		}
		if p[a] != edge {
			continue
		}
		o := f.Offset()
		if nb := s.Tile(TileCoord{c.X + o[0], c.Y + o[1], c.Z + o[2]}, false); nb != nil {
			nb.dirty = true
		}
	}
}

// Neighbors returns the six neighbor grids for the tile at c, in face order.
// Missing adjacent tiles yield nil entries.
func (s *Store) Neighbors(c TileCoord) [registry.NumFaces][]registry.BlockType {
	var out [registry.NumFaces][]registry.BlockType
	for f := registry.Face(0); f < registry.NumFaces; f++ {
		o := f.Offset()
		nb := s.Tile(TileCoord{c.X + o[0], c.Y + o[1], c.Z + o[2]}, false)
		if nb != nil {
			out[f] = nb.FaceSlice(f.Opposite())
		}
	}
	return out
}

// Coords returns every tile coordinate in ascending z, y, x order.
func (s *Store) Coords() []TileCoord {
	defer profiling.Track("world.Store.Coords")()
	s.mu.RLock()
	out := make([]TileCoord, 0, len(s.tiles))
	for c := range s.tiles {
		out = append(out, c)
	}
	s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	return out
}

// Dirty returns the coordinates of tiles modified since their last SetClean.
func (s *Store) Dirty() []TileCoord {
	var out []TileCoord
	for _, c := range s.Coords() {
		if s.Tile(c, false).IsDirty() {
			out = append(out, c)
		}
	}
	return out
}

// Remove drops a tile. It reports whether the tile existed.
func (s *Store) Remove(c TileCoord) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tiles[c]; !ok {
		return false
	}
	delete(s.tiles, c)
	s.modCount++
	return true
}

// ModCount increases whenever a tile is added or removed.
func (s *Store) ModCount() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.modCount
}

// Fill populates every tile overlapping min..max with the generator,
// creating tiles as needed.
func (s *Store) Fill(g *Generator, min, max [3]int) {
	checkBox("Fill", min, max)
	lo := s.TileOf(min[0], min[1], min[2])
	hi := s.TileOf(max[0], max[1], max[2])
	for z := lo.Z; z <= hi.Z; z++ {
		for y := lo.Y; y <= hi.Y; y++ {
			for x := lo.X; x <= hi.X; x++ {
				g.Populate(s.Tile(TileCoord{x, y, z}, true))
			}
		}
	}
}
