package mesh

import (
	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// NeighborLookup resolves a chunk coordinate to its chunk, mirroring
// spec §4.F's `(ChunkCoordinate) -> Option<&Chunk>` callback. The
// streaming controller supplies one backed by `active` then the cache.
type NeighborLookup func(coord chunk.Coordinate) (*chunk.Chunk, bool)

type faceAxes struct {
	normal             [3]int
	tangentA, tangentB [3]int
}

var axesByFace = map[chunk.Face]faceAxes{
	chunk.FaceTop:    {normal: [3]int{0, 1, 0}, tangentA: [3]int{1, 0, 0}, tangentB: [3]int{0, 0, 1}},
	chunk.FaceBottom: {normal: [3]int{0, -1, 0}, tangentA: [3]int{1, 0, 0}, tangentB: [3]int{0, 0, 1}},
	chunk.FaceFront:  {normal: [3]int{0, 0, 1}, tangentA: [3]int{1, 0, 0}, tangentB: [3]int{0, 1, 0}},
	chunk.FaceBack:   {normal: [3]int{0, 0, -1}, tangentA: [3]int{1, 0, 0}, tangentB: [3]int{0, 1, 0}},
	chunk.FaceRight:  {normal: [3]int{1, 0, 0}, tangentA: [3]int{0, 0, 1}, tangentB: [3]int{0, 1, 0}},
	chunk.FaceLeft:   {normal: [3]int{-1, 0, 0}, tangentA: [3]int{0, 0, 1}, tangentB: [3]int{0, 1, 0}},
}

// tangentLeakOffsets gives, per side face, the four (dx,dz) neighbor
// columns spec §4.F checks for overhang light leakage.
var tangentLeakOffsets = map[chunk.Face][4][2]int{
	chunk.FaceFront: {{0, 1}, {0, 2}, {1, 1}, {-1, 1}},
	chunk.FaceBack:  {{0, -1}, {0, -2}, {1, -1}, {-1, -1}},
	chunk.FaceLeft:  {{-1, 0}, {-2, 0}, {-1, 1}, {-1, -1}},
	chunk.FaceRight: {{1, 0}, {2, 0}, {1, 1}, {1, -1}},
}

// blockAt resolves the block type at (x,y,z) in c's local frame, which
// may fall outside c's own bounds; in that case the coordinate is
// converted to world space and routed through lookup. ok is false only
// when the owning chunk is not resolvable (unknown neighbor, spec
// §4.F step 2).
func (b *Builder) blockAt(c *chunk.Chunk, lookup NeighborLookup, x, y, z int) (block.Type, bool) {
	if x >= 0 && x < chunk.Width && y >= 0 && y < chunk.Height && z >= 0 && z < chunk.Width {
		id, err := c.GetBlock(x, y, z)
		if err != nil {
			return block.Type{}, false
		}
		return b.Registry.GetByID(id), true
	}
	ox, oy, oz := c.Coord.WorldOrigin()
	world := chunk.BlockCoord{X: ox + x, Y: oy + y, Z: oz + z}
	owner, lx, ly, lz := world.Owner()
	if lookup == nil {
		return block.Type{}, false
	}
	neighbor, ok := lookup(owner)
	if !ok {
		return block.Type{}, false
	}
	id, err := neighbor.GetBlock(lx, ly, lz)
	if err != nil {
		return block.Type{}, false
	}
	return b.Registry.GetByID(id), true
}

func (b *Builder) isOpaqueAt(c *chunk.Chunk, lookup NeighborLookup, x, y, z int) bool {
	t, ok := b.blockAt(c, lookup, x, y, z)
	return ok && t.IsOpaque
}

// cornerAO computes solid_count over the 3 tangent-plane neighbor
// offsets for one quad corner and returns the corner brightness
// (spec §4.F: `1.0 - (solid_count/3)*0.7`). signA/signB are ±1,
// indicating which of the rectangle's four corners this is.
func (b *Builder) cornerAO(c *chunk.Chunk, lookup NeighborLookup, face chunk.Face, baseX, baseY, baseZ, signA, signB int) float32 {
	axes := axesByFace[face]
	nx := baseX + axes.normal[0]
	ny := baseY + axes.normal[1]
	nz := baseZ + axes.normal[2]

	sideAx := nx + signA*axes.tangentA[0]
	sideAy := ny + signA*axes.tangentA[1]
	sideAz := nz + signA*axes.tangentA[2]

	sideBx := nx + signB*axes.tangentB[0]
	sideBy := ny + signB*axes.tangentB[1]
	sideBz := nz + signB*axes.tangentB[2]

	cornerX := nx + signA*axes.tangentA[0] + signB*axes.tangentB[0]
	cornerY := ny + signA*axes.tangentA[1] + signB*axes.tangentB[1]
	cornerZ := nz + signA*axes.tangentA[2] + signB*axes.tangentB[2]

	count := 0
	if b.isOpaqueAt(c, lookup, sideAx, sideAy, sideAz) {
		count++
	}
	if b.isOpaqueAt(c, lookup, sideBx, sideBy, sideBz) {
		count++
	}
	if b.isOpaqueAt(c, lookup, cornerX, cornerY, cornerZ) {
		count++
	}
	return 1.0 - (float32(count)/3.0)*0.7
}

// openSkyAbove reports whether the column above (x,y,z) is free of any
// sunlight-blocking block, scanning only within the owning chunk's
// own vertical extent (spec §4.E/§4.F treat a chunk's Y range as the
// world's full height).
func (b *Builder) openSkyAbove(c *chunk.Chunk, lookup NeighborLookup, x, y, z int) bool {
	for yy := y + 1; yy < chunk.Height; yy++ {
		t, ok := b.blockAt(c, lookup, x, yy, z)
		if !ok {
			continue
		}
		if t.BlocksSunlight() {
			return false
		}
	}
	return true
}

// skylightFor combines the direct open-sky test with the tangential
// leak test for side faces (spec §4.F skylight contribution).
func (b *Builder) skylightFor(c *chunk.Chunk, lookup NeighborLookup, face chunk.Face, x, y, z int, averageAO float32) float32 {
	sky := averageAO * 0.08
	if b.openSkyAbove(c, lookup, x, y, z) {
		sky = averageAO
	}
	if offsets, ok := tangentLeakOffsets[face]; ok {
		for _, off := range offsets {
			if b.openSkyAbove(c, lookup, x+off[0], y, z+off[1]) {
				leak := averageAO * 0.45
				if leak > sky {
					sky = leak
				}
			}
		}
	}
	return sky
}

// packedLight combines a voxel's propagated light level with the
// corner's AO/skylight and the per-voxel light color into an RGB8
// channel tuple, with the unlit-sentinel rule from spec §4.F applied.
func packedLight(level uint8, lightingDirty bool, color chunk.RGB8, sky float32) (r, g, b uint8) {
	levelFactor := float32(level) / 15
	if lightingDirty && level == 15 {
		levelFactor = 0
	}
	final := levelFactor
	if sky > final {
		final = sky
	}
	if final > 1 {
		final = 1
	}
	r = uint8(final * float32(color.R))
	g = uint8(final * float32(color.G))
	b = uint8(final * float32(color.B))
	return
}
