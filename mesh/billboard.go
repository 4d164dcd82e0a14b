package mesh

import (
	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// buildBillboardsAndItems emits billboard crosses and item quads for
// every occupied voxel whose render type calls for them (spec §4.F).
// Neither class participates in greedy merging or AO; both take their
// lighting from the voxel's own Top-face sample.
func (b *Builder) buildBillboardsAndItems(c *chunk.Chunk, lookup NeighborLookup, data *Data) error {
	lightingDirty := c.IsLightingDirty()

	for x := 0; x < chunk.Width; x++ {
		for y := 0; y < chunk.Height; y++ {
			for z := 0; z < chunk.Width; z++ {
				id, err := c.GetBlock(x, y, z)
				if err != nil {
					return err
				}
				if id == block.AirID {
					continue
				}
				myType := b.Registry.GetByID(id)

				level, err := c.GetLightLevel(x, y, z)
				if err != nil {
					return err
				}
				color, err := c.GetLightColor(x, y, z)
				if err != nil {
					return err
				}
				sky := b.skylightFor(c, lookup, chunk.FaceTop, x, y, z, 1.0)
				r, g, bch := packedLight(level, lightingDirty, color, sky)

				switch {
				case myType.IsBillboard:
					b.emitBillboard(x, y, z, myType, r, g, bch, &data.Billboard)
				case myType.RenderType == block.RenderItem:
					b.emitItemQuad(x, y, z, myType, r, g, bch, &data.Item)
				}

				if myType.HasFoliageOverlay && b.openSkyAbove(c, lookup, x, y, z) {
					b.emitFoliageOverlay(x, y, z, myType, r, g, bch, &data.Billboard)
				}
			}
		}
	}
	return nil
}

// emitBillboard places two crossed, full-height quads centered in the
// voxel (spec §4.F), each double-sided so it reads correctly from
// either side without backface culling tricks.
func (b *Builder) emitBillboard(x, y, z int, myType block.Type, r, g, bch uint8, stream *Stream) {
	region, atlasName := b.atlasRegion(myType, chunk.FaceTop)
	b.noteAtlasName(stream, atlasName)
	cx, cz := float64(x)+0.5, float64(z)+0.5
	bottom, top := float64(y), float64(y+1)

	diagonals := [2][2][2]float64{
		{{cx - 0.5, cz - 0.5}, {cx + 0.5, cz + 0.5}},
		{{cx - 0.5, cz + 0.5}, {cx + 0.5, cz - 0.5}},
	}
	uvLocal := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	for _, d := range diagonals {
		corners := [4][3]float64{
			{d[0][0], bottom, d[0][1]},
			{d[1][0], bottom, d[1][1]},
			{d[1][0], top, d[1][1]},
			{d[0][0], top, d[0][1]},
		}
		var vs [4]Vertex
		for i := 0; i < 4; i++ {
			vs[i] = Vertex{
				X: float32(corners[i][0]), Y: float32(corners[i][1]), Z: float32(corners[i][2]),
				R: r, G: g, B: bch, A: faceIndex(chunk.FaceFront),
				U: region.PosX + uvLocal[i][0]*region.SizeX,
				V: region.PosY + uvLocal[i][1]*region.SizeY,
			}
		}
		stream.addQuad(vs[0], vs[1], vs[2], vs[3], false)
		stream.addQuad(vs[3], vs[2], vs[1], vs[0], false)
	}
}

// emitFoliageOverlay folds a handful of small crossed grass-blade quads
// onto a solid block's top face (spec §4.F supplemental, grounded on
// the BarretoDiego mesher's addGrassBlades). Blade count/position/lean
// are derived from a position hash rather than math/rand so a chunk's
// mesh stays deterministic across rebuilds.
func (b *Builder) emitFoliageOverlay(x, y, z int, myType block.Type, r, g, bch uint8, stream *Stream) {
	region, atlasName := b.atlasRegion(myType, chunk.FaceTop)
	b.noteAtlasName(stream, atlasName)
	uvLocal := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	seed := bladeHash(x, y, z)
	count := 3 + int(seed%3)
	base := float64(y) + 1.0

	for i := 0; i < count; i++ {
		s := seed + uint32(i)*2654435761
		r1 := float64(s%101) / 100
		r2 := float64((s/101)%101) / 100

		ox := float64(x) + 0.1 + r1*0.8
		oz := float64(z) + 0.1 + r2*0.8
		width := 0.05 + r2*0.05
		height := 0.3 + r1*0.3
		lean := (r1 - 0.5) * 0.2
		tip := base + height

		corners := [4][3]float64{
			{ox - width, base, oz},
			{ox + width, base, oz},
			{ox + width, tip, oz + lean},
			{ox - width, tip, oz + lean},
		}
		var vs [4]Vertex
		for corner := 0; corner < 4; corner++ {
			vs[corner] = Vertex{
				X: float32(corners[corner][0]), Y: float32(corners[corner][1]), Z: float32(corners[corner][2]),
				R: r, G: g, B: bch, A: faceIndex(chunk.FaceFront),
				U: region.PosX + uvLocal[corner][0]*region.SizeX,
				V: region.PosY + uvLocal[corner][1]*region.SizeY,
			}
		}
		stream.addQuad(vs[0], vs[1], vs[2], vs[3], false)
		stream.addQuad(vs[3], vs[2], vs[1], vs[0], false)
	}
}

// bladeHash mixes a voxel coordinate into a deterministic 32-bit seed,
// the same integer-hash shape as the teacher's pathprofile harness
// (chunk-server/cmd/pathprofile's hashCoord).
func bladeHash(x, y, z int) uint32 {
	h := uint32(x*374761393 + y*668265263 + z*362437)
	h = (h ^ (h >> 13)) * 1274126177
	return h ^ (h >> 16)
}

// emitItemQuad writes a single quad expressed as a center plus tangent
// offsets so the shader can billboard it toward the camera at draw
// time (spec §4.F). The offsets are baked into vertex positions here;
// the shader is expected to treat this stream as camera-facing rather
// than world-fixed geometry.
func (b *Builder) emitItemQuad(x, y, z int, myType block.Type, r, g, bch uint8, stream *Stream) {
	region, atlasName := b.atlasRegion(myType, chunk.FaceTop)
	b.noteAtlasName(stream, atlasName)
	cx, cy, cz := float64(x)+0.5, float64(y)+0.5, float64(z)+0.5
	uvLocal := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	offsets := [4][2]float64{{-0.35, -0.35}, {0.35, -0.35}, {0.35, 0.35}, {-0.35, 0.35}}

	var vs [4]Vertex
	for i := 0; i < 4; i++ {
		vs[i] = Vertex{
			X: float32(cx + offsets[i][0]), Y: float32(cy + offsets[i][1]), Z: float32(cz),
			R: r, G: g, B: bch, A: faceIndex(chunk.FaceFront),
			U: region.PosX + uvLocal[i][0]*region.SizeX,
			V: region.PosY + uvLocal[i][1]*region.SizeY,
		}
	}
	stream.addQuad(vs[0], vs[1], vs[2], vs[3], false)
}
