package mesh

import (
	"strconv"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
	"lillyengine.dev/voxelcore/collab"
	"lillyengine.dev/voxelcore/internal/enginelog"
)

var defaultAtlasRegion = collab.AtlasRegion{PosX: 0, PosY: 0, SizeX: 1, SizeY: 1}

// Builder produces a chunk's four geometry streams from its block and
// light grids (spec §4.F), grounded on the teacher-adjacent per-face
// mesher idiom but extended to greedy merging and atlas-backed UVs.
type Builder struct {
	Registry *block.Registry
	Atlas    collab.AtlasLookup

	dedupe *enginelog.Deduper
}

// NewBuilder constructs a Builder. atlas may be nil, in which case
// every face falls back to the neutral default region.
func NewBuilder(registry *block.Registry, atlas collab.AtlasLookup) *Builder {
	return &Builder{
		Registry: registry,
		Atlas:    atlas,
		dedupe:   enginelog.NewDeduper(enginelog.New("mesh")),
	}
}

type faceLayout struct {
	face              chunk.Face
	depthSize, uSize, vSize int
	toLocal           func(depth, u, v int) (x, y, z int)
}

var solidFaceLayouts = []faceLayout{
	{chunk.FaceTop, chunk.Height, chunk.Width, chunk.Width, func(depth, u, v int) (int, int, int) { return u, depth, v }},
	{chunk.FaceBottom, chunk.Height, chunk.Width, chunk.Width, func(depth, u, v int) (int, int, int) { return u, depth, v }},
	{chunk.FaceFront, chunk.Width, chunk.Width, chunk.Height, func(depth, u, v int) (int, int, int) { return u, v, depth }},
	{chunk.FaceBack, chunk.Width, chunk.Width, chunk.Height, func(depth, u, v int) (int, int, int) { return u, v, depth }},
	{chunk.FaceRight, chunk.Width, chunk.Width, chunk.Height, func(depth, u, v int) (int, int, int) { return depth, v, u }},
	{chunk.FaceLeft, chunk.Width, chunk.Width, chunk.Height, func(depth, u, v int) (int, int, int) { return depth, v, u }},
}

// Build runs the full mesh pass for c: greedy-merged solid faces,
// fluid faces, billboards, and item quads.
func (b *Builder) Build(c *chunk.Chunk, lookup NeighborLookup) (*Data, error) {
	data := &Data{}

	for _, layout := range solidFaceLayouts {
		if err := b.buildSolidFaceLayer(c, lookup, layout, data); err != nil {
			return nil, err
		}
	}
	if err := b.buildFluidFaces(c, lookup, data); err != nil {
		return nil, err
	}
	if err := b.buildBillboardsAndItems(c, lookup, data); err != nil {
		return nil, err
	}
	return data, nil
}

func (b *Builder) buildSolidFaceLayer(c *chunk.Chunk, lookup NeighborLookup, layout faceLayout, data *Data) error {
	off := axesByFace[layout.face].normal

	for depth := 0; depth < layout.depthSize; depth++ {
		mask := make([]*FaceKey, layout.uSize*layout.vSize)

		for u := 0; u < layout.uSize; u++ {
			for v := 0; v < layout.vSize; v++ {
				x, y, z := layout.toLocal(depth, u, v)
				id, err := c.GetBlock(x, y, z)
				if err != nil {
					return err
				}
				if id == block.AirID {
					continue
				}
				myType := b.Registry.GetByID(id)
				if myType.RenderType != block.RenderSolid {
					continue
				}

				neighborType, known := b.blockAt(c, lookup, x+off[0], y+off[1], z+off[2])
				if !visibleSolidFace(neighborType, known) {
					continue
				}

				level, err := c.GetLightLevel(x, y, z)
				if err != nil {
					return err
				}
				color, err := c.GetLightColor(x, y, z)
				if err != nil {
					return err
				}
				key := FaceKey{BlockID: id, Light: level, Color: color}
				mask[u*layout.vSize+v] = &key
			}
		}

		if err := b.mergeAndEmit(c, lookup, layout, depth, mask, &data.Solid); err != nil {
			return err
		}
	}
	return nil
}

// mergeAndEmit runs the greedy rectangle merge described in spec §4.F
// over one depth layer's mask and emits a quad per merged region.
func (b *Builder) mergeAndEmit(c *chunk.Chunk, lookup NeighborLookup, layout faceLayout, depth int, mask []*FaceKey, stream *Stream) error {
	sameKey := func(a, b *FaceKey) bool {
		return a != nil && b != nil && *a == *b
	}

	for u := 0; u < layout.uSize; u++ {
		for v := 0; v < layout.vSize; v++ {
			idx := u*layout.vSize + v
			key := mask[idx]
			if key == nil {
				continue
			}

			spanU := 1
			for u+spanU < layout.uSize && sameKey(mask[(u+spanU)*layout.vSize+v], key) {
				spanU++
			}

			spanV := 1
		expandV:
			for v+spanV < layout.vSize {
				for du := 0; du < spanU; du++ {
					if !sameKey(mask[(u+du)*layout.vSize+(v+spanV)], key) {
						break expandV
					}
				}
				spanV++
			}

			if err := b.emitSolidQuad(c, lookup, layout, depth, u, v, spanU, spanV, *key, stream); err != nil {
				return err
			}

			for du := 0; du < spanU; du++ {
				for dv := 0; dv < spanV; dv++ {
					mask[(u+du)*layout.vSize+(v+dv)] = nil
				}
			}
		}
	}
	return nil
}

// emitSolidQuad builds one merged quad's four vertices. Each corner
// samples AO and skylight at the interior grid cell nearest that
// corner, looking further outward along the tangent axes (spec §4.F
// "Lighting / AO per face corner"), so lighting still varies smoothly
// across a merged quad even though the mask collapsed it to one cell.
func (b *Builder) emitSolidQuad(c *chunk.Chunk, lookup NeighborLookup, layout faceLayout, depth, u, v, spanU, spanV int, key FaceKey, stream *Stream) error {
	face := layout.face
	myType := b.Registry.GetByID(key.BlockID)
	lightingDirty := c.IsLightingDirty()
	alpha := faceIndex(face)
	region, atlasName := b.atlasRegion(myType, face)
	b.noteAtlasName(stream, atlasName)

	geom := quadCorners(face, depth, u, v, spanU, spanV)
	uvLocal := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}
	cellU := [4]int{u, u + spanU - 1, u + spanU - 1, u}
	cellV := [4]int{v + spanV - 1, v + spanV - 1, v, v}
	signA := [4]int{-1, 1, 1, -1}
	signB := [4]int{1, 1, -1, -1}

	var vs [4]Vertex
	for i := 0; i < 4; i++ {
		cx, cy, cz := layout.toLocal(depth, cellU[i], cellV[i])
		ao := b.cornerAO(c, lookup, face, cx, cy, cz, signA[i], signB[i])
		sky := b.skylightFor(c, lookup, face, cx, cy, cz, ao)

		level, err := c.GetLightLevel(cx, cy, cz)
		if err != nil {
			return err
		}
		r, g, bch := packedLight(level, lightingDirty, key.Color, sky)

		vs[i] = Vertex{
			X: float32(geom[i][0]), Y: float32(geom[i][1]), Z: float32(geom[i][2]),
			R: r, G: g, B: bch, A: alpha,
			U: region.PosX + uvLocal[i][0]*region.SizeX,
			V: region.PosY + uvLocal[i][1]*region.SizeY,
		}
	}

	isSide := face != chunk.FaceTop && face != chunk.FaceBottom
	stream.addQuad(vs[0], vs[1], vs[2], vs[3], isSide)
	return nil
}

// quadCorners converts the merged rectangle's grid bounds into four
// chunk-local corner positions in a consistent loop order (top-left,
// top-right, bottom-right, bottom-left in grid-space), for a face
// whose outward plane sits at depth (bottom/back/left faces) or
// depth+1 (top/front/right faces).
func quadCorners(face chunk.Face, depth, u, v, spanU, spanV int) [4][3]float64 {
	planeHigh := face == chunk.FaceTop || face == chunk.FaceFront || face == chunk.FaceRight
	plane := float64(depth)
	if planeHigh {
		plane = float64(depth + 1)
	}

	grid := [4][2]int{{u, v + spanV}, {u + spanU, v + spanV}, {u + spanU, v}, {u, v}}
	var out [4][3]float64
	for i, g := range grid {
		uVal, vVal := float64(g[0]), float64(g[1])
		switch face {
		case chunk.FaceTop, chunk.FaceBottom:
			out[i] = [3]float64{uVal, plane, vVal}
		case chunk.FaceFront, chunk.FaceBack:
			out[i] = [3]float64{uVal, vVal, plane}
		default: // Right, Left
			out[i] = [3]float64{plane, vVal, uVal}
		}
	}
	return out
}

// atlasRegion resolves the atlas tile for a block's face, falling back
// to a neutral default and logging once per missing atlas:tile pair
// (spec §7 AtlasRegionMissing). It also returns the tile's atlas name
// so callers can stamp it onto the stream the quad lands in.
func (b *Builder) atlasRegion(t block.Type, face chunk.Face) (collab.AtlasRegion, string) {
	ref, ok := t.Texture(blockFaceFor(face))
	if !ok {
		return defaultAtlasRegion, ""
	}
	if b.Atlas == nil {
		return defaultAtlasRegion, ref.Atlas
	}
	region, ok := b.Atlas.GetAtlasRegion(ref.Atlas, ref.Tile)
	if !ok {
		b.dedupe.Warn(
			ref.Atlas+":"+strconv.Itoa(ref.Tile),
			"mesh: atlas region missing for %s@%d, using default tile",
			ref.Atlas, ref.Tile,
		)
		return defaultAtlasRegion, ref.Atlas
	}
	return region, ref.Atlas
}

// noteAtlasName stamps the atlas a stream's quads were baked against.
// The default palette only ever uses one atlas, but if a chunk somehow
// mixed two, the first one wins and every later mismatch is logged
// once rather than silently overwritten.
func (b *Builder) noteAtlasName(stream *Stream, name string) {
	if name == "" {
		return
	}
	if stream.AtlasName == "" {
		stream.AtlasName = name
		return
	}
	if stream.AtlasName != name {
		b.dedupe.Warn(
			"mixed-atlas:"+stream.AtlasName+":"+name,
			"mesh: stream already bound to atlas %q, keeping it for a quad from atlas %q",
			stream.AtlasName, name,
		)
	}
}
