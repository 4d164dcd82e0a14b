// Package mesh implements the greedy quad-merging mesh builder
// described in spec §4.F: solid geometry with ambient occlusion and
// skylight shading, plus the billboard/item/fluid special cases.
package mesh

// Vertex is one corner of an emitted triangle, in chunk-local space.
// The packed color's alpha channel carries a face-direction index
// (spec §4.F) instead of a per-vertex normal.
type Vertex struct {
	X, Y, Z    float32
	R, G, B, A uint8
	U, V       float32
}

// Stream is one vertex/index buffer pair for a single render class,
// plus the name of the atlas texture its UVs were baked against
// (spec §4.F; the graphics collaborator binds this atlas before
// drawing the stream). Every block in the default palette shares one
// atlas, so in practice every non-empty stream of a Data carries the
// same name (a stream with no quads keeps an empty name), but the field
// is tracked per stream rather than assumed.
type Stream struct {
	Vertices  []Vertex
	Indices   []uint32
	AtlasName string
}

// addQuad appends four vertices and two triangles. Top/Bottom faces use
// the (0,1,2)+(0,2,3) winding; side faces use the flipped
// (0,2,1)+(0,3,2) winding so the same corner loop order yields an
// outward normal regardless of which axis the face's plane spans
// (spec §4.F winding rule).
func (s *Stream) addQuad(v0, v1, v2, v3 Vertex, sideFace bool) {
	base := uint32(len(s.Vertices))
	s.Vertices = append(s.Vertices, v0, v1, v2, v3)
	if sideFace {
		s.Indices = append(s.Indices, base, base+2, base+1, base, base+3, base+2)
	} else {
		s.Indices = append(s.Indices, base, base+1, base+2, base, base+2, base+3)
	}
}

// Data holds the four geometry streams a chunk's mesh builds into.
type Data struct {
	Solid     Stream
	Billboard Stream
	Item      Stream
	Fluid     Stream
}
