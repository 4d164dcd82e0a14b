// Package block maps numeric block ids to named block types with their
// render and material properties (spec §4.B).
package block

// ID identifies a block type. 0 is reserved for air.
type ID uint16

const AirID ID = 0

// RenderType tags how the mesh builder should geometrize a block.
type RenderType int

const (
	RenderSolid RenderType = iota
	RenderBillboard
	RenderItem
	RenderFluid
)

func (r RenderType) String() string {
	switch r {
	case RenderSolid:
		return "solid"
	case RenderBillboard:
		return "billboard"
	case RenderItem:
		return "item"
	case RenderFluid:
		return "fluid"
	default:
		return "unknown"
	}
}

// Face identifies one of the six cube faces a texture can be bound to,
// plus the All fallback used when a specific face has no override.
type Face int

const (
	FaceAll Face = iota
	FaceTop
	FaceBottom
	FaceFront
	FaceBack
	FaceLeft
	FaceRight
)

// RGBA8 is a normalized-to-byte color used for emission tint.
type RGBA8 struct {
	R, G, B, A uint8
}

var OpaqueWhite = RGBA8{255, 255, 255, 255}

// TileRef names an atlas and a tile index within it.
type TileRef struct {
	Atlas string
	Tile  int
}

// Type is an immutable, registry-owned block definition.
type Type struct {
	ID   ID
	Name string

	IsSolid       bool
	IsTransparent bool
	IsOpaque      bool
	IsLiquid      bool
	IsBillboard   bool
	IsBreakable   bool
	IsLightSource bool

	// IsUnstable marks gravity-collapse blocks (sand/gravel), a
	// supplemental feature from SPEC_FULL.md §5.2.
	IsUnstable bool

	// HasFoliageOverlay marks solid blocks that grow grass-blade
	// billboard detail on their top face (SPEC_FULL.md §4).
	HasFoliageOverlay bool

	EmitsLight uint8
	EmitsColor RGBA8

	Hardness float64

	RenderType RenderType
	TextureSet map[Face]TileRef
}

// BlocksSunlight implements spec §4.E's restrictive predicate: a block
// blocks sunlight unless it is transparent, a billboard, or an item.
func (t Type) BlocksSunlight() bool {
	return !t.IsTransparent && !t.IsBillboard && t.RenderType != RenderItem
}

// Texture resolves the tile reference for a face, falling back to All.
func (t Type) Texture(face Face) (TileRef, bool) {
	if ref, ok := t.TextureSet[face]; ok {
		return ref, true
	}
	ref, ok := t.TextureSet[FaceAll]
	return ref, ok
}

func air() Type {
	return Type{
		ID:            AirID,
		Name:          "air",
		IsTransparent: true,
		RenderType:    RenderSolid,
		EmitsColor:    OpaqueWhite,
	}
}
