package mesh

import (
	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// FaceKey identifies a mergeable face cell: two cells merge iff their
// FaceKey is equal (spec §4.F). Light state is included so a lit and an
// unlit face of the same block never combine into one quad.
type FaceKey struct {
	BlockID block.ID
	Light   uint8
	Color   chunk.RGB8
}

// faceIndex packs Front=0, Back=1, Right=2, Left=3, Top=4, Bottom=5
// into the emitted vertex alpha channel (spec §4.F).
func faceIndex(face chunk.Face) uint8 {
	switch face {
	case chunk.FaceFront:
		return 0
	case chunk.FaceBack:
		return 1
	case chunk.FaceRight:
		return 2
	case chunk.FaceLeft:
		return 3
	case chunk.FaceTop:
		return 4
	default:
		return 5
	}
}

// blockFaceFor maps the chunk's direction enum to the block package's
// texture-face enum so a block.Type's TextureSet can be queried.
func blockFaceFor(face chunk.Face) block.Face {
	switch face {
	case chunk.FaceFront:
		return block.FaceFront
	case chunk.FaceBack:
		return block.FaceBack
	case chunk.FaceRight:
		return block.FaceRight
	case chunk.FaceLeft:
		return block.FaceLeft
	case chunk.FaceTop:
		return block.FaceTop
	default:
		return block.FaceBottom
	}
}

// visibleSolidFace implements spec §4.F's visibility test for solid
// (non-fluid) blocks.
func visibleSolidFace(neighbor block.Type, neighborKnown bool) bool {
	if !neighborKnown {
		return true
	}
	if neighbor.ID == block.AirID {
		return true
	}
	return !neighbor.IsSolid || neighbor.IsTransparent || neighbor.IsBillboard || neighbor.RenderType == block.RenderItem
}

// visibleFluidFace additionally culls water-water faces (spec §4.F).
func visibleFluidFace(neighbor block.Type, neighborKnown bool) bool {
	if neighborKnown && neighbor.RenderType == block.RenderFluid {
		return false
	}
	return visibleSolidFace(neighbor, neighborKnown)
}
