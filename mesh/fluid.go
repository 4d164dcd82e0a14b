package mesh

import (
	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// fluidTint is the fixed vertex color spec §4.F assigns every fluid
// face; fluids are not lit per-voxel like solids.
var fluidTint = [4]uint8{100, 150, 255, 200}

// buildFluidFaces emits one quad per visible fluid face, unmerged and
// unshaded (spec §4.F). The alpha channel still carries the
// faceIndex so the shader can pick the top face out for wave
// animation.
func (b *Builder) buildFluidFaces(c *chunk.Chunk, lookup NeighborLookup, data *Data) error {
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
				if myType.RenderType != block.RenderFluid {
					continue
				}

				for _, layout := range solidFaceLayouts {
					off := axesByFace[layout.face].normal
					neighborType, known := b.blockAt(c, lookup, x+off[0], y+off[1], z+off[2])
					if !visibleFluidFace(neighborType, known) {
						continue
					}
					depth, u, v := faceGridCoords(layout.face, x, y, z)
					b.emitFluidQuad(layout.face, depth, u, v, myType, &data.Fluid)
				}
			}
		}
	}
	return nil
}

// faceGridCoords inverts a faceLayout's toLocal mapping, recovering
// the (depth, u, v) grid coordinates quadCorners expects from a plain
// chunk-local voxel position.
func faceGridCoords(face chunk.Face, x, y, z int) (depth, u, v int) {
	switch face {
	case chunk.FaceTop, chunk.FaceBottom:
		return y, x, z
	case chunk.FaceFront, chunk.FaceBack:
		return z, x, y
	default: // Right, Left
		return x, z, y
	}
}

func (b *Builder) emitFluidQuad(face chunk.Face, depth, u, v int, myType block.Type, stream *Stream) {
	alpha := faceIndex(face)
	region, atlasName := b.atlasRegion(myType, face)
	b.noteAtlasName(stream, atlasName)
	geom := quadCorners(face, depth, u, v, 1, 1)
	uvLocal := [4][2]float32{{0, 1}, {1, 1}, {1, 0}, {0, 0}}

	var vs [4]Vertex
	for i := 0; i < 4; i++ {
		vs[i] = Vertex{
			X: float32(geom[i][0]), Y: float32(geom[i][1]), Z: float32(geom[i][2]),
			R: fluidTint[0], G: fluidTint[1], B: fluidTint[2], A: alpha,
			U: region.PosX + uvLocal[i][0]*region.SizeX,
			V: region.PosY + uvLocal[i][1]*region.SizeY,
		}
	}
	isSide := face != chunk.FaceTop && face != chunk.FaceBottom
	stream.addQuad(vs[0], vs[1], vs[2], vs[3], isSide)
}
