package generation

import "lillyengine.dev/voxelcore/chunk"

// SurfacePaintingStage replaces the exposed top block of each column
// with a biome-appropriate surface material (spec §4.D step 5): sand
// near sea level, snow above the snow line, grass otherwise. Runs after
// cave carving since carving can expose new top blocks at a column's
// original surface height only (caves never remove the top block
// itself, so the scan below starts at the stored height and walks down
// to the first non-air cell).
type SurfacePaintingStage struct {
	BeachMargin int // world-y band above SeaLevel treated as beach; 0 defaults to 2
}

func (s SurfacePaintingStage) Name() string { return "surface_painting" }

func (s SurfacePaintingStage) Execute(ctx *Context) error {
	margin := s.BeachMargin
	if margin == 0 {
		margin = 2
	}

	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			surfaceY := ctx.HeightAt(x, z)

			topWorldY := -1
			for worldY := surfaceY; worldY >= ctx.OriginY; worldY-- {
				ly := worldY - ctx.OriginY
				if ly < 0 || ly >= chunk.Height {
					continue
				}
				id, err := ctx.Chunk.GetBlock(x, ly, z)
				if err != nil {
					return err
				}
				if id != 0 {
					topWorldY = worldY
					break
				}
			}
			if topWorldY < 0 {
				continue
			}
			ly := topWorldY - ctx.OriginY

			existing, err := ctx.Chunk.GetBlock(x, ly, z)
			if err != nil {
				return err
			}
			if existing == ctx.Ids.Bedrock || existing == ctx.Ids.Stone {
				continue
			}

			replacement := existing
			switch {
			case topWorldY >= ctx.SnowLine:
				replacement = ctx.Ids.Snow
			case topWorldY <= ctx.SeaLevel+margin:
				replacement = ctx.Ids.Sand
			default:
				replacement = ctx.Ids.Grass
			}

			if replacement != existing {
				if err := ctx.Chunk.SetBlock(x, ly, z, replacement, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
