package generation

import "lillyengine.dev/voxelcore/chunk"

// FillStage converts the heightmap into solid blocks (spec §4.D step 3):
// a bedrock floor, a stone body, a dirt band beneath the surface, and a
// grass or snow cap depending on altitude. Cave carving and surface
// painting run afterward and may still replace blocks this stage wrote.
type FillStage struct {
	BedrockThickness int // world-y layers of unbreakable floor; 0 defaults to 3
	DirtDepth        int // layers of dirt beneath the surface block; 0 defaults to 4
}

func (s FillStage) Name() string { return "fill" }

func (s FillStage) Execute(ctx *Context) error {
	bedrockThickness := s.BedrockThickness
	if bedrockThickness == 0 {
		bedrockThickness = 3
	}
	dirtDepth := s.DirtDepth
	if dirtDepth == 0 {
		dirtDepth = 4
	}

	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			surfaceY := ctx.HeightAt(x, z)

			for worldY := ctx.OriginY; worldY < ctx.OriginY+chunk.Height; worldY++ {
				if worldY > surfaceY {
					break
				}
				ly := worldY - ctx.OriginY

				id := ctx.Ids.Stone
				switch {
				case worldY < bedrockThickness:
					id = ctx.Ids.Bedrock
				case worldY == surfaceY:
					if surfaceY >= ctx.SnowLine {
						id = ctx.Ids.Snow
					} else {
						id = ctx.Ids.Grass
					}
				case worldY >= surfaceY-dirtDepth:
					id = ctx.Ids.Dirt
				}

				if err := ctx.Chunk.SetBlock(x, ly, z, id, true); err != nil {
					return err
				}
			}

			// Fill below sea level with water where the terrain didn't
			// reach the surface (spec §4.D note: oceans are implicit).
			if surfaceY < ctx.SeaLevel {
				for worldY := surfaceY + 1; worldY <= ctx.SeaLevel; worldY++ {
					if worldY < ctx.OriginY || worldY >= ctx.OriginY+chunk.Height {
						continue
					}
					ly := worldY - ctx.OriginY
					if err := ctx.Chunk.SetBlock(x, ly, z, ctx.Ids.Water, true); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
