package generation

import (
	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// CaveCarvingStage hollows out pockets of stone using 3D noise
// thresholding (spec §4.D step 4). Bedrock is never removed, keeping
// the floor of the world intact.
type CaveCarvingStage struct {
	Threshold float64 // noise value above which a solid cell is carved to air; 0 defaults to 0.62
	Frequency float64 // sampling frequency scale; 0 defaults to 0.08
}

func (s CaveCarvingStage) Name() string { return "cave_carving" }

func (s CaveCarvingStage) Execute(ctx *Context) error {
	threshold := s.Threshold
	if threshold == 0 {
		threshold = 0.62
	}
	frequency := s.Frequency
	if frequency == 0 {
		frequency = 0.08
	}

	for x := 0; x < chunk.Width; x++ {
		worldX := float64(ctx.OriginX + x)
		for z := 0; z < chunk.Width; z++ {
			worldZ := float64(ctx.OriginZ + z)
			surfaceY := ctx.HeightAt(x, z)

			for ly := 0; ly < chunk.Height; ly++ {
				worldY := ctx.OriginY + ly
				if worldY >= surfaceY || worldY < 4 {
					continue
				}

				existing, err := ctx.Chunk.GetBlock(x, ly, z)
				if err != nil {
					return err
				}
				if existing == ctx.Ids.Bedrock || existing == block.AirID {
					continue
				}

				sample := ctx.Noise.Eval3D(worldX*frequency, float64(worldY)*frequency, worldZ*frequency)
				if sample > threshold {
					if err := ctx.Chunk.SetBlock(x, ly, z, block.AirID, true); err != nil {
						return err
					}
				}
			}
		}
	}
	return nil
}
