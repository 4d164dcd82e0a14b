package generation

import "lillyengine.dev/voxelcore/chunk"

// ErosionStage smooths the heightmap by averaging each column with its
// noise-perturbed neighbors (spec §4.D step 2, optional). Disabled by
// default; the generator wires it in only when TerrainConfig.EnableErosion
// is set (SPEC_FULL.md domain stack).
type ErosionStage struct {
	Enabled bool
}

func (s ErosionStage) Name() string { return "erosion" }

func (s ErosionStage) Execute(ctx *Context) error {
	if !s.Enabled || ctx.Heights == nil {
		return nil
	}

	smoothed := make([]int, len(ctx.Heights))
	copy(smoothed, ctx.Heights)

	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			sum := 0
			count := 0
			for dx := -1; dx <= 1; dx++ {
				for dz := -1; dz <= 1; dz++ {
					nx, nz := x+dx, z+dz
					if nx < 0 || nx >= chunk.Width || nz < 0 || nz >= chunk.Width {
						continue
					}
					sum += ctx.HeightAt(nx, nz)
					count++
				}
			}
			if count == 0 {
				continue
			}
			average := sum / count

			worldX := float64(ctx.OriginX + x)
			worldZ := float64(ctx.OriginZ + z)
			perturb := ctx.Noise.Eval2D(worldX*0.5+5000, worldZ*0.5+5000)
			blended := int(float64(average)*0.7 + float64(ctx.HeightAt(x, z))*0.3 + perturb*2)

			if blended < 1 {
				blended = 1
			}
			if blended >= chunk.Height {
				blended = chunk.Height - 1
			}
			smoothed[ctx.heightIndex(x, z)] = blended
		}
	}

	ctx.Heights = smoothed
	return nil
}
