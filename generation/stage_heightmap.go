package generation

import "lillyengine.dev/voxelcore/chunk"

// HeightmapStage samples noise at 2+ octaves per column to compute a
// surface height, the first step of spec §4.D.
type HeightmapStage struct {
	BaseHeight int     // world-space y of the flat baseline; 0 if unset (defaults to 64)
	Amplitude  float64 // vertical spread added on top of BaseHeight; 0 if unset (defaults to 40)
}

func (s HeightmapStage) Name() string { return "heightmap" }

func (s HeightmapStage) Execute(ctx *Context) error {
	base := s.BaseHeight
	if base == 0 {
		base = 64
	}
	amplitude := s.Amplitude
	if amplitude == 0 {
		amplitude = 40
	}

	if ctx.Heights == nil {
		ctx.Heights = make([]int, chunk.Width*chunk.Width)
	}

	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			worldX := float64(ctx.OriginX + x)
			worldZ := float64(ctx.OriginZ + z)

			// Two-octave-minimum sample: a broad continental sample plus
			// a finer detail sample, combined per spec §4.D step 1.
			continental := ctx.Noise.Eval2D(worldX, worldZ)
			detail := ctx.Noise.Eval2D(worldX*4+1000, worldZ*4+1000)
			combined := continental*0.8 + detail*0.2

			height := base + int(combined*amplitude)
			if height < 1 {
				height = 1
			}
			if height >= chunk.Height {
				height = chunk.Height - 1
			}
			ctx.SetHeightAt(x, z, height)
		}
	}
	return nil
}
