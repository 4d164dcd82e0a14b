package generation

import (
	"math"

	"lillyengine.dev/voxelcore/chunk"
)

// DecorationStage scatters surface flora and buried mineral veins (spec
// §4.D step 6, SPEC_FULL.md §5.3). Placement is deterministic: a column
// is decorated only when a noise sample keyed on its world coordinates
// clears a density threshold, so re-generating the same chunk with the
// same seed reproduces the same decorations.
type DecorationStage struct {
	TreeDensity     float64 // 0 defaults to 0.975 (fraction of columns skipped)
	FlowerDensity   float64 // 0 defaults to 0.90
	IronVeinDensity float64
	GoldVeinDensity float64
	MinTreeTrunkLen int
	MaxTreeTrunkLen int
}

func (s DecorationStage) Name() string { return "decoration" }

func (s DecorationStage) Execute(ctx *Context) error {
	treeDensity := s.TreeDensity
	if treeDensity == 0 {
		treeDensity = 0.975
	}
	flowerDensity := s.FlowerDensity
	if flowerDensity == 0 {
		flowerDensity = 0.90
	}
	minTrunk := s.MinTreeTrunkLen
	if minTrunk == 0 {
		minTrunk = 3
	}
	maxTrunk := s.MaxTreeTrunkLen
	if maxTrunk == 0 {
		maxTrunk = 5
	}

	for x := 0; x < chunk.Width; x++ {
		worldX := float64(ctx.OriginX + x)
		for z := 0; z < chunk.Width; z++ {
			worldZ := float64(ctx.OriginZ + z)
			surfaceY := ctx.HeightAt(x, z)
			ly := surfaceY - ctx.OriginY
			if ly < 0 || ly+1 >= chunk.Height {
				continue
			}

			topID, err := ctx.Chunk.GetBlock(x, ly, z)
			if err != nil {
				return err
			}
			if topID != ctx.Ids.Grass {
				continue
			}

			foliageSample := fractional(ctx.Noise.Eval2D(worldX*3.1+7000, worldZ*3.1+7000))
			switch {
			case foliageSample > treeDensity:
				trunk := minTrunk + int(foliageSample*1000)%(maxTrunk-minTrunk+1)
				if err := s.placeTree(ctx, x, ly+1, z, trunk); err != nil {
					return err
				}
			case foliageSample > flowerDensity:
				if err := ctx.Chunk.SetBlock(x, ly+1, z, ctx.Ids.Flower, false); err != nil {
					return err
				}
			}
		}
	}

	return s.scatterVeins(ctx)
}

// placeTree writes a simple trunk-and-canopy structure starting one
// block above the grass surface at (x, ly, z).
func (s DecorationStage) placeTree(ctx *Context, x, ly, z, trunkLen int) error {
	top := ly
	for i := 0; i < trunkLen; i++ {
		if ly+i >= chunk.Height {
			return nil
		}
		if err := ctx.Chunk.SetBlock(x, ly+i, z, ctx.Ids.Wood, true); err != nil {
			return err
		}
		top = ly + i
	}

	for dy := 0; dy <= 2; dy++ {
		canopyY := top + dy
		if canopyY >= chunk.Height {
			break
		}
		radius := 2
		if dy == 2 {
			radius = 1
		}
		for dx := -radius; dx <= radius; dx++ {
			for dz := -radius; dz <= radius; dz++ {
				nx, nz := x+dx, z+dz
				if nx < 0 || nx >= chunk.Width || nz < 0 || nz >= chunk.Width {
					continue
				}
				if dx == 0 && dz == 0 && dy < 2 {
					continue
				}
				existing, err := ctx.Chunk.GetBlock(nx, canopyY, nz)
				if err != nil || existing != 0 {
					continue
				}
				if err := ctx.Chunk.SetBlock(nx, canopyY, nz, ctx.Ids.Leaves, false); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// scatterVeins replaces isolated stone cells with ore below the
// surface (SPEC_FULL.md §5.3, a feature original_source's retrieval
// did not surface directly but that the teacher's own
// seedMineralVeins-style decoration implies for a complete world
// generator).
func (s DecorationStage) scatterVeins(ctx *Context) error {
	ironDensity := s.IronVeinDensity
	if ironDensity == 0 {
		ironDensity = 0.985
	}
	goldDensity := s.GoldVeinDensity
	if goldDensity == 0 {
		goldDensity = 0.997
	}

	for x := 0; x < chunk.Width; x++ {
		worldX := float64(ctx.OriginX + x)
		for z := 0; z < chunk.Width; z++ {
			worldZ := float64(ctx.OriginZ + z)
			surfaceY := ctx.HeightAt(x, z)

			for ly := 0; ly < chunk.Height; ly++ {
				worldY := ctx.OriginY + ly
				if worldY >= surfaceY-2 {
					continue
				}
				existing, err := ctx.Chunk.GetBlock(x, ly, z)
				if err != nil || existing != ctx.Ids.Stone {
					continue
				}

				sample := fractional(ctx.Noise.Eval3D(worldX*5.3+3000, float64(worldY)*5.3+3000, worldZ*5.3+3000))
				var oreID = existing
				switch {
				case sample > goldDensity:
					oreID = ctx.Ids.GoldOre
				case sample > ironDensity:
					oreID = ctx.Ids.IronOre
				default:
					continue
				}
				if err := ctx.Chunk.SetBlock(x, ly, z, oreID, true); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// fractional maps a [-1, 1] noise sample to [0, 1].
func fractional(v float64) float64 {
	mapped := (v + 1) / 2
	return math.Min(1, math.Max(0, mapped))
}
