// Package lighting implements the BFS flood-fill light propagator
// described in spec §4.E: sunlight seeding, emissive seeding, and
// decayed propagation through a single chunk.
package lighting

import (
	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// Propagator is the single writer for a chunk's light state during a
// pass (spec §5's ordering guarantee: lighting completes before that
// chunk's mesh builder runs in the same job).
type Propagator struct {
	Registry *block.Registry
}

func NewPropagator(registry *block.Registry) *Propagator {
	return &Propagator{Registry: registry}
}

type voxel struct{ x, y, z int }

// Run executes the full pass: zero, sunlight seed, emissive seed,
// propagate, then clears is_lighting_dirty and marks is_mesh_dirty.
func (p *Propagator) Run(c *chunk.Chunk) error {
	if err := p.zero(c); err != nil {
		return err
	}

	queue, err := p.seedSunlight(c)
	if err != nil {
		return err
	}

	emissive, err := p.seedEmissive(c)
	if err != nil {
		return err
	}
	queue = append(queue, emissive...)

	if err := p.propagate(c, queue); err != nil {
		return err
	}

	c.ClearLightingDirty()
	return nil
}

func (p *Propagator) zero(c *chunk.Chunk) error {
	for x := 0; x < chunk.Width; x++ {
		for y := 0; y < chunk.Height; y++ {
			for z := 0; z < chunk.Width; z++ {
				if err := c.SetLightLevel(x, y, z, 0); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// seedSunlight scans each column from the top down, lighting every
// sky-transparent voxel to 15 until a sunlight-blocking block is hit
// (spec §4.E step 2). It reads via Chunk.GetBlock rather than
// ForEachColumnTopDown, since that helper holds a read lock across the
// whole column and this loop must also take the write lock to set
// light levels as it goes.
func (p *Propagator) seedSunlight(c *chunk.Chunk) ([]voxel, error) {
	queue := make([]voxel, 0, chunk.Width*chunk.Width)
	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			for y := chunk.Height - 1; y >= 0; y-- {
				id, err := c.GetBlock(x, y, z)
				if err != nil {
					return nil, err
				}
				t := p.Registry.GetByID(id)
				if t.BlocksSunlight() {
					break
				}
				if err := c.SetLightLevel(x, y, z, 15); err != nil {
					return nil, err
				}
				queue = append(queue, voxel{x, y, z})
			}
		}
	}
	return queue, nil
}

// seedEmissive writes each light-emitting block's level and, if it
// carries an opaque tint, its color (spec §4.E step 3).
func (p *Propagator) seedEmissive(c *chunk.Chunk) ([]voxel, error) {
	var queue []voxel
	for x := 0; x < chunk.Width; x++ {
		for y := 0; y < chunk.Height; y++ {
			for z := 0; z < chunk.Width; z++ {
				id, err := c.GetBlock(x, y, z)
				if err != nil {
					return nil, err
				}
				if id == block.AirID {
					continue
				}
				t := p.Registry.GetByID(id)
				if t.EmitsLight == 0 {
					continue
				}

				current, err := c.GetLightLevel(x, y, z)
				if err != nil {
					return nil, err
				}
				if t.EmitsLight > current {
					if err := c.SetLightLevel(x, y, z, t.EmitsLight); err != nil {
						return nil, err
					}
				}
				if t.EmitsColor.A == 255 {
					tint := chunk.RGB8{R: t.EmitsColor.R, G: t.EmitsColor.G, B: t.EmitsColor.B}
					if err := c.SetLightColor(x, y, z, tint); err != nil {
						return nil, err
					}
				}
				queue = append(queue, voxel{x, y, z})
			}
		}
	}
	return queue, nil
}

// propagate pops each queued voxel and pushes decayed light into its
// six neighbors, enqueueing any that accepted a strictly brighter value
// (spec §4.E step 4). Cross-chunk neighbors (TryGetAdjacentBlock
// reporting a boundary crossing) are skipped: this single-chunk BFS
// never reads or writes outside c, so light does not propagate from one
// chunk into its neighbor.
func (p *Propagator) propagate(c *chunk.Chunk, queue []voxel) error {
	head := 0
	for head < len(queue) {
		v := queue[head]
		head++

		current, err := c.GetLightLevel(v.x, v.y, v.z)
		if err != nil {
			return err
		}
		if current == 0 {
			continue
		}
		currentColor, err := c.GetLightColor(v.x, v.y, v.z)
		if err != nil {
			return err
		}

		for face := chunk.FaceFront; face <= chunk.FaceBottom; face++ {
			neighborID, ok := c.TryGetAdjacentBlock(v.x, v.y, v.z, face)
			if !ok {
				continue
			}
			neighborType := p.Registry.GetByID(neighborID)
			if neighborType.IsOpaque {
				continue
			}

			decay := uint8(1)
			if neighborType.RenderType == block.RenderFluid {
				decay = 2
			}
			if current <= decay {
				continue
			}
			newLevel := current - decay

			off := chunk.Offsets[face]
			nx, ny, nz := v.x+off[0], v.y+off[1], v.z+off[2]

			neighborLevel, err := c.GetLightLevel(nx, ny, nz)
			if err != nil {
				return err
			}
			if newLevel <= neighborLevel {
				continue
			}
			if err := c.SetLightLevel(nx, ny, nz, newLevel); err != nil {
				return err
			}
			if err := c.SetLightColor(nx, ny, nz, currentColor); err != nil {
				return err
			}
			queue = append(queue, voxel{nx, ny, nz})
		}
	}
	return nil
}
