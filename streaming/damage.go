package streaming

import (
	"context"
	"math"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// DamageBlockAt applies amount damage to the voxel at pos, destroying
// it once its hit points (seeded from the block's registered Hardness)
// reach zero (SPEC_FULL.md §5.1, mirroring Manager.ApplyBlockDamage).
// destroyed reports whether this call cleared the block; ok is false
// if the owning chunk is not currently loaded.
func (ctl *Controller) DamageBlockAt(ctx context.Context, pos chunk.BlockCoord, amount float64) (destroyed, ok bool, err error) {
	coord, lx, ly, lz := pos.Owner()
	ch, found := ctl.resolveChunk(coord)
	if !found {
		return false, false, nil
	}

	id, err := ch.GetBlock(lx, ly, lz)
	if err != nil {
		return false, true, err
	}
	if id == block.AirID {
		return false, true, nil
	}

	hardness := ctl.registry.GetByID(id).Hardness
	destroyed, err = ch.DamageBlock(lx, ly, lz, amount, hardness)
	if err != nil {
		return false, true, err
	}
	if destroyed {
		ctl.queueEditRebuilds(ctx, coord, lx, ly, lz)
		ctl.queueCollapseColumn(coord, lx, lz)
	}
	return destroyed, true, nil
}

// ExplodeAt applies falloff-by-distance damage to every voxel within
// radius of center (SPEC_FULL.md §5.1, generalizing
// Manager.ApplyExplosion's loop from the teacher's sparse per-column
// store to dense chunk blocks).
func (ctl *Controller) ExplodeAt(ctx context.Context, center WorldPos, radius, maxDamage float64) error {
	if radius <= 0 || maxDamage <= 0 {
		return nil
	}
	ceil := int(math.Ceil(radius))
	cx := int(math.Floor(center.X))
	cy := int(math.Floor(center.Y))
	cz := int(math.Floor(center.Z))

	for x := cx - ceil; x <= cx+ceil; x++ {
		for y := cy - ceil; y <= cy+ceil; y++ {
			for z := cz - ceil; z <= cz+ceil; z++ {
				dx := float64(x) + 0.5 - center.X
				dy := float64(y) + 0.5 - center.Y
				dz := float64(z) + 0.5 - center.Z
				distance := math.Sqrt(dx*dx + dy*dy + dz*dz)
				if distance > radius {
					continue
				}
				damage := maxDamage * (1 - distance/radius)
				if damage <= 0 {
					continue
				}
				if _, _, err := ctl.DamageBlockAt(ctx, chunk.BlockCoord{X: x, Y: y, Z: z}, damage); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// columnRef names one (x,z) column of one active chunk awaiting a
// gravity-collapse follow-up (SPEC_FULL.md §5.2).
type columnRef struct {
	coord  chunk.Coordinate
	lx, lz int
}

// queueCollapseColumn marks a column for gravity-collapse
// re-evaluation on the next tick, deduplicating against any
// already-queued entry for the same column.
func (ctl *Controller) queueCollapseColumn(coord chunk.Coordinate, lx, lz int) {
	ref := columnRef{coord: coord, lx: lx, lz: lz}

	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	for _, existing := range ctl.collapseQueue {
		if existing == ref {
			return
		}
	}
	ctl.collapseQueue = append(ctl.collapseQueue, ref)
}

// runCollapseFollowUps drains the collapse queue, dropping each
// unstable block (sand/gravel) one voxel toward any air cell directly
// beneath it (SPEC_FULL.md §5.2, grounded on
// internal/world/stability.go's column evaluation but simplified from
// a load/support-force simulation into a one-step-per-tick toppling
// rule, driven by tick rather than invoked synchronously with the
// edit). Columns that still have unstable blocks resting on air are
// re-queued for the next tick.
func (ctl *Controller) runCollapseFollowUps(ctx context.Context) {
	ctl.mu.Lock()
	queue := ctl.collapseQueue
	ctl.collapseQueue = nil
	ctl.mu.Unlock()

	var stillUnstable []columnRef
	for _, ref := range queue {
		ctl.mu.Lock()
		slot, ok := ctl.active[ref.coord]
		ctl.mu.Unlock()
		if !ok {
			continue
		}

		moved, remains, err := ctl.collapseColumnOneStep(slot.Chunk, ref.lx, ref.lz)
		if err != nil {
			continue
		}
		if moved {
			ctl.queueRebuild(ctx, ref.coord)
		}
		if remains {
			stillUnstable = append(stillUnstable, ref)
		}
	}

	if len(stillUnstable) == 0 {
		return
	}
	ctl.mu.Lock()
	ctl.collapseQueue = append(ctl.collapseQueue, stillUnstable...)
	ctl.mu.Unlock()
}

// collapseColumnOneStep scans one column bottom-up, dropping every
// IsUnstable block resting directly on air down by one voxel.
func (ctl *Controller) collapseColumnOneStep(c *chunk.Chunk, lx, lz int) (moved, unstableRemains bool, err error) {
	for y := 1; y < chunk.Height; y++ {
		id, gErr := c.GetBlock(lx, y, lz)
		if gErr != nil {
			return moved, unstableRemains, gErr
		}
		if id == block.AirID {
			continue
		}
		if !ctl.registry.GetByID(id).IsUnstable {
			continue
		}

		below, gErr := c.GetBlock(lx, y-1, lz)
		if gErr != nil {
			return moved, unstableRemains, gErr
		}
		if below != block.AirID {
			continue
		}

		if err := c.SetBlock(lx, y-1, lz, id, true); err != nil {
			return moved, unstableRemains, err
		}
		if err := c.SetBlock(lx, y, lz, block.AirID, true); err != nil {
			return moved, unstableRemains, err
		}
		moved = true
		if y >= 2 {
			landing, gErr := c.GetBlock(lx, y-2, lz)
			if gErr != nil {
				return moved, unstableRemains, gErr
			}
			if landing == block.AirID {
				unstableRemains = true
			}
		}
	}
	return moved, unstableRemains, nil
}
