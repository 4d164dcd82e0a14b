package streaming

import (
	"context"
	"math"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

// raycastStep is the fixed sample spacing spec §4.H's raycast walks at.
const raycastStep = 0.1

// RaycastHit describes the first non-air voxel a ray struck.
type RaycastHit struct {
	BlockPos chunk.BlockCoord
	Face     chunk.Face
}

// Raycast steps along the normalized direction from origin in fixed
// 0.1 increments up to maxDistance, consulting only the active set
// (spec §4.H: "look up the chunk in active"). The first non-air voxel
// wins; Face is the axis of the last step that entered the solid
// voxel.
func (ctl *Controller) Raycast(origin, dir WorldPos, maxDistance float64) (RaycastHit, bool) {
	length := math.Sqrt(dir.X*dir.X + dir.Y*dir.Y + dir.Z*dir.Z)
	if length == 0 {
		return RaycastHit{}, false
	}
	ndx, ndy, ndz := dir.X/length, dir.Y/length, dir.Z/length

	prevVoxel := origin.blockCoord()
	for t := 0.0; t <= maxDistance; t += raycastStep {
		sample := WorldPos{X: origin.X + ndx*t, Y: origin.Y + ndy*t, Z: origin.Z + ndz*t}
		voxel := sample.blockCoord()

		id, ok := ctl.activeBlockAt(voxel)
		if ok && id != block.AirID {
			return RaycastHit{BlockPos: voxel, Face: entryFace(prevVoxel, voxel, ndx, ndy, ndz)}, true
		}
		prevVoxel = voxel
	}
	return RaycastHit{}, false
}

// entryFace recovers which of the block's six faces the ray crossed to
// enter voxel, from the axis that changed since prevVoxel. If no axis
// changed (the ray started inside a solid voxel) it falls back to the
// face opposite the direction's dominant axis.
func entryFace(prev, cur chunk.BlockCoord, dx, dy, dz float64) chunk.Face {
	switch {
	case cur.X != prev.X:
		if dx > 0 {
			return chunk.FaceLeft
		}
		return chunk.FaceRight
	case cur.Y != prev.Y:
		if dy > 0 {
			return chunk.FaceBottom
		}
		return chunk.FaceTop
	case cur.Z != prev.Z:
		if dz > 0 {
			return chunk.FaceBack
		}
		return chunk.FaceFront
	default:
		ax, ay, az := math.Abs(dx), math.Abs(dy), math.Abs(dz)
		switch {
		case ax >= ay && ax >= az:
			if dx > 0 {
				return chunk.FaceLeft
			}
			return chunk.FaceRight
		case ay >= ax && ay >= az:
			if dy > 0 {
				return chunk.FaceBottom
			}
			return chunk.FaceTop
		default:
			if dz > 0 {
				return chunk.FaceBack
			}
			return chunk.FaceFront
		}
	}
}

func (ctl *Controller) activeBlockAt(pos chunk.BlockCoord) (block.ID, bool) {
	coord, lx, ly, lz := pos.Owner()
	ctl.mu.Lock()
	slot, ok := ctl.active[coord]
	ctl.mu.Unlock()
	if !ok {
		return 0, false
	}
	id, err := slot.Chunk.GetBlock(lx, ly, lz)
	if err != nil {
		return 0, false
	}
	return id, true
}

// resolveChunk returns the chunk owning pos, preferring active then
// falling back to the cache (without pinning, matching the read-only
// nature of these query operations).
func (ctl *Controller) resolveChunk(coord chunk.Coordinate) (*chunk.Chunk, bool) {
	ctl.mu.Lock()
	if slot, ok := ctl.active[coord]; ok {
		ctl.mu.Unlock()
		return slot.Chunk, true
	}
	ctl.mu.Unlock()
	return ctl.cache.TryGet(coord)
}

// GetBlockAt returns the block id and type at a world position (spec
// §4.H get_block_at).
func (ctl *Controller) GetBlockAt(pos chunk.BlockCoord) (block.ID, block.Type, bool) {
	coord, lx, ly, lz := pos.Owner()
	ch, ok := ctl.resolveChunk(coord)
	if !ok {
		return 0, block.Type{}, false
	}
	id, err := ch.GetBlock(lx, ly, lz)
	if err != nil {
		return 0, block.Type{}, false
	}
	return id, ctl.registry.GetByID(id), true
}

// SetBlockAt mutates the owning chunk's voxel and enqueues rebuilds
// for the owning chunk plus any neighbor whose boundary face touches
// this voxel (spec §4.H set_block_at). ok is false if the owning
// chunk is not currently loaded.
func (ctl *Controller) SetBlockAt(ctx context.Context, pos chunk.BlockCoord, id block.ID) (ok bool, err error) {
	coord, lx, ly, lz := pos.Owner()
	ch, found := ctl.resolveChunk(coord)
	if !found {
		return false, nil
	}

	oldID, err := ch.GetBlock(lx, ly, lz)
	if err != nil {
		return false, err
	}
	if oldID == id {
		return true, nil
	}

	oldType := ctl.registry.GetByID(oldID)
	newType := ctl.registry.GetByID(id)
	affectsLighting := oldType.BlocksSunlight() != newType.BlocksSunlight() ||
		oldType.EmitsLight != newType.EmitsLight ||
		oldType.IsTransparent != newType.IsTransparent

	if err := ch.SetBlock(lx, ly, lz, id, affectsLighting); err != nil {
		return false, err
	}

	ctl.queueEditRebuilds(ctx, coord, lx, ly, lz)
	ctl.queueCollapseColumn(coord, lx, lz)
	return true, nil
}

// queueEditRebuilds schedules a rebuild for the owning chunk and for
// any neighbor chunk whose boundary face touches the edited voxel
// (spec §4.H set_block_at).
func (ctl *Controller) queueEditRebuilds(ctx context.Context, coord chunk.Coordinate, lx, ly, lz int) {
	ctl.queueRebuild(ctx, coord)

	if lx == 0 {
		ctl.queueRebuild(ctx, addOffset(coord, [3]int{-1, 0, 0}))
	}
	if lx == chunk.Width-1 {
		ctl.queueRebuild(ctx, addOffset(coord, [3]int{1, 0, 0}))
	}
	if lz == 0 {
		ctl.queueRebuild(ctx, addOffset(coord, [3]int{0, 0, -1}))
	}
	if lz == chunk.Width-1 {
		ctl.queueRebuild(ctx, addOffset(coord, [3]int{0, 0, 1}))
	}
	if ly == 0 {
		ctl.queueRebuild(ctx, addOffset(coord, [3]int{0, -1, 0}))
	}
	if ly == chunk.Height-1 {
		ctl.queueRebuild(ctx, addOffset(coord, [3]int{0, 1, 0}))
	}
}
