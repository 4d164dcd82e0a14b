// Package streaming implements the main-thread streaming controller
// described in spec §4.H: it decides which chunks should be loaded
// around a viewer, schedules generation/lighting/meshing jobs onto the
// worker pool, drains completed jobs into the active set, unloads
// chunks that fall out of range, and answers the synchronous
// raycast/get/set query surface renderers and gameplay code call.
package streaming

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/cache"
	"lillyengine.dev/voxelcore/chunk"
	"lillyengine.dev/voxelcore/collab"
	"lillyengine.dev/voxelcore/generation"
	"lillyengine.dev/voxelcore/internal/enginelog"
	"lillyengine.dev/voxelcore/jobs"
	"lillyengine.dev/voxelcore/lighting"
	"lillyengine.dev/voxelcore/mesh"
)

// ChunkSlot holds an active chunk plus its current mesh snapshot and
// any GPU buffers uploaded for it (spec §4.H ChunkSlot).
type ChunkSlot struct {
	Chunk *chunk.Chunk
	Mesh  *mesh.Data

	gpu map[collab.StreamKind]collab.GpuHandle
}

// WorldPos is a floating-point world-space position, the unit the
// query surface and tick() operate in (spec §4.H).
type WorldPos struct {
	X, Y, Z float64
}

func (p WorldPos) blockCoord() chunk.BlockCoord {
	return chunk.BlockCoord{
		X: int(math.Floor(p.X)),
		Y: int(math.Floor(p.Y)),
		Z: int(math.Floor(p.Z)),
	}
}

func (p WorldPos) chunkCoord() chunk.Coordinate {
	owner, _, _, _ := p.blockCoord().Owner()
	return owner
}

type jobResult struct {
	coord chunk.Coordinate
	chunk *chunk.Chunk
	mesh  *mesh.Data
}

// Controller is the streaming controller. It is driven by one tick()
// call per frame from the host and is not itself safe to call
// concurrently with tick (query methods may run from the same main
// thread between ticks, per spec §5's main-thread scheduling model).
type Controller struct {
	mu      sync.Mutex
	active  map[chunk.Coordinate]*ChunkSlot
	pending map[chunk.Coordinate]*jobs.Handle

	config        Config
	targetOffsets []offset

	registry   *block.Registry
	cache      *cache.Cache
	generator  *generation.Generator
	propagator *lighting.Propagator
	builder    *mesh.Builder
	pool       *jobs.Pool
	graphics   collab.GraphicsUploader

	collapseQueue []columnRef

	dedupe *enginelog.Deduper
}

// NewController wires the collaborators spec §6/§9 require as
// constructor arguments; graphics may be nil for headless (server-side
// or test) use, in which case mesh data is produced but never uploaded.
func NewController(
	cfg Config,
	registry *block.Registry,
	atlas collab.AtlasLookup,
	generator *generation.Generator,
	pool *jobs.Pool,
	graphics collab.GraphicsUploader,
) *Controller {
	return &Controller{
		active:        make(map[chunk.Coordinate]*ChunkSlot),
		pending:       make(map[chunk.Coordinate]*jobs.Handle),
		config:        cfg,
		targetOffsets: buildTargetOffsets(cfg),
		registry:      registry,
		cache:         cache.New(cfg.MaxCachedChunks, cache.DefaultTTL),
		generator:     generator,
		propagator:    lighting.NewPropagator(registry),
		builder:       mesh.NewBuilder(registry, atlas),
		pool:          pool,
		graphics:      graphics,
		dedupe:        enginelog.NewDeduper(enginelog.New("streaming")),
	}
}

// Active returns the slot active at coord, if any; renderers use this
// to read the current mesh snapshot (spec §4.H "clients observe
// snapshots, never half-built state").
func (ctl *Controller) Active(coord chunk.Coordinate) (*ChunkSlot, bool) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	slot, ok := ctl.active[coord]
	return slot, ok
}

// ActiveCount reports how many chunks are currently active, for tests
// and diagnostics.
func (ctl *Controller) ActiveCount() int {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	return len(ctl.active)
}

// neighborLookup consults active first, then falls back to the cache
// without pinning it (spec §4.H step 3c).
func (ctl *Controller) neighborLookup(coord chunk.Coordinate) (*chunk.Chunk, bool) {
	ctl.mu.Lock()
	if slot, ok := ctl.active[coord]; ok {
		ctl.mu.Unlock()
		return slot.Chunk, true
	}
	ctl.mu.Unlock()
	return ctl.cache.TryGet(coord)
}

// Tick runs one streaming pass: schedule missing chunks, drain
// completed jobs into active, and unload chunks that fell out of
// range (spec §4.H steps 1-5).
func (ctl *Controller) Tick(ctx context.Context, viewer WorldPos) error {
	origin := viewer.chunkCoord()
	targets := make(map[chunk.Coordinate]struct{}, len(ctl.targetOffsets))
	for _, off := range ctl.targetOffsets {
		targets[origin.Add(off.dx, off.dy, off.dz)] = struct{}{}
	}

	ctl.scheduleMissing(ctx, targets)
	newlyActive := ctl.drainCompleted()
	for _, coord := range newlyActive {
		ctl.rebuildNeighbors(ctx, coord)
	}
	ctl.unloadOutOfRange(targets)
	ctl.runCollapseFollowUps(ctx)
	return nil
}

func (ctl *Controller) scheduleMissing(ctx context.Context, targets map[chunk.Coordinate]struct{}) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	for coord := range targets {
		if len(ctl.pending) >= ctl.config.MaxConcurrentJobs {
			return
		}
		if _, ok := ctl.active[coord]; ok {
			continue
		}
		if _, ok := ctl.pending[coord]; ok {
			continue
		}
		ctl.pending[coord] = ctl.scheduleLoad(ctx, coord)
	}
}

// scheduleLoad runs the full load pipeline for a chunk not yet active:
// obtain from cache or generate, run lighting if dirty, build mesh
// (spec §4.H step 3). The chunk is pinned in the cache for the job's
// duration so it cannot be evicted out from under the mesh build.
func (ctl *Controller) scheduleLoad(parentCtx context.Context, coord chunk.Coordinate) *jobs.Handle {
	return ctl.pool.Schedule(parentCtx, "load-chunk", 0, func(ctx context.Context) (any, error) {
		ch, ok := ctl.cache.Borrow(coord)
		if !ok {
			generated, err := ctl.generator.Generate(ctx, coord)
			if err != nil {
				return nil, err
			}
			ctl.cache.Set(coord, generated)
			ch, ok = ctl.cache.Borrow(coord)
			if !ok {
				return nil, fmt.Errorf("streaming: chunk %+v vanished immediately after generation", coord)
			}
		}
		defer ctl.cache.Release(coord)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if ch.IsLightingDirty() {
			if err := ctl.propagator.Run(ch); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := ctl.builder.Build(ch, ctl.neighborLookup)
		if err != nil {
			return nil, err
		}
		return &jobResult{coord: coord, chunk: ch, mesh: data}, nil
	})
}

// scheduleRebuild re-runs lighting (if dirty) and meshing for an
// already-active chunk, used for neighbor-rebuild and edit follow-ups.
func (ctl *Controller) scheduleRebuild(parentCtx context.Context, coord chunk.Coordinate) *jobs.Handle {
	return ctl.pool.Schedule(parentCtx, "rebuild-mesh", 1, func(ctx context.Context) (any, error) {
		ctl.mu.Lock()
		slot, ok := ctl.active[coord]
		ctl.mu.Unlock()
		if !ok {
			return nil, fmt.Errorf("streaming: chunk %+v no longer active", coord)
		}
		ch := slot.Chunk
		if ch.IsLightingDirty() {
			if err := ctl.propagator.Run(ch); err != nil {
				return nil, err
			}
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := ctl.builder.Build(ch, ctl.neighborLookup)
		if err != nil {
			return nil, err
		}
		return &jobResult{coord: coord, chunk: ch, mesh: data}, nil
	})
}

// queueRebuild schedules a rebuild for coord if it is active and not
// already pending, used by neighbor rebuilds and edit follow-ups.
func (ctl *Controller) queueRebuild(ctx context.Context, coord chunk.Coordinate) {
	ctl.mu.Lock()
	defer ctl.mu.Unlock()
	if _, ok := ctl.active[coord]; !ok {
		return
	}
	if _, ok := ctl.pending[coord]; ok {
		return
	}
	ctl.pending[coord] = ctl.scheduleRebuild(ctx, coord)
}

// rebuildNeighbors enqueues rebuilds for the six face-adjacent chunks
// already active, so boundary faces previously facing "unknown"
// re-evaluate against the newly activated chunk (spec §4.H).
func (ctl *Controller) rebuildNeighbors(ctx context.Context, coord chunk.Coordinate) {
	for _, off := range neighborChunkOffsets {
		ctl.queueRebuild(ctx, addOffset(coord, off))
	}
}

func (ctl *Controller) drainCompleted() []chunk.Coordinate {
	ctl.mu.Lock()
	snapshot := make(map[chunk.Coordinate]*jobs.Handle, len(ctl.pending))
	for coord, h := range ctl.pending {
		snapshot[coord] = h
	}
	ctl.mu.Unlock()

	var newlyActive []chunk.Coordinate
	for coord, handle := range snapshot {
		if !handle.IsCompleted() {
			continue
		}
		result, err := handle.Result()

		ctl.mu.Lock()
		delete(ctl.pending, coord)
		ctl.mu.Unlock()

		if err != nil {
			if errors.Is(err, context.Canceled) {
				continue
			}
			ctl.dedupe.Warn(fmt.Sprintf("job-failed:%+v", coord), "streaming: job for %+v failed: %v (will retry on a later tick)", coord, err)
			continue
		}

		jr, ok := result.(*jobResult)
		if !ok || jr == nil {
			continue
		}

		ctl.mu.Lock()
		existing, existed := ctl.active[coord]
		slot := &ChunkSlot{Chunk: jr.chunk, Mesh: jr.mesh}
		if existed {
			slot.gpu = existing.gpu
		}
		ctl.active[coord] = slot
		ctl.mu.Unlock()

		ctl.uploadSlot(slot)
		if !existed {
			newlyActive = append(newlyActive, coord)
		}
	}
	return newlyActive
}

// unloadOutOfRange releases GPU buffers and drops active entries for
// chunks no longer in targets (spec §4.H step 5); the underlying
// chunk may remain cached until the LRU evicts it. Pending jobs for
// coordinates that fell out of range are cancelled.
func (ctl *Controller) unloadOutOfRange(targets map[chunk.Coordinate]struct{}) {
	ctl.mu.Lock()
	var toUnload []chunk.Coordinate
	for coord := range ctl.active {
		if _, ok := targets[coord]; !ok {
			toUnload = append(toUnload, coord)
		}
	}
	var toCancel []chunk.Coordinate
	for coord, handle := range ctl.pending {
		if _, ok := targets[coord]; !ok {
			handle.Cancel()
			toCancel = append(toCancel, coord)
		}
	}
	for _, coord := range toCancel {
		delete(ctl.pending, coord)
	}
	slots := make([]*ChunkSlot, 0, len(toUnload))
	for _, coord := range toUnload {
		slots = append(slots, ctl.active[coord])
		delete(ctl.active, coord)
	}
	ctl.mu.Unlock()

	for _, slot := range slots {
		ctl.disposeSlot(slot)
	}
}
