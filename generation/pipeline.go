package generation

import (
	"fmt"
	"sync"
)

// Stage is a single terrain-construction step (spec §4.D). Stages are
// side-effect-free aside from mutating ctx.Chunk and reading the
// registry/noise; a stage error is a fatal generation error for that
// chunk (spec §7 GenerationFailed).
type Stage interface {
	Name() string
	Execute(ctx *Context) error
}

// Pipeline is a mutable, ordered sequence of stages. Mutation uses a
// reader/writer discipline: a running generation task takes a Snapshot
// under a read hold, and Add/Remove/Clear take a write hold (spec
// §4.D), mirroring the package-level sync.RWMutex guarding the
// teacher's swappable storage provider (world/storage.go).
type Pipeline struct {
	mu     sync.RWMutex
	stages []Stage
}

// NewPipeline builds a pipeline with the default stage order from spec
// §4.D: Heightmap, Erosion, Fill, CaveCarving, SurfacePainting,
// Decoration, LightingSeed.
func NewPipeline() *Pipeline {
	return &Pipeline{
		stages: []Stage{
			HeightmapStage{},
			ErosionStage{},
			FillStage{},
			CaveCarvingStage{},
			SurfacePaintingStage{},
			DecorationStage{},
			LightingSeedStage{},
		},
	}
}

// Snapshot returns a stable copy of the current stage order for a
// generation task to run against, taken under a read hold.
func (p *Pipeline) Snapshot() []Stage {
	p.mu.RLock()
	defer p.mu.RUnlock()
	snap := make([]Stage, len(p.stages))
	copy(snap, p.stages)
	return snap
}

// AddStage appends a stage to the pipeline.
func (p *Pipeline) AddStage(s Stage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = append(p.stages, s)
}

// RemoveStage removes the first stage with the given name.
func (p *Pipeline) RemoveStage(name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i, s := range p.stages {
		if s.Name() == name {
			p.stages = append(p.stages[:i], p.stages[i+1:]...)
			return true
		}
	}
	return false
}

// Clear removes every stage.
func (p *Pipeline) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stages = nil
}

// Run executes every stage in snap against ctx in order, wrapping the
// first failing stage's error with its name per spec §7.
func Run(snap []Stage, ctx *Context) error {
	for _, stage := range snap {
		if err := stage.Execute(ctx); err != nil {
			return fmt.Errorf("generation stage %q: %w", stage.Name(), err)
		}
	}
	return nil
}
