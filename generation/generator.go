package generation

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
	"lillyengine.dev/voxelcore/noise"
)

// Generator owns the stage pipeline and the block/noise inputs a chunk
// generation task needs, and fans batches of chunk coordinates out
// across a bounded worker pool (grounded on the teacher's
// NoiseGenerator.Generate task/result-channel pattern,
// chunk-server/internal/terrain/noise.go).
type Generator struct {
	Registry *block.Registry
	Ids      Ids
	Noise    *noise.Source
	Pipeline *Pipeline
	SeaLevel int
	SnowLine int

	// Workers bounds the number of chunks generated concurrently in
	// GenerateBatch; 0 defaults to 2*GOMAXPROCS.
	Workers int
}

// NewGenerator builds a Generator with the default stage pipeline.
func NewGenerator(registry *block.Registry, ids Ids, source *noise.Source, seaLevel, snowLine int) *Generator {
	return &Generator{
		Registry: registry,
		Ids:      ids,
		Noise:    source,
		Pipeline: NewPipeline(),
		SeaLevel: seaLevel,
		SnowLine: snowLine,
	}
}

// Generate runs the pipeline against a freshly allocated chunk at coord
// and returns it, or the first stage error wrapped with its name and
// coordinate (spec §7 GenerationFailed).
func (g *Generator) Generate(ctx context.Context, coord chunk.Coordinate) (*chunk.Chunk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c := chunk.New(coord)
	originX, originY, originZ := coord.WorldOrigin()

	genCtx := &Context{
		Chunk:    c,
		Registry: g.Registry,
		Ids:      g.Ids,
		OriginX:  originX,
		OriginY:  originY,
		OriginZ:  originZ,
		Noise:    g.Noise.Clone(),
		Seed:     g.Noise.Seed(),
		SeaLevel: g.SeaLevel,
		SnowLine: g.SnowLine,
	}

	snap := g.Pipeline.Snapshot()
	if err := Run(snap, genCtx); err != nil {
		return nil, fmt.Errorf("generate chunk %v: %w", coord, err)
	}
	return c, nil
}

type batchResult struct {
	coord chunk.Coordinate
	chunk *chunk.Chunk
	err   error
}

// GenerateBatch generates every coordinate in coords concurrently,
// bounded by g.Workers, and returns the results keyed by coordinate.
// The first per-chunk error cancels outstanding work and is returned;
// chunks already completed are discarded along with it, since a
// partial batch is not a usable result for the caller (spec §7 treats
// generation failures as fatal for the requesting task).
func (g *Generator) GenerateBatch(ctx context.Context, coords []chunk.Coordinate) (map[chunk.Coordinate]*chunk.Chunk, error) {
	if len(coords) == 0 {
		return map[chunk.Coordinate]*chunk.Chunk{}, nil
	}

	workers := g.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0) * 2
	}
	if workers > len(coords) {
		workers = len(coords)
	}
	if workers <= 0 {
		workers = 1
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	tasks := make(chan chunk.Coordinate, workers)
	results := make(chan batchResult, workers)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for coord := range tasks {
				c, err := g.Generate(ctx, coord)
				select {
				case results <- batchResult{coord: coord, chunk: c, err: err}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, coord := range coords {
			select {
			case <-ctx.Done():
				return
			case tasks <- coord:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	out := make(map[chunk.Coordinate]*chunk.Chunk, len(coords))
	completed := 0
	for result := range results {
		if result.err != nil {
			cancel()
			return nil, result.err
		}
		out[result.coord] = result.chunk
		completed++
		if completed%64 == 0 || completed == len(coords) {
			log.Printf("generation: %d/%d chunks complete", completed, len(coords))
		}
	}
	return out, nil
}
