// Command voxelbench drives a headless streaming controller around a
// circling viewer and reports throughput, mirroring the teacher's
// pathprofile harness (chunk-server/cmd/pathprofile) but exercising
// generation, lighting, meshing, and the cache/streaming pipeline end
// to end instead of pathfinding alone.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/generation"
	"lillyengine.dev/voxelcore/internal/engineconfig"
	"lillyengine.dev/voxelcore/jobs"
	"lillyengine.dev/voxelcore/noise"
	"lillyengine.dev/voxelcore/streaming"
)

func main() {
	var (
		configPath  string
		ticks       int
		orbitRadius float64
		damageRuns  int
	)
	flag.StringVar(&configPath, "config", "", "path to a JSON engine configuration file (defaults built in)")
	flag.IntVar(&ticks, "ticks", 200, "number of streaming ticks to run")
	flag.Float64Var(&orbitRadius, "orbit", 96, "world-unit radius of the circling viewer path")
	flag.IntVar(&damageRuns, "damage-runs", 25, "number of DamageBlockAt/ExplodeAt smoke calls to issue against active chunks")
	flag.Parse()

	cfg, err := engineconfig.Load(configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctl, _, err := buildController(cfg)
	if err != nil {
		log.Fatalf("build controller: %v", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	report, err := run(ctx, ctl, ticks, orbitRadius, damageRuns)
	if err != nil && err != context.Canceled {
		log.Fatalf("run: %v", err)
	}

	report.print()
}

// buildController wires registry, noise, generation, and the streaming
// controller from an engineconfig.Config (spec §9's constructor-injected
// collaborator model; graphics and atlas are nil since this host is
// headless).
func buildController(cfg *engineconfig.Config) (*streaming.Controller, *block.Registry, error) {
	registry := block.NewRegistry()
	names, err := block.DefaultTerrainSet(registry)
	if err != nil {
		return nil, nil, fmt.Errorf("register terrain blocks: %w", err)
	}
	ids := generation.Ids{
		Bedrock: names["bedrock"], Stone: names["stone"], Dirt: names["dirt"],
		Grass: names["grass"], Sand: names["sand"], Snow: names["snow"],
		Gravel: names["gravel"], Water: names["water"], Torch: names["torch"],
		Flower: names["flower"], Leaves: names["leaves"], Wood: names["wood"],
		IronOre: names["iron_ore"], GoldOre: names["gold_ore"],
	}

	source := noise.New(cfg.Terrain.Seed, noise.Params{
		Frequency:   cfg.Terrain.Frequency,
		Octaves:     cfg.Terrain.Octaves,
		Persistence: cfg.Terrain.Persistence,
		Lacunarity:  cfg.Terrain.Lacunarity,
	})

	generator := generation.NewGenerator(registry, ids, source, cfg.Terrain.SeaLevel, cfg.Terrain.SnowLine)
	stages := []generation.Stage{generation.HeightmapStage{}}
	if cfg.Terrain.EnableErosion {
		stages = append(stages, generation.ErosionStage{Enabled: true})
	}
	stages = append(stages, generation.FillStage{})
	if cfg.Terrain.EnableCaves {
		stages = append(stages, generation.CaveCarvingStage{Threshold: cfg.Terrain.CaveThreshold})
	}
	stages = append(stages, generation.SurfacePaintingStage{}, generation.DecorationStage{}, generation.LightingSeedStage{})
	generator.Pipeline.Clear()
	for _, stage := range stages {
		generator.Pipeline.AddStage(stage)
	}

	pool := jobs.NewPool(cfg.Streaming.MaxConcurrentJobs)

	streamCfg := streaming.Config{
		HorizontalRadius:  cfg.Streaming.HorizontalRadius,
		VerticalBelow:     cfg.Streaming.VerticalBelow,
		VerticalAbove:     cfg.Streaming.VerticalAbove,
		MaxConcurrentJobs: cfg.Streaming.MaxConcurrentJobs,
		MaxCachedChunks:   cfg.Cache.MaxCachedChunks,
	}
	ctl := streaming.NewController(streamCfg, registry, nil, generator, pool, nil)
	return ctl, registry, nil
}

type runReport struct {
	ticksRun     int
	duration     time.Duration
	peakActive   int
	finalActive  int
	damageCalls  int
	blocksBroken int
	raycastHits  int
}

func (r runReport) print() {
	fmt.Println("== voxelbench ==")
	fmt.Printf("Ticks run: %d\n", r.ticksRun)
	fmt.Printf("Wall duration: %s\n", r.duration)
	fmt.Printf("Peak active chunks: %d\n", r.peakActive)
	fmt.Printf("Final active chunks: %d\n", r.finalActive)
	fmt.Printf("Damage calls issued: %d (blocks broken: %d)\n", r.damageCalls, r.blocksBroken)
	fmt.Printf("Raycast hits: %d\n", r.raycastHits)
}

// run ticks the controller with a viewer circling the origin at
// orbitRadius, periodically issuing damage/explode/raycast calls
// against whatever is active, until ticks complete or ctx is cancelled.
func run(ctx context.Context, ctl *streaming.Controller, ticks int, orbitRadius float64, damageRuns int) (runReport, error) {
	report := runReport{}
	start := time.Now()

	for i := 0; i < ticks; i++ {
		if err := ctx.Err(); err != nil {
			report.duration = time.Since(start)
			return report, err
		}

		angle := float64(i) / float64(ticks) * 2 * math.Pi
		viewer := streaming.WorldPos{
			X: math.Cos(angle) * orbitRadius,
			Y: 80,
			Z: math.Sin(angle) * orbitRadius,
		}
		if err := ctl.Tick(ctx, viewer); err != nil {
			report.duration = time.Since(start)
			return report, err
		}
		if active := ctl.ActiveCount(); active > report.peakActive {
			report.peakActive = active
		}

		if damageRuns > 0 && i%max(1, ticks/damageRuns) == 0 {
			issueDamageSmokeTest(ctx, ctl, viewer, &report)
		}
	}

	report.ticksRun = ticks
	report.finalActive = ctl.ActiveCount()
	report.duration = time.Since(start)
	return report, nil
}

func issueDamageSmokeTest(ctx context.Context, ctl *streaming.Controller, viewer streaming.WorldPos, report *runReport) {
	hit, ok := ctl.Raycast(viewer, streaming.WorldPos{X: 0, Y: -1, Z: 0}, 256)
	if !ok {
		return
	}
	report.raycastHits++

	_, blockType, hitOK := ctl.GetBlockAt(hit.BlockPos)
	if !hitOK {
		return
	}

	report.damageCalls++
	destroyed, hitOK, err := ctl.DamageBlockAt(ctx, hit.BlockPos, blockType.Hardness)
	if err != nil || !hitOK {
		return
	}
	if destroyed {
		report.blocksBroken++
	}

	blast := streaming.WorldPos{X: float64(hit.BlockPos.X) + 0.5, Y: float64(hit.BlockPos.Y) + 0.5, Z: float64(hit.BlockPos.Z) + 0.5}
	_ = ctl.ExplodeAt(ctx, blast, 2, blockType.Hardness)
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
