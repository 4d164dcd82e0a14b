package generation

import (
	"context"
	"testing"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
	"lillyengine.dev/voxelcore/noise"
)

func newTestGenerator(t *testing.T) *Generator {
	t.Helper()
	registry := block.NewRegistry()
	names, err := block.DefaultTerrainSet(registry)
	if err != nil {
		t.Fatalf("DefaultTerrainSet: %v", err)
	}
	ids := Ids{
		Bedrock: names["bedrock"], Stone: names["stone"], Dirt: names["dirt"],
		Grass: names["grass"], Sand: names["sand"], Snow: names["snow"],
		Gravel: names["gravel"], Water: names["water"], Torch: names["torch"],
		Flower: names["flower"], Leaves: names["leaves"], Wood: names["wood"],
		IronOre: names["iron_ore"], GoldOre: names["gold_ore"],
	}
	source := noise.New(42, noise.Params{Frequency: 0.01, Octaves: 3, Persistence: 0.5, Lacunarity: 2})
	return NewGenerator(registry, ids, source, 62, 200)
}

func TestGenerateProducesNonEmptyChunk(t *testing.T) {
	g := newTestGenerator(t)
	c, err := g.Generate(context.Background(), chunk.Coordinate{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if c.BlockCount() == 0 {
		t.Fatalf("expected generated chunk to contain solid blocks")
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	g := newTestGenerator(t)
	a, err := g.Generate(context.Background(), chunk.Coordinate{CX: 1, CZ: -2})
	if err != nil {
		t.Fatalf("Generate a: %v", err)
	}
	b, err := g.Generate(context.Background(), chunk.Coordinate{CX: 1, CZ: -2})
	if err != nil {
		t.Fatalf("Generate b: %v", err)
	}
	if a.BlockCount() != b.BlockCount() {
		t.Fatalf("expected deterministic block count, got %d vs %d", a.BlockCount(), b.BlockCount())
	}
	for x := 0; x < chunk.Width; x += 4 {
		for z := 0; z < chunk.Width; z += 4 {
			for y := 0; y < chunk.Height; y += 8 {
				idA, _ := a.GetBlock(x, y, z)
				idB, _ := b.GetBlock(x, y, z)
				if idA != idB {
					t.Fatalf("block mismatch at (%d,%d,%d): %v vs %v", x, y, z, idA, idB)
				}
			}
		}
	}
}

func TestGenerateMarksLightingAndMeshDirty(t *testing.T) {
	g := newTestGenerator(t)
	c, err := g.Generate(context.Background(), chunk.Coordinate{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if !c.IsLightingDirty() {
		t.Fatalf("expected freshly generated chunk to be lighting dirty")
	}
	if !c.IsMeshDirty() {
		t.Fatalf("expected freshly generated chunk to be mesh dirty")
	}
}

func TestGenerateBatchProducesAllCoordinates(t *testing.T) {
	g := newTestGenerator(t)
	coords := []chunk.Coordinate{
		{CX: 0, CZ: 0}, {CX: 1, CZ: 0}, {CX: 0, CZ: 1}, {CX: -1, CZ: -1},
	}
	results, err := g.GenerateBatch(context.Background(), coords)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if len(results) != len(coords) {
		t.Fatalf("expected %d results, got %d", len(coords), len(results))
	}
	for _, coord := range coords {
		if results[coord] == nil {
			t.Fatalf("missing result for %v", coord)
		}
	}
}

func TestGenerateBatchEmptyInput(t *testing.T) {
	g := newTestGenerator(t)
	results, err := g.GenerateBatch(context.Background(), nil)
	if err != nil {
		t.Fatalf("GenerateBatch: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("expected empty result map, got %d entries", len(results))
	}
}

func TestFillStageRespectsBedrockFloor(t *testing.T) {
	g := newTestGenerator(t)
	c, err := g.Generate(context.Background(), chunk.Coordinate{})
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	id, err := c.GetBlock(0, 0, 0)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if id != g.Ids.Bedrock {
		t.Fatalf("expected bedrock at y=0, got id %v", id)
	}
}
