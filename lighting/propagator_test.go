package lighting

import (
	"testing"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

func newLitRegistry(t *testing.T) (*block.Registry, map[string]block.ID) {
	t.Helper()
	r := block.NewRegistry()
	ids, err := block.DefaultTerrainSet(r)
	if err != nil {
		t.Fatalf("DefaultTerrainSet: %v", err)
	}
	return r, ids
}

func TestOpenSkyColumnIsFullyLit(t *testing.T) {
	r, _ := newLitRegistry(t)
	c := chunk.New(chunk.Coordinate{})

	p := NewPropagator(r)
	if err := p.Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	for y := 0; y < chunk.Height; y++ {
		level, err := c.GetLightLevel(8, y, 8)
		if err != nil {
			t.Fatalf("GetLightLevel: %v", err)
		}
		if level != 15 {
			t.Fatalf("expected level 15 in open sky at y=%d, got %d", y, level)
		}
	}
}

func TestSealedCaveWithEmitterLightsOnlyNearby(t *testing.T) {
	r, ids := newLitRegistry(t)
	c := chunk.New(chunk.Coordinate{})

	// Seal the whole chunk in stone, then hollow a small room and place
	// a torch inside it, away from any boundary face.
	for x := 0; x < chunk.Width; x++ {
		for y := 0; y < chunk.Height; y++ {
			for z := 0; z < chunk.Width; z++ {
				if err := c.SetBlock(x, y, z, ids["stone"], true); err != nil {
					t.Fatalf("SetBlock: %v", err)
				}
			}
		}
	}
	for x := 6; x <= 9; x++ {
		for y := 60; y <= 63; y++ {
			for z := 6; z <= 9; z++ {
				if err := c.SetBlock(x, y, z, block.AirID, true); err != nil {
					t.Fatalf("SetBlock air: %v", err)
				}
			}
		}
	}
	if err := c.SetBlock(7, 61, 7, ids["torch"], true); err != nil {
		t.Fatalf("SetBlock torch: %v", err)
	}

	p := NewPropagator(r)
	if err := p.Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	torchLevel, err := c.GetLightLevel(7, 61, 7)
	if err != nil {
		t.Fatalf("GetLightLevel: %v", err)
	}
	if torchLevel != 14 {
		t.Fatalf("expected torch voxel at emitted level 14, got %d", torchLevel)
	}

	outside, err := c.GetLightLevel(0, 61, 0)
	if err != nil {
		t.Fatalf("GetLightLevel: %v", err)
	}
	if outside != 0 {
		t.Fatalf("expected sealed stone far from the torch to stay dark, got %d", outside)
	}
}

func TestLightingRunClearsLightingDirtyAndMarksMeshDirty(t *testing.T) {
	r, _ := newLitRegistry(t)
	c := chunk.New(chunk.Coordinate{})
	c.ClearMeshDirty()
	if !c.IsLightingDirty() {
		t.Fatalf("expected a new chunk to start lighting dirty")
	}

	p := NewPropagator(r)
	if err := p.Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if c.IsLightingDirty() {
		t.Fatalf("expected lighting dirty to clear after Run")
	}
	if !c.IsMeshDirty() {
		t.Fatalf("expected mesh dirty to be set after lighting completes")
	}
}

func TestSunlightStopsAtOpaqueRoof(t *testing.T) {
	r, ids := newLitRegistry(t)
	c := chunk.New(chunk.Coordinate{})

	if err := c.SetBlock(5, 70, 5, ids["stone"], true); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	p := NewPropagator(r)
	if err := p.Run(c); err != nil {
		t.Fatalf("Run: %v", err)
	}

	above, err := c.GetLightLevel(5, 80, 5)
	if err != nil {
		t.Fatalf("GetLightLevel: %v", err)
	}
	if above != 15 {
		t.Fatalf("expected sky above the roof block to stay lit, got %d", above)
	}

	roofLevel, err := c.GetLightLevel(5, 70, 5)
	if err != nil {
		t.Fatalf("GetLightLevel: %v", err)
	}
	if roofLevel != 0 {
		t.Fatalf("expected the opaque roof voxel itself to remain dark, got %d", roofLevel)
	}
}
