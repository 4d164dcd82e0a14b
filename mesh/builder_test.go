package mesh

import (
	"testing"

	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
)

func newTestBuilder(t *testing.T) (*Builder, map[string]block.ID) {
	t.Helper()
	r := block.NewRegistry()
	ids, err := block.DefaultTerrainSet(r)
	if err != nil {
		t.Fatalf("DefaultTerrainSet: %v", err)
	}
	return NewBuilder(r, nil), ids
}

func flatGrassChunk(t *testing.T, ids map[string]block.ID, coord chunk.Coordinate) *chunk.Chunk {
	t.Helper()
	c := chunk.New(coord)
	for x := 0; x < chunk.Width; x++ {
		for z := 0; z < chunk.Width; z++ {
			for y := 0; y < 3; y++ {
				if err := c.SetBlock(x, y, z, ids["stone"], true); err != nil {
					t.Fatalf("SetBlock stone: %v", err)
				}
			}
			if err := c.SetBlock(x, 3, z, ids["grass"], true); err != nil {
				t.Fatalf("SetBlock grass: %v", err)
			}
		}
	}
	return c
}

// TestFlatGrassChunkMergesToSingleTopQuad exercises the S1 scenario:
// every y==3 grass top face must merge into exactly one quad.
func TestFlatGrassChunkMergesToSingleTopQuad(t *testing.T) {
	b, ids := newTestBuilder(t)
	c := flatGrassChunk(t, ids, chunk.Coordinate{})

	data, err := b.Build(c, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	topQuads := 0
	for i := 0; i < len(data.Solid.Indices); i += 6 {
		vBase := data.Solid.Indices[i]
		if data.Solid.Vertices[vBase].A == faceIndex(chunk.FaceTop) {
			topQuads++
		}
	}
	if topQuads != 1 {
		t.Fatalf("expected exactly one merged top quad, got %d", topQuads)
	}
}

// TestCrossChunkMergeSuppressesSharedBoundaryFace exercises S4: with a
// neighbor lookup resolving the adjacent chunk, no face should be
// emitted across two grass chunks' shared stone boundary.
func TestCrossChunkMergeSuppressesSharedBoundaryFace(t *testing.T) {
	b, ids := newTestBuilder(t)
	coordA := chunk.Coordinate{CX: 0, CZ: 0}
	coordB := chunk.Coordinate{CX: 1, CZ: 0}
	a := flatGrassChunk(t, ids, coordA)
	bb := flatGrassChunk(t, ids, coordB)

	lookup := func(coord chunk.Coordinate) (*chunk.Chunk, bool) {
		switch coord {
		case coordA:
			return a, true
		case coordB:
			return bb, true
		default:
			return nil, false
		}
	}

	dataA, err := b.Build(a, lookup)
	if err != nil {
		t.Fatalf("Build a: %v", err)
	}

	// No right-facing face should appear at x==Width-1 since chunk B
	// is opaque stone/grass immediately across the boundary.
	for i := 0; i < len(dataA.Solid.Indices); i += 6 {
		vBase := dataA.Solid.Indices[i]
		v := dataA.Solid.Vertices[vBase]
		if v.A == faceIndex(chunk.FaceRight) && v.X == float32(chunk.Width) {
			t.Fatalf("unexpected right-facing boundary face emitted at chunk edge")
		}
	}
}

func TestStreamsCarryAtlasName(t *testing.T) {
	b, ids := newTestBuilder(t)
	c := flatGrassChunk(t, ids, chunk.Coordinate{})
	if err := c.SetBlock(4, 10, 4, ids["water"], true); err != nil {
		t.Fatalf("SetBlock water: %v", err)
	}
	if err := c.SetBlock(5, 4, 4, ids["flower"], true); err != nil {
		t.Fatalf("SetBlock flower: %v", err)
	}

	data, err := b.Build(c, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if data.Solid.AtlasName != "blocks" {
		t.Fatalf("expected solid stream bound to atlas %q, got %q", "blocks", data.Solid.AtlasName)
	}
	if data.Fluid.AtlasName != "blocks" {
		t.Fatalf("expected fluid stream bound to atlas %q, got %q", "blocks", data.Fluid.AtlasName)
	}
	if data.Billboard.AtlasName != "blocks" {
		t.Fatalf("expected billboard stream bound to atlas %q, got %q", "blocks", data.Billboard.AtlasName)
	}
}

func TestFluidFaceCullsAgainstAdjacentFluid(t *testing.T) {
	b, ids := newTestBuilder(t)
	c := chunk.New(chunk.Coordinate{})
	if err := c.SetBlock(5, 10, 5, ids["water"], true); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	if err := c.SetBlock(6, 10, 5, ids["water"], true); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	data, err := b.Build(c, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	for i := 0; i < len(data.Fluid.Indices); i += 6 {
		vBase := data.Fluid.Indices[i]
		v := data.Fluid.Vertices[vBase]
		if v.A == faceIndex(chunk.FaceRight) && v.X == 6 {
			t.Fatalf("expected no fluid face between two adjacent water voxels")
		}
	}
}

func TestFoliageOverlayEmitsBladesOnOpenGrassTop(t *testing.T) {
	b, ids := newTestBuilder(t)
	c := chunk.New(chunk.Coordinate{})
	if err := c.SetBlock(4, 5, 4, ids["grass"], true); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	data, err := b.Build(c, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	if len(data.Billboard.Indices) == 0 {
		t.Fatalf("expected grass-blade overlay quads in the billboard stream")
	}
}

func TestFoliageOverlayAbsentWhenCoveredOrNotFoliage(t *testing.T) {
	b, ids := newTestBuilder(t)

	covered := chunk.New(chunk.Coordinate{})
	if err := covered.SetBlock(4, 5, 4, ids["grass"], true); err != nil {
		t.Fatalf("SetBlock grass: %v", err)
	}
	if err := covered.SetBlock(4, 6, 4, ids["stone"], true); err != nil {
		t.Fatalf("SetBlock stone roof: %v", err)
	}
	coveredData, err := b.Build(covered, nil)
	if err != nil {
		t.Fatalf("Build covered: %v", err)
	}
	if len(coveredData.Billboard.Indices) != 0 {
		t.Fatalf("expected no foliage overlay under a solid roof, got %d billboard indices", len(coveredData.Billboard.Indices))
	}

	plain := chunk.New(chunk.Coordinate{})
	if err := plain.SetBlock(4, 5, 4, ids["stone"], true); err != nil {
		t.Fatalf("SetBlock stone: %v", err)
	}
	plainData, err := b.Build(plain, nil)
	if err != nil {
		t.Fatalf("Build plain: %v", err)
	}
	if len(plainData.Billboard.Indices) != 0 {
		t.Fatalf("expected no foliage overlay on a block without HasFoliageOverlay, got %d billboard indices", len(plainData.Billboard.Indices))
	}
}

func TestBillboardEmitsTwoCrossedQuads(t *testing.T) {
	b, ids := newTestBuilder(t)
	c := chunk.New(chunk.Coordinate{})
	if err := c.SetBlock(4, 5, 4, ids["flower"], true); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	data, err := b.Build(c, nil)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	quads := len(data.Billboard.Indices) / 6
	if quads != 4 {
		t.Fatalf("expected 2 crossed quads (4 double-sided faces), got %d", quads)
	}
}
