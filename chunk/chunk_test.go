package chunk

import (
	"testing"

	"lillyengine.dev/voxelcore/block"
)

func TestIndexIsYMajor(t *testing.T) {
	// index(x,y,z) = x + z*S + y*(S*S); incrementing y should jump by S*S.
	a := Index(1, 0, 2)
	b := Index(1, 1, 2)
	if b-a != Width*Width {
		t.Fatalf("expected y-stride of %d, got %d", Width*Width, b-a)
	}
}

func TestNewChunkIsAllAir(t *testing.T) {
	c := New(Coordinate{})
	if c.BlockCount() != 0 {
		t.Fatalf("expected 0 blocks in new chunk, got %d", c.BlockCount())
	}
	id, err := c.GetBlock(0, 0, 0)
	if err != nil {
		t.Fatalf("get block: %v", err)
	}
	if id != 0 {
		t.Fatalf("expected air (0) at origin, got %d", id)
	}
}

func TestSetBlockMaintainsBlockCount(t *testing.T) {
	c := New(Coordinate{})
	if err := c.SetBlock(1, 1, 1, 5, false); err != nil {
		t.Fatalf("set block: %v", err)
	}
	if c.BlockCount() != 1 {
		t.Fatalf("expected block_count=1, got %d", c.BlockCount())
	}
	if err := c.SetBlock(1, 1, 1, 0, false); err != nil {
		t.Fatalf("clear block: %v", err)
	}
	if c.BlockCount() != 0 {
		t.Fatalf("expected block_count=0 after clearing, got %d", c.BlockCount())
	}
}

func TestSetBlockOutOfBounds(t *testing.T) {
	c := New(Coordinate{})
	if err := c.SetBlock(-1, 0, 0, 1, false); err != ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
	if err := c.SetBlock(0, Height, 0, 1, false); err != ErrOutOfBounds {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestSetBlockMarksDirtyFlags(t *testing.T) {
	c := New(Coordinate{})
	c.ClearLightingDirty() // starts dirty; clear first to observe the transition
	c.ClearMeshDirty()

	if err := c.SetBlock(0, 0, 0, 1, true); err != nil {
		t.Fatalf("set block: %v", err)
	}
	if !c.IsMeshDirty() {
		t.Fatalf("expected mesh dirty after edit")
	}
	if !c.IsLightingDirty() {
		t.Fatalf("expected lighting dirty when affectsLighting=true")
	}
	if !c.IsModified() {
		t.Fatalf("expected is_modified after edit")
	}
}

func TestSetBlockWithoutLightingEffect(t *testing.T) {
	c := New(Coordinate{})
	c.ClearLightingDirty()
	if err := c.SetBlock(2, 2, 2, 9, false); err != nil {
		t.Fatalf("set block: %v", err)
	}
	if c.IsLightingDirty() {
		t.Fatalf("expected lighting NOT dirty when affectsLighting=false")
	}
}

func TestTryGetAdjacentBlockCrossesBoundary(t *testing.T) {
	c := New(Coordinate{})
	if _, ok := c.TryGetAdjacentBlock(0, 0, 0, FaceLeft); ok {
		t.Fatalf("expected boundary miss at x=0 going Left")
	}
	if _, ok := c.TryGetAdjacentBlock(Width-1, 0, 0, FaceRight); ok {
		t.Fatalf("expected boundary miss at x=Width-1 going Right")
	}
	if _, ok := c.TryGetAdjacentBlock(1, 1, 1, FaceTop); !ok {
		t.Fatalf("expected interior neighbor lookup to succeed")
	}
}

func TestForEachColumnTopDown(t *testing.T) {
	c := New(Coordinate{})
	_ = c.SetBlock(0, 3, 0, 7, false)
	var seen []int
	c.ForEachColumnTopDown(0, 0, func(y int, id block.ID) bool {
		if id != 0 {
			seen = append(seen, y)
		}
		return true
	})
	if len(seen) != 1 || seen[0] != 3 {
		t.Fatalf("expected single hit at y=3, got %v", seen)
	}
}

func TestWorldOrigin(t *testing.T) {
	c := Coordinate{CX: 2, CY: 1, CZ: -1}
	x, y, z := c.WorldOrigin()
	if x != 32 || y != 256 || z != -16 {
		t.Fatalf("unexpected world origin: (%d,%d,%d)", x, y, z)
	}
}

func TestBlockCoordOwner(t *testing.T) {
	owner, lx, ly, lz := BlockCoord{X: 17, Y: 300, Z: -1}.Owner()
	if owner != (Coordinate{CX: 1, CY: 1, CZ: -1}) {
		t.Fatalf("unexpected owner chunk: %+v", owner)
	}
	if lx != 1 || ly != 44 || lz != 15 {
		t.Fatalf("unexpected local coords: (%d,%d,%d)", lx, ly, lz)
	}
}

func TestDamageBlockDestroysAtZeroHitPoints(t *testing.T) {
	c := New(Coordinate{})
	if err := c.SetBlock(2, 2, 2, block.ID(7), true); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}

	destroyed, err := c.DamageBlock(2, 2, 2, 4, 10)
	if err != nil {
		t.Fatalf("DamageBlock: %v", err)
	}
	if destroyed {
		t.Fatalf("expected block to survive partial damage")
	}

	destroyed, err = c.DamageBlock(2, 2, 2, 10, 10)
	if err != nil {
		t.Fatalf("DamageBlock: %v", err)
	}
	if !destroyed {
		t.Fatalf("expected block to be destroyed once hit points are exhausted")
	}
	id, err := c.GetBlock(2, 2, 2)
	if err != nil {
		t.Fatalf("GetBlock: %v", err)
	}
	if id != block.AirID {
		t.Fatalf("expected destroyed voxel to become air, got %v", id)
	}
	if c.BlockCount() != 0 {
		t.Fatalf("expected block count to drop back to 0")
	}
}

func TestDamageBlockUnbreakableNeverDestroyed(t *testing.T) {
	c := New(Coordinate{})
	if err := c.SetBlock(0, 0, 0, block.ID(1), true); err != nil {
		t.Fatalf("SetBlock: %v", err)
	}
	destroyed, err := c.DamageBlock(0, 0, 0, 1000, -1)
	if err != nil {
		t.Fatalf("DamageBlock: %v", err)
	}
	if destroyed {
		t.Fatalf("expected an unbreakable block (maxHitPoints<=0) to never be destroyed")
	}
}

func TestDamageBlockOnAirIsNoop(t *testing.T) {
	c := New(Coordinate{})
	destroyed, err := c.DamageBlock(0, 0, 0, 5, 10)
	if err != nil {
		t.Fatalf("DamageBlock: %v", err)
	}
	if destroyed {
		t.Fatalf("expected damaging air to be a no-op")
	}
}
