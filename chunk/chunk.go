// Package chunk implements the block grid, light grid, and chunk
// coordinate system described in spec §3.
package chunk

import (
	"fmt"
	"sync"

	"lillyengine.dev/voxelcore/block"
)

// RGB8 is a per-voxel light tint; the zero value is NOT the default —
// callers must use WhiteLight for "no tint" (spec §3 default (255,255,255)).
type RGB8 struct {
	R, G, B uint8
}

var WhiteLight = RGB8{255, 255, 255}

// ErrOutOfBounds is returned (or, for the fire-and-forget accessors,
// signalled via a bool) when local coordinates fall outside
// [0,Width)x[0,Height)x[0,Width) — spec §7's OutOfBounds kind.
var ErrOutOfBounds = fmt.Errorf("chunk: local coordinates out of bounds")

const voxelCount = Width * Height * Width

// Index computes the y-major linear index used by every dense array on
// Chunk: x + z*Width + y*(Width*Width), matching spec §3 exactly so
// column scans (lighting, heightmaps) stay cache-friendly.
func Index(x, y, z int) int {
	return x + z*Width + y*(Width*Width)
}

func inBounds(x, y, z int) bool {
	return x >= 0 && x < Width && y >= 0 && y < Height && z >= 0 && z < Width
}

// Chunk is a fixed Width x Height x Width voxel volume: a block-id grid,
// a light grid, and the dirty-flag/actionable side tables the streaming
// controller and mesh builder consume.
type Chunk struct {
	Coord Coordinate

	mu          sync.RWMutex
	blocks      []block.ID
	lightLevel  []uint8
	lightColor  []RGB8
	blockCount  uint32

	isMeshDirty     bool
	isLightingDirty bool
	isModified      bool

	actionables map[int]any
	hitPoints   map[int]float64
}

// New allocates an empty (all-air) chunk at coord.
func New(coord Coordinate) *Chunk {
	c := &Chunk{
		Coord:           coord,
		blocks:          make([]block.ID, voxelCount),
		lightLevel:      make([]uint8, voxelCount),
		lightColor:      make([]RGB8, voxelCount),
		actionables:     make(map[int]any),
		hitPoints:       make(map[int]float64),
		isLightingDirty: true,
		isMeshDirty:     true,
	}
	for i := range c.lightColor {
		c.lightColor[i] = WhiteLight
	}
	return c
}

// GetBlock returns the block id at local coordinates.
func (c *Chunk) GetBlock(x, y, z int) (block.ID, error) {
	if !inBounds(x, y, z) {
		return 0, ErrOutOfBounds
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[Index(x, y, z)], nil
}

// SetBlock writes a block id at local coordinates. affectsLighting
// should be true when the caller (who alone knows the old and new
// BlockType's occlusion/emission properties, since Chunk does not own a
// registry reference per spec §3's ownership note) determines the edit
// can change light propagation. block_count and is_mesh_dirty are
// always maintained per spec §4.A.
func (c *Chunk) SetBlock(x, y, z int, id block.ID, affectsLighting bool) error {
	if !inBounds(x, y, z) {
		return ErrOutOfBounds
	}
	idx := Index(x, y, z)

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.blocks[idx]
	if old == id {
		return nil
	}
	if old == block.AirID && id != block.AirID {
		c.blockCount++
	} else if old != block.AirID && id == block.AirID {
		c.blockCount--
	}
	c.blocks[idx] = id
	c.isMeshDirty = true
	c.isModified = true
	if affectsLighting {
		c.isLightingDirty = true
	}
	return nil
}

// DamageBlock decrements the voxel's hit-point side record by amount,
// initializing it from maxHitPoints on first damage, and clears the
// voxel to air once hit points reach zero (SPEC_FULL.md §5.1, mirroring
// world.Chunk.DamageLocalBlock). destroyed reports whether this call
// cleared the block. A non-positive maxHitPoints (unbreakable blocks
// like bedrock) is never destroyed.
func (c *Chunk) DamageBlock(x, y, z int, amount, maxHitPoints float64) (destroyed bool, err error) {
	if !inBounds(x, y, z) {
		return false, ErrOutOfBounds
	}
	if maxHitPoints <= 0 {
		return false, nil
	}
	idx := Index(x, y, z)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.blocks[idx] == block.AirID {
		return false, nil
	}
	hp, ok := c.hitPoints[idx]
	if !ok {
		hp = maxHitPoints
	}
	hp -= amount
	if hp > 0 {
		c.hitPoints[idx] = hp
		return false, nil
	}

	delete(c.hitPoints, idx)
	c.blocks[idx] = block.AirID
	c.blockCount--
	c.isMeshDirty = true
	c.isModified = true
	c.isLightingDirty = true
	return true, nil
}

// GetLightLevel returns the combined light (0..15) at local coordinates.
func (c *Chunk) GetLightLevel(x, y, z int) (uint8, error) {
	if !inBounds(x, y, z) {
		return 0, ErrOutOfBounds
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lightLevel[Index(x, y, z)], nil
}

// SetLightLevel writes the light level at local coordinates. Only the
// light propagator (the single writer for lighting state, per spec §5)
// should call this.
func (c *Chunk) SetLightLevel(x, y, z int, level uint8) error {
	if !inBounds(x, y, z) {
		return ErrOutOfBounds
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lightLevel[Index(x, y, z)] = level
	return nil
}

// GetLightColor returns the light tint at local coordinates.
func (c *Chunk) GetLightColor(x, y, z int) (RGB8, error) {
	if !inBounds(x, y, z) {
		return RGB8{}, ErrOutOfBounds
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lightColor[Index(x, y, z)], nil
}

// SetLightColor writes the light tint at local coordinates.
func (c *Chunk) SetLightColor(x, y, z int, color RGB8) error {
	if !inBounds(x, y, z) {
		return ErrOutOfBounds
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lightColor[Index(x, y, z)] = color
	return nil
}

// TryGetAdjacentBlock returns the neighbor block id in direction face,
// or (0, false) only when the face crosses the chunk boundary (spec
// §4.A) — the caller is expected to consult a neighbor chunk lookup in
// that case, never treating a boundary miss as air.
func (c *Chunk) TryGetAdjacentBlock(x, y, z int, face Face) (block.ID, bool) {
	off := Offsets[face]
	nx, ny, nz := x+off[0], y+off[1], z+off[2]
	if !inBounds(nx, ny, nz) {
		return 0, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blocks[Index(nx, ny, nz)], true
}

// BlockCount returns the number of non-air voxels.
func (c *Chunk) BlockCount() uint32 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.blockCount
}

func (c *Chunk) IsMeshDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isMeshDirty
}

func (c *Chunk) ClearMeshDirty() {
	c.mu.Lock()
	c.isMeshDirty = false
	c.mu.Unlock()
}

func (c *Chunk) MarkMeshDirty() {
	c.mu.Lock()
	c.isMeshDirty = true
	c.mu.Unlock()
}

func (c *Chunk) IsLightingDirty() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isLightingDirty
}

func (c *Chunk) MarkLightingDirty() {
	c.mu.Lock()
	c.isLightingDirty = true
	c.mu.Unlock()
}

// ClearLightingDirty clears the lighting-dirty flag and marks the mesh
// dirty, matching spec §4.E step 5 (lighting completion always
// invalidates the mesh).
func (c *Chunk) ClearLightingDirty() {
	c.mu.Lock()
	c.isLightingDirty = false
	c.isMeshDirty = true
	c.mu.Unlock()
}

func (c *Chunk) IsModified() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isModified
}

// SetActionable attaches opaque, interactive-block side data at a local
// index. The mesh builder never reads this table (spec §3).
func (c *Chunk) SetActionable(x, y, z int, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	idx := Index(x, y, z)
	if value == nil {
		delete(c.actionables, idx)
		return
	}
	c.actionables[idx] = value
}

func (c *Chunk) Actionable(x, y, z int) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	v, ok := c.actionables[Index(x, y, z)]
	return v, ok
}

// ForEachColumnTopDown walks the (x, z) column top-down, invoking fn with
// the block id at each y. fn returning false stops the column early. This
// is the shape both sunlight seeding (§4.E) and heightmap stages (§4.D)
// need, grounded on the teacher's column-major iteration idiom.
func (c *Chunk) ForEachColumnTopDown(x, z int, fn func(y int, id block.ID) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for y := Height - 1; y >= 0; y-- {
		if !fn(y, c.blocks[Index(x, y, z)]) {
			return
		}
	}
}
