// Package generation implements the ordered terrain-construction
// pipeline described in spec §4.D: a sequence of stages that mutate a
// chunk given a shared, per-chunk generator context.
package generation

import (
	"lillyengine.dev/voxelcore/block"
	"lillyengine.dev/voxelcore/chunk"
	"lillyengine.dev/voxelcore/noise"
)

// Ids names the terrain block ids a generator context needs; built by
// block.DefaultTerrainSet or an equivalent caller-supplied registration.
type Ids struct {
	Bedrock, Stone, Dirt, Grass, Sand, Snow, Gravel, Water, Torch, Flower, Leaves, Wood, IronOre, GoldOre block.ID
}

// Context is the ephemeral, exclusively-owned per-chunk state a
// generation task threads through every stage (spec §3). It is created
// fresh per task and discarded on completion — never retained past the
// call that produced it.
type Context struct {
	Chunk    *chunk.Chunk
	Registry *block.Registry
	Ids      Ids
	OriginX  int
	OriginY  int
	OriginZ  int
	Noise    *noise.Source
	Seed     int64

	// SeaLevel and SnowLine are world-space y thresholds consulted by
	// SurfacePaintingStage to pick between grass/sand/snow surface
	// blocks (SPEC_FULL.md terrain config, mirrors the teacher's
	// biome-threshold constants).
	SeaLevel int
	SnowLine int

	// Heights is a Width*Width column heightmap, world-space y of the
	// top solid block, populated by the Heightmap stage and consumed by
	// Erosion/Fill/SurfacePainting/Decoration. Index: x + z*Width.
	Heights []int
}

func (c *Context) heightIndex(x, z int) int {
	return x + z*chunk.Width
}

func (c *Context) HeightAt(x, z int) int {
	return c.Heights[c.heightIndex(x, z)]
}

func (c *Context) SetHeightAt(x, z, worldY int) {
	c.Heights[c.heightIndex(x, z)] = worldY
}
