package generation

// LightingSeedStage marks the freshly generated chunk as needing a
// lighting pass (spec §4.D step 7); the lighting package performs the
// actual BFS propagation once the chunk and its neighbors are in the
// store.
type LightingSeedStage struct{}

func (s LightingSeedStage) Name() string { return "lighting_seed" }

func (s LightingSeedStage) Execute(ctx *Context) error {
	ctx.Chunk.MarkLightingDirty()
	ctx.Chunk.MarkMeshDirty()
	return nil
}
