package block

// DefaultTerrainSet registers the small built-in palette the generation
// pipeline needs (bedrock/stone/dirt/grass/sand/snow/water/torch/leaves/
// flower), grounded on the teacher's appearance-preset idiom
// (DefaultAppearances in chunk-server/internal/world/appearance.go) but
// expanded to the render-class variety spec §4.F requires (solid,
// billboard, item, fluid).
func DefaultTerrainSet(r *Registry) (map[string]ID, error) {
	defs := []Type{
		{
			Name: "bedrock", IsSolid: true, IsOpaque: true, Hardness: -1,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 1}},
		},
		{
			Name: "stone", IsSolid: true, IsOpaque: true, IsBreakable: true, Hardness: 6,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 2}},
		},
		{
			Name: "dirt", IsSolid: true, IsOpaque: true, IsBreakable: true, Hardness: 1.2,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 3}},
		},
		{
			Name: "grass", IsSolid: true, IsOpaque: true, IsBreakable: true, Hardness: 1.0,
			RenderType: RenderSolid, HasFoliageOverlay: true,
			TextureSet: map[Face]TileRef{
				FaceAll:    {Atlas: "blocks", Tile: 535},
				FaceTop:    {Atlas: "blocks", Tile: 288},
				FaceBottom: {Atlas: "blocks", Tile: 3},
			},
		},
		{
			Name: "sand", IsSolid: true, IsOpaque: true, IsBreakable: true, IsUnstable: true, Hardness: 0.9,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 18}},
		},
		{
			Name: "snow", IsSolid: true, IsOpaque: true, IsBreakable: true, Hardness: 0.2,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 66}},
		},
		{
			Name: "gravel", IsSolid: true, IsOpaque: true, IsBreakable: true, IsUnstable: true, Hardness: 0.8,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 19}},
		},
		{
			Name: "water", IsLiquid: true, IsTransparent: true, RenderType: RenderFluid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 205}},
		},
		{
			Name: "glass", IsSolid: true, IsTransparent: true, IsBreakable: true, Hardness: 0.4,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 49}},
		},
		{
			Name: "torch", IsLightSource: true, EmitsLight: 14, EmitsColor: RGBA8{255, 200, 120, 255},
			IsBillboard: true, IsTransparent: true, RenderType: RenderBillboard,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 80}},
		},
		{
			Name: "flower", IsBillboard: true, IsTransparent: true, IsBreakable: true, Hardness: 0,
			RenderType: RenderBillboard,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 12}},
		},
		{
			Name: "leaves", IsSolid: true, IsTransparent: true, IsBreakable: true, Hardness: 0.3,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 53}},
		},
		{
			Name: "wood", IsSolid: true, IsOpaque: true, IsBreakable: true, Hardness: 2.5,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{
				FaceAll: {Atlas: "blocks", Tile: 20},
				FaceTop: {Atlas: "blocks", Tile: 21}, FaceBottom: {Atlas: "blocks", Tile: 21},
			},
		},
		{
			Name: "iron_ore", IsSolid: true, IsOpaque: true, IsBreakable: true, Hardness: 8,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 33}},
		},
		{
			Name: "gold_ore", IsSolid: true, IsOpaque: true, IsBreakable: true, Hardness: 9,
			RenderType: RenderSolid,
			TextureSet: map[Face]TileRef{FaceAll: {Atlas: "blocks", Tile: 34}},
		},
	}

	ids := make(map[string]ID, len(defs)+1)
	ids["air"] = AirID
	for _, def := range defs {
		registered, err := r.Register(def)
		if err != nil {
			return nil, err
		}
		ids[registered.Name] = registered.ID
	}
	return ids, nil
}
