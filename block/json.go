package block

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// jsonDef mirrors the bit-exact block-definition JSON from spec §6.
type jsonDef struct {
	Name          string             `json:"name" yaml:"name"`
	IsSolid       bool               `json:"isSolid" yaml:"isSolid"`
	IsBreakable   bool               `json:"isBreakable" yaml:"isBreakable"`
	IsTransparent bool               `json:"isTransparent" yaml:"isTransparent"`
	IsBillboard   bool               `json:"isBillboard" yaml:"isBillboard"`
	IsLiquid      bool               `json:"isLiquid" yaml:"isLiquid"`
	IsLightSource bool               `json:"isLightSource" yaml:"isLightSource"`
	EmitsLight    uint8              `json:"emitsLight" yaml:"emitsLight"`
	Hardness      float64            `json:"hardness" yaml:"hardness"`
	Faces         map[string]string  `json:"faces" yaml:"faces"`
}

var faceNames = map[string]Face{
	"All":    FaceAll,
	"Top":    FaceTop,
	"Bottom": FaceBottom,
	"Front":  FaceFront,
	"Back":   FaceBack,
	"Left":   FaceLeft,
	"Right":  FaceRight,
}

// parseTileRef parses a "<atlas>@<int>" face value.
func parseTileRef(value string) (TileRef, error) {
	atlas, idxStr, found := strings.Cut(value, "@")
	if !found {
		return TileRef{}, fmt.Errorf("face value %q missing '@tile'", value)
	}
	idx, err := strconv.Atoi(idxStr)
	if err != nil {
		return TileRef{}, fmt.Errorf("face value %q has non-integer tile index: %w", value, err)
	}
	return TileRef{Atlas: atlas, Tile: idx}, nil
}

func (d jsonDef) toType() (Type, error) {
	if d.Name == "" {
		return Type{}, fmt.Errorf("block definition missing name")
	}

	faces := make(map[Face]TileRef, len(d.Faces))
	for name, value := range d.Faces {
		face, ok := faceNames[name]
		if !ok {
			return Type{}, fmt.Errorf("block %q: unknown face key %q", d.Name, name)
		}
		ref, err := parseTileRef(value)
		if err != nil {
			return Type{}, fmt.Errorf("block %q: %w", d.Name, err)
		}
		faces[face] = ref
	}

	renderType := RenderSolid
	switch {
	case d.IsLiquid:
		renderType = RenderFluid
	case d.IsBillboard:
		renderType = RenderBillboard
	}

	emitColor := OpaqueWhite
	if d.EmitsLight == 0 {
		emitColor = RGBA8{}
	}

	return Type{
		Name:          d.Name,
		IsSolid:       d.IsSolid,
		IsBreakable:   d.IsBreakable,
		IsTransparent: d.IsTransparent,
		IsBillboard:   d.IsBillboard,
		IsLiquid:      d.IsLiquid,
		IsLightSource: d.IsLightSource,
		IsOpaque:      d.IsSolid && !d.IsTransparent && !d.IsBillboard,
		EmitsLight:    d.EmitsLight,
		EmitsColor:    emitColor,
		Hardness:      d.Hardness,
		RenderType:    renderType,
		TextureSet:    faces,
	}, nil
}

// LoadFromJSON registers every definition in a spec §6 JSON document,
// returning the first error encountered (a stage failure here is a
// programmer/config error, not a fail-soft lookup, so it propagates).
func (r *Registry) LoadFromJSON(data []byte) error {
	var defs []jsonDef
	if err := json.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parse block definitions: %w", err)
	}
	return r.registerDefs(defs)
}

// LoadFromYAML registers definitions from a YAML sibling of the spec §6
// format, for hand-authored mod packs (SPEC_FULL.md domain stack).
func (r *Registry) LoadFromYAML(data []byte) error {
	var defs []jsonDef
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parse block definitions (yaml): %w", err)
	}
	return r.registerDefs(defs)
}

func (r *Registry) registerDefs(defs []jsonDef) error {
	for _, def := range defs {
		t, err := def.toType()
		if err != nil {
			return err
		}
		if _, err := r.Register(t); err != nil {
			return err
		}
	}
	return nil
}
