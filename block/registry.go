package block

import (
	"fmt"
	"sync"

	"lillyengine.dev/voxelcore/internal/enginelog"
)

// Registry maps block ids and names to their Type. It is populated once
// at startup (air first) and is safe for concurrent reads once built;
// Register/LoadFromJSON/LoadFromYAML are init-time operations guarded by
// the same mutex other chunk-server singletons use for their
// install-time mutation window (mirrors SetStorageProvider's
// sync.RWMutex discipline in the teacher).
type Registry struct {
	mu     sync.RWMutex
	byID   map[ID]Type
	byName map[string]Type
	nextID ID
	dedupe *enginelog.Deduper
}

// NewRegistry returns a registry pre-populated with the air block.
func NewRegistry() *Registry {
	r := &Registry{
		byID:   make(map[ID]Type),
		byName: make(map[string]Type),
		nextID: 1,
		dedupe: enginelog.NewDeduper(enginelog.New("block")),
	}
	a := air()
	r.byID[a.ID] = a
	r.byName[a.Name] = a
	return r
}

// Register inserts a block definition, assigning the next free id unless
// t.ID is already set (non-zero). Entries are immutable once inserted;
// registering an existing name or id is an error.
func (r *Registry) Register(t Type) (Type, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t.Name == "" {
		return Type{}, fmt.Errorf("block registration requires a name")
	}
	if _, exists := r.byName[t.Name]; exists {
		return Type{}, fmt.Errorf("block %q already registered", t.Name)
	}
	if t.ID == AirID {
		t.ID = r.nextID
		r.nextID++
	} else if _, exists := r.byID[t.ID]; exists {
		return Type{}, fmt.Errorf("block id %d already registered", t.ID)
	} else if t.ID >= r.nextID {
		r.nextID = t.ID + 1
	}
	if t.TextureSet == nil {
		t.TextureSet = make(map[Face]TileRef)
	}

	r.byID[t.ID] = t
	r.byName[t.Name] = t
	return t, nil
}

// GetByID returns the registered type, or the air type (fail-soft) for
// an unknown id, logging a warning once per unknown id.
func (r *Registry) GetByID(id ID) Type {
	r.mu.RLock()
	t, ok := r.byID[id]
	r.mu.RUnlock()
	if ok {
		return t
	}
	r.dedupe.Warn(fmt.Sprintf("id:%d", id), "unknown block id %d, substituting air", id)
	return r.byID[AirID]
}

// GetByName returns the registered type, or the air type (fail-soft) for
// an unknown name, logging a warning once per unknown name.
func (r *Registry) GetByName(name string) Type {
	r.mu.RLock()
	t, ok := r.byName[name]
	r.mu.RUnlock()
	if ok {
		return t
	}
	r.dedupe.Warn("name:"+name, "unknown block name %q, substituting air", name)
	return r.byID[AirID]
}

// Len reports how many block types (including air) are registered.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byID)
}
