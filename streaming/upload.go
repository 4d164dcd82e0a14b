package streaming

import (
	"encoding/binary"
	"math"

	"lillyengine.dev/voxelcore/collab"
	"lillyengine.dev/voxelcore/mesh"
)

// uploadSlot pushes each non-empty stream in slot.Mesh to the GPU
// collaborator, disposing any buffer it replaces (spec §6
// upload_mesh/dispose). It is a no-op when no GraphicsUploader was
// configured, so headless (server-side, test) controllers never touch
// collab at all.
func (ctl *Controller) uploadSlot(slot *ChunkSlot) {
	if ctl.graphics == nil || slot.Mesh == nil {
		return
	}
	if slot.gpu == nil {
		slot.gpu = make(map[collab.StreamKind]collab.GpuHandle)
	}

	streams := []struct {
		kind collab.StreamKind
		s    *mesh.Stream
	}{
		{collab.StreamSolid, &slot.Mesh.Solid},
		{collab.StreamBillboard, &slot.Mesh.Billboard},
		{collab.StreamItem, &slot.Mesh.Item},
		{collab.StreamFluid, &slot.Mesh.Fluid},
	}

	for _, entry := range streams {
		if old, ok := slot.gpu[entry.kind]; ok {
			ctl.graphics.Dispose(old)
			delete(slot.gpu, entry.kind)
		}
		if len(entry.s.Vertices) == 0 {
			continue
		}
		handle, err := ctl.graphics.UploadMesh(entry.kind, encodeVertices(entry.s.Vertices), entry.s.Indices)
		if err != nil {
			ctl.dedupe.Warn("upload-failed", "streaming: mesh upload failed for stream %d: %v", entry.kind, err)
			continue
		}
		slot.gpu[entry.kind] = handle
	}
}

// disposeSlot releases every GPU buffer a slot holds (spec §4.H step
// 5 unload).
func (ctl *Controller) disposeSlot(slot *ChunkSlot) {
	if slot == nil || ctl.graphics == nil {
		return
	}
	for _, handle := range slot.gpu {
		ctl.graphics.Dispose(handle)
	}
}

// encodeVertices packs vertices into the tightly-packed byte layout
// the graphics collaborator expects: 3 float32 positions, 4 uint8
// color channels, 2 float32 UVs (24 bytes per vertex).
func encodeVertices(vs []mesh.Vertex) []byte {
	out := make([]byte, 0, len(vs)*24)
	var buf [4]byte
	putFloat32 := func(f float32) {
		binary.LittleEndian.PutUint32(buf[:], math.Float32bits(f))
		out = append(out, buf[:]...)
	}
	for _, v := range vs {
		putFloat32(v.X)
		putFloat32(v.Y)
		putFloat32(v.Z)
		out = append(out, v.R, v.G, v.B, v.A)
		putFloat32(v.U)
		putFloat32(v.V)
	}
	return out
}
