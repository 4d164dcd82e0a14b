package streaming

import "lillyengine.dev/voxelcore/chunk"

// Config holds the streaming controller's tunables (spec §4.H).
type Config struct {
	HorizontalRadius  int // R, default 4
	VerticalBelow     int // Vb, default 1
	VerticalAbove     int // Va, default 0
	MaxConcurrentJobs int // default 4
	MaxCachedChunks   int
}

// DefaultConfig returns the defaults spec §4.H names.
func DefaultConfig() Config {
	return Config{
		HorizontalRadius:  4,
		VerticalBelow:     1,
		VerticalAbove:     0,
		MaxConcurrentJobs: 4,
		MaxCachedChunks:   512,
	}
}

type offset struct{ dx, dy, dz int }

// buildTargetOffsets precomputes the (2R+1) x (Vb+Va+1) x (2R+1) cube
// of chunk offsets around a viewer (spec §4.H target_offsets), rebuilt
// only when the config changes.
func buildTargetOffsets(cfg Config) []offset {
	r := cfg.HorizontalRadius
	offsets := make([]offset, 0, (2*r+1)*(2*r+1)*(cfg.VerticalBelow+cfg.VerticalAbove+1))
	for dx := -r; dx <= r; dx++ {
		for dz := -r; dz <= r; dz++ {
			for dy := -cfg.VerticalBelow; dy <= cfg.VerticalAbove; dy++ {
				offsets = append(offsets, offset{dx, dy, dz})
			}
		}
	}
	return offsets
}

// neighborChunkOffsets is the six face-adjacent chunk directions used
// for neighbor-rebuild-on-new-chunk (spec §4.H).
var neighborChunkOffsets = [6][3]int{
	{1, 0, 0}, {-1, 0, 0},
	{0, 1, 0}, {0, -1, 0},
	{0, 0, 1}, {0, 0, -1},
}

func addOffset(c chunk.Coordinate, o [3]int) chunk.Coordinate {
	return c.Add(o[0], o[1], o[2])
}
