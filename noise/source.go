// Package noise provides deterministic, seed-keyed multi-octave scalar
// noise (spec §4.C). Source is immutable once built and safe to Clone
// per generation task, so concurrent tasks never share mutable state.
package noise

import (
	"github.com/ojrac/opensimplex-go"
)

// Params configures octave combination on top of the underlying noise
// primitive, mirroring the shape of chunk-server's TerrainConfig
// (frequency/octaves/persistence/lacunarity) from the teacher.
type Params struct {
	Frequency   float64
	Octaves     int
	Persistence float64
	Lacunarity  float64
}

func (p Params) normalized() Params {
	if p.Octaves <= 0 {
		p.Octaves = 1
	}
	if p.Frequency <= 0 {
		p.Frequency = 0.01
	}
	if p.Persistence <= 0 {
		p.Persistence = 0.5
	}
	if p.Lacunarity <= 0 {
		p.Lacunarity = 2.0
	}
	return p
}

// Source is a deterministic 2-D/3-D noise generator keyed by seed. The
// same (seed, x, z) always yields the same value on any platform,
// because opensimplex-go's algorithm has no floating point operations
// that vary by hardware and our octave loop is pure arithmetic.
type Source struct {
	seed   int64
	params Params
	noise2 opensimplex.Noise
}

// New builds a noise source for the given seed and octave parameters.
func New(seed int64, params Params) *Source {
	return &Source{
		seed:   seed,
		params: params.normalized(),
		noise2: opensimplex.NewNormalized(seed),
	}
}

// Clone returns an independent copy for a single generation task. The
// underlying opensimplex generator holds no mutable state beyond its
// permutation table (built once at construction), so cloning is just a
// cheap struct copy — but returning a distinct value keeps the contract
// explicit and lets callers reason about task ownership the way
// GeneratorContext in spec §3 assumes.
func (s *Source) Clone() *Source {
	clone := *s
	return &clone
}

// Seed returns the seed this source was built with.
func (s *Source) Seed() int64 {
	return s.seed
}

// Eval2D samples multi-octave noise at (x, z), combined with persistence
// decay and lacunarity growth across octaves, returned in [-1, 1].
func (s *Source) Eval2D(x, z float64) float64 {
	var total, amplitude, frequency, maxAmplitude float64
	amplitude = 1
	frequency = s.params.Frequency

	for o := 0; o < s.params.Octaves; o++ {
		sample := s.noise2.Eval2(x*frequency, z*frequency)*2 - 1
		total += sample * amplitude
		maxAmplitude += amplitude
		amplitude *= s.params.Persistence
		frequency *= s.params.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return total / maxAmplitude
}

// Eval3D samples multi-octave 3-D noise, used by cave carving (spec
// §4.D stage 4).
func (s *Source) Eval3D(x, y, z float64) float64 {
	var total, amplitude, frequency, maxAmplitude float64
	amplitude = 1
	frequency = s.params.Frequency

	for o := 0; o < s.params.Octaves; o++ {
		sample := s.noise2.Eval3(x*frequency, y*frequency, z*frequency)*2 - 1
		total += sample * amplitude
		maxAmplitude += amplitude
		amplitude *= s.params.Persistence
		frequency *= s.params.Lacunarity
	}

	if maxAmplitude == 0 {
		return 0
	}
	return total / maxAmplitude
}
