// Package engineconfig loads and validates the tunables needed to bring
// up a voxel core host: chunk dimensions, streaming radii, generation
// seed/noise parameters, and worker-pool sizing.
package engineconfig

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config captures everything the streaming controller and generation
// pipeline need at construction time.
type Config struct {
	Chunk     ChunkConfig     `json:"chunk" yaml:"chunk"`
	Streaming StreamingConfig `json:"streaming" yaml:"streaming"`
	Terrain   TerrainConfig   `json:"terrain" yaml:"terrain"`
	Cache     CacheConfig     `json:"cache" yaml:"cache"`
}

type ChunkConfig struct {
	Width  int `json:"width" yaml:"width"`
	Height int `json:"height" yaml:"height"`
}

type StreamingConfig struct {
	HorizontalRadius  int           `json:"horizontalRadius" yaml:"horizontalRadius"`
	VerticalBelow     int           `json:"verticalBelow" yaml:"verticalBelow"`
	VerticalAbove     int           `json:"verticalAbove" yaml:"verticalAbove"`
	MaxConcurrentJobs int           `json:"maxConcurrentJobs" yaml:"maxConcurrentJobs"`
	TickInterval      time.Duration `json:"tickInterval" yaml:"tickInterval"`
}

type TerrainConfig struct {
	Seed          int64   `json:"seed" yaml:"seed"`
	Frequency     float64 `json:"frequency" yaml:"frequency"`
	Octaves       int     `json:"octaves" yaml:"octaves"`
	Persistence   float64 `json:"persistence" yaml:"persistence"`
	Lacunarity    float64 `json:"lacunarity" yaml:"lacunarity"`
	SeaLevel      int     `json:"seaLevel" yaml:"seaLevel"`
	SnowLine      int     `json:"snowLine" yaml:"snowLine"`
	EnableErosion bool    `json:"enableErosion" yaml:"enableErosion"`
	EnableCaves   bool    `json:"enableCaves" yaml:"enableCaves"`
	CaveThreshold float64 `json:"caveThreshold" yaml:"caveThreshold"`
}

type CacheConfig struct {
	MaxCachedChunks int           `json:"maxCachedChunks" yaml:"maxCachedChunks"`
	TTL             time.Duration `json:"ttl" yaml:"ttl"`
}

// Default returns the configuration spec.md's default radii/dimensions
// describe: a 16x256x16 chunk, R=4, Vb=1, Va=0, four concurrent jobs.
func Default() *Config {
	return &Config{
		Chunk: ChunkConfig{
			Width:  16,
			Height: 256,
		},
		Streaming: StreamingConfig{
			HorizontalRadius:  4,
			VerticalBelow:     1,
			VerticalAbove:     0,
			MaxConcurrentJobs: 4,
			TickInterval:      50 * time.Millisecond,
		},
		Terrain: TerrainConfig{
			Seed:          1337,
			Frequency:     0.01,
			Octaves:       4,
			Persistence:   0.5,
			Lacunarity:    2.0,
			SeaLevel:      62,
			SnowLine:      120,
			EnableErosion: true,
			EnableCaves:   true,
			CaveThreshold: 0.6,
		},
		Cache: CacheConfig{
			MaxCachedChunks: 1024,
			TTL:             5 * time.Minute,
		},
	}
}

// Load reads JSON configuration from path. An empty path returns defaults.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// LoadYAMLBase64 decodes a base64-encoded YAML payload, the format an
// external collaborator (e.g. a scene/asset host) may push configuration
// through instead of a JSON file on disk.
func LoadYAMLBase64(payload string) (*Config, error) {
	cfg := Default()
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode config yaml: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config yaml: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Chunk.Width <= 0 || c.Chunk.Height <= 0 {
		return errors.New("chunk dimensions must be positive")
	}
	if c.Streaming.HorizontalRadius < 0 {
		return errors.New("streaming.horizontalRadius cannot be negative")
	}
	if c.Streaming.MaxConcurrentJobs <= 0 {
		return errors.New("streaming.maxConcurrentJobs must be positive")
	}
	if c.Cache.MaxCachedChunks <= 0 {
		return errors.New("cache.maxCachedChunks must be positive")
	}
	if c.Terrain.Octaves <= 0 {
		return errors.New("terrain.octaves must be positive")
	}
	return nil
}
