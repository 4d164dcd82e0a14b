package engineconfig

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultValidates(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadEmptyPathReturnsDefault(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load empty path: %v", err)
	}
	if cfg.Chunk.Width != Default().Chunk.Width {
		t.Fatalf("expected default chunk width, got %d", cfg.Chunk.Width)
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	body := `{"chunk":{"width":16,"height":256},"streaming":{"horizontalRadius":2,"maxConcurrentJobs":2},"terrain":{"seed":7,"octaves":3},"cache":{"maxCachedChunks":10}}`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Streaming.HorizontalRadius != 2 {
		t.Fatalf("expected horizontalRadius=2, got %d", cfg.Streaming.HorizontalRadius)
	}
	if cfg.Terrain.Seed != 7 {
		t.Fatalf("expected seed=7, got %d", cfg.Terrain.Seed)
	}
}

func TestValidateRejectsBadChunkDimensions(t *testing.T) {
	cfg := Default()
	cfg.Chunk.Width = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for zero width")
	}
}

func TestLoadYAMLBase64(t *testing.T) {
	yamlBody := "chunk:\n  width: 16\n  height: 256\nstreaming:\n  horizontalRadius: 3\n  maxConcurrentJobs: 4\nterrain:\n  octaves: 2\ncache:\n  maxCachedChunks: 5\n"
	encoded := base64.StdEncoding.EncodeToString([]byte(yamlBody))

	cfg, err := LoadYAMLBase64(encoded)
	if err != nil {
		t.Fatalf("load yaml config: %v", err)
	}
	if cfg.Streaming.HorizontalRadius != 3 {
		t.Fatalf("expected horizontalRadius=3, got %d", cfg.Streaming.HorizontalRadius)
	}
}

func TestLoadYAMLBase64RejectsInvalid(t *testing.T) {
	if _, err := LoadYAMLBase64("not-base64!!"); err == nil {
		t.Fatalf("expected decode error")
	}
}
