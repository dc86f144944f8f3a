package settlement

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Errorf("empty path config differs from defaults: %+v", cfg)
	}
}

func TestLoadConfigPartialFileBackfillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := `seed: override-seed
roads:
  region_size: 2048
houses:
  spacing: 40
`
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	def := DefaultConfig()

	if cfg.Seed != "override-seed" {
		t.Errorf("seed = %q, want override", cfg.Seed)
	}
	if cfg.Roads.RegionSize != 2048 {
		t.Errorf("region size = %v, want 2048", cfg.Roads.RegionSize)
	}
	if cfg.Houses.Spacing != 40 {
		t.Errorf("spacing = %v, want 40", cfg.Houses.Spacing)
	}
	// Untouched sections fall back to defaults.
	if cfg.Settlement != def.Settlement {
		t.Errorf("settlement section should equal defaults: %+v", cfg.Settlement)
	}
	if cfg.Roads.MaxConnectionDistance != def.Roads.MaxConnectionDistance {
		t.Errorf("max connection distance = %v, want default %v",
			cfg.Roads.MaxConnectionDistance, def.Roads.MaxConnectionDistance)
	}
	if cfg.Terrain != def.Terrain {
		t.Errorf("terrain section should equal defaults: %+v", cfg.Terrain)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("missing file did not error")
	}
}

func TestApplyDefaultsLeavesExplicitValues(t *testing.T) {
	cfg := Config{Seed: "s"}
	cfg.Roads.NearestNeighbors = 5
	cfg.applyDefaults()
	if cfg.Roads.NearestNeighbors != 5 {
		t.Errorf("explicit nearest neighbors overwritten: %d", cfg.Roads.NearestNeighbors)
	}
	if cfg.Settlement.CellSize != DefaultConfig().Settlement.CellSize {
		t.Errorf("zero cell size not backfilled: %v", cfg.Settlement.CellSize)
	}
}
