package handshake

import (
	"testing"

	"github.com/talgya/crossroads/internal/settlement"
)

func TestHashStable(t *testing.T) {
	cfg := settlement.DefaultConfig()
	if Hash(cfg) != Hash(cfg) {
		t.Error("hash of equal configs differs")
	}
	if len(Hash(cfg)) != 64 {
		t.Errorf("hash length %d, want 64 hex chars", len(Hash(cfg)))
	}
}

func TestHashSensitiveToEveryField(t *testing.T) {
	base := Hash(settlement.DefaultConfig())

	mutations := []struct {
		name   string
		mutate func(*settlement.Config)
	}{
		{"seed", func(c *settlement.Config) { c.Seed = "other" }},
		{"cell size", func(c *settlement.Config) { c.Settlement.CellSize += 1 }},
		{"suitability threshold", func(c *settlement.Config) { c.Settlement.SuitabilityThreshold += 0.001 }},
		{"loop chance", func(c *settlement.Config) { c.Roads.LoopChance += 0.001 }},
		{"nearest neighbors", func(c *settlement.Config) { c.Roads.NearestNeighbors++ }},
		{"route step", func(c *settlement.Config) { c.Roads.RouteStep += 0.5 }},
		{"house spacing", func(c *settlement.Config) { c.Houses.Spacing += 1 }},
		{"sea level", func(c *settlement.Config) { c.Terrain.SeaLevel += 0.001 }},
		{"elevation frequency", func(c *settlement.Config) { c.Terrain.ElevFrequency *= 2 }},
	}
	for _, m := range mutations {
		t.Run(m.name, func(t *testing.T) {
			cfg := settlement.DefaultConfig()
			m.mutate(&cfg)
			if Hash(cfg) == base {
				t.Errorf("hash unchanged after mutating %s", m.name)
			}
		})
	}
}
