// Generation configuration. A Config plus a seed string fully determines
// every layout the engine produces; two peers with equal handshake hashes
// are guaranteed to generate identical settlement layers.
package settlement

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/talgya/crossroads/internal/terrain"
)

// Config holds all settlement generation parameters, including the tuning
// of the default terrain field the shipped binaries generate over.
type Config struct {
	Seed       string              `yaml:"seed"`
	Settlement SettlementConfig    `yaml:"settlement"`
	Roads      RoadsConfig         `yaml:"roads"`
	Houses     HousesConfig        `yaml:"houses"`
	Terrain    terrain.FieldConfig `yaml:"terrain"`
}

// SettlementConfig tunes village siting.
type SettlementConfig struct {
	CellSize             float64 `yaml:"cell_size"`             // Side of a village grid cell, world units
	MinVillageDistance   float64 `yaml:"min_village_distance"`  // Pairwise village separation floor
	SuitabilityThreshold float64 `yaml:"suitability_threshold"` // Minimum candidate score to accept
	TargetMoisture       float64 `yaml:"target_moisture"`       // Preferred terrain moisture
	SlopeCeiling         float64 `yaml:"slope_ceiling"`         // Slope above which suitability decays
	CoastalMinDistance   float64 `yaml:"coastal_min_distance"`  // Below this the coastal preference ramps up
	CoastalMaxDistance   float64 `yaml:"coastal_max_distance"`  // Beyond this the coastal preference falls off
	MinRadius            float64 `yaml:"min_radius"`            // Village radius range, interpolated from score
	MaxRadius            float64 `yaml:"max_radius"`
}

// RoadsConfig tunes the regional and local road networks.
type RoadsConfig struct {
	RegionSize            float64 `yaml:"region_size"`             // Side of a cached region tile
	NearestNeighbors      int     `yaml:"nearest_neighbors"`       // Candidate edges considered per village
	MaxConnectionDistance float64 `yaml:"max_connection_distance"` // Villages farther apart are never linked
	LoopChance            float64 `yaml:"loop_chance"`             // Base acceptance chance for redundant loop edges
	RouteStep             float64 `yaml:"route_step"`              // Sampling step for routing and cost estimation
	Curvature             float64 `yaml:"curvature"`               // Lateral curvature scale for routed roads
	MajorWidth            float64 `yaml:"major_width"`
	MinorWidth            float64 `yaml:"minor_width"`
	LocalWidth            float64 `yaml:"local_width"`
}

// HousesConfig tunes parcel subdivision and house placement.
type HousesConfig struct {
	Spacing    float64 `yaml:"spacing"`     // Base distance between parcel samples along a road
	SideChance float64 `yaml:"side_chance"` // Base chance a sample side spawns a parcel
	SetbackMin float64 `yaml:"setback_min"` // Distance from road centerline to parcel front
	SetbackMax float64 `yaml:"setback_max"`
	WidthMin   float64 `yaml:"width_min"` // Parcel footprint ranges
	WidthMax   float64 `yaml:"width_max"`
	DepthMin   float64 `yaml:"depth_min"`
	DepthMax   float64 `yaml:"depth_max"`
	MaxSlope   float64 `yaml:"max_slope"` // Slope ceiling for parcel/house placement
}

// DefaultConfig returns the generation parameters used by the shipped
// binaries. All values are in world units unless noted.
func DefaultConfig() Config {
	return Config{
		Seed: "crossroads-1",
		Settlement: SettlementConfig{
			CellSize:             160,
			MinVillageDistance:   260,
			SuitabilityThreshold: 0.42,
			TargetMoisture:       0.55,
			SlopeCeiling:         0.38,
			CoastalMinDistance:   60,
			CoastalMaxDistance:   420,
			MinRadius:            70,
			MaxRadius:            150,
		},
		Roads: RoadsConfig{
			RegionSize:            1024,
			NearestNeighbors:      3,
			MaxConnectionDistance: 900,
			LoopChance:            0.35,
			RouteStep:             24,
			Curvature:             0.35,
			MajorWidth:            10,
			MinorWidth:            7,
			LocalWidth:            4.5,
		},
		Houses: HousesConfig{
			Spacing:    26,
			SideChance: 0.75,
			SetbackMin: 8,
			SetbackMax: 16,
			WidthMin:   10,
			WidthMax:   16,
			DepthMin:   8,
			DepthMax:   14,
			MaxSlope:   0.35,
		},
		Terrain: terrain.DefaultFieldConfig(),
	}
}

// LoadConfig reads a YAML config file, filling unset fields with defaults.
// An empty path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	return cfg, nil
}

// applyDefaults backfills zero values so a partial YAML file stays usable.
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Seed == "" {
		c.Seed = def.Seed
	}
	if c.Settlement.CellSize <= 0 {
		c.Settlement.CellSize = def.Settlement.CellSize
	}
	if c.Settlement.MinVillageDistance <= 0 {
		c.Settlement.MinVillageDistance = def.Settlement.MinVillageDistance
	}
	if c.Settlement.SuitabilityThreshold <= 0 {
		c.Settlement.SuitabilityThreshold = def.Settlement.SuitabilityThreshold
	}
	if c.Settlement.TargetMoisture <= 0 {
		c.Settlement.TargetMoisture = def.Settlement.TargetMoisture
	}
	if c.Settlement.SlopeCeiling <= 0 {
		c.Settlement.SlopeCeiling = def.Settlement.SlopeCeiling
	}
	if c.Settlement.CoastalMinDistance <= 0 {
		c.Settlement.CoastalMinDistance = def.Settlement.CoastalMinDistance
	}
	if c.Settlement.CoastalMaxDistance <= 0 {
		c.Settlement.CoastalMaxDistance = def.Settlement.CoastalMaxDistance
	}
	if c.Settlement.MinRadius <= 0 {
		c.Settlement.MinRadius = def.Settlement.MinRadius
	}
	if c.Settlement.MaxRadius <= 0 {
		c.Settlement.MaxRadius = def.Settlement.MaxRadius
	}
	if c.Roads.RegionSize <= 0 {
		c.Roads.RegionSize = def.Roads.RegionSize
	}
	if c.Roads.NearestNeighbors <= 0 {
		c.Roads.NearestNeighbors = def.Roads.NearestNeighbors
	}
	if c.Roads.MaxConnectionDistance <= 0 {
		c.Roads.MaxConnectionDistance = def.Roads.MaxConnectionDistance
	}
	// LoopChance is intentionally not backfilled: zero is a meaningful
	// setting (a pure spanning tree, no redundant loops).
	if c.Roads.RouteStep <= 0 {
		c.Roads.RouteStep = def.Roads.RouteStep
	}
	if c.Roads.Curvature <= 0 {
		c.Roads.Curvature = def.Roads.Curvature
	}
	if c.Roads.MajorWidth <= 0 {
		c.Roads.MajorWidth = def.Roads.MajorWidth
	}
	if c.Roads.MinorWidth <= 0 {
		c.Roads.MinorWidth = def.Roads.MinorWidth
	}
	if c.Roads.LocalWidth <= 0 {
		c.Roads.LocalWidth = def.Roads.LocalWidth
	}
	if c.Houses.Spacing <= 0 {
		c.Houses.Spacing = def.Houses.Spacing
	}
	if c.Houses.SideChance <= 0 {
		c.Houses.SideChance = def.Houses.SideChance
	}
	if c.Houses.SetbackMin <= 0 {
		c.Houses.SetbackMin = def.Houses.SetbackMin
	}
	if c.Houses.SetbackMax <= 0 {
		c.Houses.SetbackMax = def.Houses.SetbackMax
	}
	if c.Houses.WidthMin <= 0 {
		c.Houses.WidthMin = def.Houses.WidthMin
	}
	if c.Houses.WidthMax <= 0 {
		c.Houses.WidthMax = def.Houses.WidthMax
	}
	if c.Houses.DepthMin <= 0 {
		c.Houses.DepthMin = def.Houses.DepthMin
	}
	if c.Houses.DepthMax <= 0 {
		c.Houses.DepthMax = def.Houses.DepthMax
	}
	if c.Houses.MaxSlope <= 0 {
		c.Houses.MaxSlope = def.Houses.MaxSlope
	}
	if c.Terrain.SeaLevel <= 0 {
		c.Terrain.SeaLevel = def.Terrain.SeaLevel
	}
	if c.Terrain.ShoreBand <= 0 {
		c.Terrain.ShoreBand = def.Terrain.ShoreBand
	}
	if c.Terrain.ElevFrequency <= 0 {
		c.Terrain.ElevFrequency = def.Terrain.ElevFrequency
	}
	if c.Terrain.MoistFreq <= 0 {
		c.Terrain.MoistFreq = def.Terrain.MoistFreq
	}
	if c.Terrain.ForestFreq <= 0 {
		c.Terrain.ForestFreq = def.Terrain.ForestFreq
	}
	if c.Terrain.SlopeScale <= 0 {
		c.Terrain.SlopeScale = def.Terrain.SlopeScale
	}
}
