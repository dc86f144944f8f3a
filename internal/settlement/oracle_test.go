package settlement

import "github.com/talgya/crossroads/internal/terrain"

// flatOracle is dry, flat terrain everywhere: the friendliest possible
// world, so tests can isolate one rule at a time.
type flatOracle struct {
	slope    float64
	moisture float64
	shore    float64
}

func (o flatOracle) Probe(x, y float64) terrain.Sample {
	return terrain.Sample{
		Elevation: 0.5,
		Moisture:  o.moisture,
		Slope:     o.slope,
		Shore:     o.shore,
	}
}

func (o flatOracle) GradientAt(x, y, step float64) (float64, float64) { return 0, 0 }

// stripOracle is flat dry land with a vertical water band between minX and
// maxX at a fixed depth.
type stripOracle struct {
	minX, maxX float64
	depth      float64
	moisture   float64
}

func (o stripOracle) Probe(x, y float64) terrain.Sample {
	s := terrain.Sample{Elevation: 0.5, Moisture: o.moisture}
	if x >= o.minX && x <= o.maxX {
		s.WaterDepth = o.depth
		s.Elevation = 0.3
	}
	return s
}

// GradientAt points out of the strip toward the nearer bank.
func (o stripOracle) GradientAt(x, y, step float64) (float64, float64) {
	center := (o.minX + o.maxX) / 2
	if x < center {
		return -1, 0
	}
	return 1, 0
}

// testVillages lays out n villages on a horizontal line, spaced apart.
func testVillages(n int, spacing float64) []Village {
	vs := make([]Village, n)
	for i := range vs {
		vs[i] = Village{
			ID:       villageID(i, 0),
			Position: Point{X: float64(i) * spacing, Y: 0},
			Score:    0.6,
			Radius:   100,
			CellX:    i,
			CellY:    0,
			Template: TemplateLinear,
		}
	}
	return vs
}

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.Seed = "test-seed"
	return cfg
}
