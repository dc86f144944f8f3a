// Default terrain field built from layered simplex noise.
// Elevation, moisture, and forest cover are independent octave stacks;
// slope, water depth, and shoreline proximity are derived per sample.
package terrain

import (
	"hash/fnv"
	"math"

	opensimplex "github.com/ojrac/opensimplex-go"
)

// FieldConfig holds the noise parameters for the default terrain field.
type FieldConfig struct {
	SeaLevel      float64 `yaml:"sea_level"`      // Elevation threshold for open water
	ShoreBand     float64 `yaml:"shore_band"`     // Elevation half-band around sea level counted as shoreline
	ElevFrequency float64 `yaml:"elev_frequency"` // Base frequency of the elevation stack
	MoistFreq     float64 `yaml:"moist_frequency"`
	ForestFreq    float64 `yaml:"forest_frequency"`
	SlopeScale    float64 `yaml:"slope_scale"` // Converts the raw elevation gradient into the 0..~1 slope range
}

// DefaultFieldConfig returns the field tuning used by the shipped binaries.
func DefaultFieldConfig() FieldConfig {
	return FieldConfig{
		SeaLevel:      0.34,
		ShoreBand:     0.045,
		ElevFrequency: 0.0016,
		MoistFreq:     0.0011,
		ForestFreq:    0.0023,
		SlopeScale:    220,
	}
}

// Field is the default Oracle implementation. Safe for concurrent reads:
// it holds no mutable state after construction.
type Field struct {
	cfg    FieldConfig
	elev   opensimplex.Noise
	moist  opensimplex.Noise
	forest opensimplex.Noise
}

// NewField builds a terrain field for the given world seed string.
func NewField(seed string, cfg FieldConfig) *Field {
	base := seedToInt64(seed)
	return &Field{
		cfg:    cfg,
		elev:   opensimplex.NewNormalized(base),
		moist:  opensimplex.NewNormalized(base + 1),
		forest: opensimplex.NewNormalized(base + 2),
	}
}

// seedToInt64 folds a seed string into a noise seed.
func seedToInt64(seed string) int64 {
	h := fnv.New64a()
	h.Write([]byte(seed))
	return int64(h.Sum64())
}

// elevation samples the 4-octave elevation stack at (x, y).
func (f *Field) elevation(x, y float64) float64 {
	return octaveNoise(f.elev, x, y, 4, f.cfg.ElevFrequency, 0.5)
}

// Probe samples the terrain at (x, y).
func (f *Field) Probe(x, y float64) Sample {
	elev := f.elevation(x, y)
	moist := octaveNoise(f.moist, x, y, 3, f.cfg.MoistFreq, 0.5)
	forest := octaveNoise(f.forest, x, y, 3, f.cfg.ForestFreq, 0.5)

	// Slope by central differences over a short baseline.
	const h = 4.0
	dzx := (f.elevation(x+h, y) - f.elevation(x-h, y)) / (2 * h)
	dzy := (f.elevation(x, y+h) - f.elevation(x, y-h)) / (2 * h)
	slope := math.Sqrt(dzx*dzx+dzy*dzy) * f.cfg.SlopeScale
	if slope > 1 {
		slope = 1
	}

	depth := 0.0
	if elev < f.cfg.SeaLevel {
		depth = f.cfg.SeaLevel - elev
	}

	// Shoreline proximity peaks at the waterline and fades across the band.
	shore := 1.0 - math.Abs(elev-f.cfg.SeaLevel)/f.cfg.ShoreBand
	if shore < 0 {
		shore = 0
	}

	// Forests don't grow underwater.
	if depth > 0 {
		forest = 0
	}

	return Sample{
		Elevation:     elev,
		Moisture:      moist,
		Slope:         slope,
		WaterDepth:    depth,
		ForestDensity: forest,
		Shore:         shore,
	}
}

// GradientAt returns the direction of decreasing water depth at (x, y).
func (f *Field) GradientAt(x, y, step float64) (gx, gy float64) {
	if step <= 0 {
		step = 4
	}
	dx := f.depthAt(x+step, y) - f.depthAt(x-step, y)
	dy := f.depthAt(x, y+step) - f.depthAt(x, y-step)
	// Point away from deepening water.
	gx, gy = -dx, -dy
	n := math.Sqrt(gx*gx + gy*gy)
	if n < 1e-12 {
		return 0, 0
	}
	return gx / n, gy / n
}

func (f *Field) depthAt(x, y float64) float64 {
	elev := f.elevation(x, y)
	if elev >= f.cfg.SeaLevel {
		return 0
	}
	return f.cfg.SeaLevel - elev
}

// octaveNoise generates fractal noise by layering multiple frequencies.
func octaveNoise(noise opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total := 0.0
	amplitude := 1.0
	maxVal := 0.0

	for i := 0; i < octaves; i++ {
		total += noise.Eval2(x*frequency, y*frequency) * amplitude
		maxVal += amplitude
		amplitude *= persistence
		frequency *= 2
	}

	return total / maxVal
}
