// Package detsuite re-runs settlement generation from scratch and compares
// feature digests across runs. Any drift between runs means a determinism
// bug (hidden state, map-order dependence, float instability) and fails the
// suite. See design doc Section 7.
package detsuite

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/talgya/crossroads/internal/settlement"
	"github.com/talgya/crossroads/internal/terrain"
)

// Options controls a suite execution.
type Options struct {
	Runs    int // number of independent generation runs; min 2
	Windows []settlement.Bounds
}

// DefaultWindows returns query rectangles that straddle region boundaries
// in all four quadrants, sized from the configured region tile.
func DefaultWindows(regionSize float64) []settlement.Bounds {
	s := regionSize
	return []settlement.Bounds{
		{MinX: 0, MaxX: 1.5 * s, MinY: 0, MaxY: 1.5 * s},
		{MinX: -1.2 * s, MaxX: 0.3 * s, MinY: -1.2 * s, MaxY: 0.3 * s},
		{MinX: -0.5 * s, MaxX: 0.5 * s, MinY: 0.5 * s, MaxY: 1.5 * s},
	}
}

// Result is the outcome of one suite execution.
type Result struct {
	RunHashes   []string // one overall hash per run
	OverallHash string   // hash of the first run, the reference
	OK          bool     // true when every run hash matches the first
}

// Run executes opts.Runs independent generations and digests each one.
// Every run constructs a fresh terrain field and generator so no cache or
// hidden state can carry over between runs.
func Run(cfg settlement.Config, opts Options) Result {
	runs := opts.Runs
	if runs < 2 {
		runs = 2
	}
	windows := opts.Windows
	if len(windows) == 0 {
		windows = DefaultWindows(cfg.Roads.RegionSize)
	}

	res := Result{OK: true}
	for i := 0; i < runs; i++ {
		gen := settlement.NewGenerator(cfg, terrain.NewField(cfg.Seed, cfg.Terrain))

		h := sha256.New()
		for _, w := range windows {
			f := gen.GetFeaturesForBounds(w.MinX, w.MaxX, w.MinY, w.MaxY)
			h.Write([]byte(settlement.DigestFeatures(f)))
		}
		runHash := hex.EncodeToString(h.Sum(nil))

		res.RunHashes = append(res.RunHashes, runHash)
		if runHash != res.RunHashes[0] {
			res.OK = false
		}
	}
	res.OverallHash = res.RunHashes[0]
	return res
}
