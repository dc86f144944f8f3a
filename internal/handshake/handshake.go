// Package handshake canonicalizes a generation config into a stable hash so
// two peers (or two runs) can detect mismatched parameters before comparing
// generated geometry. See design doc Section 6.
package handshake

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"math"

	"github.com/talgya/crossroads/internal/settlement"
)

// Hash returns the hex sha256 of the canonical encoding of the generation
// and terrain parameters. Equal hashes guarantee equal parameters; any
// field change, however small, changes the hash.
func Hash(cfg settlement.Config) string {
	h := sha256.New()
	var tmp [8]byte

	writeF := func(v float64) {
		binary.LittleEndian.PutUint64(tmp[:], math.Float64bits(v))
		h.Write(tmp[:])
	}
	writeI := func(v int) {
		binary.LittleEndian.PutUint64(tmp[:], uint64(int64(v)))
		h.Write(tmp[:])
	}

	// Fixed field order: seed, settlement, roads, houses, terrain.
	binary.LittleEndian.PutUint64(tmp[:], uint64(len(cfg.Seed)))
	h.Write(tmp[:])
	h.Write([]byte(cfg.Seed))

	sc := cfg.Settlement
	writeF(sc.CellSize)
	writeF(sc.MinVillageDistance)
	writeF(sc.SuitabilityThreshold)
	writeF(sc.TargetMoisture)
	writeF(sc.SlopeCeiling)
	writeF(sc.CoastalMinDistance)
	writeF(sc.CoastalMaxDistance)
	writeF(sc.MinRadius)
	writeF(sc.MaxRadius)

	rc := cfg.Roads
	writeF(rc.RegionSize)
	writeI(rc.NearestNeighbors)
	writeF(rc.MaxConnectionDistance)
	writeF(rc.LoopChance)
	writeF(rc.RouteStep)
	writeF(rc.Curvature)
	writeF(rc.MajorWidth)
	writeF(rc.MinorWidth)
	writeF(rc.LocalWidth)

	hc := cfg.Houses
	writeF(hc.Spacing)
	writeF(hc.SideChance)
	writeF(hc.SetbackMin)
	writeF(hc.SetbackMax)
	writeF(hc.WidthMin)
	writeF(hc.WidthMax)
	writeF(hc.DepthMin)
	writeF(hc.DepthMax)
	writeF(hc.MaxSlope)

	tc := cfg.Terrain
	writeF(tc.SeaLevel)
	writeF(tc.ShoreBand)
	writeF(tc.ElevFrequency)
	writeF(tc.MoistFreq)
	writeF(tc.ForestFreq)
	writeF(tc.SlopeScale)

	return hex.EncodeToString(h.Sum(nil))
}
