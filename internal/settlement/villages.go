// Village siting. Every grid cell deterministically scores a candidate
// site; a cell becomes a village only if no candidate within the minimum
// spacing radius beats it (non-maximum suppression). See design doc
// Section 4.1.
package settlement

import (
	"math"

	"github.com/talgya/crossroads/internal/terrain"
)

// scoreTolerance is the band within which two candidate scores count as a
// tie and the deterministic tie-breaker decides suppression.
const scoreTolerance = 1e-6

// candidate is a scored prospective village site for one grid cell.
type candidate struct {
	pos       Point
	score     float64
	tiebreak  float64
	coastDist float64
}

// candidateAt returns the deterministic candidate for a grid cell,
// memoized since road and parcel passes re-probe the same cells.
func (g *Generator) candidateAt(cx, cy int) candidate {
	key := cellKey{X: cx, Y: cy}
	if c, ok := g.candidates.get(key); ok {
		return c
	}
	c := g.scoreCell(cx, cy)
	g.candidates.put(key, c)
	return c
}

func (g *Generator) scoreCell(cx, cy int) candidate {
	sc := g.cfg.Settlement
	seed := g.cfg.Seed
	cell := itoa(cx) + "," + itoa(cy)

	// Deterministic jitter keeps villages off the cell lattice.
	pos := Point{
		X: (float64(cx)+0.5)*sc.CellSize + (roll(seed, "vpos-x", cell)-0.5)*sc.CellSize*0.6,
		Y: (float64(cy)+0.5)*sc.CellSize + (roll(seed, "vpos-y", cell)-0.5)*sc.CellSize*0.6,
	}

	s := g.terrain.Probe(pos.X, pos.Y)
	tiebreak := roll(seed, "vtie", cell)
	coastDist := estimateCoastDistance(s, sc.CoastalMaxDistance)

	if s.WaterDepth > waterEps {
		return candidate{pos: pos, score: 0, tiebreak: tiebreak, coastDist: 0}
	}

	// Slope goodness: near-flat is ideal, smooth falloff above the ceiling.
	var slopeGood float64
	if s.Slope <= sc.SlopeCeiling {
		r := s.Slope / sc.SlopeCeiling
		slopeGood = 1 - 0.35*r*r
	} else {
		slopeGood = 0.65 * math.Exp(-6*(s.Slope-sc.SlopeCeiling))
	}

	// Moisture closeness to the target band.
	moistGood := 1 - math.Min(1, math.Abs(s.Moisture-sc.TargetMoisture)*2)

	coastGood := coastalPreference(coastDist, sc.CoastalMinDistance, sc.CoastalMaxDistance)

	base := slopeGood * moistGood * coastGood

	// Penalties: dense forest, steep shoreline, high ground.
	base -= 0.30 * s.ForestDensity * s.ForestDensity
	base -= 0.25 * s.Shore * math.Min(1, s.Slope/sc.SlopeCeiling)
	if s.Elevation > 0.75 {
		base -= 0.30 * (s.Elevation - 0.75) / 0.25
	}

	base *= 0.55 + 0.45*roll(seed, "village", cell)

	if base < 0 {
		base = 0
	} else if base > 1 {
		base = 1
	}
	return candidate{pos: pos, score: base, tiebreak: tiebreak, coastDist: coastDist}
}

// estimateCoastDistance maps the oracle's shoreline proximity onto an
// approximate distance in world units. The oracle reports proximity, not
// metric distance, so the mapping anchors on the configured coastal band.
func estimateCoastDistance(s terrain.Sample, coastalMax float64) float64 {
	if s.WaterDepth > 0 {
		return 0
	}
	return (1 - s.Shore) * coastalMax * 1.2
}

// coastalPreference is the trapezoid over coast distance: rising below the
// minimum preferred distance, flat across the preferred band, falling
// beyond the maximum.
func coastalPreference(d, min, max float64) float64 {
	switch {
	case d < min:
		return 0.35 + 0.65*(d/min)
	case d <= max:
		return 1
	default:
		f := 1 - (d-max)/(2*max)
		if f < 0.25 {
			f = 0.25
		}
		return f
	}
}

// villageAtCell returns the accepted village for a grid cell, or ok=false
// if the cell scores below threshold or is suppressed by a stronger
// candidate within the minimum village distance.
func (g *Generator) villageAtCell(cx, cy int) (Village, bool) {
	sc := g.cfg.Settlement
	c := g.candidateAt(cx, cy)
	if c.score < sc.SuitabilityThreshold {
		return Village{}, false
	}

	// Non-maximum suppression over the covering cell neighborhood.
	r := int(math.Ceil(sc.MinVillageDistance/sc.CellSize)) + 1
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx == 0 && dy == 0 {
				continue
			}
			n := g.candidateAt(cx+dx, cy+dy)
			if dist(c.pos, n.pos) >= sc.MinVillageDistance {
				continue
			}
			if n.score > c.score+scoreTolerance {
				return Village{}, false
			}
			if math.Abs(n.score-c.score) <= scoreTolerance && n.tiebreak > c.tiebreak {
				return Village{}, false
			}
		}
	}

	seed := g.cfg.Seed
	cell := itoa(cx) + "," + itoa(cy)
	id := villageID(cx, cy)

	radT := 0.65*c.score + 0.35*roll(seed, "vrad", cell)
	if radT > 1 {
		radT = 1
	}

	return Village{
		ID:       id,
		Position: c.pos,
		Score:    c.score,
		Radius:   lerp(sc.MinRadius, sc.MaxRadius, radT),
		CellX:    cx,
		CellY:    cy,
		Template: g.chooseTemplate(c, cell),
	}, true
}

// chooseTemplate picks the local street pattern: near-coast villages are
// lakeside; otherwise the score margin over the threshold weights a roll
// between crossroad and linear.
func (g *Generator) chooseTemplate(c candidate, cell string) VillageTemplate {
	sc := g.cfg.Settlement
	if c.coastDist < sc.CoastalMinDistance*1.5 {
		return TemplateLakeside
	}
	margin := (c.score - sc.SuitabilityThreshold) / math.Max(1e-9, 1-sc.SuitabilityThreshold)
	pCross := 0.25 + 0.6*margin
	if roll(g.cfg.Seed, "vtpl", cell) < pCross {
		return TemplateCrossroad
	}
	return TemplateLinear
}

// collectVillagesInBounds enumerates the covering grid cells with a
// one-cell margin and returns accepted villages positioned inside b.
func (g *Generator) collectVillagesInBounds(b Bounds) []Village {
	sc := g.cfg.Settlement
	minCX := cellOf(b.MinX, sc.CellSize) - 1
	maxCX := cellOf(b.MaxX, sc.CellSize) + 1
	minCY := cellOf(b.MinY, sc.CellSize) - 1
	maxCY := cellOf(b.MaxY, sc.CellSize) + 1

	var out []Village
	for cy := minCY; cy <= maxCY; cy++ {
		for cx := minCX; cx <= maxCX; cx++ {
			v, ok := g.villageAtCell(cx, cy)
			if !ok {
				continue
			}
			if b.Contains(v.Position) {
				out = append(out, v)
			}
		}
	}
	return out
}
