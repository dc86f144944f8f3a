// House placement: at most one house per eligible parcel, sized relative to
// the lot and shifted toward its road-facing edge. See design doc
// Section 4.6.
package settlement

import "math"

// houseChance is the build probability per parcel, keyed by road type.
func houseChance(t RoadType) float64 {
	switch t {
	case RoadMajor:
		return 0.46
	case RoadMinor:
		return 0.72
	default:
		return 0.88
	}
}

// buildHouses places a house on each parcel that passes its roll and
// terrain checks.
func (g *Generator) buildHouses(parcels []Parcel) []House {
	hc := g.cfg.Houses
	seed := g.cfg.Seed

	var houses []House
	for _, p := range parcels {
		if roll(seed, "house", p.ID) >= houseChance(p.RoadType) {
			continue
		}

		width := p.Width * lerp(0.5, 0.75, roll(seed, "house-width", p.ID))
		depth := p.Depth * lerp(0.5, 0.8, roll(seed, "house-depth", p.ID))

		// Shift toward the road-facing edge of the lot. The lot normal
		// points away from the road on the parcel's side.
		nx, ny := -math.Sin(p.Angle), math.Cos(p.Angle)
		shift := (p.Depth - depth) / 2 * 0.7
		pos := Point{
			X: p.Position.X - nx*float64(p.Side)*shift,
			Y: p.Position.Y - ny*float64(p.Side)*shift,
		}

		s := g.terrain.Probe(pos.X, pos.Y)
		if s.WaterDepth > waterEps || s.Slope > hc.MaxSlope {
			continue
		}

		houses = append(houses, House{
			ID:        houseID(p.ID),
			Position:  pos,
			Width:     width,
			Depth:     depth,
			Angle:     p.Angle,
			RoofStyle: int(hashKey(seed, "roof", p.ID) % 4),
		})
	}
	return houses
}
