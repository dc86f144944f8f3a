// Parcel generation: subdivides road frontage into building lots, gated by
// deterministic rolls and validated against terrain and lot separation.
// See design doc Section 4.5.
package settlement

import "math"

const (
	// parcelMinSeparation is the floor on distance between any two lots in
	// a region.
	parcelMinSeparation = 11.0

	// parcelVillageCap bounds lots per village so popular roads don't grow
	// without limit.
	parcelVillageCap = 140

	// Village-radius-relative distance band for lots on non-local roads.
	parcelBandMinRadii = 0.2
	parcelBandMaxRadii = 2.0
)

// parcelSpacingFactor scales the base sample spacing by road type.
func parcelSpacingFactor(t RoadType) float64 {
	switch t {
	case RoadMajor:
		return 1.6
	case RoadMinor:
		return 1.25
	default:
		return 1.0
	}
}

// parcelChanceFactor scales the base side chance by road type.
func parcelChanceFactor(t RoadType) float64 {
	switch t {
	case RoadMajor:
		return 0.25
	case RoadMinor:
		return 0.58
	default:
		return 0.95
	}
}

// buildParcels walks every road's frontage and places building lots.
func (g *Generator) buildParcels(roads []Road, villages []Village) []Parcel {
	hc := g.cfg.Houses
	seed := g.cfg.Seed

	villageByID := make(map[string]Village, len(villages))
	for _, v := range villages {
		villageByID[v.ID] = v
	}

	var parcels []Parcel
	perVillage := make(map[string]int)

	for _, r := range roads {
		if len(r.Points) < 2 {
			continue
		}
		spacing := hc.Spacing * parcelSpacingFactor(r.Type)
		chance := hc.SideChance * parcelChanceFactor(r.Type)
		total := polylineLength(r.Points)

		arcBase := 0.0
		for seg := 1; seg < len(r.Points); seg++ {
			a, b := r.Points[seg-1], r.Points[seg]
			segLen := dist(a, b)
			if segLen <= 1e-9 {
				continue
			}
			tx := (b.X - a.X) / segLen
			ty := (b.Y - a.Y) / segLen
			nx, ny := -ty, tx
			angle := math.Atan2(ty, tx)

			stepIdx := 0
			for d := spacing * 0.5; d < segLen; d += spacing {
				sample := Point{X: a.X + tx*d, Y: a.Y + ty*d}
				arcPos := arcBase + d

				for _, side := range []int{1, -1} {
					pid := parcelID(r.ID, seg-1, stepIdx, side)
					if roll(seed, "parcel", pid) >= chance {
						continue
					}

					depth := lerp(hc.DepthMin, hc.DepthMax, roll(seed, "parcel-depth", pid))
					width := lerp(hc.WidthMin, hc.WidthMax, roll(seed, "parcel-width", pid))
					setback := lerp(hc.SetbackMin, hc.SetbackMax, roll(seed, "parcel-setback", pid))

					offset := float64(side) * (setback + depth/2)
					pos := Point{X: sample.X + nx*offset, Y: sample.Y + ny*offset}

					s := g.terrain.Probe(pos.X, pos.Y)
					if s.WaterDepth > waterEps || s.Slope > hc.MaxSlope {
						continue
					}
					if tooNearParcel(pos, parcels) {
						continue
					}

					// Owning village is the nearer endpoint by arc position.
					ownerID := r.FromVillage
					if arcPos > total/2 {
						ownerID = r.ToVillage
					}
					if perVillage[ownerID] >= parcelVillageCap {
						continue
					}
					if r.Type != RoadLocal {
						owner, ok := villageByID[ownerID]
						if !ok {
							continue
						}
						vd := dist(pos, owner.Position)
						if vd < owner.Radius*parcelBandMinRadii || vd > owner.Radius*parcelBandMaxRadii {
							continue
						}
					}

					parcels = append(parcels, Parcel{
						ID:            pid,
						VillageID:     ownerID,
						RoadID:        r.ID,
						RoadType:      r.Type,
						RoadHierarchy: r.Hierarchy,
						Position:      pos,
						Width:         width,
						Depth:         depth,
						Angle:         angle,
						Side:          side,
					})
					perVillage[ownerID]++
				}
				stepIdx++
			}
			arcBase += segLen
		}
	}
	return parcels
}

// tooNearParcel is a naive O(n) separation scan — fine at regional scale.
func tooNearParcel(pos Point, parcels []Parcel) bool {
	for i := range parcels {
		if dist(pos, parcels[i].Position) < parcelMinSeparation {
			return true
		}
	}
	return false
}
