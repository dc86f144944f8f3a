// Per-village local street network: template-driven trunk axes, connectors
// to the regional network, and spaced branch streets, each validated
// against terrain, duplicate alignment, and illegal crossings.
// See design doc Section 4.3.
package settlement

import (
	"math"
	"sort"
)

const (
	// duplicateThreshold rejects a street whose midpoint passes this close
	// to a near-parallel existing road.
	duplicateThreshold = 18.0

	// alignmentCosine is the |cos| above which two directions count as
	// near-parallel for the distinctness check.
	alignmentCosine = 0.86

	// endpointTolerance is how close an intersection must be to either
	// line's own endpoints to count as a junction rather than a crossing.
	endpointTolerance = 10.0

	// minBranchEndpointDistance keeps branch streets away from every
	// existing road endpoint.
	minBranchEndpointDistance = 20.0
)

// streetPattern is the local network recipe for one village template.
// Lengths are multiples of the village radius.
type streetPattern struct {
	trunkCount       int
	trunkLenMin      float64
	trunkLenMax      float64
	trunkHierarchy   RoadHierarchy
	connectorCount   int
	connectorHier    RoadHierarchy
	connectorMaxDist float64 // × radius
	branchChance     float64
	branchLenMin     float64
	branchLenMax     float64
	branchHier       RoadHierarchy
	branchSpacing    float64 // world units between branch slots
	branchCapBase    int
}

// streetPatterns maps each village template to its pattern. Lakeside gets a
// single long trunk with loose branches, crossroad two perpendicular trunks
// with denser infill, linear one shorter trunk.
var streetPatterns = map[VillageTemplate]streetPattern{
	TemplateLakeside: {
		trunkCount: 1, trunkLenMin: 1.7, trunkLenMax: 2.5, trunkHierarchy: HierarchyLane,
		connectorCount: 1, connectorHier: HierarchyLane, connectorMaxDist: 2.2,
		branchChance: 0.45, branchLenMin: 0.35, branchLenMax: 0.8, branchHier: HierarchyPath,
		branchSpacing: 48, branchCapBase: 2,
	},
	TemplateCrossroad: {
		trunkCount: 2, trunkLenMin: 1.2, trunkLenMax: 1.9, trunkHierarchy: HierarchyLane,
		connectorCount: 2, connectorHier: HierarchyLane, connectorMaxDist: 1.8,
		branchChance: 0.55, branchLenMin: 0.3, branchLenMax: 0.7, branchHier: HierarchyPath,
		branchSpacing: 38, branchCapBase: 3,
	},
	TemplateLinear: {
		trunkCount: 1, trunkLenMin: 0.9, trunkLenMax: 1.5, trunkHierarchy: HierarchyLane,
		connectorCount: 1, connectorHier: HierarchyPath, connectorMaxDist: 1.6,
		branchChance: 0.4, branchLenMin: 0.3, branchLenMax: 0.6, branchHier: HierarchyPath,
		branchSpacing: 44, branchCapBase: 1,
	},
}

type localTrunk struct {
	road  Road
	spoke int
	dirX  float64
	dirY  float64
}

// buildLocalNetwork generates the street network for one village against
// the already-routed regional roads.
func (g *Generator) buildLocalNetwork(v Village, regional []Road) []Road {
	pattern := streetPatterns[v.Template]
	seed := g.cfg.Seed

	// Large or density-rolled crossroad villages get denser infill.
	if v.Template == TemplateCrossroad {
		mid := (g.cfg.Settlement.MinRadius + g.cfg.Settlement.MaxRadius) / 2
		if v.Radius > mid || roll(seed, "local-density", v.ID) < 0.45 {
			pattern.connectorCount++
			pattern.branchChance = math.Min(0.85, pattern.branchChance*1.3)
		}
	}

	axisX, axisY := g.localAxis(v, regional)

	existing := make([]Road, 0, len(regional)+8)
	existing = append(existing, regional...)
	var streets []Road
	var trunks []localTrunk
	spoke := 0

	// Trunk axes.
	for t := 0; t < pattern.trunkCount; t++ {
		angle := math.Atan2(axisY, axisX) + float64(t)*math.Pi/2
		angle += (roll(seed, "trunk-jitter", v.ID, itoa(t)) - 0.5) * 0.16
		dx, dy := math.Cos(angle), math.Sin(angle)

		length := v.Radius * lerp(pattern.trunkLenMin, pattern.trunkLenMax, roll(seed, "trunk-len", v.ID, itoa(t)))
		a := Point{X: v.Position.X - dx*length/2, Y: v.Position.Y - dy*length/2}
		b := Point{X: v.Position.X + dx*length/2, Y: v.Position.Y + dy*length/2}
		pts := g.jitteredLine(a, b, localSpokeID(v.ID, spoke))

		if !g.terrainOKForStreet(pts) {
			continue
		}
		// Trunks are checked against other local streets only: a main
		// street may legitimately run parallel to the through-road.
		mid := pointAlong(pts, polylineLength(pts)/2)
		if !isDistinct(mid, dx, dy, streets) {
			continue
		}

		road := Road{
			ID:          localSpokeID(v.ID, spoke),
			Type:        RoadLocal,
			Hierarchy:   pattern.trunkHierarchy,
			Width:       g.cfg.Roads.LocalWidth,
			Points:      pts,
			FromVillage: v.ID,
			ToVillage:   v.ID,
		}
		streets = append(streets, road)
		existing = append(existing, road)
		trunks = append(trunks, localTrunk{road: road, spoke: spoke, dirX: dx, dirY: dy})
		spoke++
	}

	// Connectors: each trunk reaches for the nearest point on a nearby
	// regional road, within the template's distance budget.
	connectors := 0
	for _, tr := range trunks {
		if connectors >= pattern.connectorCount {
			break
		}
		end := tr.road.Points[len(tr.road.Points)-1]
		target, targetDist := nearestRegionalPoint(end, regional)
		if targetDist > pattern.connectorMaxDist*v.Radius || targetDist < 1e-9 {
			continue
		}
		pts := g.jitteredLine(end, target, localSpokeID(v.ID, spoke))
		segLen := dist(end, target)
		cdx, cdy := (target.X-end.X)/segLen, (target.Y-end.Y)/segLen

		mid := pointAlong(pts, polylineLength(pts)/2)
		if !g.terrainOKForStreet(pts) ||
			!isDistinct(mid, cdx, cdy, existing) ||
			hasIllegalIntersection(pts, existing) {
			continue
		}

		road := Road{
			ID:          localSpokeID(v.ID, spoke),
			Type:        RoadLocal,
			Hierarchy:   pattern.connectorHier,
			Width:       g.cfg.Roads.LocalWidth,
			Points:      pts,
			FromVillage: v.ID,
			ToVillage:   v.ID,
		}
		streets = append(streets, road)
		existing = append(existing, road)
		spoke++
		connectors++
	}

	// Branch streets at spaced slots along each trunk.
	maxBranches := int(v.Radius/25) + pattern.branchCapBase
	branches := 0
	for _, tr := range trunks {
		if branches >= maxBranches {
			break
		}
		trunkLen := polylineLength(tr.road.Points)
		branchIdx := 0
		for d := pattern.branchSpacing * 0.5; d < trunkLen && branches < maxBranches; d += pattern.branchSpacing {
			slot := itoa(tr.spoke) + "-" + itoa(branchIdx)
			branchIdx++
			if roll(seed, "branch", v.ID, slot) >= pattern.branchChance {
				continue
			}

			origin := pointAlong(tr.road.Points, d)
			side := rollSign(seed, "branch-side", v.ID, slot)
			bdx, bdy := -tr.dirY*side, tr.dirX*side
			length := v.Radius * lerp(pattern.branchLenMin, pattern.branchLenMax, roll(seed, "branch-len", v.ID, slot))
			tip := Point{X: origin.X + bdx*length, Y: origin.Y + bdy*length}

			id := localBranchID(v.ID, tr.spoke, branchIdx-1)
			pts := g.jitteredLine(origin, tip, id)
			mid := pointAlong(pts, polylineLength(pts)/2)
			if !g.terrainOKForStreet(pts) ||
				!isDistinct(mid, bdx, bdy, existing) ||
				hasIllegalIntersection(pts, existing) ||
				tooNearAnyEndpoint(tip, existing) {
				continue
			}

			road := Road{
				ID:          id,
				Type:        RoadLocal,
				Hierarchy:   pattern.branchHier,
				Width:       g.cfg.Roads.LocalWidth,
				Points:      pts,
				FromVillage: v.ID,
				ToVillage:   v.ID,
			}
			streets = append(streets, road)
			existing = append(existing, road)
			branches++
		}
	}

	return streets
}

// localAxis estimates the village's street orientation from the tangent of
// the nearest regional road, falling back to a seeded random angle.
func (g *Generator) localAxis(v Village, regional []Road) (float64, float64) {
	bestDist := math.Inf(1)
	tx, ty := 0.0, 0.0
	for _, r := range regional {
		_, d, rtx, rty := nearestOnPolyline(v.Position, r.Points)
		if d < bestDist {
			bestDist = d
			tx, ty = rtx, rty
		}
	}
	if math.IsInf(bestDist, 1) {
		angle := roll(g.cfg.Seed, "local-axis", v.ID) * 2 * math.Pi
		return math.Cos(angle), math.Sin(angle)
	}
	return tx, ty
}

// nearestRegionalPoint returns the closest point on any regional road.
func nearestRegionalPoint(p Point, regional []Road) (Point, float64) {
	best := Point{}
	bestDist := math.Inf(1)
	for _, r := range regional {
		q, d, _, _ := nearestOnPolyline(p, r.Points)
		if d < bestDist {
			bestDist = d
			best = q
		}
	}
	return best, bestDist
}

// jitteredLine samples a straight street into a short polyline with small
// deterministic lateral jitter on interior points, endpoints exact.
func (g *Generator) jitteredLine(a, b Point, key string) []Point {
	const segments = 4
	d := dist(a, b)
	nx, ny := 0.0, 0.0
	if d > 1e-9 {
		nx = -(b.Y - a.Y) / d
		ny = (b.X - a.X) / d
	}
	pts := make([]Point, segments+1)
	for i := 0; i <= segments; i++ {
		t := float64(i) / segments
		p := lerpPoint(a, b, t)
		if i > 0 && i < segments {
			off := (roll(g.cfg.Seed, "street-jitter", key, itoa(i)) - 0.5) * d * 0.04
			p.X += nx * off
			p.Y += ny * off
		}
		pts[i] = p
	}
	return pts
}

// terrainOKForStreet rejects a street touching water anywhere along it.
func (g *Generator) terrainOKForStreet(pts []Point) bool {
	step := g.cfg.Roads.RouteStep * 0.5
	total := polylineLength(pts)
	n := int(math.Ceil(total / step))
	if n < 1 {
		n = 1
	}
	for i := 0; i <= n; i++ {
		p := pointAlong(pts, total*float64(i)/float64(n))
		if g.terrain.Probe(p.X, p.Y).WaterDepth > waterEps {
			return false
		}
	}
	return true
}

// isDistinct rejects a street whose midpoint lies close to a near-parallel
// existing road.
func isDistinct(mid Point, dx, dy float64, existing []Road) bool {
	for _, r := range existing {
		_, d, tx, ty := nearestOnPolyline(mid, r.Points)
		if d >= duplicateThreshold {
			continue
		}
		if math.Abs(dx*tx+dy*ty) > alignmentCosine {
			return false
		}
	}
	return true
}

// hasIllegalIntersection reports a crossing with an existing road that is
// not within the endpoint tolerance of either line — i.e. it would be a
// random crossing rather than a junction.
func hasIllegalIntersection(pts []Point, existing []Road) bool {
	for _, r := range existing {
		for i := 1; i < len(pts); i++ {
			for j := 1; j < len(r.Points); j++ {
				x, ok := segmentsIntersect(pts[i-1], pts[i], r.Points[j-1], r.Points[j])
				if !ok {
					continue
				}
				if nearLineEndpoint(x, pts) || nearLineEndpoint(x, r.Points) {
					continue
				}
				return true
			}
		}
	}
	return false
}

func nearLineEndpoint(p Point, pts []Point) bool {
	return dist(p, pts[0]) <= endpointTolerance || dist(p, pts[len(pts)-1]) <= endpointTolerance
}

// tooNearAnyEndpoint checks the branch tip against all existing road
// endpoints.
func tooNearAnyEndpoint(tip Point, existing []Road) bool {
	for _, r := range existing {
		if dist(tip, r.Points[0]) < minBranchEndpointDistance ||
			dist(tip, r.Points[len(r.Points)-1]) < minBranchEndpointDistance {
			return true
		}
	}
	return false
}

// sortRoadsByID gives road slices a canonical order for digesting and
// stable downstream iteration.
func sortRoadsByID(roads []Road) {
	sort.Slice(roads, func(i, j int) bool { return roads[i].ID < roads[j].ID })
}
