// Regional road network: nearest-neighbor candidate edges weighted by
// terrain traversal cost, a Kruskal spanning tree for connectivity, and a
// bounded number of probabilistic loop edges for redundancy. Accepted
// edges are materialized into curved, smoothed, water-avoiding polylines.
// See design doc Section 4.2.
package settlement

import (
	"math"
	"sort"
)

const (
	// Fraction of the village count re-added as redundant loop edges.
	loopEdgeFraction = 0.28

	// Edges longer than this fraction of MaxConnectionDistance are major.
	majorDistanceFraction = 0.55

	// Bridgeable water run limits (findBridgeableWaterRun).
	bridgeMaxRunSamples = 4
	bridgeMaxSpan       = 120.0
	bridgeMaxDepth      = 0.05
)

// regionalEdge is a candidate connection between two villages.
type regionalEdge struct {
	key    string // unordered village-id pair, lexicographic
	a, b   int    // village indices
	dist   float64
	weight float64 // dist inflated by averaged terrain penalty
}

// buildRegionalNetwork connects the given villages into a road set: a
// minimum-weight spanning forest plus a bounded number of loop edges.
// Fewer than two villages yields no roads.
func (g *Generator) buildRegionalNetwork(villages []Village) []Road {
	if len(villages) < 2 {
		return nil
	}
	rc := g.cfg.Roads

	// Candidate edges: up to NearestNeighbors per village, deduplicated by
	// unordered id pair.
	byKey := make(map[string]regionalEdge)
	for i, v := range villages {
		neighbors := make([]regionalEdge, 0, len(villages)-1)
		for j, w := range villages {
			if i == j {
				continue
			}
			d := dist(v.Position, w.Position)
			if d > rc.MaxConnectionDistance {
				continue
			}
			e := regionalEdge{key: edgeKey(v.ID, w.ID), a: i, b: j, dist: d}
			e.weight = g.estimateEdgeWeight(v.Position, w.Position, d)
			neighbors = append(neighbors, e)
		}
		sort.Slice(neighbors, func(x, y int) bool {
			if neighbors[x].weight != neighbors[y].weight {
				return neighbors[x].weight < neighbors[y].weight
			}
			return neighbors[x].key < neighbors[y].key
		})
		if len(neighbors) > rc.NearestNeighbors {
			neighbors = neighbors[:rc.NearestNeighbors]
		}
		for _, e := range neighbors {
			if _, ok := byKey[e.key]; !ok {
				byKey[e.key] = e
			}
		}
	}

	edges := make([]regionalEdge, 0, len(byKey))
	for _, e := range byKey {
		edges = append(edges, e)
	}
	sort.Slice(edges, func(x, y int) bool {
		if edges[x].weight != edges[y].weight {
			return edges[x].weight < edges[y].weight
		}
		return edges[x].key < edges[y].key
	})

	// Kruskal: accept an edge only if it joins two components.
	uf := newUnionFind(len(villages))
	accepted := make([]regionalEdge, 0, len(villages))
	leftovers := make([]regionalEdge, 0, len(edges))
	for _, e := range edges {
		if uf.union(e.a, e.b) {
			accepted = append(accepted, e)
		} else {
			leftovers = append(leftovers, e)
		}
	}

	// Redundant loops: leftovers stay in (weight, key) order so the
	// selection is deterministic across runs and implementations. The
	// acceptance chance shrinks as the edge approaches the connection limit.
	maxLoops := int(float64(len(villages)) * loopEdgeFraction)
	loops := 0
	for _, e := range leftovers {
		if loops >= maxLoops {
			break
		}
		threshold := rc.LoopChance * (1 - e.dist/rc.MaxConnectionDistance)
		if roll(g.cfg.Seed, "loop", e.key) < threshold {
			accepted = append(accepted, e)
			loops++
		}
	}

	roads := make([]Road, 0, len(accepted))
	for _, e := range accepted {
		roads = append(roads, g.routeRoad(e, villages[e.a], villages[e.b]))
	}
	return roads
}

// estimateEdgeWeight walks the straight segment in fixed steps and inflates
// the raw distance by the averaged terrain penalty: water costs at least
// triple (scaled further by depth) and slope adds linearly.
func (g *Generator) estimateEdgeWeight(a, b Point, d float64) float64 {
	step := g.cfg.Roads.RouteStep
	n := int(math.Ceil(d / step))
	if n < 1 {
		n = 1
	}
	penalty := 0.0
	for i := 0; i <= n; i++ {
		p := lerpPoint(a, b, float64(i)/float64(n))
		s := g.terrain.Probe(p.X, p.Y)
		if s.WaterDepth > waterEps {
			penalty += 3 + s.WaterDepth*40
		}
		penalty += s.Slope * 1.5
	}
	return d * (1 + penalty/float64(n+1))
}

// routeRoad materializes an accepted edge into a polyline: straight
// interpolation with a sinusoidally tapered lateral offset, Laplacian
// smoothing with pinned endpoints, then iterative water avoidance that
// spares a detected bridgeable run. Endpoints always land exactly on the
// village centers.
func (g *Generator) routeRoad(e regionalEdge, va, vb Village) Road {
	rc := g.cfg.Roads
	seed := g.cfg.Seed
	id := regionalRoadID(e.key)

	n := int(math.Ceil(e.dist / rc.RouteStep))
	if n < 2 {
		n = 2
	}

	// Unit normal of the straight line, for lateral offsets.
	nx, ny := 0.0, 0.0
	if e.dist > 1e-9 {
		nx = -(vb.Position.Y - va.Position.Y) / e.dist
		ny = (vb.Position.X - va.Position.X) / e.dist
	}
	amp := rc.Curvature * e.dist * 0.08

	pts := make([]Point, n+1)
	for i := 0; i <= n; i++ {
		t := float64(i) / float64(n)
		p := lerpPoint(va.Position, vb.Position, t)
		if i > 0 && i < n {
			step := itoa(i)
			off := math.Sin(math.Pi*t) * amp * roll(seed, "curve", id, step) * rollSign(seed, "curve-sign", id, step)
			p.X += nx * off
			p.Y += ny * off
		}
		pts[i] = p
	}

	passes := 1 + int(hashKey(seed, "smooth", id)%2)
	for p := 0; p < passes; p++ {
		smoothPolyline(pts)
	}
	pts[0], pts[n] = va.Position, vb.Position

	g.avoidWater(pts)
	pts[0], pts[n] = va.Position, vb.Position

	typ := RoadMinor
	hier := HierarchyCollector
	width := rc.MinorWidth
	if e.dist > majorDistanceFraction*rc.MaxConnectionDistance {
		typ, hier, width = RoadMajor, HierarchyArterial, rc.MajorWidth
	}

	return Road{
		ID:          id,
		Type:        typ,
		Hierarchy:   hier,
		Width:       width,
		Points:      pts,
		FromVillage: va.ID,
		ToVillage:   vb.ID,
	}
}

// smoothPolyline applies one 3-point Laplacian averaging pass to interior
// points, leaving the endpoints untouched.
func smoothPolyline(pts []Point) {
	if len(pts) < 3 {
		return
	}
	prev := pts[0]
	for i := 1; i < len(pts)-1; i++ {
		cur := pts[i]
		pts[i] = Point{
			X: (prev.X + cur.X + pts[i+1].X) / 3,
			Y: (prev.Y + cur.Y + pts[i+1].Y) / 3,
		}
		prev = cur
	}
}

// avoidWater iteratively pushes interior points sitting in water along the
// local terrain gradient, scaled by depth. A detected bridgeable run is
// left in place so a bridge node can later span it.
func (g *Generator) avoidWater(pts []Point) {
	if len(pts) < 3 {
		return
	}
	step := g.cfg.Roads.RouteStep
	runStart, runEnd, bridged := g.findBridgeableWaterRun(pts)

	const maxIters = 4
	for iter := 0; iter < maxIters; iter++ {
		moved := false
		for i := 1; i < len(pts)-1; i++ {
			if bridged && i >= runStart && i <= runEnd {
				continue
			}
			s := g.terrain.Probe(pts[i].X, pts[i].Y)
			if s.WaterDepth <= waterEps {
				continue
			}
			gx, gy := g.terrain.GradientAt(pts[i].X, pts[i].Y, step*0.5)
			if gx == 0 && gy == 0 {
				continue
			}
			push := step*0.5 + s.WaterDepth*step*6
			pts[i].X += gx * push
			pts[i].Y += gy * push
			moved = true
		}
		if !moved {
			break
		}
	}
}

// findBridgeableWaterRun looks for a single short, shallow, interior water
// crossing: one contiguous in-water run of at most bridgeMaxRunSamples
// interior samples, clear of the first and last two points at both ends,
// spanning at most bridgeMaxSpan units, no deeper than bridgeMaxDepth.
func (g *Generator) findBridgeableWaterRun(pts []Point) (start, end int, ok bool) {
	type run struct {
		start, end int
		maxDepth   float64
	}
	var runs []run
	open := false
	for i := 1; i < len(pts)-1; i++ {
		s := g.terrain.Probe(pts[i].X, pts[i].Y)
		if s.WaterDepth > waterEps {
			if !open {
				runs = append(runs, run{start: i, end: i, maxDepth: s.WaterDepth})
				open = true
			} else {
				r := &runs[len(runs)-1]
				r.end = i
				if s.WaterDepth > r.maxDepth {
					r.maxDepth = s.WaterDepth
				}
			}
		} else {
			open = false
		}
	}

	if len(runs) != 1 {
		return 0, 0, false
	}
	r := runs[0]
	if r.end-r.start+1 > bridgeMaxRunSamples {
		return 0, 0, false
	}
	if r.start < 2 || r.end > len(pts)-3 {
		return 0, 0, false
	}
	if dist(pts[r.start], pts[r.end]) > bridgeMaxSpan {
		return 0, 0, false
	}
	if r.maxDepth > bridgeMaxDepth {
		return 0, 0, false
	}
	return r.start, r.end, true
}

// unionFind is a path-compressing disjoint-set over village indices.
type unionFind struct {
	parent []int
	rank   []int
}

func newUnionFind(n int) *unionFind {
	uf := &unionFind{parent: make([]int, n), rank: make([]int, n)}
	for i := range uf.parent {
		uf.parent[i] = i
	}
	return uf
}

func (u *unionFind) find(x int) int {
	for u.parent[x] != x {
		u.parent[x] = u.parent[u.parent[x]]
		x = u.parent[x]
	}
	return x
}

// union joins the components of a and b, reporting whether they were
// previously disjoint.
func (u *unionFind) union(a, b int) bool {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return false
	}
	if u.rank[ra] < u.rank[rb] {
		ra, rb = rb, ra
	}
	u.parent[rb] = ra
	if u.rank[ra] == u.rank[rb] {
		u.rank[ra]++
	}
	return true
}
