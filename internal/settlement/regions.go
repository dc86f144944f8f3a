// Region cache and query layer. The infinite world is tiled into
// fixed-size regions; each region's layout is generated over a padded
// superset rectangle and clipped to the region's core bounds, so adjacent
// regions agree on shared-boundary entities by id. See design doc
// Section 4.7.
package settlement

import (
	"math"
	"sort"
)

// regionLayout returns the memoized layout for a region, computing it on
// first use.
func (g *Generator) regionLayout(key regionKey) *Layout {
	if l, ok := g.regions.get(key); ok {
		return l
	}
	l := g.buildRegionLayout(key.X, key.Y)
	g.regions.put(key, l)
	return l
}

// buildRegionLayout generates all settlement entities over the region's
// padded bounds and clips the result to the core bounds.
func (g *Generator) buildRegionLayout(rx, ry int) *Layout {
	size := g.cfg.Roads.RegionSize
	core := Bounds{
		MinX: float64(rx) * size,
		MaxX: float64(rx+1) * size,
		MinY: float64(ry) * size,
		MaxY: float64(ry+1) * size,
	}
	// Padding wide enough that every entity relevant to the core — roads
	// reaching in from outside, villages owning border parcels — is
	// generated identically by every region that can see it.
	padded := core.Expand(g.cfg.Roads.MaxConnectionDistance + g.cfg.Settlement.CellSize)

	villages := g.collectVillagesInBounds(padded)
	roads := g.buildRegionalNetwork(villages)
	regional := roads
	for _, v := range villages {
		roads = append(roads, g.buildLocalNetwork(v, regional)...)
	}
	sortRoadsByID(roads)

	nodes, edges := g.buildRoadGraph(roads, villages)
	parcels := g.buildParcels(roads, villages)
	houses := g.buildHouses(parcels)

	return clipLayout(rx, ry, core, villages, roads, nodes, edges, parcels, houses)
}

// clipLayout keeps point entities by containment, roads by midpoint
// containment, edges by their owning road, and nodes by containment or
// membership in a kept edge.
func clipLayout(rx, ry int, core Bounds, villages []Village, roads []Road, nodes []RoadNode, edges []RoadEdge, parcels []Parcel, houses []House) *Layout {
	l := &Layout{RegionX: rx, RegionY: ry}

	for _, v := range villages {
		if core.Contains(v.Position) {
			l.Villages = append(l.Villages, v)
		}
	}

	keptRoads := make(map[string]bool, len(roads))
	for _, r := range roads {
		mid := pointAlong(r.Points, polylineLength(r.Points)/2)
		if core.Contains(mid) {
			keptRoads[r.ID] = true
			l.Roads = append(l.Roads, r)
		}
	}

	keptNodeIDs := make(map[string]bool)
	for _, e := range edges {
		if !keptRoads[e.RoadID] {
			continue
		}
		l.RoadEdges = append(l.RoadEdges, e)
		keptNodeIDs[e.FromNode] = true
		keptNodeIDs[e.ToNode] = true
		for _, b := range e.BridgeNodeIDs {
			keptNodeIDs[b] = true
		}
	}
	for _, n := range nodes {
		if keptNodeIDs[n.ID] || core.Contains(n.Position) {
			l.RoadNodes = append(l.RoadNodes, n)
		}
	}

	for _, p := range parcels {
		if core.Contains(p.Position) {
			l.Parcels = append(l.Parcels, p)
		}
	}
	for _, h := range houses {
		if core.Contains(h.Position) {
			l.Houses = append(l.Houses, h)
		}
	}
	return l
}

// featuresForBounds unions the layouts of every region overlapping the
// query rectangle (with a one-cell margin), deduplicating entities by id.
func (g *Generator) featuresForBounds(b Bounds) Features {
	size := g.cfg.Roads.RegionSize
	q := b.Expand(g.cfg.Settlement.CellSize)

	minRX := int(math.Floor(q.MinX / size))
	maxRX := int(math.Floor(q.MaxX / size))
	minRY := int(math.Floor(q.MinY / size))
	maxRY := int(math.Floor(q.MaxY / size))

	villages := make(map[string]Village)
	roads := make(map[string]Road)
	nodes := make(map[string]RoadNode)
	edges := make(map[string]RoadEdge)
	parcels := make(map[string]Parcel)
	houses := make(map[string]House)

	for ry := minRY; ry <= maxRY; ry++ {
		for rx := minRX; rx <= maxRX; rx++ {
			l := g.regionLayout(regionKey{X: rx, Y: ry})
			for _, v := range l.Villages {
				villages[v.ID] = v
			}
			for _, r := range l.Roads {
				roads[r.ID] = r
			}
			for _, n := range l.RoadNodes {
				nodes[n.ID] = n
			}
			for _, e := range l.RoadEdges {
				edges[e.ID] = e
			}
			for _, p := range l.Parcels {
				parcels[p.ID] = p
			}
			for _, h := range l.Houses {
				houses[h.ID] = h
			}
		}
	}

	var out Features
	for _, v := range villages {
		out.Villages = append(out.Villages, v)
	}
	for _, r := range roads {
		out.Roads = append(out.Roads, r)
	}
	for _, n := range nodes {
		out.RoadNodes = append(out.RoadNodes, n)
	}
	for _, e := range edges {
		out.RoadEdges = append(out.RoadEdges, e)
	}
	for _, p := range parcels {
		out.Parcels = append(out.Parcels, p)
	}
	for _, h := range houses {
		out.Houses = append(out.Houses, h)
	}

	sort.Slice(out.Villages, func(i, j int) bool { return out.Villages[i].ID < out.Villages[j].ID })
	sortRoadsByID(out.Roads)
	sort.Slice(out.RoadNodes, func(i, j int) bool { return out.RoadNodes[i].ID < out.RoadNodes[j].ID })
	sort.Slice(out.RoadEdges, func(i, j int) bool { return out.RoadEdges[i].ID < out.RoadEdges[j].ID })
	sort.Slice(out.Parcels, func(i, j int) bool { return out.Parcels[i].ID < out.Parcels[j].ID })
	sort.Slice(out.Houses, func(i, j int) bool { return out.Houses[i].ID < out.Houses[j].ID })
	return out
}
