// Road graph assembly: converts routed polylines into village/junction
// nodes and edges, with bridge nodes synthesized where a road crosses
// water away from its ends. See design doc Section 4.4.
package settlement

import (
	"math"
	"sort"
)

const (
	// villageSnapDistance snaps a road endpoint onto its village's node.
	villageSnapDistance = 8.0

	// bridgeSampleStep is the polyline sampling interval for water
	// classification.
	bridgeSampleStep = 8.0

	// Water run acceptance window for bridge nodes.
	bridgeRunMinSpan = 4.0
	bridgeRunMaxSpan = 140.0
	bridgeRunMinPos  = 0.04
	bridgeRunMaxPos  = 0.96
)

// buildRoadGraph assembles the node/edge graph for a road and village set.
// Village nodes are shared identity anchors; junction and bridge nodes are
// synthesized per road.
func (g *Generator) buildRoadGraph(roads []Road, villages []Village) ([]RoadNode, []RoadEdge) {
	villageByID := make(map[string]Village, len(villages))
	for _, v := range villages {
		villageByID[v.ID] = v
	}

	nodes := make(map[string]RoadNode)
	edges := make([]RoadEdge, 0, len(roads))

	endpointNode := func(r Road, end string, p Point, villageID string) string {
		if v, ok := villageByID[villageID]; ok && dist(p, v.Position) <= villageSnapDistance {
			id := villageNodeID(v.ID)
			if _, seen := nodes[id]; !seen {
				nodes[id] = RoadNode{ID: id, Kind: NodeVillage, Position: v.Position, VillageID: v.ID}
			}
			return id
		}
		id := roadEndNodeID(r.ID, end)
		nodes[id] = RoadNode{ID: id, Kind: NodeJunction, Position: p, RoadID: r.ID}
		return id
	}

	for _, r := range roads {
		if len(r.Points) < 2 {
			continue
		}
		fromID := endpointNode(r, "start", r.Points[0], r.FromVillage)
		toID := endpointNode(r, "end", r.Points[len(r.Points)-1], r.ToVillage)

		bridgeIDs := g.bridgeNodesForRoad(r, nodes)

		edges = append(edges, RoadEdge{
			ID:            graphEdgeID(r.ID),
			RoadID:        r.ID,
			Hierarchy:     r.Hierarchy,
			FromNode:      fromID,
			ToNode:        toID,
			FromVillage:   r.FromVillage,
			ToVillage:     r.ToVillage,
			Length:        polylineLength(r.Points),
			HasBridge:     len(bridgeIDs) > 0,
			BridgeNodeIDs: bridgeIDs,
		})
	}

	nodeList := make([]RoadNode, 0, len(nodes))
	for _, n := range nodes {
		nodeList = append(nodeList, n)
	}
	sort.Slice(nodeList, func(i, j int) bool { return nodeList[i].ID < nodeList[j].ID })
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })
	return nodeList, edges
}

// bridgeNodesForRoad samples the polyline, groups contiguous in-water runs,
// and emits a bridge node at the midpoint of each run whose span and
// position fall in the acceptance window. Nodes are appended to the shared
// node map; ids are returned in order along the road.
func (g *Generator) bridgeNodesForRoad(r Road, nodes map[string]RoadNode) []string {
	total := polylineLength(r.Points)
	if total <= 0 {
		return nil
	}
	n := int(math.Ceil(total / bridgeSampleStep))
	if n < 2 {
		return nil
	}

	type run struct{ startD, endD float64 }
	var runs []run
	open := false
	for i := 0; i <= n; i++ {
		d := total * float64(i) / float64(n)
		p := pointAlong(r.Points, d)
		if g.terrain.Probe(p.X, p.Y).WaterDepth > waterEps {
			if !open {
				runs = append(runs, run{startD: d, endD: d})
				open = true
			} else {
				runs[len(runs)-1].endD = d
			}
		} else {
			open = false
		}
	}

	var ids []string
	idx := 0
	for _, ru := range runs {
		span := ru.endD - ru.startD
		if span < bridgeRunMinSpan || span > bridgeRunMaxSpan {
			continue
		}
		if ru.startD/total < bridgeRunMinPos || ru.endD/total > bridgeRunMaxPos {
			continue
		}
		id := bridgeNodeID(r.ID, idx)
		nodes[id] = RoadNode{
			ID:       id,
			Kind:     NodeBridge,
			Position: pointAlong(r.Points, (ru.startD+ru.endD)/2),
			RoadID:   r.ID,
		}
		ids = append(ids, id)
		idx++
	}
	return ids
}
