package settlement

import (
	"math"
	"strings"
	"testing"
)

func TestRegionalNetworkSpansVillages(t *testing.T) {
	cfg := testConfig()
	cfg.Roads.LoopChance = 0 // spanning tree only
	g := NewGenerator(cfg, flatOracle{moisture: 0.5})

	villages := testVillages(5, 200)
	roads := g.buildRegionalNetwork(villages)

	if len(roads) != len(villages)-1 {
		t.Fatalf("got %d roads, want %d (spanning tree)", len(roads), len(villages)-1)
	}

	// Every village must be reachable.
	adj := make(map[string][]string)
	for _, r := range roads {
		adj[r.FromVillage] = append(adj[r.FromVillage], r.ToVillage)
		adj[r.ToVillage] = append(adj[r.ToVillage], r.FromVillage)
	}
	seen := map[string]bool{villages[0].ID: true}
	queue := []string{villages[0].ID}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range adj[cur] {
			if !seen[n] {
				seen[n] = true
				queue = append(queue, n)
			}
		}
	}
	if len(seen) != len(villages) {
		t.Errorf("network connects %d of %d villages", len(seen), len(villages))
	}
}

func TestRegionalNetworkDeterministic(t *testing.T) {
	cfg := testConfig()
	villages := testVillages(6, 250)

	g1 := NewGenerator(cfg, flatOracle{moisture: 0.5})
	g2 := NewGenerator(cfg, flatOracle{moisture: 0.5})
	r1 := g1.buildRegionalNetwork(villages)
	r2 := g2.buildRegionalNetwork(villages)

	if len(r1) != len(r2) {
		t.Fatalf("road counts differ: %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i].ID != r2[i].ID || len(r1[i].Points) != len(r2[i].Points) {
			t.Fatalf("road %d differs: %s vs %s", i, r1[i].ID, r2[i].ID)
		}
		for j := range r1[i].Points {
			if r1[i].Points[j] != r2[i].Points[j] {
				t.Errorf("road %s point %d differs", r1[i].ID, j)
			}
		}
	}
}

func TestRouteRoadEndpointsPinned(t *testing.T) {
	cfg := testConfig()
	g := NewGenerator(cfg, flatOracle{moisture: 0.5})
	villages := testVillages(2, 500)
	roads := g.buildRegionalNetwork(villages)
	if len(roads) != 1 {
		t.Fatalf("got %d roads, want 1", len(roads))
	}
	r := roads[0]
	if r.Points[0] != villages[0].Position || r.Points[len(r.Points)-1] != villages[1].Position {
		t.Errorf("endpoints not pinned to village centers: %v .. %v", r.Points[0], r.Points[len(r.Points)-1])
	}
	if !strings.HasPrefix(r.ID, "r-") {
		t.Errorf("regional road id %q lacks r- prefix", r.ID)
	}
	if len(r.Points) < 3 {
		t.Errorf("routed polyline too short: %d points", len(r.Points))
	}
}

func TestRoadClassificationByDistance(t *testing.T) {
	cfg := testConfig() // MaxConnectionDistance 900, major above 0.55*900=495
	g := NewGenerator(cfg, flatOracle{moisture: 0.5})

	short := g.buildRegionalNetwork(testVillages(2, 300))
	long := g.buildRegionalNetwork(testVillages(2, 600))
	if len(short) != 1 || len(long) != 1 {
		t.Fatalf("expected 1 road each, got %d and %d", len(short), len(long))
	}
	if short[0].Type != RoadMinor || short[0].Hierarchy != HierarchyCollector {
		t.Errorf("short road classified %s/%s, want minor/collector", short[0].Type, short[0].Hierarchy)
	}
	if long[0].Type != RoadMajor || long[0].Hierarchy != HierarchyArterial {
		t.Errorf("long road classified %s/%s, want major/arterial", long[0].Type, long[0].Hierarchy)
	}
	if short[0].Width != cfg.Roads.MinorWidth || long[0].Width != cfg.Roads.MajorWidth {
		t.Errorf("widths %v/%v, want %v/%v", short[0].Width, long[0].Width, cfg.Roads.MinorWidth, cfg.Roads.MajorWidth)
	}
}

func TestVillagesBeyondConnectionLimitUnlinked(t *testing.T) {
	cfg := testConfig()
	g := NewGenerator(cfg, flatOracle{moisture: 0.5})
	villages := testVillages(2, cfg.Roads.MaxConnectionDistance+1)
	if roads := g.buildRegionalNetwork(villages); len(roads) != 0 {
		t.Errorf("linked villages %v apart, limit %v", cfg.Roads.MaxConnectionDistance+1, cfg.Roads.MaxConnectionDistance)
	}
}

func TestEstimateEdgeWeightPenalizesWater(t *testing.T) {
	cfg := testConfig()
	dry := NewGenerator(cfg, flatOracle{moisture: 0.5})
	wet := NewGenerator(cfg, stripOracle{minX: 200, maxX: 400, depth: 0.1})

	a, b := Point{0, 0}, Point{600, 0}
	wDry := dry.estimateEdgeWeight(a, b, 600)
	wWet := wet.estimateEdgeWeight(a, b, 600)
	if wDry != 600 {
		t.Errorf("dry weight = %v, want raw distance 600", wDry)
	}
	if wWet <= wDry {
		t.Errorf("water crossing weight %v not above dry %v", wWet, wDry)
	}
}

func TestSmoothPolylinePinsEndpoints(t *testing.T) {
	pts := []Point{{0, 0}, {10, 8}, {20, -3}, {30, 0}}
	first, last := pts[0], pts[3]
	smoothPolyline(pts)
	if pts[0] != first || pts[3] != last {
		t.Error("smoothing moved an endpoint")
	}
	// Interior points move toward their neighbors' average.
	if math.Abs(pts[1].Y-8) < 1e-12 {
		t.Error("smoothing left interior point untouched")
	}
}

func TestFindBridgeableWaterRun(t *testing.T) {
	cfg := testConfig()

	line := func(n int, step float64) []Point {
		pts := make([]Point, n)
		for i := range pts {
			pts[i] = Point{X: float64(i) * step, Y: 0}
		}
		return pts
	}

	tests := []struct {
		name   string
		oracle stripOracle
		wantOK bool
	}{
		{"short shallow crossing", stripOracle{minX: 390, maxX: 410, depth: 0.03}, true},
		{"too deep", stripOracle{minX: 390, maxX: 410, depth: 0.2}, false},
		{"too wide", stripOracle{minX: 250, maxX: 550, depth: 0.03}, false},
		{"touches start", stripOracle{minX: 0, maxX: 40, depth: 0.03}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(cfg, tt.oracle)
			start, end, ok := g.findBridgeableWaterRun(line(33, 25))
			if ok != tt.wantOK {
				t.Fatalf("ok = %v, want %v (run %d..%d)", ok, tt.wantOK, start, end)
			}
			if ok && (start < 2 || end > 30) {
				t.Errorf("run %d..%d not interior", start, end)
			}
		})
	}
}

func TestUnionFind(t *testing.T) {
	uf := newUnionFind(5)
	if !uf.union(0, 1) || !uf.union(2, 3) {
		t.Fatal("fresh unions reported already joined")
	}
	if uf.union(1, 0) {
		t.Error("repeated union reported a join")
	}
	if uf.find(0) == uf.find(2) {
		t.Error("separate components share a root")
	}
	uf.union(1, 3)
	if uf.find(0) != uf.find(2) {
		t.Error("merged components have different roots")
	}
	if uf.find(4) == uf.find(0) {
		t.Error("singleton joined a component")
	}
}
