package persistence

import (
	"path/filepath"
	"testing"

	"github.com/talgya/crossroads/internal/settlement"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func sampleLayout() *settlement.Layout {
	return &settlement.Layout{
		RegionX: 2,
		RegionY: -1,
		Villages: []settlement.Village{
			{ID: "v-13,-7", Position: settlement.Point{X: 2130.5, Y: -990.25}, Score: 0.61, Radius: 104, CellX: 13, CellY: -7, Template: settlement.TemplateCrossroad},
		},
		Roads: []settlement.Road{
			{ID: "r-v-12,-7|v-13,-7", Type: settlement.RoadMinor, Hierarchy: settlement.HierarchyCollector, Width: 7,
				Points: []settlement.Point{{X: 1990, Y: -1010}, {X: 2130.5, Y: -990.25}}, FromVillage: "v-12,-7", ToVillage: "v-13,-7"},
		},
		Houses: []settlement.House{
			{ID: "h-p-rl-v-13,-7-0-0-0-1", Position: settlement.Point{X: 2140, Y: -970}, Width: 8, Depth: 6, RoofStyle: 2},
		},
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	db := openTestDB(t)
	want := sampleLayout()

	if err := db.SaveLayout("hs-1", want); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}
	got, ok, err := db.LoadLayout("hs-1", 2, -1)
	if err != nil {
		t.Fatalf("LoadLayout: %v", err)
	}
	if !ok {
		t.Fatal("saved layout not found")
	}
	if got.RegionX != want.RegionX || got.RegionY != want.RegionY {
		t.Errorf("region (%d,%d), want (2,-1)", got.RegionX, got.RegionY)
	}
	if len(got.Villages) != 1 || got.Villages[0] != want.Villages[0] {
		t.Errorf("villages round-trip mismatch: %+v", got.Villages)
	}
	if len(got.Roads) != 1 || got.Roads[0].ID != want.Roads[0].ID || len(got.Roads[0].Points) != 2 {
		t.Errorf("roads round-trip mismatch: %+v", got.Roads)
	}
	if len(got.Houses) != 1 || got.Houses[0] != want.Houses[0] {
		t.Errorf("houses round-trip mismatch: %+v", got.Houses)
	}
}

func TestLoadLayoutMisses(t *testing.T) {
	db := openTestDB(t)
	if err := db.SaveLayout("hs-1", sampleLayout()); err != nil {
		t.Fatalf("SaveLayout: %v", err)
	}

	// Wrong region.
	if _, ok, err := db.LoadLayout("hs-1", 9, 9); err != nil || ok {
		t.Errorf("unknown region: ok=%v err=%v, want miss", ok, err)
	}
	// Same region under a different handshake is a miss too: snapshots are
	// only valid for the exact parameters that generated them.
	if _, ok, err := db.LoadLayout("hs-2", 2, -1); err != nil || ok {
		t.Errorf("foreign handshake: ok=%v err=%v, want miss", ok, err)
	}
}

func TestSaveLayoutReplaces(t *testing.T) {
	db := openTestDB(t)
	l := sampleLayout()
	if err := db.SaveLayout("hs-1", l); err != nil {
		t.Fatal(err)
	}
	l.Villages[0].Score = 0.99
	if err := db.SaveLayout("hs-1", l); err != nil {
		t.Fatalf("replacing save: %v", err)
	}
	got, ok, err := db.LoadLayout("hs-1", 2, -1)
	if err != nil || !ok {
		t.Fatalf("reload: ok=%v err=%v", ok, err)
	}
	if got.Villages[0].Score != 0.99 {
		t.Errorf("score %v, want the replaced snapshot", got.Villages[0].Score)
	}
}

func TestDeterminismRunRecords(t *testing.T) {
	db := openTestDB(t)
	if err := db.RecordDeterminismRun("hs-1", 3, "aaa", true); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordDeterminismRun("hs-1", 5, "bbb", false); err != nil {
		t.Fatal(err)
	}
	if err := db.RecordDeterminismRun("hs-2", 2, "ccc", true); err != nil {
		t.Fatal(err)
	}

	runs, err := db.LatestDeterminismRuns("hs-1", 10)
	if err != nil {
		t.Fatalf("LatestDeterminismRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("got %d runs, want 2", len(runs))
	}
	// Newest first.
	if runs[0].OverallHash != "bbb" || runs[0].OK || runs[0].Runs != 5 {
		t.Errorf("newest run = %+v, want the failed 5-run entry", runs[0])
	}
	if runs[1].OverallHash != "aaa" || !runs[1].OK {
		t.Errorf("older run = %+v, want the passing 3-run entry", runs[1])
	}
}
