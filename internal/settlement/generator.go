package settlement

import (
	"sync"

	"github.com/talgya/crossroads/internal/terrain"
)

const (
	// waterEps is the water depth below which ground still counts as dry.
	waterEps = 1e-3

	candidateCacheCap = 4096
	regionCacheCap    = 220
)

type cellKey struct{ X, Y int }

type regionKey struct{ X, Y int }

// Generator synthesizes settlement layouts over an unbounded world.
// All generation is synchronous; the only mutable state is the bounded
// memo caches, guarded by a single mutex so concurrent callers see
// idempotent results.
type Generator struct {
	cfg     Config
	terrain terrain.Oracle

	mu         sync.Mutex
	candidates *boundedMemo[cellKey, candidate]
	regions    *boundedMemo[regionKey, *Layout]
}

// NewGenerator builds a settlement generator over the given terrain oracle.
// The oracle must be a pure, seed-stable function of world coordinates.
func NewGenerator(cfg Config, oracle terrain.Oracle) *Generator {
	cfg.applyDefaults()
	return &Generator{
		cfg:        cfg,
		terrain:    oracle,
		candidates: newBoundedMemo[cellKey, candidate](candidateCacheCap),
		regions:    newBoundedMemo[regionKey, *Layout](regionCacheCap),
	}
}

// Config returns the generation parameters in use.
func (g *Generator) Config() Config { return g.cfg }

// GetFeaturesForBounds returns every settlement feature whose owning region
// overlaps the query rectangle, deduplicated by id across regions.
func (g *Generator) GetFeaturesForBounds(minX, maxX, minY, maxY float64) Features {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.featuresForBounds(Bounds{MinX: minX, MaxX: maxX, MinY: minY, MaxY: maxY})
}

// RegionLayout returns the cached or freshly computed layout for a region.
func (g *Generator) RegionLayout(regionX, regionY int) *Layout {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.regionLayout(regionKey{X: regionX, Y: regionY})
}

// InvalidateRegion drops a region's cached layout. The next query recomputes
// it; by the determinism contract the rebuilt layout is byte-identical.
func (g *Generator) InvalidateRegion(regionX, regionY int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.regions.delete(regionKey{X: regionX, Y: regionY})
}
