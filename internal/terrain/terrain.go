// Package terrain provides the point-sampled terrain oracle the settlement
// engine routes and places against. The oracle is a pure function of the
// world seed and a coordinate; the engine's determinism guarantee depends
// on that contract holding.
package terrain

// Sample describes the terrain at a single world coordinate.
type Sample struct {
	Elevation     float64 // 0.0 (sea floor) to 1.0 (peak)
	Moisture      float64 // 0.0 (arid) to 1.0 (saturated)
	Slope         float64 // local gradient magnitude, units of elevation per world unit, rescaled
	WaterDepth    float64 // depth below the waterline, 0 on land
	ForestDensity float64 // 0.0 (open) to 1.0 (dense canopy)
	Shore         float64 // shoreline proximity, 1.0 at the waterline falling to 0 inland
}

// Oracle is the terrain collaborator consumed by the settlement engine.
// Implementations must be deterministic: identical coordinates always
// yield identical samples for the lifetime of the oracle.
type Oracle interface {
	// Probe samples the terrain at (x, y).
	Probe(x, y float64) Sample

	// GradientAt returns the direction of decreasing water depth at (x, y),
	// estimated by central differences with the given step. Used to push
	// road points out of water. Returns a zero vector on flat dry ground.
	GradientAt(x, y, step float64) (gx, gy float64)
}
