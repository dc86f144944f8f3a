// Package settlement synthesizes the settlement layer (villages, road
// networks, parcels, houses) over an unbounded 2D world, deterministically
// from a seed string and a tunable configuration. Generation is tiled into
// fixed-size regions; each region layout is a pure function of
// (seed, config, regionX, regionY) and the terrain oracle.
// See design doc Section 4.
package settlement

import "math"

// Point is a position in world units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Bounds is an axis-aligned rectangle in world units.
type Bounds struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinY float64 `json:"minY"`
	MaxY float64 `json:"maxY"`
}

// Contains reports whether p lies inside the rectangle (inclusive-min,
// exclusive-max, so adjacent regions never both claim a boundary point).
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X < b.MaxX && p.Y >= b.MinY && p.Y < b.MaxY
}

// Expand grows the rectangle by pad on every side.
func (b Bounds) Expand(pad float64) Bounds {
	return Bounds{MinX: b.MinX - pad, MaxX: b.MaxX + pad, MinY: b.MinY - pad, MaxY: b.MaxY + pad}
}

// Overlaps reports whether the two rectangles intersect.
func (b Bounds) Overlaps(o Bounds) bool {
	return b.MinX < o.MaxX && o.MinX < b.MaxX && b.MinY < o.MaxY && o.MinY < b.MaxY
}

func dist(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}

func lerpPoint(a, b Point, t float64) Point {
	return Point{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t}
}

func lerp(a, b, t float64) float64 { return a + (b-a)*t }

// polylineLength returns the total arc length of pts.
func polylineLength(pts []Point) float64 {
	total := 0.0
	for i := 1; i < len(pts); i++ {
		total += dist(pts[i-1], pts[i])
	}
	return total
}

// pointAlong walks the polyline to arc distance d and returns the point
// there. Degenerate polylines fall back to the first point.
func pointAlong(pts []Point, d float64) Point {
	if len(pts) == 0 {
		return Point{}
	}
	if len(pts) == 1 || d <= 0 {
		return pts[0]
	}
	remaining := d
	for i := 1; i < len(pts); i++ {
		seg := dist(pts[i-1], pts[i])
		if seg <= 1e-12 {
			continue
		}
		if remaining <= seg {
			return lerpPoint(pts[i-1], pts[i], remaining/seg)
		}
		remaining -= seg
	}
	return pts[len(pts)-1]
}

// tangentAt returns the unit tangent of the segment containing arc
// distance d. Zero-length polylines fall back to the +X axis.
func tangentAt(pts []Point, d float64) (tx, ty float64) {
	if len(pts) < 2 {
		return 1, 0
	}
	remaining := d
	for i := 1; i < len(pts); i++ {
		seg := dist(pts[i-1], pts[i])
		if seg <= 1e-12 {
			continue
		}
		if remaining <= seg || i == len(pts)-1 {
			return (pts[i].X - pts[i-1].X) / seg, (pts[i].Y - pts[i-1].Y) / seg
		}
		remaining -= seg
	}
	return 1, 0
}

// nearestOnSegment returns the closest point to p on segment ab and the
// parameter t in [0,1] along it.
func nearestOnSegment(p, a, b Point) (Point, float64) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	l2 := dx*dx + dy*dy
	if l2 <= 1e-12 {
		return a, 0
	}
	t := ((p.X-a.X)*dx + (p.Y-a.Y)*dy) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return Point{X: a.X + dx*t, Y: a.Y + dy*t}, t
}

// nearestOnPolyline returns the closest point to p anywhere on the
// polyline, the distance to it, and the unit tangent of the owning segment.
func nearestOnPolyline(p Point, pts []Point) (best Point, bestDist float64, tx, ty float64) {
	if len(pts) == 0 {
		return Point{}, math.Inf(1), 1, 0
	}
	if len(pts) == 1 {
		return pts[0], dist(p, pts[0]), 1, 0
	}
	bestDist = math.Inf(1)
	tx, ty = 1, 0
	for i := 1; i < len(pts); i++ {
		q, _ := nearestOnSegment(p, pts[i-1], pts[i])
		d := dist(p, q)
		if d < bestDist {
			bestDist = d
			best = q
			seg := dist(pts[i-1], pts[i])
			if seg > 1e-12 {
				tx = (pts[i].X - pts[i-1].X) / seg
				ty = (pts[i].Y - pts[i-1].Y) / seg
			}
		}
	}
	return best, bestDist, tx, ty
}

// segmentsIntersect reports whether segments ab and cd properly intersect
// and, if so, returns the intersection point.
func segmentsIntersect(a, b, c, d Point) (Point, bool) {
	r := Point{X: b.X - a.X, Y: b.Y - a.Y}
	s := Point{X: d.X - c.X, Y: d.Y - c.Y}
	denom := r.X*s.Y - r.Y*s.X
	if math.Abs(denom) < 1e-12 {
		return Point{}, false
	}
	t := ((c.X-a.X)*s.Y - (c.Y-a.Y)*s.X) / denom
	u := ((c.X-a.X)*r.Y - (c.Y-a.Y)*r.X) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Point{}, false
	}
	return Point{X: a.X + r.X*t, Y: a.Y + r.Y*t}, true
}

// floorDiv returns a/b rounded towards negative infinity.
func floorDiv(a, b int) int {
	if (a < 0) != (b < 0) && a%b != 0 {
		return a/b - 1
	}
	return a / b
}

// cellOf maps a world coordinate to its grid cell index.
func cellOf(v, cellSize float64) int {
	return int(math.Floor(v / cellSize))
}
