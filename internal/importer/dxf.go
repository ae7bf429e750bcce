package importer

import (
	"fmt"
	"math"
	"sort"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/TilePack/internal/model"
)

// vec is a point in DXF drawing space.
type vec struct {
	X, Y float64
}

// shape is a closed polygon traced from DXF entities.
type shape []vec

// bounds returns the axis-aligned extent of the shape.
func (s shape) bounds() (lo, hi vec) {
	lo = vec{math.Inf(1), math.Inf(1)}
	hi = vec{math.Inf(-1), math.Inf(-1)}
	for _, p := range s {
		lo.X = math.Min(lo.X, p.X)
		lo.Y = math.Min(lo.Y, p.Y)
		hi.X = math.Max(hi.X, p.X)
		hi.Y = math.Max(hi.Y, p.Y)
	}
	return lo, hi
}

// area computes the absolute area of the polygon using the shoelace formula.
func (s shape) area() float64 {
	n := len(s)
	if n < 3 {
		return 0
	}
	var a float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		a += s[i].X*s[j].Y - s[j].X*s[i].Y
	}
	return math.Abs(a) / 2
}

// segment is a line between two points, used for chaining loose LINE and
// ARC entities into closed shapes.
type segment struct {
	start, end vec
}

// chainTolerance is the maximum gap between endpoints treated as connected.
const chainTolerance = 0.01

// ImportDXF imports tiles from a DXF file. Each closed shape (LWPOLYLINE,
// CIRCLE, or chain of connected LINEs/ARCs) becomes a tile sized to its
// bounding box, rounded up to whole units.
func ImportDXF(path string) ImportResult {
	result := ImportResult{}

	drawing, err := dxf.Open(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open DXF file: %v", err))
		return result
	}

	entities := drawing.Entities()
	if len(entities) == 0 {
		result.Errors = append(result.Errors, "DXF file contains no entities")
		return result
	}

	var shapes []shape
	var segments []segment

	for _, ent := range entities {
		switch e := ent.(type) {
		case *entity.LwPolyline:
			s := lwPolylineToShape(e)
			if len(s) >= 3 {
				shapes = append(shapes, s)
			} else {
				result.Warnings = append(result.Warnings, "Skipped LWPOLYLINE with fewer than 3 vertices")
			}

		case *entity.Circle:
			shapes = append(shapes, circleToShape(e, 64))

		case *entity.Arc:
			pts := arcToPoints(e, 32)
			for i := 0; i < len(pts)-1; i++ {
				segments = append(segments, segment{start: pts[i], end: pts[i+1]})
			}

		case *entity.Line:
			segments = append(segments, segment{
				start: vec{e.Start[0], e.Start[1]},
				end:   vec{e.End[0], e.End[1]},
			})
		}
	}

	shapes = append(shapes, chainSegments(segments, chainTolerance)...)

	if len(shapes) == 0 {
		result.Errors = append(result.Errors, "No closed shapes found in DXF file")
		return result
	}

	for _, s := range shapes {
		lo, hi := s.bounds()
		w := hi.X - lo.X
		h := hi.Y - lo.Y
		if w < chainTolerance || h < chainTolerance {
			result.Warnings = append(result.Warnings, fmt.Sprintf("Skipped degenerate shape (%.2f x %.2f)", w, h))
			continue
		}

		label := fmt.Sprintf("DXF Tile %d", len(result.Tiles)+1)
		result.Tiles = append(result.Tiles, model.NewTile(label, ceilUnits(w), ceilUnits(h), 1))
	}

	return result
}

// ceilUnits rounds a drawing length up to whole units, ignoring float noise.
func ceilUnits(v float64) int {
	return int(math.Ceil(v - 1e-6))
}

// lwPolylineToShape converts a DXF LWPOLYLINE entity to a shape.
// Bulge values on vertices produce interpolated arc segments.
func lwPolylineToShape(lw *entity.LwPolyline) shape {
	var s shape
	n := len(lw.Vertices)

	for i := 0; i < n; i++ {
		current := vec{lw.Vertices[i][0], lw.Vertices[i][1]}

		bulge := 0.0
		if i < len(lw.Bulges) {
			bulge = lw.Bulges[i]
		}
		if math.Abs(bulge) < 1e-9 {
			s = append(s, current)
			continue
		}

		next := vec{lw.Vertices[(i+1)%n][0], lw.Vertices[(i+1)%n][1]}
		pts := bulgeArcPoints(current, next, bulge, 32)
		// The next vertex is added by the following iteration
		s = append(s, pts[:len(pts)-1]...)
	}

	return s
}

// bulgeArcPoints generates points along an arc defined by two endpoints and a
// DXF bulge factor. The bulge is the tangent of 1/4 the included angle.
func bulgeArcPoints(p1, p2 vec, bulge float64, numSegments int) []vec {
	dx := p2.X - p1.X
	dy := p2.Y - p1.Y
	chord := math.Hypot(dx, dy)
	if chord < 1e-9 {
		return []vec{p1, p2}
	}

	sagitta := math.Abs(bulge) * chord / 2
	radius := (chord*chord/(4*sagitta) + sagitta) / 2

	// Center lies on the chord bisector, on the side opposite the bulge
	perpX, perpY := -dy/chord, dx/chord
	if bulge > 0 {
		perpX, perpY = -perpX, -perpY
	}
	dist := radius - sagitta
	cx := (p1.X+p2.X)/2 + perpX*dist
	cy := (p1.Y+p2.Y)/2 + perpY*dist

	start := math.Atan2(p1.Y-cy, p1.X-cx)
	end := math.Atan2(p2.Y-cy, p2.X-cx)
	if bulge < 0 && end > start {
		end -= 2 * math.Pi
	} else if bulge > 0 && end < start {
		end += 2 * math.Pi
	}

	return sweep(cx, cy, radius, start, end, numSegments)
}

// circleToShape approximates a circle as a regular polygon.
func circleToShape(c *entity.Circle, numSegments int) shape {
	pts := sweep(c.Center[0], c.Center[1], c.Radius, 0, 2*math.Pi, numSegments)
	return shape(pts[:numSegments])
}

// arcToPoints converts a DXF ARC entity to a series of line points.
func arcToPoints(a *entity.Arc, numSegments int) []vec {
	start := a.Angle[0] * math.Pi / 180
	end := a.Angle[1] * math.Pi / 180
	if end <= start {
		end += 2 * math.Pi
	}
	return sweep(a.Circle.Center[0], a.Circle.Center[1], a.Circle.Radius, start, end, numSegments)
}

// sweep returns numSegments+1 points along a circle from angle start to end.
func sweep(cx, cy, r, start, end float64, numSegments int) []vec {
	pts := make([]vec, numSegments+1)
	for i := range pts {
		angle := start + float64(i)/float64(numSegments)*(end-start)
		pts[i] = vec{cx + r*math.Cos(angle), cy + r*math.Sin(angle)}
	}
	return pts
}

// chainSegments connects individual segments into closed shapes.
// tolerance is the maximum distance between endpoints to consider them connected.
func chainSegments(segs []segment, tolerance float64) []shape {
	used := make([]bool, len(segs))
	var shapes []shape

	for startIdx := range segs {
		if used[startIdx] {
			continue
		}
		chain := shape{segs[startIdx].start, segs[startIdx].end}
		used[startIdx] = true

		for extended := true; extended; {
			extended = false
			tail := chain[len(chain)-1]
			for i, seg := range segs {
				if used[i] {
					continue
				}
				if near(tail, seg.start, tolerance) {
					chain = append(chain, seg.end)
				} else if near(tail, seg.end, tolerance) {
					chain = append(chain, seg.start)
				} else {
					continue
				}
				used[i] = true
				extended = true
				break
			}
		}

		// Drop the duplicate closing point; open chains are not shapes
		if len(chain) < 4 || !near(chain[0], chain[len(chain)-1], tolerance) {
			continue
		}
		shapes = append(shapes, chain[:len(chain)-1])
	}

	// Largest first for a stable tile order
	sort.SliceStable(shapes, func(i, j int) bool {
		return shapes[i].area() > shapes[j].area()
	})

	return shapes
}

// near checks whether two points are within the given tolerance.
func near(a, b vec, tolerance float64) bool {
	return math.Hypot(a.X-b.X, a.Y-b.Y) <= tolerance
}
