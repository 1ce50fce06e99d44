// Package geometry provides the 2D joint-angle helpers used by the technique rules.
package geometry

import (
	"errors"
	"math"

	"github.com/ayusman/liftform/internal/pose"
)

// ErrDegenerate is returned when an angle is requested for a ray of zero length.
var ErrDegenerate = errors.New("degenerate angle: coincident points")

// minRayLength is the shortest ray accepted by Angle.
const minRayLength = 1e-9

// Angle returns the interior angle at vertex p2 between rays p2→p1 and p2→p3,
// in degrees within [0, 180].
func Angle(p1, p2, p3 pose.Point) (float64, error) {
	ax, ay := p1.X-p2.X, p1.Y-p2.Y
	bx, by := p3.X-p2.X, p3.Y-p2.Y

	magA := math.Hypot(ax, ay)
	magB := math.Hypot(bx, by)
	if magA < minRayLength || magB < minRayLength {
		return 0, ErrDegenerate
	}

	cos := (ax*bx + ay*by) / (magA * magB)

	// Clamp to absorb floating-point drift
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, nil
}

// Distance returns the Euclidean distance between two points.
func Distance(a, b pose.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Above returns the point dy pixels above p. Image Y grows downward.
func Above(p pose.Point, dy float64) pose.Point {
	return pose.Point{X: p.X, Y: p.Y - dy}
}
