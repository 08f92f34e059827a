// Package iso provides the coordinate math for the diamond isometric
// projection: grid-to-screen transforms, distances and interpolation.
// All functions are pure; there is no state here.
package iso

import "math"

// Point is a position in continuous room-grid units. Z is a vertical
// offset used for rendering height only; navigation ignores it, but
// Distance includes it so movement smoothing stays continuous.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z,omitempty"`
}

// ScreenPoint is a position in projected screen (virtual pixel) space.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// ToScreen projects a grid point to screen space for the given tile size.
func ToScreen(p Point, tileWidth, tileHeight float64) ScreenPoint {
	x := p.X - p.Y
	y := p.X + p.Y
	return ScreenPoint{
		X: x * tileWidth / 2,
		Y: y*tileHeight/2 - p.Z,
	}
}

// FromScreen is the exact algebraic inverse of ToScreen for z=0 points.
func FromScreen(s ScreenPoint, tileWidth, tileHeight float64) Point {
	isoX := s.X / (tileWidth / 2)
	isoY := s.Y / (tileHeight / 2)
	return Point{
		X: (isoY + isoX) / 2,
		Y: (isoY - isoX) / 2,
	}
}

// Distance returns the Euclidean distance between two grid points,
// including the vertical offset.
func Distance(a, b Point) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// ScreenDistance returns the Euclidean distance between two screen points.
func ScreenDistance(a, b ScreenPoint) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Lerp linearly interpolates from a toward b by t in [0,1].
func Lerp(a, b Point, t float64) Point {
	return Point{
		X: a.X + (b.X-a.X)*t,
		Y: a.Y + (b.Y-a.Y)*t,
		Z: a.Z + (b.Z-a.Z)*t,
	}
}

// Round returns the point rounded to the nearest integer grid cell.
func Round(p Point) Point {
	return Point{X: math.Round(p.X), Y: math.Round(p.Y)}
}
