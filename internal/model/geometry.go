package model

import "fmt"

// Point is an integer offset in atlas space. Y grows downward.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Size holds the dimensions of a rectangle.
type Size struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Area returns Width * Height.
func (s Size) Area() int {
	return s.Width * s.Height
}

// String returns the size as "WxH".
func (s Size) String() string {
	return fmt.Sprintf("%dx%d", s.Width, s.Height)
}

// Rect is a Size anchored at its top-left Point.
type Rect struct {
	Size
	Point
}

// NewRect builds a rectangle from its top-left corner and dimensions.
func NewRect(x, y, w, h int) Rect {
	return Rect{
		Size:  Size{Width: w, Height: h},
		Point: Point{X: x, Y: y},
	}
}

// Right returns the x coordinate one past the right edge.
func (r Rect) Right() int {
	return r.X + r.Width
}

// Bottom returns the y coordinate one past the bottom edge.
func (r Rect) Bottom() int {
	return r.Y + r.Height
}

// Fits reports whether a rectangle of size other fits inside r without rotation.
func (r Rect) Fits(other Size) bool {
	return other.Width <= r.Width && other.Height <= r.Height
}

// Space returns the area left over if other were placed inside r.
// Only meaningful when Fits(other) holds.
func (r Rect) Space(other Size) int {
	return r.Area() - other.Area()
}

// Overlaps reports whether r and other share any interior area.
// Rectangles that merely touch along an edge do not overlap.
func (r Rect) Overlaps(other Rect) bool {
	return r.X < other.Right() && other.X < r.Right() &&
		r.Y < other.Bottom() && other.Y < r.Bottom()
}

// Contains reports whether other lies entirely within r.
func (r Rect) Contains(other Rect) bool {
	return r.X <= other.X && other.Right() <= r.Right() &&
		r.Y <= other.Y && other.Bottom() <= r.Bottom()
}

// String returns the rectangle as "WxH@(X,Y)".
func (r Rect) String() string {
	return fmt.Sprintf("%s@(%d,%d)", r.Size, r.X, r.Y)
}

// Item is a rectangle to be packed together with caller-owned data.
// The packer only ever writes Item.Point; Payload is carried through untouched.
type Item[T any] struct {
	Rect
	Payload T
}

// NewItem creates an unplaced item of the given size.
func NewItem[T any](w, h int, payload T) Item[T] {
	return Item[T]{
		Rect:    Rect{Size: Size{Width: w, Height: h}},
		Payload: payload,
	}
}
