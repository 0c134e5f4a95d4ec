// Package geometry implements the pure coordinate-space kernel C2: centroid,
// aligned-crop sizing, bounding-box rescaling, and polygon containment.
package geometry

// Box is an absolute-pixel-space bounding box. A negative W or H marks the
// sentinel "invalid" box used where the source data has no union blob.
type Box struct {
	X, Y, W, H int32
}

// Empty reports whether the box has zero area.
func (b Box) Empty() bool {
	return b.W == 0 || b.H == 0
}

// Area returns w*h. Callers must not call Area on an invalid (negative W/H) box.
func (b Box) Area() int64 {
	return int64(b.W) * int64(b.H)
}

// NormalizedBox is a box in [0,1]-normalized coordinates, clamped on construction.
type NormalizedBox struct {
	XMin, YMin, XMax, YMax float32
}

// NewNormalizedBox clamps each coordinate into [0,1].
func NewNormalizedBox(xMin, yMin, xMax, yMax float32) NormalizedBox {
	return NormalizedBox{
		XMin: clamp01(xMin),
		YMin: clamp01(yMin),
		XMax: clamp01(xMax),
		YMax: clamp01(yMax),
	}
}

func clamp01(v float32) float32 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Point is a 2D point in pixel space.
type Point struct {
	X, Y float32
}

// ROI is an ordered polygon. An empty ROI accepts every point.
type ROI []Point

// Size is an integer width/height pair.
type Size struct {
	W, H int
}
