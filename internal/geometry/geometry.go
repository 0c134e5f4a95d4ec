package geometry

import "math"

// Centroid returns the center point of a box.
func Centroid(b Box) Point {
	return Point{
		X: float32(b.X) + float32(b.W)/2.0,
		Y: float32(b.Y) + float32(b.H)/2.0,
	}
}

// ResizedCropSize computes the crop size and downscale factor for fitting a
// union box into a want_w x want_h thumbnail. When the union box already
// fits, scale stays 1 and the crop size is exactly (wantW, wantH).
func ResizedCropSize(box Box, wantW, wantH int) (Size, float64) {
	scale := 1.0
	if int(box.W) > wantW || int(box.H) > wantH {
		scale = math.Max(float64(box.W)/float64(wantW), float64(box.H)/float64(wantH))
	}
	return Size{W: wantW, H: wantH}, scale
}

// AlignCentroid shifts orgCenter so that a crop of cropSize centered there
// stays fully inside a frame of frameW x frameH.
func AlignCentroid(orgCenter Point, frameW, frameH int, cropSize Size) Point {
	shiftX := (orgCenter.X + float32(cropSize.W)/2) - float32(frameW)
	adjustedX := orgCenter.X - max32(0, shiftX)
	shiftXLeft := adjustedX - float32(cropSize.W)/2
	finalX := adjustedX - min32(0, shiftXLeft)

	shiftY := (orgCenter.Y + float32(cropSize.H)/2) - float32(frameH)
	adjustedY := orgCenter.Y - max32(0, shiftY)
	shiftYDown := adjustedY - float32(cropSize.H)/2
	finalY := adjustedY - min32(0, shiftYDown)

	return Point{X: finalX, Y: finalY}
}

// RelativeBox translates an absolute-space box into crop-relative coordinates,
// given the crop size and the aligned center the crop was taken around.
func RelativeBox(box Box, cropSize Size, alignedCenter Point) Box {
	var out Box
	if int(box.W) >= cropSize.W {
		out.X = 0
		out.W = int32(cropSize.W)
	} else {
		deltaX := alignedCenter.X - float32(box.X)
		out.X = int32(float32(cropSize.W)/2 - deltaX)
		out.W = box.W
	}
	if int(box.H) >= cropSize.H {
		out.Y = 0
		out.H = int32(cropSize.H)
	} else {
		deltaY := alignedCenter.Y - float32(box.Y)
		out.Y = int32(float32(cropSize.H)/2 - deltaY)
		out.H = box.H
	}
	return out
}

// InsideROI reports whether point p lies inside the polygon via ray casting.
// An empty ROI accepts every point.
func InsideROI(p Point, roi ROI) bool {
	if len(roi) == 0 {
		return true
	}
	inside := false
	n := len(roi)
	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		vi, vj := roi[i], roi[j]
		if ((vi.Y > p.Y) != (vj.Y > p.Y)) &&
			(p.X < (vj.X-vi.X)*(p.Y-vi.Y)/(vj.Y-vi.Y)+vi.X) {
			inside = !inside
		}
	}
	return inside
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func min32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}
