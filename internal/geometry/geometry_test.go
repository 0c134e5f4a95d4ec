package geometry

import "testing"

func TestCentroid(t *testing.T) {
	c := Centroid(Box{X: 10, Y: 20, W: 40, H: 60})
	if c.X != 30 || c.Y != 50 {
		t.Fatalf("got %+v", c)
	}
}

func TestResizedCropSizeNoScale(t *testing.T) {
	size, scale := ResizedCropSize(Box{X: 0, Y: 0, W: 100, H: 80}, 400, 300)
	if scale != 1.0 {
		t.Fatalf("expected scale 1, got %v", scale)
	}
	if size.W != 400 || size.H != 300 {
		t.Fatalf("got %+v", size)
	}
}

func TestResizedCropSizeDownscale(t *testing.T) {
	_, scale := ResizedCropSize(Box{X: 0, Y: 0, W: 800, H: 300}, 400, 300)
	if scale != 2.0 {
		t.Fatalf("expected scale 2, got %v", scale)
	}
}

func TestAlignCentroidClampsToFrame(t *testing.T) {
	center := AlignCentroid(Point{X: 390, Y: 290}, 400, 300, Size{W: 400, H: 300})
	if center.X != 200 || center.Y != 150 {
		t.Fatalf("expected centered crop at (200,150), got %+v", center)
	}
}

func TestAlignCentroidInterior(t *testing.T) {
	center := AlignCentroid(Point{X: 500, Y: 500}, 1000, 1000, Size{W: 400, H: 300})
	if center.X != 500 || center.Y != 500 {
		t.Fatalf("interior centroid should pass through unchanged, got %+v", center)
	}
}

func TestRelativeBoxSmallerThanCrop(t *testing.T) {
	box := RelativeBox(Box{X: 100, Y: 100, W: 50, H: 40}, Size{W: 400, H: 300}, Point{X: 125, Y: 120})
	if box.W != 50 || box.H != 40 {
		t.Fatalf("expected original w/h preserved, got %+v", box)
	}
}

func TestRelativeBoxLargerThanCrop(t *testing.T) {
	box := RelativeBox(Box{X: 0, Y: 0, W: 500, H: 400}, Size{W: 400, H: 300}, Point{X: 200, Y: 150})
	if box.X != 0 || box.Y != 0 || box.W != 400 || box.H != 300 {
		t.Fatalf("expected clamp to crop size, got %+v", box)
	}
}

func TestInsideROIEmptyAcceptsAll(t *testing.T) {
	if !InsideROI(Point{X: -1000, Y: 1000}, nil) {
		t.Fatal("empty ROI must accept all points")
	}
}

func TestInsideROISquare(t *testing.T) {
	square := ROI{
		{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 10}, {X: 0, Y: 10},
	}
	if !InsideROI(Point{X: 5, Y: 5}, square) {
		t.Fatal("expected point inside square")
	}
	if InsideROI(Point{X: 50, Y: 50}, square) {
		t.Fatal("expected point outside square")
	}
}
