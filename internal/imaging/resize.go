package imaging

import (
	"image"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/your-org/camguard/internal/geometry"
)

// ScalingResult records how a crop was taken from a source frame, so
// downstream coordinate translation (C8) can map absolute boxes into the
// resulting crop's local space.
type ScalingResult struct {
	ScaleFactor float64
	CropCenter  geometry.Point
	CropSize    geometry.Size
}

func (f *RGBFrame) toRGBA() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, f.W, f.H))
	for y := 0; y < f.H; y++ {
		for x := 0; x < f.W; x++ {
			r, g, b := f.At(x, y)
			off := img.PixOffset(x, y)
			img.Pix[off] = r
			img.Pix[off+1] = g
			img.Pix[off+2] = b
			img.Pix[off+3] = 255
		}
	}
	return img
}

func fromRGBA(img *image.RGBA) *RGBFrame {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	out := &RGBFrame{Pix: make([]uint8, w*h*3), W: w, H: h}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := img.PixOffset(b.Min.X+x, b.Min.Y+y)
			out.set(x, y, img.Pix[off], img.Pix[off+1], img.Pix[off+2])
		}
	}
	return out
}

// resizeBilinear scales src to exactly wantW x wantH using bilinear sampling.
func resizeBilinear(src *RGBFrame, wantW, wantH int) *RGBFrame {
	dst := image.NewRGBA(image.Rect(0, 0, wantW, wantH))
	srcImg := src.toRGBA()
	xdraw.BiLinear.Scale(dst, dst.Bounds(), srcImg, srcImg.Bounds(), xdraw.Src, nil)
	return fromRGBA(dst)
}

// subPixExtract crops exactly cropSize pixels out of src, centered at center,
// using bilinear sub-pixel sampling. This is the Go equivalent of
// cv::getRectSubPix.
func subPixExtract(src *RGBFrame, center geometry.Point, cropSize geometry.Size) *RGBFrame {
	dst := image.NewRGBA(image.Rect(0, 0, cropSize.W, cropSize.H))
	originX := float64(center.X) - float64(cropSize.W)/2
	originY := float64(center.Y) - float64(cropSize.H)/2

	// dst(x,y) maps to src(x+originX, y+originY): identity scale, pure translate.
	s2d := f64.Aff3{
		1, 0, originX,
		0, 1, originY,
	}
	srcImg := src.toRGBA()
	xdraw.BiLinear.Transform(dst, s2d, srcImg, srcImg.Bounds(), xdraw.Src, nil)
	return fromRGBA(dst)
}

// ResizeFrame implements spec.md §4.6 resize_frame: when unionBox is nil, a
// plain bilinear resize to (wantW, wantH) with identity scaling metadata;
// otherwise the centroid-aligned crop described in §4.2/§4.6.
func ResizeFrame(src *RGBFrame, wantW, wantH int, unionBox *geometry.Box) (*RGBFrame, ScalingResult) {
	if unionBox == nil || unionBox.Empty() {
		out := resizeBilinear(src, wantW, wantH)
		return out, ScalingResult{
			ScaleFactor: 1,
			CropCenter:  geometry.Point{X: float32(wantW) / 2, Y: float32(wantH) / 2},
			CropSize:    geometry.Size{W: wantW, H: wantH},
		}
	}

	cropSize, scale := geometry.ResizedCropSize(*unionBox, wantW, wantH)

	workFrame := src
	box := *unionBox
	if scale != 1 {
		rescaledW := int(float64(src.W) / scale)
		rescaledH := int(float64(src.H) / scale)
		workFrame = resizeBilinear(src, rescaledW, rescaledH)
		box.W = int32(float64(box.W) / scale)
		box.H = int32(float64(box.H) / scale)
		box.X = int32(float64(box.X) / scale)
		box.Y = int32(float64(box.Y) / scale)
	}

	center := geometry.Centroid(box)
	aligned := geometry.AlignCentroid(center, workFrame.W, workFrame.H, cropSize)
	out := subPixExtract(workFrame, aligned, cropSize)

	return out, ScalingResult{
		ScaleFactor: scale,
		CropCenter:  aligned,
		CropSize:    cropSize,
	}
}
