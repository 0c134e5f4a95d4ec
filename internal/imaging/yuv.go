// Package imaging implements the image transform kernel C3: NV12→RGB decode,
// centroid-aligned crop-and-resize, normalization, and affine quantization.
package imaging

import "image/color"

// RGBFrame is a packed h*w*3 u8 RGB buffer, row-major, 3 bytes per pixel.
type RGBFrame struct {
	Pix    []uint8
	W, H   int
}

// At returns the R,G,B bytes at (x,y).
func (f *RGBFrame) At(x, y int) (r, g, b uint8) {
	off := (y*f.W + x) * 3
	return f.Pix[off], f.Pix[off+1], f.Pix[off+2]
}

func (f *RGBFrame) set(x, y int, r, g, b uint8) {
	off := (y*f.W + x) * 3
	f.Pix[off] = r
	f.Pix[off+1] = g
	f.Pix[off+2] = b
}

// YUVToRGB converts a semi-planar NV12 frame (Y plane followed by an
// interleaved UV plane, 4:2:0 chroma subsampling) into a packed RGB buffer.
// NV12's interleaved UV layout means this can't use image.YCbCr, which is
// planar, so the NV12 indexing is done here directly on the byte slices and
// each pixel is converted with color.YCbCrToRGB.
func YUVToRGB(y []byte, uv []byte, w, h int) *RGBFrame {
	out := &RGBFrame{Pix: make([]uint8, w*h*3), W: w, H: h}
	for row := 0; row < h; row++ {
		uvRow := (row / 2) * w
		for col := 0; col < w; col++ {
			yi := row*w + col
			ui := uvRow + (col/2)*2
			if yi >= len(y) || ui+1 >= len(uv) {
				continue
			}
			yy := y[yi]
			cb := uv[ui]
			cr := uv[ui+1]
			r, g, b := color.YCbCrToRGB(yy, cb, cr)
			out.set(col, row, r, g, b)
		}
	}
	return out
}
