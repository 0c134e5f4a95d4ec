package imaging

import (
	"bytes"
	"image/jpeg"
	"math"
)

// Normalize converts a packed u8 RGB frame to f32, dividing each channel by 255.
func Normalize(rgb *RGBFrame) []float32 {
	out := make([]float32, len(rgb.Pix))
	for i, v := range rgb.Pix {
		out[i] = float32(v) / 255.0
	}
	return out
}

// QuantizeParams is the TFLite-style affine quantization contract exposed by
// a model runner's tensor format (C4).
type QuantizeParams struct {
	Scale     float64
	ZeroPoint int
	LBound    int
	UBound    int
}

// Quantize applies the exact bit-for-bit formula from spec.md §4.6:
// transformed = pixel*1.9921875 - 1.0; out = clamp(round(128.0 +
// transformed/0.0078125), 0, 255). The constants are fixed by the model's
// expected input distribution, not derived from QuantizeParams — they are
// the model's own symmetric-around-zero quantization, independent of the
// generic affine params a runner might expose for other tensors.
func Quantize(normalized []float32) []uint8 {
	out := make([]uint8, len(normalized))
	for i, pixel := range normalized {
		transformed := float64(pixel)*1.9921875 - 1.0
		q := 128.0 + transformed/0.0078125
		out[i] = clampU8(math.Round(q))
	}
	return out
}

func clampU8(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// EncodeJPEG encodes a packed RGB frame as a JPEG at the given quality.
func EncodeJPEG(rgb *RGBFrame, quality int) ([]byte, error) {
	img := rgb.toRGBA()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
