package imaging

import "testing"

func TestQuantizeAnchors(t *testing.T) {
	cases := []struct {
		normalized float32
		want       uint8
	}{
		{0, 0},
		{64.0 / 255.0, 64},
		{128.0 / 255.0, 128},
		{192.0 / 255.0, 192},
		{1.0, 255},
	}
	for _, c := range cases {
		got := Quantize([]float32{c.normalized})[0]
		if got != c.want {
			t.Errorf("Quantize(%v) = %d, want %d", c.normalized, got, c.want)
		}
	}
}

func TestNormalizeQuantizeRoundTripIdentityScale(t *testing.T) {
	frame := &RGBFrame{Pix: []uint8{0, 64, 128, 192, 255, 255}, W: 2, H: 1}
	resized, _ := ResizeFrame(frame, 2, 1, nil)
	normalized := Normalize(resized)
	out := Quantize(normalized)
	want := []uint8{0, 64, 128, 192, 255, 255}
	for i := range want {
		if out[i] != want[i] {
			t.Fatalf("index %d: got %d want %d", i, out[i], want[i])
		}
	}
}
