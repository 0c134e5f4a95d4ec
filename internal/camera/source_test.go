package camera

import "testing"

func TestFrameSize(t *testing.T) {
	cases := []struct {
		w, h int
		want int
	}{
		{1280, 720, 1280*720 + (1280*720)/2},
		{2, 2, 6},
		{0, 0, 0},
	}
	for _, c := range cases {
		if got := FrameSize(c.w, c.h); got != c.want {
			t.Errorf("FrameSize(%d,%d) = %d, want %d", c.w, c.h, got, c.want)
		}
	}
}
