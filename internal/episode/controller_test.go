package episode

import (
	"testing"
	"time"

	"github.com/your-org/camguard/internal/camera"
	"github.com/your-org/camguard/internal/geometry"
)

func testFrame(w, h int) camera.NV12Frame {
	return camera.NV12Frame{
		Y:  make([]byte, w*h),
		UV: make([]byte, w*h/2),
		W:  w,
		H:  h,
	}
}

func fakeAssemble(ef EpisodeFrame) (Payload, error) {
	return Payload{
		FileName:         "/tmp/fake.jpeg",
		UnionBoxRelative: ef.Event.UnionBox,
		Initiated:        true,
	}, nil
}

// S1 "happy path": the larger of two passing motion events wins the episode frame.
func TestControllerHappyPath(t *testing.T) {
	var finalized *Payload
	c := New(Config{QuietInterval: time.Second}, false, make(chan struct{}, 1), func(p Payload) {
		finalized = &p
	})

	c.ClipStart("c1")
	c.Capture(testFrame(100, 100))
	c.MotionEvent(MotionEvent{Kind: MotionKindDetected, UnionBox: geometry.Box{X: 10, Y: 10, W: 40, H: 40}})
	c.MotionEvent(MotionEvent{Kind: MotionKindDetected, UnionBox: geometry.Box{X: 5, Y: 5, W: 80, H: 80}})
	c.ClipEnd("c1", fakeAssemble)

	if finalized == nil {
		t.Fatal("expected a finalized payload")
	}
	if finalized.FileName != "/tmp/fake.jpeg" {
		t.Errorf("file name = %q", finalized.FileName)
	}
	want := geometry.Box{X: 5, Y: 5, W: 80, H: 80}
	if finalized.UnionBoxRelative != want {
		t.Errorf("union box = %+v, want %+v (second, larger event)", finalized.UnionBoxRelative, want)
	}
}

// S2 "ROI gated": an event with hasROI set but insideROI clear is rejected.
func TestControllerROIGated(t *testing.T) {
	var finalized *Payload
	c := New(Config{QuietInterval: time.Second}, false, make(chan struct{}, 1), func(p Payload) {
		finalized = &p
	})

	c.ClipStart("c1")
	c.Capture(testFrame(100, 100))
	c.MotionEvent(MotionEvent{Kind: MotionKindDetected, UnionBox: geometry.Box{X: 10, Y: 10, W: 40, H: 40}})
	// hasROI set, insideROI not set -> gate fails even though area is larger.
	c.MotionEvent(MotionEvent{
		Kind:     MotionKindDetected,
		UnionBox: geometry.Box{X: 5, Y: 5, W: 80, H: 80},
		Flags:    FlagHasROI,
	})
	c.ClipEnd("c1", fakeAssemble)

	if finalized == nil {
		t.Fatal("expected a finalized payload")
	}
	want := geometry.Box{X: 10, Y: 10, W: 40, H: 40}
	if finalized.UnionBoxRelative != want {
		t.Errorf("union box = %+v, want %+v (ROI-gated event must be rejected)", finalized.UnionBoxRelative, want)
	}
}

// S3 "no motion": clip_end with no prior motion_event emits nothing.
func TestControllerNoMotionNoPayload(t *testing.T) {
	finalized := false
	c := New(Config{QuietInterval: time.Second}, false, make(chan struct{}, 1), func(p Payload) {
		finalized = true
	})

	c.ClipStart("c1")
	c.Capture(testFrame(100, 100))
	c.ClipEnd("c1", fakeAssemble)

	if finalized {
		t.Fatal("expected no payload to be finalized without a motion event")
	}
}

// S6 "quiet interval": a second clip finishing within the quiet interval is dropped.
func TestControllerQuietIntervalDropsSecondPayload(t *testing.T) {
	var calls int
	c := New(Config{QuietInterval: 120 * time.Second}, false, make(chan struct{}, 1), func(p Payload) {
		calls++
	})

	c.ClipStart("c1")
	c.Capture(testFrame(100, 100))
	c.MotionEvent(MotionEvent{Kind: MotionKindDetected, UnionBox: geometry.Box{X: 1, Y: 1, W: 10, H: 10}})
	c.ClipEnd("c1", fakeAssemble)

	c.ClipStart("c2")
	c.Capture(testFrame(100, 100))
	c.MotionEvent(MotionEvent{Kind: MotionKindDetected, UnionBox: geometry.Box{X: 1, Y: 1, W: 10, H: 10}})
	c.ClipEnd("c2", fakeAssemble)

	if calls != 1 {
		t.Errorf("onFinalize called %d times, want 1 (second clip within quiet interval must be dropped)", calls)
	}
}

func TestControllerMotionEventWithoutCapturedFrameIgnored(t *testing.T) {
	finalized := false
	c := New(Config{QuietInterval: time.Second}, false, make(chan struct{}, 1), func(p Payload) {
		finalized = true
	})

	c.ClipStart("c1")
	// No Capture() call: updatePredicate must reject since hasLast is false.
	c.MotionEvent(MotionEvent{Kind: MotionKindDetected, UnionBox: geometry.Box{X: 1, Y: 1, W: 10, H: 10}})
	c.ClipEnd("c1", fakeAssemble)

	if finalized {
		t.Fatal("expected no payload when no frame was ever captured")
	}
}

func TestControllerNonDetectedKindIgnored(t *testing.T) {
	var finalized *Payload
	c := New(Config{QuietInterval: time.Second}, false, make(chan struct{}, 1), func(p Payload) {
		finalized = &p
	})

	c.ClipStart("c1")
	c.Capture(testFrame(100, 100))
	c.MotionEvent(MotionEvent{Kind: MotionKindDetected, UnionBox: geometry.Box{X: 1, Y: 1, W: 10, H: 10}})
	// kind != 4, even with a larger box, must not update the episode frame.
	c.MotionEvent(MotionEvent{Kind: 2, UnionBox: geometry.Box{X: 0, Y: 0, W: 90, H: 90}})
	c.ClipEnd("c1", fakeAssemble)

	if finalized == nil {
		t.Fatal("expected a finalized payload")
	}
	want := geometry.Box{X: 1, Y: 1, W: 10, H: 10}
	if finalized.UnionBoxRelative != want {
		t.Errorf("union box = %+v, want %+v (non-detected-kind event must be ignored)", finalized.UnionBoxRelative, want)
	}
}
