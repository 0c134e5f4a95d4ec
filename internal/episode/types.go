// Package episode implements the episode controller C7: the state machine
// correlating capture/motion_event/clip_start/clip_end into one payload per
// recorded clip, and the classifier worker that drives the inference
// cascade (C4/C5/C6) off the shared ClassificationFrame.
package episode

import (
	"time"

	"github.com/your-org/camguard/internal/camera"
	"github.com/your-org/camguard/internal/geometry"
)

// MotionFlags bit field from spec.md §3: b3=hasROI, b2=insideROI, b1=hasDOI, b0=insideDOI.
type MotionFlags uint8

const (
	FlagInsideDOI MotionFlags = 1 << iota
	FlagHasDOI
	FlagInsideROI
	FlagHasROI
)

func (f MotionFlags) HasROI() bool    { return f&FlagHasROI != 0 }
func (f MotionFlags) InsideROI() bool { return f&FlagInsideROI != 0 }
func (f MotionFlags) HasDOI() bool    { return f&FlagHasDOI != 0 }
func (f MotionFlags) InsideDOI() bool { return f&FlagInsideDOI != 0 }

// MotionKindDetected is the event.kind value meaning "motion detected" per
// the update predicate in spec.md §4.3.
const MotionKindDetected = 4

// MotionEvent is one motion-metadata notification from the external bus.
type MotionEvent struct {
	PTS              int64
	Kind             int32
	Score            float64
	EventTime        time.Time
	UnionBox         geometry.Box
	DeliveryUnionBox geometry.Box
	ObjectBoxes      []geometry.Box
	Flags            MotionFlags
}

// EpisodeFrame is the current thumbnail candidate: overwritten only when a
// newer motion event has strictly larger union-box area and passes ROI/DOI
// gating (see updatePredicate).
type EpisodeFrame struct {
	Frame    camera.NV12Frame
	Event    MotionEvent
	Captured bool
	Cached   bool
}

// ClassificationFrame is overwritten every time classify_now is set.
type ClassificationFrame struct {
	Frame            camera.NV12Frame
	DeliveryUnionBox geometry.Box
	ObjectBoxes      []geometry.NormalizedBox
	Cached           bool
}

// Payload is the finished artifact emitted on clip-end.
type Payload struct {
	EpisodeID           string
	FileName            string
	MotionTime          time.Time
	TSDelta             time.Duration
	UnionBoxRelative    geometry.Box
	ObjectBoxesRelative []geometry.Box
	CroppedBox          geometry.Box
	MotionLog           string
	DeliveryDetected    bool
	DetectionJSON       string
	Initiated           bool
}

func (p *Payload) ready() bool {
	return p.Initiated
}
