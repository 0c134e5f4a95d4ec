package episode

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/your-org/camguard/internal/camera"
	"github.com/your-org/camguard/internal/geometry"
)

// State is the episode controller's coarse state (spec.md §4.3). Classifying
// is a substate of Recording tracked via classifyNow, not a distinct value.
type State int

const (
	StateIdle State = iota
	StateRecording
)

// Config carries the episode-controller knobs from the internal YAML config.
type Config struct {
	QuietInterval time.Duration
}

// Controller owns all shared resources behind one resource mutex: the last
// raw frame, EpisodeFrame, ClassificationFrame, classify_now, and the
// cached/processed counters. The Top-K buffer is deliberately NOT guarded
// here — only the classifier worker touches it, per spec.md §5.
type Controller struct {
	mu sync.Mutex

	cfg Config

	state   State
	payload Payload

	lastFrame camera.NV12Frame
	hasLast   bool

	episodeFrame EpisodeFrame
	classFrame   ClassificationFrame

	classifyNow bool
	lastUpload  time.Time

	cachedFrameCount    uint64
	processedFrameCount uint64

	classificationEnabled bool
	notify                chan struct{}

	onFinalize func(Payload)
}

// New constructs a Controller. notify is the condvar-equivalent channel
// (capacity 1) the classifier worker parks on; onFinalize is invoked with
// the completed payload when a clip ends and clears the quiet-interval gate.
func New(cfg Config, classificationEnabled bool, notify chan struct{}, onFinalize func(Payload)) *Controller {
	return &Controller{
		cfg:                   cfg,
		classificationEnabled: classificationEnabled,
		notify:                notify,
		onFinalize:            onFinalize,
	}
}

// Capture stores the latest raw frame captured from C1. Blocking on the
// frame source itself happens in the caller (the main dispatch thread); this
// only records the result.
func (c *Controller) Capture(frame camera.NV12Frame) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastFrame = frame
	c.hasLast = true
}

// ClipStart transitions Idle -> Recording, resetting the payload.
func (c *Controller) ClipStart(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.payload = Payload{
		EpisodeID: uuid.NewString(),
		FileName:  fmt.Sprintf("/tmp/%s.jpeg", name),
		Initiated: true,
	}
	c.episodeFrame = EpisodeFrame{}
	c.state = StateRecording
}

// notifyWorker performs a non-blocking send to the single-slot notify
// channel, the Go equivalent of condition_variable::notify_one: if a wakeup
// is already pending, this is a no-op rather than blocking.
func (c *Controller) notifyWorker() {
	select {
	case c.notify <- struct{}{}:
	default:
	}
}

// MotionEvent applies the update predicate from spec.md §4.3 and, if it
// passes, copies the current raw frame into EpisodeFrame (and, when
// classification is enabled, into ClassificationFrame) and wakes the
// classifier worker.
func (c *Controller) MotionEvent(e MotionEvent) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.hasLast {
		slog.Warn("motion event with no captured frame, skipping")
		return
	}
	if !c.updatePredicate(e) {
		return
	}

	c.episodeFrame = EpisodeFrame{
		Frame:    c.lastFrame,
		Event:    e,
		Captured: true,
		Cached:   true,
	}
	c.cachedFrameCount++

	if c.classificationEnabled {
		c.classFrame = ClassificationFrame{
			Frame:            c.lastFrame,
			DeliveryUnionBox: e.DeliveryUnionBox,
			ObjectBoxes:      normalizeObjectBoxes(e.ObjectBoxes, c.lastFrame.W, c.lastFrame.H),
			Cached:           true,
		}
		c.classifyNow = true
		c.notifyWorker()
	}
}

func normalizeObjectBoxes(boxes []geometry.Box, w, h int) []geometry.NormalizedBox {
	if w == 0 || h == 0 {
		return nil
	}
	out := make([]geometry.NormalizedBox, 0, len(boxes))
	for _, b := range boxes {
		out = append(out, geometry.NewNormalizedBox(
			float32(b.X)/float32(w),
			float32(b.Y)/float32(h),
			float32(b.X+b.W)/float32(w),
			float32(b.Y+b.H)/float32(h),
		))
	}
	return out
}

// updatePredicate implements spec.md §4.3's frame-selection policy exactly.
func (c *Controller) updatePredicate(e MotionEvent) bool {
	if !c.hasLast {
		return false
	}
	if e.Kind != MotionKindDetected {
		return false
	}
	if e.UnionBox.Area() <= c.episodeFrame.Event.UnionBox.Area() {
		return false
	}
	flags := e.Flags
	gate := (flags.HasROI() && flags.InsideROI()) ||
		(flags.HasDOI() && flags.InsideDOI()) ||
		(!flags.HasROI() && !flags.HasDOI())
	return gate
}

// ClipEnd finalizes the payload and transitions Recording -> Idle, per
// spec.md §4.3/§4.9. If the quiet interval since the last delivered payload
// hasn't elapsed, the payload is dropped instead of delivered.
func (c *Controller) ClipEnd(name string, assemble func(EpisodeFrame) (Payload, error)) {
	c.mu.Lock()
	if c.state != StateRecording || !c.payload.ready() {
		c.mu.Unlock()
		return
	}
	ef := c.episodeFrame
	episodeID := c.payload.EpisodeID
	classifyWasRunning := c.classifyNow
	c.classifyNow = false
	c.mu.Unlock()

	if classifyWasRunning {
		c.notifyWorker()
	}

	if !ef.Captured {
		slog.Info("no motion event during episode, dropping clip", "clip", name, "episode_id", episodeID)
		c.reset()
		return
	}

	finished, err := assemble(ef)
	if err != nil {
		slog.Error("assemble payload failed", "clip", name, "episode_id", episodeID, "error", err)
		c.reset()
		return
	}
	finished.EpisodeID = episodeID

	c.mu.Lock()
	now := time.Now()
	drop := !c.lastUpload.IsZero() && now.Sub(c.lastUpload) < c.cfg.QuietInterval
	if !drop {
		c.lastUpload = now
	}
	c.mu.Unlock()

	c.reset()

	if drop {
		slog.Info("dropping payload within quiet interval", "clip", name, "episode_id", episodeID)
		return
	}
	if c.onFinalize != nil {
		c.onFinalize(finished)
	}
}

func (c *Controller) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = StateIdle
	c.payload = Payload{}
	c.episodeFrame = EpisodeFrame{}
}

// ClassificationSnapshot returns a copy of the current ClassificationFrame
// and classify_now flag, for the classifier worker to consume under lock.
func (c *Controller) ClassificationSnapshot() (ClassificationFrame, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.classFrame, c.classifyNow
}

// Counters returns the cached/processed frame counters for metrics.
func (c *Controller) Counters() (cached, processed uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cachedFrameCount, c.processedFrameCount
}

// MarkProcessed increments the processed-frame counter after a classifier
// worker iteration completes.
func (c *Controller) MarkProcessed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processedFrameCount++
}
