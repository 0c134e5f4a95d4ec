package bus

import (
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/your-org/camguard/internal/episode"
	"github.com/your-org/camguard/internal/geometry"
)

// Dispatcher is the set of episode-controller calls the bus adapter drives.
type Dispatcher interface {
	Capture(pts int64)
	MotionEvent(e episode.MotionEvent)
	ClipStart(name string)
	ClipEnd(name string)
}

// Client is the message bus adapter (C9). It uses core NATS pub/sub, not
// JetStream — the bus contract is opaque, at-most-once, no-retry bytes per
// spec.md §5/§6, which JetStream's durable file storage would contradict.
type Client struct {
	nc       *nats.Conn
	shutdown atomic.Bool
}

// Connect dials the NATS URL with the teacher's reconnect posture
// (unbounded reconnect attempts, 2s backoff) since this process has no
// other way to learn the bus is back up.
func Connect(url string) (*Client, error) {
	nc, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, err
	}
	return &Client{nc: nc}, nil
}

// Run subscribes to the inbound subjects and dispatches decoded messages to
// d until shutdown is closed. This corrects the original dispatch loop's
// bug (a "while(mTerm)" guard on a flag that started false and so never
// ran) — it runs "while not shutdown", checked at least once a second.
// A subscription that fails is logged and not retried; reconnecting after a
// dropped connection is left to the NATS client (see Connect).
func (c *Client) Run(shutdown <-chan struct{}, d Dispatcher) {
	captureSub, err := c.nc.Subscribe(SubjectCapture, func(msg *nats.Msg) {
		m, err := DecodeCapture(msg.Data)
		if err != nil {
			slog.Warn("decode CAPTURE message", "error", err)
			return
		}
		pts, err := parseTimestamp(m.Timestamp)
		if err != nil {
			slog.Warn("parse CAPTURE timestamp", "error", err)
			return
		}
		d.Capture(pts)
	})
	if err != nil {
		slog.Error("subscribe CAPTURE", "error", err)
	}

	metadataSub, err := c.nc.Subscribe(SubjectMetadata, func(msg *nats.Msg) {
		m, err := DecodeMetadata(msg.Data)
		if err != nil {
			slog.Warn("decode METADATA message", "error", err)
			return
		}
		d.MotionEvent(toMotionEvent(m))
	})
	if err != nil {
		slog.Error("subscribe METADATA", "error", err)
	}

	clipSub, err := c.nc.Subscribe(SubjectClipStatus, func(msg *nats.Msg) {
		m, err := DecodeClipStatus(msg.Data)
		if err != nil {
			slog.Warn("decode CLIP.STATUS message", "error", err)
			return
		}
		switch m.ClipStatus {
		case ClipStatusStart:
			d.ClipStart(m.ClipName)
		case ClipStatusEnd:
			d.ClipEnd(m.ClipName)
		default:
			slog.Warn("unknown clip status, ignoring", "status", m.ClipStatus)
		}
	})
	if err != nil {
		slog.Error("subscribe CLIP.STATUS", "error", err)
	}

	for !c.shutdown.Load() {
		select {
		case <-shutdown:
			c.shutdown.Store(true)
		case <-time.After(1 * time.Second):
		}
	}

	_ = captureSub.Unsubscribe()
	_ = metadataSub.Unsubscribe()
	_ = clipSub.Unsubscribe()
}

// PublishStatus publishes the STATUS message ("start" at boot, "stop" at
// shutdown). Dispatch failure sleeps 1s and retries once, per spec.md §7.
func (c *Client) PublishStatus(status string) error {
	payload, err := EncodeStatus(status)
	if err != nil {
		return err
	}
	if err := c.nc.Publish(SubjectStatus, payload); err != nil {
		time.Sleep(1 * time.Second)
		return c.nc.Publish(SubjectStatus, payload)
	}
	return nil
}

// Close closes the NATS connection without draining it.
func (c *Client) Close() {
	c.nc.Close()
}

func toMotionEvent(m MetadataMessage) episode.MotionEvent {
	e := episode.MotionEvent{
		Kind:        m.EventType,
		Score:       m.MotionScore,
		UnionBox:    toBox(m.BoundingBox),
		ObjectBoxes: make([]geometry.Box, 0, len(m.ObjectBoxes)),
		Flags:       episode.MotionFlags(m.MotionFlags),
	}
	if m.DBoundingBox != nil {
		e.DeliveryUnionBox = toBox(*m.DBoundingBox)
	}
	for _, b := range m.ObjectBoxes {
		e.ObjectBoxes = append(e.ObjectBoxes, toBox(b))
	}
	if t, err := time.Parse(time.RFC3339, m.CurrentTime); err == nil {
		e.EventTime = t
	} else {
		e.EventTime = time.Now()
	}
	return e
}

func toBox(b RawBox) geometry.Box {
	return geometry.Box{X: b.X, Y: b.Y, W: b.W, H: b.H}
}

func parseTimestamp(s string) (int64, error) {
	var n int64
	_, err := fmt.Sscan(s, &n)
	return n, err
}
