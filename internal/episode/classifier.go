package episode

import (
	"log/slog"
	"time"

	"github.com/your-org/camguard/internal/geometry"
	"github.com/your-org/camguard/internal/imaging"
	"github.com/your-org/camguard/internal/model"
	"github.com/your-org/camguard/internal/predict"
	"github.com/your-org/camguard/internal/topk"
)

// rateLimit is the minimum spacing between person-detector inferences,
// per spec.md §4.3 ("rate-limits to ≤1 person-inference/sec").
const rateLimit = 1 * time.Second

// ClassifierConfig carries the cascade thresholds and ROI polygon used by
// the prediction filter (C5).
type ClassifierConfig struct {
	PersonThreshold   float32
	DeliveryThreshold float32
	ROI               geometry.ROI
}

// Classifier is the single worker thread that owns both model runners and
// drives the person→delivery cascade (spec.md §4.3-4.5). It parks on the
// notify channel, the Go equivalent of the original's condition variable —
// a capacity-1 buffered channel so a pending wakeup survives even when no
// goroutine is currently receiving.
type Classifier struct {
	controller *Controller
	person     model.Runner
	delivery   model.Runner
	buffer     *topk.Buffer
	cfg        ClassifierConfig
	notify     chan struct{}
	onDelivery func(deliveryDetected bool)
}

// NewClassifier wires the cascade's dependencies together.
func NewClassifier(controller *Controller, person, delivery model.Runner, buffer *topk.Buffer, cfg ClassifierConfig, notify chan struct{}, onDelivery func(bool)) *Classifier {
	return &Classifier{
		controller: controller,
		person:     person,
		delivery:   delivery,
		buffer:     buffer,
		cfg:        cfg,
		notify:     notify,
		onDelivery: onDelivery,
	}
}

// Run is the worker's main loop. It exits only when shutdown is closed.
func (cl *Classifier) Run(shutdown <-chan struct{}) {
	for {
		select {
		case <-shutdown:
			return
		case <-cl.notify:
		}

		cl.drainClassifyLoop(shutdown)
		cl.runDeliveryCascade()
	}
}

// drainClassifyLoop runs the person detector while classify_now stays true,
// rate-limited to one inference per second.
func (cl *Classifier) drainClassifyLoop(shutdown <-chan struct{}) {
	for {
		select {
		case <-shutdown:
			return
		default:
		}

		frame, classifyNow := cl.controller.ClassificationSnapshot()
		if !classifyNow {
			return
		}

		started := time.Now()
		if frame.Cached {
			cl.runPersonStep(frame)
		}
		cl.controller.MarkProcessed()

		elapsed := time.Since(started)
		if remaining := rateLimit - elapsed; remaining > 0 {
			select {
			case <-shutdown:
				return
			case <-time.After(remaining):
			}
		}
	}
}

// runPersonStep implements spec.md §4.4: resize/normalize/quantize, run the
// person detector, filter via C5, and on a confident hit insert a
// delivery-candidate tensor into the Top-K buffer.
func (cl *Classifier) runPersonStep(frame ClassificationFrame) {
	rgb := imaging.YUVToRGB(frame.Frame.Y, frame.Frame.UV, frame.Frame.W, frame.Frame.H)

	fmtP := cl.person.TensorFormat()
	tensor, err := quantizeTensor(rgb, fmtP, &frame.DeliveryUnionBox)
	if err != nil {
		slog.Error("person tensor prep failed", "error", err)
		return
	}

	preds, err := cl.person.Run(tensor)
	if err != nil {
		slog.Error("person inference failed", "error", err)
		return
	}

	match, ok := predict.Process(preds, frame.ObjectBoxes, cl.cfg.ROI)
	if !ok || match.Confidence < cl.cfg.PersonThreshold {
		return
	}

	fmtD := cl.delivery.TensorFormat()
	candidate, err := quantizeTensor(rgb, fmtD, &frame.DeliveryUnionBox)
	if err != nil {
		slog.Error("delivery candidate tensor prep failed", "error", err)
		return
	}

	cl.buffer.Add(topk.Entry{Tensor: candidate, Score: match.Confidence})
}

// runDeliveryCascade implements spec.md §4.5: run the delivery model over
// every buffered candidate; the first confidence at or above the threshold
// marks the payload and stops early. The buffer is cleared afterwards
// regardless of outcome.
func (cl *Classifier) runDeliveryCascade() {
	entries := cl.buffer.Snapshot()
	detected := false

	for _, entry := range entries {
		preds, err := cl.delivery.Run(entry.Tensor)
		if err != nil {
			slog.Error("delivery inference failed", "error", err)
			continue
		}
		if len(preds) == 0 {
			continue
		}
		if preds[0].Confidence >= cl.cfg.DeliveryThreshold {
			detected = true
			break
		}
	}

	cl.buffer.Clear()
	if cl.onDelivery != nil {
		cl.onDelivery(detected)
	}
}

func quantizeTensor(rgb *imaging.RGBFrame, fmt model.TensorFormat, unionBox *geometry.Box) ([]uint8, error) {
	resized, _ := imaging.ResizeFrame(rgb, fmt.InputW, fmt.InputH, unionBox)
	normalized := imaging.Normalize(resized)
	return imaging.Quantize(normalized), nil
}
