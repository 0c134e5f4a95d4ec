package model

import (
	"fmt"

	ort "github.com/yalue/onnxruntime_go"
)

// ONNXRunner wraps a single ONNX Runtime session implementing Runner.
// Unlike a typical float32 CHW vision model, the input tensor here is u8,
// matching the TFLite-style quantization contract in spec.md §4.6 — ONNX
// Runtime accepts uint8 input tensors natively, so the session/tensor
// lifecycle idiom below only changes the tensor element type, not the shape
// of the init/run/Destroy pattern.
type ONNXRunner struct {
	session      *ort.AdvancedSession
	inputTensor  *ort.Tensor[uint8]
	outputTensor *ort.Tensor[float32]
	format       TensorFormat
	class        Class
	outputCount  int
}

// outputStride is the number of float32 fields per decoded detection:
// y_min, x_min, y_max, x_max, confidence.
const outputStride = 5

// NewONNXRunner loads a single quantized detector model. class tags every
// BoxPrediction the runner decodes (Person or Delivery), since each backend
// instance only ever runs one stage of the cascade.
func NewONNXRunner(modelPath string, format TensorFormat, maxDetections int, class Class, opts *ort.SessionOptions) (*ONNXRunner, error) {
	inputShape := ort.NewShape(1, int64(format.InputH), int64(format.InputW), int64(format.Channels))
	inputTensor, err := ort.NewEmptyTensor[uint8](inputShape)
	if err != nil {
		return nil, fmt.Errorf("create input tensor: %w", err)
	}

	outputShape := ort.NewShape(int64(maxDetections), outputStride)
	outputTensor, err := ort.NewEmptyTensor[float32](outputShape)
	if err != nil {
		inputTensor.Destroy()
		return nil, fmt.Errorf("create output tensor: %w", err)
	}

	session, err := ort.NewAdvancedSession(modelPath,
		[]string{"input"},
		[]string{"detections"},
		[]ort.Value{inputTensor},
		[]ort.Value{outputTensor},
		opts,
	)
	if err != nil {
		inputTensor.Destroy()
		outputTensor.Destroy()
		return nil, fmt.Errorf("create detector session: %w", err)
	}

	return &ONNXRunner{
		session:      session,
		inputTensor:  inputTensor,
		outputTensor: outputTensor,
		format:       format,
		class:        class,
		outputCount:  maxDetections,
	}, nil
}

func (r *ONNXRunner) TensorFormat() TensorFormat {
	return r.format
}

// Run copies the quantized input into the session's input tensor, executes
// inference, and decodes the fixed-shape output tensor into predictions.
// Predictions are expected ordered score-descending by the model's own
// post-processing (spec.md §4.4 step 3).
func (r *ONNXRunner) Run(input []uint8) ([]BoxPrediction, error) {
	dst := r.inputTensor.GetData()
	if len(input) != len(dst) {
		return nil, fmt.Errorf("input tensor size mismatch: got %d want %d", len(input), len(dst))
	}
	copy(dst, input)

	if err := r.session.Run(); err != nil {
		return nil, fmt.Errorf("run inference: %w", err)
	}

	out := r.outputTensor.GetData()
	preds := make([]BoxPrediction, 0, r.outputCount)
	for i := 0; i < r.outputCount; i++ {
		base := i * outputStride
		confidence := out[base+4]
		if confidence <= 0 {
			continue
		}
		preds = append(preds, BoxPrediction{
			YMin:       out[base+0],
			XMin:       out[base+1],
			YMax:       out[base+2],
			XMax:       out[base+3],
			Confidence: confidence,
			Class:      r.class,
		})
	}
	return preds, nil
}

func (r *ONNXRunner) Close() {
	if r.session != nil {
		r.session.Destroy()
	}
	if r.inputTensor != nil {
		r.inputTensor.Destroy()
	}
	if r.outputTensor != nil {
		r.outputTensor.Destroy()
	}
}
