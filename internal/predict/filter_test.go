package predict

import (
	"testing"

	"github.com/your-org/camguard/internal/geometry"
	"github.com/your-org/camguard/internal/model"
)

func TestInsideBox(t *testing.T) {
	box := geometry.NormalizedBox{XMin: 0.1, YMin: 0.1, XMax: 0.9, YMax: 0.9}
	inside := model.BoxPrediction{XMin: 0.2, YMin: 0.2, XMax: 0.8, YMax: 0.8}
	outside := model.BoxPrediction{XMin: 0.05, YMin: 0.2, XMax: 0.8, YMax: 0.8}

	if !InsideBox(inside, box) {
		t.Fatal("expected inside prediction to be inside box")
	}
	if InsideBox(outside, box) {
		t.Fatal("expected outside prediction to be outside box")
	}
}

func TestInsideROIEmptyAcceptsAll(t *testing.T) {
	pred := model.BoxPrediction{XMin: 5, YMin: 5, XMax: 6, YMax: 6}
	if !InsideROI(pred, nil) {
		t.Fatal("empty ROI must accept every prediction")
	}
}

func TestProcessNoMatchReturnsFalse(t *testing.T) {
	preds := []model.BoxPrediction{
		{XMin: 0.9, YMin: 0.9, XMax: 0.95, YMax: 0.95, Confidence: 0.9},
	}
	boxes := []geometry.NormalizedBox{{XMin: 0, YMin: 0, XMax: 0.1, YMax: 0.1}}

	_, ok := Process(preds, boxes, nil)
	if ok {
		t.Fatal("expected no match to report false, not an error")
	}
}

func TestProcessReturnsFirstMatch(t *testing.T) {
	preds := []model.BoxPrediction{
		{XMin: 0.2, YMin: 0.2, XMax: 0.3, YMax: 0.3, Confidence: 0.9},
		{XMin: 0.21, YMin: 0.21, XMax: 0.29, YMax: 0.29, Confidence: 0.8},
	}
	boxes := []geometry.NormalizedBox{{XMin: 0.1, YMin: 0.1, XMax: 0.4, YMax: 0.4}}

	got, ok := Process(preds, boxes, nil)
	if !ok {
		t.Fatal("expected a match")
	}
	if got.Confidence != 0.9 {
		t.Fatalf("expected first (highest-confidence) match, got %+v", got)
	}
}
