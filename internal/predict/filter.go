// Package predict implements the prediction filter C5: geometric
// intersection of detector boxes with the motion-blob set and optional
// polygonal ROI.
package predict

import (
	"github.com/your-org/camguard/internal/geometry"
	"github.com/your-org/camguard/internal/model"
)

// InsideBox reports whether pred lies fully within box, both in normalized
// coordinates.
func InsideBox(pred model.BoxPrediction, box geometry.NormalizedBox) bool {
	return pred.XMin >= box.XMin &&
		pred.YMin >= box.YMin &&
		pred.XMax <= box.XMax &&
		pred.YMax <= box.YMax
}

// InsideROI reports whether any of pred's four corners lies inside polygon.
// An empty polygon accepts everything.
func InsideROI(pred model.BoxPrediction, polygon geometry.ROI) bool {
	if len(polygon) == 0 {
		return true
	}
	corners := [4]geometry.Point{
		{X: pred.XMin, Y: pred.YMin},
		{X: pred.XMax, Y: pred.YMin},
		{X: pred.XMax, Y: pred.YMax},
		{X: pred.XMin, Y: pred.YMax},
	}
	for _, c := range corners {
		if geometry.InsideROI(c, polygon) {
			return true
		}
	}
	return false
}

// Process returns the first prediction (predictions arrive score-descending)
// that lies inside at least one motion object box and inside the ROI
// polygon. If nothing matches it returns false — this no-match-means-false
// behavior is preserved deliberately, not treated as an error case.
func Process(preds []model.BoxPrediction, objectBoxes []geometry.NormalizedBox, roi geometry.ROI) (model.BoxPrediction, bool) {
	for _, pred := range preds {
		if !InsideROI(pred, roi) {
			continue
		}
		for _, box := range objectBoxes {
			if InsideBox(pred, box) {
				return pred, true
			}
		}
	}
	return model.BoxPrediction{}, false
}
