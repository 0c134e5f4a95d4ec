// Package payload implements the payload assembler C8: converts absolute
// motion boxes into thumbnail-relative coordinates and writes the finished
// JPEG thumbnail.
package payload

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/your-org/camguard/internal/episode"
	"github.com/your-org/camguard/internal/geometry"
	"github.com/your-org/camguard/internal/imaging"
)

const (
	thumbnailWidth  = 400
	thumbnailHeight = 300
	jpegQuality     = 95
)

// Assemble implements spec.md §4.9: crop+resize the episode frame's raw
// NV12 around the saved union box, encode it as the clip's thumbnail JPEG,
// and translate every source-coordinate box in the motion metadata into
// thumbnail-relative coordinates using the returned ScalingResult.
func Assemble(ef episode.EpisodeFrame, fileName string) (episode.Payload, []byte, error) {
	rgb := imaging.YUVToRGB(ef.Frame.Y, ef.Frame.UV, ef.Frame.W, ef.Frame.H)

	unionBox := ef.Event.UnionBox
	cropped, scaling := imaging.ResizeFrame(rgb, thumbnailWidth, thumbnailHeight, &unionBox)

	jpegBytes, err := imaging.EncodeJPEG(cropped, jpegQuality)
	if err != nil {
		return episode.Payload{}, nil, fmt.Errorf("encode thumbnail jpeg: %w", err)
	}

	scaledUnion := scaleBox(unionBox, scaling.ScaleFactor)
	relativeUnion := geometry.RelativeBox(scaledUnion, scaling.CropSize, scaling.CropCenter)

	objectBoxesRelative := make([]geometry.Box, 0, len(ef.Event.ObjectBoxes))
	for _, b := range ef.Event.ObjectBoxes {
		scaled := scaleBox(b, scaling.ScaleFactor)
		objectBoxesRelative = append(objectBoxesRelative, geometry.RelativeBox(scaled, scaling.CropSize, scaling.CropCenter))
	}

	croppedBox := geometry.Box{
		X: int32(scaling.CropCenter.X) - int32(scaling.CropSize.W)/2,
		Y: int32(scaling.CropCenter.Y) - int32(scaling.CropSize.H)/2,
		W: int32(scaling.CropSize.W),
		H: int32(scaling.CropSize.H),
	}

	detectionJSON, err := json.Marshal(ef.Event)
	if err != nil {
		detectionJSON = nil
	}

	p := episode.Payload{
		FileName:            fileName,
		MotionTime:          ef.Event.EventTime,
		TSDelta:             time.Since(ef.Event.EventTime),
		UnionBoxRelative:    relativeUnion,
		ObjectBoxesRelative: objectBoxesRelative,
		CroppedBox:          croppedBox,
		Initiated:           true,
	}
	if detectionJSON != nil {
		p.DetectionJSON = string(detectionJSON)
	}

	return p, jpegBytes, nil
}

func scaleBox(b geometry.Box, scale float64) geometry.Box {
	if scale == 1 {
		return b
	}
	return geometry.Box{
		X: int32(float64(b.X) / scale),
		Y: int32(float64(b.Y) / scale),
		W: int32(float64(b.W) / scale),
		H: int32(float64(b.H) / scale),
	}
}
