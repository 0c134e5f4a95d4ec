// Package bus implements the message bus adapter C9: decodes the inbound
// CAPTURE/METADATA/CLIP.STATUS wire messages and encodes the outbound
// STATUS message, over core NATS pub/sub.
package bus

import "encoding/json"

const (
	SubjectCapture    = "camguard.capture"
	SubjectMetadata   = "camguard.metadata"
	SubjectClipStatus = "camguard.clip.status"
	SubjectStatus     = "camguard.status"
)

// ClipStatus values from spec.md §6.
const (
	ClipStatusStart = 0
	ClipStatusEnd   = 1
)

// CaptureMessage triggers capture(pts) on C7.
type CaptureMessage struct {
	ProcessID int    `json:"processID"`
	Timestamp string `json:"timestamp"`
}

// RawBox is the wire shape of a bounding box in a METADATA message.
type RawBox struct {
	X int32 `json:"X"`
	Y int32 `json:"Y"`
	W int32 `json:"W"`
	H int32 `json:"H"`
}

// MetadataMessage triggers motion_event on C7.
type MetadataMessage struct {
	Timestamp      string    `json:"timestamp"`
	EventType      int32     `json:"event_type"`
	MotionScore    float64   `json:"motionScore"`
	CurrentTime    string    `json:"currentTime"`
	BoundingBox    RawBox    `json:"boundingBox"`
	DBoundingBox   *RawBox   `json:"d_boundingBox,omitempty"`
	ObjectBoxes    []RawBox  `json:"objectBoxs"`
	MotionFlags    int32     `json:"motionFlags"`
}

// ClipStatusMessage triggers clip_start/clip_end on C7.
type ClipStatusMessage struct {
	ClipStatus int32  `json:"clipStatus"`
	ClipName   string `json:"clipname"`
}

// StatusMessage is the sole outbound message, published at boot ("start")
// and at shutdown ("stop").
type StatusMessage struct {
	Status string `json:"status"`
}

// DecodeCapture decodes a CAPTURE payload. Decode failure is Transient per
// spec.md §7 — the caller logs and continues, it never panics.
func DecodeCapture(payload []byte) (CaptureMessage, error) {
	var m CaptureMessage
	err := json.Unmarshal(payload, &m)
	return m, err
}

// DecodeMetadata decodes a METADATA payload.
func DecodeMetadata(payload []byte) (MetadataMessage, error) {
	var m MetadataMessage
	err := json.Unmarshal(payload, &m)
	return m, err
}

// DecodeClipStatus decodes a CLIP.STATUS payload.
func DecodeClipStatus(payload []byte) (ClipStatusMessage, error) {
	var m ClipStatusMessage
	err := json.Unmarshal(payload, &m)
	return m, err
}

// EncodeStatus marshals the outbound STATUS payload.
func EncodeStatus(status string) ([]byte, error) {
	return json.Marshal(StatusMessage{Status: status})
}
