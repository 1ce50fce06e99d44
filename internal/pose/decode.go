package pose

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
)

// ErrInvalidFrame is returned when a landmark frame fails boundary validation.
var ErrInvalidFrame = errors.New("invalid frame")

// Frame is one decoded landmark frame with an optional exercise selector.
type Frame struct {
	Exercise  Exercise   `json:"exercise,omitempty"`
	Landmarks []Landmark `json:"landmarks"`
}

// Keypoints returns the frame landmarks as a KeypointSet.
func (f Frame) Keypoints() KeypointSet {
	return NewKeypointSet(f.Landmarks...)
}

// HasExercise reports whether the frame selects an exercise.
func (f Frame) HasExercise() bool {
	return f.Exercise != ""
}

// jsonFrame is the wire structure of a frame.
type jsonFrame struct {
	Exercise  string         `json:"exercise"`
	Landmarks *[]jsonLandmark `json:"landmarks"`
	Keypoints *[]jsonLandmark `json:"keypoints"`
}

// jsonLandmark accepts both "confidence" and the "score" alias used by
// several pose estimators. One of them is required, as are both coordinates.
type jsonLandmark struct {
	Name       string   `json:"name"`
	Confidence *float64 `json:"confidence"`
	Score      *float64 `json:"score"`
	X          *float64 `json:"x"`
	Y          *float64 `json:"y"`
}

func (l jsonLandmark) toLandmark() (Landmark, error) {
	if l.Name == "" {
		return Landmark{}, fmt.Errorf("%w: landmark name is required", ErrInvalidFrame)
	}

	var conf float64
	switch {
	case l.Confidence != nil:
		conf = *l.Confidence
	case l.Score != nil:
		conf = *l.Score
	default:
		return Landmark{}, fmt.Errorf("%w: %s has no confidence", ErrInvalidFrame, l.Name)
	}
	if l.X == nil || l.Y == nil {
		return Landmark{}, fmt.Errorf("%w: %s is missing coordinates", ErrInvalidFrame, l.Name)
	}

	if math.IsNaN(conf) || conf < 0 || conf > 1 {
		return Landmark{}, fmt.Errorf("%w: %s confidence %v outside [0,1]", ErrInvalidFrame, l.Name, conf)
	}
	if !finite(*l.X) || !finite(*l.Y) {
		return Landmark{}, fmt.Errorf("%w: %s has non-finite coordinates", ErrInvalidFrame, l.Name)
	}

	return Landmark{Name: l.Name, Confidence: conf, X: *l.X, Y: *l.Y}, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// DecodeFrame parses a JSON frame. Both an object with a "landmarks" (or
// "keypoints") array and a bare array of landmarks are accepted. An object
// carrying neither array, or a null payload, is rejected.
func DecodeFrame(data []byte) (Frame, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return Frame{}, fmt.Errorf("%w: empty payload", ErrInvalidFrame)
	}

	var raw jsonFrame
	if data[0] == '[' {
		var list []jsonLandmark
		if err := json.Unmarshal(data, &list); err != nil {
			return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
		}
		raw.Landmarks = &list
	} else if err := json.Unmarshal(data, &raw); err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrInvalidFrame, err)
	}

	return raw.toFrame()
}

// Decode reads a single JSON frame from r.
func Decode(r io.Reader) (Frame, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Frame{}, fmt.Errorf("read frame: %w", err)
	}
	return DecodeFrame(data)
}

func (f jsonFrame) toFrame() (Frame, error) {
	var frame Frame

	if f.Exercise != "" {
		ex, err := ParseExercise(f.Exercise)
		if err != nil {
			return Frame{}, err
		}
		frame.Exercise = ex
	}

	var src []jsonLandmark
	switch {
	case f.Landmarks != nil:
		src = *f.Landmarks
	case f.Keypoints != nil:
		src = *f.Keypoints
	default:
		return Frame{}, fmt.Errorf("%w: no landmarks or keypoints array", ErrInvalidFrame)
	}

	frame.Landmarks = make([]Landmark, 0, len(src))
	for _, jl := range src {
		l, err := jl.toLandmark()
		if err != nil {
			return Frame{}, err
		}
		frame.Landmarks = append(frame.Landmarks, l)
	}

	return frame, nil
}
