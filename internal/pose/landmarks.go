// Package pose provides body landmark types, keypoint lookup and frame decoding
// for exercise technique analysis.
package pose

import (
	"fmt"
	"strings"
)

// Canonical landmark names following the 17-point COCO keypoint convention.
const (
	Nose          = "nose"
	LeftEye       = "left_eye"
	RightEye      = "right_eye"
	LeftEar       = "left_ear"
	RightEar      = "right_ear"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
	NumLandmarks  = 17
)

// Vocabulary lists every canonical landmark name in COCO index order.
var Vocabulary = [NumLandmarks]string{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow,
	LeftWrist, RightWrist, LeftHip, RightHip,
	LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

const (
	leftPrefix  = "left_"
	rightPrefix = "right_"
)

// Side identifies the lateral half of the body a rule set is keyed to.
type Side string

const (
	SideLeft    Side = "left"
	SideRight   Side = "right"
	SideUnknown Side = "unknown"
)

// Opposite returns the mirrored side. Unknown stays unknown.
func (s Side) Opposite() Side {
	switch s {
	case SideLeft:
		return SideRight
	case SideRight:
		return SideLeft
	default:
		return SideUnknown
	}
}

// Joint is a side-independent body part name such as "knee".
type Joint string

const (
	JointNose     Joint = "nose"
	JointEye      Joint = "eye"
	JointEar      Joint = "ear"
	JointShoulder Joint = "shoulder"
	JointElbow    Joint = "elbow"
	JointWrist    Joint = "wrist"
	JointHip      Joint = "hip"
	JointKnee     Joint = "knee"
	JointAnkle    Joint = "ankle"
)

// Sided reports whether the joint exists once per body side.
func (j Joint) Sided() bool {
	return j != JointNose
}

// Name returns the landmark name of the joint on the given side.
// Unsided joints ignore the side.
func (j Joint) Name(side Side) string {
	if !j.Sided() {
		return string(j)
	}
	if side == SideLeft {
		return leftPrefix + string(j)
	}
	return rightPrefix + string(j)
}

// SideOf returns the side encoded in a landmark name prefix.
func SideOf(name string) Side {
	switch {
	case strings.HasPrefix(name, leftPrefix):
		return SideLeft
	case strings.HasPrefix(name, rightPrefix):
		return SideRight
	default:
		return SideUnknown
	}
}

// MirrorName swaps the left_/right_ prefix of a landmark name.
func MirrorName(name string) string {
	switch SideOf(name) {
	case SideLeft:
		return rightPrefix + strings.TrimPrefix(name, leftPrefix)
	case SideRight:
		return leftPrefix + strings.TrimPrefix(name, rightPrefix)
	default:
		return name
	}
}

// Point is a 2D position in frame-local pixel space.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Landmark is one detected anatomical point.
type Landmark struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
}

// Point returns the landmark position.
func (l Landmark) Point() Point {
	return Point{X: l.X, Y: l.Y}
}

func (l Landmark) String() string {
	return fmt.Sprintf("%s(%.1f,%.1f @%.2f)", l.Name, l.X, l.Y, l.Confidence)
}

// KeypointSet is an immutable collection of landmarks for one subject in one frame.
// Lookups are keyed by name. When a name occurs more than once the first
// landmark supplied wins; the later duplicates remain visible through All.
type KeypointSet struct {
	all    []Landmark
	byName map[string]Landmark
}

// NewKeypointSet builds a KeypointSet from the given landmarks.
func NewKeypointSet(landmarks ...Landmark) KeypointSet {
	set := KeypointSet{
		all:    make([]Landmark, len(landmarks)),
		byName: make(map[string]Landmark, len(landmarks)),
	}
	copy(set.all, landmarks)

	for _, l := range landmarks {
		if _, exists := set.byName[l.Name]; exists {
			continue
		}
		set.byName[l.Name] = l
	}

	return set
}

// Get returns the landmark with the given name.
func (s KeypointSet) Get(name string) (Landmark, bool) {
	l, ok := s.byName[name]
	return l, ok
}

// Joint returns the landmark for a joint on the given side.
func (s KeypointSet) Joint(side Side, joint Joint) (Landmark, bool) {
	return s.Get(joint.Name(side))
}

// Len returns the number of supplied landmarks, duplicates included.
func (s KeypointSet) Len() int {
	return len(s.all)
}

// All returns a copy of every supplied landmark in input order.
func (s KeypointSet) All() []Landmark {
	out := make([]Landmark, len(s.all))
	copy(out, s.all)
	return out
}

// Mirrored returns a new set with every left_/right_ prefix swapped.
func (s KeypointSet) Mirrored() KeypointSet {
	mirrored := make([]Landmark, len(s.all))
	for i, l := range s.all {
		l.Name = MirrorName(l.Name)
		mirrored[i] = l
	}
	return NewKeypointSet(mirrored...)
}
