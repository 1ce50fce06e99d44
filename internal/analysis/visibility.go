package analysis

import "github.com/ayusman/liftform/internal/pose"

// Confidence gate constants.
const (
	// MinConfidence is the confidence below which a landmark is unusable.
	MinConfidence = 0.5
	// MaxLowVisibility is the number of low-confidence landmarks tolerated
	// before the global penalty applies.
	MaxLowVisibility = 3
	// LowVisibilityPenalty is subtracted from the base score.
	LowVisibilityPenalty = 0.2
	// MissingConfidence is the confidence at or below which a required
	// keypoint counts as missing.
	MissingConfidence = 0.3
	// MissingRatio is the share of required keypoints that may be missing
	// before the frame is flagged.
	MissingRatio = 0.3
)

// Visibility messages.
const (
	IssueLowVisibility = "Some body parts are not clearly visible"
	MessageMissing     = "Some key body points are missing. Adjust the camera so your whole body is in frame."
)

// LowVisibilityCount counts every supplied landmark with confidence below
// MinConfidence, duplicates included.
func LowVisibilityCount(set pose.KeypointSet) int {
	n := 0
	for _, l := range set.All() {
		if l.Confidence < MinConfidence {
			n++
		}
	}
	return n
}

// LowVisibility reports whether the global visibility penalty applies.
func LowVisibility(set pose.KeypointSet) bool {
	return LowVisibilityCount(set) > MaxLowVisibility
}

// RequiredKeypoints returns the landmark names that must be visible for an
// exercise to be judged, both sides included.
func RequiredKeypoints(exercise pose.Exercise) []string {
	var joints []pose.Joint
	switch exercise {
	case pose.ExerciseSquat, pose.ExerciseDeadlift:
		joints = []pose.Joint{pose.JointShoulder, pose.JointHip, pose.JointKnee, pose.JointAnkle}
	case pose.ExerciseBench:
		joints = []pose.Joint{pose.JointShoulder, pose.JointElbow, pose.JointWrist}
	default:
		return nil
	}

	names := make([]string, 0, 2*len(joints))
	for _, side := range []pose.Side{pose.SideLeft, pose.SideRight} {
		for _, j := range joints {
			names = append(names, j.Name(side))
		}
	}
	return names
}

// MissingCount returns how many required keypoints are absent or have
// confidence at or below MissingConfidence.
func MissingCount(set pose.KeypointSet, exercise pose.Exercise) (missing, required int) {
	names := RequiredKeypoints(exercise)
	for _, name := range names {
		l, ok := set.Get(name)
		if !ok || l.Confidence <= MissingConfidence {
			missing++
		}
	}
	return missing, len(names)
}

// MissingKeypoints reports whether more than MissingRatio of the exercise's
// required keypoints are missing.
func MissingKeypoints(set pose.KeypointSet, exercise pose.Exercise) bool {
	missing, required := MissingCount(set, exercise)
	if required == 0 {
		return false
	}
	return float64(missing) > MissingRatio*float64(required)
}
