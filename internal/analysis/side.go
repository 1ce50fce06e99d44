package analysis

import "github.com/ayusman/liftform/internal/pose"

// SideConfidenceGap is the mean-confidence difference above which one body
// side is considered the observed (sagittal) side.
const SideConfidenceGap = 0.2

// SelectSide picks the body side facing the camera from the relative
// confidence of left_ and right_ landmarks.
//
// A side with no landmarks at all is excluded from the comparison. When
// only one side has landmarks, that side is selected if its own mean
// confidence exceeds SideConfidenceGap (0.2), and SideUnknown is returned
// otherwise. When neither side has landmarks the result is SideUnknown.
func SelectSide(set pose.KeypointSet) pose.Side {
	var leftSum, rightSum float64
	var leftN, rightN int

	for _, l := range set.All() {
		switch pose.SideOf(l.Name) {
		case pose.SideLeft:
			leftSum += l.Confidence
			leftN++
		case pose.SideRight:
			rightSum += l.Confidence
			rightN++
		}
	}

	switch {
	case leftN == 0 && rightN == 0:
		return pose.SideUnknown
	case leftN == 0:
		return loneSide(pose.SideRight, rightSum/float64(rightN))
	case rightN == 0:
		return loneSide(pose.SideLeft, leftSum/float64(leftN))
	default:
		return pickSide(leftSum/float64(leftN), rightSum/float64(rightN))
	}
}

func loneSide(side pose.Side, mean float64) pose.Side {
	if mean > SideConfidenceGap {
		return side
	}
	return pose.SideUnknown
}

func pickSide(leftMean, rightMean float64) pose.Side {
	diff := leftMean - rightMean
	switch {
	case diff > SideConfidenceGap:
		return pose.SideLeft
	case -diff > SideConfidenceGap:
		return pose.SideRight
	default:
		return pose.SideUnknown
	}
}

// ruleSide returns the side whose landmarks the exercise rules read.
// Only an explicit left profile selects the left side; unknown falls back to right.
func ruleSide(profile pose.Side) pose.Side {
	if profile == pose.SideLeft {
		return pose.SideLeft
	}
	return pose.SideRight
}
