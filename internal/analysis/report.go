package analysis

import "github.com/ayusman/liftform/internal/pose"

// Report bundles a Result with the caller-level posture verdict.
type Report struct {
	Result
	Exercise pose.Exercise `json:"exercise,omitempty"`
	// MissingKeypoints is true when too many of the exercise's required
	// keypoints are absent or barely detected.
	MissingKeypoints bool `json:"missing_keypoints"`
	// IsGood is the overall posture verdict.
	IsGood bool `json:"is_good"`
	// Feedback holds coaching cues keyed by score band.
	Feedback []string `json:"feedback"`
}

// BuildReport analyses the keypoints and derives the posture verdict.
// Missing keypoints force IsGood to false regardless of score.
func BuildReport(set pose.KeypointSet, exercise pose.Exercise) Report {
	res := Analyze(set, exercise)

	r := Report{
		Result:           res,
		Exercise:         exercise,
		MissingKeypoints: MissingKeypoints(set, exercise),
	}

	r.IsGood = res.Score >= GoodScore && !r.MissingKeypoints && !res.Gated

	r.Feedback = []string{}
	if r.MissingKeypoints {
		r.Feedback = append(r.Feedback, MessageMissing)
	}
	r.Feedback = append(r.Feedback, Feedback(exercise, res.Score)...)

	return r
}
