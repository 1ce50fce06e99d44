// Package analysis scores exercise technique from a single frame of pose landmarks.
//
// Every function in this package is pure: results depend only on the
// arguments, nothing is cached, and concurrent use needs no coordination.
package analysis

import "github.com/ayusman/liftform/internal/pose"

// Result is the outcome of analysing one frame.
type Result struct {
	// Score is the technique quality in [0, 1].
	Score float64 `json:"score"`
	// Issues lists detected defects, global issues first, then exercise rules in table order.
	Issues []string `json:"issues"`
	// SideProfile is the side selected from landmark confidence.
	SideProfile pose.Side `json:"side_profile"`
	// EvaluatedSide is the side whose landmarks the exercise rules read.
	// It is empty when no exercise was analysed.
	EvaluatedSide pose.Side `json:"evaluated_side,omitempty"`
	// Gated is true when required landmarks were not usable.
	Gated bool `json:"gated"`
	// Skipped names rules whose measurement was undefined for this frame.
	Skipped []string `json:"skipped,omitempty"`
}

// Analyze scores a keypoint set. An empty exercise runs only the global
// visibility check and side selection.
func Analyze(set pose.KeypointSet, exercise pose.Exercise) Result {
	res := Result{
		Issues:      []string{},
		SideProfile: SelectSide(set),
	}

	base := 1.0
	if LowVisibility(set) {
		res.Issues = append(res.Issues, IssueLowVisibility)
		base -= LowVisibilityPenalty
	}

	score := base
	if rs, ok := Lookup(exercise); ok {
		out := Evaluate(rs, set, res.SideProfile)
		res.Issues = append(res.Issues, out.Issues...)
		res.EvaluatedSide = out.EvaluatedSide
		res.Gated = out.Gated
		res.Skipped = out.Skipped
		score = base * out.Multiplier
	}

	res.Score = clamp01(score)
	return res
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
