package analysis

import (
	"math"

	"github.com/ayusman/liftform/internal/geometry"
	"github.com/ayusman/liftform/internal/pose"
)

// Deadlift thresholds.
const (
	deadliftBarDriftPx   = 30.0
	deadliftHipRatioHigh = 2.5
	deadliftHipRatioLow  = 0.8
	deadliftSpineDeg     = 60.0
	deadliftKneeLockDeg  = 160.0
	deadliftLookUpDeg    = 45.0
	deadliftLookDownDeg  = 15.0
)

// Deadlift issue messages.
const (
	IssueDeadliftBar      = "Bar too far from body - keep the bar close to your shins"
	IssueDeadliftHipsHigh = "Hips too high - this turns the lift into a stiff-leg deadlift"
	IssueDeadliftHipsLow  = "Hips too low - you are squatting the weight up"
	IssueDeadliftSpine    = "Spine rounded - keep a neutral back"
	IssueDeadliftKnees    = "Knees locked - keep a slight bend in the knees"
	IssueDeadliftLookUp   = "Don't look up - keep your neck neutral"
	IssueDeadliftLookDown = "Don't look down - keep your gaze slightly ahead"
)

func deadliftRules() Ruleset {
	return Ruleset{
		Exercise: pose.ExerciseDeadlift,
		Required: []pose.Joint{pose.JointAnkle, pose.JointKnee, pose.JointHip, pose.JointShoulder},
		Optional: []pose.Joint{pose.JointNose},
		Rules: []Rule{
			{
				Name:    "bar_path",
				Message: IssueDeadliftBar,
				Penalty: 0.3,
				Check: func(p Pose) (bool, error) {
					shoulder, ankle := p.Point(pose.JointShoulder), p.Point(pose.JointAnkle)
					return shoulder.X < ankle.X-deadliftBarDriftPx, nil
				},
			},
			{
				Name:    "hips_too_high",
				Message: IssueDeadliftHipsHigh,
				Penalty: 0.2,
				Check: func(p Pose) (bool, error) {
					r, err := hipHeightRatio(p)
					if err != nil {
						return false, err
					}
					return r > deadliftHipRatioHigh, nil
				},
			},
			{
				Name:    "hips_too_low",
				Message: IssueDeadliftHipsLow,
				Penalty: 0.2,
				Check: func(p Pose) (bool, error) {
					r, err := hipHeightRatio(p)
					if err != nil {
						return false, err
					}
					return r < deadliftHipRatioLow, nil
				},
			},
			{
				Name:    "spine_rounded",
				Message: IssueDeadliftSpine,
				Penalty: 0.4,
				Check: func(p Pose) (bool, error) {
					shoulder := p.Point(pose.JointShoulder)
					return angleAbove(geometry.Above(shoulder, verticalReferencePx), shoulder, p.Point(pose.JointHip), deadliftSpineDeg)
				},
			},
			{
				Name:    "knees_locked",
				Message: IssueDeadliftKnees,
				Penalty: 0.15,
				Check: func(p Pose) (bool, error) {
					return angleAbove(p.Point(pose.JointAnkle), p.Point(pose.JointKnee), p.Point(pose.JointHip), deadliftKneeLockDeg)
				},
			},
			{
				Name:    "looking_up",
				Message: IssueDeadliftLookUp,
				Penalty: 0.1,
				Needs:   []pose.Joint{pose.JointNose},
				Check: func(p Pose) (bool, error) {
					nose := p.Point(pose.JointNose)
					return angleAbove(p.Point(pose.JointShoulder), nose, geometry.Above(nose, noseReferencePx), deadliftLookUpDeg)
				},
			},
			{
				Name:    "looking_down",
				Message: IssueDeadliftLookDown,
				Penalty: 0.1,
				Needs:   []pose.Joint{pose.JointNose},
				Check: func(p Pose) (bool, error) {
					nose := p.Point(pose.JointNose)
					return angleBelow(p.Point(pose.JointShoulder), nose, geometry.Above(nose, noseReferencePx), deadliftLookDownDeg)
				},
			},
		},
	}
}

// hipHeightRatio returns (hip.y - knee.y) / (knee.y - ankle.y).
// It is undefined when the knee and ankle share the same height.
func hipHeightRatio(p Pose) (float64, error) {
	hip, knee, ankle := p.Point(pose.JointHip), p.Point(pose.JointKnee), p.Point(pose.JointAnkle)

	den := knee.Y - ankle.Y
	if math.Abs(den) < 1e-9 {
		return 0, ErrUndefined
	}
	return (hip.Y - knee.Y) / den, nil
}
