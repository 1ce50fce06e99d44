package analysis

import (
	"math"

	"github.com/ayusman/liftform/internal/geometry"
	"github.com/ayusman/liftform/internal/pose"
)

// Squat thresholds, in pixels and degrees.
const (
	squatKneeDriftPx    = 60.0
	squatKneeForwardPx  = 80.0
	squatChestLeanDeg   = 45.0
	squatDepthDeg       = 140.0
	squatHipFlexionDeg  = 70.0
	squatHeadOffsetPx   = 100.0
	verticalReferencePx = 100.0
	noseReferencePx     = 50.0
)

// Squat issue messages.
const (
	IssueSquatToes     = "Weight shifting to toes - keep your weight over mid-foot"
	IssueSquatKnees    = "Knees tracking too far forward past the toes"
	IssueSquatChest    = "Chest collapsing forward - keep your chest up"
	IssueSquatDepth    = "Try to squat deeper - aim for thighs parallel to the floor"
	IssueSquatButtWink = "Excessive hip flexion - watch for butt wink at the bottom"
	IssueSquatHead     = "Maintain neutral head position"
)

func squatRules() Ruleset {
	return Ruleset{
		Exercise: pose.ExerciseSquat,
		Required: []pose.Joint{pose.JointAnkle, pose.JointKnee, pose.JointHip, pose.JointShoulder},
		Optional: []pose.Joint{pose.JointNose},
		Rules: []Rule{
			{
				Name:    "weight_on_toes",
				Message: IssueSquatToes,
				Penalty: 0.25,
				Check: func(p Pose) (bool, error) {
					knee, ankle := p.Point(pose.JointKnee), p.Point(pose.JointAnkle)
					return math.Abs(knee.X-ankle.X) > squatKneeDriftPx, nil
				},
			},
			{
				Name:    "knees_forward",
				Message: IssueSquatKnees,
				Penalty: 0.2,
				Check: func(p Pose) (bool, error) {
					knee, ankle := p.Point(pose.JointKnee), p.Point(pose.JointAnkle)
					return knee.X > ankle.X+squatKneeForwardPx, nil
				},
			},
			{
				Name:    "chest_collapse",
				Message: IssueSquatChest,
				Penalty: 0.3,
				Check: func(p Pose) (bool, error) {
					hip := p.Point(pose.JointHip)
					return angleAbove(geometry.Above(hip, verticalReferencePx), hip, p.Point(pose.JointShoulder), squatChestLeanDeg)
				},
			},
			{
				Name:    "depth",
				Message: IssueSquatDepth,
				Penalty: 0.1,
				Check: func(p Pose) (bool, error) {
					return angleAbove(p.Point(pose.JointAnkle), p.Point(pose.JointKnee), p.Point(pose.JointHip), squatDepthDeg)
				},
			},
			{
				Name:    "butt_wink",
				Message: IssueSquatButtWink,
				Penalty: 0.15,
				Check: func(p Pose) (bool, error) {
					return angleBelow(p.Point(pose.JointKnee), p.Point(pose.JointHip), p.Point(pose.JointShoulder), squatHipFlexionDeg)
				},
			},
			{
				Name:    "head_position",
				Message: IssueSquatHead,
				Penalty: 0.1,
				Needs:   []pose.Joint{pose.JointNose},
				Check: func(p Pose) (bool, error) {
					nose, shoulder := p.Point(pose.JointNose), p.Point(pose.JointShoulder)
					return math.Abs(nose.Y-shoulder.Y) > squatHeadOffsetPx, nil
				},
			},
		},
	}
}

// angleAbove reports whether the angle at vertex exceeds limit.
func angleAbove(a, vertex, b pose.Point, limit float64) (bool, error) {
	deg, err := geometry.Angle(a, vertex, b)
	if err != nil {
		return false, err
	}
	return deg > limit, nil
}

// angleBelow reports whether the angle at vertex is under limit.
func angleBelow(a, vertex, b pose.Point, limit float64) (bool, error) {
	deg, err := geometry.Angle(a, vertex, b)
	if err != nil {
		return false, err
	}
	return deg < limit, nil
}
