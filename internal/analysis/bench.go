package analysis

import (
	"math"

	"github.com/ayusman/liftform/internal/pose"
)

// Bench press thresholds.
const (
	benchShrugPx       = 150.0
	benchElbowWideDeg  = 100.0
	benchElbowTightDeg = 45.0
	benchStackPx       = 40.0
	benchBarPathPx     = 50.0
	benchArchPx        = 80.0
	benchHeadLiftPx    = 50.0
)

// Bench press issue messages.
const (
	IssueBenchShrug       = "Shoulders shrugged - pull your shoulder blades down and back"
	IssueBenchElbowsWide  = "Elbows too wide - tuck them slightly toward your torso"
	IssueBenchElbowsTight = "Elbows too tight - let them flare a little more"
	IssueBenchWrist       = "Wrist not stacked over elbow"
	IssueBenchBarPath     = "Bar path drifting toward your face"
	IssueBenchArch        = "Excessive back arch - keep your glutes on the bench"
	IssueBenchHead        = "Keep your head on the bench"
)

func benchRules() Ruleset {
	return Ruleset{
		Exercise: pose.ExerciseBench,
		Required: []pose.Joint{pose.JointShoulder, pose.JointElbow, pose.JointWrist},
		Optional: []pose.Joint{pose.JointHip, pose.JointNose},
		Rules: []Rule{
			{
				Name:    "shoulders_shrugged",
				Message: IssueBenchShrug,
				Penalty: 0.2,
				Needs:   []pose.Joint{pose.JointHip},
				Check: func(p Pose) (bool, error) {
					shoulder, hip := p.Point(pose.JointShoulder), p.Point(pose.JointHip)
					return shoulder.Y < hip.Y-benchShrugPx, nil
				},
			},
			{
				Name:    "elbows_wide",
				Message: IssueBenchElbowsWide,
				Penalty: 0.25,
				Check: func(p Pose) (bool, error) {
					return angleAbove(p.Point(pose.JointWrist), p.Point(pose.JointElbow), p.Point(pose.JointShoulder), benchElbowWideDeg)
				},
			},
			{
				Name:    "elbows_tight",
				Message: IssueBenchElbowsTight,
				Penalty: 0.15,
				Check: func(p Pose) (bool, error) {
					return angleBelow(p.Point(pose.JointWrist), p.Point(pose.JointElbow), p.Point(pose.JointShoulder), benchElbowTightDeg)
				},
			},
			{
				Name:    "wrist_stack",
				Message: IssueBenchWrist,
				Penalty: 0.2,
				Check: func(p Pose) (bool, error) {
					wrist, elbow := p.Point(pose.JointWrist), p.Point(pose.JointElbow)
					return math.Abs(wrist.X-elbow.X) > benchStackPx, nil
				},
			},
			{
				Name:    "bar_path",
				Message: IssueBenchBarPath,
				Penalty: 0.3,
				Check: func(p Pose) (bool, error) {
					wrist, shoulder := p.Point(pose.JointWrist), p.Point(pose.JointShoulder)
					return wrist.X < shoulder.X-benchBarPathPx, nil
				},
			},
			{
				Name:    "back_arch",
				Message: IssueBenchArch,
				Penalty: 0.15,
				Needs:   []pose.Joint{pose.JointHip},
				Check: func(p Pose) (bool, error) {
					shoulder, hip := p.Point(pose.JointShoulder), p.Point(pose.JointHip)
					return math.Abs(shoulder.X-hip.X) > benchArchPx, nil
				},
			},
			{
				Name:    "head_lift",
				Message: IssueBenchHead,
				Penalty: 0.1,
				Needs:   []pose.Joint{pose.JointNose},
				Check: func(p Pose) (bool, error) {
					nose, shoulder := p.Point(pose.JointNose), p.Point(pose.JointShoulder)
					return nose.Y-shoulder.Y > benchHeadLiftPx, nil
				},
			},
		},
	}
}
