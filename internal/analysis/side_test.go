package analysis

import (
	"testing"

	"github.com/ayusman/liftform/internal/pose"
)

func TestSelectSide(t *testing.T) {
	lm := func(name string, conf float64) pose.Landmark {
		return pose.Landmark{Name: name, Confidence: conf}
	}

	tests := []struct {
		name      string
		landmarks []pose.Landmark
		want      pose.Side
	}{
		{"empty set", nil, pose.SideUnknown},
		{"only unsided landmarks", []pose.Landmark{lm(pose.Nose, 0.9)}, pose.SideUnknown},
		{"frontal view", pose.FrontalView(), pose.SideUnknown},
		{"left clearly stronger", []pose.Landmark{lm(pose.LeftHip, 0.9), lm(pose.RightHip, 0.5)}, pose.SideLeft},
		{"right clearly stronger", []pose.Landmark{lm(pose.LeftHip, 0.3), lm(pose.RightHip, 0.9)}, pose.SideRight},
		{"gap within threshold", []pose.Landmark{lm(pose.LeftHip, 0.8), lm(pose.RightHip, 0.7)}, pose.SideUnknown},
		{"only right observed", pose.WellAlignedSquat(), pose.SideRight},
		{"only right observed but faint", pose.LowConfidenceSquat(), pose.SideUnknown},
		{"only left observed", []pose.Landmark{lm(pose.LeftKnee, 0.6)}, pose.SideLeft},
		{"lone side at the gap", []pose.Landmark{lm(pose.LeftKnee, 0.2), lm(pose.Nose, 0.9)}, pose.SideUnknown},
		{"lone side just above the gap", []pose.Landmark{lm(pose.RightKnee, 0.25)}, pose.SideRight},
		{
			"mean over all landmarks of a side",
			[]pose.Landmark{
				lm(pose.LeftHip, 1.0), lm(pose.LeftKnee, 0.2),
				lm(pose.RightHip, 0.5), lm(pose.RightKnee, 0.5),
			},
			pose.SideUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SelectSide(pose.NewKeypointSet(tt.landmarks...))
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestSelectSide_MirrorSymmetry(t *testing.T) {
	sets := [][]pose.Landmark{
		pose.WellAlignedSquat(),
		pose.FrontalView(),
		pose.GoodBench(),
		{
			{Name: pose.LeftShoulder, Confidence: 0.95},
			{Name: pose.LeftHip, Confidence: 0.85},
			{Name: pose.RightShoulder, Confidence: 0.4},
		},
	}

	for i, landmarks := range sets {
		set := pose.NewKeypointSet(landmarks...)
		got := SelectSide(set)
		mirrored := SelectSide(set.Mirrored())

		if mirrored != got.Opposite() {
			t.Errorf("set %d: side %s mirrored to %s, expected %s", i, got, mirrored, got.Opposite())
		}
	}
}
