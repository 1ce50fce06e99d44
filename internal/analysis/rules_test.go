package analysis

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/liftform/internal/pose"
)

func right(joint pose.Joint, x, y float64) pose.Landmark {
	return pose.Landmark{Name: joint.Name(pose.SideRight), Confidence: 0.9, X: x, Y: y}
}

func nose(x, y float64) pose.Landmark {
	return pose.Landmark{Name: pose.Nose, Confidence: 0.9, X: x, Y: y}
}

func evaluate(t *testing.T, exercise pose.Exercise, profile pose.Side, landmarks ...pose.Landmark) Outcome {
	t.Helper()
	rs, ok := Lookup(exercise)
	require.True(t, ok)
	return Evaluate(rs, keypoints(landmarks...), profile)
}

func TestEvaluate_Squat(t *testing.T) {
	tests := []struct {
		name       string
		landmarks  []pose.Landmark
		wantIssues []string
		wantMult   float64
	}{
		{
			name:       "stacked stance only misses depth",
			landmarks:  pose.WellAlignedSquat(),
			wantIssues: []string{IssueSquatDepth},
			wantMult:   0.9,
		},
		{
			name: "every rule triggers and hits the floor",
			landmarks: []pose.Landmark{
				right(pose.JointAnkle, 100, 500),
				right(pose.JointKnee, 200, 400),
				right(pose.JointHip, 300, 300),
				right(pose.JointShoulder, 200, 350),
				nose(150, 200),
			},
			wantIssues: []string{
				IssueSquatToes, IssueSquatKnees, IssueSquatChest,
				IssueSquatDepth, IssueSquatButtWink, IssueSquatHead,
			},
			wantMult: MinMultiplier,
		},
		{
			name: "nose within range",
			landmarks: append(pose.WellAlignedSquat(),
				nose(110, 100),
			),
			wantIssues: []string{IssueSquatDepth},
			wantMult:   0.9,
		},
		{
			name: "low confidence nose is ignored",
			landmarks: append(pose.WellAlignedSquat(),
				pose.Landmark{Name: pose.Nose, Confidence: 0.3, X: 110, Y: 400},
			),
			wantIssues: []string{IssueSquatDepth},
			wantMult:   0.9,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := evaluate(t, pose.ExerciseSquat, pose.SideRight, tt.landmarks...)

			if diff := cmp.Diff(tt.wantIssues, out.Issues); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
			assert.InDelta(t, tt.wantMult, out.Multiplier, delta)
			assert.False(t, out.Gated)
		})
	}
}

func TestEvaluate_Deadlift(t *testing.T) {
	tests := []struct {
		name       string
		landmarks  []pose.Landmark
		wantIssues []string
		wantMult   float64
	}{
		{
			name: "hinge position only flags the spine angle",
			landmarks: []pose.Landmark{
				right(pose.JointAnkle, 200, 500),
				right(pose.JointKnee, 220, 420),
				right(pose.JointHip, 150, 350),
				right(pose.JointShoulder, 260, 250),
			},
			wantIssues: []string{IssueDeadliftSpine},
			wantMult:   0.6,
		},
		{
			name: "hips too high",
			landmarks: []pose.Landmark{
				right(pose.JointAnkle, 200, 500),
				right(pose.JointKnee, 200, 450),
				right(pose.JointHip, 200, 300),
				right(pose.JointShoulder, 200, 200),
			},
			wantIssues: []string{IssueDeadliftHipsHigh, IssueDeadliftSpine, IssueDeadliftKnees},
			wantMult:   0.25,
		},
		{
			name: "hips too low",
			landmarks: []pose.Landmark{
				right(pose.JointAnkle, 200, 500),
				right(pose.JointKnee, 200, 400),
				right(pose.JointHip, 200, 350),
				right(pose.JointShoulder, 200, 250),
			},
			wantIssues: []string{IssueDeadliftHipsLow, IssueDeadliftSpine, IssueDeadliftKnees},
			wantMult:   0.25,
		},
		{
			name: "penalties accumulate to the floor",
			landmarks: []pose.Landmark{
				right(pose.JointAnkle, 200, 500),
				right(pose.JointKnee, 200, 450),
				right(pose.JointHip, 200, 300),
				right(pose.JointShoulder, 100, 200),
				nose(140, 180),
			},
			wantIssues: []string{
				IssueDeadliftBar, IssueDeadliftHipsHigh, IssueDeadliftSpine,
				IssueDeadliftKnees, IssueDeadliftLookUp,
			},
			wantMult: MinMultiplier,
		},
		{
			name: "looking down",
			landmarks: []pose.Landmark{
				right(pose.JointAnkle, 200, 500),
				right(pose.JointKnee, 220, 420),
				right(pose.JointHip, 150, 350),
				right(pose.JointShoulder, 260, 250),
				nose(270, 350),
			},
			wantIssues: []string{IssueDeadliftSpine, IssueDeadliftLookDown},
			wantMult:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := evaluate(t, pose.ExerciseDeadlift, pose.SideRight, tt.landmarks...)

			if diff := cmp.Diff(tt.wantIssues, out.Issues); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
			assert.InDelta(t, tt.wantMult, out.Multiplier, delta)
		})
	}
}

func TestEvaluate_Bench(t *testing.T) {
	tests := []struct {
		name       string
		landmarks  []pose.Landmark
		wantIssues []string
		wantMult   float64
	}{
		{
			name:       "clean rep",
			landmarks:  pose.GoodBench(),
			wantIssues: []string{},
			wantMult:   1.0,
		},
		{
			name: "elbows flared and wrist off the stack",
			landmarks: []pose.Landmark{
				right(pose.JointShoulder, 200, 300),
				right(pose.JointElbow, 260, 320),
				right(pose.JointWrist, 330, 330),
			},
			wantIssues: []string{IssueBenchElbowsWide, IssueBenchWrist},
			wantMult:   0.55,
		},
		{
			name: "elbows tucked too tight",
			landmarks: []pose.Landmark{
				right(pose.JointShoulder, 200, 300),
				right(pose.JointElbow, 260, 320),
				right(pose.JointWrist, 230, 300),
			},
			wantIssues: []string{IssueBenchElbowsTight},
			wantMult:   0.85,
		},
		{
			name: "hip and nose rules",
			landmarks: []pose.Landmark{
				right(pose.JointShoulder, 200, 100),
				right(pose.JointElbow, 260, 120),
				right(pose.JointWrist, 260, 40),
				right(pose.JointHip, 380, 300),
				nose(150, 200),
			},
			wantIssues: []string{IssueBenchShrug, IssueBenchArch, IssueBenchHead},
			wantMult:   0.55,
		},
		{
			name: "bar path toward the face",
			landmarks: []pose.Landmark{
				right(pose.JointShoulder, 200, 300),
				right(pose.JointElbow, 150, 320),
				right(pose.JointWrist, 140, 240),
			},
			wantIssues: []string{IssueBenchBarPath},
			wantMult:   0.7,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := evaluate(t, pose.ExerciseBench, pose.SideRight, tt.landmarks...)

			if diff := cmp.Diff(tt.wantIssues, out.Issues); diff != "" {
				t.Errorf("issues mismatch (-want +got):\n%s", diff)
			}
			assert.InDelta(t, tt.wantMult, out.Multiplier, delta)
		})
	}
}

func TestEvaluate_DegenerateAngleSkipsRule(t *testing.T) {
	out := evaluate(t, pose.ExerciseSquat, pose.SideRight,
		right(pose.JointAnkle, 100, 500),
		right(pose.JointKnee, 100, 400),
		right(pose.JointHip, 100, 300),
		right(pose.JointShoulder, 100, 300),
	)

	if diff := cmp.Diff([]string{IssueSquatDepth}, out.Issues); diff != "" {
		t.Errorf("issues mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"chest_collapse", "butt_wink"}, out.Skipped); diff != "" {
		t.Errorf("skipped mismatch (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 0.9, out.Multiplier, delta)
}

func TestEvaluate_FloorNeverBreached(t *testing.T) {
	for _, rs := range Rulesets() {
		total := 0.0
		for _, r := range rs.Rules {
			total += r.Penalty
		}
		assert.Greaterf(t, total, 1.0-MinMultiplier, "%s penalties should be able to reach the floor", rs.Exercise)
	}

	out := evaluate(t, pose.ExerciseSquat, pose.SideRight,
		right(pose.JointAnkle, 100, 500),
		right(pose.JointKnee, 200, 400),
		right(pose.JointHip, 300, 300),
		right(pose.JointShoulder, 200, 350),
		nose(150, 200),
	)
	assert.Equal(t, MinMultiplier, out.Multiplier)
}

func TestEvaluate_SideSelection(t *testing.T) {
	left := func(joint pose.Joint, x, y float64) pose.Landmark {
		return pose.Landmark{Name: joint.Name(pose.SideLeft), Confidence: 0.9, X: x, Y: y}
	}
	leftOnly := []pose.Landmark{
		left(pose.JointAnkle, 100, 500),
		left(pose.JointKnee, 100, 400),
		left(pose.JointHip, 100, 300),
		left(pose.JointShoulder, 100, 150),
	}

	t.Run("left profile reads left landmarks", func(t *testing.T) {
		out := evaluate(t, pose.ExerciseSquat, pose.SideLeft, leftOnly...)

		assert.False(t, out.Gated)
		assert.Equal(t, pose.SideLeft, out.EvaluatedSide)
		assert.Equal(t, []string{IssueSquatDepth}, out.Issues)
	})

	t.Run("unknown profile falls back to right", func(t *testing.T) {
		out := evaluate(t, pose.ExerciseSquat, pose.SideUnknown, leftOnly...)

		assert.True(t, out.Gated)
		assert.Equal(t, pose.SideRight, out.EvaluatedSide)
		assert.Equal(t, GatedMultiplier, out.Multiplier)
	})

	t.Run("frontal view is judged from the right", func(t *testing.T) {
		res := Analyze(keypoints(pose.FrontalView()...), pose.ExerciseSquat)

		assert.Equal(t, pose.SideUnknown, res.SideProfile)
		assert.Equal(t, pose.SideRight, res.EvaluatedSide)
		assert.Equal(t, []string{IssueSquatDepth}, res.Issues)
	})
}

func TestEvaluate_DuplicateNamesFirstWins(t *testing.T) {
	landmarks := append(pose.WellAlignedSquat(),
		right(pose.JointKnee, 300, 400),
	)

	out := evaluate(t, pose.ExerciseSquat, pose.SideRight, landmarks...)

	assert.Equal(t, []string{IssueSquatDepth}, out.Issues)
}

func TestHipHeightRatio(t *testing.T) {
	rs, _ := Lookup(pose.ExerciseDeadlift)

	p, ok := resolve(rs, keypoints(pose.FlatDeadlift()...), pose.SideRight)
	require.True(t, ok)
	_, err := hipHeightRatio(p)
	assert.ErrorIs(t, err, ErrUndefined)

	p, ok = resolve(rs, keypoints(
		right(pose.JointAnkle, 0, 500),
		right(pose.JointKnee, 0, 400),
		right(pose.JointHip, 0, 250),
		right(pose.JointShoulder, 0, 100),
	), pose.SideRight)
	require.True(t, ok)
	r, err := hipHeightRatio(p)
	require.NoError(t, err)
	assert.InDelta(t, 1.5, r, delta)
}

func TestRulesets(t *testing.T) {
	sets := Rulesets()
	require.Len(t, sets, 3)

	for _, rs := range sets {
		names := make(map[string]bool)
		messages := make(map[string]bool)
		for _, r := range rs.Rules {
			assert.Falsef(t, names[r.Name], "%s: duplicate rule name %s", rs.Exercise, r.Name)
			assert.Falsef(t, messages[r.Message], "%s: duplicate message %s", rs.Exercise, r.Message)
			assert.Positive(t, r.Penalty)
			names[r.Name] = true
			messages[r.Message] = true
		}

		got, ok := Lookup(rs.Exercise)
		require.True(t, ok)
		assert.Equal(t, len(rs.Rules), len(got.Rules))
	}

	_, ok := Lookup("")
	assert.False(t, ok)
}
