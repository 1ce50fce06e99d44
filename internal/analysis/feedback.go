package analysis

import "github.com/ayusman/liftform/internal/pose"

// Feedback score bands.
const (
	// GoodScore is the score at or above which no coaching cues are given.
	GoodScore = 0.8
	// PoorScore is the score below which the second tier of cues is added.
	PoorScore = 0.6
)

type cueTiers struct {
	fair []string
	poor []string
}

var cues = map[pose.Exercise]cueTiers{
	pose.ExerciseSquat: {
		fair: []string{
			"Keep your weight balanced over mid-foot",
			"Push your knees out in line with your toes",
			"Brace your core before each descent",
		},
		poor: []string{
			"Lower the weight and rehearse the movement pattern",
			"Try box squats to learn consistent depth",
		},
	},
	pose.ExerciseBench: {
		fair: []string{
			"Retract your shoulder blades before unracking",
			"Keep your wrists stacked over your elbows",
			"Drive your feet into the floor",
		},
		poor: []string{
			"Reduce the load and use a controlled tempo",
			"Practice pause reps to groove the bar path",
		},
	},
	pose.ExerciseDeadlift: {
		fair: []string{
			"Keep the bar in contact with your legs",
			"Take the slack out of the bar before pulling",
			"Push the floor away rather than pulling with your back",
		},
		poor: []string{
			"Lower the weight until your back stays neutral",
			"Practice Romanian deadlifts to learn the hip hinge",
		},
	},
}

var genericCues = cueTiers{
	fair: []string{
		"Move through a controlled range of motion",
		"Keep your spine neutral throughout the lift",
	},
	poor: []string{
		"Reduce the load and focus on technique",
		"Film your sets from the side to check your form",
	},
}

// Feedback returns generic coaching cues for a score band. It does not look
// at detected issues. An empty or unknown exercise gets generic cues.
func Feedback(exercise pose.Exercise, score float64) []string {
	tiers, ok := cues[exercise]
	if !ok {
		tiers = genericCues
	}

	out := []string{}
	if score < GoodScore {
		out = append(out, tiers.fair...)
	}
	if score < PoorScore {
		out = append(out, tiers.poor...)
	}
	return out
}
