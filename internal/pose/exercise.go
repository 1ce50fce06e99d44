package pose

import (
	"fmt"
	"strings"
)

// Exercise identifies a barbell movement with its own rule set.
type Exercise string

const (
	ExerciseSquat    Exercise = "squat"
	ExerciseBench    Exercise = "bench"
	ExerciseDeadlift Exercise = "deadlift"
)

// Exercises lists the supported exercises in a stable order.
var Exercises = []Exercise{ExerciseSquat, ExerciseBench, ExerciseDeadlift}

// ParseExercise parses an exercise name. It is case-insensitive and accepts
// the common "bench_press" spelling.
func ParseExercise(s string) (Exercise, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "squat":
		return ExerciseSquat, nil
	case "bench", "bench_press", "benchpress", "bench-press":
		return ExerciseBench, nil
	case "deadlift":
		return ExerciseDeadlift, nil
	default:
		return "", fmt.Errorf("%w: unknown exercise %q", ErrInvalidFrame, s)
	}
}

// DisplayName returns the name used in user-facing messages.
func (e Exercise) DisplayName() string {
	if e == ExerciseBench {
		return "bench press"
	}
	return string(e)
}
