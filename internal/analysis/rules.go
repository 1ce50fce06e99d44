package analysis

import (
	"errors"
	"fmt"

	"github.com/ayusman/liftform/internal/pose"
)

// Multiplier floors.
const (
	// GatedMultiplier is returned when required landmarks are not usable.
	GatedMultiplier = 0.3
	// MinMultiplier is the lowest multiplier rule penalties can produce.
	MinMultiplier = 0.1
)

// ErrUndefined is returned by a rule whose measurement has no defined value
// for the given pose, such as a ratio with a zero denominator.
var ErrUndefined = errors.New("measurement undefined")

// Pose is the resolved view of one side of the body that rules read from.
// Only joints that passed the confidence gate are present.
type Pose struct {
	Side   pose.Side
	points map[pose.Joint]pose.Point
}

// Point returns the position of a joint. Rules only ask for joints listed
// in their ruleset's Required or their own Needs.
func (p Pose) Point(j pose.Joint) pose.Point {
	return p.points[j]
}

// Has reports whether the joint is present and confident.
func (p Pose) Has(j pose.Joint) bool {
	_, ok := p.points[j]
	return ok
}

// Rule is one geometric technique check.
type Rule struct {
	// Name is a stable identifier for the check.
	Name string
	// Message is appended to the issues when the check triggers.
	Message string
	// Penalty is subtracted from the multiplier when the check triggers.
	Penalty float64
	// Needs lists optional joints the check reads. It is skipped when any is absent.
	Needs []pose.Joint
	// Check reports whether the defect is present.
	Check func(p Pose) (bool, error)
}

// Ruleset is the ordered rule table for one exercise.
type Ruleset struct {
	Exercise pose.Exercise
	// Required joints must all pass the gate for any rule to run.
	Required []pose.Joint
	// Optional joints enable additional rules when present.
	Optional []pose.Joint
	Rules    []Rule
}

// GateMessage is the single issue reported when the gate fails.
func (rs Ruleset) GateMessage() string {
	return fmt.Sprintf("Cannot analyze %s form - make sure your side profile is clearly visible", rs.Exercise.DisplayName())
}

// Outcome is the result of evaluating one ruleset against a frame.
type Outcome struct {
	Issues        []string
	Multiplier    float64
	EvaluatedSide pose.Side
	// Gated is true when required landmarks failed the confidence gate.
	Gated bool
	// Skipped names the rules whose measurement was undefined for this frame.
	Skipped []string
}

// Evaluate runs the ruleset against the keypoints for the given side profile.
func Evaluate(rs Ruleset, set pose.KeypointSet, profile pose.Side) Outcome {
	side := ruleSide(profile)
	out := Outcome{
		Issues:        []string{},
		Multiplier:    1.0,
		EvaluatedSide: side,
	}

	p, ok := resolve(rs, set, side)
	if !ok {
		out.Issues = append(out.Issues, rs.GateMessage())
		out.Multiplier = GatedMultiplier
		out.Gated = true
		return out
	}

	acc := 1.0
	for _, rule := range rs.Rules {
		if !hasAll(p, rule.Needs) {
			continue
		}

		triggered, err := rule.Check(p)
		if err != nil {
			out.Skipped = append(out.Skipped, rule.Name)
			continue
		}
		if triggered {
			out.Issues = append(out.Issues, rule.Message)
			acc -= rule.Penalty
		}
	}

	if acc < MinMultiplier {
		acc = MinMultiplier
	}
	out.Multiplier = acc
	return out
}

// resolve gathers the ruleset's joints for one side. It returns false when
// a required joint is missing or below MinConfidence.
func resolve(rs Ruleset, set pose.KeypointSet, side pose.Side) (Pose, bool) {
	p := Pose{
		Side:   side,
		points: make(map[pose.Joint]pose.Point, len(rs.Required)+len(rs.Optional)),
	}

	for _, j := range rs.Required {
		l, ok := set.Joint(side, j)
		if !ok || l.Confidence < MinConfidence {
			return Pose{}, false
		}
		p.points[j] = l.Point()
	}

	for _, j := range rs.Optional {
		if l, ok := set.Joint(side, j); ok && l.Confidence >= MinConfidence {
			p.points[j] = l.Point()
		}
	}

	return p, true
}

func hasAll(p Pose, joints []pose.Joint) bool {
	for _, j := range joints {
		if !p.Has(j) {
			return false
		}
	}
	return true
}

// Rulesets returns the rule tables for every supported exercise.
func Rulesets() []Ruleset {
	return []Ruleset{squatRules(), benchRules(), deadliftRules()}
}

// Lookup returns the ruleset for an exercise.
func Lookup(exercise pose.Exercise) (Ruleset, bool) {
	switch exercise {
	case pose.ExerciseSquat:
		return squatRules(), true
	case pose.ExerciseBench:
		return benchRules(), true
	case pose.ExerciseDeadlift:
		return deadliftRules(), true
	default:
		return Ruleset{}, false
	}
}
