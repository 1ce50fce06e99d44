package api

import (
	"net/http"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/pose"
)

type ruleResponse struct {
	Name    string   `json:"name"`
	Message string   `json:"message"`
	Penalty float64  `json:"penalty"`
	Needs   []string `json:"needs,omitempty"`
}

type exerciseResponse struct {
	Name              string         `json:"name"`
	DisplayName       string         `json:"display_name"`
	Required          []string       `json:"required"`
	Optional          []string       `json:"optional"`
	RequiredKeypoints []string       `json:"required_keypoints"`
	Rules             []ruleResponse `json:"rules"`
}

type listExercisesResponse struct {
	Exercises []exerciseResponse `json:"exercises"`
}

// HandleExercises handles GET /api/exercises and describes every ruleset.
func HandleExercises(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	rulesets := analysis.Rulesets()
	resp := listExercisesResponse{Exercises: make([]exerciseResponse, 0, len(rulesets))}

	for _, rs := range rulesets {
		ex := exerciseResponse{
			Name:              string(rs.Exercise),
			DisplayName:       rs.Exercise.DisplayName(),
			Required:          jointNames(rs.Required),
			Optional:          jointNames(rs.Optional),
			RequiredKeypoints: analysis.RequiredKeypoints(rs.Exercise),
			Rules:             make([]ruleResponse, 0, len(rs.Rules)),
		}
		for _, rule := range rs.Rules {
			ex.Rules = append(ex.Rules, ruleResponse{
				Name:    rule.Name,
				Message: rule.Message,
				Penalty: rule.Penalty,
				Needs:   jointNames(rule.Needs),
			})
		}
		resp.Exercises = append(resp.Exercises, ex)
	}

	writeJSON(w, http.StatusOK, resp)
}

func jointNames(joints []pose.Joint) []string {
	names := make([]string, 0, len(joints))
	for _, j := range joints {
		names = append(names, string(j))
	}
	return names
}
