package api

import (
	"math"
	"net/http"
	"strconv"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/pose"
)

type feedbackResponse struct {
	Exercise string   `json:"exercise,omitempty"`
	Score    float64  `json:"score"`
	Feedback []string `json:"feedback"`
}

// HandleFeedback handles GET /api/feedback?exercise=&score= and returns the
// coaching cues for a score.
func HandleFeedback(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	q := r.URL.Query()

	var ex pose.Exercise
	if name := q.Get("exercise"); name != "" {
		parsed, err := pose.ParseExercise(name)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		ex = parsed
	}

	score, err := strconv.ParseFloat(q.Get("score"), 64)
	if err != nil || math.IsNaN(score) || score < 0 || score > 1 {
		writeError(w, http.StatusBadRequest, "score must be a number between 0 and 1")
		return
	}

	writeJSON(w, http.StatusOK, feedbackResponse{
		Exercise: string(ex),
		Score:    score,
		Feedback: analysis.Feedback(ex, score),
	})
}
