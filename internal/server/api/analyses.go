package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/ayusman/liftform/internal/logging"
	"github.com/ayusman/liftform/internal/pose"
	"github.com/ayusman/liftform/internal/store"
)

// AnalysisHandler handles HTTP requests for stored analyses.
type AnalysisHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAnalysisHandler creates a new AnalysisHandler with the given store.
func NewAnalysisHandler(s *store.Store, logger *zap.Logger) *AnalysisHandler {
	return &AnalysisHandler{store: s, logger: logging.OrNop(logger)}
}

// ServeHTTP routes requests to the collection, stats and item endpoints.
//
// Paths: /api/analyses, /api/analyses/stats, /api/analyses/{id} and
// /api/analyses/{id}/landmarks.
func (h *AnalysisHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/api/analyses")
	path = strings.Trim(path, "/")

	switch {
	case path == "":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.list(w, r)
		return
	case path == "stats":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.stats(w, r)
		return
	}

	id, sub, _ := strings.Cut(path, "/")
	switch sub {
	case "":
	case "landmarks":
		if r.Method != http.MethodGet {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		h.landmarks(w, id)
		return
	default:
		http.NotFound(w, r)
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.get(w, id)
	case http.MethodDelete:
		h.delete(w, id)
	default:
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	}
}

type analysisResponse struct {
	ID               string   `json:"id"`
	Exercise         string   `json:"exercise,omitempty"`
	Score            float64  `json:"score"`
	SideProfile      string   `json:"side_profile"`
	EvaluatedSide    string   `json:"evaluated_side,omitempty"`
	MissingKeypoints bool     `json:"missing_keypoints"`
	IsGood           bool     `json:"is_good"`
	Gated            bool     `json:"gated"`
	Issues           []string `json:"issues"`
	CreatedAt        string   `json:"created_at"`
}

type listAnalysesResponse struct {
	Analyses []analysisResponse `json:"analyses"`
}

type landmarksResponse struct {
	ID        string          `json:"id"`
	Landmarks []pose.Landmark `json:"landmarks"`
}

func toResponse(a *store.Analysis) analysisResponse {
	issues := a.Issues
	if issues == nil {
		issues = []string{}
	}
	return analysisResponse{
		ID:               a.ID,
		Exercise:         string(a.Exercise),
		Score:            a.Score,
		SideProfile:      string(a.SideProfile),
		EvaluatedSide:    string(a.EvaluatedSide),
		MissingKeypoints: a.MissingKeypoints,
		IsGood:           a.IsGood,
		Gated:            a.Gated,
		Issues:           issues,
		CreatedAt:        formatTime(a.CreatedAt),
	}
}

// exerciseParam parses the optional exercise query parameter.
func exerciseParam(r *http.Request) (pose.Exercise, error) {
	name := r.URL.Query().Get("exercise")
	if name == "" {
		return "", nil
	}
	return pose.ParseExercise(name)
}

// list handles GET /api/analyses[?exercise=&limit=].
func (h *AnalysisHandler) list(w http.ResponseWriter, r *http.Request) {
	ex, err := exerciseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := store.ListOptions{Exercise: ex}
	if l := r.URL.Query().Get("limit"); l != "" {
		n, err := strconv.Atoi(l)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		opts.Limit = n
	}

	list, err := h.store.Analyses().List(opts)
	if err != nil {
		h.logger.Error("failed to list analyses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to list analyses")
		return
	}

	response := listAnalysesResponse{
		Analyses: make([]analysisResponse, 0, len(list)),
	}
	for _, a := range list {
		response.Analyses = append(response.Analyses, toResponse(a))
	}

	writeJSON(w, http.StatusOK, response)
}

// stats handles GET /api/analyses/stats[?exercise=].
func (h *AnalysisHandler) stats(w http.ResponseWriter, r *http.Request) {
	ex, err := exerciseParam(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	st, err := h.store.Analyses().Stats(ex)
	if err != nil {
		h.logger.Error("failed to aggregate analyses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get stats")
		return
	}

	writeJSON(w, http.StatusOK, st)
}

// get handles GET /api/analyses/{id}.
func (h *AnalysisHandler) get(w http.ResponseWriter, id string) {
	a, err := h.store.Analyses().GetByID(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		h.logger.Error("failed to get analysis", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get analysis")
		return
	}

	writeJSON(w, http.StatusOK, toResponse(a))
}

// landmarks handles GET /api/analyses/{id}/landmarks.
func (h *AnalysisHandler) landmarks(w http.ResponseWriter, id string) {
	lms, err := h.store.Analyses().Landmarks(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		h.logger.Error("failed to get landmarks", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to get landmarks")
		return
	}

	writeJSON(w, http.StatusOK, landmarksResponse{ID: id, Landmarks: lms})
}

// delete handles DELETE /api/analyses/{id}.
func (h *AnalysisHandler) delete(w http.ResponseWriter, id string) {
	if err := h.store.Analyses().Delete(id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "Analysis not found")
			return
		}
		h.logger.Error("failed to delete analysis", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to delete analysis")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
