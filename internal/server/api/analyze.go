package api

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/logging"
	"github.com/ayusman/liftform/internal/pose"
	"github.com/ayusman/liftform/internal/store"
)

// AnalyzeHandler scores posted frames and optionally records them.
type AnalyzeHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAnalyzeHandler creates an AnalyzeHandler. A nil store disables saving.
func NewAnalyzeHandler(s *store.Store, logger *zap.Logger) *AnalyzeHandler {
	return &AnalyzeHandler{store: s, logger: logging.OrNop(logger)}
}

type analyzeResponse struct {
	analysis.Report
	ID string `json:"id,omitempty"`
}

type saveFlag struct {
	Save bool `json:"save"`
}

// ServeHTTP handles POST /api/analyze.
//
// The body is a frame object or a bare landmark array. The exercise query
// parameter applies when the frame names none. Saving is requested with
// "save": true in the body or save=true in the query.
func (h *AnalyzeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large")
		return
	}

	frame, err := pose.DecodeFrame(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !frame.HasExercise() {
		if q := r.URL.Query().Get("exercise"); q != "" {
			ex, err := pose.ParseExercise(q)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			frame.Exercise = ex
		}
	}

	save, err := wantSave(r, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if save && h.store == nil {
		writeError(w, http.StatusServiceUnavailable, "History store is not configured")
		return
	}

	resp := analyzeResponse{Report: analysis.BuildReport(frame.Keypoints(), frame.Exercise)}

	if save {
		rec := store.FromReport(resp.Report)
		if err := h.store.Analyses().Create(rec, frame.Landmarks); err != nil {
			h.logger.Error("failed to save analysis", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "Failed to save analysis")
			return
		}
		resp.ID = rec.ID
		h.logger.Debug("analysis saved",
			zap.String("id", rec.ID),
			zap.String("exercise", string(rec.Exercise)),
			zap.Float64("score", rec.Score))
		writeJSON(w, http.StatusCreated, resp)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func wantSave(r *http.Request, body []byte) (bool, error) {
	if q := r.URL.Query().Get("save"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return false, errors.New("invalid save parameter")
		}
		if v {
			return true, nil
		}
	}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return false, nil
	}

	var flag saveFlag
	if err := json.Unmarshal(trimmed, &flag); err != nil {
		return false, errors.New("invalid save field")
	}
	return flag.Save, nil
}
