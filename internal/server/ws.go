package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/ayusman/liftform/internal/analysis"
	"github.com/ayusman/liftform/internal/logging"
	"github.com/ayusman/liftform/internal/pose"
	"github.com/ayusman/liftform/internal/store"
)

// maxMessageBytes bounds a single frame message.
const maxMessageBytes = 1 << 20

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // Allow local connections
	},
}

// AnalyzeStreamHandler scores frames received over a WebSocket. Every text
// message is one frame and gets exactly one reply, either a report or an
// error object. Invalid frames do not close the connection.
type AnalyzeStreamHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewAnalyzeStreamHandler creates a new AnalyzeStreamHandler. A nil store
// disables the save query parameter.
func NewAnalyzeStreamHandler(s *store.Store, logger *zap.Logger) *AnalyzeStreamHandler {
	return &AnalyzeStreamHandler{store: s, logger: logging.OrNop(logger)}
}

type streamReply struct {
	analysis.Report
	ID string `json:"id,omitempty"`
}

type streamError struct {
	Error string `json:"error"`
}

// ServeHTTP handles WebSocket upgrade requests.
//
// Query parameters: exercise sets the default for frames naming none, and
// save=true records each analysed frame.
func (h *AnalyzeStreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var defaultExercise pose.Exercise
	if q := r.URL.Query().Get("exercise"); q != "" {
		ex, err := pose.ParseExercise(q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defaultExercise = ex
	}

	save := false
	if q := r.URL.Query().Get("save"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			http.Error(w, "invalid save parameter", http.StatusBadRequest)
			return
		}
		save = v
	}
	if save && h.store == nil {
		http.Error(w, "History store is not configured", http.StatusServiceUnavailable)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade error", zap.Error(err))
		return
	}
	defer conn.Close()
	conn.SetReadLimit(maxMessageBytes)

	log := h.logger.With(zap.String("remote", r.RemoteAddr))
	log.Debug("stream opened")

	frames := 0
	for {
		msgType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Warn("stream read error", zap.Error(err))
			}
			break
		}
		if msgType != websocket.TextMessage {
			if err := h.write(conn, streamError{Error: "frames must be sent as text messages"}); err != nil {
				break
			}
			continue
		}

		reply := h.handleFrame(data, defaultExercise, save)
		if err := h.write(conn, reply); err != nil {
			log.Warn("stream write error", zap.Error(err))
			break
		}
		frames++
	}

	log.Debug("stream closed", zap.Int("frames", frames))
}

func (h *AnalyzeStreamHandler) handleFrame(data []byte, defaultExercise pose.Exercise, save bool) any {
	frame, err := pose.DecodeFrame(data)
	if err != nil {
		return streamError{Error: err.Error()}
	}
	if !frame.HasExercise() {
		frame.Exercise = defaultExercise
	}

	reply := streamReply{Report: analysis.BuildReport(frame.Keypoints(), frame.Exercise)}
	if save {
		rec := store.FromReport(reply.Report)
		if err := h.store.Analyses().Create(rec, frame.Landmarks); err != nil {
			h.logger.Error("failed to save analysis", zap.Error(err))
			return streamError{Error: "failed to save analysis"}
		}
		reply.ID = rec.ID
	}
	return reply
}

func (h *AnalyzeStreamHandler) write(conn *websocket.Conn, v any) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return conn.WriteMessage(websocket.TextMessage, msg)
}
