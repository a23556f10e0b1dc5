package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/certpath/certpath-backend/internal/middleware"
	"github.com/certpath/certpath-backend/internal/model"
	"github.com/certpath/certpath-backend/internal/service"
	ws "github.com/certpath/certpath-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the WebSocket attempt stream: low-latency autosave,
// countdown checkpoints, and submit without leaving the socket.
type WSHandler struct {
	attemptService *service.AttemptService
	log            zerolog.Logger
	upgrader       websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(attemptService *service.AttemptService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		attemptService: attemptService,
		log:            log.With().Str("component", "ws_handler").Logger(),
		upgrader:       buildUpgrader(allowedOrigins),
	}
}

// AttemptStream godoc
// WS /ws/v1/candidate/attempt
// Upgrades to WebSocket for real-time autosave and submission of the
// candidate's ongoing attempt.
func (h *WSHandler) AttemptStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	candidateID := claims.UserID

	// Require an ongoing attempt before streaming.
	if _, err := h.attemptService.GetState(c.Request.Context(), candidateID); err != nil {
		ws.WriteError(conn, "no ongoing attempt")
		return
	}

	wsLog := h.log.With().Int("candidate_id", candidateID).Logger()
	wsLog.Info().Msg("Candidate connected")

	for {
		var envelope ws.RequestEnvelope
		raw, err := readRaw(conn)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}
		if err := json.Unmarshal(raw, &envelope); err != nil {
			ws.WriteError(conn, "malformed message")
			continue
		}

		switch envelope.Action {
		case ws.ActionAutosave:
			h.handleAutosave(conn, wsLog, candidateID, raw)
		case ws.ActionProgress:
			h.handleProgress(conn, wsLog, candidateID, raw)
		case ws.ActionSubmit:
			h.handleSubmit(conn, wsLog, candidateID, raw)
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(envelope.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(envelope.Action))
		}
	}
}

// handleAutosave saves a single answer to Redis and queues it for persistence.
func (h *WSHandler) handleAutosave(conn *websocket.Conn, wsLog zerolog.Logger, candidateID int, raw []byte) {
	ctx := context.Background()

	var msg ws.AutosaveRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		ws.WriteError(conn, "malformed autosave")
		return
	}

	if msg.QID == "" || msg.Answer == "" {
		ws.WriteError(conn, "q_id and ans are required")
		return
	}

	// Validate QID is a well-formed UUID to prevent Redis key injection.
	if _, err := uuid.Parse(msg.QID); err != nil {
		ws.WriteError(conn, "invalid q_id format")
		return
	}

	if err := h.attemptService.SaveAnswer(ctx, candidateID, msg.QID, msg.Answer); err != nil {
		switch {
		case errors.Is(err, service.ErrUnknownQuestion), errors.Is(err, service.ErrUnknownOption):
			ws.WriteError(conn, "answer outside the attempt")
		case errors.Is(err, service.ErrAttemptNotFound):
			ws.WriteError(conn, "no ongoing attempt")
		default:
			wsLog.Error().Err(err).Msg("Autosave error")
			ws.WriteError(conn, "save failed")
		}
		return
	}

	ws.WriteTyped(conn, ws.AutosaveResponse{Event: ws.EventSuccess, Status: "saved"})
}

// handleProgress checkpoints navigation position and remaining time.
// The version is fetched fresh so socket checkpoints never conflict with
// themselves; HTTP saves from another tab still win version races.
func (h *WSHandler) handleProgress(conn *websocket.Conn, wsLog zerolog.Logger, candidateID int, raw []byte) {
	ctx := context.Background()

	var msg ws.ProgressRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		ws.WriteError(conn, "malformed progress")
		return
	}

	state, err := h.attemptService.GetState(ctx, candidateID)
	if err != nil {
		ws.WriteError(conn, "no ongoing attempt")
		return
	}

	started := true
	update := &model.UpdateAttemptRequest{
		CurrentIndex:     &msg.CurrentIndex,
		RemainingSeconds: &msg.RemainingSeconds,
		Started:          &started,
		Version:          state.Version,
	}
	if _, err := h.attemptService.Update(ctx, candidateID, update); err != nil {
		wsLog.Error().Err(err).Msg("Progress checkpoint error")
		ws.WriteError(conn, "checkpoint failed")
		return
	}

	ws.WriteTyped(conn, ws.AutosaveResponse{Event: ws.EventSuccess, Status: "saved"})
}

// handleSubmit finalizes the attempt and reports the outcome.
func (h *WSHandler) handleSubmit(conn *websocket.Conn, wsLog zerolog.Logger, candidateID int, raw []byte) {
	ctx := context.Background()

	var msg ws.SubmitRequest
	if err := json.Unmarshal(raw, &msg); err != nil {
		ws.WriteError(conn, "malformed submit")
		return
	}

	attempt, err := h.attemptService.Submit(ctx, candidateID, msg.TimedOut)
	if err != nil {
		if errors.Is(err, service.ErrAttemptNotFound) {
			ws.WriteError(conn, "no attempt to submit")
			return
		}
		wsLog.Error().Err(err).Msg("Submit error")
		ws.WriteError(conn, "submit failed")
		return
	}

	wsLog.Info().
		Int("score", attempt.Score).
		Bool("passed", attempt.Passed).
		Msg("Attempt submitted over socket")

	ws.WriteTyped(conn, ws.SubmittedResponse{
		Event:  ws.EventSubmitted,
		Status: "completed",
		Score:  attempt.Score,
		Passed: attempt.Passed,
	})
}

func readRaw(conn *websocket.Conn) ([]byte, error) {
	conn.SetReadDeadline(time.Now().Add(5 * time.Minute))
	_, raw, err := conn.ReadMessage()
	return raw, err
}
