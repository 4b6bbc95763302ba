package websocket

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/domain"
	"github.com/iamasit07/connect4-toototto/internal/service/game"
	"github.com/iamasit07/connect4-toototto/pkg/uid"
)

const (
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

// Handler manages WebSocket dependencies
type Handler struct {
	ConnManager    *ConnectionManager
	SessionManager *game.SessionManager
	Upgrader       websocket.Upgrader
}

// NewHandler creates a WebSocket handler. An empty allowedOrigins accepts every origin.
func NewHandler(cm *ConnectionManager, sm *game.SessionManager, allowedOrigins []string) *Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		allowed[origin] = true
	}
	return &Handler{
		ConnManager:    cm,
		SessionManager: sm,
		Upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || len(allowed) == 0 || allowed[origin]
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// HandleWebSocket is the HTTP handler that upgrades the connection
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Warn().Str("component", "ws").Err(err).Msg("upgrade error")
		return
	}

	h.handleConnection(conn)
}

// handleConnection manages the lifecycle of a single WebSocket connection
func (h *Handler) handleConnection(conn *websocket.Conn) {
	clientID := uid.GenerateGameID()
	h.ConnManager.AddConnection(clientID, conn)
	log.Info().Str("component", "ws").Str("client_id", clientID).Msg("connection opened")

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	done := make(chan struct{})
	defer func() {
		close(done)
		h.SessionManager.RemoveByOwner(clientID)
		h.ConnManager.RemoveConnection(clientID)
		log.Info().Str("component", "ws").Str("client_id", clientID).Msg("connection closed")
	}()

	// Keep-alive pinger
	go func() {
		ticker := time.NewTicker(pingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := h.ConnManager.ping(clientID); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn().Str("component", "ws").Str("client_id", clientID).Err(err).Msg("client disconnected unexpectedly")
			}
			return
		}

		var msg domain.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			h.sendError(clientID, "Invalid message format")
			continue
		}
		h.processMessage(clientID, msg)
	}
}

// processMessage routes specific actions
func (h *Handler) processMessage(clientID string, msg domain.ClientMessage) {
	switch msg.Type {
	case domain.MsgNewGame:
		gameType, err := domain.ParseGameType(msg.GameType)
		if err != nil {
			h.sendError(clientID, err.Error())
			return
		}
		opts := game.NewGameOptions{
			GameType:   gameType,
			Player1:    msg.Player1,
			Player2:    msg.Player2,
			VsComputer: msg.VsComputer,
			Difficulty: domain.ParseDifficulty(msg.Difficulty),
		}
		if _, err := h.SessionManager.CreateSession(clientID, opts, h.ConnManager); err != nil {
			h.sendError(clientID, err.Error())
		}

	case domain.MsgMakeMove:
		session, exists := h.SessionManager.GetSessionByOwner(clientID)
		if !exists {
			h.sendError(clientID, "Game not found")
			return
		}
		symbol, err := domain.ParseSymbol(msg.Symbol)
		if err != nil {
			h.sendError(clientID, err.Error())
			return
		}
		if err := session.HandleMove(domain.Move{Column: msg.Column, Symbol: symbol}, h.ConnManager); err != nil {
			if !errors.Is(err, domain.ErrInvalidMove) && !errors.Is(err, domain.ErrNotYourTurn) && !errors.Is(err, domain.ErrGameOver) {
				log.Error().Str("component", "ws").Str("game_id", session.GameID).Err(err).Msg("move failed")
			}
			h.sendError(clientID, err.Error())
		}

	case domain.MsgReset:
		session, exists := h.SessionManager.GetSessionByOwner(clientID)
		if !exists {
			h.sendError(clientID, "Game not found")
			return
		}
		if err := session.Reset(h.ConnManager); err != nil {
			h.sendError(clientID, err.Error())
		}

	default:
		h.sendError(clientID, "Unknown message type")
	}
}

func (h *Handler) sendError(clientID, message string) {
	h.ConnManager.SendMessage(clientID, domain.ServerMessage{Type: domain.MsgError, Message: message})
}
