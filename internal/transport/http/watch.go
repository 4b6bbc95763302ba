package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/iamasit07/connect4-toototto/internal/service/game"
)

type LiveGameLister interface {
	GetActiveGames() []game.LiveGame
}

type WatchHandler struct {
	Sessions LiveGameLister
}

func NewWatchHandler(sessions LiveGameLister) *WatchHandler {
	return &WatchHandler{Sessions: sessions}
}

// GetLiveGames returns every game currently being played on this server
func (h *WatchHandler) GetLiveGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.Sessions.GetActiveGames())
}
