package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type SessionCounter interface {
	Count() int
}

type HealthHandler struct {
	Sessions SessionCounter
	Store    string
	Cache    bool
}

func NewHealthHandler(sessions SessionCounter, store string, cache bool) *HealthHandler {
	return &HealthHandler{Sessions: sessions, Store: store, Cache: cache}
}

func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"store":    h.Store,
		"cache":    h.Cache,
		"sessions": h.Sessions.Count(),
	})
}
