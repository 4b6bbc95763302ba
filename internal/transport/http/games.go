package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/domain"
	"github.com/iamasit07/connect4-toototto/pkg/uid"
)

type RecordService interface {
	Save(ctx context.Context, rec domain.GameRecord) (domain.GameRecord, error)
	List(ctx context.Context) ([]domain.GameRecord, error)
	Get(ctx context.Context, gameNumber string) (domain.GameRecord, error)
	Summary(ctx context.Context) (domain.ScoreSummary, error)
}

type GamesHandler struct {
	Records RecordService
}

func NewGamesHandler(records RecordService) *GamesHandler {
	return &GamesHandler{Records: records}
}

// ListGames returns the score board rows, oldest first.
func (h *GamesHandler) ListGames(c *gin.Context) {
	games, err := h.Records.List(c.Request.Context())
	if err != nil {
		log.Error().Str("component", "http").Err(err).Msg("failed to list games")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch games"})
		return
	}
	c.JSON(http.StatusOK, games)
}

// PostGame stores a game finished on the client. Legacy clients send a fixed
// placeholder number, so only ids this server issued are kept.
func (h *GamesHandler) PostGame(c *gin.Context) {
	var rec domain.GameRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid game record"})
		return
	}
	if !uid.IsGameID(rec.GameNumber) {
		rec.GameNumber = ""
	}

	saved, err := h.Records.Save(c.Request.Context(), rec)
	if errors.Is(err, domain.ErrUnknownGameType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		log.Error().Str("component", "http").Err(err).Msg("failed to save game")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save game"})
		return
	}
	c.JSON(http.StatusCreated, saved)
}

func (h *GamesHandler) GetGame(c *gin.Context) {
	rec, err := h.Records.Get(c.Request.Context(), c.Param("id"))
	if errors.Is(err, domain.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Game not found"})
		return
	}
	if err != nil {
		log.Error().Str("component", "http").Err(err).Msg("failed to get game")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch game"})
		return
	}
	c.JSON(http.StatusOK, rec)
}

// Scores returns the aggregates the score board page shows.
func (h *GamesHandler) Scores(c *gin.Context) {
	summary, err := h.Records.Summary(c.Request.Context())
	if err != nil {
		log.Error().Str("component", "http").Err(err).Msg("failed to summarize games")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch scores"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
