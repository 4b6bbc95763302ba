package http

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts the REST API. The websocket route is added by the caller.
func RegisterRoutes(router gin.IRouter, games *GamesHandler, watch *WatchHandler, health *HealthHandler) {
	router.GET("/healthz", health.Health)

	// score board contract used by the web client
	router.GET("/games", games.ListGames)
	router.POST("/games", games.PostGame)
	router.GET("/games/:id", games.GetGame)

	router.GET("/api/scores", games.Scores)
	router.GET("/api/live", watch.GetLiveGames)
}
