package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/iamasit07/connect4-toototto/internal/config"
	"github.com/iamasit07/connect4-toototto/internal/domain"
	"github.com/iamasit07/connect4-toototto/internal/logging"
	"github.com/iamasit07/connect4-toototto/internal/repository/dynamo"
	"github.com/iamasit07/connect4-toototto/internal/repository/memory"
	"github.com/iamasit07/connect4-toototto/internal/repository/postgres"
	"github.com/iamasit07/connect4-toototto/internal/repository/redis"
	"github.com/iamasit07/connect4-toototto/internal/service/bot"
	"github.com/iamasit07/connect4-toototto/internal/service/cleanup"
	"github.com/iamasit07/connect4-toototto/internal/service/game"
	"github.com/iamasit07/connect4-toototto/internal/service/records"
	transportHttp "github.com/iamasit07/connect4-toototto/internal/transport/http"
	"github.com/iamasit07/connect4-toototto/internal/transport/http/middleware"
	"github.com/iamasit07/connect4-toototto/internal/transport/websocket"
)

func main() {
	envErr := godotenv.Load()
	if envErr != nil {
		envErr = godotenv.Load("../.env")
	}

	cfg := config.LoadConfig()
	logging.Setup(cfg.LogLevel, cfg.LogPretty)
	if envErr != nil {
		log.Debug().Msg("no .env file found")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 1. Record store
	repo, closeRepo := openRecordStore(ctx, cfg)
	defer closeRepo()

	// 2. Redis cache (optional)
	var cache records.Cache
	cacheEnabled := false
	if cfg.RedisURL != "" {
		if client, ok := redis.Connect(ctx, cfg.RedisURL, cfg.RedisPassword); ok {
			redisCache := redis.NewRedisCache(client)
			defer redisCache.Close()
			cache = redisCache
			cacheEnabled = true
		}
	}

	// 3. Services
	recordService := records.NewService(repo, cache, cfg.ScoresCacheTTL)
	engines := map[domain.GameType]game.MoveChooser{
		domain.Connect4: bot.NewEngine(domain.Connect4Rules, newSelector(cfg, 0), cfg.BotParallel),
		domain.TootOtto: bot.NewEngine(domain.TootOttoRules, newSelector(cfg, 1), cfg.BotParallel),
	}
	sessionManager := game.NewSessionManager(recordService, engines)
	connManager := websocket.NewConnectionManager()

	// 4. Background workers
	cleanup.NewWorker(sessionManager, cfg.SessionIdleTimeout).Start(ctx)

	// 5. Router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestLogger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins))

	transportHttp.RegisterRoutes(router,
		transportHttp.NewGamesHandler(recordService),
		transportHttp.NewWatchHandler(sessionManager),
		transportHttp.NewHealthHandler(sessionManager, cfg.RecordStore, cacheEnabled))

	wsHandler := websocket.NewHandler(connManager, sessionManager, cfg.AllowedOrigins)
	router.GET("/ws", gin.WrapF(wsHandler.HandleWebSocket))

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("store", cfg.RecordStore).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("server is shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	sessionManager.Wait()
	log.Info().Msg("server exited gracefully")
}

// openRecordStore connects the backend named by RECORD_STORE and returns a
// function releasing it.
func openRecordStore(ctx context.Context, cfg *config.Config) (records.Repository, func()) {
	switch cfg.RecordStore {
	case config.StoreMemory:
		log.Warn().Msg("using in-memory record store, games are lost on restart")
		return memory.NewGameRepo(), func() {}

	case config.StoreDynamoDB:
		client, err := dynamo.NewClient(cfg.AWSRegion)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to create dynamodb client")
		}
		repo := dynamo.NewGameRepo(client, cfg.DynamoDBTable)
		if err := repo.EnsureTable(ctx); err != nil {
			log.Fatal().Err(err).Str("table", cfg.DynamoDBTable).Msg("dynamodb table unavailable")
		}
		return repo, func() {}

	case config.StorePostgres:
		db, err := postgres.Open(ctx, postgres.Options{
			Driver:             cfg.DBDriver,
			URL:                cfg.DatabaseURL,
			MaxOpenConns:       cfg.DBMaxOpenConns,
			MaxIdleConns:       cfg.DBMaxIdleConns,
			ConnMaxLifetimeMin: cfg.DBConnMaxLifetimeMin,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("database unreachable")
		}

		log.Info().Msg("running database migrations")
		if err := postgres.RunMigrations(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("migration failed")
		}
		return postgres.NewGameRepo(db), func() { db.Close() }
	}

	log.Fatal().Str("store", cfg.RecordStore).Msg("unknown RECORD_STORE")
	return nil, nil
}

// newSelector derives one reproducible stream per engine when BOT_SEED is set.
func newSelector(cfg *config.Config, stream uint64) *bot.Selector {
	if cfg.BotSeed == 0 {
		return bot.NewSelector(nil)
	}
	return bot.NewSelector(bot.NewSeededSource(cfg.BotSeed + stream))
}
