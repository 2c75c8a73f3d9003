package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	v1 "github.com/thesrcielos/PokeMemory/api/v1"
	"github.com/thesrcielos/PokeMemory/internal/config"
	"github.com/thesrcielos/PokeMemory/internal/game"
	"github.com/thesrcielos/PokeMemory/internal/leaderboard"
	"github.com/thesrcielos/PokeMemory/internal/user"
	"github.com/thesrcielos/PokeMemory/pkg/db"
	"github.com/thesrcielos/PokeMemory/web"
	"github.com/thesrcielos/PokeMemory/websocket"
	"github.com/thesrcielos/PokeMemory/websocket/state"
	"github.com/thesrcielos/PokeMemory/websocket/transport"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	if err := conn.AutoMigrate(&user.User{}, &game.GameHistory{}, &leaderboard.LeaderboardSnapshot{}); err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}

	rdb, err := db.OpenRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("Error connecting to redis: %v", err)
	}

	tokens := user.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	userRepo := user.NewUserRepository(conn)

	registry := state.NewRegistry()
	opts := []leaderboard.Option{
		leaderboard.WithNotifier(transport.NewBroadcaster(registry, cfg.LeaderboardSize)),
	}
	if rdb != nil {
		defer rdb.Close()
		opts = append(opts,
			leaderboard.WithCache(leaderboard.NewRedisCache(rdb)),
			leaderboard.WithBroker(leaderboard.NewRedisBroker(rdb)),
		)
	}
	board := leaderboard.NewLeaderboardService(userRepo, leaderboard.NewSnapshotRepository(conn), cfg.LeaderboardSize, opts...)
	userService := user.NewUserService(userRepo, tokens, cfg.BcryptCost, board)

	if err := board.Rebuild(ctx); err != nil {
		log.Println("Error warming leaderboard cache:", err)
	}
	if err := board.Listen(ctx); err != nil {
		log.Fatalf("Error subscribing to leaderboard updates: %v", err)
	}

	scheduler, err := board.StartSnapshotScheduler(cfg.LeaderboardSnapshotEvery)
	if err != nil {
		log.Fatalf("Error starting scheduler: %v", err)
	}

	gameService := game.NewGameService(game.NewGameRepository(conn), userRepo, cfg.HistoryLimit, board)

	renderer, err := web.NewRenderer()
	if err != nil {
		log.Fatalf("Error loading templates: %v", err)
	}

	e := echo.New()
	e.HideBanner = true
	e.Renderer = renderer
	e.HTTPErrorHandler = v1.HTTPErrorHandler

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	feed := websocket.NewHandler(tokens, registry, board)
	v1.RegisterRoutes(e, v1.Handlers{
		Auth:        v1.NewAuthHandler(userService, tokens, cfg.CookieSecure),
		Game:        v1.NewGameHandler(gameService, userService, board),
		Leaderboard: v1.NewLeaderboardHandler(board),
		Feed:        feed.LeaderboardFeed,
	}, tokens.Secret())

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := scheduler.Shutdown(); err != nil {
		log.Println("Error stopping scheduler:", err)
	}
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Println("Error shutting down server:", err)
	}
}
