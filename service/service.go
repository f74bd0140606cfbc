package service

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/heartlab/heartgame/internal/handlers"
	"github.com/heartlab/heartgame/internal/heartapi"
	"github.com/heartlab/heartgame/storage"
	"github.com/labstack/echo/v4"
)

type Service struct {
	storage     *storage.Storage
	config      *Config
	authHandler *handlers.AuthHandler
	gameHandler *handlers.GameHandler
}

func New(storage *storage.Storage, config *Config) *Service {
	var heart *heartapi.Client
	if config.HeartAPI.Enabled {
		heart = heartapi.NewClient(config.HeartAPI.URL)
	} else {
		slog.Info("heart api disabled, questions will be rendered locally")
	}

	return &Service{
		storage:     storage,
		config:      config,
		authHandler: handlers.NewAuthHandler(storage.Queries),
		gameHandler: handlers.NewGameHandler(storage.Queries, heart),
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	// Clients read failure text from the "detail" field
	e.HTTPErrorHandler = detailErrorHandler()

	auth := e.Group("/api/auth")
	auth.POST("/signup", s.authHandler.HandleSignup)
	auth.POST("/login", s.authHandler.HandleLogin)

	game := e.Group("/api/game")
	game.GET("/question", s.gameHandler.HandleQuestion)
	game.POST("/score", s.gameHandler.HandleScore)
	game.GET("/leaderboard", s.gameHandler.HandleLeaderboard)

	// Health check - no auth
	e.GET("/health", s.handleHealth)
}

// detailErrorHandler writes every handler failure as {"detail": "..."} so the
// error contract holds for any route.
func detailErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		detail := "Internal server error"

		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			code = httpErr.Code
			if msg, ok := httpErr.Message.(string); ok {
				detail = msg
			} else {
				detail = fmt.Sprint(httpErr.Message)
			}
		}

		if writeErr := c.JSON(code, map[string]string{"detail": detail}); writeErr != nil {
			slog.Error("failed to write error response", "error", writeErr)
		}
	}
}

func (s *Service) handleHealth(c echo.Context) error {
	if err := s.storage.DB().Ping(); err != nil {
		slog.Error("health check failed", "error", err)
		return echo.NewHTTPError(http.StatusServiceUnavailable, "database unreachable")
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
