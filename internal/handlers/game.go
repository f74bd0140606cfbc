package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"

	"github.com/heartlab/heartgame/internal/heartapi"
	"github.com/heartlab/heartgame/internal/puzzle"
	"github.com/heartlab/heartgame/storage/db"
	"github.com/labstack/echo/v4"
)

// leaderboardLimit caps how many ranked rows one fetch returns.
const leaderboardLimit = 100

// GameHandler serves questions, score submissions, and the leaderboard.
type GameHandler struct {
	queries *db.Queries
	heart   *heartapi.Client // nil when the upstream API is disabled
}

func NewGameHandler(queries *db.Queries, heart *heartapi.Client) *GameHandler {
	return &GameHandler{
		queries: queries,
		heart:   heart,
	}
}

type questionResponse struct {
	ImageBase64 string `json:"image_base64"`
	Solution    int    `json:"solution"`
}

// HandleQuestion returns one puzzle, preferring the upstream Heart API and
// falling back to the local renderer when it is unreachable or disabled.
func (h *GameHandler) HandleQuestion(c echo.Context) error {
	ctx := c.Request().Context()

	if h.heart != nil {
		q, err := h.heart.Fetch(ctx)
		if err == nil {
			return c.JSON(http.StatusOK, questionResponse{
				ImageBase64: q.ImageBase64,
				Solution:    q.Solution,
			})
		}
		slog.Warn("heart api unavailable, rendering question locally", "error", err)
	}

	q, err := puzzle.Generate()
	if err != nil {
		slog.Error("failed to generate question", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load question")
	}

	return c.JSON(http.StatusOK, questionResponse{
		ImageBase64: q.ImageBase64,
		Solution:    q.Solution,
	})
}

type scoreRequest struct {
	UserID int64 `json:"user_id"`
	Score  int64 `json:"score"`
}

// HandleScore records one score row and raises the user's highest score if
// this submission beats it.
func (h *GameHandler) HandleScore(c echo.Context) error {
	ctx := c.Request().Context()

	var req scoreRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")
	}
	if req.UserID <= 0 || req.Score < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid user_id or score")
	}

	if _, err := h.queries.GetUser(ctx, req.UserID); err == sql.ErrNoRows {
		return echo.NewHTTPError(http.StatusNotFound, "User not found")
	} else if err != nil {
		slog.Error("failed to look up user", "error", err, "user_id", req.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Database error")
	}

	if _, err := h.queries.CreateScore(ctx, db.CreateScoreParams{
		UserID: req.UserID,
		Score:  req.Score,
	}); err != nil {
		slog.Error("failed to save score", "error", err, "user_id", req.UserID)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to save score")
	}

	if err := h.queries.RaiseHighestScore(ctx, db.RaiseHighestScoreParams{
		HighestScore: req.Score,
		ID:           req.UserID,
	}); err != nil {
		// The score row is already saved; the highest-score column catches up
		// on the next submission.
		slog.Error("failed to raise highest score", "error", err, "user_id", req.UserID)
	}

	slog.Debug("score saved", "user_id", req.UserID, "score", req.Score)

	return c.JSON(http.StatusOK, map[string]any{
		"message": "Score saved successfully",
		"user_id": req.UserID,
		"score":   req.Score,
	})
}

type leaderboardEntry struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	BestScore int64  `json:"best_score"`
	Attempts  int64  `json:"attempts"`
}

// HandleLeaderboard returns players ranked by best score. Rank is positional;
// the client derives it from array order.
func (h *GameHandler) HandleLeaderboard(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.queries.GetLeaderboard(ctx, leaderboardLimit)
	if err != nil {
		slog.Error("failed to fetch leaderboard", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load leaderboard")
	}

	entries := make([]leaderboardEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, leaderboardEntry{
			UserID:    row.UserID,
			Username:  row.Username,
			BestScore: row.BestScore,
			Attempts:  row.Attempts,
		})
	}

	return c.JSON(http.StatusOK, map[string]any{
		"leaderboard": entries,
	})
}
