package handlers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"image/png"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandleQuestion_LocalFallback(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	// nil heart client forces the local renderer
	handler := NewGameHandler(queries, nil)

	c, rec := NewTestContext(http.MethodGet, "/api/game/question", nil)
	require.NoError(t, handler.HandleQuestion(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		ImageBase64 string `json:"image_base64"`
		Solution    int    `json:"solution"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.GreaterOrEqual(t, resp.Solution, 0)
	assert.LessOrEqual(t, resp.Solution, 9)

	raw, err := base64.StdEncoding.DecodeString(resp.ImageBase64)
	require.NoError(t, err)
	_, err = png.Decode(bytes.NewReader(raw))
	require.NoError(t, err, "image must be a decodable PNG")
}

func TestHandleScore_SavesAndRaisesHighest(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	user, err := CreateTestUser(queries, "ann", "secret123")
	require.NoError(t, err)

	handler := NewGameHandler(queries, nil)
	ctx := context.Background()

	c, rec := NewTestContext(http.MethodPost, "/api/game/score", map[string]any{"user_id": user.ID, "score": 5})
	require.NoError(t, handler.HandleScore(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	got, err := queries.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.HighestScore)

	// A lower score keeps the highest where it was.
	c, _ = NewTestContext(http.MethodPost, "/api/game/score", map[string]any{"user_id": user.ID, "score": 3})
	require.NoError(t, handler.HandleScore(c))

	got, err = queries.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.HighestScore)

	best, err := queries.GetBestScore(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), best)
}

func TestHandleScore_UnknownUser(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewGameHandler(queries, nil)

	c, _ := NewTestContext(http.MethodPost, "/api/game/score", map[string]any{"user_id": 999, "score": 1})
	err := handler.HandleScore(c)
	require.Error(t, err)

	httpErr, ok := err.(*echo.HTTPError)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
}

func TestHandleScore_RejectsInvalidPayload(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewGameHandler(queries, nil)

	tests := []struct {
		name string
		body map[string]any
	}{
		{"missing user", map[string]any{"score": 1}},
		{"negative score", map[string]any{"user_id": 1, "score": -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := NewTestContext(http.MethodPost, "/api/game/score", tt.body)
			err := handler.HandleScore(c)
			require.Error(t, err)

			httpErr, ok := err.(*echo.HTTPError)
			require.True(t, ok)
			assert.Equal(t, http.StatusBadRequest, httpErr.Code)
		})
	}
}

func TestHandleLeaderboard_RanksByBestScore(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewGameHandler(queries, nil)

	ann, err := CreateTestUser(queries, "ann", "secret123")
	require.NoError(t, err)
	bob, err := CreateTestUser(queries, "bob", "secret123")
	require.NoError(t, err)

	submit := func(userID int64, score int64) {
		c, _ := NewTestContext(http.MethodPost, "/api/game/score", map[string]any{"user_id": userID, "score": score})
		require.NoError(t, handler.HandleScore(c))
	}

	submit(ann.ID, 2)
	submit(ann.ID, 9)
	submit(bob.ID, 4)

	c, rec := NewTestContext(http.MethodGet, "/api/game/leaderboard", nil)
	require.NoError(t, handler.HandleLeaderboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Leaderboard []struct {
			UserID    int64  `json:"user_id"`
			Username  string `json:"username"`
			BestScore int64  `json:"best_score"`
			Attempts  int64  `json:"attempts"`
		} `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Leaderboard, 2)

	assert.Equal(t, "ann", resp.Leaderboard[0].Username)
	assert.Equal(t, int64(9), resp.Leaderboard[0].BestScore)
	assert.Equal(t, int64(2), resp.Leaderboard[0].Attempts)

	assert.Equal(t, "bob", resp.Leaderboard[1].Username)
	assert.Equal(t, int64(4), resp.Leaderboard[1].BestScore)
	assert.Equal(t, int64(1), resp.Leaderboard[1].Attempts)
}

func TestHandleLeaderboard_EmptyIsExplicit(t *testing.T) {
	_, queries, cleanup := NewTestDB()
	defer cleanup()

	handler := NewGameHandler(queries, nil)

	c, rec := NewTestContext(http.MethodGet, "/api/game/leaderboard", nil)
	require.NoError(t, handler.HandleLeaderboard(c))

	var resp struct {
		Leaderboard []json.RawMessage `json:"leaderboard"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotNil(t, resp.Leaderboard)
	assert.Empty(t, resp.Leaderboard)
}
