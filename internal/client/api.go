package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client talks to the heart game HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Question is a single puzzle image with its hidden solution.
type Question struct {
	ImageBase64 string `json:"image_base64"`
	Solution    int    `json:"solution"`
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	UserID    int64  `json:"user_id"`
	Username  string `json:"username"`
	BestScore int64  `json:"best_score"`
	Attempts  int64  `json:"attempts"`
}

// APIError is a non-2xx response from the server. Detail carries the
// server's "detail" field, or "" when the body was not parseable.
type APIError struct {
	Status int
	Detail string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("server returned status %d", e.Status)
	}
	return fmt.Sprintf("server returned status %d: %s", e.Status, e.Detail)
}

// Login authenticates with the server and returns the user id.
func (c *Client) Login(ctx context.Context, username, password string) (int64, error) {
	var resp struct {
		Message string `json:"message"`
		UserID  int64  `json:"user_id"`
	}

	form := url.Values{
		"username": {username},
		"password": {password},
	}

	if err := c.postForm(ctx, "/api/auth/login", form, &resp); err != nil {
		return 0, err
	}
	return resp.UserID, nil
}

// Signup registers a new account. The caller signs in separately afterwards.
func (c *Client) Signup(ctx context.Context, username, password string) error {
	form := url.Values{
		"username": {username},
		"password": {password},
	}
	return c.postForm(ctx, "/api/auth/signup", form, nil)
}

// FetchQuestion retrieves the next puzzle.
func (c *Client) FetchQuestion(ctx context.Context) (Question, error) {
	var q Question
	if err := c.get(ctx, "/api/game/question", &q); err != nil {
		return Question{}, err
	}
	return q, nil
}

// PushScore records a finished round's score for the user.
func (c *Client) PushScore(ctx context.Context, userID int64, score int) error {
	payload := map[string]any{
		"user_id": userID,
		"score":   score,
	}
	return c.postJSON(ctx, "/api/game/score", payload, nil)
}

// FetchLeaderboard retrieves the ranked player list.
func (c *Client) FetchLeaderboard(ctx context.Context) ([]LeaderboardEntry, error) {
	var resp struct {
		Leaderboard []LeaderboardEntry `json:"leaderboard"`
	}
	if err := c.get(ctx, "/api/game/leaderboard", &resp); err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) postForm(ctx context.Context, path string, form url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return c.do(req, out)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, strings.NewReader(string(body)))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}

		var errBody struct {
			Detail string `json:"detail"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errBody); err == nil {
			apiErr.Detail = errBody.Detail
		}
		return apiErr
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
