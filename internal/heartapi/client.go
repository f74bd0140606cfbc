// Package heartapi talks to the public Heart Game question API, which serves
// arithmetic puzzle images with one digit hidden behind a heart.
package heartapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/heartlab/heartgame/internal/puzzle"
)

const (
	defaultBaseURL = "http://marcconrad.com/uob/heart/api.php"
	defaultTimeout = 10 * time.Second
)

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}

	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// apiResponse is the upstream payload. Depending on the deployment the
// base64 image arrives under "image" or "question", and the solution has
// been observed both as a number and as a string.
type apiResponse struct {
	Question string      `json:"question"`
	Image    string      `json:"image"`
	Solution json.Number `json:"solution"`
}

// Fetch retrieves one puzzle from the upstream API.
func (c *Client) Fetch(ctx context.Context) (puzzle.Question, error) {
	url := c.baseURL + "?out=json&base64=yes"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return puzzle.Question{}, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return puzzle.Question{}, fmt.Errorf("API request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return puzzle.Question{}, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return puzzle.Question{}, fmt.Errorf("API returned status %d", resp.StatusCode)
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return puzzle.Question{}, fmt.Errorf("unmarshal response: %w", err)
	}

	image := apiResp.Image
	if image == "" {
		image = apiResp.Question
	}
	if image == "" {
		return puzzle.Question{}, fmt.Errorf("no image in response")
	}

	solution, err := strconv.Atoi(apiResp.Solution.String())
	if err != nil {
		return puzzle.Question{}, fmt.Errorf("invalid solution %q: %w", apiResp.Solution.String(), err)
	}

	slog.Debug("fetched question from heart api", "solution", solution, "image_bytes", len(image))

	return puzzle.Question{
		ImageBase64: image,
		Solution:    solution,
	}, nil
}
