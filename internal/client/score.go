package client

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Syncer pushes scores to the server in the background so the quiz loop
// never waits on the network. A failed push is reported, not retried:
// the running score lives client-side and the next push carries it.
type Syncer struct {
	api     *Client
	timeout time.Duration

	// report receives push failures; defaults to slog.
	report func(error)
	// notify fires after every push attempt, success or not. Tests use
	// it to wait without sleeping.
	notify func()

	wg sync.WaitGroup
}

func NewSyncer(api *Client) *Syncer {
	return &Syncer{
		api:     api,
		timeout: 10 * time.Second,
		report: func(err error) {
			slog.Warn("failed to push score", "error", err)
		},
		notify: func() {},
	}
}

// OnComplete sets a hook that runs after every push attempt, success or
// not. The game loop uses it to nudge the leaderboard poller.
func (s *Syncer) OnComplete(fn func()) {
	if fn != nil {
		s.notify = fn
	}
}

// Push records the score for the user without blocking the caller.
func (s *Syncer) Push(userID int64, score int) {
	pushID := ulid.Make().String()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.notify()

		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if err := s.api.PushScore(ctx, userID, score); err != nil {
			s.report(err)
			slog.Debug("score push failed", "push_id", pushID, "score", score)
			return
		}
		slog.Debug("score pushed", "push_id", pushID, "score", score)
	}()
}

// Wait blocks until all in-flight pushes finish.
func (s *Syncer) Wait() {
	s.wg.Wait()
}
