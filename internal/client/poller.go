package client

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// DefaultPollInterval is how often the leaderboard refreshes on its own.
const DefaultPollInterval = 20 * time.Second

const msgLeaderboardError = "Could not refresh leaderboard"

// FetchFunc retrieves the current leaderboard.
type FetchFunc func(ctx context.Context) ([]LeaderboardEntry, error)

// Snapshot is the poller's current view of the leaderboard. On a failed
// refresh the previous entries are kept and Err is set, so the board
// degrades to stale rather than blank.
type Snapshot struct {
	Entries []LeaderboardEntry
	Loading bool
	Err     string
}

// Poller refreshes the leaderboard on an interval. Responses can arrive
// out of order; each fetch carries a token and a response older than the
// last applied one is discarded, so the board never goes backwards.
type Poller struct {
	fetch    FetchFunc
	interval time.Duration

	// onChange fires after every snapshot change.
	onChange func(Snapshot)

	mu       sync.Mutex
	snapshot Snapshot
	issued   uint64
	applied  uint64

	kick chan struct{}
	done chan struct{}
	wg   sync.WaitGroup
}

func NewPoller(fetch FetchFunc, interval time.Duration, onChange func(Snapshot)) *Poller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	if onChange == nil {
		onChange = func(Snapshot) {}
	}
	return &Poller{
		fetch:    fetch,
		interval: interval,
		onChange: onChange,
		snapshot: Snapshot{Loading: true},
		kick:     make(chan struct{}, 1),
		done:     make(chan struct{}),
	}
}

// Start launches the poll loop with an immediate first refresh.
func (p *Poller) Start(ctx context.Context) {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()

		p.Refresh(ctx)

		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				p.Refresh(ctx)
			case <-p.kick:
				p.Refresh(ctx)
			case <-p.done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
}

// Stop ends the poll loop and waits for it to exit.
func (p *Poller) Stop() {
	close(p.done)
	p.wg.Wait()
}

// Kick requests an immediate refresh without waiting for the ticker.
func (p *Poller) Kick() {
	select {
	case p.kick <- struct{}{}:
	default:
	}
}

// Refresh fetches once and applies the result unless a newer response
// already landed.
func (p *Poller) Refresh(ctx context.Context) {
	p.mu.Lock()
	p.issued++
	token := p.issued
	p.mu.Unlock()

	entries, err := p.fetch(ctx)
	p.apply(token, entries, err)
}

func (p *Poller) apply(token uint64, entries []LeaderboardEntry, err error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if token <= p.applied {
		slog.Debug("discarding stale leaderboard response", "token", token, "applied", p.applied)
		return
	}
	p.applied = token

	p.snapshot.Loading = false
	if err != nil {
		// Keep the previous entries; the board goes stale, not blank.
		p.snapshot.Err = msgLeaderboardError
		slog.Warn("leaderboard refresh failed", "error", err)
	} else {
		p.snapshot.Entries = entries
		p.snapshot.Err = ""
	}

	snapshot := p.snapshot
	p.onChange(snapshot)
}

// Snapshot returns the current view.
func (p *Poller) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot
}
