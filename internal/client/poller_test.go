package client

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entriesNamed(names ...string) []LeaderboardEntry {
	entries := make([]LeaderboardEntry, 0, len(names))
	for i, name := range names {
		entries = append(entries, LeaderboardEntry{
			UserID:   int64(i + 1),
			Username: name,
		})
	}
	return entries
}

func TestPoller_RefreshAppliesEntries(t *testing.T) {
	fetch := func(ctx context.Context) ([]LeaderboardEntry, error) {
		return entriesNamed("ann", "bob"), nil
	}

	p := NewPoller(fetch, DefaultPollInterval, nil)
	assert.True(t, p.Snapshot().Loading)

	p.Refresh(context.Background())

	snap := p.Snapshot()
	assert.False(t, snap.Loading)
	assert.Empty(t, snap.Err)
	require.Len(t, snap.Entries, 2)
	assert.Equal(t, "ann", snap.Entries[0].Username)
}

func TestPoller_ErrorKeepsPreviousEntries(t *testing.T) {
	var fail bool
	fetch := func(ctx context.Context) ([]LeaderboardEntry, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return entriesNamed("ann"), nil
	}

	p := NewPoller(fetch, DefaultPollInterval, nil)

	p.Refresh(context.Background())
	fail = true
	p.Refresh(context.Background())

	snap := p.Snapshot()
	assert.Equal(t, "Could not refresh leaderboard", snap.Err)
	require.Len(t, snap.Entries, 1, "stale entries beat a blank board")
	assert.Equal(t, "ann", snap.Entries[0].Username)

	// Recovery clears the error.
	fail = false
	p.Refresh(context.Background())
	assert.Empty(t, p.Snapshot().Err)
}

// A slow response from an earlier fetch must not overwrite the result
// of a later one.
func TestPoller_DiscardsStaleResponse(t *testing.T) {
	p := NewPoller(func(ctx context.Context) ([]LeaderboardEntry, error) {
		return nil, nil
	}, DefaultPollInterval, nil)

	// Issue two fetches by hand, then deliver them newest first.
	p.mu.Lock()
	p.issued++
	first := p.issued
	p.issued++
	second := p.issued
	p.mu.Unlock()

	p.apply(second, entriesNamed("new"), nil)
	p.apply(first, entriesNamed("old"), nil)

	snap := p.Snapshot()
	require.Len(t, snap.Entries, 1)
	assert.Equal(t, "new", snap.Entries[0].Username, "stale response must be discarded")
}

func TestPoller_StartPollsAndStops(t *testing.T) {
	var mu sync.Mutex
	calls := 0
	fetch := func(ctx context.Context) ([]LeaderboardEntry, error) {
		mu.Lock()
		calls++
		mu.Unlock()
		return entriesNamed("ann"), nil
	}

	changed := make(chan Snapshot, 1)
	p := NewPoller(fetch, DefaultPollInterval, func(s Snapshot) {
		select {
		case changed <- s:
		default:
		}
	})

	p.Start(context.Background())
	snap := <-changed
	p.Stop()

	mu.Lock()
	assert.GreaterOrEqual(t, calls, 1, "Start must refresh immediately")
	mu.Unlock()
	assert.False(t, snap.Loading)
}

func TestPoller_KickDoesNotBlock(t *testing.T) {
	p := NewPoller(func(ctx context.Context) ([]LeaderboardEntry, error) {
		return nil, nil
	}, DefaultPollInterval, nil)

	// No loop is running; Kick must still return.
	p.Kick()
	p.Kick()
	p.Kick()
}
