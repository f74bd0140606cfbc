package client

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatLeaderboard_SingleRow(t *testing.T) {
	out := FormatLeaderboard([]LeaderboardEntry{
		{UserID: 1, Username: "ann", BestScore: 9, Attempts: 10},
	}, "ann")

	assert.Contains(t, out, "🥇 ann (you)")
	assert.Contains(t, out, "best 9 in 10 attempts")
}

func TestFormatLeaderboard_MedalsThenNumbers(t *testing.T) {
	out := FormatLeaderboard(entriesNamed("a", "b", "c", "d", "e"), "zzz")

	assert.Contains(t, out, "🥇 a")
	assert.Contains(t, out, "🥈 b")
	assert.Contains(t, out, "🥉 c")
	assert.Contains(t, out, " 4. d")
	assert.Contains(t, out, " 5. e")
	assert.NotContains(t, out, "(you)")
}

func TestFormatLeaderboard_Empty(t *testing.T) {
	out := FormatLeaderboard(nil, "ann")

	assert.Contains(t, out, "No players yet")
	lines := strings.Count(out, "\n")
	assert.Equal(t, 2, lines, "header plus the empty marker")
}
