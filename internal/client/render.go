package client

import (
	"fmt"
	"strings"
)

var medals = []string{"🥇", "🥈", "🥉"}

// FormatLeaderboard renders the board as text. Rank is positional:
// ties share a score but not a rank. me marks the player's own row.
func FormatLeaderboard(entries []LeaderboardEntry, me string) string {
	var b strings.Builder
	b.WriteString("🏆 Leaderboard\n")

	if len(entries) == 0 {
		b.WriteString("  No players yet\n")
		return b.String()
	}

	for i, entry := range entries {
		rank := fmt.Sprintf("%2d.", i+1)
		if i < len(medals) {
			rank = medals[i]
		}

		you := ""
		if entry.Username == me {
			you = " (you)"
		}

		fmt.Fprintf(&b, "  %s %s%s — best %d in %d attempts\n",
			rank, entry.Username, you, entry.BestScore, entry.Attempts)
	}
	return b.String()
}
