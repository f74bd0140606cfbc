package main

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"os"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/heartlab/heartgame/internal/handlers"
	"github.com/heartlab/heartgame/storage"
	"github.com/heartlab/heartgame/storage/db"
)

const (
	// Configuration
	numPlayers         = 20
	maxRoundsPerPlayer = 8
	maxScorePerRound   = 15
)

func main() {
	gofakeit.Seed(time.Now().UnixNano())

	dbPath := os.Getenv("DB_PATH")
	if dbPath == "" {
		dbPath = "./db/heartgame.db"
	}

	store, err := storage.New(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	queries := store.Queries

	existing, err := queries.CountUsers(ctx)
	if err != nil {
		log.Fatalf("Failed to count users: %v", err)
	}
	fmt.Printf("Database has %d users, seeding %d more...\n", existing, numPlayers)

	for i := 0; i < numPlayers; i++ {
		username := fmt.Sprintf("%s%d", gofakeit.Gamertag(), gofakeit.Number(1, 999))

		user, err := handlers.CreateTestUser(queries, username, gofakeit.Password(true, true, true, false, false, 10))
		if err != nil {
			log.Printf("Skipping %s: %v", username, err)
			continue
		}

		rounds := rand.Intn(maxRoundsPerPlayer) + 1
		best := int64(0)
		for r := 0; r < rounds; r++ {
			score := int64(rand.Intn(maxScorePerRound + 1))
			if score > best {
				best = score
			}

			if _, err := queries.CreateScore(ctx, db.CreateScoreParams{
				UserID: user.ID,
				Score:  score,
			}); err != nil {
				log.Fatalf("Failed to record score for %s: %v", username, err)
			}
		}

		if err := queries.RaiseHighestScore(ctx, db.RaiseHighestScoreParams{
			HighestScore: best,
			ID:           user.ID,
		}); err != nil {
			log.Fatalf("Failed to update highest score for %s: %v", username, err)
		}

		fmt.Printf("  %s: %d rounds, best %d\n", username, rounds, best)
	}

	fmt.Println("Done.")
}
