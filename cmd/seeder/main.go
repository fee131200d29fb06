package main

import (
	"math/rand"
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/vossvolley/tracker/internal/database"
	"github.com/vossvolley/tracker/internal/league"
	"github.com/vossvolley/tracker/internal/volley"
)

// Simplified config loading for the script
func loadConfig() (string, string) {
	err := godotenv.Load()
	if err != nil {
		log.Warn("No .env file found, reading from environment variables")
	}

	dbName, ok := os.LookupEnv("DB_NAME")
	if !ok {
		dbName = "volley.db"
	}
	migrationsDir, ok := os.LookupEnv("MIGRATIONS_DIR")
	if !ok {
		migrationsDir = "./migrations"
	}
	return dbName, migrationsDir
}

func main() {
	log.Info("Starting database seeder...")
	dbName, migrationsDir := loadConfig()

	db, teardown, err := database.InitDB(dbName, "", "", migrationsDir)
	if err != nil {
		log.Fatalf("Failed to initialize database: %s", err)
	}
	defer teardown()

	store := league.New(db, league.Thresholds{Indoor: 24, Beach: 20})

	names := []string{
		"Seeder Player A", "Seeder Player B", "Seeder Player C",
		"Seeder Player D", "Seeder Player E", "Seeder Player F",
	}
	for _, name := range names {
		if _, err := store.CreatePlayer(name); err != nil {
			// Re-running the seeder hits existing players.
			log.Debug("Skipping existing player", "name", name, "error", err)
		}
	}
	log.Info("Ensured dummy players exist.")

	const numMatches = 200
	matchTypes := []volley.MatchType{volley.MatchTypeIndoor, volley.MatchTypeBeach}

	log.Info("Seeding completed matches...", "total", numMatches)
	for i := 0; i < numMatches; i++ {
		matchType := matchTypes[rand.Intn(len(matchTypes))]

		shuffled := append([]string(nil), names...)
		rand.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		blue, red := shuffled[:3], shuffled[3:]

		draft, err := store.CreateDraft(matchType, blue, red)
		if err != nil {
			log.Fatalf("Failed to create draft: %s", err)
		}

		winning := 25
		losing := rand.Intn(25)
		if matchType == volley.MatchTypeBeach {
			winning = 21
			losing = rand.Intn(21)
		}
		blueScore, redScore := winning, losing
		if rand.Intn(2) == 1 {
			blueScore, redScore = losing, winning
		}

		if _, err := store.SubmitResult(draft.ID, blueScore, redScore); err != nil {
			log.Fatalf("Failed to submit result: %s", err)
		}

		if (i+1)%50 == 0 {
			log.Info("Seeded matches", "completed", i+1, "total", numMatches)
		}
	}

	log.Info("Successfully seeded all dummy matches.")
}
