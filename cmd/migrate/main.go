// Command migrate applies the schema, seeds the starter tags and purges
// expired refresh-token sessions. Intended for a one-off job before deploys.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"declutter_backend/internal/app/di"
	authadapters "declutter_backend/internal/feature/auth/adapters"
	"declutter_backend/internal/platform/db"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	gdb, err := db.OpenDB(db.LoadConfigFromEnv())
	if err != nil {
		log.Fatal("failed to open database:", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := di.Migrate(ctx, gdb); err != nil {
		log.Fatal(err)
	}

	purged, err := authadapters.NewSessionGorm(gdb).DeleteExpired(ctx)
	if err != nil {
		log.Fatal("failed to purge sessions:", err)
	}
	log.Printf("migration complete; purged %d expired sessions", purged)
}
