package main

import (
	"context"
	"log"
	"property-estimate-service/internal/adapters/repositories"
	"property-estimate-service/internal/app"
	"property-estimate-service/internal/config"
	"property-estimate-service/internal/platform/db"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// dbtool creates the schema and loads parcel seeds. It targets Postgres when
// DATABASE_URL is set and the SQLite file at DB_PATH otherwise.
func main() {
	if !config.LoadDotEnv() {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	conn, dialect, err := db.Connect(cfg.DatabaseURL, cfg.DBPath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	ctx := context.Background()

	log.Printf("Initializing database schema... dialect=%s", dialect)
	if err := repositories.InitSchema(ctx, conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding parcels...")
	repo := repositories.NewSQLParcelRepository(conn, dialect)
	if err := app.SeedParcels(ctx, repo, cfg.ParcelSeedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
