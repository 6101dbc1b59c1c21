// Command seed populates the MongoDB backend with generated leads and the
// demo dashboard user.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/leadhub/leadhub/config"
	"github.com/leadhub/leadhub/pkg/auth"
	"github.com/leadhub/leadhub/pkg/logger"
	"github.com/leadhub/leadhub/pkg/models"
	"github.com/leadhub/leadhub/pkg/store/mongodb"
	"github.com/leadhub/leadhub/pkg/testdata"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel, cfg.APIEnvironment)

	count := flag.Int("count", cfg.SeedCount, "number of leads to generate")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	mongoStore, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Error("failed to connect to mongodb", "error", err)
		os.Exit(1)
	}
	defer mongoStore.Close(context.Background())

	leads := testdata.GenerateLeads(*count)
	if err := mongoStore.InsertMany(ctx, leads); err != nil {
		log.Error("failed to seed leads", "error", err)
		os.Exit(1)
	}
	log.Info("leads seeded", "count", *count)

	hash, err := auth.HashPassword("demo123")
	if err != nil {
		log.Error("failed to hash demo password", "error", err)
		os.Exit(1)
	}
	demo := models.User{
		Username:     "demo",
		Email:        "demo@example.com",
		FullName:     "Demo User",
		PasswordHash: hash,
	}
	if _, err := mongoStore.CreateUser(ctx, demo); err != nil {
		log.Warn("demo user not created (may already exist)", "error", err)
	} else {
		log.Info("demo user created", "username", "demo")
	}
}
