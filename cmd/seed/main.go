// Command main runs the database seeder for inkwell.
package main

import (
	"context"
	"flag"
	"log"

	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/seed"

	"go.uber.org/zap"
)

func main() {
	numUsers := flag.Int("users", 20, "Number of users to create")
	numPosts := flag.Int("posts", 120, "Number of posts to create")
	maxComments := flag.Int("comments", 4, "Maximum comments per post")
	maxFollows := flag.Int("follows", 5, "Maximum authors followed per user")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	randSeed := flag.Int64("seed", 0, "Random seed (0 picks one from the clock)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.IsProduction() {
		log.Fatal("Refusing to seed a production database")
	}
	if err := middleware.InitLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	logger := middleware.Logger

	db, err := database.Connect(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	logger.Info("seeding database",
		zap.Int("users", *numUsers),
		zap.Int("posts", *numPosts),
		zap.Bool("clean", *shouldClean),
	)

	s := seed.NewSeeder(db, seed.Options{
		NumUsers:    *numUsers,
		NumPosts:    *numPosts,
		MaxComments: *maxComments,
		MaxFollows:  *maxFollows,
		Clean:       *shouldClean,
		RandSeed:    *randSeed,
	})
	if _, err := s.Run(context.Background()); err != nil {
		logger.Fatal("Seeding failed", zap.Error(err))
	}

	logger.Info("All seeded users have the default password", zap.String("password", seed.DefaultPassword))
}
