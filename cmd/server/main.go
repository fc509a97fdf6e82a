package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/dmitrijs2005/notevault/internal/app"
	"github.com/dmitrijs2005/notevault/internal/config"
)

func main() {
	// a missing .env is fine; the environment itself still applies
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config error: %v", err)
	}

	ctx := context.Background()

	a, err := app.NewApp(ctx, cfg)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
