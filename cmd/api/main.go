package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"stayhub/internal/app/bootstrap"
)

// API process entrypoint.
// Data flow:
// 1) Load .env (optional) and config.
// 2) Build app wiring (ports + adapters + facade).
// 3) Start HTTP server.
func main() {
	_ = godotenv.Load()

	app, err := bootstrap.BuildAPI()
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer func() {
		_ = app.Close()
	}()

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("api stopped: %v", err)
	}
}
