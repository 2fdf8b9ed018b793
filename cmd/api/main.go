package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"taskvault/internal/app"
	"taskvault/internal/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a := app.New(cfg)
	if err := a.Init(ctx); err != nil {
		log.Fatalf("initializing app: %v", err)
	}

	if err := a.Run(ctx); err != nil {
		log.Fatalf("running app: %v", err)
	}
}
