package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"tableflip.dev/journal/pkg/commands"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.SetFlags(0)
	if err := commands.New().ExecuteContext(ctx); err != nil {
		stop()
		if commands.Reported(err) {
			os.Exit(1)
		}
		log.Fatalf("error: %v", err)
	}
}
