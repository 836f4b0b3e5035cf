// Command bgg queries the BoardGameGeek XML API from the command line.
//
// Every response goes through the client's cache, rate limiter and retry
// schedule, configured from config.yaml, BGG_* environment variables and
// flags (flags win).
//
//	bgg game 31260
//	bgg game "Agricola" --versions -o yaml
//	bgg collection alice --own --filter 'rating >= 8 && plays == 0'
//	bgg plays --user alice --min-date 2024-01-01
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := execute(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		stop()
		os.Exit(1)
	}
}
