// Command speechd serves prefetched mascot speech over HTTP.
//
// Configuration comes from SPEECHD_* environment variables; see package
// config. The process runs until SIGINT or SIGTERM.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/MinJeongKimm/SOLSOLHEY-sub000/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Fatalf("speechd: %v", err)
	}
}
