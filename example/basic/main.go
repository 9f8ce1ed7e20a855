package main

import (
	"context"
	"errors"
	"log"
	"os/signal"
	"syscall"

	"github.com/ghalamif/MineFlow"
)

func main() {
	flow, err := mineflow.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := flow.Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("dashboard runtime exited: %v", err)
	}
	log.Printf("cycles=%d store=%d", rep.Cycles, rep.StoreLen)
}
