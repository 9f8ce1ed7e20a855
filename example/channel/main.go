package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/ghalamif/MineFlow"
)

func main() {
	flow, err := mineflow.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Records arrive from a producer outside the update loop.
	pub, err := mineflow.NewExternalPublisher(&mineflow.ExternalPublisherConfig{
		Policy: mineflow.QueuePolicy{MaxQueueLen: 1_000, OnQueueFull: "block"},
	})
	if err != nil {
		log.Fatalf("publisher: %v", err)
	}
	go produce(ctx, pub)

	sink, views, closeViews := mineflow.NewChannelSink("fanout", 32)
	defer closeViews()

	go fanoutWorker("charts", views)

	_, err = flow.
		StreamIN(mineflow.StreamInSource(pub)).
		Run(ctx, mineflow.StreamOutSink(sink))
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("runtime error: %v", err)
	}
}

func produce(ctx context.Context, pub *mineflow.ExternalPublisher) {
	defer pub.Close()
	for i := 0; i < 10; i++ {
		records, err := mineflow.GenerateRecords(mineflow.SyntheticConfig{}, 25)
		if err != nil {
			log.Printf("generate: %v", err)
			return
		}
		for _, r := range records {
			if err := pub.Publish(ctx, r); err != nil {
				log.Printf("publish: %v", err)
				return
			}
		}
		time.Sleep(time.Second)
	}
}

func fanoutWorker(name string, views <-chan mineflow.View) {
	for v := range views {
		fmt.Printf("[%s] %s cycle=%d total=%.2f at %s\n", name, v.Name, v.Cycle, v.Total(), time.Now().Format(time.RFC3339))
	}
}
