package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ghalamif/MineFlow/pkg/mineflow"
)

func main() {
	flow, err := mineflow.Conf("../../data/config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	callback := func(v mineflow.View) error {
		fmt.Printf("cycle=%d view=%s records=%d\n", v.Cycle, v.Name, v.StoreLen)
		for _, row := range v.Rows {
			fmt.Printf("  %-20s %12.2f (%d)\n", strings.Join(row.Key, " "), row.Value, row.Members)
		}
		return nil
	}

	if _, err := flow.Run(ctx, mineflow.StreamOutCallback("stdout", callback)); err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("runtime error: %v", err)
	}
}
