package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/ghalamif/MineFlow"
)

func main() {
	fmt.Println(banner())
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	var err error

	switch cmd {
	case "run":
		err = runCommand(os.Args[2:])
	case "validate":
		err = validateCommand(os.Args[2:])
	case "seed":
		err = seedCommand(os.Args[2:])
	case "stats":
		err = statsCommand(os.Args[2:])
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		printUsage()
		err = fmt.Errorf("unknown command %q", cmd)
	}

	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("mine-dash %s: %v", cmd, err)
	}
}

func runCommand(args []string) error {
	fs := pflag.NewFlagSet("run", pflag.ContinueOnError)
	cfgPath := fs.StringP("config", "c", "./data/config.yaml", "path to dashboard configuration file")
	cycles := fs.Int("cycles", 0, "update cycles to run (0 runs until interrupted)")
	interval := fs.Duration("interval", 5*time.Second, "pause between update cycles")
	batchSize := fs.Int("batch-size", 100, "records pulled per cycle")
	metricsAddr := fs.String("metrics-addr", ":9100", `address for /metrics, /healthz and /views ("off" disables)`)
	terminal := fs.Bool("terminal", true, "draw the views as terminal bar charts")
	logLevel := fs.String("log-level", "info", "log level: debug, info, warn, error")
	jsonLogs := fs.Bool("json-logs", false, "emit JSON log records")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := mineflow.LoadConfig(*cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if fs.Changed("cycles") {
		cfg.Driver.Cycles = cycles
	}
	if fs.Changed("interval") {
		cfg.Driver.Interval = *interval
	}
	if fs.Changed("batch-size") {
		cfg.Driver.BatchSize = *batchSize
	}
	if fs.Changed("metrics-addr") {
		cfg.Metrics.Addr = *metricsAddr
	}
	if fs.Changed("terminal") {
		cfg.Sinks.Terminal.Enabled = *terminal
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = *logLevel
	}
	if fs.Changed("json-logs") {
		cfg.Logging.JSON = *jsonLogs
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := mineflow.InitLogging(cfg.Logging); err != nil {
		return err
	}

	flow, err := mineflow.ConfFromConfig(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rep, err := flow.Run(ctx)
	fmt.Printf("cycles=%d failed=%d appended=%d store=%d\n",
		rep.Cycles, rep.FailedCycles, rep.RecordsAppended, rep.StoreLen)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func validateCommand(args []string) error {
	fs := pflag.NewFlagSet("validate", pflag.ContinueOnError)
	cfgPath := fs.StringP("config", "c", "./data/config.yaml", "path to configuration file to validate")
	checkBootstrap := fs.Bool("bootstrap", true, "also load the bootstrap CSV the config points at")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := mineflow.LoadConfig(*cfgPath)
	if err != nil {
		return err
	}
	if *checkBootstrap {
		records, err := mineflow.LoadBootstrap(cfg.Bootstrap.Path)
		if err != nil {
			return err
		}
		fmt.Printf("bootstrap %s: %d records\n", cfg.Bootstrap.Path, len(records))
	}
	fmt.Printf("config %s looks good ✅\n", *cfgPath)
	return nil
}

func seedCommand(args []string) error {
	fs := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	out := fs.StringP("out", "o", "./data/datos_simulados.csv", "bootstrap CSV to write")
	rows := fs.IntP("rows", "n", 100, "number of simulated records")
	seed := fs.Uint64("seed", 0, "random seed (0 seeds from the clock)")
	year := fs.Int("year", 2024, "year stamped on every record")
	operators := fs.Int("operators", 15, "number of distinct truck operators")
	if err := fs.Parse(args); err != nil {
		return err
	}

	records, err := mineflow.GenerateRecords(mineflow.SyntheticConfig{
		Seed:      *seed,
		Year:      *year,
		Operators: *operators,
	}, *rows)
	if err != nil {
		return err
	}
	if err := mineflow.WriteBootstrap(*out, records); err != nil {
		return err
	}
	fmt.Printf("wrote %d records to %s\n", len(records), *out)
	return nil
}

func statsCommand(args []string) error {
	fs := pflag.NewFlagSet("stats", pflag.ContinueOnError)
	url := fs.String("url", "http://localhost:9100/metrics", "Prometheus metrics endpoint")
	interval := fs.Duration("interval", 2*time.Second, "refresh interval")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ticker := time.NewTicker(*interval)
	defer ticker.Stop()

	client := &http.Client{Timeout: 5 * time.Second}
	fmt.Printf("Streaming metrics from %s (Ctrl+C to stop)\n", *url)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := printMetricsSnapshot(client, *url); err != nil {
				fmt.Fprintf(os.Stderr, "stats error: %v\n", err)
			}
		}
	}
}

var statsMetrics = []string{
	"mine_cycles_total",
	"mine_cycle_failures_total",
	"mine_records_appended_total",
	"mine_store_records",
}

func printMetricsSnapshot(client *http.Client, url string) error {
	resp, err := client.Get(url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}

	targets := make(map[string]float64, len(statsMetrics))
	scanner := bufio.NewScanner(resp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "#") {
			continue
		}
		for _, key := range statsMetrics {
			if strings.HasPrefix(line, key+" ") {
				var value float64
				if _, err := fmt.Sscanf(line, key+" %g", &value); err == nil {
					targets[key] = value
				}
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Printf("[%s] cycles=%.0f failed=%.0f appended=%.0f store=%.0f\n",
		time.Now().Format(time.RFC3339),
		targets["mine_cycles_total"],
		targets["mine_cycle_failures_total"],
		targets["mine_records_appended_total"],
		targets["mine_store_records"],
	)
	return nil
}

func printUsage() {
	fmt.Printf(`MineFlow dashboard CLI

Usage:
  mine-dash <command> [flags]

Commands:
  run        Load the bootstrap snapshot and run the update cycles
  validate   Load and validate a config file (and its bootstrap CSV)
  seed       Write a simulated bootstrap CSV
  stats      Poll the Prometheus metrics endpoint and print live counters

Examples:
  mine-dash seed --rows 100 --out ./data/datos_simulados.csv
  mine-dash run --config ./data/config.yaml --cycles 5 --interval 5s
  mine-dash validate -c ./data/config.yaml
  mine-dash stats --url http://localhost:9100/metrics --interval 1s
`)
}
