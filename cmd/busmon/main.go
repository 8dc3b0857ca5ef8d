// busmon checks the health of the hybrid event bus transports and
// prints the aggregated status as JSON. Exit code 0 means healthy,
// 1 degraded, 2 unhealthy.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	eventbus "github.com/vibeflow/eventbus-go"
	"github.com/vibeflow/eventbus-go/monitor"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	cfg, err := eventbus.LoadConfig()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(2)
	}

	client, err := eventbus.NewClient(cfg, eventbus.WithLogger(logger))
	if err != nil {
		logger.Error("failed to create bus client", "error", err)
		os.Exit(2)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	status := client.HealthCheck(ctx)

	out, err := json.MarshalIndent(status, "", "  ")
	if err != nil {
		logger.Error("failed to encode status", "error", err)
		os.Exit(2)
	}
	fmt.Println(string(out))

	switch status.Overall {
	case monitor.StatusHealthy:
		os.Exit(0)
	case monitor.StatusDegradedDurableLog, monitor.StatusDegradedFastStore:
		os.Exit(1)
	default:
		os.Exit(2)
	}
}
