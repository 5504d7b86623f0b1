package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/BearBump/ShipBox/config"
)

func main() {
	cfg, err := config.LoadConfig(os.Getenv("configPath"))
	if err != nil {
		panic(fmt.Sprintf("config parse error, %v", err))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	opts := importerRunOpts{swaggerPath: os.Getenv("swaggerPath")}
	if err := RunBulkImporter(ctx, cfg, defaultImporterFactories(), opts); err != nil && !errors.Is(err, context.Canceled) {
		panic(err)
	}
}
