package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"furniture/admin/internal/config"
	"furniture/admin/internal/container"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	configPath := pflag.StringP("config", "c", "", "path to config file (default ./config.yaml)")
	verbose := pflag.BoolP("verbose", "v", false, "debug logging")
	pflag.CommandLine.SetInterspersed(false)
	pflag.Parse()

	// Load configuration using viper
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	setupLogging(cfg.Log, *verbose)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize container with all dependencies
	app, err := container.New(ctx, cfg, os.Stdin, os.Stdout)
	if err != nil {
		log.Fatalf("Failed to initialize container: %v", err)
	}

	runErr := app.Run(ctx, pflag.Args())
	if err := app.Close(); err != nil {
		log.Warnf("Failed to shut down cleanly: %v", err)
	}
	if runErr != nil {
		log.Fatalf("❌ %v", runErr)
	}
}

func setupLogging(cfg config.LogConfig, verbose bool) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		log.Warnf("Unknown log level %q, using info", cfg.Level)
		level = log.InfoLevel
	}
	if verbose {
		level = log.DebugLevel
	}
	log.SetLevel(level)
	log.SetOutput(os.Stderr)

	if strings.EqualFold(cfg.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
