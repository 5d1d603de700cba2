package main

import (
	"flag"

	"sms-dispatch-gateway/internal/config"
	"sms-dispatch-gateway/pkg/logger"

	"go.uber.org/zap"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "absolute path to a JSON config file")
	flag.Parse()

	// Load configuration
	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Path, cfg.Logging.Level); err != nil {
		panic(err)
	}
	defer logger.Info("Server shutting down")

	logger.Info("sms-dispatch-gateway starting", zap.String("version", version))

	// Setup and run the gateway
	app, err := SetupApp(cfg)
	if err != nil {
		logger.Fatal("Failed to setup server", zap.Error(err))
	}

	if err := app.Run(); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
}
