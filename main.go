package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gogpu/gg"

	"FingerPaint/internal/config"
	"FingerPaint/internal/ui"
)

func main() {
	var configPath string
	if len(os.Args) > 1 {
		configPath = os.Args[1]
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fingerpaint: %v\n", err)
		os.Exit(1)
	}

	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel()}))
	slog.SetDefault(log)
	gg.SetLogger(log.With("component", "gg"))

	if err := ui.RunApp(cfg, log); err != nil {
		log.Error("fingerpaint exited", "error", err)
		os.Exit(1)
	}
}
