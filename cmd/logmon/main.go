package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"logmon/internal/api"
	"logmon/internal/config"
	"logmon/internal/logger"
	"logmon/internal/monitor"
	"logmon/internal/report"
	"logmon/internal/storage"
	"logmon/internal/tail"
)

func main() {
	cfg, err := config.ParseFlags()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// Print startup banner and configuration
	fmt.Printf("\n=== Log Monitor Configuration ===\n")
	fmt.Printf("📝 Log File: %s\n", cfg.LogPath)
	fmt.Printf("📁 Output Directory: %s\n", cfg.OutDir)
	fmt.Printf("🔁 Follow Mode: %t\n", cfg.Follow)
	fmt.Printf("⏱️ Poll Interval: %v\n", cfg.PollInterval)
	if cfg.HTTPPort > 0 {
		fmt.Printf("🌐 Stats API: http://localhost:%d/api/stats/*\n", cfg.HTTPPort)
	}
	if cfg.RedisAddr != "" {
		fmt.Printf("📊 Redis Mirror: %s\n", cfg.RedisAddr)
	}
	fmt.Printf("=================================\n\n")

	if err := logger.Init(cfg.LogLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	reader, err := tail.Open(cfg.LogPath)
	if err != nil {
		logger.Errorf("log file to monitor %s does not exist or is not readable: %v", cfg.LogPath, err)
		os.Exit(1)
	}
	defer reader.Close()

	out, err := report.NewWriter(cfg.OutDir)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}
	defer out.Close()

	m, err := monitor.New(cfg, reader, out)
	if err != nil {
		logger.Errorf("%v", err)
		os.Exit(1)
	}

	if cfg.HTTPPort > 0 {
		handler := api.NewHandler()
		m.SetHandler(handler)

		mux := http.NewServeMux()
		handler.Register(mux)
		server := &http.Server{Addr: cfg.HTTPAddr(), Handler: mux}
		go func() {
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Errorf("stats API server: %v", err)
			}
		}()
		fmt.Printf("✅ Stats API listening on %s\n", cfg.HTTPAddr())
	}

	if cfg.RedisAddr != "" {
		store, err := storage.Open(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Errorf("%v", err)
			os.Exit(1)
		}
		defer store.Close()
		m.SetStore(store)
		fmt.Printf("✅ Redis mirror established\n")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("🚀 Monitoring %s\n", cfg.LogPath)
	if err := m.Run(ctx); err != nil {
		logger.Errorf("monitor: %v", err)
		os.Exit(1)
	}
}
