// Command soundkeeper is the zone scheduling and transfer daemon behind
// the SoundKeeper dashboard. Run with --mock-devices to simulate the
// player fleet (no hardware required).
package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/erasound/soundkeeper/internal/api"
	"github.com/erasound/soundkeeper/internal/config"
	"github.com/erasound/soundkeeper/internal/controller"
	"github.com/erasound/soundkeeper/internal/devices"
	"github.com/erasound/soundkeeper/internal/events"
	"github.com/erasound/soundkeeper/internal/maintenance"
	"github.com/erasound/soundkeeper/internal/models"
	"github.com/erasound/soundkeeper/internal/transfer"
	"github.com/erasound/soundkeeper/internal/zeroconf"
)

func main() {
	// .env is optional; flags and real env vars win over it.
	_ = godotenv.Load()

	var (
		mock    = flag.Bool("mock-devices", false, "use the mock device client (no player hardware required)")
		addr    = flag.String("addr", envOr("SOUNDKEEPER_ADDR", ":8080"), "HTTP listen address")
		cfgDir  = flag.String("config-dir", os.Getenv("SOUNDKEEPER_CONFIG_DIR"), "config directory (default: ~/.config/soundkeeper)")
		devBase = flag.String("device-api", envOr("SOUNDKEEPER_DEVICE_API", "http://127.0.0.1:9000"), "base URL of the player device API")
		debug   = flag.Bool("debug", false, "enable debug logging")
	)
	flag.Parse()

	// Configure logging
	logLevel := slog.LevelInfo
	if *debug || os.Getenv("SOUNDKEEPER_DEBUG") != "" {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	// Resolve config directory
	if *cfgDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			slog.Error("cannot determine home directory", "err", err)
			os.Exit(1)
		}
		*cfgDir = filepath.Join(home, ".config", "soundkeeper")
	}
	if err := os.MkdirAll(*cfgDir, 0755); err != nil {
		slog.Error("cannot create config directory", "path", *cfgDir, "err", err)
		os.Exit(1)
	}

	// Graceful shutdown context
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Device client
	var client devices.Client
	if *mock {
		slog.Info("using mock device client")
		client = devices.NewMock()
	} else {
		slog.Info("using HTTP device client", "base", *devBase)
		client = devices.NewHTTPClient(*devBase)
	}

	// Config store
	store := config.NewJSONStore(*cfgDir)

	// Event bus
	bus := events.NewBus()

	// Transfer tracker with its clock-driven advance loop
	tracker := transfer.New(nil, nil)
	go tracker.Run(ctx)

	// Controller
	ctrl, err := controller.New(store, bus, tracker, client)
	if err != nil {
		slog.Error("controller initialization failed", "err", err)
		os.Exit(1)
	}

	// Pick up edits made to the state file behind our back
	go func() {
		if err := store.Watch(ctx, func(state *models.State) {
			if _, appErr := ctrl.ReplaceState(state); appErr != nil {
				slog.Warn("state reload rejected", "err", appErr)
			}
		}); err != nil {
			slog.Warn("state file watch failed", "err", err)
		}
	}()

	// Initial device scan
	ctrl.ScanDevices(ctx)

	// Maintenance goroutines (periodic rescans, state backups)
	maint := maintenance.New(store.Path(), func(c context.Context) {
		ctrl.ScanDevices(c)
	})
	go maint.Start(ctx)

	// Zeroconf mDNS registration
	hostname, _ := os.Hostname()
	if hostname == "" {
		hostname = "soundkeeper"
	}
	port := 8080
	if parts := strings.SplitN(*addr, ":", 2); len(parts) == 2 && parts[1] != "" {
		if p, err := strconv.Atoi(parts[1]); err == nil {
			port = p
		}
	}
	zc := zeroconf.New(hostname, port)
	go func() {
		if err := zc.Start(ctx); err != nil {
			slog.Warn("zeroconf failed", "err", err)
		}
	}()

	// Keep the advertised TXT records in sync with the zone count.
	go func() {
		ch := bus.Subscribe("zeroconf-txt")
		defer bus.Unsubscribe("zeroconf-txt")
		for {
			select {
			case state, ok := <-ch:
				if !ok {
					return
				}
				_ = zc.UpdateTXT([]string{
					"version=" + models.Version,
					"model=SoundKeeper",
					"zones=" + strconv.Itoa(len(state.Zones)),
				})
			case <-ctx.Done():
				return
			}
		}
	}()

	// HTTP server
	router := api.NewRouter(ctrl, client, bus)

	srv := &http.Server{
		Addr:         *addr,
		Handler:      router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // 0 = no timeout (needed for SSE)
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		slog.Info("SoundKeeper listening", "addr", *addr, "mock", *mock, "config", *cfgDir)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	slog.Info("shutting down...")

	shutCtx, shutCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutCancel()

	// Flush pending state writes
	if err := store.Flush(); err != nil {
		slog.Warn("failed to flush state", "err", err)
	}

	// Graceful HTTP shutdown
	if err := srv.Shutdown(shutCtx); err != nil {
		slog.Warn("server shutdown error", "err", err)
	}

	slog.Info("shutdown complete")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
