package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/glog"
	"github.com/joho/godotenv"

	"stationdir/internal/app"
	"stationdir/internal/config"
)

// Build metadata - injected at build time
var (
	BuildDate    = "unknown"
	BuildCommit  = "unknown"
	BuildVersion = "dev"
)

var (
	envFile = flag.String("env-file", ".env", "File with environment overrides")
	port    = flag.Int("port", 0, "HTTP server port (overrides PORT)")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := godotenv.Load(*envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		glog.Warningf("Could not load %s: %v", *envFile, err)
	}

	cfg, err := config.Load()
	if err != nil {
		glog.Exitf("Invalid configuration: %v", err)
	}
	if *port != 0 {
		cfg.Port = *port
	}

	glog.Infof("Station directory starting on port %d", cfg.Port)
	glog.Infof("Build: %s (%s) - %s", BuildVersion, BuildCommit, BuildDate)

	gin.SetMode(gin.ReleaseMode)
	a := app.New(cfg, nil, app.BuildInfo{
		Version: BuildVersion,
		Commit:  BuildCommit,
		Date:    BuildDate,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := a.Start(ctx); err != nil {
		glog.Errorf("Error starting ingestion: %v", err)
	}

	// Cancelling ctx ends open event streams so Shutdown can finish
	server := &http.Server{
		Addr:        fmt.Sprintf(":%d", cfg.Port),
		Handler:     a.Router,
		BaseContext: func(net.Listener) context.Context { return ctx },
	}

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		glog.Info("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			glog.Errorf("Error during shutdown: %v", err)
		}
	}()

	glog.Infof("Server starting at http://localhost:%d", cfg.Port)
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		glog.Exit(err)
	}
}
