package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/ttpr0/ch-router/engine"
	"github.com/ttpr0/ch-router/server"
	"golang.org/x/exp/slog"
)

func main() {
	config_file := flag.String("config", "./config.yaml", "path of the config file")
	build_only := flag.Bool("build", false, "build and store the graph, then exit")
	flag.Parse()

	SetupLogging(os.Stdout, LogLevel(slog.LevelInfo))
	config, err := ReadConfig(*config_file)
	if err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
	SetupLogging(os.Stdout, config.Logging.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *build_only {
		if _, err := PrepareGraph(ctx, config.Graph); err != nil {
			slog.Error(err.Error())
			os.Exit(1)
		}
		return
	}

	if err := run(ctx, config); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func run(ctx context.Context, config Config) error {
	manager, err := NewRoutingManager(ctx, config, engine.NewMetrics(nil))
	if err != nil {
		return err
	}
	handler, err := server.NewRequestHandler(manager.GetEngine(), server.Options{
		DisableAccessLogging: config.Server.DisableAccessLogging,
		Metrics:              server.NewMetrics(nil),
	})
	if err != nil {
		return err
	}

	app := http.NewServeMux()
	app.Handle("/", handler)
	app.Handle("GET /metrics", promhttp.Handler())
	MapAdmin(app, manager)

	if config.Traffic.File != "" && config.Traffic.ReloadInterval > 0 {
		go manager.RunTrafficUpdates(ctx, time.Duration(config.Traffic.ReloadInterval)*time.Second)
	}

	srv := &http.Server{
		Addr:              config.Server.Address,
		Handler:           app,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		<-ctx.Done()
		shutdown_ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		srv.Shutdown(shutdown_ctx)
	}()

	slog.Info(fmt.Sprintf("listening on %v", config.Server.Address))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
