package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"grid-planner/internal/api"
	"grid-planner/internal/service"
	"grid-planner/zones"
)

// defaultGridID names the grid loaded from GRID_FILE at startup.
const defaultGridID = "default"

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP route planning API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx)
		},
	}
}

func preload(planner *service.Planner) error {
	if cfg.GridFile == "" {
		return nil
	}

	g, err := loadGrid(cfg.GridFile, cfg.GridWidth, cfg.GridHeight)
	if err != nil {
		return err
	}
	if err := planner.Put(defaultGridID, g); err != nil {
		return err
	}

	if cfg.ZonesFile != "" {
		zs, err := zones.LoadPath(cfg.ZonesFile, log)
		if err != nil {
			return err
		}
		if _, err := planner.ApplyZones(defaultGridID, zs); err != nil {
			return err
		}
	}
	return nil
}

func serve(ctx context.Context) error {
	planner := service.NewPlanner(log, service.Options{
		Workers:      cfg.SearchWorkers,
		MaxCells:     cfg.MaxGridCells,
		ZoneSimplify: cfg.ZoneSimplify,
	})
	if err := preload(planner); err != nil {
		return fmt.Errorf("loading default grid: %w", err)
	}

	srv := &http.Server{
		Addr: cfg.Addr(),
		Handler: api.NewRouter(&api.RouterDeps{
			Log:         log,
			Grids:       planner,
			Routes:      planner,
			CORSOrigins: cfg.CORSOrigins,
			Version:     version,
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{
			"addr":  srv.Addr,
			"grids": planner.Count(),
		}).Info("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
