package app

import (
	"context"
	"errors"
	"fmt"
	stdhttp "net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/catalog"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/config"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/display"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/media"
	transporthttp "github.com/alejandrobavaro/msjspantallaeventos/internal/transport/http"
)

// App wires together the display and transport layers.
type App struct {
	server          *stdhttp.Server
	shutdownTimeout time.Duration
	display         *display.Display
	slots           kv.Store
	log             *zerolog.Logger
}

// New constructs the application with provided configuration.
func New(ctx context.Context, cfg *config.Config, logger *zerolog.Logger) (*App, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("display timezone: %w", err)
	}

	slots, err := OpenSlots(ctx, cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	cat := catalog.New(cfg.Events)
	registry := media.NewRegistry()

	d := display.New(display.Options{
		Slots:      slots,
		Registry:   registry,
		Logger:     logger,
		Interval:   cfg.Display.RotationInterval,
		Room:       cfg.Display.DefaultRoom,
		Location:   loc,
		AcceptRoom: cat.AcceptsMessages,
	})

	server := transporthttp.NewServer(transporthttp.Deps{
		Display:  d,
		Ingester: media.NewIngester(registry, logger),
		Catalog:  cat,
	}, cfg, logger)

	return &App{
		server:          server,
		shutdownTimeout: cfg.ShutdownTimeout,
		display:         d,
		slots:           slots,
		log:             logger,
	}, nil
}

// Run starts the HTTP server and blocks until context cancellation or fatal error.
func (a *App) Run(ctx context.Context) error {
	serverErr := make(chan error, 1)

	displayCtx, stopDisplay := context.WithCancel(context.Background())
	displayDone := make(chan struct{})
	go func() {
		a.display.Run(displayCtx)
		close(displayDone)
	}()

	a.log.Info().Str("addr", a.server.Addr).Msg("http server listening")
	go func() {
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			serverErr <- err
			return
		}
		serverErr <- nil
	}()

	select {
	case err := <-serverErr:
		stopDisplay()
		<-displayDone
		a.cleanup()
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
		defer cancel()

		a.log.Info().Msg("shutting down http server")
		err := a.server.Shutdown(shutdownCtx)

		// Stopping the display closes open WebSocket feeds.
		stopDisplay()
		<-displayDone
		a.cleanup()

		if err != nil {
			return err
		}
		return <-serverErr
	}
}

// cleanup closes the slot store.
func (a *App) cleanup() {
	if a.slots != nil {
		if err := a.slots.Close(); err != nil {
			a.log.Warn().Err(err).Msg("failed to close slot store")
		} else {
			a.log.Info().Msg("slot store closed")
		}
	}
}
