package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/app"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/config"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/guestbook"
	applog "github.com/alejandrobavaro/msjspantallaeventos/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	overrides  config.Config
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:          "msjs",
		Short:        "Guestbook display for event screens",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to config.yaml")
	root.PersistentFlags().StringVar(&opts.overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.overrides.Storage.Driver, "storage", "", "slot store driver (sqlite, redis, memory)")
	root.PersistentFlags().StringVar(&opts.overrides.Storage.SQLitePath, "db", "", "sqlite database path")

	root.AddCommand(newServeCmd(opts), newSlotCmd(opts))
	return root
}

// load resolves configuration and builds the logger.
func (o *rootOptions) load() (config.Config, *zerolog.Logger, error) {
	bootLog := applog.New("info", "console")

	cfg, path, err := config.Load(bootLog, o.configPath)
	if err != nil {
		return cfg, bootLog, err
	}
	cfg.UpdateFrom(o.overrides)
	if err := cfg.Validate(); err != nil {
		return cfg, bootLog, err
	}

	logger := applog.New(cfg.LogLevel, cfg.LogFormat)
	logger.Debug().Str("config_path", path).Msg("configuration loaded")
	return cfg, logger, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP and WebSocket server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := opts.load()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, &cfg, logger)
			if err != nil {
				return fmt.Errorf("init app: %w", err)
			}

			logger.Info().Str("addr", cfg.Addr).Str("room", cfg.Display.DefaultRoom).Msg("starting msjs server")
			if err := application.Run(ctx); err != nil {
				logger.Error().Err(err).Msg("server exited with error")
				return err
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.overrides.Addr, "addr", "", "HTTP listen address")
	cmd.Flags().DurationVar(&opts.overrides.ReadHeaderTimeout, "read-header-timeout", 0, "HTTP read header timeout")
	cmd.Flags().DurationVar(&opts.overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	cmd.Flags().StringVar(&opts.overrides.Display.DefaultRoom, "room", "", "room shown at startup")
	return cmd
}

func newSlotCmd(opts *rootOptions) *cobra.Command {
	slot := &cobra.Command{
		Use:   "slot",
		Short: "Inspect persisted rooms",
	}

	slot.AddCommand(&cobra.Command{
		Use:   "show <room>",
		Short: "Print the persisted messages of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlots(cmd.Context(), opts, func(ctx context.Context, st slotStore) error {
				value, ok, err := st.Get(ctx, guestbook.SlotKey(args[0]))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintf(cmd.OutOrStdout(), "room %q has no saved messages\n", args[0])
					return nil
				}

				var out bytes.Buffer
				if err := json.Indent(&out, []byte(value), "", "  "); err != nil {
					// Corrupt slots are printed as stored.
					fmt.Fprintln(cmd.OutOrStdout(), value)
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), out.String())
				return nil
			})
		},
	})

	slot.AddCommand(&cobra.Command{
		Use:   "clear <room>",
		Short: "Delete the persisted messages of a room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSlots(cmd.Context(), opts, func(ctx context.Context, st slotStore) error {
				if err := st.Remove(ctx, guestbook.SlotKey(args[0])); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "room %q cleared\n", args[0])
				return nil
			})
		},
	})

	return slot
}

type slotStore interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Remove(ctx context.Context, key string) error
}

func withSlots(ctx context.Context, opts *rootOptions, fn func(context.Context, slotStore) error) error {
	cfg, logger, err := opts.load()
	if err != nil {
		return err
	}

	st, err := app.OpenSlots(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer st.Close()

	return fn(ctx, st)
}
