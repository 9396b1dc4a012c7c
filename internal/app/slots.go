package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/alejandrobavaro/msjspantallaeventos/internal/config"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv/memory"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv/redis"
	"github.com/alejandrobavaro/msjspantallaeventos/internal/kv/sqlite"
)

// OpenSlots opens the slot store selected by cfg.
func OpenSlots(ctx context.Context, cfg config.StorageConfig, logger *zerolog.Logger) (kv.Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		st, err := sqlite.New(cfg.SQLitePath, cfg.QuotaBytes)
		if err != nil {
			return nil, fmt.Errorf("open sqlite slots: %w", err)
		}
		logger.Info().Str("db_path", cfg.SQLitePath).Int64("quota_bytes", cfg.QuotaBytes).Msg("slot store initialized")
		return st, nil
	case config.DriverRedis:
		st, err := redis.New(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("open redis slots: %w", err)
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("slot store initialized")
		return st, nil
	case config.DriverMemory:
		logger.Warn().Msg("using in-memory slot store, messages are lost on restart")
		return memory.New(cfg.QuotaBytes), nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
