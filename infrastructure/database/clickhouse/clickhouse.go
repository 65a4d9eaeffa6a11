package clickhouse

import (
	"context"
	"database/sql"

	ch "github.com/ClickHouse/clickhouse-go/v2"
	"github.com/vfg2006/media-pacing-api/internal/config"
)

// NewConnection abre o *sql.DB do ClickHouse já com as settings de sessão aplicadas a toda conexão
func NewConnection(
	ctx context.Context,
	cfg config.Warehouse,
	settings ch.Settings,
) (*sql.DB, error) {
	db := ch.OpenDB(&ch.Options{
		Addr: []string{cfg.URL},
		Auth: ch.Auth{
			Database: cfg.Database,
			Username: cfg.User,
			Password: cfg.Password,
		},
		Settings:    settings,
		DialTimeout: cfg.AcquireTimeout(),
	})

	db.SetMaxOpenConns(cfg.PoolMax + 1)
	db.SetMaxIdleConns(cfg.PoolMax + 1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
