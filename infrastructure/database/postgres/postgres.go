package postgres

import (
	"context"
	"database/sql"

	_ "github.com/lib/pq"
	"github.com/vfg2006/media-pacing-api/internal/config"
)

// NewConnection abre o *sql.DB do warehouse compatível com Postgres (Postgres, Redshift).
// O limite de conexões abertas reserva uma além do pool para o cancelamento de statements.
func NewConnection(
	ctx context.Context,
	cfg config.Warehouse,
) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(cfg.PoolMax + 1)
	db.SetMaxIdleConns(cfg.PoolMax + 1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}

	return db, nil
}
