package database

import (
	"context"
	"database/sql"

	"github.com/pkg/errors"
	"github.com/vfg2006/media-pacing-api/infrastructure/database/clickhouse"
	"github.com/vfg2006/media-pacing-api/infrastructure/database/postgres"
	"github.com/vfg2006/media-pacing-api/infrastructure/warehouse"
	"github.com/vfg2006/media-pacing-api/internal/config"
)

// NewWarehouseDialer abre o *sql.DB do dialeto configurado e devolve o dialer usado pelo pool
func NewWarehouseDialer(ctx context.Context, cfg config.Warehouse) (*warehouse.SQLDialer, *sql.DB, error) {
	dialect, err := warehouse.DialectFor(cfg.Dialect)
	if err != nil {
		return nil, nil, err
	}

	var db *sql.DB
	switch dialect.Name() {
	case warehouse.DialectClickHouse:
		settings := warehouse.ClickHouseSettings(warehouse.OptionsFromConfig(cfg).Session)
		db, err = clickhouse.NewConnection(ctx, cfg, settings)
	default:
		db, err = postgres.NewConnection(ctx, cfg)
	}
	if err != nil {
		return nil, nil, errors.Wrapf(err, "conectar ao warehouse (%s)", dialect.Name())
	}

	return warehouse.NewSQLDialer(db, dialect), db, nil
}
