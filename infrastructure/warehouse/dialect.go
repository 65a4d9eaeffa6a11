package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	sq "github.com/Masterminds/squirrel"
	"github.com/lib/pq"
	"github.com/pkg/errors"
)

const (
	DialectPostgres   = "postgres"
	DialectClickHouse = "clickhouse"
)

func DialectFor(name string) (Dialect, error) {
	switch name {
	case DialectPostgres, "redshift", "":
		return PostgresDialect{}, nil
	case DialectClickHouse:
		return ClickHouseDialect{}, nil
	default:
		return nil, fmt.Errorf("warehouse: dialeto desconhecido %q", name)
	}
}

// PostgresDialect atende Postgres e warehouses compatíveis com o protocolo (Redshift)
type PostgresDialect struct{}

func (PostgresDialect) Name() string { return DialectPostgres }

func (PostgresDialect) Rebind(query string) (string, error) {
	return sq.Dollar.ReplacePlaceholders(query)
}

func (PostgresDialect) SessionStatements(opts SessionOptions) []string {
	statements := make([]string, 0, 3)

	if opts.Timezone != "" {
		statements = append(statements, "SET TIME ZONE "+pq.QuoteLiteral(opts.Timezone))
	}
	if opts.StatementTimeout > 0 {
		statements = append(statements, fmt.Sprintf("SET statement_timeout = %d", opts.StatementTimeout.Milliseconds()))
	}
	if opts.QueryTag != "" {
		statements = append(statements, "SET application_name = "+pq.QuoteLiteral(opts.QueryTag))
	}

	return statements
}

func (PostgresDialect) BackendID(ctx context.Context, conn *sql.Conn) (string, error) {
	var pid int64
	if err := conn.QueryRowContext(ctx, "SELECT pg_backend_pid()").Scan(&pid); err != nil {
		return "", err
	}
	return strconv.FormatInt(pid, 10), nil
}

func (PostgresDialect) Annotate(ctx context.Context, _ string) context.Context {
	return ctx
}

func (PostgresDialect) CancelStatement(ctx context.Context, db *sql.DB, backendID, _ string) error {
	if backendID == "" {
		return errors.New("postgres: sessão sem pid para cancelamento")
	}

	pid, err := strconv.ParseInt(backendID, 10, 64)
	if err != nil {
		return errors.Wrap(err, "postgres: pid inválido")
	}

	_, err = db.ExecContext(ctx, "SELECT pg_cancel_backend($1)", pid)
	return err
}

// ClickHouseDialect aplica as configurações de sessão na abertura do *sql.DB
// e cancela pelo query_id que acompanha cada statement.
type ClickHouseDialect struct{}

func (ClickHouseDialect) Name() string { return DialectClickHouse }

func (ClickHouseDialect) Rebind(query string) (string, error) {
	return query, nil
}

func (ClickHouseDialect) SessionStatements(SessionOptions) []string {
	return nil
}

func (ClickHouseDialect) BackendID(context.Context, *sql.Conn) (string, error) {
	return "", nil
}

func (ClickHouseDialect) Annotate(ctx context.Context, statementID string) context.Context {
	return clickhouse.Context(ctx, clickhouse.WithQueryID(statementID))
}

func (ClickHouseDialect) CancelStatement(ctx context.Context, db *sql.DB, _, statementID string) error {
	if statementID == "" {
		return nil
	}

	_, err := db.ExecContext(ctx, "KILL QUERY WHERE query_id = ? ASYNC", statementID)
	return err
}

// ClickHouseSettings traduz as opções de sessão para settings do driver
func ClickHouseSettings(opts SessionOptions) clickhouse.Settings {
	settings := clickhouse.Settings{}

	if opts.StatementTimeout > 0 {
		settings["max_execution_time"] = int(opts.StatementTimeout / time.Second)
	}
	if opts.Timezone != "" {
		settings["session_timezone"] = opts.Timezone
	}
	if opts.QueryTag != "" {
		settings["log_comment"] = opts.QueryTag
	}

	return settings
}
