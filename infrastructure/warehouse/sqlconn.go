package warehouse

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"sync"

	"github.com/pkg/errors"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
)

// Dialect isola o que muda entre warehouses: placeholders, sessão e cancelamento de statement
type Dialect interface {
	Name() string
	Rebind(query string) (string, error)
	SessionStatements(opts SessionOptions) []string
	// BackendID identifica a sessão física para um cancelamento posterior; pode ser vazio
	BackendID(ctx context.Context, conn *sql.Conn) (string, error)
	// Annotate associa o id do statement ao contexto da consulta
	Annotate(ctx context.Context, statementID string) context.Context
	CancelStatement(ctx context.Context, db *sql.DB, backendID, statementID string) error
}

// SQLDialer obtém conexões físicas exclusivas de um *sql.DB. Cada *sql.Conn fixa uma única
// conexão do driver, então a sessão inicializada vale para todos os statements dela.
type SQLDialer struct {
	db      *sql.DB
	dialect Dialect
}

func NewSQLDialer(db *sql.DB, dialect Dialect) *SQLDialer {
	return &SQLDialer{db: db, dialect: dialect}
}

func (d *SQLDialer) Dial(ctx context.Context) (Conn, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, errors.Wrapf(err, "%s: obter conexão", d.dialect.Name())
	}

	return &sqlConn{db: d.db, conn: conn, dialect: d.dialect}, nil
}

type sqlConn struct {
	db      *sql.DB
	conn    *sql.Conn
	dialect Dialect

	mu          sync.Mutex
	backendID   string
	statementID string
}

func (c *sqlConn) InitSession(ctx context.Context, opts SessionOptions) error {
	for _, statement := range c.dialect.SessionStatements(opts) {
		if _, err := c.conn.ExecContext(ctx, statement); err != nil {
			return errors.Wrapf(err, "%s: inicializar sessão", c.dialect.Name())
		}
	}

	backendID, err := c.dialect.BackendID(ctx, c.conn)
	if err != nil {
		return errors.Wrapf(err, "%s: identificar sessão", c.dialect.Name())
	}

	c.mu.Lock()
	c.backendID = backendID
	c.mu.Unlock()

	return nil
}

func (c *sqlConn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	rebound, err := c.dialect.Rebind(query)
	if err != nil {
		return nil, err
	}

	rows, err := c.conn.QueryContext(c.annotate(ctx), rebound, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanRows(rows)
}

func (c *sqlConn) Exec(ctx context.Context, query string, args ...any) error {
	rebound, err := c.dialect.Rebind(query)
	if err != nil {
		return err
	}

	_, err = c.conn.ExecContext(c.annotate(ctx), rebound, args...)
	return err
}

func (c *sqlConn) Cancel(ctx context.Context) error {
	c.mu.Lock()
	backendID, statementID := c.backendID, c.statementID
	c.mu.Unlock()

	return c.dialect.CancelStatement(ctx, c.db, backendID, statementID)
}

// Close descarta a conexão física em vez de devolvê-la ao pool interno do database/sql
func (c *sqlConn) Close() error {
	_ = c.conn.Raw(func(any) error { return driver.ErrBadConn })

	if err := c.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
		return err
	}
	return nil
}

func (c *sqlConn) annotate(ctx context.Context) context.Context {
	id := utils.MustGenerateID()

	c.mu.Lock()
	c.statementID = id
	c.mu.Unlock()

	return c.dialect.Annotate(ctx, id)
}

func scanRows(rows *sql.Rows) ([]Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, err
		}

		row := make(Row, len(columns))
		for i, column := range columns {
			if b, ok := values[i].([]byte); ok {
				row[column] = string(b)
				continue
			}
			row[column] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
