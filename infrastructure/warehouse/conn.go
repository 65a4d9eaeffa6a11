package warehouse

import (
	"context"
	"time"
)

// Row é uma linha devolvida pelo warehouse, indexada pelo nome da coluna
type Row map[string]any

// SessionOptions é aplicado uma única vez por conexão física
type SessionOptions struct {
	Timezone         string
	StatementTimeout time.Duration
	QueryTag         string
}

// Conn é uma conexão física exclusiva do pool durante um ciclo acquire/release
type Conn interface {
	InitSession(ctx context.Context, opts SessionOptions) error
	Query(ctx context.Context, query string, args ...any) ([]Row, error)
	Exec(ctx context.Context, query string, args ...any) error
	// Cancel interrompe o statement em andamento por um caminho independente da conexão
	Cancel(ctx context.Context) error
	Close() error
}

type Dialer interface {
	Dial(ctx context.Context) (Conn, error)
}

// DialerFunc adapta uma função a Dialer
type DialerFunc func(ctx context.Context) (Conn, error)

func (f DialerFunc) Dial(ctx context.Context) (Conn, error) {
	return f(ctx)
}
