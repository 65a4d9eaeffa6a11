// Package warehouse é o cliente com pool de conexões do warehouse analítico.
//
// A unidade de trabalho é sempre acquire, inicialização de sessão (uma vez por conexão física),
// execução com timeout rígido e release. Conexões que falharam são liberadas e destruídas,
// nunca reutilizadas. Erros transitórios são repetidos com backoff exponencial até um teto.
package warehouse

import (
	"context"
	"sync"
	"time"

	"github.com/vfg2006/media-pacing-api/internal/config"
	"github.com/vfg2006/media-pacing-api/pkg/log"
	"github.com/vfg2006/media-pacing-api/pkg/metrics"
	"github.com/vfg2006/media-pacing-api/pkg/utils"
)

type Options struct {
	MinConns         int
	MaxConns         int
	AcquireTimeout   time.Duration
	StatementTimeout time.Duration
	CancelTimeout    time.Duration
	MaxRetries       int
	BackoffBase      time.Duration
	Session          SessionOptions
}

func OptionsFromConfig(cfg config.Warehouse) Options {
	return Options{
		MinConns:         cfg.PoolMin,
		MaxConns:         cfg.PoolMax,
		AcquireTimeout:   cfg.AcquireTimeout(),
		StatementTimeout: cfg.StatementTimeout(),
		CancelTimeout:    cfg.CancelTimeout(),
		MaxRetries:       cfg.MaxRetries,
		BackoffBase:      cfg.BackoffBase(),
		Session: SessionOptions{
			Timezone:         cfg.Timezone,
			StatementTimeout: cfg.StatementTimeout(),
			QueryTag:         cfg.QueryTag,
		},
	}
}

// RetryObserver recebe cada nova tentativa agendada, com o atraso que será aguardado
type RetryObserver func(attempt int, delay time.Duration, err error)

type PoolOption func(*Pool)

func WithMetrics(m *metrics.Metrics) PoolOption {
	return func(p *Pool) {
		p.metrics = m
	}
}

func WithRetryObserver(observer RetryObserver) PoolOption {
	return func(p *Pool) {
		p.observer = observer
	}
}

type pooledConn struct {
	Conn
	id          string
	initialized bool
}

type Stats struct {
	Open  int `json:"open"`
	Idle  int `json:"idle"`
	InUse int `json:"inUse"`
	Max   int `json:"max"`
}

type Pool struct {
	dialer   Dialer
	opts     Options
	slots    chan struct{}
	metrics  *metrics.Metrics
	observer RetryObserver
	logger   log.Logger

	mu     sync.Mutex
	idle   []*pooledConn
	open   int
	closed bool
}

func NewPool(dialer Dialer, opts Options, options ...PoolOption) *Pool {
	if opts.MaxConns <= 0 {
		opts.MaxConns = 1
	}
	if opts.MinConns > opts.MaxConns {
		opts.MinConns = opts.MaxConns
	}
	if opts.CancelTimeout <= 0 {
		opts.CancelTimeout = 5 * time.Second
	}

	p := &Pool{
		dialer: dialer,
		opts:   opts,
		slots:  make(chan struct{}, opts.MaxConns),
		logger: log.L.WithField("component", "warehouse_pool"),
	}

	for _, option := range options {
		option(p)
	}

	return p
}

// Prewarm abre e inicializa até MinConns conexões, deixando-as ociosas no pool
func (p *Pool) Prewarm(ctx context.Context) error {
	held := make([]*pooledConn, 0, p.opts.MinConns)
	defer func() {
		for _, pc := range held {
			p.release(pc)
		}
	}()

	for len(held) < p.opts.MinConns {
		pc, err := p.acquire(ctx)
		if err != nil {
			return err
		}

		if err := p.initSession(ctx, pc); err != nil {
			p.releaseAndDestroy(pc)
			return err
		}

		held = append(held, pc)
	}

	p.logger.Infof("pool do warehouse pré-aquecido com %d conexões", len(held))
	return nil
}

func (p *Pool) Stats() Stats {
	p.mu.Lock()
	defer p.mu.Unlock()

	return Stats{
		Open:  p.open,
		Idle:  len(p.idle),
		InUse: len(p.slots),
		Max:   p.opts.MaxConns,
	}
}

// Close fecha as conexões ociosas; as que estão em uso são fechadas ao serem devolvidas
func (p *Pool) Close() error {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.closed = true
	p.open -= len(idle)
	open := p.open
	p.mu.Unlock()

	for _, pc := range idle {
		p.closeConn(pc)
	}
	p.metrics.SetOpenConnections(open)

	return nil
}

func (p *Pool) acquire(ctx context.Context) (*pooledConn, error) {
	timer := time.NewTimer(p.opts.AcquireTimeout)
	defer timer.Stop()

	select {
	case p.slots <- struct{}{}:
	case <-timer.C:
		p.metrics.Acquire("timeout")
		return nil, ErrAcquireTimeout
	case <-ctx.Done():
		p.metrics.Acquire("canceled")
		return nil, ctx.Err()
	}

	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		<-p.slots
		return nil, ErrPoolClosed
	}

	if n := len(p.idle); n > 0 {
		pc := p.idle[n-1]
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		p.metrics.Acquire("reused")
		return pc, nil
	}

	p.open++
	open := p.open
	p.mu.Unlock()

	dialCtx, cancel := context.WithTimeout(ctx, p.opts.AcquireTimeout)
	defer cancel()

	conn, err := p.dialer.Dial(dialCtx)
	if err != nil {
		p.mu.Lock()
		p.open--
		p.mu.Unlock()
		<-p.slots

		p.metrics.Acquire("error")
		if ctx.Err() == nil && dialCtx.Err() == context.DeadlineExceeded {
			return nil, ErrAcquireTimeout
		}
		return nil, err
	}

	p.metrics.SetOpenConnections(open)
	p.metrics.Acquire("dialed")

	return &pooledConn{Conn: conn, id: utils.MustGenerateID()}, nil
}

func (p *Pool) initSession(ctx context.Context, pc *pooledConn) error {
	if pc.initialized {
		return nil
	}

	if err := pc.InitSession(ctx, p.opts.Session); err != nil {
		return err
	}

	pc.initialized = true
	p.logger.WithField("conn_id", pc.id).Debug("sessão do warehouse inicializada")
	return nil
}

func (p *Pool) release(pc *pooledConn) {
	p.mu.Lock()
	if p.closed {
		p.open--
		open := p.open
		p.mu.Unlock()
		<-p.slots
		p.closeConn(pc)
		p.metrics.SetOpenConnections(open)
		return
	}

	p.idle = append(p.idle, pc)
	p.mu.Unlock()
	<-p.slots
}

// releaseAndDestroy libera o slot primeiro e só então descarta a conexão física.
// Falhas ao fechar são apenas registradas.
func (p *Pool) releaseAndDestroy(pc *pooledConn) {
	p.mu.Lock()
	p.open--
	open := p.open
	p.mu.Unlock()
	<-p.slots

	p.closeConn(pc)
	p.metrics.SetOpenConnections(open)
}

func (p *Pool) closeConn(pc *pooledConn) {
	if err := pc.Close(); err != nil {
		p.logger.WithField("conn_id", pc.id).WithError(err).Warn("falha ao destruir conexão do warehouse")
	}
}
