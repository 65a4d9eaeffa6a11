package warehouse

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const maxBackoffInterval = 5 * time.Minute

// Execute roda o statement com retry dos erros transitórios.
// Devolve sempre um slice (possivelmente vazio) ou um erro, nunca nil sem erro.
func (p *Pool) Execute(ctx context.Context, query string, args ...any) ([]Row, error) {
	start := time.Now()
	attempts := 0

	operation := func() ([]Row, error) {
		attempts++

		rows, err := p.executeOnce(ctx, query, args)
		if err == nil {
			return rows, nil
		}

		if _, transient := TransientReason(err); transient {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	notify := func(err error, delay time.Duration) {
		reason, _ := TransientReason(err)
		p.metrics.Retry(reason)
		p.logger.
			WithField("attempt", attempts).
			WithField("reason", reason).
			WithError(err).
			Warnf("erro transitório no warehouse, nova tentativa em %s", delay)

		if p.observer != nil {
			p.observer(attempts, delay, err)
		}
	}

	rows, err := backoff.RetryNotifyWithData(operation, p.newBackOff(ctx), notify)
	if err != nil {
		outcome, wrapped := p.classify(ctx, err, attempts)
		p.metrics.Query(outcome, time.Since(start))
		return nil, wrapped
	}

	p.metrics.Query("ok", time.Since(start))
	return rows, nil
}

// Exec roda um statement sem linhas de retorno, com a mesma política de Execute
func (p *Pool) Exec(ctx context.Context, query string, args ...any) error {
	_, err := p.Execute(ctx, query, args...)
	return err
}

// Probe consulta sem lançar erro para o caso "sem linhas"
func (p *Pool) Probe(ctx context.Context, query string, args ...any) Outcome {
	rows, err := p.Execute(ctx, query, args...)
	switch {
	case err != nil:
		return Outcome{Status: OutcomeError, Err: err}
	case len(rows) == 0:
		return Outcome{Status: OutcomeEmpty, Rows: rows}
	default:
		return Outcome{Status: OutcomeRows, Rows: rows}
	}
}

func (p *Pool) newBackOff(ctx context.Context) backoff.BackOff {
	exponential := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(p.opts.BackoffBase),
		backoff.WithMultiplier(2),
		backoff.WithRandomizationFactor(0),
		backoff.WithMaxInterval(maxBackoffInterval),
		backoff.WithMaxElapsedTime(0),
	)

	return backoff.WithContext(backoff.WithMaxRetries(exponential, uint64(p.opts.MaxRetries)), ctx)
}

// classify decide o erro exposto ao chamador: timeout e cancelamento passam intactos,
// o resto sai como FatalError com o prefixo reconhecível.
func (p *Pool) classify(ctx context.Context, err error, attempts int) (string, error) {
	switch {
	case IsTimeout(err):
		return "timeout", err
	case ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return "canceled", err
	}

	if _, transient := TransientReason(err); transient {
		p.logger.WithField("attempt", attempts).WithError(err).Error("tentativas esgotadas no warehouse")
		return "retries_exhausted", &FatalError{Err: err, Attempts: attempts}
	}

	return "fatal", &FatalError{Err: err, Attempts: attempts}
}

func (p *Pool) executeOnce(ctx context.Context, query string, args []any) ([]Row, error) {
	pc, err := p.acquire(ctx)
	if err != nil {
		return nil, err
	}

	if err := p.initSession(ctx, pc); err != nil {
		p.releaseAndDestroy(pc)
		return nil, err
	}

	rows, err := p.runWithTimeout(ctx, pc, query, args)
	if err != nil {
		p.releaseAndDestroy(pc)
		return nil, err
	}

	p.release(pc)

	if rows == nil {
		rows = []Row{}
	}
	return rows, nil
}

type queryResult struct {
	rows []Row
	err  error
}

// runWithTimeout aplica um limite de tempo de parede independente do driver.
// No estouro, o statement é cancelado ativamente e o erro devolvido é o de timeout, não o do cancelamento.
func (p *Pool) runWithTimeout(ctx context.Context, pc *pooledConn, query string, args []any) ([]Row, error) {
	queryCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	done := make(chan queryResult, 1)
	go func() {
		rows, err := pc.Query(queryCtx, query, args...)
		done <- queryResult{rows: rows, err: err}
	}()

	var deadline <-chan time.Time
	if p.opts.StatementTimeout > 0 {
		timer := time.NewTimer(p.opts.StatementTimeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case result := <-done:
		return result.rows, result.err
	case <-deadline:
		timeoutErr := &TimeoutError{Limit: p.opts.StatementTimeout, StatementID: pc.id}
		p.abort(pc, cancel, done)
		return nil, timeoutErr
	case <-ctx.Done():
		p.abort(pc, cancel, done)
		return nil, ctx.Err()
	}
}

func (p *Pool) abort(pc *pooledConn, cancel context.CancelFunc, done <-chan queryResult) {
	logger := p.logger.WithField("conn_id", pc.id)

	cancelCtx, stop := context.WithTimeout(context.Background(), p.opts.CancelTimeout)
	defer stop()

	if err := pc.Cancel(cancelCtx); err != nil {
		logger.WithError(err).Warn("falha ao cancelar statement do warehouse")
	}
	cancel()

	select {
	case <-done:
	case <-time.After(p.opts.CancelTimeout):
		logger.Warn("statement cancelado não retornou dentro do limite de cancelamento")
	}
}
