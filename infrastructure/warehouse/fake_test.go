package warehouse

import (
	"context"
	"sync"
	"sync/atomic"
)

type fakeConn struct {
	query     func(ctx context.Context, query string, args ...any) ([]Row, error)
	initErr   error
	cancelErr error
	closeErr  error

	initCalls   atomic.Int32
	cancelCalls atomic.Int32
	closeCalls  atomic.Int32
}

func (c *fakeConn) InitSession(context.Context, SessionOptions) error {
	c.initCalls.Add(1)
	return c.initErr
}

func (c *fakeConn) Query(ctx context.Context, query string, args ...any) ([]Row, error) {
	if c.query == nil {
		return []Row{{"ok": 1}}, nil
	}
	return c.query(ctx, query, args...)
}

func (c *fakeConn) Exec(ctx context.Context, query string, args ...any) error {
	_, err := c.Query(ctx, query, args...)
	return err
}

func (c *fakeConn) Cancel(context.Context) error {
	c.cancelCalls.Add(1)
	return c.cancelErr
}

func (c *fakeConn) Close() error {
	c.closeCalls.Add(1)
	return c.closeErr
}

type fakeDialer struct {
	mu      sync.Mutex
	newConn func() *fakeConn
	dialErr error
	conns   []*fakeConn
}

func (d *fakeDialer) Dial(context.Context) (Conn, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.dialErr != nil {
		return nil, d.dialErr
	}

	conn := &fakeConn{}
	if d.newConn != nil {
		conn = d.newConn()
	}
	d.conns = append(d.conns, conn)
	return conn, nil
}

func (d *fakeDialer) dials() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.conns)
}

func (d *fakeDialer) totalCloses() int {
	d.mu.Lock()
	defer d.mu.Unlock()

	total := 0
	for _, conn := range d.conns {
		total += int(conn.closeCalls.Load())
	}
	return total
}
