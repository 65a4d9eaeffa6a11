package warehouse

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"strings"
	"syscall"
	"time"
)

const fatalPrefix = "warehouse fatal: "

var (
	ErrAcquireTimeout = errors.New("warehouse: tempo esgotado aguardando conexão do pool")
	ErrPoolClosed     = errors.New("warehouse: pool fechado")
)

// TimeoutError indica que o statement excedeu o limite de tempo de parede; não é repetido pelo pool
type TimeoutError struct {
	Limit       time.Duration
	StatementID string
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("warehouse timeout: statement %s excedeu %s", e.StatementID, e.Limit)
}

// FatalError encerra a execução: erro não transitório ou tentativas esgotadas
type FatalError struct {
	Err      error
	Attempts int
}

func (e *FatalError) Error() string {
	if e.Err == nil {
		return strings.TrimSuffix(fatalPrefix, ": ")
	}
	return fatalPrefix + e.Err.Error()
}

func (e *FatalError) Unwrap() error {
	return e.Err
}

func IsTimeout(err error) bool {
	var tErr *TimeoutError
	return errors.As(err, &tErr)
}

func IsFatal(err error) bool {
	var fErr *FatalError
	return errors.As(err, &fErr)
}

// TransientReason classifica os erros que o pool repete. Qualquer outro erro é fatal.
func TransientReason(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	// prazo ou cancelamento do chamador nunca é repetido
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || IsTimeout(err) {
		return "", false
	}

	if errors.Is(err, ErrAcquireTimeout) {
		return "acquire_timeout", true
	}

	if errors.Is(err, driver.ErrBadConn) {
		return "bad_conn", true
	}

	if errors.Is(err, syscall.ECONNRESET) {
		return "connection_reset", true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns", true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "network_timeout", true
	}

	message := strings.ToLower(err.Error())
	switch {
	case strings.Contains(message, "connection already in progress"):
		return "connection_in_progress", true
	case strings.Contains(message, "connection reset"):
		return "connection_reset", true
	case strings.Contains(message, "i/o timeout"):
		return "network_timeout", true
	case strings.Contains(message, "no such host"):
		return "dns", true
	}

	return "", false
}
