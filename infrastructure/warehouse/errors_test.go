package warehouse

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
	"os"
	"syscall"
	"testing"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestTransientReason(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		reason    string
		transient bool
	}{
		{name: "acquire timeout", err: ErrAcquireTimeout, reason: "acquire_timeout", transient: true},
		{name: "acquire timeout embrulhado", err: pkgerrors.Wrap(ErrAcquireTimeout, "executar"), reason: "acquire_timeout", transient: true},
		{name: "conexão ruim do driver", err: driver.ErrBadConn, reason: "bad_conn", transient: true},
		{name: "econnreset", err: &net.OpError{Op: "read", Err: os.NewSyscallError("read", syscall.ECONNRESET)}, reason: "connection_reset", transient: true},
		{name: "dns", err: &net.DNSError{Err: "no such host", Name: "warehouse.local"}, reason: "dns", transient: true},
		{name: "timeout de rede", err: &net.OpError{Op: "dial", Err: timeoutError{}}, reason: "network_timeout", transient: true},
		{name: "conexão em andamento", err: errors.New("Connection already in progress"), reason: "connection_in_progress", transient: true},
		{name: "texto de i/o timeout", err: fmt.Errorf("query: %s", "read tcp: i/o timeout"), reason: "network_timeout", transient: true},
		{name: "prazo do chamador", err: context.DeadlineExceeded, transient: false},
		{name: "cancelamento do chamador", err: context.Canceled, transient: false},
		{name: "timeout de statement", err: &TimeoutError{Limit: time.Second}, transient: false},
		{name: "erro de sintaxe", err: errors.New(`syntax error at or near "FORM"`), transient: false},
		{name: "nil", err: nil, transient: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reason, transient := TransientReason(tt.err)
			assert.Equal(t, tt.transient, transient)
			assert.Equal(t, tt.reason, reason)
		})
	}
}

func TestFatalError_PrefixAndUnwrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := error(&FatalError{Err: cause, Attempts: 1})

	assert.Equal(t, "warehouse fatal: permission denied", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsFatal(pkgerrors.Wrap(err, "delivery")))
	assert.False(t, IsTimeout(err))
}

type timeoutError struct{}

func (timeoutError) Error() string   { return "deadline" }
func (timeoutError) Timeout() bool   { return true }
func (timeoutError) Temporary() bool { return true }
