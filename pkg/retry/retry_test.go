package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/pkg/retry"
)

var (
	errConn = errors.New("conexión rechazada")
	errHTTP = errors.New("HTTP 500")
)

func policy() retry.Policy {
	return retry.Policy{
		Attempts:  3,
		Interval:  time.Millisecond,
		Retryable: func(err error) bool { return errors.Is(err, errConn) },
	}
}

func TestDo_ReintentaErroresDeConexion(t *testing.T) {
	calls := 0
	out, err := retry.Do(context.Background(), policy(), func(context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", errConn
		}
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, 3, calls)
}

func TestDo_MaximoTresIntentos(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), policy(), func(context.Context) (int, error) {
		calls++
		return 0, errConn
	})
	assert.ErrorIs(t, err, errConn)
	assert.Equal(t, 3, calls)
}

func TestDo_NoReintentaErroresHTTP(t *testing.T) {
	calls := 0
	_, err := retry.Do(context.Background(), policy(), func(context.Context) (int, error) {
		calls++
		return 0, errHTTP
	})
	assert.ErrorIs(t, err, errHTTP)
	assert.Equal(t, 1, calls)
}

func TestDo_RespetaCancelacion(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	p := policy()
	p.Interval = time.Hour
	p.OnRetry = func(int, error) { cancel() }

	_, err := retry.Do(ctx, p, func(context.Context) (int, error) { return 0, errConn })
	assert.ErrorIs(t, err, context.Canceled)
}
