// Package retry reintentos acotados con intervalo fijo.
package retry

import (
	"context"
	"time"
)

// Policy número de intentos, espera entre ellos y qué errores se reintentan.
type Policy struct {
	Attempts  int
	Interval  time.Duration
	Retryable func(error) bool
	OnRetry   func(attempt int, err error)
}

// Do ejecuta fn hasta que tenga éxito, devuelva un error no reintentable o se agoten los intentos.
// Devuelve el último error.
func Do[T any](ctx context.Context, p Policy, fn func(context.Context) (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var (
		out T
		err error
	)
	for attempt := 1; attempt <= attempts; attempt++ {
		out, err = fn(ctx)
		if err == nil {
			return out, nil
		}
		if attempt == attempts || (p.Retryable != nil && !p.Retryable(err)) {
			return out, err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		timer := time.NewTimer(p.Interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out, ctx.Err()
		case <-timer.C:
		}
	}
	return out, err
}
