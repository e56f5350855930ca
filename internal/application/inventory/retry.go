package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/tu-usuario/kardex-pro/internal/domain"
)

// RetryConfig parámetros del reintento ante colisiones de concurrencia (40001/40P01).
type RetryConfig struct {
	MaxRetries int
	BaseDelay  time.Duration
}

func (c RetryConfig) withDefaults() RetryConfig {
	if c.MaxRetries <= 0 {
		c.MaxRetries = 3
	}
	if c.BaseDelay <= 0 {
		c.BaseDelay = 25 * time.Millisecond
	}
	return c
}

// RunWithRetry ejecuta fn y, si pierde la carrera de concurrencia (ErrConflict),
// reintenta con backoff exponencial acotado. Agotados los reintentos el conflicto
// sube al caller. Cualquier otro error corta de inmediato.
func RunWithRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	cfg = cfg.withDefaults()
	delay := cfg.BaseDelay
	for attempt := 0; ; attempt++ {
		err := fn()
		if err == nil || !errors.Is(err, domain.ErrConflict) {
			return err
		}
		if attempt >= cfg.MaxRetries {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
		delay *= 2
	}
}
