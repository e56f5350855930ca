package inventory_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	inventory "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain"
)

// Tests del reintento ante conflictos de concurrencia.

func fastRetry(maxRetries int) inventory.RetryConfig {
	return inventory.RetryConfig{MaxRetries: maxRetries, BaseDelay: time.Millisecond}
}

func TestRunWithRetry_ReintentaSoloConflictos(t *testing.T) {
	calls := 0
	err := inventory.RunWithRetry(context.Background(), fastRetry(3), func() error {
		calls++
		if calls < 3 {
			return domain.ErrConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls, "dos conflictos y un éxito")
}

func TestRunWithRetry_AgotaYDevuelveElConflicto(t *testing.T) {
	calls := 0
	err := inventory.RunWithRetry(context.Background(), fastRetry(2), func() error {
		calls++
		return domain.ErrConflict
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 3, calls, "intento inicial más dos reintentos")
}

func TestRunWithRetry_OtrosErroresCortanDeInmediato(t *testing.T) {
	boom := errors.New("se cayó la base")
	calls := 0
	err := inventory.RunWithRetry(context.Background(), fastRetry(5), func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "un error ajeno al conflicto no se reintenta")
}

func TestRunWithRetry_ContextoCancelado(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := inventory.RunWithRetry(ctx, fastRetry(3), func() error {
		calls++
		return domain.ErrConflict
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls, "con el contexto cancelado no hay segundo intento")
}

func TestRunWithRetry_ConflictoEnvueltoTambienCuenta(t *testing.T) {
	// El runner de transacciones envuelve el 40001 con contexto; errors.Is lo
	// sigue reconociendo a través de la cadena.
	wrapped := fmt.Errorf("transacción en conflicto: %w", domain.ErrConflict)
	calls := 0
	err := inventory.RunWithRetry(context.Background(), fastRetry(1), func() error {
		calls++
		return wrapped
	})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 2, calls)
}
