package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	inventory "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
)

// Tests del caso de uso de conciliación: armado de la foto, corte de migración
// y purga administrativa del libro legacy.

var reconCutover = time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

func newReconcileUC(s *memStore) *inventory.ReconciliationUseCase {
	return inventory.NewReconciliationUseCase(
		productRepo{s}, batchRepo{s}, changeRepo{s}, saleRepo{s}, memTxRunner{s},
		clock.NewFixed(testNow), quietLog(), reconCutover,
	)
}

func reconChange(id, batchID string, qty int64, at time.Time) *entity.StockChange {
	return &entity.StockChange{
		ID: id, CompanyID: companyID, ProductID: productID, LocationID: warehouseID,
		BatchID: batchID, Change: decimal.NewFromInt(qty), Reason: entity.ChangeReasonAdjustment,
		Reference: "ref-" + id, CreatedAt: at, CreatedBy: userID,
	}
}

func TestAnalyze_ProductoCuadrado(t *testing.T) {
	store := seedStore()
	// Libro completo: dos reposiciones con lote que explican el agregado (10).
	store.changes = append(store.changes,
		reconChange("rc-1", batchCheapID, 5, time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)),
		reconChange("rc-2", batchDearID, 5, time.Date(2025, 4, 11, 9, 0, 0, 0, time.UTC)),
	)
	uc := newReconcileUC(store)

	report, err := uc.Analyze(context.Background(), companyID, productID)
	require.NoError(t, err)

	assert.True(t, report.Clean(), "sin issues: %+v", report.Issues)
	assert.Empty(t, report.Warnings)
	assert.Equal(t, testNow, report.AnalyzedAt)
}

func TestAnalyze_DetectaDescuadre(t *testing.T) {
	store := seedStore()
	// El agregado dice 10 pero los lotes activos suman 10; se fuerza 12.
	store.products[productID].Stock = decimal.NewFromInt(12)
	uc := newReconcileUC(store)

	report, err := uc.Analyze(context.Background(), companyID, productID)
	require.NoError(t, err)

	require.False(t, report.Clean())
	codes := make([]string, 0, len(report.Issues))
	for _, issue := range report.Issues {
		codes = append(codes, issue.Code)
	}
	assert.Contains(t, codes, "BATCH_SUM_MISMATCH")
}

// El corte configurado decide si un cambio sin lote es herencia tolerada o un
// hueco del seguimiento.
func TestAnalyze_CortePorConfiguracion(t *testing.T) {
	store := seedStore()
	store.changes = append(store.changes,
		reconChange("rc-legacy", "", 10, reconCutover.AddDate(0, -1, 0)),
	)
	uc := newReconcileUC(store)

	report, err := uc.Analyze(context.Background(), companyID, productID)
	require.NoError(t, err)

	assert.True(t, report.Clean(), "lo anterior al corte es advertencia, no issue")
	require.NotEmpty(t, report.Warnings)
	assert.Equal(t, "LEGACY_CHANGES", report.Warnings[0].Code)
}

func TestAnalyze_ProductoAjeno(t *testing.T) {
	store := seedStore()
	uc := newReconcileUC(store)

	_, err := uc.Analyze(context.Background(), otherCompanyID, productID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestPurgeLegacy_BorraSoloLoAnteriorAlCorte(t *testing.T) {
	store := seedStore()
	store.changes = append(store.changes,
		// Dos legacy purgables.
		reconChange("pg-1", "", 10, reconCutover.AddDate(0, -2, 0)),
		reconChange("pg-2", "", -3, reconCutover.AddDate(0, -1, 0)),
		// Sin lote pero posterior al corte: intocable.
		reconChange("pg-3", "", 4, reconCutover.AddDate(0, 1, 0)),
		// Con lote y anterior al corte: intocable.
		reconChange("pg-4", batchCheapID, 5, reconCutover.AddDate(0, -1, 5)),
	)
	uc := newReconcileUC(store)

	deleted, err := uc.PurgeLegacy(context.Background(), companyID, userID, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining := make(map[string]bool, len(store.changes))
	for _, ch := range store.changes {
		remaining[ch.ID] = true
	}
	assert.False(t, remaining["pg-1"])
	assert.False(t, remaining["pg-2"])
	assert.True(t, remaining["pg-3"], "posterior al corte sobrevive")
	assert.True(t, remaining["pg-4"], "con lote sobrevive")
}

func TestPurgeLegacy_SinNadaQuePurgar(t *testing.T) {
	store := seedStore()
	uc := newReconcileUC(store)

	deleted, err := uc.PurgeLegacy(context.Background(), companyID, userID, productID)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestPurgeLegacy_ProductoAjeno(t *testing.T) {
	store := seedStore()
	store.changes = append(store.changes,
		reconChange("pg-ajeno", "", 10, reconCutover.AddDate(0, -1, 0)),
	)
	uc := newReconcileUC(store)

	_, err := uc.PurgeLegacy(context.Background(), otherCompanyID, userID, productID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Len(t, store.changes, 1, "nada se borra sin propiedad")
}

func TestCutover_ExponeElCorteVigente(t *testing.T) {
	uc := newReconcileUC(seedStore())
	assert.Equal(t, reconCutover, uc.Cutover())
}
