package inventory_test

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Tests de BuildPlan: el corazón del motor de consumo por capas de costo.
//
// Escenario base: tres lotes del mismo producto recibidos en días consecutivos
// a costos crecientes. El costo total del plan depende del método:
//
//	Lote A  2025-01-10  5 und @ 100
//	Lote B  2025-01-11  5 und @ 120
//	Lote C  2025-01-12  5 und @ 140
//
//	FIFO retira 7 → 5@100 + 2@120 = 740
//	LIFO retira 7 → 5@140 + 2@120 = 940
// ──────────────────────────────────────────────────────────────────────────────

const (
	testProductID  = "11111111-1111-1111-1111-111111111111"
	testLocationID = "22222222-2222-2222-2222-222222222222"
)

func baseBatches() []*entity.StockBatch {
	day := func(d int) time.Time {
		return time.Date(2025, 1, d, 8, 0, 0, 0, time.UTC)
	}
	return []*entity.StockBatch{
		batch("batch-a", 5, 100, day(10)),
		batch("batch-b", 5, 120, day(11)),
		batch("batch-c", 5, 140, day(12)),
	}
}

func TestBuildPlan_FIFOConsumeDelMasAntiguo(t *testing.T) {
	plan, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		baseBatches(), decimal.NewFromInt(7))
	require.NoError(t, err)

	require.Len(t, plan.Lines, 2, "7 unidades deben salir de dos capas")
	assert.Equal(t, "batch-a", plan.Lines[0].BatchID, "FIFO agota primero el lote más antiguo")
	assert.True(t, plan.Lines[0].Quantity.Equal(decimal.NewFromInt(5)))
	assert.Equal(t, "batch-b", plan.Lines[1].BatchID)
	assert.True(t, plan.Lines[1].Quantity.Equal(decimal.NewFromInt(2)))

	assert.True(t, plan.TotalCost.Equal(decimal.NewFromInt(740)),
		"costo FIFO: 5×100 + 2×120 = 740, no %s", plan.TotalCost)
	assert.True(t, plan.TotalQuantity().Equal(plan.Requested),
		"la suma de líneas debe ser exactamente lo pedido")
}

func TestBuildPlan_LIFOConsumeDelMasReciente(t *testing.T) {
	plan, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodLIFO,
		baseBatches(), decimal.NewFromInt(7))
	require.NoError(t, err)

	require.Len(t, plan.Lines, 2)
	assert.Equal(t, "batch-c", plan.Lines[0].BatchID, "LIFO agota primero el lote más reciente")
	assert.Equal(t, "batch-b", plan.Lines[1].BatchID)

	assert.True(t, plan.TotalCost.Equal(decimal.NewFromInt(940)),
		"costo LIFO: 5×140 + 2×120 = 940, no %s", plan.TotalCost)
}

// El mismo retiro cuesta distinto según el método: esa diferencia es la razón
// de ser de las capas de costo.
func TestBuildPlan_MetodoCambiaElCosto(t *testing.T) {
	fifo, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		baseBatches(), decimal.NewFromInt(7))
	require.NoError(t, err)
	lifo, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodLIFO,
		baseBatches(), decimal.NewFromInt(7))
	require.NoError(t, err)

	assert.False(t, fifo.TotalCost.Equal(lifo.TotalCost),
		"con costos crecientes FIFO y LIFO no pueden costar lo mismo")
}

func TestBuildPlan_CantidadCeroPlanVacio(t *testing.T) {
	plan, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		baseBatches(), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, plan.Empty(), "retirar cero unidades produce un plan vacío válido")
	assert.True(t, plan.TotalCost.IsZero())
}

func TestBuildPlan_CantidadNegativaRechazada(t *testing.T) {
	_, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		baseBatches(), decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestBuildPlan_MetodoDesconocidoRechazado(t *testing.T) {
	_, err := inventory.BuildPlan(testProductID, testLocationID, "HIFO",
		baseBatches(), decimal.NewFromInt(1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Faltante de una sola unidad: no hay plan parcial y el error reporta el hueco exacto.
func TestBuildPlan_InsuficienteReportaFaltante(t *testing.T) {
	batches := baseBatches() // 15 disponibles
	_, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		batches, decimal.NewFromInt(16))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)

	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.True(t, insufficient.Requested.Equal(decimal.NewFromInt(16)))
	assert.True(t, insufficient.Available.Equal(decimal.NewFromInt(15)))
	assert.True(t, insufficient.Shortfall().Equal(decimal.NewFromInt(1)),
		"falta exactamente 1 unidad")
}

// BuildPlan es una función pura: aunque falle, los lotes de entrada no cambian.
func TestBuildPlan_NoMutaLotes(t *testing.T) {
	batches := baseBatches()
	_, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		batches, decimal.NewFromInt(16))
	require.Error(t, err)

	for _, b := range batches {
		assert.True(t, b.RemainingQuantity.Equal(decimal.NewFromInt(5)),
			"el lote %s no debe mutarse al planificar", b.ID)
		assert.Equal(t, entity.BatchStatusActive, b.Status)
	}
}

func TestBuildPlan_IgnoraLotesNoActivosYVacios(t *testing.T) {
	day := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	depleted := batch("batch-agotado", 5, 90, day)
	depleted.RemainingQuantity = decimal.Zero
	depleted.Status = entity.BatchStatusDepleted

	corrected := batch("batch-anulado", 5, 90, day.Add(time.Hour))
	corrected.Status = entity.BatchStatusCorrected

	empty := batch("batch-cero", 5, 90, day.Add(2*time.Hour))
	empty.RemainingQuantity = decimal.Zero // aún active, pero sin remanente

	usable := batch("batch-util", 5, 100, day.Add(3*time.Hour))

	plan, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		[]*entity.StockBatch{depleted, corrected, empty, usable}, decimal.NewFromInt(3))
	require.NoError(t, err)

	require.Len(t, plan.Lines, 1)
	assert.Equal(t, "batch-util", plan.Lines[0].BatchID,
		"solo los lotes activos con remanente participan")
}

// Un lote parcialmente consumido aporta solo su remanente, no su cantidad inicial.
func TestBuildPlan_RespetaRemanenteParcial(t *testing.T) {
	day := time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC)
	partial := batch("batch-parcial", 10, 100, day)
	partial.RemainingQuantity = decimal.NewFromInt(2)
	next := batch("batch-siguiente", 10, 120, day.Add(24*time.Hour))

	plan, err := inventory.BuildPlan(testProductID, testLocationID, entity.MethodFIFO,
		[]*entity.StockBatch{partial, next}, decimal.NewFromInt(5))
	require.NoError(t, err)

	require.Len(t, plan.Lines, 2)
	assert.True(t, plan.Lines[0].Quantity.Equal(decimal.NewFromInt(2)),
		"del lote parcial solo salen las 2 que quedan")
	assert.True(t, plan.Lines[1].Quantity.Equal(decimal.NewFromInt(3)))
	assert.True(t, plan.TotalCost.Equal(decimal.NewFromInt(560)), "2×100 + 3×120 = 560")
}

// ──────────────────────────────────────────────────────────────────────────────
// Orden de consumo y desempates
// ──────────────────────────────────────────────────────────────────────────────

// Dos lotes con el mismo instante de creación desempatan por ID para que el
// orden de consumo sea determinista entre réplicas.
func TestOrderBatches_EmpateDesempataPorID(t *testing.T) {
	same := time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC)
	a := batch("aaa", 5, 100, same)
	b := batch("bbb", 5, 110, same)

	fifo := inventory.OrderBatches([]*entity.StockBatch{b, a}, entity.MethodFIFO)
	assert.Equal(t, []string{"aaa", "bbb"}, ids(fifo), "FIFO con empate: ID ascendente")

	lifo := inventory.OrderBatches([]*entity.StockBatch{a, b}, entity.MethodLIFO)
	assert.Equal(t, []string{"bbb", "aaa"}, ids(lifo), "LIFO con empate: ID descendente")
}

func TestOrderBatches_NoMutaElSliceOriginal(t *testing.T) {
	batches := baseBatches()
	inventory.OrderBatches(batches, entity.MethodLIFO)
	assert.Equal(t, []string{"batch-a", "batch-b", "batch-c"}, ids(batches),
		"ordenar devuelve una copia; el slice original queda intacto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado de referencia
// ──────────────────────────────────────────────────────────────────────────────

func TestCostCalculator_PromedioPonderado(t *testing.T) {
	// (10×100 + 5×130) / 15 = 110
	got := inventory.CostCalculator(
		decimal.NewFromInt(10), decimal.NewFromInt(100),
		decimal.NewFromInt(5), decimal.NewFromInt(130),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(110)), "promedio esperado 110, no %s", got)
}

func TestCostCalculator_SinStockDevuelveCostoEntrada(t *testing.T) {
	got := inventory.CostCalculator(
		decimal.Zero, decimal.Zero,
		decimal.NewFromInt(8), decimal.NewFromInt(95),
	)
	assert.True(t, got.Equal(decimal.NewFromInt(95)),
		"con stock cero el promedio es el costo de la entrada")
}

func TestCostCalculator_TotalCeroDevuelveCero(t *testing.T) {
	got := inventory.CostCalculator(decimal.Zero, decimal.NewFromInt(50), decimal.Zero, decimal.NewFromInt(80))
	assert.True(t, got.IsZero())
}

// ── helpers ───────────────────────────────────────────────────────────────────

func batch(id string, qty int64, cost int64, createdAt time.Time) *entity.StockBatch {
	return &entity.StockBatch{
		ID:                id,
		CompanyID:         "33333333-3333-3333-3333-333333333333",
		ProductID:         testProductID,
		LocationID:        testLocationID,
		Quantity:          decimal.NewFromInt(qty),
		RemainingQuantity: decimal.NewFromInt(qty),
		CostPrice:         decimal.NewFromInt(cost),
		Status:            entity.BatchStatusActive,
		CreatedAt:         createdAt,
	}
}

func ids(batches []*entity.StockBatch) []string {
	out := make([]string, len(batches))
	for i, b := range batches {
		out[i] = b.ID
	}
	return out
}
