package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	inventory "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
)

// Tests de reposición (creación de lotes) y corrección administrativa.

func newBatchUC(s *memStore) *inventory.BatchUseCase {
	return inventory.NewBatchUseCase(
		productRepo{s}, locationRepo{s}, supplierRepo{s}, batchRepo{s}, memTxRunner{s},
		clock.NewFixed(testNow), quietLog(),
		inventory.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond},
	)
}

func restockRequest(qty, cost int64) dto.CreateBatchRequest {
	return dto.CreateBatchRequest{
		ProductID:  productID,
		LocationID: warehouseID,
		Quantity:   decimal.NewFromInt(qty),
		CostPrice:  decimal.NewFromInt(cost),
		SupplierID: supplierID,
		Reference:  "compra-789",
	}
}

func TestCreateBatch_ReposicionCompleta(t *testing.T) {
	store := seedStore()
	uc := newBatchUC(store)

	out, err := uc.CreateBatch(context.Background(), companyID, userID, restockRequest(10, 130))
	require.NoError(t, err)
	require.False(t, out.Replayed)

	// El lote nace completo, activo y con su capa de costo.
	require.NotNil(t, out.Batch)
	stored := store.batches[out.Batch.ID]
	require.NotNil(t, stored)
	assert.True(t, stored.RemainingQuantity.Equal(stored.Quantity))
	assert.True(t, stored.CostPrice.Equal(decimal.NewFromInt(130)))
	assert.Equal(t, entity.BatchStatusActive, stored.Status)
	assert.Equal(t, supplierID, stored.SupplierID)

	// Entrada en el libro ligada al lote.
	require.NotNil(t, out.Change)
	assert.Equal(t, out.Batch.ID, out.Change.BatchID)
	assert.Equal(t, entity.ChangeReasonRestock, out.Change.Reason)
	assert.True(t, out.Change.Change.Equal(decimal.NewFromInt(10)))

	// Agregado y costo promedio de referencia: (10×110 + 10×130) / 20 = 120.
	product := store.products[productID]
	assert.True(t, product.Stock.Equal(decimal.NewFromInt(20)))
	assert.True(t, product.Cost.Equal(decimal.NewFromInt(120)), "promedio esperado 120, no %s", product.Cost)
}

func TestCreateBatch_ReferenciaRepetidaNoReaplica(t *testing.T) {
	store := seedStore()
	uc := newBatchUC(store)
	ctx := context.Background()

	first, err := uc.CreateBatch(ctx, companyID, userID, restockRequest(10, 130))
	require.NoError(t, err)
	require.False(t, first.Replayed)
	batchCount := len(store.batches)
	stock := store.products[productID].Stock

	second, err := uc.CreateBatch(ctx, companyID, userID, restockRequest(10, 130))
	require.NoError(t, err)
	assert.True(t, second.Replayed)
	assert.Nil(t, second.Batch)

	assert.Equal(t, batchCount, len(store.batches), "el replay no crea otro lote")
	assert.True(t, store.products[productID].Stock.Equal(stock), "el replay no suma stock")
}

// Producto sin seguimiento: la reposición ajusta el agregado y deja el cambio
// sin lote; no se crea capa.
func TestCreateBatch_ProductoLegacy(t *testing.T) {
	store := seedStore()
	uc := newBatchUC(store)

	out, err := uc.CreateBatch(context.Background(), companyID, userID, dto.CreateBatchRequest{
		ProductID:  legacyID,
		LocationID: shopID,
		Quantity:   decimal.NewFromInt(20),
		CostPrice:  decimal.NewFromInt(35),
		Reference:  "compra-legacy-1",
	})
	require.NoError(t, err)

	assert.Nil(t, out.Batch)
	require.NotNil(t, out.Change)
	assert.Empty(t, out.Change.BatchID)
	assert.True(t, store.products[legacyID].Stock.Equal(decimal.NewFromInt(60)))
}

func TestCreateBatch_Validaciones(t *testing.T) {
	store := seedStore()
	uc := newBatchUC(store)
	ctx := context.Background()

	zero := restockRequest(0, 100)
	_, err := uc.CreateBatch(ctx, companyID, userID, zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "cantidad cero")

	negative := restockRequest(5, -1)
	_, err = uc.CreateBatch(ctx, companyID, userID, negative)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "costo negativo")

	ghost := restockRequest(5, 100)
	ghost.SupplierID = "proveedor-fantasma"
	_, err = uc.CreateBatch(ctx, companyID, userID, ghost)
	assert.ErrorIs(t, err, domain.ErrNotFound, "proveedor inexistente")

	store.suppliers[supplierID].Status = entity.SupplierStatusInactive
	inactive := restockRequest(5, 100)
	_, err = uc.CreateBatch(ctx, companyID, userID, inactive)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "proveedor inactivo no admite compras")
}

func TestListBatches_Filtros(t *testing.T) {
	store := seedStore()
	store.batches["lote-tienda"] = &entity.StockBatch{
		ID: "lote-tienda", CompanyID: companyID, ProductID: productID, LocationID: shopID,
		Quantity: decimal.NewFromInt(3), RemainingQuantity: decimal.NewFromInt(3),
		CostPrice: decimal.NewFromInt(100), Status: entity.BatchStatusActive,
		CreatedAt: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC),
	}
	store.batches["lote-agotado"] = &entity.StockBatch{
		ID: "lote-agotado", CompanyID: companyID, ProductID: productID, LocationID: warehouseID,
		Quantity: decimal.NewFromInt(4), RemainingQuantity: decimal.Zero,
		CostPrice: decimal.NewFromInt(90), Status: entity.BatchStatusDepleted,
		CreatedAt: time.Date(2025, 1, 5, 8, 0, 0, 0, time.UTC),
	}
	uc := newBatchUC(store)
	ctx := context.Background()

	all, err := uc.ListBatches(ctx, companyID, productID, "", false)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	warehouse, err := uc.ListBatches(ctx, companyID, productID, warehouseID, false)
	require.NoError(t, err)
	assert.Len(t, warehouse, 3)

	active, err := uc.ListBatches(ctx, companyID, productID, warehouseID, true)
	require.NoError(t, err)
	assert.Len(t, active, 2, "el agotado queda fuera con only_active")
}

// La corrección anula el lote por su remanente: estado corrected, cambio de
// corrección negativo y agregado descontado. El lote no se borra.
func TestCorrectBatch_AnulaPorElRemanente(t *testing.T) {
	store := seedStore()
	uc := newBatchUC(store)

	// Consumir 2 primero para que el remanente (3) difiera de la cantidad (5).
	consumeUC := newConsumeUC(store)
	_, err := consumeUC.Consume(context.Background(), companyID, userID, dto.ConsumeStockRequest{
		ProductID: productID, LocationID: warehouseID,
		Quantity: decimal.NewFromInt(2), Reason: entity.ChangeReasonSale, Reference: "venta-previa",
	})
	require.NoError(t, err)

	change, err := uc.CorrectBatch(context.Background(), companyID, userID, batchCheapID)
	require.NoError(t, err)

	assert.True(t, change.Change.Equal(decimal.NewFromInt(-3)), "se descuenta el remanente, no la cantidad inicial")
	assert.Equal(t, entity.ChangeReasonCorrection, change.Reason)

	corrected := store.batches[batchCheapID]
	assert.Equal(t, entity.BatchStatusCorrected, corrected.Status)
	assert.True(t, corrected.RemainingQuantity.IsZero(), "el remanente queda en cero tras anular")

	// Stock: 10 − 2 vendidas − 3 corregidas = 5.
	assert.True(t, store.products[productID].Stock.Equal(decimal.NewFromInt(5)))
}

func TestCorrectBatch_SoloLotesActivos(t *testing.T) {
	store := seedStore()
	uc := newBatchUC(store)
	ctx := context.Background()

	_, err := uc.CorrectBatch(ctx, companyID, userID, batchCheapID)
	require.NoError(t, err)

	// Corregir dos veces el mismo lote es una transición inválida.
	_, err = uc.CorrectBatch(ctx, companyID, userID, batchCheapID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)

	// Un lote agotado tampoco se corrige.
	store.batches[batchDearID].RemainingQuantity = decimal.Zero
	store.batches[batchDearID].Status = entity.BatchStatusDepleted
	_, err = uc.CorrectBatch(ctx, companyID, userID, batchDearID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

func TestCorrectBatch_DeOtraEmpresa(t *testing.T) {
	store := seedStore()
	uc := newBatchUC(store)

	_, err := uc.CorrectBatch(context.Background(), otherCompanyID, userID, batchCheapID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Equal(t, entity.BatchStatusActive, store.batches[batchCheapID].Status)
}
