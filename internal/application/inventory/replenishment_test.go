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

// ──────────────────────────────────────────────────────────────────────────────
// Tests de reposición de tienda: pending → approved → fulfilled, o
// pending → rejected. Aprobar no mueve stock; cumplir enlaza la solicitud a una
// transferencia que coincida en producto, cantidad y destino.
// ──────────────────────────────────────────────────────────────────────────────

func newReplenishmentUC(s *memStore) (*inventory.ReplenishmentUseCase, *inventory.TransferUseCase) {
	transferUC := newTransferUC(s)
	uc := inventory.NewReplenishmentUseCase(
		productRepo{s}, locationRepo{s}, replenishmentRepo{s}, transferUC, memTxRunner{s},
		clock.NewFixed(testNow), quietLog(),
		inventory.RetryConfig{MaxRetries: 1, BaseDelay: time.Millisecond},
	)
	return uc, transferUC
}

func replenishmentRequest(qty int64) dto.CreateReplenishmentRequest {
	return dto.CreateReplenishmentRequest{
		ShopID:    shopID,
		ProductID: productID,
		Quantity:  decimal.NewFromInt(qty),
	}
}

func TestReplenishment_SoloTiendasSolicitan(t *testing.T) {
	store := seedStore()
	uc, _ := newReplenishmentUC(store)

	request, err := uc.Create(context.Background(), companyID, userID, replenishmentRequest(7))
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusPending, request.Status)

	fromWarehouse := replenishmentRequest(7)
	fromWarehouse.ShopID = warehouseID
	_, err = uc.Create(context.Background(), companyID, userID, fromWarehouse)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "una bodega no solicita reposición")
}

func TestReplenishment_AprobarNoMueveStock(t *testing.T) {
	store := seedStore()
	uc, _ := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(7))
	require.NoError(t, err)

	approved, err := uc.Approve(ctx, companyID, userID, request.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusApproved, approved.Status)

	assert.Empty(t, store.changes, "aprobar es solo autorización")
	assert.True(t, store.batches[batchCheapID].RemainingQuantity.Equal(decimal.NewFromInt(5)))
}

func TestReplenishment_RechazoExigeMotivo(t *testing.T) {
	store := seedStore()
	uc, _ := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(3))
	require.NoError(t, err)

	_, err = uc.Reject(ctx, companyID, userID, request.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "el motivo no puede ser espacio en blanco")

	rejected, err := uc.Reject(ctx, companyID, userID, request.ID, "sin presupuesto este mes")
	require.NoError(t, err)
	assert.Equal(t, entity.ReplenishmentStatusRejected, rejected.Status)
	assert.Equal(t, "sin presupuesto este mes", rejected.RejectionReason)

	// rejected es final.
	_, err = uc.Approve(ctx, companyID, userID, request.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition)
}

// Camino completo: la transferencia enlazada sigue pending y se completa
// dentro de la misma transacción del fulfill.
func TestReplenishment_FulfillCompletaTransferenciaPendiente(t *testing.T) {
	store := seedStore()
	uc, transferUC := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(7))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, companyID, userID, request.ID)
	require.NoError(t, err)

	transfer, _, err := transferUC.Create(ctx, companyID, userID, transferRequest(7))
	require.NoError(t, err)

	fulfilled, completion, err := uc.Fulfill(ctx, companyID, userID, request.ID, transfer.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ReplenishmentStatusFulfilled, fulfilled.Status)
	assert.Equal(t, transfer.ID, fulfilled.TransferID)
	require.NotNil(t, fulfilled.FulfilledAt)

	require.NotNil(t, completion, "la transferencia pendiente se completó en línea")
	assert.Equal(t, entity.TransferStatusCompleted, store.transfers[transfer.ID].Status)
	require.Len(t, completion.DestinationBatches, 2, "las capas llegaron a la tienda")
	assert.Equal(t, shopID, completion.DestinationBatches[0].LocationID)
}

// Una transferencia que ya movió el stock también cumple; no hay nada que completar.
func TestReplenishment_FulfillConTransferenciaYaCompletada(t *testing.T) {
	store := seedStore()
	uc, transferUC := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(7))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, companyID, userID, request.ID)
	require.NoError(t, err)

	req := transferRequest(7)
	req.CompleteNow = true
	transfer, _, err := transferUC.Create(ctx, companyID, userID, req)
	require.NoError(t, err)
	changesBefore := len(store.changes)

	fulfilled, completion, err := uc.Fulfill(ctx, companyID, userID, request.ID, transfer.ID)
	require.NoError(t, err)

	assert.Equal(t, entity.ReplenishmentStatusFulfilled, fulfilled.Status)
	assert.Nil(t, completion, "no se completó nada en línea")
	assert.Equal(t, changesBefore, len(store.changes), "el fulfill no repitió el movimiento")
}

func TestReplenishment_FulfillConTransferenciaCancelada(t *testing.T) {
	store := seedStore()
	uc, transferUC := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(7))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, companyID, userID, request.ID)
	require.NoError(t, err)

	transfer, _, err := transferUC.Create(ctx, companyID, userID, transferRequest(7))
	require.NoError(t, err)
	_, err = transferUC.Cancel(ctx, companyID, userID, transfer.ID)
	require.NoError(t, err)

	_, _, err = uc.Fulfill(ctx, companyID, userID, request.ID, transfer.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition,
		"una transferencia cancelada no puede cumplir nada")

	assert.Equal(t, entity.ReplenishmentStatusApproved, store.replenishments[request.ID].Status,
		"la solicitud sigue approved")
}

// La transferencia enlazada debe coincidir con lo solicitado en producto,
// cantidad y destino; cualquier diferencia es referencia inválida.
func TestReplenishment_FulfillConReferenciaInconsistente(t *testing.T) {
	store := seedStore()
	uc, transferUC := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(7))
	require.NoError(t, err)
	_, err = uc.Approve(ctx, companyID, userID, request.ID)
	require.NoError(t, err)

	// Cantidad distinta.
	wrongQty, _, err := transferUC.Create(ctx, companyID, userID, transferRequest(5))
	require.NoError(t, err)
	_, _, err = uc.Fulfill(ctx, companyID, userID, request.ID, wrongQty.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	// Producto distinto.
	wrongProduct := dto.CreateTransferRequest{
		ProductID:             legacyID,
		Quantity:              decimal.NewFromInt(7),
		SourceLocationID:      warehouseID,
		DestinationLocationID: shopID,
	}
	wp, _, err := transferUC.Create(ctx, companyID, userID, wrongProduct)
	require.NoError(t, err)
	_, _, err = uc.Fulfill(ctx, companyID, userID, request.ID, wp.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	// Destino distinto al de la tienda solicitante.
	wrongDest := transferRequest(7)
	wrongDest.DestinationLocationID = shopSouthID
	wd, _, err := transferUC.Create(ctx, companyID, userID, wrongDest)
	require.NoError(t, err)
	_, _, err = uc.Fulfill(ctx, companyID, userID, request.ID, wd.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidReference)

	assert.Equal(t, entity.ReplenishmentStatusApproved, store.replenishments[request.ID].Status)
}

func TestReplenishment_FulfillSinAprobar(t *testing.T) {
	store := seedStore()
	uc, transferUC := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(7))
	require.NoError(t, err)
	transfer, _, err := transferUC.Create(ctx, companyID, userID, transferRequest(7))
	require.NoError(t, err)

	_, _, err = uc.Fulfill(ctx, companyID, userID, request.ID, transfer.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidStateTransition,
		"pending no puede saltar directo a fulfilled")
}

func TestReplenishment_CantidadInvalida(t *testing.T) {
	store := seedStore()
	uc, _ := newReplenishmentUC(store)

	_, err := uc.Create(context.Background(), companyID, userID, replenishmentRequest(0))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReplenishment_DeOtraEmpresa(t *testing.T) {
	store := seedStore()
	uc, _ := newReplenishmentUC(store)
	ctx := context.Background()

	request, err := uc.Create(ctx, companyID, userID, replenishmentRequest(2))
	require.NoError(t, err)

	_, err = uc.Approve(ctx, otherCompanyID, userID, request.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
