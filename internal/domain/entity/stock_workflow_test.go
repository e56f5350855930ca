package entity_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// Tests de las máquinas de estado de los workflows y de las invariantes de lote.

func TestReplenishment_TransicionesValidas(t *testing.T) {
	cases := []struct {
		from, to string
		allowed  bool
	}{
		{entity.ReplenishmentStatusPending, entity.ReplenishmentStatusApproved, true},
		{entity.ReplenishmentStatusPending, entity.ReplenishmentStatusRejected, true},
		{entity.ReplenishmentStatusApproved, entity.ReplenishmentStatusFulfilled, true},
		// pending no puede saltarse la aprobación
		{entity.ReplenishmentStatusPending, entity.ReplenishmentStatusFulfilled, false},
		// rejected y fulfilled son finales
		{entity.ReplenishmentStatusRejected, entity.ReplenishmentStatusApproved, false},
		{entity.ReplenishmentStatusRejected, entity.ReplenishmentStatusFulfilled, false},
		{entity.ReplenishmentStatusFulfilled, entity.ReplenishmentStatusApproved, false},
		// approved ya no puede rechazarse
		{entity.ReplenishmentStatusApproved, entity.ReplenishmentStatusRejected, false},
	}
	for _, tc := range cases {
		r := &entity.StockReplenishmentRequest{Status: tc.from}
		assert.Equal(t, tc.allowed, r.CanTransitionTo(tc.to),
			"transición %s → %s", tc.from, tc.to)
	}
}

func TestTransferTypeFor_ParOrdenado(t *testing.T) {
	assert.Equal(t, "warehouse_to_shop",
		entity.TransferTypeFor(entity.LocationKindWarehouse, entity.LocationKindShop))
	assert.Equal(t, "shop_to_warehouse",
		entity.TransferTypeFor(entity.LocationKindShop, entity.LocationKindWarehouse))
	assert.Equal(t, "production_to_warehouse",
		entity.TransferTypeFor(entity.LocationKindProduction, entity.LocationKindWarehouse))
}

func TestStockBatch_CheckInvariants(t *testing.T) {
	base := func() *entity.StockBatch {
		return &entity.StockBatch{
			Quantity:          decimal.NewFromInt(10),
			RemainingQuantity: decimal.NewFromInt(4),
			Status:            entity.BatchStatusActive,
		}
	}

	assert.True(t, base().CheckInvariants())

	over := base()
	over.RemainingQuantity = decimal.NewFromInt(11)
	assert.False(t, over.CheckInvariants(), "remanente mayor que la cantidad inicial")

	negative := base()
	negative.RemainingQuantity = decimal.NewFromInt(-1)
	assert.False(t, negative.CheckInvariants(), "remanente negativo")

	// depleted ⇔ remanente cero, en ambas direcciones
	zombie := base()
	zombie.Status = entity.BatchStatusDepleted
	assert.False(t, zombie.CheckInvariants(), "depleted con remanente > 0")

	stuck := base()
	stuck.RemainingQuantity = decimal.Zero
	assert.False(t, stuck.CheckInvariants(), "active con remanente 0 debió pasar a depleted")

	drained := base()
	drained.RemainingQuantity = decimal.Zero
	drained.Status = entity.BatchStatusDepleted
	assert.True(t, drained.CheckInvariants())

	// corrected es válido con cualquier remanente: el lote quedó anulado
	corrected := base()
	corrected.Status = entity.BatchStatusCorrected
	assert.True(t, corrected.CheckInvariants())
}

func TestConsumptionDetail_VarianteEtiquetada(t *testing.T) {
	tracked := entity.TrackedDetail([]entity.ConsumptionEntry{
		{BatchID: "b1", Quantity: decimal.NewFromInt(5), CostPrice: decimal.NewFromInt(100)},
		{BatchID: "b2", Quantity: decimal.NewFromInt(2), CostPrice: decimal.NewFromInt(120)},
	})
	assert.Equal(t, entity.ConsumptionKindTracked, tracked.Kind)
	assert.True(t, tracked.CostTotal().Equal(decimal.NewFromInt(740)), "5×100 + 2×120")

	legacy := entity.LegacyDetail()
	assert.Equal(t, entity.ConsumptionKindLegacy, legacy.Kind)
	assert.Empty(t, legacy.Entries, "la variante legacy nunca lleva capas")
	assert.True(t, legacy.CostTotal().IsZero())
}

func TestSale_Profit(t *testing.T) {
	sale := &entity.Sale{
		Total:     decimal.NewFromInt(1000),
		TotalCost: decimal.NewFromInt(740),
	}
	assert.True(t, sale.Profit().Equal(decimal.NewFromInt(260)),
		"utilidad = ingreso − costo por capas")
}
