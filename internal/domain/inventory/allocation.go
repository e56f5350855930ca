package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// PlanLine es una capa del plan de consumo: lote, cantidad tomada y costo unitario.
type PlanLine struct {
	BatchID  string
	Quantity decimal.Decimal
	UnitCost decimal.Decimal
}

// ConsumptionPlan es el plan ordenado que satisface un retiro: la suma de sus
// líneas es exactamente la cantidad pedida y TotalCost alimenta el costo de
// mercancía vendida (utilidad = ingreso − TotalCost).
type ConsumptionPlan struct {
	ProductID  string
	LocationID string
	Method     string // FIFO | LIFO
	Requested  decimal.Decimal
	Lines      []PlanLine
	TotalCost  decimal.Decimal
}

// Empty indica si el plan no consume ninguna capa (retiro de cantidad cero).
func (p *ConsumptionPlan) Empty() bool { return len(p.Lines) == 0 }

// TotalQuantity suma las cantidades de todas las líneas del plan.
func (p *ConsumptionPlan) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, l := range p.Lines {
		total = total.Add(l.Quantity)
	}
	return total
}

// OrderBatches devuelve los lotes en el orden de consumo del método:
// FIFO = CreatedAt ascendente (empates por ID), LIFO = descendente.
// No muta el slice recibido.
func OrderBatches(batches []*entity.StockBatch, method string) []*entity.StockBatch {
	ordered := make([]*entity.StockBatch, len(batches))
	copy(ordered, batches)
	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		if method == entity.MethodLIFO {
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID > b.ID
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.ID < b.ID
	})
	return ordered
}

// BuildPlan recorre los lotes activos en orden de método consumiendo
// min(remanente, pendiente) de cada uno hasta cubrir la cantidad pedida.
// Si los lotes se agotan antes, devuelve InsufficientStockError con el faltante
// y no produce plan parcial. Cantidad cero produce un plan vacío válido.
// Función pura: no muta lotes ni toca almacenamiento.
func BuildPlan(
	productID, locationID, method string,
	batches []*entity.StockBatch,
	requested decimal.Decimal,
) (*ConsumptionPlan, error) {
	if requested.IsNegative() {
		return nil, domain.NewValidationError("quantity", "la cantidad a retirar no puede ser negativa")
	}
	if !entity.ValidMethod(method) {
		return nil, domain.NewValidationError("inventory_method", "método desconocido: "+method)
	}

	plan := &ConsumptionPlan{
		ProductID:  productID,
		LocationID: locationID,
		Method:     method,
		Requested:  requested,
		TotalCost:  decimal.Zero,
	}
	if requested.IsZero() {
		return plan, nil
	}

	outstanding := requested
	for _, b := range OrderBatches(batches, method) {
		if !b.Active() || b.RemainingQuantity.IsZero() {
			continue
		}
		take := decimal.Min(b.RemainingQuantity, outstanding)
		plan.Lines = append(plan.Lines, PlanLine{
			BatchID:  b.ID,
			Quantity: take,
			UnitCost: b.CostPrice,
		})
		plan.TotalCost = plan.TotalCost.Add(take.Mul(b.CostPrice))
		outstanding = outstanding.Sub(take)
		if outstanding.IsZero() {
			return plan, nil
		}
	}

	return nil, &domain.InsufficientStockError{
		ProductID:  productID,
		LocationID: locationID,
		Requested:  requested,
		Available:  requested.Sub(outstanding),
	}
}
