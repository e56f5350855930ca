package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Variantes del detalle de consumo de una línea (venta o daño).
// Variante etiquetada explícita: el motor y el analizador ramifican por Kind,
// nunca por presencia/ausencia de campos.
const (
	ConsumptionKindTracked = "tracked" // consumo asignado a lotes concretos
	ConsumptionKindLegacy  = "legacy"  // dato previo al seguimiento por lotes
)

// ConsumptionEntry: una capa consumida por la línea (lote, cantidad, costo unitario).
type ConsumptionEntry struct {
	BatchID   string
	Quantity  decimal.Decimal
	CostPrice decimal.Decimal
}

// ConsumptionDetail es el registro de consumo etiquetado de una línea.
// Kind == legacy ⇒ Entries vacío.
type ConsumptionDetail struct {
	Kind    string
	Entries []ConsumptionEntry
}

// TrackedDetail construye el detalle para un consumo asignado a lotes.
func TrackedDetail(entries []ConsumptionEntry) ConsumptionDetail {
	return ConsumptionDetail{Kind: ConsumptionKindTracked, Entries: entries}
}

// LegacyDetail construye el marcador para consumo sin lotes.
func LegacyDetail() ConsumptionDetail {
	return ConsumptionDetail{Kind: ConsumptionKindLegacy}
}

// CostTotal suma cantidad·costo de las capas consumidas (cero para legacy).
func (d ConsumptionDetail) CostTotal() decimal.Decimal {
	total := decimal.Zero
	for _, e := range d.Entries {
		total = total.Add(e.Quantity.Mul(e.CostPrice))
	}
	return total
}

// Sale representa una venta registrada contra una ubicación.
// TotalCost es el costo de mercancía vendida derivado del consumo por capas.
type Sale struct {
	ID         string
	CompanyID  string
	LocationID string
	Number     string // consecutivo legible por empresa
	Total      decimal.Decimal
	TotalCost  decimal.Decimal
	CreatedAt  time.Time
	CreatedBy  string
	Items      []SaleItem
}

// Profit devuelve la utilidad bruta de la venta (ingreso − costo de capas).
func (s *Sale) Profit() decimal.Decimal { return s.Total.Sub(s.TotalCost) }

// SaleItem es una línea de venta con su detalle de consumo etiquetado.
type SaleItem struct {
	ID          string
	SaleID      string
	ProductID   string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	Subtotal    decimal.Decimal
	Consumption ConsumptionDetail
}
