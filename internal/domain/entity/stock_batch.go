package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de stock.
const (
	BatchStatusActive    = "active"    // con remanente disponible para consumo
	BatchStatusDepleted  = "depleted"  // remanente en cero
	BatchStatusCorrected = "corrected" // anulado por corrección administrativa
)

// StockBatch representa una capa de costo: un lote recibido a un costo unitario
// concreto en una ubicación, consumido en el orden que dicte el método del producto.
// Invariantes: 0 ≤ RemainingQuantity ≤ Quantity; Status == depleted ⇔ RemainingQuantity == 0.
// Los lotes nunca se borran: son el historial de costos permanente.
type StockBatch struct {
	ID                string
	CompanyID         string
	ProductID         string
	LocationID        string
	Quantity          decimal.Decimal // cantidad inicial del lote
	RemainingQuantity decimal.Decimal
	CostPrice         decimal.Decimal // costo unitario de la capa
	SupplierID        string          // vacío si no aplica (ej. lote creado por transferencia)
	IsCredit          bool            // compra a crédito con el proveedor
	Status            string          // active | depleted | corrected
	CreatedAt         time.Time
}

// Active indica si el lote aún participa en la asignación de consumo.
func (b *StockBatch) Active() bool { return b.Status == BatchStatusActive }

// CheckInvariants valida las invariantes del lote; devuelve false si está corrupto.
func (b *StockBatch) CheckInvariants() bool {
	if b.RemainingQuantity.IsNegative() || b.RemainingQuantity.GreaterThan(b.Quantity) {
		return false
	}
	depleted := b.Status == BatchStatusDepleted
	return depleted == b.RemainingQuantity.IsZero() || b.Status == BatchStatusCorrected
}
