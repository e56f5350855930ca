package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Causas de un cambio de stock en el libro mayor.
const (
	ChangeReasonRestock     = "restock"      // entrada por compra/reposición
	ChangeReasonSale        = "sale"         // salida por venta
	ChangeReasonDamage      = "damage"       // salida por daño o merma
	ChangeReasonAdjustment  = "adjustment"   // ajuste manual
	ChangeReasonTransferIn  = "transfer_in"  // entrada por transferencia
	ChangeReasonTransferOut = "transfer_out" // salida por transferencia
	ChangeReasonCorrection  = "correction"   // corrección administrativa
)

// ValidChangeReason indica si r es una causa reconocida.
func ValidChangeReason(r string) bool {
	switch r {
	case ChangeReasonRestock, ChangeReasonSale, ChangeReasonDamage, ChangeReasonAdjustment,
		ChangeReasonTransferIn, ChangeReasonTransferOut, ChangeReasonCorrection:
		return true
	}
	return false
}

// StockChange es una entrada inmutable del libro mayor: un delta firmado de cantidad
// con su causa y referencia. Una vez escrita nunca se modifica; el único borrado
// permitido es la purga administrativa de datos legacy previos a la migración.
// BatchID vacío identifica un cambio legacy/sin seguimiento de lotes.
type StockChange struct {
	ID         string
	CompanyID  string
	ProductID  string
	LocationID string
	BatchID    string          // vacío = cambio sin lote (ruta legacy)
	Change     decimal.Decimal // delta firmado: positivo entrada, negativo salida
	Reason     string          // ver constantes ChangeReason*
	Reference  string          // changeRef: agrupa los cambios de una operación y garantiza apply-once
	CostPrice  *decimal.Decimal
	SupplierID string
	IsCredit   bool
	CreatedAt  time.Time
	CreatedBy  string // UserID
}

// Tracked indica si el cambio está ligado a un lote concreto.
func (c *StockChange) Tracked() bool { return c.BatchID != "" }

// Outbound indica si el cambio es una salida (delta negativo).
func (c *StockChange) Outbound() bool { return c.Change.IsNegative() }
