package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una transferencia de stock.
const (
	TransferStatusPending   = "pending"
	TransferStatusCompleted = "completed"
	TransferStatusCancelled = "cancelled"
)

// StockTransfer mueve cantidad (y sus capas de costo) entre dos ubicaciones.
// pending → completed | cancelled; ambos finales. Completar consume en el origen
// y crea en el destino un lote nuevo por cada capa consumida, preservando su costo.
type StockTransfer struct {
	ID                    string
	CompanyID             string
	TransferType          string // par ordenado de tipos: warehouse_to_shop, shop_to_warehouse, ...
	ProductID             string
	Quantity              decimal.Decimal
	SourceLocationID      string
	DestinationLocationID string
	MethodOverride        string // FIFO | LIFO | vacío = usar el método del producto
	Status                string // pending | completed | cancelled
	CreatedAt             time.Time
	CreatedBy             string
	CompletedAt           *time.Time
}

// TransferTypeFor arma el tipo de transferencia a partir de los tipos de las ubicaciones.
func TransferTypeFor(sourceKind, destinationKind string) string {
	return fmt.Sprintf("%s_to_%s", sourceKind, destinationKind)
}

// Pending indica si la transferencia aún no movió stock.
func (t *StockTransfer) Pending() bool { return t.Status == TransferStatusPending }
