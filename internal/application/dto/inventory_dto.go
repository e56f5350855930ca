package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateBatchRequest body para POST /api/inventory/batches (reposición).
type CreateBatchRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	LocationID string          `json:"location_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"`
	CostPrice  decimal.Decimal `json:"cost_price"`
	SupplierID string          `json:"supplier_id,omitempty"`
	IsCredit   bool            `json:"is_credit"`
	Reference  string          `json:"reference,omitempty"` // vacío = se genera una
}

// BatchResponse salida de un lote.
type BatchResponse struct {
	ID                string          `json:"id"`
	ProductID         string          `json:"product_id"`
	LocationID        string          `json:"location_id"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
	CostPrice         decimal.Decimal `json:"cost_price"`
	SupplierID        string          `json:"supplier_id,omitempty"`
	IsCredit          bool            `json:"is_credit"`
	Status            string          `json:"status"`
	CreatedAt         time.Time       `json:"created_at"`
}

// AllocateConsumptionRequest body para POST /api/inventory/consumption/allocate (dry-run).
type AllocateConsumptionRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	LocationID string          `json:"location_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"`
	Method     string          `json:"method,omitempty" validate:"omitempty,oneof=FIFO LIFO"` // vacío = método del producto
}

// PlanLineResponse una capa del plan de consumo.
type PlanLineResponse struct {
	BatchID  string          `json:"batch_id"`
	Quantity decimal.Decimal `json:"quantity"`
	UnitCost decimal.Decimal `json:"unit_cost"`
}

// ConsumptionPlanResponse plan de consumo calculado (sin aplicar).
type ConsumptionPlanResponse struct {
	ProductID  string             `json:"product_id"`
	LocationID string             `json:"location_id"`
	Method     string             `json:"method"`
	Requested  decimal.Decimal    `json:"requested"`
	Lines      []PlanLineResponse `json:"lines"`
	TotalCost  decimal.Decimal    `json:"total_cost"`
}

// ConsumeStockRequest body para POST /api/inventory/consumption (retiro real).
type ConsumeStockRequest struct {
	ProductID  string          `json:"product_id" validate:"required,uuid"`
	LocationID string          `json:"location_id" validate:"required,uuid"`
	Quantity   decimal.Decimal `json:"quantity"`
	Reason     string          `json:"reason" validate:"required,oneof=sale damage adjustment"`
	Reference  string          `json:"reference,omitempty"` // apply-once: reusar la misma = no-op
}

// StockChangeResponse una entrada del libro mayor.
type StockChangeResponse struct {
	ID         string           `json:"id"`
	ProductID  string           `json:"product_id"`
	LocationID string           `json:"location_id"`
	BatchID    string           `json:"batch_id,omitempty"`
	Change     decimal.Decimal  `json:"change"`
	Reason     string           `json:"reason"`
	Reference  string           `json:"reference"`
	CostPrice  *decimal.Decimal `json:"cost_price,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// ConsumeStockResponse resultado de un retiro aplicado.
type ConsumeStockResponse struct {
	Replayed  bool                     `json:"replayed"` // true si la referencia ya estaba aplicada
	Plan      *ConsumptionPlanResponse `json:"plan,omitempty"`
	Changes   []StockChangeResponse    `json:"changes"`
	TotalCost decimal.Decimal          `json:"total_cost"`
}

// KardexRowResponse una fila del kardex con saldo corrido.
type KardexRowResponse struct {
	Date      time.Time        `json:"date"`
	Reason    string           `json:"reason"`
	Reference string           `json:"reference"`
	BatchID   string           `json:"batch_id,omitempty"`
	In        decimal.Decimal  `json:"in"`
	Out       decimal.Decimal  `json:"out"`
	Balance   decimal.Decimal  `json:"balance"`
	CostPrice *decimal.Decimal `json:"cost_price,omitempty"`
}

// KardexResponse historial de movimientos de un producto.
type KardexResponse struct {
	ProductID   string              `json:"product_id"`
	ProductName string              `json:"product_name"`
	Rows        []KardexRowResponse `json:"rows"`
	Balance     decimal.Decimal     `json:"balance"`
}

// FindingResponse un hallazgo del analizador de consistencia.
type FindingResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// ReconciliationStatsResponse números crudos del análisis.
type ReconciliationStatsResponse struct {
	ActiveBatches       int             `json:"active_batches"`
	BatchRemainingSum   decimal.Decimal `json:"batch_remaining_sum"`
	ProductStock        decimal.Decimal `json:"product_stock"`
	TotalChanges        int             `json:"total_changes"`
	ChangesWithoutBatch int             `json:"changes_without_batch"`
	OrphanChanges       int             `json:"orphan_changes"`
	LegacySaleLines     int             `json:"legacy_sale_lines"`
}

// ReconciliationResponse resultado del análisis de consistencia de un producto.
type ReconciliationResponse struct {
	ProductID  string                      `json:"product_id"`
	AnalyzedAt time.Time                   `json:"analyzed_at"`
	Clean      bool                        `json:"clean"`
	Issues     []FindingResponse           `json:"issues"`
	Warnings   []FindingResponse           `json:"warnings"`
	Stats      ReconciliationStatsResponse `json:"stats"`
}

// PurgeLegacyResponse resultado de la purga administrativa de cambios legacy.
type PurgeLegacyResponse struct {
	ProductID string    `json:"product_id"`
	Deleted   int64     `json:"deleted"`
	Cutover   time.Time `json:"cutover"`
}
