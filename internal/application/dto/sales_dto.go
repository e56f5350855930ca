package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleItemRequest una línea de venta.
type SaleItemRequest struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest body para POST /api/sales.
type CreateSaleRequest struct {
	LocationID string            `json:"location_id" validate:"required,uuid"`
	Items      []SaleItemRequest `json:"items" validate:"required,min=1"`
}

// ConsumptionEntryResponse una capa consumida por una línea de venta.
type ConsumptionEntryResponse struct {
	BatchID   string          `json:"batch_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	CostPrice decimal.Decimal `json:"cost_price"`
}

// SaleItemResponse una línea de venta con su detalle de consumo etiquetado.
type SaleItemResponse struct {
	ID          string                     `json:"id"`
	ProductID   string                     `json:"product_id"`
	Quantity    decimal.Decimal            `json:"quantity"`
	UnitPrice   decimal.Decimal            `json:"unit_price"`
	Subtotal    decimal.Decimal            `json:"subtotal"`
	Consumption string                     `json:"consumption"` // tracked | legacy
	Entries     []ConsumptionEntryResponse `json:"entries,omitempty"`
}

// SaleResponse salida de una venta con costo y utilidad derivados de capas.
type SaleResponse struct {
	ID         string             `json:"id"`
	LocationID string             `json:"location_id"`
	Number     string             `json:"number"`
	Total      decimal.Decimal    `json:"total"`
	TotalCost  decimal.Decimal    `json:"total_cost"`
	Profit     decimal.Decimal    `json:"profit"`
	CreatedAt  time.Time          `json:"created_at"`
	Items      []SaleItemResponse `json:"items"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
