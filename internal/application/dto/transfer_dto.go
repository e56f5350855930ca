package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateTransferRequest body para POST /api/transfers.
type CreateTransferRequest struct {
	ProductID             string          `json:"product_id" validate:"required,uuid"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      string          `json:"source_location_id" validate:"required,uuid"`
	DestinationLocationID string          `json:"destination_location_id" validate:"required,uuid"`
	MethodOverride        string          `json:"method_override,omitempty" validate:"omitempty,oneof=FIFO LIFO"`
	CompleteNow           bool            `json:"complete_now"` // transferencia síncrona: crear y completar en un paso
}

// TransferResponse salida de una transferencia.
type TransferResponse struct {
	ID                    string          `json:"id"`
	TransferType          string          `json:"transfer_type"`
	ProductID             string          `json:"product_id"`
	Quantity              decimal.Decimal `json:"quantity"`
	SourceLocationID      string          `json:"source_location_id"`
	DestinationLocationID string          `json:"destination_location_id"`
	MethodOverride        string          `json:"method_override,omitempty"`
	Status                string          `json:"status"`
	CreatedAt             time.Time       `json:"created_at"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
}

// TransferListResponse lista paginada de transferencias.
type TransferListResponse struct {
	Items []TransferResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CompleteTransferResponse resultado de completar: lotes destino creados por capa.
type CompleteTransferResponse struct {
	Transfer           TransferResponse `json:"transfer"`
	DestinationBatches []BatchResponse  `json:"destination_batches"`
	TotalCost          decimal.Decimal  `json:"total_cost"`
}

// CreateReplenishmentRequest body para POST /api/replenishments.
type CreateReplenishmentRequest struct {
	ShopID    string          `json:"shop_id" validate:"required,uuid"`
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity"`
}

// RejectReplenishmentRequest body para POST /api/replenishments/:id/reject.
type RejectReplenishmentRequest struct {
	Reason string `json:"reason" validate:"required,min=1,max=500"`
}

// FulfillReplenishmentRequest body para POST /api/replenishments/:id/fulfill.
type FulfillReplenishmentRequest struct {
	TransferID string `json:"transfer_id" validate:"required,uuid"`
}

// ReplenishmentResponse salida de una solicitud de reposición.
type ReplenishmentResponse struct {
	ID              string          `json:"id"`
	ShopID          string          `json:"shop_id"`
	ProductID       string          `json:"product_id"`
	Quantity        decimal.Decimal `json:"quantity"`
	Status          string          `json:"status"`
	TransferID      string          `json:"transfer_id,omitempty"`
	RejectionReason string          `json:"rejection_reason,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	FulfilledAt     *time.Time      `json:"fulfilled_at,omitempty"`
}

// ReplenishmentListResponse lista paginada de solicitudes.
type ReplenishmentListResponse struct {
	Items []ReplenishmentResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
