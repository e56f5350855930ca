package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una solicitud de reposición.
const (
	ReplenishmentStatusPending   = "pending"
	ReplenishmentStatusApproved  = "approved"
	ReplenishmentStatusRejected  = "rejected"
	ReplenishmentStatusFulfilled = "fulfilled"
)

// StockReplenishmentRequest es la solicitud de una tienda para recibir stock.
// pending → approved → fulfilled; pending → rejected (final, con motivo).
// approve es solo una puerta de autorización: no mueve stock; fulfill liga la
// solicitud a una transferencia que sí lo mueve.
type StockReplenishmentRequest struct {
	ID              string
	CompanyID       string
	ShopID          string // ubicación destino (kind shop)
	ProductID       string
	Quantity        decimal.Decimal
	Status          string // pending | approved | rejected | fulfilled
	TransferID      string // vacío hasta fulfill
	RejectionReason string // solo en rejected
	CreatedAt       time.Time
	CreatedBy       string
	FulfilledAt     *time.Time
}

// CanTransitionTo valida la máquina de estados de la solicitud.
func (r *StockReplenishmentRequest) CanTransitionTo(next string) bool {
	switch r.Status {
	case ReplenishmentStatusPending:
		return next == ReplenishmentStatusApproved || next == ReplenishmentStatusRejected
	case ReplenishmentStatusApproved:
		return next == ReplenishmentStatusFulfilled
	}
	return false
}
