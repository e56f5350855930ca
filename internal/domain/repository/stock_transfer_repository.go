package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// StockTransferRepository define el puerto de persistencia para StockTransfer (DIP).
type StockTransferRepository interface {
	Create(transfer *entity.StockTransfer) error
	GetByID(id string) (*entity.StockTransfer, error)
	// GetByIDForUpdate bloquea la transferencia para que la transición de estado
	// sea serial frente a completar/cancelar concurrentes.
	GetByIDForUpdate(id string) (*entity.StockTransfer, error)
	UpdateStatus(transfer *entity.StockTransfer) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockTransfer, error)
}
