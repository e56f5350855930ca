package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// ReplenishmentRepository define el puerto de persistencia para StockReplenishmentRequest (DIP).
type ReplenishmentRepository interface {
	Create(request *entity.StockReplenishmentRequest) error
	GetByID(id string) (*entity.StockReplenishmentRequest, error)
	// GetByIDForUpdate bloquea la solicitud durante una transición de estado.
	GetByIDForUpdate(id string) (*entity.StockReplenishmentRequest, error)
	UpdateStatus(request *entity.StockReplenishmentRequest) error
	ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockReplenishmentRequest, error)
}
