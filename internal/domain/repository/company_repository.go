package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para empresas (DIP).
// No hay Delete: una empresa con historial de inventario no se elimina,
// se suspende cambiando su status.
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	// GetByNIT resuelve el tenant por su identificador tributario.
	GetByNIT(nit string) (*entity.Company, error)
	Update(company *entity.Company) error
	List(limit, offset int) ([]*entity.Company, error)
}
