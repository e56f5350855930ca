package repository

import "github.com/tu-usuario/kardex-pro/internal/domain/entity"

// UserRepository define el puerto de persistencia para usuarios (DIP).
// El email es único dentro de cada empresa (UNIQUE company_id+email).
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id string) (*entity.User, error)
	// GetByEmail busca en todas las empresas y devuelve la primera
	// coincidencia. Es la búsqueda del login, donde aún no hay tenant.
	GetByEmail(email string) (*entity.User, error)
	// GetByEmailAndCompany resuelve la unicidad por empresa en el registro.
	GetByEmailAndCompany(email, companyID string) (*entity.User, error)
	Update(user *entity.User) error
	ListByCompany(companyID string, limit, offset int) ([]*entity.User, error)
}
