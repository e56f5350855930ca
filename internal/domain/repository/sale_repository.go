package repository

import (
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/inventory"
)

// SaleRepository define el puerto de persistencia para Sale y sus líneas (DIP).
// Create persiste venta, líneas y detalles de consumo en la transacción del caller.
type SaleRepository interface {
	Create(sale *entity.Sale) error
	GetByID(id string) (*entity.Sale, error)
	ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error)
	// ListLineRefsByProduct devuelve la vista mínima de líneas de venta del producto
	// que necesita el analizador de reconciliación.
	ListLineRefsByProduct(productID string) ([]inventory.SaleLineRef, error)
}
