package inventory

import (
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

// Guardas de tenencia compartidas por los casos de uso de inventario. Son
// lecturas fuera de transacción: las validaciones definitivas corren dentro
// de la transacción con la fila del producto bloqueada.

func ownedProduct(repo repository.ProductRepository, companyID, productID string) (*entity.Product, error) {
	product, err := repo.GetByID(productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return product, nil
}

func ownedLocation(repo repository.LocationRepository, companyID, locationID string) (*entity.Location, error) {
	location, err := repo.GetByID(locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if location.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return location, nil
}

func ownedSupplier(repo repository.SupplierRepository, companyID, supplierID string) (*entity.Supplier, error) {
	supplier, err := repo.GetByID(supplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if supplier.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return supplier, nil
}
