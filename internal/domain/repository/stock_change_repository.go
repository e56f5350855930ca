package repository

import (
	"time"

	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// StockChangeRepository define el puerto del libro mayor de cambios de stock (DIP).
// Las entradas son inmutables; el único borrado es la purga administrativa de
// cambios legacy (sin lote, anteriores al corte de migración).
type StockChangeRepository interface {
	Create(change *entity.StockChange) error
	// ExistsByReference indica si ya se aplicó una operación con esa referencia
	// (guarda apply-once; se consulta con la fila del producto ya bloqueada).
	ExistsByReference(companyID, reference string) (bool, error)
	ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockChange, error)
	// ListAllByProduct devuelve el libro completo del producto para reconciliación.
	ListAllByProduct(productID string) ([]*entity.StockChange, error)
	// DeleteLegacyBefore borra los cambios sin lote del producto anteriores a cutover.
	// Devuelve cuántas filas eliminó.
	DeleteLegacyBefore(companyID, productID string, cutover time.Time) (int64, error)
}
