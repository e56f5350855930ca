package repository

import (
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// StockBatchRepository define el puerto del almacén de lotes por capas de costo (DIP).
// Los lotes nunca se borran; las mutaciones pasan por ApplyDelta/MarkDepletedIfZero
// dentro de una transacción con la fila del producto bloqueada.
type StockBatchRepository interface {
	Create(batch *entity.StockBatch) error
	GetByID(id string) (*entity.StockBatch, error)
	// ListActiveOrdered devuelve los lotes activos del producto en la ubicación,
	// ya ordenados para consumo: FIFO = created_at ASC (empates por id), LIFO = DESC.
	ListActiveOrdered(productID, locationID, method string) ([]*entity.StockBatch, error)
	// ListByProduct devuelve todos los lotes del producto (cualquier estado y ubicación),
	// para snapshots de reconciliación y kardex.
	ListByProduct(productID string) ([]*entity.StockBatch, error)
	// ApplyDelta suma delta (firmado) al remanente del lote. Falla con
	// InsufficientBatchQuantityError si el resultado quedaría negativo.
	ApplyDelta(batchID string, delta decimal.Decimal) error
	// MarkDepletedIfZero pasa el lote a depleted solo si su remanente es exactamente cero.
	MarkDepletedIfZero(batchID string) error
	// MarkCorrected anula un lote activo por corrección administrativa.
	MarkCorrected(batchID string) error
}
