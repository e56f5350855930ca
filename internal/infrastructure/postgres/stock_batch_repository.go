package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.StockBatchRepository = (*StockBatchRepo)(nil)

// StockBatchRepo implementación del almacén de lotes sobre PostgreSQL (usable con pool o tx).
type StockBatchRepo struct {
	q Querier
}

// NewStockBatchRepository construye el adaptador de lotes. Pasar pool o tx (Querier).
func NewStockBatchRepository(q Querier) *StockBatchRepo {
	return &StockBatchRepo{q: q}
}

// Create persiste un lote nuevo.
func (r *StockBatchRepo) Create(batch *entity.StockBatch) error {
	query := `
		INSERT INTO stock_batches (id, company_id, product_id, location_id, quantity, remaining_quantity, cost_price, supplier_id, is_credit, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	supplierID := (*string)(nil)
	if batch.SupplierID != "" {
		supplierID = &batch.SupplierID
	}
	_, err := r.q.Exec(context.Background(), query,
		batch.ID, batch.CompanyID, batch.ProductID, batch.LocationID,
		batch.Quantity, batch.RemainingQuantity, batch.CostPrice,
		supplierID, batch.IsCredit, batch.Status, batch.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock batch: %w", err)
	}
	return nil
}

// GetByID obtiene un lote por ID.
func (r *StockBatchRepo) GetByID(id string) (*entity.StockBatch, error) {
	query := `
		SELECT id, company_id, product_id, location_id, quantity, remaining_quantity, cost_price, supplier_id, is_credit, status, created_at
		FROM stock_batches WHERE id = $1`
	b, err := scanStockBatch(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		return nil, fmt.Errorf("get stock batch: %w", err)
	}
	return b, nil
}

// ListActiveOrdered devuelve los lotes consumibles ya ordenados por el método:
// FIFO = capa más antigua primero, LIFO = más reciente primero; empates de
// created_at se resuelven por id en la misma dirección.
func (r *StockBatchRepo) ListActiveOrdered(productID, locationID, method string) ([]*entity.StockBatch, error) {
	order := "created_at ASC, id ASC"
	if method == entity.MethodLIFO {
		order = "created_at DESC, id DESC"
	}
	query := `
		SELECT id, company_id, product_id, location_id, quantity, remaining_quantity, cost_price, supplier_id, is_credit, status, created_at
		FROM stock_batches
		WHERE product_id = $1 AND location_id = $2 AND status = $3 AND remaining_quantity > 0
		ORDER BY ` + order
	rows, err := r.q.Query(context.Background(), query, productID, locationID, entity.BatchStatusActive)
	if err != nil {
		return nil, fmt.Errorf("list active batches: %w", err)
	}
	defer rows.Close()
	return collectStockBatches(rows)
}

// ListByProduct devuelve todos los lotes del producto, cualquier estado y ubicación.
func (r *StockBatchRepo) ListByProduct(productID string) ([]*entity.StockBatch, error) {
	query := `
		SELECT id, company_id, product_id, location_id, quantity, remaining_quantity, cost_price, supplier_id, is_credit, status, created_at
		FROM stock_batches WHERE product_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list batches by product: %w", err)
	}
	defer rows.Close()
	return collectStockBatches(rows)
}

// ApplyDelta suma delta (firmado) al remanente. La condición remaining + delta >= 0
// vive en el propio UPDATE: si no afecta filas se distingue entre lote inexistente
// y remanente insuficiente releyendo el lote.
func (r *StockBatchRepo) ApplyDelta(batchID string, delta decimal.Decimal) error {
	cmd, err := r.q.Exec(context.Background(),
		`UPDATE stock_batches
		 SET remaining_quantity = remaining_quantity + $2
		 WHERE id = $1 AND remaining_quantity + $2 >= 0`,
		batchID, delta,
	)
	if err != nil {
		return fmt.Errorf("apply batch delta: %w", err)
	}
	if cmd.RowsAffected() > 0 {
		return nil
	}
	batch, err := r.GetByID(batchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.ErrNotFound
	}
	return &domain.InsufficientBatchQuantityError{
		BatchID:   batchID,
		Remaining: batch.RemainingQuantity,
		Delta:     delta,
	}
}

// MarkDepletedIfZero pasa el lote a depleted solo si su remanente es exactamente cero.
func (r *StockBatchRepo) MarkDepletedIfZero(batchID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_batches SET status = $2 WHERE id = $1 AND status = $3 AND remaining_quantity = 0`,
		batchID, entity.BatchStatusDepleted, entity.BatchStatusActive,
	)
	if err != nil {
		return fmt.Errorf("mark batch depleted: %w", err)
	}
	return nil
}

// MarkCorrected anula un lote activo por corrección administrativa. El remanente
// queda en cero; el lote sobrevive como registro histórico.
func (r *StockBatchRepo) MarkCorrected(batchID string) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_batches SET status = $2, remaining_quantity = 0 WHERE id = $1 AND status = $3`,
		batchID, entity.BatchStatusCorrected, entity.BatchStatusActive,
	)
	if err != nil {
		return fmt.Errorf("mark batch corrected: %w", err)
	}
	return nil
}

func scanStockBatch(row pgx.Row) (*entity.StockBatch, error) {
	var b entity.StockBatch
	var supplierID *string
	err := row.Scan(
		&b.ID, &b.CompanyID, &b.ProductID, &b.LocationID, &b.Quantity,
		&b.RemainingQuantity, &b.CostPrice, &supplierID, &b.IsCredit, &b.Status, &b.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if supplierID != nil {
		b.SupplierID = *supplierID
	}
	return &b, nil
}

func collectStockBatches(rows pgx.Rows) ([]*entity.StockBatch, error) {
	var list []*entity.StockBatch
	for rows.Next() {
		var b entity.StockBatch
		var supplierID *string
		if err := rows.Scan(&b.ID, &b.CompanyID, &b.ProductID, &b.LocationID, &b.Quantity,
			&b.RemainingQuantity, &b.CostPrice, &supplierID, &b.IsCredit, &b.Status, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan stock batch: %w", err)
		}
		if supplierID != nil {
			b.SupplierID = *supplierID
		}
		list = append(list, &b)
	}
	return list, rows.Err()
}
