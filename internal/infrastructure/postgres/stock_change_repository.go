package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.StockChangeRepository = (*StockChangeRepo)(nil)

// StockChangeRepo implementación del libro mayor sobre PostgreSQL (usable con pool o tx).
// Las filas son inmutables: solo INSERT, lectura y la purga legacy.
type StockChangeRepo struct {
	q Querier
}

// NewStockChangeRepository construye el adaptador del libro. Pasar pool o tx (Querier).
func NewStockChangeRepository(q Querier) *StockChangeRepo {
	return &StockChangeRepo{q: q}
}

// Create persiste una entrada del libro. El índice único uq_changes_reference
// respalda la guarda apply-once de ExistsByReference.
func (r *StockChangeRepo) Create(change *entity.StockChange) error {
	query := `
		INSERT INTO stock_changes (id, company_id, product_id, location_id, batch_id, change, reason, reference, cost_price, supplier_id, is_credit, created_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	batchID := (*string)(nil)
	if change.BatchID != "" {
		batchID = &change.BatchID
	}
	supplierID := (*string)(nil)
	if change.SupplierID != "" {
		supplierID = &change.SupplierID
	}
	createdBy := (*string)(nil)
	if change.CreatedBy != "" {
		createdBy = &change.CreatedBy
	}
	_, err := r.q.Exec(context.Background(), query,
		change.ID, change.CompanyID, change.ProductID, change.LocationID, batchID,
		change.Change, change.Reason, change.Reference, change.CostPrice,
		supplierID, change.IsCredit, change.CreatedAt, createdBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert stock change: %w", err)
	}
	return nil
}

// ExistsByReference indica si ya existe alguna entrada con esa referencia en la
// empresa. Se consulta con la fila del producto bloqueada, así el replay de una
// operación es detectable antes de escribir nada.
func (r *StockChangeRepo) ExistsByReference(companyID, reference string) (bool, error) {
	var exists bool
	err := r.q.QueryRow(context.Background(),
		`SELECT EXISTS(SELECT 1 FROM stock_changes WHERE company_id = $1 AND reference = $2)`,
		companyID, reference,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("exists by reference: %w", err)
	}
	return exists, nil
}

// ListByProduct lista el libro del producto en una ventana, más reciente primero.
func (r *StockChangeRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockChange, error) {
	query := `
		SELECT id, company_id, product_id, location_id, batch_id, change, reason, reference, cost_price, supplier_id, is_credit, created_at, created_by
		FROM stock_changes
		WHERE product_id = $1
		  AND ($2::timestamptz IS NULL OR created_at >= $2)
		  AND ($3::timestamptz IS NULL OR created_at <= $3)
		ORDER BY created_at DESC, id DESC
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, productID, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock changes: %w", err)
	}
	defer rows.Close()
	return collectStockChanges(rows)
}

// ListAllByProduct devuelve el libro completo del producto en orden de aplicación
// (ascendente), para reconciliación y kardex.
func (r *StockChangeRepo) ListAllByProduct(productID string) ([]*entity.StockChange, error) {
	query := `
		SELECT id, company_id, product_id, location_id, batch_id, change, reason, reference, cost_price, supplier_id, is_credit, created_at, created_by
		FROM stock_changes WHERE product_id = $1 ORDER BY created_at ASC, id ASC`
	rows, err := r.q.Query(context.Background(), query, productID)
	if err != nil {
		return nil, fmt.Errorf("list all stock changes: %w", err)
	}
	defer rows.Close()
	return collectStockChanges(rows)
}

// DeleteLegacyBefore borra los cambios sin lote del producto anteriores al corte
// de migración. Única eliminación sancionada sobre el libro.
func (r *StockChangeRepo) DeleteLegacyBefore(companyID, productID string, cutover time.Time) (int64, error) {
	cmd, err := r.q.Exec(context.Background(),
		`DELETE FROM stock_changes
		 WHERE company_id = $1 AND product_id = $2 AND batch_id IS NULL AND created_at < $3`,
		companyID, productID, cutover,
	)
	if err != nil {
		return 0, fmt.Errorf("delete legacy changes: %w", err)
	}
	return cmd.RowsAffected(), nil
}

func collectStockChanges(rows pgx.Rows) ([]*entity.StockChange, error) {
	var list []*entity.StockChange
	for rows.Next() {
		var c entity.StockChange
		var batchID, supplierID, createdBy *string
		if err := rows.Scan(&c.ID, &c.CompanyID, &c.ProductID, &c.LocationID, &batchID,
			&c.Change, &c.Reason, &c.Reference, &c.CostPrice, &supplierID, &c.IsCredit,
			&c.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan stock change: %w", err)
		}
		if batchID != nil {
			c.BatchID = *batchID
		}
		if supplierID != nil {
			c.SupplierID = *supplierID
		}
		if createdBy != nil {
			c.CreatedBy = *createdBy
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}
