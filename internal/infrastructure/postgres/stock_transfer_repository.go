package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.StockTransferRepository = (*StockTransferRepo)(nil)

// StockTransferRepo implementación de StockTransferRepository sobre PostgreSQL (usable con pool o tx).
type StockTransferRepo struct {
	q Querier
}

// NewStockTransferRepository construye el adaptador de transferencias. Pasar pool o tx (Querier).
func NewStockTransferRepository(q Querier) *StockTransferRepo {
	return &StockTransferRepo{q: q}
}

// Create persiste una transferencia nueva.
func (r *StockTransferRepo) Create(transfer *entity.StockTransfer) error {
	query := `
		INSERT INTO stock_transfers (id, company_id, transfer_type, product_id, quantity, source_location_id, destination_location_id, method_override, status, created_at, created_by, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	methodOverride := (*string)(nil)
	if transfer.MethodOverride != "" {
		methodOverride = &transfer.MethodOverride
	}
	_, err := r.q.Exec(context.Background(), query,
		transfer.ID, transfer.CompanyID, transfer.TransferType, transfer.ProductID,
		transfer.Quantity, transfer.SourceLocationID, transfer.DestinationLocationID,
		methodOverride, transfer.Status, transfer.CreatedAt, transfer.CreatedBy, transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert stock transfer: %w", err)
	}
	return nil
}

// GetByID obtiene una transferencia por ID.
func (r *StockTransferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	t, err := r.get(id, false)
	if err != nil {
		return nil, fmt.Errorf("get stock transfer: %w", err)
	}
	return t, nil
}

// GetByIDForUpdate bloquea la transferencia para una transición de estado serial.
func (r *StockTransferRepo) GetByIDForUpdate(id string) (*entity.StockTransfer, error) {
	t, err := r.get(id, true)
	if err != nil {
		return nil, fmt.Errorf("get stock transfer for update: %w", err)
	}
	return t, nil
}

func (r *StockTransferRepo) get(id string, forUpdate bool) (*entity.StockTransfer, error) {
	query := `
		SELECT id, company_id, transfer_type, product_id, quantity, source_location_id, destination_location_id, method_override, status, created_at, created_by, completed_at
		FROM stock_transfers WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var t entity.StockTransfer
	var methodOverride *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&t.ID, &t.CompanyID, &t.TransferType, &t.ProductID, &t.Quantity,
		&t.SourceLocationID, &t.DestinationLocationID, &methodOverride,
		&t.Status, &t.CreatedAt, &t.CreatedBy, &t.CompletedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if methodOverride != nil {
		t.MethodOverride = *methodOverride
	}
	return &t, nil
}

// UpdateStatus persiste la transición de estado (y completed_at si aplica).
func (r *StockTransferRepo) UpdateStatus(transfer *entity.StockTransfer) error {
	_, err := r.q.Exec(context.Background(),
		`UPDATE stock_transfers SET status = $2, completed_at = $3 WHERE id = $1`,
		transfer.ID, transfer.Status, transfer.CompletedAt,
	)
	if err != nil {
		return fmt.Errorf("update stock transfer status: %w", err)
	}
	return nil
}

// ListByCompany lista transferencias por empresa, opcionalmente por estado.
func (r *StockTransferRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockTransfer, error) {
	query := `
		SELECT id, company_id, transfer_type, product_id, quantity, source_location_id, destination_location_id, method_override, status, created_at, created_by, completed_at
		FROM stock_transfers
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list stock transfers: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockTransfer
	for rows.Next() {
		var t entity.StockTransfer
		var methodOverride *string
		if err := rows.Scan(&t.ID, &t.CompanyID, &t.TransferType, &t.ProductID, &t.Quantity,
			&t.SourceLocationID, &t.DestinationLocationID, &methodOverride,
			&t.Status, &t.CreatedAt, &t.CreatedBy, &t.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan stock transfer: %w", err)
		}
		if methodOverride != nil {
			t.MethodOverride = *methodOverride
		}
		list = append(list, &t)
	}
	return list, rows.Err()
}
