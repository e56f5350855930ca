package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.ReplenishmentRepository = (*ReplenishmentRepo)(nil)

// ReplenishmentRepo implementación de ReplenishmentRepository sobre PostgreSQL (usable con pool o tx).
type ReplenishmentRepo struct {
	q Querier
}

// NewReplenishmentRepository construye el adaptador de solicitudes. Pasar pool o tx (Querier).
func NewReplenishmentRepository(q Querier) *ReplenishmentRepo {
	return &ReplenishmentRepo{q: q}
}

// Create persiste una solicitud nueva.
func (r *ReplenishmentRepo) Create(request *entity.StockReplenishmentRequest) error {
	query := `
		INSERT INTO replenishment_requests (id, company_id, shop_id, product_id, quantity, status, transfer_id, rejection_reason, created_at, created_by, fulfilled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	transferID := (*string)(nil)
	if request.TransferID != "" {
		transferID = &request.TransferID
	}
	_, err := r.q.Exec(context.Background(), query,
		request.ID, request.CompanyID, request.ShopID, request.ProductID,
		request.Quantity, request.Status, transferID, request.RejectionReason,
		request.CreatedAt, request.CreatedBy, request.FulfilledAt,
	)
	if err != nil {
		return fmt.Errorf("insert replenishment request: %w", err)
	}
	return nil
}

// GetByID obtiene una solicitud por ID.
func (r *ReplenishmentRepo) GetByID(id string) (*entity.StockReplenishmentRequest, error) {
	req, err := r.get(id, false)
	if err != nil {
		return nil, fmt.Errorf("get replenishment request: %w", err)
	}
	return req, nil
}

// GetByIDForUpdate bloquea la solicitud durante una transición de estado.
func (r *ReplenishmentRepo) GetByIDForUpdate(id string) (*entity.StockReplenishmentRequest, error) {
	req, err := r.get(id, true)
	if err != nil {
		return nil, fmt.Errorf("get replenishment request for update: %w", err)
	}
	return req, nil
}

func (r *ReplenishmentRepo) get(id string, forUpdate bool) (*entity.StockReplenishmentRequest, error) {
	query := `
		SELECT id, company_id, shop_id, product_id, quantity, status, transfer_id, rejection_reason, created_at, created_by, fulfilled_at
		FROM replenishment_requests WHERE id = $1`
	if forUpdate {
		query += " FOR UPDATE"
	}
	var req entity.StockReplenishmentRequest
	var transferID *string
	err := r.q.QueryRow(context.Background(), query, id).Scan(
		&req.ID, &req.CompanyID, &req.ShopID, &req.ProductID, &req.Quantity,
		&req.Status, &transferID, &req.RejectionReason, &req.CreatedAt,
		&req.CreatedBy, &req.FulfilledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if transferID != nil {
		req.TransferID = *transferID
	}
	return &req, nil
}

// UpdateStatus persiste la transición (estado, transferencia enlazada, motivo, fulfilled_at).
func (r *ReplenishmentRepo) UpdateStatus(request *entity.StockReplenishmentRequest) error {
	transferID := (*string)(nil)
	if request.TransferID != "" {
		transferID = &request.TransferID
	}
	_, err := r.q.Exec(context.Background(),
		`UPDATE replenishment_requests
		 SET status = $2, transfer_id = $3, rejection_reason = $4, fulfilled_at = $5
		 WHERE id = $1`,
		request.ID, request.Status, transferID, request.RejectionReason, request.FulfilledAt,
	)
	if err != nil {
		return fmt.Errorf("update replenishment status: %w", err)
	}
	return nil
}

// ListByCompany lista solicitudes por empresa, opcionalmente por estado.
func (r *ReplenishmentRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockReplenishmentRequest, error) {
	query := `
		SELECT id, company_id, shop_id, product_id, quantity, status, transfer_id, rejection_reason, created_at, created_by, fulfilled_at
		FROM replenishment_requests
		WHERE company_id = $1 AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(context.Background(), query, companyID, status, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list replenishment requests: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockReplenishmentRequest
	for rows.Next() {
		var req entity.StockReplenishmentRequest
		var transferID *string
		if err := rows.Scan(&req.ID, &req.CompanyID, &req.ShopID, &req.ProductID, &req.Quantity,
			&req.Status, &transferID, &req.RejectionReason, &req.CreatedAt,
			&req.CreatedBy, &req.FulfilledAt); err != nil {
			return nil, fmt.Errorf("scan replenishment request: %w", err)
		}
		if transferID != nil {
			req.TransferID = *transferID
		}
		list = append(list, &req)
	}
	return list, rows.Err()
}
