package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

// SaleRepo implementación de SaleRepository sobre PostgreSQL (usable con pool o tx).
// Cada línea guarda su variante de consumo: kind en la línea, capas en
// sale_consumptions solo cuando kind = tracked.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador de ventas. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create persiste la venta con líneas y detalle de consumo (transacción del caller).
func (r *SaleRepo) Create(sale *entity.Sale) error {
	ctx := context.Background()
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (id, company_id, location_id, number, total, total_cost, created_at, created_by)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sale.ID, sale.CompanyID, sale.LocationID, sale.Number,
		sale.Total, sale.TotalCost, sale.CreatedAt, nullIfEmpty(sale.CreatedBy),
	)
	if err != nil {
		return fmt.Errorf("insert sale: %w", err)
	}
	for _, item := range sale.Items {
		_, err := r.q.Exec(ctx,
			`INSERT INTO sale_items (id, sale_id, product_id, quantity, unit_price, subtotal, consumption_kind)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			item.ID, sale.ID, item.ProductID, item.Quantity, item.UnitPrice,
			item.Subtotal, item.Consumption.Kind,
		)
		if err != nil {
			return fmt.Errorf("insert sale item: %w", err)
		}
		for i, entry := range item.Consumption.Entries {
			_, err := r.q.Exec(ctx,
				`INSERT INTO sale_consumptions (sale_item_id, position, batch_id, quantity, cost_price)
				 VALUES ($1, $2, $3, $4, $5)`,
				item.ID, i, entry.BatchID, entry.Quantity, entry.CostPrice,
			)
			if err != nil {
				return fmt.Errorf("insert sale consumption: %w", err)
			}
		}
	}
	return nil
}

// GetByID obtiene la venta completa: cabecera, líneas y capas consumidas.
func (r *SaleRepo) GetByID(id string) (*entity.Sale, error) {
	ctx := context.Background()
	var sale entity.Sale
	var createdBy *string
	err := r.q.QueryRow(ctx,
		`SELECT id, company_id, location_id, number, total, total_cost, created_at, created_by
		 FROM sales WHERE id = $1`, id,
	).Scan(&sale.ID, &sale.CompanyID, &sale.LocationID, &sale.Number,
		&sale.Total, &sale.TotalCost, &sale.CreatedAt, &createdBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if createdBy != nil {
		sale.CreatedBy = *createdBy
	}

	rows, err := r.q.Query(ctx,
		`SELECT id, product_id, quantity, unit_price, subtotal, consumption_kind
		 FROM sale_items WHERE sale_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, fmt.Errorf("list sale items: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var item entity.SaleItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Quantity,
			&item.UnitPrice, &item.Subtotal, &item.Consumption.Kind); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		item.SaleID = sale.ID
		sale.Items = append(sale.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	entries, err := r.consumptionsBySale(ctx, id)
	if err != nil {
		return nil, err
	}
	for i := range sale.Items {
		sale.Items[i].Consumption.Entries = entries[sale.Items[i].ID]
	}
	return &sale, nil
}

// consumptionsBySale carga las capas consumidas de toda la venta agrupadas por línea.
func (r *SaleRepo) consumptionsBySale(ctx context.Context, saleID string) (map[string][]entity.ConsumptionEntry, error) {
	rows, err := r.q.Query(ctx,
		`SELECT sc.sale_item_id, sc.batch_id, sc.quantity, sc.cost_price
		 FROM sale_consumptions sc
		 JOIN sale_items si ON si.id = sc.sale_item_id
		 WHERE si.sale_id = $1
		 ORDER BY sc.sale_item_id, sc.position`, saleID)
	if err != nil {
		return nil, fmt.Errorf("list sale consumptions: %w", err)
	}
	defer rows.Close()
	entries := make(map[string][]entity.ConsumptionEntry)
	for rows.Next() {
		var itemID string
		var e entity.ConsumptionEntry
		if err := rows.Scan(&itemID, &e.BatchID, &e.Quantity, &e.CostPrice); err != nil {
			return nil, fmt.Errorf("scan sale consumption: %w", err)
		}
		entries[itemID] = append(entries[itemID], e)
	}
	return entries, rows.Err()
}

// ListByCompany lista cabeceras de venta, más recientes primero (sin líneas).
func (r *SaleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT id, company_id, location_id, number, total, total_cost, created_at, created_by
		 FROM sales WHERE company_id = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3`,
		companyID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	defer rows.Close()
	var list []*entity.Sale
	for rows.Next() {
		var sale entity.Sale
		var createdBy *string
		if err := rows.Scan(&sale.ID, &sale.CompanyID, &sale.LocationID, &sale.Number,
			&sale.Total, &sale.TotalCost, &sale.CreatedAt, &createdBy); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		if createdBy != nil {
			sale.CreatedBy = *createdBy
		}
		list = append(list, &sale)
	}
	return list, rows.Err()
}

// ListLineRefsByProduct devuelve la vista mínima de líneas de venta del producto
// para el analizador de reconciliación, en orden de venta.
func (r *SaleRepo) ListLineRefsByProduct(productID string) ([]inventory.SaleLineRef, error) {
	rows, err := r.q.Query(context.Background(),
		`SELECT si.sale_id, si.id, si.consumption_kind, s.created_at
		 FROM sale_items si
		 JOIN sales s ON s.id = si.sale_id
		 WHERE si.product_id = $1
		 ORDER BY s.created_at ASC`, productID)
	if err != nil {
		return nil, fmt.Errorf("list sale line refs: %w", err)
	}
	defer rows.Close()
	var refs []inventory.SaleLineRef
	for rows.Next() {
		var ref inventory.SaleLineRef
		if err := rows.Scan(&ref.SaleID, &ref.ItemID, &ref.Kind, &ref.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan sale line ref: %w", err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}
