package inventory_test

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	inventory "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	dominv "github.com/tu-usuario/kardex-pro/internal/domain/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

var (
	_ repository.ProductRepository       = productRepo{}
	_ repository.LocationRepository      = locationRepo{}
	_ repository.SupplierRepository      = supplierRepo{}
	_ repository.StockBatchRepository    = batchRepo{}
	_ repository.StockChangeRepository   = changeRepo{}
	_ repository.StockTransferRepository = transferRepo{}
	_ repository.ReplenishmentRepository = replenishmentRepo{}
	_ repository.SaleRepository          = saleRepo{}
	_ inventory.TxRunner                 = memTxRunner{}
)

// Fakes en memoria de los puertos de persistencia. El runner de transacciones
// imita BEGIN/ROLLBACK con un snapshot del almacén: si fn devuelve error el
// estado vuelve exacto al inicio, igual que con la transacción real. Esto deja
// verificable el contrato todo-o-nada del motor sin levantar Postgres.

type memStore struct {
	products       map[string]*entity.Product
	locations      map[string]*entity.Location
	suppliers      map[string]*entity.Supplier
	batches        map[string]*entity.StockBatch
	changes        []*entity.StockChange
	transfers      map[string]*entity.StockTransfer
	replenishments map[string]*entity.StockReplenishmentRequest
	sales          map[string]*entity.Sale
}

func newMemStore() *memStore {
	return &memStore{
		products:       map[string]*entity.Product{},
		locations:      map[string]*entity.Location{},
		suppliers:      map[string]*entity.Supplier{},
		batches:        map[string]*entity.StockBatch{},
		transfers:      map[string]*entity.StockTransfer{},
		replenishments: map[string]*entity.StockReplenishmentRequest{},
		sales:          map[string]*entity.Sale{},
	}
}

func (s *memStore) repos() inventory.TxRepos {
	return inventory.TxRepos{
		Products:       productRepo{s},
		Batches:        batchRepo{s},
		Changes:        changeRepo{s},
		Transfers:      transferRepo{s},
		Replenishments: replenishmentRepo{s},
		Sales:          saleRepo{s},
	}
}

func (s *memStore) snapshot() *memStore {
	cp := newMemStore()
	for id, p := range s.products {
		cp.products[id] = cloneProduct(p)
	}
	for id, l := range s.locations {
		v := *l
		cp.locations[id] = &v
	}
	for id, sp := range s.suppliers {
		v := *sp
		cp.suppliers[id] = &v
	}
	for id, b := range s.batches {
		cp.batches[id] = cloneBatch(b)
	}
	for _, c := range s.changes {
		cp.changes = append(cp.changes, cloneChange(c))
	}
	for id, t := range s.transfers {
		cp.transfers[id] = cloneTransfer(t)
	}
	for id, r := range s.replenishments {
		cp.replenishments[id] = cloneRequest(r)
	}
	for id, sale := range s.sales {
		cp.sales[id] = cloneSale(sale)
	}
	return cp
}

func (s *memStore) restore(from *memStore) {
	s.products = from.products
	s.locations = from.locations
	s.suppliers = from.suppliers
	s.batches = from.batches
	s.changes = from.changes
	s.transfers = from.transfers
	s.replenishments = from.replenishments
	s.sales = from.sales
}

// memTxRunner: todo-o-nada sobre el almacén en memoria.
type memTxRunner struct{ s *memStore }

func (r memTxRunner) Run(_ context.Context, fn func(inventory.TxRepos) error) error {
	backup := r.s.snapshot()
	if err := fn(r.s.repos()); err != nil {
		r.s.restore(backup)
		return err
	}
	return nil
}

// ── productos ─────────────────────────────────────────────────────────────────

type productRepo struct{ s *memStore }

func (r productRepo) Create(p *entity.Product) error {
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) GetByID(id string) (*entity.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, nil
	}
	return cloneProduct(p), nil
}

func (r productRepo) GetByIDForUpdate(id string) (*entity.Product, error) { return r.GetByID(id) }

func (r productRepo) GetByCompanyAndSKU(companyID, sku string) (*entity.Product, error) {
	for _, p := range r.s.products {
		if p.CompanyID == companyID && p.SKU == sku {
			return cloneProduct(p), nil
		}
	}
	return nil, nil
}

func (r productRepo) Update(p *entity.Product) error {
	r.s.products[p.ID] = cloneProduct(p)
	return nil
}

func (r productRepo) UpdateStock(productID string, delta decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Stock = p.Stock.Add(delta)
	return nil
}

func (r productRepo) UpdateCost(productID string, cost decimal.Decimal) error {
	p, ok := r.s.products[productID]
	if !ok {
		return domain.ErrNotFound
	}
	p.Cost = cost
	return nil
}

func (r productRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Product, error) {
	var out []*entity.Product
	for _, p := range r.s.products {
		if p.CompanyID == companyID {
			out = append(out, cloneProduct(p))
		}
	}
	return out, nil
}

func (r productRepo) Delete(id string) error {
	delete(r.s.products, id)
	return nil
}

// ── ubicaciones y proveedores ─────────────────────────────────────────────────

type locationRepo struct{ s *memStore }

func (r locationRepo) Create(l *entity.Location) error {
	v := *l
	r.s.locations[l.ID] = &v
	return nil
}

func (r locationRepo) GetByID(id string) (*entity.Location, error) {
	l, ok := r.s.locations[id]
	if !ok {
		return nil, nil
	}
	v := *l
	return &v, nil
}

func (r locationRepo) Update(l *entity.Location) error {
	v := *l
	r.s.locations[l.ID] = &v
	return nil
}

func (r locationRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Location, error) {
	var out []*entity.Location
	for _, l := range r.s.locations {
		if l.CompanyID == companyID {
			v := *l
			out = append(out, &v)
		}
	}
	return out, nil
}

func (r locationRepo) Delete(id string) error {
	delete(r.s.locations, id)
	return nil
}

type supplierRepo struct{ s *memStore }

func (r supplierRepo) Create(sp *entity.Supplier) error {
	v := *sp
	r.s.suppliers[sp.ID] = &v
	return nil
}

func (r supplierRepo) GetByID(id string) (*entity.Supplier, error) {
	sp, ok := r.s.suppliers[id]
	if !ok {
		return nil, nil
	}
	v := *sp
	return &v, nil
}

func (r supplierRepo) Update(sp *entity.Supplier) error {
	v := *sp
	r.s.suppliers[sp.ID] = &v
	return nil
}

func (r supplierRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	for _, sp := range r.s.suppliers {
		if sp.CompanyID == companyID {
			v := *sp
			out = append(out, &v)
		}
	}
	return out, nil
}

// ── lotes ─────────────────────────────────────────────────────────────────────

type batchRepo struct{ s *memStore }

func (r batchRepo) Create(b *entity.StockBatch) error {
	r.s.batches[b.ID] = cloneBatch(b)
	return nil
}

func (r batchRepo) GetByID(id string) (*entity.StockBatch, error) {
	b, ok := r.s.batches[id]
	if !ok {
		return nil, nil
	}
	return cloneBatch(b), nil
}

func (r batchRepo) ListActiveOrdered(productID, locationID, method string) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID && b.LocationID == locationID &&
			b.Active() && b.RemainingQuantity.IsPositive() {
			out = append(out, cloneBatch(b))
		}
	}
	return dominv.OrderBatches(out, method), nil
}

func (r batchRepo) ListByProduct(productID string) ([]*entity.StockBatch, error) {
	var out []*entity.StockBatch
	for _, b := range r.s.batches {
		if b.ProductID == productID {
			out = append(out, cloneBatch(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r batchRepo) ApplyDelta(batchID string, delta decimal.Decimal) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	next := b.RemainingQuantity.Add(delta)
	if next.IsNegative() {
		return &domain.InsufficientBatchQuantityError{
			BatchID: batchID, Remaining: b.RemainingQuantity, Delta: delta,
		}
	}
	b.RemainingQuantity = next
	return nil
}

func (r batchRepo) MarkDepletedIfZero(batchID string) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status == entity.BatchStatusActive && b.RemainingQuantity.IsZero() {
		b.Status = entity.BatchStatusDepleted
	}
	return nil
}

func (r batchRepo) MarkCorrected(batchID string) error {
	b, ok := r.s.batches[batchID]
	if !ok {
		return domain.ErrNotFound
	}
	if b.Status == entity.BatchStatusActive {
		b.Status = entity.BatchStatusCorrected
		b.RemainingQuantity = decimal.Zero
	}
	return nil
}

// ── libro mayor ───────────────────────────────────────────────────────────────

type changeRepo struct{ s *memStore }

// Create imita el índice único (company, reference, reason, lote) de la tabla real.
func (r changeRepo) Create(ch *entity.StockChange) error {
	for _, existing := range r.s.changes {
		if existing.CompanyID == ch.CompanyID && existing.Reference == ch.Reference &&
			existing.Reason == ch.Reason && existing.BatchID == ch.BatchID {
			return domain.ErrDuplicate
		}
	}
	r.s.changes = append(r.s.changes, cloneChange(ch))
	return nil
}

func (r changeRepo) ExistsByReference(companyID, reference string) (bool, error) {
	for _, c := range r.s.changes {
		if c.CompanyID == companyID && c.Reference == reference {
			return true, nil
		}
	}
	return false, nil
}

func (r changeRepo) ListByProduct(productID string, from, to *time.Time, limit, offset int) ([]*entity.StockChange, error) {
	all, _ := r.ListAllByProduct(productID)
	var out []*entity.StockChange
	for _, c := range all {
		if from != nil && c.CreatedAt.Before(*from) {
			continue
		}
		if to != nil && c.CreatedAt.After(*to) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (r changeRepo) ListAllByProduct(productID string) ([]*entity.StockChange, error) {
	var out []*entity.StockChange
	for _, c := range r.s.changes {
		if c.ProductID == productID {
			out = append(out, cloneChange(c))
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r changeRepo) DeleteLegacyBefore(companyID, productID string, cutover time.Time) (int64, error) {
	var kept []*entity.StockChange
	var deleted int64
	for _, c := range r.s.changes {
		if c.CompanyID == companyID && c.ProductID == productID &&
			c.BatchID == "" && c.CreatedAt.Before(cutover) {
			deleted++
			continue
		}
		kept = append(kept, c)
	}
	r.s.changes = kept
	return deleted, nil
}

// ── transferencias y reposiciones ─────────────────────────────────────────────

type transferRepo struct{ s *memStore }

func (r transferRepo) Create(t *entity.StockTransfer) error {
	r.s.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r transferRepo) GetByID(id string) (*entity.StockTransfer, error) {
	t, ok := r.s.transfers[id]
	if !ok {
		return nil, nil
	}
	return cloneTransfer(t), nil
}

func (r transferRepo) GetByIDForUpdate(id string) (*entity.StockTransfer, error) {
	return r.GetByID(id)
}

func (r transferRepo) UpdateStatus(t *entity.StockTransfer) error {
	if _, ok := r.s.transfers[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.transfers[t.ID] = cloneTransfer(t)
	return nil
}

func (r transferRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockTransfer, error) {
	var out []*entity.StockTransfer
	for _, t := range r.s.transfers {
		if t.CompanyID != companyID {
			continue
		}
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, cloneTransfer(t))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

type replenishmentRepo struct{ s *memStore }

func (r replenishmentRepo) Create(req *entity.StockReplenishmentRequest) error {
	r.s.replenishments[req.ID] = cloneRequest(req)
	return nil
}

func (r replenishmentRepo) GetByID(id string) (*entity.StockReplenishmentRequest, error) {
	req, ok := r.s.replenishments[id]
	if !ok {
		return nil, nil
	}
	return cloneRequest(req), nil
}

func (r replenishmentRepo) GetByIDForUpdate(id string) (*entity.StockReplenishmentRequest, error) {
	return r.GetByID(id)
}

func (r replenishmentRepo) UpdateStatus(req *entity.StockReplenishmentRequest) error {
	if _, ok := r.s.replenishments[req.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.replenishments[req.ID] = cloneRequest(req)
	return nil
}

func (r replenishmentRepo) ListByCompany(companyID, status string, limit, offset int) ([]*entity.StockReplenishmentRequest, error) {
	var out []*entity.StockReplenishmentRequest
	for _, req := range r.s.replenishments {
		if req.CompanyID != companyID {
			continue
		}
		if status != "" && req.Status != status {
			continue
		}
		out = append(out, cloneRequest(req))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ── ventas ────────────────────────────────────────────────────────────────────

type saleRepo struct{ s *memStore }

func (r saleRepo) Create(sale *entity.Sale) error {
	r.s.sales[sale.ID] = cloneSale(sale)
	return nil
}

func (r saleRepo) GetByID(id string) (*entity.Sale, error) {
	sale, ok := r.s.sales[id]
	if !ok {
		return nil, nil
	}
	return cloneSale(sale), nil
}

func (r saleRepo) ListByCompany(companyID string, limit, offset int) ([]*entity.Sale, error) {
	var out []*entity.Sale
	for _, sale := range r.s.sales {
		if sale.CompanyID == companyID {
			out = append(out, cloneSale(sale))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r saleRepo) ListLineRefsByProduct(productID string) ([]dominv.SaleLineRef, error) {
	var sales []*entity.Sale
	for _, sale := range r.s.sales {
		sales = append(sales, sale)
	}
	sort.Slice(sales, func(i, j int) bool { return sales[i].CreatedAt.Before(sales[j].CreatedAt) })

	var out []dominv.SaleLineRef
	for _, sale := range sales {
		for _, item := range sale.Items {
			if item.ProductID != productID {
				continue
			}
			out = append(out, dominv.SaleLineRef{
				SaleID:    sale.ID,
				ItemID:    item.ID,
				Kind:      item.Consumption.Kind,
				CreatedAt: sale.CreatedAt,
			})
		}
	}
	return out, nil
}

// ── clones ────────────────────────────────────────────────────────────────────

func cloneProduct(p *entity.Product) *entity.Product {
	v := *p
	return &v
}

func cloneBatch(b *entity.StockBatch) *entity.StockBatch {
	v := *b
	return &v
}

func cloneChange(c *entity.StockChange) *entity.StockChange {
	v := *c
	if c.CostPrice != nil {
		cost := *c.CostPrice
		v.CostPrice = &cost
	}
	return &v
}

func cloneTransfer(t *entity.StockTransfer) *entity.StockTransfer {
	v := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		v.CompletedAt = &at
	}
	return &v
}

func cloneRequest(r *entity.StockReplenishmentRequest) *entity.StockReplenishmentRequest {
	v := *r
	if r.FulfilledAt != nil {
		at := *r.FulfilledAt
		v.FulfilledAt = &at
	}
	return &v
}

func cloneSale(s *entity.Sale) *entity.Sale {
	v := *s
	v.Items = make([]entity.SaleItem, len(s.Items))
	for i, item := range s.Items {
		v.Items[i] = item
		v.Items[i].Consumption.Entries = append([]entity.ConsumptionEntry(nil), item.Consumption.Entries...)
	}
	return &v
}

// quietLog silencia la salida de los casos de uso en los tests.
func quietLog() *logger.Logger {
	return logger.New(logger.Config{Env: "production", Level: "error"})
}
