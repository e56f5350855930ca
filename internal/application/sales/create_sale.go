package sales

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// CreateSaleUseCase registra una venta y descuenta el inventario por capas en
// una sola transacción. Cada línea guarda su detalle de consumo etiquetado:
// qué lotes cubrieron la salida y a qué costo, o el marcador legacy cuando el
// producto vendió sin seguimiento.
type CreateSaleUseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	saleRepo     repository.SaleRepository
	consumeUC    *appinv.ConsumeStockUseCase
	txRunner     appinv.TxRunner
	clk          clock.Clock
	log          *logger.Logger
	retry        appinv.RetryConfig
}

// NewCreateSaleUseCase construye el caso de uso de ventas.
func NewCreateSaleUseCase(
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	saleRepo repository.SaleRepository,
	consumeUC *appinv.ConsumeStockUseCase,
	txRunner appinv.TxRunner,
	clk clock.Clock,
	log *logger.Logger,
	retry appinv.RetryConfig,
) *CreateSaleUseCase {
	return &CreateSaleUseCase{
		productRepo:  productRepo,
		locationRepo: locationRepo,
		saleRepo:     saleRepo,
		consumeUC:    consumeUC,
		txRunner:     txRunner,
		clk:          clk,
		log:          log.Component("sales"),
		retry:        retry,
	}
}

// CreateSale valida las líneas, consume el stock de cada una y persiste la
// venta con su costo de mercancía. Si una línea no alcanza stock, nada queda
// aplicado.
func (uc *CreateSaleUseCase) CreateSale(
	ctx context.Context,
	companyID, userID string,
	in dto.CreateSaleRequest,
) (*entity.Sale, error) {
	if len(in.Items) == 0 {
		return nil, domain.NewValidationError("items", "la venta necesita al menos una línea")
	}
	location, err := uc.locationRepo.GetByID(in.LocationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.ErrNotFound
	}
	if location.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	// Validación de productos y precios fuera de la transacción, solo lectura.
	productsByID := make(map[string]*entity.Product, len(in.Items))
	for i := range in.Items {
		item := &in.Items[i]
		if !item.Quantity.IsPositive() {
			return nil, domain.NewValidationError("items.quantity", "la cantidad de cada línea debe ser mayor que cero")
		}
		if item.UnitPrice.IsNegative() {
			return nil, domain.NewValidationError("items.unit_price", "el precio unitario no puede ser negativo")
		}
		product, err := uc.productRepo.GetByID(item.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if product.CompanyID != companyID {
			return nil, domain.ErrForbidden
		}
		productsByID[item.ProductID] = product
		if item.UnitPrice.IsZero() {
			item.UnitPrice = product.Price
		}
	}

	saleID := uuid.New().String()
	var sale *entity.Sale

	err = appinv.RunWithRetry(ctx, uc.retry, func() error {
		return uc.txRunner.Run(ctx, func(repos appinv.TxRepos) error {
			now := uc.clk.Now()
			total, totalCost := decimal.Zero, decimal.Zero
			items := make([]entity.SaleItem, 0, len(in.Items))

			for _, item := range in.Items {
				itemID := uuid.New().String()
				outcome, err := uc.consumeUC.ConsumeInTx(repos, companyID, appinv.ConsumeInput{
					ProductID:  item.ProductID,
					LocationID: in.LocationID,
					Quantity:   item.Quantity,
					Reason:     entity.ChangeReasonSale,
					Reference:  "sale:" + saleID + ":" + itemID,
					UserID:     userID,
				}, now)
				if err != nil {
					// Sin stock en cualquier línea deshace la venta completa.
					return err
				}

				var detail entity.ConsumptionDetail
				var itemCost decimal.Decimal
				if outcome.Plan != nil {
					entries := make([]entity.ConsumptionEntry, 0, len(outcome.Plan.Lines))
					for _, line := range outcome.Plan.Lines {
						entries = append(entries, entity.ConsumptionEntry{
							BatchID:   line.BatchID,
							Quantity:  line.Quantity,
							CostPrice: line.UnitCost,
						})
					}
					detail = entity.TrackedDetail(entries)
					itemCost = outcome.TotalCost
				} else {
					// Sin capas: costo de referencia promedio del producto.
					detail = entity.LegacyDetail()
					itemCost = productsByID[item.ProductID].Cost.Mul(item.Quantity)
				}

				subtotal := item.Quantity.Mul(item.UnitPrice)
				total = total.Add(subtotal)
				totalCost = totalCost.Add(itemCost)
				items = append(items, entity.SaleItem{
					ID:          itemID,
					SaleID:      saleID,
					ProductID:   item.ProductID,
					Quantity:    item.Quantity,
					UnitPrice:   item.UnitPrice,
					Subtotal:    subtotal,
					Consumption: detail,
				})
			}

			sale = &entity.Sale{
				ID:         saleID,
				CompanyID:  companyID,
				LocationID: in.LocationID,
				// El sufijo evita chocar con uq de (empresa, número) en ventas del mismo segundo.
				Number:    fmt.Sprintf("V-%d-%s", now.Unix(), saleID[:8]),
				Total:     total,
				TotalCost: totalCost,
				CreatedAt: now,
				CreatedBy: userID,
				Items:     items,
			}
			return repos.Sales.Create(sale)
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("sale_id", sale.ID).
		Str("number", sale.Number).
		Str("location_id", in.LocationID).
		Int("items", len(sale.Items)).
		Msg("venta registrada")
	return sale, nil
}

// GetSale obtiene una venta con sus líneas y detalle de consumo.
func (uc *CreateSaleUseCase) GetSale(_ context.Context, companyID, saleID string) (*entity.Sale, error) {
	sale, err := uc.saleRepo.GetByID(saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.ErrNotFound
	}
	if sale.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return sale, nil
}

// ListSales devuelve las ventas de la empresa más recientes primero.
func (uc *CreateSaleUseCase) ListSales(_ context.Context, companyID string, limit, offset int) ([]*entity.Sale, error) {
	return uc.saleRepo.ListByCompany(companyID, limit, offset)
}
