package inventory

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// ConsumeInput parámetros internos de un retiro (el DTO HTTP se traduce a esto).
type ConsumeInput struct {
	ProductID  string
	LocationID string
	Quantity   decimal.Decimal
	Reason     string // sale | damage | adjustment | transfer_out
	Reference  string // apply-once: la misma referencia nunca aplica dos veces
	Method     string // vacío = método del producto (las transferencias pueden sobreescribirlo)
	UserID     string
}

// ConsumeOutcome resultado de un retiro aplicado.
type ConsumeOutcome struct {
	Replayed  bool                       // la referencia ya estaba aplicada: no se movió nada
	Plan      *inventory.ConsumptionPlan // nil en la ruta legacy
	Changes   []*entity.StockChange
	TotalCost decimal.Decimal
}

// ConsumeStockUseCase implementa el motor de consumo: planifica el retiro sobre
// lotes activos (FIFO/LIFO) y lo aplica de forma atómica, o ajusta solo el
// agregado cuando el producto no tiene seguimiento por lotes.
type ConsumeStockUseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	batchRepo    repository.StockBatchRepository
	txRunner     TxRunner
	clk          clock.Clock
	log          *logger.Logger
	retry        RetryConfig
}

// NewConsumeStockUseCase construye el caso de uso del motor de consumo.
func NewConsumeStockUseCase(
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	batchRepo repository.StockBatchRepository,
	txRunner TxRunner,
	clk clock.Clock,
	log *logger.Logger,
	retry RetryConfig,
) *ConsumeStockUseCase {
	return &ConsumeStockUseCase{
		productRepo:  productRepo,
		locationRepo: locationRepo,
		batchRepo:    batchRepo,
		txRunner:     txRunner,
		clk:          clk,
		log:          log.Component("consume"),
		retry:        retry,
	}
}

// Allocate calcula el plan de consumo sin aplicarlo (dry-run, solo lectura).
func (uc *ConsumeStockUseCase) Allocate(
	_ context.Context,
	companyID string,
	in dto.AllocateConsumptionRequest,
) (*inventory.ConsumptionPlan, error) {
	product, err := ownedProduct(uc.productRepo, companyID, in.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := ownedLocation(uc.locationRepo, companyID, in.LocationID); err != nil {
		return nil, err
	}
	if !product.EnableBatchTracking {
		return nil, domain.NewValidationError("product_id", "el producto no tiene seguimiento por lotes: no existe plan de consumo")
	}

	method := in.Method
	if method == "" {
		method = product.InventoryMethod
	}
	batches, err := uc.batchRepo.ListActiveOrdered(in.ProductID, in.LocationID, method)
	if err != nil {
		return nil, err
	}
	return inventory.BuildPlan(in.ProductID, in.LocationID, method, batches, in.Quantity)
}

// Consume valida, planifica y aplica un retiro en una sola transacción,
// reintentando ante colisiones de concurrencia.
func (uc *ConsumeStockUseCase) Consume(
	ctx context.Context,
	companyID, userID string,
	in dto.ConsumeStockRequest,
) (*ConsumeOutcome, error) {
	switch in.Reason {
	case entity.ChangeReasonSale, entity.ChangeReasonDamage, entity.ChangeReasonAdjustment:
	default:
		return nil, domain.NewValidationError("reason", "causa de retiro no permitida: "+in.Reason)
	}
	if in.Quantity.IsNegative() {
		return nil, domain.NewValidationError("quantity", "la cantidad no puede ser negativa")
	}
	if _, err := ownedProduct(uc.productRepo, companyID, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := ownedLocation(uc.locationRepo, companyID, in.LocationID); err != nil {
		return nil, err
	}

	input := ConsumeInput{
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Quantity:   in.Quantity,
		Reason:     in.Reason,
		Reference:  in.Reference,
		UserID:     userID,
	}
	if input.Reference == "" {
		input.Reference = uuid.New().String()
	}

	var outcome *ConsumeOutcome
	err := RunWithRetry(ctx, uc.retry, func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			out, err := uc.ConsumeInTx(repos, companyID, input, uc.clk.Now())
			if err != nil {
				return err
			}
			outcome = out
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("location_id", in.LocationID).
		Str("reason", in.Reason).
		Str("reference", input.Reference).
		Bool("replayed", outcome.Replayed).
		Msg("retiro de stock aplicado")
	return outcome, nil
}

// ConsumeInTx ejecuta el retiro con los repositorios del caller (misma transacción).
// Bloquea la fila del producto para serializar las mutaciones de su conjunto de
// lotes; con la fila bloqueada la guarda de referencia es segura frente a replays.
func (uc *ConsumeStockUseCase) ConsumeInTx(
	repos TxRepos,
	companyID string,
	in ConsumeInput,
	now time.Time,
) (*ConsumeOutcome, error) {
	product, err := repos.Products.GetByIDForUpdate(in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if product.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}

	applied, err := repos.Changes.ExistsByReference(companyID, in.Reference)
	if err != nil {
		return nil, err
	}
	if applied {
		return &ConsumeOutcome{Replayed: true, TotalCost: decimal.Zero}, nil
	}

	if in.Quantity.IsZero() {
		// Retiro de cero unidades: plan vacío válido, sin cambios.
		return &ConsumeOutcome{TotalCost: decimal.Zero}, nil
	}

	if !product.EnableBatchTracking {
		return uc.consumeLegacy(repos, product, in, now)
	}

	method := in.Method
	if method == "" {
		method = product.InventoryMethod
	}
	batches, err := repos.Batches.ListActiveOrdered(in.ProductID, in.LocationID, method)
	if err != nil {
		return nil, err
	}
	plan, err := inventory.BuildPlan(in.ProductID, in.LocationID, method, batches, in.Quantity)
	if err != nil {
		// InsufficientStock sube sin haber tocado ningún lote.
		return nil, err
	}

	changes := make([]*entity.StockChange, 0, len(plan.Lines))
	for _, line := range plan.Lines {
		cost := line.UnitCost
		ch := &entity.StockChange{
			ID:         uuid.New().String(),
			CompanyID:  companyID,
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			BatchID:    line.BatchID,
			Change:     line.Quantity.Neg(),
			Reason:     in.Reason,
			Reference:  in.Reference,
			CostPrice:  &cost,
			CreatedAt:  now,
			CreatedBy:  in.UserID,
		}
		if err := repos.Changes.Create(ch); err != nil {
			return nil, err
		}
		if err := repos.Batches.ApplyDelta(line.BatchID, line.Quantity.Neg()); err != nil {
			return nil, err
		}
		if err := repos.Batches.MarkDepletedIfZero(line.BatchID); err != nil {
			return nil, err
		}
		changes = append(changes, ch)
	}
	if err := repos.Products.UpdateStock(in.ProductID, in.Quantity.Neg()); err != nil {
		return nil, err
	}

	return &ConsumeOutcome{Plan: plan, Changes: changes, TotalCost: plan.TotalCost}, nil
}

// consumeLegacy: producto sin seguimiento por lotes. Solo se ajusta el agregado
// y se escribe un cambio sin lote; el motor de capas no interviene.
func (uc *ConsumeStockUseCase) consumeLegacy(
	repos TxRepos,
	product *entity.Product,
	in ConsumeInput,
	now time.Time,
) (*ConsumeOutcome, error) {
	if product.Stock.LessThan(in.Quantity) {
		return nil, &domain.InsufficientStockError{
			ProductID:  in.ProductID,
			LocationID: in.LocationID,
			Requested:  in.Quantity,
			Available:  product.Stock,
		}
	}
	ch := &entity.StockChange{
		ID:         uuid.New().String(),
		CompanyID:  product.CompanyID,
		ProductID:  in.ProductID,
		LocationID: in.LocationID,
		Change:     in.Quantity.Neg(),
		Reason:     in.Reason,
		Reference:  in.Reference,
		CreatedAt:  now,
		CreatedBy:  in.UserID,
	}
	if err := repos.Changes.Create(ch); err != nil {
		return nil, err
	}
	if err := repos.Products.UpdateStock(in.ProductID, in.Quantity.Neg()); err != nil {
		return nil, err
	}
	return &ConsumeOutcome{Changes: []*entity.StockChange{ch}, TotalCost: decimal.Zero}, nil
}
