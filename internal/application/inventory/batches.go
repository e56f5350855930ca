package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// RestockOutcome resultado de una reposición.
type RestockOutcome struct {
	Replayed bool
	Batch    *entity.StockBatch // nil en la ruta legacy
	Change   *entity.StockChange
}

// BatchUseCase crea lotes por reposición, los lista y ejecuta la corrección
// administrativa de un lote registrado por error.
type BatchUseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	supplierRepo repository.SupplierRepository
	batchRepo    repository.StockBatchRepository
	txRunner     TxRunner
	clk          clock.Clock
	log          *logger.Logger
	retry        RetryConfig
}

// NewBatchUseCase construye el caso de uso de lotes.
func NewBatchUseCase(
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	supplierRepo repository.SupplierRepository,
	batchRepo repository.StockBatchRepository,
	txRunner TxRunner,
	clk clock.Clock,
	log *logger.Logger,
	retry RetryConfig,
) *BatchUseCase {
	return &BatchUseCase{
		productRepo:  productRepo,
		locationRepo: locationRepo,
		supplierRepo: supplierRepo,
		batchRepo:    batchRepo,
		txRunner:     txRunner,
		clk:          clk,
		log:          log.Component("batches"),
		retry:        retry,
	}
}

// CreateBatch registra una reposición: crea la capa de costo (si el producto
// tiene seguimiento), escribe la entrada del libro y actualiza agregado y costo
// promedio de referencia, todo en una transacción.
func (uc *BatchUseCase) CreateBatch(
	ctx context.Context,
	companyID, userID string,
	in dto.CreateBatchRequest,
) (*RestockOutcome, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "la cantidad del lote debe ser mayor que cero")
	}
	if in.CostPrice.IsNegative() {
		return nil, domain.NewValidationError("cost_price", "el costo unitario no puede ser negativo")
	}
	if _, err := ownedProduct(uc.productRepo, companyID, in.ProductID); err != nil {
		return nil, err
	}
	if _, err := ownedLocation(uc.locationRepo, companyID, in.LocationID); err != nil {
		return nil, err
	}
	if in.SupplierID != "" {
		supplier, err := ownedSupplier(uc.supplierRepo, companyID, in.SupplierID)
		if err != nil {
			return nil, err
		}
		if !supplier.Active() {
			return nil, domain.NewValidationError("supplier_id", "el proveedor está inactivo")
		}
	}

	reference := in.Reference
	if reference == "" {
		reference = uuid.New().String()
	}

	var outcome *RestockOutcome
	err := RunWithRetry(ctx, uc.retry, func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			now := uc.clk.Now()

			product, err := repos.Products.GetByIDForUpdate(in.ProductID)
			if err != nil {
				return err
			}
			if product == nil {
				return domain.ErrNotFound
			}

			applied, err := repos.Changes.ExistsByReference(companyID, reference)
			if err != nil {
				return err
			}
			if applied {
				outcome = &RestockOutcome{Replayed: true}
				return nil
			}

			cost := in.CostPrice
			change := &entity.StockChange{
				ID:         uuid.New().String(),
				CompanyID:  companyID,
				ProductID:  in.ProductID,
				LocationID: in.LocationID,
				Change:     in.Quantity,
				Reason:     entity.ChangeReasonRestock,
				Reference:  reference,
				CostPrice:  &cost,
				SupplierID: in.SupplierID,
				IsCredit:   in.IsCredit,
				CreatedAt:  now,
				CreatedBy:  userID,
			}

			var batch *entity.StockBatch
			if product.EnableBatchTracking {
				batch = &entity.StockBatch{
					ID:                uuid.New().String(),
					CompanyID:         companyID,
					ProductID:         in.ProductID,
					LocationID:        in.LocationID,
					Quantity:          in.Quantity,
					RemainingQuantity: in.Quantity,
					CostPrice:         in.CostPrice,
					SupplierID:        in.SupplierID,
					IsCredit:          in.IsCredit,
					Status:            entity.BatchStatusActive,
					CreatedAt:         now,
				}
				if err := repos.Batches.Create(batch); err != nil {
					return err
				}
				change.BatchID = batch.ID
			}

			if err := repos.Changes.Create(change); err != nil {
				return err
			}
			if err := repos.Products.UpdateStock(in.ProductID, in.Quantity); err != nil {
				return err
			}

			// Costo promedio ponderado de referencia (solo reportes).
			newCost := inventory.CostCalculator(product.Stock, product.Cost, in.Quantity, in.CostPrice)
			if err := repos.Products.UpdateCost(in.ProductID, newCost); err != nil {
				return err
			}

			outcome = &RestockOutcome{Batch: batch, Change: change}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("product_id", in.ProductID).
		Str("location_id", in.LocationID).
		Str("reference", reference).
		Bool("replayed", outcome.Replayed).
		Msg("reposición registrada")
	return outcome, nil
}

// ListBatches devuelve los lotes del producto, opcionalmente filtrados por
// ubicación y solo activos.
func (uc *BatchUseCase) ListBatches(
	_ context.Context,
	companyID, productID, locationID string,
	onlyActive bool,
) ([]*entity.StockBatch, error) {
	if _, err := ownedProduct(uc.productRepo, companyID, productID); err != nil {
		return nil, err
	}
	batches, err := uc.batchRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.StockBatch, 0, len(batches))
	for _, b := range batches {
		if locationID != "" && b.LocationID != locationID {
			continue
		}
		if onlyActive && !b.Active() {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

// CorrectBatch anula un lote activo registrado por error: marca el lote como
// corrected, escribe un cambio de corrección por el remanente y descuenta el
// agregado. El lote permanece como registro histórico.
func (uc *BatchUseCase) CorrectBatch(
	ctx context.Context,
	companyID, userID, batchID string,
) (*entity.StockChange, error) {
	var change *entity.StockChange
	err := RunWithRetry(ctx, uc.retry, func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			batch, err := repos.Batches.GetByID(batchID)
			if err != nil {
				return err
			}
			if batch == nil {
				return domain.ErrNotFound
			}
			if batch.CompanyID != companyID {
				return domain.ErrForbidden
			}

			// Serializa contra consumos concurrentes del mismo producto.
			if _, err := repos.Products.GetByIDForUpdate(batch.ProductID); err != nil {
				return err
			}
			batch, err = repos.Batches.GetByID(batchID)
			if err != nil {
				return err
			}
			if !batch.Active() {
				return &domain.InvalidStateTransitionError{
					Entity: "stock_batch", ID: batchID,
					From: batch.Status, To: entity.BatchStatusCorrected,
				}
			}

			now := uc.clk.Now()
			remaining := batch.RemainingQuantity
			cost := batch.CostPrice
			change = &entity.StockChange{
				ID:         uuid.New().String(),
				CompanyID:  companyID,
				ProductID:  batch.ProductID,
				LocationID: batch.LocationID,
				BatchID:    batch.ID,
				Change:     remaining.Neg(),
				Reason:     entity.ChangeReasonCorrection,
				Reference:  uuid.New().String(),
				CostPrice:  &cost,
				CreatedAt:  now,
				CreatedBy:  userID,
			}
			if err := repos.Changes.Create(change); err != nil {
				return err
			}
			if err := repos.Batches.MarkCorrected(batch.ID); err != nil {
				return err
			}
			if !remaining.IsZero() {
				if err := repos.Products.UpdateStock(batch.ProductID, remaining.Neg()); err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Warn().Str("batch_id", batchID).Msg("lote anulado por corrección administrativa")
	return change, nil
}
