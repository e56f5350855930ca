package inventory

import (
	"context"
	"fmt"
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

// CompleteOutcome resultado de completar una transferencia: los lotes creados en
// el destino, uno por capa de costo consumida en el origen.
type CompleteOutcome struct {
	Transfer           *entity.StockTransfer
	DestinationBatches []*entity.StockBatch
	TotalCost          decimal.Decimal
}

// TransferUseCase mueve cantidad y sus capas de costo entre dos ubicaciones.
// Completar consume en el origen con el motor y materializa en el destino un
// lote nuevo por cada capa, preservando su costo unitario.
type TransferUseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	batchRepo    repository.StockBatchRepository
	transferRepo repository.StockTransferRepository
	consumeUC    *ConsumeStockUseCase
	txRunner     TxRunner
	clk          clock.Clock
	log          *logger.Logger
	retry        RetryConfig
}

// NewTransferUseCase construye el caso de uso de transferencias.
func NewTransferUseCase(
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	batchRepo repository.StockBatchRepository,
	transferRepo repository.StockTransferRepository,
	consumeUC *ConsumeStockUseCase,
	txRunner TxRunner,
	clk clock.Clock,
	log *logger.Logger,
	retry RetryConfig,
) *TransferUseCase {
	return &TransferUseCase{
		productRepo:  productRepo,
		locationRepo: locationRepo,
		batchRepo:    batchRepo,
		transferRepo: transferRepo,
		consumeUC:    consumeUC,
		txRunner:     txRunner,
		clk:          clk,
		log:          log.Component("transfers"),
		retry:        retry,
	}
}

// Create valida disponibilidad en el origen (asignación dry-run) y persiste la
// transferencia en pending. Con CompleteNow la crea y completa en una sola
// transacción (transferencia síncrona).
func (uc *TransferUseCase) Create(
	ctx context.Context,
	companyID, userID string,
	in dto.CreateTransferRequest,
) (*entity.StockTransfer, *CompleteOutcome, error) {
	if !in.Quantity.IsPositive() {
		return nil, nil, domain.NewValidationError("quantity", "la cantidad a transferir debe ser mayor que cero")
	}
	if in.SourceLocationID == in.DestinationLocationID {
		return nil, nil, domain.NewValidationError("destination_location_id", "origen y destino no pueden ser la misma ubicación")
	}
	if in.MethodOverride != "" && !entity.ValidMethod(in.MethodOverride) {
		return nil, nil, domain.NewValidationError("method_override", "método desconocido: "+in.MethodOverride)
	}

	product, err := ownedProduct(uc.productRepo, companyID, in.ProductID)
	if err != nil {
		return nil, nil, err
	}
	source, err := ownedLocation(uc.locationRepo, companyID, in.SourceLocationID)
	if err != nil {
		return nil, nil, err
	}
	destination, err := ownedLocation(uc.locationRepo, companyID, in.DestinationLocationID)
	if err != nil {
		return nil, nil, err
	}

	// Dry-run: valida que el origen puede cubrir la cantidad antes de persistir.
	if err := uc.checkAvailability(product, in); err != nil {
		return nil, nil, err
	}

	transfer := &entity.StockTransfer{
		ID:                    uuid.New().String(),
		CompanyID:             companyID,
		TransferType:          entity.TransferTypeFor(source.Kind, destination.Kind),
		ProductID:             in.ProductID,
		Quantity:              in.Quantity,
		SourceLocationID:      in.SourceLocationID,
		DestinationLocationID: in.DestinationLocationID,
		MethodOverride:        in.MethodOverride,
		Status:                entity.TransferStatusPending,
		CreatedAt:             uc.clk.Now(),
		CreatedBy:             userID,
	}

	var completion *CompleteOutcome
	err = RunWithRetry(ctx, uc.retry, func() error {
		completion = nil
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			if err := repos.Transfers.Create(transfer); err != nil {
				return err
			}
			if !in.CompleteNow {
				return nil
			}
			out, err := uc.completeInTx(repos, transfer, userID)
			if err != nil {
				return err
			}
			completion = out
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.Info().
		Str("transfer_id", transfer.ID).
		Str("transfer_type", transfer.TransferType).
		Bool("synchronous", in.CompleteNow).
		Msg("transferencia creada")
	return transfer, completion, nil
}

// Complete ejecuta la transferencia: consumo en el origen y capas nuevas en el
// destino, en una sola transacción. Solo válida desde pending.
func (uc *TransferUseCase) Complete(
	ctx context.Context,
	companyID, userID, transferID string,
) (*CompleteOutcome, error) {
	var outcome *CompleteOutcome
	err := RunWithRetry(ctx, uc.retry, func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			transfer, err := uc.lockedTransfer(repos, companyID, transferID)
			if err != nil {
				return err
			}
			if !transfer.Pending() {
				return &domain.InvalidStateTransitionError{
					Entity: "stock_transfer", ID: transferID,
					From: transfer.Status, To: entity.TransferStatusCompleted,
				}
			}
			out, err := uc.completeInTx(repos, transfer, userID)
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
		Str("transfer_id", transferID).
		Int("destination_batches", len(outcome.DestinationBatches)).
		Msg("transferencia completada")
	return outcome, nil
}

// Cancel marca la transferencia como cancelada. Solo desde pending: una vez
// movido el stock la historia no se revierte.
func (uc *TransferUseCase) Cancel(
	ctx context.Context,
	companyID, userID, transferID string,
) (*entity.StockTransfer, error) {
	var cancelled *entity.StockTransfer
	err := RunWithRetry(ctx, uc.retry, func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			transfer, err := uc.lockedTransfer(repos, companyID, transferID)
			if err != nil {
				return err
			}
			if !transfer.Pending() {
				return &domain.InvalidStateTransitionError{
					Entity: "stock_transfer", ID: transferID,
					From: transfer.Status, To: entity.TransferStatusCancelled,
				}
			}
			transfer.Status = entity.TransferStatusCancelled
			if err := repos.Transfers.UpdateStatus(transfer); err != nil {
				return err
			}
			cancelled = transfer
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("transfer_id", transferID).Str("user_id", userID).Msg("transferencia cancelada")
	return cancelled, nil
}

// List devuelve las transferencias de la empresa, opcionalmente por estado.
func (uc *TransferUseCase) List(
	_ context.Context,
	companyID, status string,
	limit, offset int,
) ([]*entity.StockTransfer, error) {
	return uc.transferRepo.ListByCompany(companyID, status, limit, offset)
}

// completeInTx hace el movimiento real con los repositorios del caller. La
// fila del producto queda bloqueada por el consumo, así que el lado de entrada
// corre serializado con cualquier otro retiro del mismo producto.
func (uc *TransferUseCase) completeInTx(
	repos TxRepos,
	transfer *entity.StockTransfer,
	userID string,
) (*CompleteOutcome, error) {
	now := uc.clk.Now()
	reference := "transfer:" + transfer.ID

	outcome, err := uc.consumeUC.ConsumeInTx(repos, transfer.CompanyID, ConsumeInput{
		ProductID:  transfer.ProductID,
		LocationID: transfer.SourceLocationID,
		Quantity:   transfer.Quantity,
		Reason:     entity.ChangeReasonTransferOut,
		Reference:  reference,
		Method:     transfer.MethodOverride,
		UserID:     userID,
	}, now)
	if err != nil {
		return nil, err
	}
	if outcome.Replayed {
		return nil, fmt.Errorf("transferencia %s: referencia ya aplicada con estado pending: %w",
			transfer.ID, domain.ErrConflict)
	}

	result := &CompleteOutcome{Transfer: transfer, TotalCost: outcome.TotalCost}

	if outcome.Plan != nil {
		// Un lote destino por capa consumida, preservando su costo unitario.
		// El created_at se escalona para conservar el orden de las capas.
		for i, line := range outcome.Plan.Lines {
			batch := &entity.StockBatch{
				ID:                uuid.New().String(),
				CompanyID:         transfer.CompanyID,
				ProductID:         transfer.ProductID,
				LocationID:        transfer.DestinationLocationID,
				Quantity:          line.Quantity,
				RemainingQuantity: line.Quantity,
				CostPrice:         line.UnitCost,
				Status:            entity.BatchStatusActive,
				CreatedAt:         now.Add(time.Duration(i) * time.Microsecond),
			}
			if err := repos.Batches.Create(batch); err != nil {
				return nil, err
			}
			cost := line.UnitCost
			change := &entity.StockChange{
				ID:         uuid.New().String(),
				CompanyID:  transfer.CompanyID,
				ProductID:  transfer.ProductID,
				LocationID: transfer.DestinationLocationID,
				BatchID:    batch.ID,
				Change:     line.Quantity,
				Reason:     entity.ChangeReasonTransferIn,
				Reference:  reference,
				CostPrice:  &cost,
				CreatedAt:  now,
				CreatedBy:  userID,
			}
			if err := repos.Changes.Create(change); err != nil {
				return nil, err
			}
			result.DestinationBatches = append(result.DestinationBatches, batch)
		}
		if err := repos.Products.UpdateStock(transfer.ProductID, outcome.Plan.TotalQuantity()); err != nil {
			return nil, err
		}
	} else {
		// Ruta legacy: solo se mueve el agregado, sin capas.
		change := &entity.StockChange{
			ID:         uuid.New().String(),
			CompanyID:  transfer.CompanyID,
			ProductID:  transfer.ProductID,
			LocationID: transfer.DestinationLocationID,
			Change:     transfer.Quantity,
			Reason:     entity.ChangeReasonTransferIn,
			Reference:  reference,
			CreatedAt:  now,
			CreatedBy:  userID,
		}
		if err := repos.Changes.Create(change); err != nil {
			return nil, err
		}
		if err := repos.Products.UpdateStock(transfer.ProductID, transfer.Quantity); err != nil {
			return nil, err
		}
	}

	transfer.Status = entity.TransferStatusCompleted
	transfer.CompletedAt = &now
	if err := repos.Transfers.UpdateStatus(transfer); err != nil {
		return nil, err
	}
	return result, nil
}

// checkAvailability valida en dry-run que el origen cubre la cantidad pedida.
func (uc *TransferUseCase) checkAvailability(product *entity.Product, in dto.CreateTransferRequest) error {
	if !product.EnableBatchTracking {
		if product.Stock.LessThan(in.Quantity) {
			return &domain.InsufficientStockError{
				ProductID:  product.ID,
				LocationID: in.SourceLocationID,
				Requested:  in.Quantity,
				Available:  product.Stock,
			}
		}
		return nil
	}
	method := in.MethodOverride
	if method == "" {
		method = product.InventoryMethod
	}
	batches, err := uc.batchRepo.ListActiveOrdered(in.ProductID, in.SourceLocationID, method)
	if err != nil {
		return err
	}
	_, err = inventory.BuildPlan(in.ProductID, in.SourceLocationID, method, batches, in.Quantity)
	return err
}

func (uc *TransferUseCase) lockedTransfer(repos TxRepos, companyID, transferID string) (*entity.StockTransfer, error) {
	transfer, err := repos.Transfers.GetByIDForUpdate(transferID)
	if err != nil {
		return nil, err
	}
	if transfer == nil {
		return nil, domain.ErrNotFound
	}
	if transfer.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return transfer, nil
}
