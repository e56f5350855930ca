package inventory

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// ReplenishmentUseCase gestiona las solicitudes de reposición de tienda:
// pending → approved → fulfilled, o pending → rejected con motivo. Aprobar es
// solo una compuerta de autorización; el stock se mueve con la transferencia
// enlazada al cumplir.
type ReplenishmentUseCase struct {
	productRepo  repository.ProductRepository
	locationRepo repository.LocationRepository
	replRepo     repository.ReplenishmentRepository
	transferUC   *TransferUseCase
	txRunner     TxRunner
	clk          clock.Clock
	log          *logger.Logger
	retry        RetryConfig
}

// NewReplenishmentUseCase construye el caso de uso de reposiciones.
func NewReplenishmentUseCase(
	productRepo repository.ProductRepository,
	locationRepo repository.LocationRepository,
	replRepo repository.ReplenishmentRepository,
	transferUC *TransferUseCase,
	txRunner TxRunner,
	clk clock.Clock,
	log *logger.Logger,
	retry RetryConfig,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		productRepo:  productRepo,
		locationRepo: locationRepo,
		replRepo:     replRepo,
		transferUC:   transferUC,
		txRunner:     txRunner,
		clk:          clk,
		log:          log.Component("replenishments"),
		retry:        retry,
	}
}

// Create registra una solicitud de reposición en pending. Solo las ubicaciones
// de tipo tienda pueden solicitar.
func (uc *ReplenishmentUseCase) Create(
	ctx context.Context,
	companyID, userID string,
	in dto.CreateReplenishmentRequest,
) (*entity.StockReplenishmentRequest, error) {
	if !in.Quantity.IsPositive() {
		return nil, domain.NewValidationError("quantity", "la cantidad solicitada debe ser mayor que cero")
	}
	if _, err := ownedProduct(uc.productRepo, companyID, in.ProductID); err != nil {
		return nil, err
	}
	shop, err := ownedLocation(uc.locationRepo, companyID, in.ShopID)
	if err != nil {
		return nil, err
	}
	if shop.Kind != entity.LocationKindShop {
		return nil, domain.NewValidationError("shop_id", "solo una tienda puede solicitar reposición")
	}

	request := &entity.StockReplenishmentRequest{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ShopID:    in.ShopID,
		ProductID: in.ProductID,
		Quantity:  in.Quantity,
		Status:    entity.ReplenishmentStatusPending,
		CreatedAt: uc.clk.Now(),
		CreatedBy: userID,
	}
	if err := uc.replRepo.Create(request); err != nil {
		return nil, err
	}

	uc.log.Info().
		Str("request_id", request.ID).
		Str("shop_id", in.ShopID).
		Str("product_id", in.ProductID).
		Msg("solicitud de reposición creada")
	return request, nil
}

// Approve autoriza la solicitud. Solo desde pending; no mueve stock.
func (uc *ReplenishmentUseCase) Approve(
	ctx context.Context,
	companyID, userID, requestID string,
) (*entity.StockReplenishmentRequest, error) {
	return uc.transition(ctx, companyID, requestID, entity.ReplenishmentStatusApproved, func(r *entity.StockReplenishmentRequest) {})
}

// Reject niega la solicitud dejando constancia del motivo. Solo desde pending.
func (uc *ReplenishmentUseCase) Reject(
	ctx context.Context,
	companyID, userID, requestID, reason string,
) (*entity.StockReplenishmentRequest, error) {
	if strings.TrimSpace(reason) == "" {
		return nil, domain.NewValidationError("reason", "el rechazo requiere un motivo")
	}
	return uc.transition(ctx, companyID, requestID, entity.ReplenishmentStatusRejected, func(r *entity.StockReplenishmentRequest) {
		r.RejectionReason = reason
	})
}

// Fulfill cierra la solicitud enlazándola a una transferencia hacia la tienda.
// Solo desde approved; si la transferencia enlazada sigue pending se completa
// dentro de la misma transacción, y una cancelada no puede cumplir nada.
func (uc *ReplenishmentUseCase) Fulfill(
	ctx context.Context,
	companyID, userID, requestID, transferID string,
) (*entity.StockReplenishmentRequest, *CompleteOutcome, error) {
	var (
		fulfilled  *entity.StockReplenishmentRequest
		completion *CompleteOutcome
	)
	err := RunWithRetry(ctx, uc.retry, func() error {
		fulfilled, completion = nil, nil
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			request, err := uc.lockedRequest(repos, companyID, requestID)
			if err != nil {
				return err
			}
			if !request.CanTransitionTo(entity.ReplenishmentStatusFulfilled) {
				return &domain.InvalidStateTransitionError{
					Entity: "replenishment_request", ID: requestID,
					From: request.Status, To: entity.ReplenishmentStatusFulfilled,
				}
			}

			transfer, err := repos.Transfers.GetByIDForUpdate(transferID)
			if err != nil {
				return err
			}
			if transfer == nil {
				return domain.ErrNotFound
			}
			if transfer.CompanyID != companyID {
				return domain.ErrForbidden
			}
			if err := validateLinkedTransfer(request, transfer); err != nil {
				return err
			}

			switch transfer.Status {
			case entity.TransferStatusCancelled:
				return &domain.InvalidStateTransitionError{
					Entity: "stock_transfer", ID: transferID,
					From: transfer.Status, To: entity.TransferStatusCompleted,
				}
			case entity.TransferStatusPending:
				out, err := uc.transferUC.completeInTx(repos, transfer, userID)
				if err != nil {
					return err
				}
				completion = out
			}

			now := uc.clk.Now()
			request.Status = entity.ReplenishmentStatusFulfilled
			request.TransferID = transferID
			request.FulfilledAt = &now
			if err := repos.Replenishments.UpdateStatus(request); err != nil {
				return err
			}
			fulfilled = request
			return nil
		})
	})
	if err != nil {
		return nil, nil, err
	}

	uc.log.Info().
		Str("request_id", requestID).
		Str("transfer_id", transferID).
		Bool("transfer_completed_inline", completion != nil).
		Msg("solicitud de reposición cumplida")
	return fulfilled, completion, nil
}

// List devuelve las solicitudes de la empresa, opcionalmente por estado.
func (uc *ReplenishmentUseCase) List(
	_ context.Context,
	companyID, status string,
	limit, offset int,
) ([]*entity.StockReplenishmentRequest, error) {
	return uc.replRepo.ListByCompany(companyID, status, limit, offset)
}

// transition aplica un cambio de estado simple bajo bloqueo de fila.
func (uc *ReplenishmentUseCase) transition(
	ctx context.Context,
	companyID, requestID, next string,
	mutate func(*entity.StockReplenishmentRequest),
) (*entity.StockReplenishmentRequest, error) {
	var updated *entity.StockReplenishmentRequest
	err := RunWithRetry(ctx, uc.retry, func() error {
		return uc.txRunner.Run(ctx, func(repos TxRepos) error {
			request, err := uc.lockedRequest(repos, companyID, requestID)
			if err != nil {
				return err
			}
			if !request.CanTransitionTo(next) {
				return &domain.InvalidStateTransitionError{
					Entity: "replenishment_request", ID: requestID,
					From: request.Status, To: next,
				}
			}
			request.Status = next
			mutate(request)
			if err := repos.Replenishments.UpdateStatus(request); err != nil {
				return err
			}
			updated = request
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("request_id", requestID).Str("status", next).Msg("solicitud de reposición actualizada")
	return updated, nil
}

func (uc *ReplenishmentUseCase) lockedRequest(repos TxRepos, companyID, requestID string) (*entity.StockReplenishmentRequest, error) {
	request, err := repos.Replenishments.GetByIDForUpdate(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, domain.ErrNotFound
	}
	if request.CompanyID != companyID {
		return nil, domain.ErrForbidden
	}
	return request, nil
}

// validateLinkedTransfer exige que la transferencia coincida con lo solicitado
// en producto, cantidad y destino.
func validateLinkedTransfer(request *entity.StockReplenishmentRequest, transfer *entity.StockTransfer) error {
	if transfer.ProductID != request.ProductID {
		return &domain.InvalidReferenceError{
			Field: "product_id", Expected: request.ProductID, Actual: transfer.ProductID,
		}
	}
	if !transfer.Quantity.Equal(request.Quantity) {
		return &domain.InvalidReferenceError{
			Field: "quantity", Expected: request.Quantity.String(), Actual: transfer.Quantity.String(),
		}
	}
	if transfer.DestinationLocationID != request.ShopID {
		return &domain.InvalidReferenceError{
			Field: "destination_location_id", Expected: request.ShopID, Actual: transfer.DestinationLocationID,
		}
	}
	return nil
}
