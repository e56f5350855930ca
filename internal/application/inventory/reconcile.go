package inventory

import (
	"context"
	"time"

	"github.com/tu-usuario/kardex-pro/internal/domain/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// ReconciliationUseCase arma la foto del producto (lotes, libro, líneas de
// venta) y la pasa por el analizador puro. No bloquea filas ni muta nada: una
// escritura concurrente puede producir un falso desbalance transitorio, por
// eso el reporte lleva su instante de análisis.
type ReconciliationUseCase struct {
	productRepo repository.ProductRepository
	batchRepo   repository.StockBatchRepository
	changeRepo  repository.StockChangeRepository
	saleRepo    repository.SaleRepository
	txRunner    TxRunner
	clk         clock.Clock
	log         *logger.Logger
	cutover     time.Time
}

// NewReconciliationUseCase construye el analizador de consistencia.
func NewReconciliationUseCase(
	productRepo repository.ProductRepository,
	batchRepo repository.StockBatchRepository,
	changeRepo repository.StockChangeRepository,
	saleRepo repository.SaleRepository,
	txRunner TxRunner,
	clk clock.Clock,
	log *logger.Logger,
	cutover time.Time,
) *ReconciliationUseCase {
	return &ReconciliationUseCase{
		productRepo: productRepo,
		batchRepo:   batchRepo,
		changeRepo:  changeRepo,
		saleRepo:    saleRepo,
		txRunner:    txRunner,
		clk:         clk,
		log:         log.Component("reconciliation"),
		cutover:     cutover,
	}
}

// Analyze genera el reporte de consistencia de un producto.
func (uc *ReconciliationUseCase) Analyze(
	_ context.Context,
	companyID, productID string,
) (*inventory.Report, error) {
	product, err := ownedProduct(uc.productRepo, companyID, productID)
	if err != nil {
		return nil, err
	}
	batches, err := uc.batchRepo.ListByProduct(productID)
	if err != nil {
		return nil, err
	}
	changes, err := uc.changeRepo.ListAllByProduct(productID)
	if err != nil {
		return nil, err
	}
	saleLines, err := uc.saleRepo.ListLineRefsByProduct(productID)
	if err != nil {
		return nil, err
	}

	report := inventory.Analyze(inventory.Snapshot{
		Product:   product,
		Batches:   batches,
		Changes:   changes,
		SaleLines: saleLines,
		Cutover:   uc.cutover,
		Now:       uc.clk.Now(),
	})
	if !report.Clean() {
		uc.log.Warn().
			Str("product_id", productID).
			Int("issues", len(report.Issues)).
			Int("warnings", len(report.Warnings)).
			Msg("inconsistencias detectadas en la conciliación")
	}
	return report, nil
}

// PurgeLegacy elimina en bloque los cambios sin lote anteriores al corte de
// migración. Es la única eliminación sancionada sobre el libro y queda
// reservada al administrador (el router la protege por rol).
func (uc *ReconciliationUseCase) PurgeLegacy(
	ctx context.Context,
	companyID, userID, productID string,
) (int64, error) {
	if _, err := ownedProduct(uc.productRepo, companyID, productID); err != nil {
		return 0, err
	}

	var deleted int64
	err := uc.txRunner.Run(ctx, func(repos TxRepos) error {
		// Bloquea el producto para que la purga no cruce con un retiro en vuelo.
		if _, err := repos.Products.GetByIDForUpdate(productID); err != nil {
			return err
		}
		n, err := repos.Changes.DeleteLegacyBefore(companyID, productID, uc.cutover)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, err
	}

	uc.log.Warn().
		Str("product_id", productID).
		Str("user_id", userID).
		Int64("deleted", deleted).
		Time("cutover", uc.cutover).
		Msg("cambios legacy purgados")
	return deleted, nil
}

// Cutover expone el corte de migración vigente (para reportes y respuestas).
func (uc *ReconciliationUseCase) Cutover() time.Time { return uc.cutover }
