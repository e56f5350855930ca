package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/repository"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
	"github.com/tu-usuario/kardex-pro/pkg/logger"
)

// KardexRow un movimiento del kardex con el saldo corrido tras aplicarlo.
type KardexRow struct {
	Date      time.Time
	Reason    string
	Reference string
	BatchID   string
	In        decimal.Decimal
	Out       decimal.Decimal
	Balance   decimal.Decimal
	CostPrice *decimal.Decimal
}

// KardexReport el kardex de un producto en una ventana de fechas. El saldo se
// reconstruye desde el libro completo, no desde el agregado del producto: si
// ambos difieren lo detecta la conciliación, no este reporte.
type KardexReport struct {
	Product        *entity.Product
	From           *time.Time
	To             *time.Time
	OpeningBalance decimal.Decimal
	ClosingBalance decimal.Decimal
	Rows           []KardexRow
	GeneratedAt    time.Time
}

// KardexPDFGenerator puerto de render del kardex a PDF.
type KardexPDFGenerator interface {
	Generate(ctx context.Context, company *entity.Company, report *KardexReport) ([]byte, error)
}

// KardexUseCase reconstruye el kardex de un producto a partir de su libro de
// movimientos y lo exporta a PDF.
type KardexUseCase struct {
	productRepo repository.ProductRepository
	changeRepo  repository.StockChangeRepository
	companyRepo repository.CompanyRepository
	pdf         KardexPDFGenerator
	clk         clock.Clock
	log         *logger.Logger
}

// NewKardexUseCase construye el caso de uso del kardex.
func NewKardexUseCase(
	productRepo repository.ProductRepository,
	changeRepo repository.StockChangeRepository,
	companyRepo repository.CompanyRepository,
	pdf KardexPDFGenerator,
	clk clock.Clock,
	log *logger.Logger,
) *KardexUseCase {
	return &KardexUseCase{
		productRepo: productRepo,
		changeRepo:  changeRepo,
		companyRepo: companyRepo,
		pdf:         pdf,
		clk:         clk,
		log:         log.Component("kardex"),
	}
}

// Movements arma el kardex del producto. Los movimientos anteriores a la
// ventana se acumulan en el saldo inicial; los posteriores se descartan.
func (uc *KardexUseCase) Movements(
	_ context.Context,
	companyID, productID string,
	from, to *time.Time,
) (*KardexReport, error) {
	product, err := ownedProduct(uc.productRepo, companyID, productID)
	if err != nil {
		return nil, err
	}
	changes, err := uc.changeRepo.ListAllByProduct(productID)
	if err != nil {
		return nil, err
	}

	report := &KardexReport{
		Product:        product,
		From:           from,
		To:             to,
		OpeningBalance: decimal.Zero,
		GeneratedAt:    uc.clk.Now(),
	}

	balance := decimal.Zero
	for _, ch := range changes {
		if to != nil && ch.CreatedAt.After(*to) {
			break
		}
		balance = balance.Add(ch.Change)
		if from != nil && ch.CreatedAt.Before(*from) {
			report.OpeningBalance = balance
			continue
		}
		row := KardexRow{
			Date:      ch.CreatedAt,
			Reason:    ch.Reason,
			Reference: ch.Reference,
			BatchID:   ch.BatchID,
			Balance:   balance,
			CostPrice: ch.CostPrice,
		}
		if ch.Change.IsNegative() {
			row.Out = ch.Change.Neg()
		} else {
			row.In = ch.Change
		}
		report.Rows = append(report.Rows, row)
	}
	report.ClosingBalance = balance
	return report, nil
}

// DownloadPDF genera el kardex en PDF con el nombre de archivo sugerido.
func (uc *KardexUseCase) DownloadPDF(
	ctx context.Context,
	companyID, productID string,
	from, to *time.Time,
) ([]byte, string, error) {
	report, err := uc.Movements(ctx, companyID, productID, from, to)
	if err != nil {
		return nil, "", err
	}
	company, err := uc.companyRepo.GetByID(companyID)
	if err != nil {
		return nil, "", err
	}
	if company == nil {
		return nil, "", domain.ErrNotFound
	}

	data, err := uc.pdf.Generate(ctx, company, report)
	if err != nil {
		return nil, "", fmt.Errorf("generando PDF del kardex: %w", err)
	}

	filename := fmt.Sprintf("kardex_%s_%s.pdf", report.Product.SKU, report.GeneratedAt.Format("20060102"))
	uc.log.Info().
		Str("product_id", productID).
		Int("rows", len(report.Rows)).
		Str("filename", filename).
		Msg("kardex exportado a PDF")
	return data, filename, nil
}
