package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	inventory "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/pkg/clock"
)

// Tests del kardex: saldo corrido reconstruido desde el libro, ventana de
// fechas y exportación a PDF.

type stubCompanyRepo struct{ company *entity.Company }

func (r stubCompanyRepo) Create(*entity.Company) error             { return nil }
func (r stubCompanyRepo) GetByID(string) (*entity.Company, error)  { return r.company, nil }
func (r stubCompanyRepo) GetByNIT(string) (*entity.Company, error) { return r.company, nil }
func (r stubCompanyRepo) Update(*entity.Company) error             { return nil }
func (r stubCompanyRepo) List(int, int) ([]*entity.Company, error) { return nil, nil }

type stubPDF struct {
	report *inventory.KardexReport
	data   []byte
	err    error
}

func (g *stubPDF) Generate(_ context.Context, _ *entity.Company, report *inventory.KardexReport) ([]byte, error) {
	g.report = report
	return g.data, g.err
}

func newKardexUC(s *memStore, pdf inventory.KardexPDFGenerator) *inventory.KardexUseCase {
	company := &entity.Company{ID: companyID, Name: "Café La Cumbre", NIT: "901234567-8", Status: "active"}
	return inventory.NewKardexUseCase(
		productRepo{s}, changeRepo{s}, stubCompanyRepo{company}, pdf,
		clock.NewFixed(testNow), quietLog(),
	)
}

// Libro de ejemplo: entra 10, sale 4, entra 5, sale 2. Saldo final 9.
var (
	kardexJan = time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	kardexFeb = time.Date(2025, 2, 10, 9, 0, 0, 0, time.UTC)
	kardexMar = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	kardexApr = time.Date(2025, 4, 10, 9, 0, 0, 0, time.UTC)
)

func seedKardex(s *memStore) {
	rows := []struct {
		id     string
		qty    int64
		reason string
		at     time.Time
	}{
		{"mov-1", 10, entity.ChangeReasonRestock, kardexJan},
		{"mov-2", -4, entity.ChangeReasonSale, kardexFeb},
		{"mov-3", 5, entity.ChangeReasonRestock, kardexMar},
		{"mov-4", -2, entity.ChangeReasonSale, kardexApr},
	}
	for _, r := range rows {
		s.changes = append(s.changes, &entity.StockChange{
			ID: r.id, CompanyID: companyID, ProductID: productID, LocationID: warehouseID,
			Change: decimal.NewFromInt(r.qty), Reason: r.reason, Reference: "ref-" + r.id,
			CreatedAt: r.at, CreatedBy: userID,
		})
	}
}

func TestKardex_SaldoCorridoSinVentana(t *testing.T) {
	store := seedStore()
	seedKardex(store)
	uc := newKardexUC(store, &stubPDF{})

	report, err := uc.Movements(context.Background(), companyID, productID, nil, nil)
	require.NoError(t, err)

	require.Len(t, report.Rows, 4)
	assert.True(t, report.OpeningBalance.IsZero())
	assert.True(t, report.ClosingBalance.Equal(decimal.NewFromInt(9)))

	// Saldo corrido fila a fila: 10, 6, 11, 9.
	for i, want := range []int64{10, 6, 11, 9} {
		assert.True(t, report.Rows[i].Balance.Equal(decimal.NewFromInt(want)),
			"saldo de la fila %d: esperaba %d, hubo %s", i, want, report.Rows[i].Balance)
	}

	// Entradas y salidas en columnas separadas, siempre positivas.
	assert.True(t, report.Rows[0].In.Equal(decimal.NewFromInt(10)))
	assert.True(t, report.Rows[0].Out.IsZero())
	assert.True(t, report.Rows[1].Out.Equal(decimal.NewFromInt(4)))
	assert.True(t, report.Rows[1].In.IsZero())
	assert.Equal(t, entity.ChangeReasonSale, report.Rows[1].Reason)
}

// La ventana no pierde historia: lo anterior a from se acumula en el saldo
// inicial y lo posterior a to se descarta. Un movimiento exactamente en to
// sigue dentro.
func TestKardex_VentanaDeFechas(t *testing.T) {
	store := seedStore()
	seedKardex(store)
	uc := newKardexUC(store, &stubPDF{})

	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	to := kardexMar

	report, err := uc.Movements(context.Background(), companyID, productID, &from, &to)
	require.NoError(t, err)

	assert.True(t, report.OpeningBalance.Equal(decimal.NewFromInt(10)), "la entrada de enero alimenta el saldo inicial")
	require.Len(t, report.Rows, 2, "febrero y marzo; abril queda fuera")
	assert.Equal(t, "ref-mov-2", report.Rows[0].Reference)
	assert.Equal(t, "ref-mov-3", report.Rows[1].Reference)
	assert.True(t, report.ClosingBalance.Equal(decimal.NewFromInt(11)))
}

func TestKardex_ProductoAjeno(t *testing.T) {
	store := seedStore()
	seedKardex(store)
	uc := newKardexUC(store, &stubPDF{})
	ctx := context.Background()

	_, err := uc.Movements(ctx, otherCompanyID, productID, nil, nil)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = uc.Movements(ctx, companyID, "producto-inexistente", nil, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestKardex_DescargaPDF(t *testing.T) {
	store := seedStore()
	seedKardex(store)
	pdf := &stubPDF{data: []byte("%PDF-falso")}
	uc := newKardexUC(store, pdf)

	data, filename, err := uc.DownloadPDF(context.Background(), companyID, productID, nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []byte("%PDF-falso"), data)
	assert.Equal(t, "kardex_CAFE-500_20250601.pdf", filename)
	require.NotNil(t, pdf.report, "el generador recibe el reporte armado")
	assert.Len(t, pdf.report.Rows, 4)
}
