// Package pdf implementa la exportación del kardex de producto a PDF
// (soporte documental de inventarios para revisoría fiscal).
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Razón Social + NIT  │  KARDEX + Fecha generación   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRODUCTO: SKU + Nombre + Método de costeo                  │
//	│  PERÍODO: Desde / Hasta + Saldo inicial                     │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Motivo | Referencia | Entrada | Salida |    │
//	│         Saldo | Costo U.                                    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Entradas / Salidas / SALDO FINAL                  │
//	│  FOOTER: leyenda de soporte                                 │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// Etiquetas legibles de los motivos de movimiento.
var reasonLabels = map[string]string{
	entity.ChangeReasonRestock:     "Compra",
	entity.ChangeReasonSale:        "Venta",
	entity.ChangeReasonDamage:      "Daño/Merma",
	entity.ChangeReasonAdjustment:  "Ajuste",
	entity.ChangeReasonTransferIn:  "Transf. entrada",
	entity.ChangeReasonTransferOut: "Transf. salida",
	entity.ChangeReasonCorrection:  "Corrección",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoKardexGenerator implementa inventory.KardexPDFGenerator usando Maroto v2.
type MarotoKardexGenerator struct{}

// NewMarotoKardexGenerator construye el generador.
func NewMarotoKardexGenerator() *MarotoKardexGenerator { return &MarotoKardexGenerator{} }

var _ appinv.KardexPDFGenerator = (*MarotoKardexGenerator)(nil)

// Generate genera el PDF del kardex y devuelve sus bytes.
func (g *MarotoKardexGenerator) Generate(
	_ context.Context,
	company *entity.Company,
	report *appinv.KardexReport,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex de Inventario", true).
		WithAuthor(company.Name, true).
		Build()

	m := maroto.New(cfg)

	// Header principal
	m.AddRows(headerRow(company, report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(productRow(report.Product))
	m.AddRows(periodRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	// Tabla de movimientos
	m.AddRows(tableHeaderRow())
	for _, r := range tableMovementRows(report.Rows) {
		m.AddRows(r)
	}

	// Totales
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(report))

	// Footer
	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: Razón social + NIT (izq) y título KARDEX + fecha de generación (der).
func headerRow(company *entity.Company, report *appinv.KardexReport) core.Row {
	fecha := report.GeneratedAt.Format("02/01/2006 15:04")

	return row.New(18).Add(
		col.New(7).Add(
			text.New(company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("NIT: "+company.NIT, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(report.Product.SKU, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 8,
			}),
			text.New("Generado: "+fecha, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

// productRow: datos del producto y su política de costeo.
func productRow(product *entity.Product) core.Row {
	seguimiento := "por lotes"
	if !product.EnableBatchTracking {
		seguimiento = "agregado (sin lotes)"
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PRODUCTO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("%s   |   Método: %s   |   Seguimiento: %s",
				product.Name, product.InventoryMethod, seguimiento,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// periodRow: ventana del reporte y saldo inicial acumulado antes de ella.
func periodRow(report *appinv.KardexReport) core.Row {
	desde, hasta := "inicio", "hoy"
	if report.From != nil {
		desde = report.From.Format("02/01/2006")
	}
	if report.To != nil {
		hasta = report.To.Format("02/01/2006")
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PERÍODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Desde: %s   |   Hasta: %s   |   Saldo inicial: %s",
				desde, hasta, report.OpeningBalance.String(),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Motivo", 2, align.Left),
		h("Referencia", 3, align.Left),
		h("Entrada", 1, align.Right),
		h("Salida", 1, align.Right),
		h("Saldo", 1, align.Right),
		h("Costo U.", 2, align.Right),
	)
}

// tableMovementRows: una fila por movimiento, con saldo corrido.
func tableMovementRows(rows []appinv.KardexRow) []core.Row {
	result := make([]core.Row, 0, len(rows))
	for _, r := range rows {
		costo := "—"
		if r.CostPrice != nil {
			costo = "$" + formatMoney(r.CostPrice.StringFixed(0))
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(
				r.Date.Format("02/01/2006"),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				reasonLabel(r.Reason),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(3).Add(text.New(
				nonEmpty(r.Reference, "—"),
				props.Text{Size: 7, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(1).Add(text.New(
				qtyOrBlank(r.In),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				qtyOrBlank(r.Out),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(1).Add(text.New(
				r.Balance.String(),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(2).Add(text.New(
				costo,
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

// totalsRow: entradas, salidas y saldo final de la ventana.
func totalsRow(report *appinv.KardexReport) core.Row {
	in, out := decimal.Zero, decimal.Zero
	for _, r := range report.Rows {
		in = in.Add(r.In)
		out = out.Add(r.Out)
	}

	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grandLabel := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 2,
		})
	}
	grandValue := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: 1,
		})
	}

	return row.New(26).Add(
		col.New(3), // espacio izquierdo
		col.New(3).Add(
			label("Total entradas:"),
			label("Total salidas:"),
			grandLabel("SALDO FINAL:"),
		),
		col.New(3).Add(
			value(in.String()),
			value(out.String()),
			grandValue(report.ClosingBalance.String()),
		),
		col.New(3), // espacio derecho
	)
}

// footerRow: leyenda de soporte documental.
func footerRow(report *appinv.KardexReport) core.Row {
	return row.New(10).Add(col.New(12).Add(
		text.New(fmt.Sprintf(
			"Kardex reconstruido desde el libro de movimientos (%d registros en la ventana). "+
				"Conserve este documento como soporte de inventarios.",
			len(report.Rows),
		), props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func reasonLabel(reason string) string {
	if label, ok := reasonLabels[reason]; ok {
		return label
	}
	return reason
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func qtyOrBlank(d decimal.Decimal) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
