package inventory

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
)

// Códigos de hallazgo del analizador de consistencia.
const (
	FindingBatchSumMismatch   = "BATCH_SUM_MISMATCH"   // Σ remanentes activos ≠ stock del producto
	FindingBatchInvariant     = "BATCH_INVARIANT"      // lote viola 0 ≤ remanente ≤ cantidad o depleted ⇔ 0
	FindingUntrackedChanges   = "UNTRACKED_CHANGES"    // cambios sin lote posteriores al corte de migración
	FindingLegacyChanges      = "LEGACY_CHANGES"       // cambios sin lote anteriores al corte (dato migrado)
	FindingOrphanChanges      = "ORPHAN_CHANGES"       // cambios que referencian lotes inexistentes
	FindingUntrackedSaleLines = "UNTRACKED_SALE_LINES" // líneas de venta legacy posteriores al corte
	FindingLegacySaleLines    = "LEGACY_SALE_LINES"    // líneas de venta legacy anteriores al corte
	FindingTrackingSuspended  = "TRACKING_SUSPENDED"   // producto con lotes pero seguimiento apagado
)

// Finding es un hallazgo puntual del análisis.
type Finding struct {
	Code    string
	Message string
	Count   int
}

// Stats son los números crudos del análisis, siempre presentes.
type Stats struct {
	ActiveBatches       int
	BatchRemainingSum   decimal.Decimal
	ProductStock        decimal.Decimal
	TotalChanges        int
	ChangesWithoutBatch int
	OrphanChanges       int
	LegacySaleLines     int
}

// Report es el resultado del analizador: hallazgos clasificados + estadísticas.
// Solo lectura: el análisis nunca muta estado.
type Report struct {
	ProductID  string
	AnalyzedAt time.Time
	Issues     []Finding
	Warnings   []Finding
	Stats      Stats
}

// SaleLineRef es la vista mínima de una línea de venta que necesita el analizador.
type SaleLineRef struct {
	SaleID    string
	ItemID    string
	Kind      string // tracked | legacy
	CreatedAt time.Time
}

// Snapshot es la foto explícita sobre la que corre el análisis. El llamador la
// arma con lecturas del almacenamiento; aquí no hay caché ni recálculo reactivo.
type Snapshot struct {
	Product   *entity.Product
	Batches   []*entity.StockBatch
	Changes   []*entity.StockChange
	SaleLines []SaleLineRef
	Cutover   time.Time // corte de migración: sin lote antes = Warning, después = Issue
	Now       time.Time
}

// Analyze cruza agregados, lotes y libro mayor de un producto y clasifica las
// desviaciones. Los datos legacy anteriores al corte son Warning (esperables tras
// la migración); las mismas señales después del corte son Issue.
func Analyze(snap Snapshot) *Report {
	rep := &Report{
		ProductID:  snap.Product.ID,
		AnalyzedAt: snap.Now,
		Stats: Stats{
			BatchRemainingSum: decimal.Zero,
			ProductStock:      snap.Product.Stock,
			TotalChanges:      len(snap.Changes),
		},
	}

	// Lotes: suma de remanentes activos e invariantes por lote.
	batchByID := make(map[string]*entity.StockBatch, len(snap.Batches))
	brokenBatches := 0
	for _, b := range snap.Batches {
		batchByID[b.ID] = b
		if b.Active() {
			rep.Stats.ActiveBatches++
			rep.Stats.BatchRemainingSum = rep.Stats.BatchRemainingSum.Add(b.RemainingQuantity)
		}
		if !b.CheckInvariants() {
			brokenBatches++
		}
	}
	if brokenBatches > 0 {
		rep.Issues = append(rep.Issues, Finding{
			Code:    FindingBatchInvariant,
			Message: fmt.Sprintf("%d lote(s) violan sus invariantes de remanente/estado", brokenBatches),
			Count:   brokenBatches,
		})
	}

	// Agregado vs capas: solo exigible con seguimiento activo.
	if snap.Product.EnableBatchTracking {
		if !rep.Stats.BatchRemainingSum.Equal(snap.Product.Stock) {
			rep.Issues = append(rep.Issues, Finding{
				Code: FindingBatchSumMismatch,
				Message: fmt.Sprintf("suma de remanentes activos %s ≠ stock del producto %s",
					rep.Stats.BatchRemainingSum, snap.Product.Stock),
				Count: 1,
			})
		}
	} else if len(snap.Batches) > 0 {
		rep.Warnings = append(rep.Warnings, Finding{
			Code:    FindingTrackingSuspended,
			Message: "el producto tiene lotes históricos pero el seguimiento por lotes está apagado",
			Count:   len(snap.Batches),
		})
	}

	// Cambios sin lote y huérfanos.
	legacyChanges, untrackedChanges, orphans := 0, 0, 0
	for _, c := range snap.Changes {
		if !c.Tracked() {
			rep.Stats.ChangesWithoutBatch++
			if snap.Product.EnableBatchTracking {
				if c.CreatedAt.Before(snap.Cutover) {
					legacyChanges++
				} else {
					untrackedChanges++
				}
			}
			continue
		}
		if _, ok := batchByID[c.BatchID]; !ok {
			orphans++
		}
	}
	rep.Stats.OrphanChanges = orphans

	if legacyChanges > 0 {
		rep.Warnings = append(rep.Warnings, Finding{
			Code:    FindingLegacyChanges,
			Message: fmt.Sprintf("%d cambio(s) sin lote anteriores al corte de migración", legacyChanges),
			Count:   legacyChanges,
		})
	}
	if untrackedChanges > 0 {
		rep.Issues = append(rep.Issues, Finding{
			Code:    FindingUntrackedChanges,
			Message: fmt.Sprintf("%d cambio(s) sin lote posteriores al corte en un producto con seguimiento", untrackedChanges),
			Count:   untrackedChanges,
		})
	}
	if orphans > 0 {
		rep.Issues = append(rep.Issues, Finding{
			Code:    FindingOrphanChanges,
			Message: fmt.Sprintf("%d cambio(s) referencian lotes que no existen", orphans),
			Count:   orphans,
		})
	}

	// Líneas de venta legacy, con la misma clasificación por fecha de corte.
	legacyLines, untrackedLines := 0, 0
	for _, l := range snap.SaleLines {
		if l.Kind != entity.ConsumptionKindLegacy {
			continue
		}
		rep.Stats.LegacySaleLines++
		if snap.Product.EnableBatchTracking {
			if l.CreatedAt.Before(snap.Cutover) {
				legacyLines++
			} else {
				untrackedLines++
			}
		}
	}
	if legacyLines > 0 {
		rep.Warnings = append(rep.Warnings, Finding{
			Code:    FindingLegacySaleLines,
			Message: fmt.Sprintf("%d línea(s) de venta legacy anteriores al corte", legacyLines),
			Count:   legacyLines,
		})
	}
	if untrackedLines > 0 {
		rep.Issues = append(rep.Issues, Finding{
			Code:    FindingUntrackedSaleLines,
			Message: fmt.Sprintf("%d línea(s) de venta sin detalle de lotes posteriores al corte", untrackedLines),
			Count:   untrackedLines,
		})
	}

	return rep
}

// Clean indica si el análisis no encontró problemas (puede haber Warnings).
func (r *Report) Clean() bool { return len(r.Issues) == 0 }
