package http

import (
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
	"github.com/tu-usuario/kardex-pro/internal/domain/entity"
	"github.com/tu-usuario/kardex-pro/internal/domain/inventory"
)

// Mapeo entidad → DTO de respuesta. Los use cases de inventario devuelven
// entidades; la vista JSON se arma aquí.

func toBatchResponse(b *entity.StockBatch) dto.BatchResponse {
	return dto.BatchResponse{
		ID:                b.ID,
		ProductID:         b.ProductID,
		LocationID:        b.LocationID,
		Quantity:          b.Quantity,
		RemainingQuantity: b.RemainingQuantity,
		CostPrice:         b.CostPrice,
		SupplierID:        b.SupplierID,
		IsCredit:          b.IsCredit,
		Status:            b.Status,
		CreatedAt:         b.CreatedAt,
	}
}

func toChangeResponse(ch *entity.StockChange) dto.StockChangeResponse {
	return dto.StockChangeResponse{
		ID:         ch.ID,
		ProductID:  ch.ProductID,
		LocationID: ch.LocationID,
		BatchID:    ch.BatchID,
		Change:     ch.Change,
		Reason:     ch.Reason,
		Reference:  ch.Reference,
		CostPrice:  ch.CostPrice,
		CreatedAt:  ch.CreatedAt,
	}
}

func toPlanResponse(plan *inventory.ConsumptionPlan) dto.ConsumptionPlanResponse {
	lines := make([]dto.PlanLineResponse, 0, len(plan.Lines))
	for _, l := range plan.Lines {
		lines = append(lines, dto.PlanLineResponse{
			BatchID:  l.BatchID,
			Quantity: l.Quantity,
			UnitCost: l.UnitCost,
		})
	}
	return dto.ConsumptionPlanResponse{
		ProductID:  plan.ProductID,
		LocationID: plan.LocationID,
		Method:     plan.Method,
		Requested:  plan.Requested,
		Lines:      lines,
		TotalCost:  plan.TotalCost,
	}
}

func toConsumeResponse(out *appinv.ConsumeOutcome) dto.ConsumeStockResponse {
	resp := dto.ConsumeStockResponse{
		Replayed:  out.Replayed,
		TotalCost: out.TotalCost,
		Changes:   make([]dto.StockChangeResponse, 0, len(out.Changes)),
	}
	if out.Plan != nil {
		plan := toPlanResponse(out.Plan)
		resp.Plan = &plan
	}
	for _, ch := range out.Changes {
		resp.Changes = append(resp.Changes, toChangeResponse(ch))
	}
	return resp
}

func toKardexResponse(report *appinv.KardexReport) dto.KardexResponse {
	rows := make([]dto.KardexRowResponse, 0, len(report.Rows))
	for _, r := range report.Rows {
		rows = append(rows, dto.KardexRowResponse{
			Date:      r.Date,
			Reason:    r.Reason,
			Reference: r.Reference,
			BatchID:   r.BatchID,
			In:        r.In,
			Out:       r.Out,
			Balance:   r.Balance,
			CostPrice: r.CostPrice,
		})
	}
	return dto.KardexResponse{
		ProductID:   report.Product.ID,
		ProductName: report.Product.Name,
		Rows:        rows,
		Balance:     report.ClosingBalance,
	}
}

func toFindingResponses(findings []inventory.Finding) []dto.FindingResponse {
	out := make([]dto.FindingResponse, 0, len(findings))
	for _, f := range findings {
		out = append(out, dto.FindingResponse{Code: f.Code, Message: f.Message, Count: f.Count})
	}
	return out
}

func toReconciliationResponse(report *inventory.Report) dto.ReconciliationResponse {
	return dto.ReconciliationResponse{
		ProductID:  report.ProductID,
		AnalyzedAt: report.AnalyzedAt,
		Clean:      report.Clean(),
		Issues:     toFindingResponses(report.Issues),
		Warnings:   toFindingResponses(report.Warnings),
		Stats: dto.ReconciliationStatsResponse{
			ActiveBatches:       report.Stats.ActiveBatches,
			BatchRemainingSum:   report.Stats.BatchRemainingSum,
			ProductStock:        report.Stats.ProductStock,
			TotalChanges:        report.Stats.TotalChanges,
			ChangesWithoutBatch: report.Stats.ChangesWithoutBatch,
			OrphanChanges:       report.Stats.OrphanChanges,
			LegacySaleLines:     report.Stats.LegacySaleLines,
		},
	}
}

func toTransferResponse(t *entity.StockTransfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:                    t.ID,
		TransferType:          t.TransferType,
		ProductID:             t.ProductID,
		Quantity:              t.Quantity,
		SourceLocationID:      t.SourceLocationID,
		DestinationLocationID: t.DestinationLocationID,
		MethodOverride:        t.MethodOverride,
		Status:                t.Status,
		CreatedAt:             t.CreatedAt,
		CompletedAt:           t.CompletedAt,
	}
}

func toCompleteTransferResponse(out *appinv.CompleteOutcome) dto.CompleteTransferResponse {
	batches := make([]dto.BatchResponse, 0, len(out.DestinationBatches))
	for _, b := range out.DestinationBatches {
		batches = append(batches, toBatchResponse(b))
	}
	return dto.CompleteTransferResponse{
		Transfer:           toTransferResponse(out.Transfer),
		DestinationBatches: batches,
		TotalCost:          out.TotalCost,
	}
}

func toReplenishmentResponse(r *entity.StockReplenishmentRequest) dto.ReplenishmentResponse {
	return dto.ReplenishmentResponse{
		ID:              r.ID,
		ShopID:          r.ShopID,
		ProductID:       r.ProductID,
		Quantity:        r.Quantity,
		Status:          r.Status,
		TransferID:      r.TransferID,
		RejectionReason: r.RejectionReason,
		CreatedAt:       r.CreatedAt,
		FulfilledAt:     r.FulfilledAt,
	}
}

func toSaleResponse(s *entity.Sale) dto.SaleResponse {
	items := make([]dto.SaleItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		item := dto.SaleItemResponse{
			ID:          it.ID,
			ProductID:   it.ProductID,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			Subtotal:    it.Subtotal,
			Consumption: it.Consumption.Kind,
		}
		for _, e := range it.Consumption.Entries {
			item.Entries = append(item.Entries, dto.ConsumptionEntryResponse{
				BatchID:   e.BatchID,
				Quantity:  e.Quantity,
				CostPrice: e.CostPrice,
			})
		}
		items = append(items, item)
	}
	return dto.SaleResponse{
		ID:         s.ID,
		LocationID: s.LocationID,
		Number:     s.Number,
		Total:      s.Total,
		TotalCost:  s.TotalCost,
		Profit:     s.Profit(),
		CreatedAt:  s.CreatedAt,
		Items:      items,
	}
}
