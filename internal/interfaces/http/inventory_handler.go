package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
)

// InventoryHandler maneja lotes, consumo, kardex y conciliación (protegido).
type InventoryHandler struct {
	batches   *appinv.BatchUseCase
	consume   *appinv.ConsumeStockUseCase
	kardex    *appinv.KardexUseCase
	reconcile *appinv.ReconciliationUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	batches *appinv.BatchUseCase,
	consume *appinv.ConsumeStockUseCase,
	kardex *appinv.KardexUseCase,
	reconcile *appinv.ReconciliationUseCase,
) *InventoryHandler {
	return &InventoryHandler{batches: batches, consume: consume, kardex: kardex, reconcile: reconcile}
}

// CreateBatch godoc
// @Summary      Registrar reposición (lote nuevo)
// @Description  Crea un lote con su capa de costo y la entrada correspondiente en el libro.
//
//	Con la misma reference la operación es idempotente: la repetición no crea nada.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateBatchRequest  true  "product_id, location_id, quantity, cost_price, supplier_id, is_credit, reference"
// @Success      201   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [post]
func (h *InventoryHandler) CreateBatch(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.batches.CreateBatch(c.Context(), companyID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	if out.Replayed {
		// referencia ya aplicada: no se creó nada
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"replayed": true})
	}
	if out.Batch == nil {
		// ruta legacy: producto sin seguimiento por lotes
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"replayed": false,
			"change":   toChangeResponse(out.Change),
		})
	}
	return c.Status(fiber.StatusCreated).JSON(toBatchResponse(out.Batch))
}

// ListBatches godoc
// @Summary      Listar lotes de un producto
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        product_id   query  string  true   "ID del producto"
// @Param        location_id  query  string  false  "Filtrar por ubicación"
// @Param        active       query  bool    false  "Solo lotes activos"  default(false)
// @Success      200  {array}   dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Query("product_id")
	if productID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	batches, err := h.batches.ListBatches(c.Context(), companyID, productID, c.Query("location_id"), c.QueryBool("active", false))
	if err != nil {
		return respondDomainError(c, err)
	}
	out := make([]dto.BatchResponse, 0, len(batches))
	for _, b := range batches {
		out = append(out, toBatchResponse(b))
	}
	return c.JSON(out)
}

// CorrectBatch godoc
// @Summary      Corregir lote registrado por error
// @Description  Marca el lote como corrected, anula su remanente y asienta la salida
//
//	de corrección en el libro. El historial del lote no se borra.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.StockChangeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id}/correct [post]
func (h *InventoryHandler) CorrectBatch(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	change, err := h.batches.CorrectBatch(c.Context(), companyID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toChangeResponse(change))
}

// Allocate godoc
// @Summary      Planificar consumo (dry-run)
// @Description  Calcula el plan FIFO/LIFO que satisfaría el retiro sin aplicar nada.
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AllocateConsumptionRequest  true  "product_id, location_id, quantity, method"
// @Success      200   {object}  dto.ConsumptionPlanResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/consumption/allocate [post]
func (h *InventoryHandler) Allocate(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.AllocateConsumptionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	plan, err := h.consume.Allocate(c.Context(), companyID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toPlanResponse(plan))
}

// Consume godoc
// @Summary      Consumir stock (retiro real)
// @Description  Aplica el plan de consumo de forma atómica. Reusar la misma reference
//
//	es un no-op: la respuesta indica replayed=true.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ConsumeStockRequest  true  "product_id, location_id, quantity, reason, reference"
// @Success      201   {object}  dto.ConsumeStockResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/consumption [post]
func (h *InventoryHandler) Consume(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ConsumeStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	outcome, err := h.consume.Consume(c.Context(), companyID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	status := fiber.StatusCreated
	if outcome.Replayed {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(toConsumeResponse(outcome))
}

// Kardex godoc
// @Summary      Kardex de un producto
// @Description  Historial de movimientos con saldo corrido, reconstruido desde el libro.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path   string  true   "ID del producto"
// @Param        from       query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to         query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200  {object}  dto.KardexResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex/{productId} [get]
func (h *InventoryHandler) Kardex(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, formato YYYY-MM-DD"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, formato YYYY-MM-DD"})
	}
	report, err := h.kardex.Movements(c.Context(), companyID, c.Params("productId"), from, to)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toKardexResponse(report))
}

// KardexPDF godoc
// @Summary      Descargar kardex en PDF
// @Tags         inventory
// @Security     Bearer
// @Produce      application/pdf
// @Param        productId  path   string  true   "ID del producto"
// @Param        from       query  string  false  "Fecha inicial (YYYY-MM-DD)"
// @Param        to         query  string  false  "Fecha final (YYYY-MM-DD)"
// @Success      200  {file}    binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/kardex/{productId}/pdf [get]
func (h *InventoryHandler) KardexPDF(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	from, err := parseDateQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido, formato YYYY-MM-DD"})
	}
	to, err := parseDateQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido, formato YYYY-MM-DD"})
	}
	data, filename, err := h.kardex.DownloadPDF(c.Context(), companyID, c.Params("productId"), from, to)
	if err != nil {
		return respondDomainError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(data)
}

// Reconcile godoc
// @Summary      Análisis de consistencia de un producto
// @Description  Compara el agregado del producto contra la suma de lotes activos y
//
//	clasifica los cambios sin lote según la fecha de corte. Solo lectura.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.ReconciliationResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation/{productId} [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	report, err := h.reconcile.Analyze(c.Context(), companyID, c.Params("productId"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toReconciliationResponse(report))
}

// PurgeLegacy godoc
// @Summary      Purgar cambios legacy de un producto (solo admin)
// @Description  Elimina los cambios sin lote anteriores a la fecha de corte de la
//
//	migración. Única eliminación sancionada sobre el libro.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        productId  path  string  true  "ID del producto"
// @Success      200  {object}  dto.PurgeLegacyResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconciliation/{productId}/legacy-changes [delete]
func (h *InventoryHandler) PurgeLegacy(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	productID := c.Params("productId")
	deleted, err := h.reconcile.PurgeLegacy(c.Context(), companyID, userID, productID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(dto.PurgeLegacyResponse{
		ProductID: productID,
		Deleted:   deleted,
		Cutover:   h.reconcile.Cutover(),
	})
}

// parseDateQuery interpreta fechas YYYY-MM-DD (o RFC3339) de query params.
func parseDateQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
