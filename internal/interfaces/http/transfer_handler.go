package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
)

// TransferHandler maneja las transferencias de stock entre ubicaciones (protegido).
type TransferHandler struct {
	uc *appinv.TransferUseCase
}

// NewTransferHandler construye el handler.
func NewTransferHandler(uc *appinv.TransferUseCase) *TransferHandler {
	return &TransferHandler{uc: uc}
}

// Create godoc
// @Summary      Crear transferencia
// @Description  Crea la transferencia en pending tras verificar disponibilidad en el
//
//	origen. Con complete_now=true se crea y completa en un solo paso.
//
// @Tags         transfers
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateTransferRequest  true  "product_id, quantity, source_location_id, destination_location_id, method_override, complete_now"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/transfers [post]
func (h *TransferHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateTransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	transfer, outcome, err := h.uc.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	if outcome != nil {
		// complete_now: la respuesta incluye los lotes creados en el destino
		return c.Status(fiber.StatusCreated).JSON(toCompleteTransferResponse(outcome))
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferResponse(transfer))
}

// List godoc
// @Summary      Listar transferencias
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado (pending|completed|cancelled)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.TransferListResponse
// @Router       /api/transfers [get]
func (h *TransferHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageFromQuery(c)
	transfers, err := h.uc.List(c.Context(), companyID, c.Query("status"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := dto.TransferListResponse{
		Items: make([]dto.TransferResponse, 0, len(transfers)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, t := range transfers {
		out.Items = append(out.Items, toTransferResponse(t))
	}
	return c.JSON(out)
}

// Complete godoc
// @Summary      Completar transferencia
// @Description  Consume en el origen según FIFO/LIFO y crea en el destino un lote por
//
//	cada capa consumida, preservando su costo unitario. Solo desde pending.
//
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.CompleteTransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/complete [post]
func (h *TransferHandler) Complete(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	outcome, err := h.uc.Complete(c.Context(), companyID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toCompleteTransferResponse(outcome))
}

// Cancel godoc
// @Summary      Cancelar transferencia
// @Description  Solo desde pending; una transferencia completada no se cancela.
// @Tags         transfers
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transferencia"
// @Success      200  {object}  dto.TransferResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transfers/{id}/cancel [post]
func (h *TransferHandler) Cancel(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	transfer, err := h.uc.Cancel(c.Context(), companyID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toTransferResponse(transfer))
}
