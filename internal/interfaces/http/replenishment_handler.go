package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
	appinv "github.com/tu-usuario/kardex-pro/internal/application/inventory"
)

// ReplenishmentHandler maneja las solicitudes de reposición de tienda (protegido).
type ReplenishmentHandler struct {
	uc *appinv.ReplenishmentUseCase
}

// NewReplenishmentHandler construye el handler.
func NewReplenishmentHandler(uc *appinv.ReplenishmentUseCase) *ReplenishmentHandler {
	return &ReplenishmentHandler{uc: uc}
}

// Create godoc
// @Summary      Crear solicitud de reposición
// @Description  Una tienda pide stock. La solicitud nace en pending y no mueve nada.
// @Tags         replenishments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateReplenishmentRequest  true  "shop_id, product_id, quantity"
// @Success      201   {object}  dto.ReplenishmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/replenishments [post]
func (h *ReplenishmentHandler) Create(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.CreateReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.uc.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReplenishmentResponse(request))
}

// List godoc
// @Summary      Listar solicitudes de reposición
// @Tags         replenishments
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "Filtrar por estado (pending|approved|rejected|fulfilled)"
// @Param        limit   query  int     false  "Límite"   default(20)
// @Param        offset  query  int     false  "Offset"   default(0)
// @Success      200  {object}  dto.ReplenishmentListResponse
// @Router       /api/replenishments [get]
func (h *ReplenishmentHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit, offset := pageFromQuery(c)
	requests, err := h.uc.List(c.Context(), companyID, c.Query("status"), limit, offset)
	if err != nil {
		return respondDomainError(c, err)
	}
	out := dto.ReplenishmentListResponse{
		Items: make([]dto.ReplenishmentResponse, 0, len(requests)),
		Page:  dto.PageResponse{Limit: limit, Offset: offset},
	}
	for _, r := range requests {
		out.Items = append(out.Items, toReplenishmentResponse(r))
	}
	return c.JSON(out)
}

// Approve godoc
// @Summary      Aprobar solicitud
// @Description  Puerta de autorización: no mueve stock. Solo desde pending.
// @Tags         replenishments
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la solicitud"
// @Success      200  {object}  dto.ReplenishmentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/approve [post]
func (h *ReplenishmentHandler) Approve(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	request, err := h.uc.Approve(c.Context(), companyID, userID, c.Params("id"))
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toReplenishmentResponse(request))
}

// Reject godoc
// @Summary      Rechazar solicitud
// @Description  Estado final con motivo obligatorio. Solo desde pending.
// @Tags         replenishments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.RejectReplenishmentRequest  true  "reason"
// @Success      200   {object}  dto.ReplenishmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/reject [post]
func (h *ReplenishmentHandler) Reject(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RejectReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	request, err := h.uc.Reject(c.Context(), companyID, userID, c.Params("id"), in.Reason)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toReplenishmentResponse(request))
}

// Fulfill godoc
// @Summary      Cumplir solicitud con una transferencia
// @Description  Liga la solicitud aprobada a la transferencia que mueve el stock.
//
//	La transferencia debe coincidir en producto, cantidad y destino; si
//	sigue pending se completa aquí mismo.
//
// @Tags         replenishments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID de la solicitud"
// @Param        body  body  dto.FulfillReplenishmentRequest  true  "transfer_id"
// @Success      200   {object}  dto.ReplenishmentResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/replenishments/{id}/fulfill [post]
func (h *ReplenishmentHandler) Fulfill(c *fiber.Ctx) error {
	companyID, userID := GetCompanyID(c), GetUserID(c)
	if companyID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.FulfillReplenishmentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.TransferID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "transfer_id es requerido"})
	}
	request, _, err := h.uc.Fulfill(c.Context(), companyID, userID, c.Params("id"), in.TransferID)
	if err != nil {
		return respondDomainError(c, err)
	}
	return c.JSON(toReplenishmentResponse(request))
}
