package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/kardex-pro/internal/application/dto"
)

// pageFromQuery lee limit/offset de la query string y los normaliza. Una
// query malformada cae en los valores por defecto.
func pageFromQuery(c *fiber.Ctx) (limit, offset int) {
	var page dto.PageRequest
	_ = c.QueryParser(&page)
	page.Normalize()
	return page.Limit, page.Offset
}
