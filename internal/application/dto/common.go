package dto

// PageRequest parámetros de paginación que llegan por query string.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Normalize deja la página en rangos servibles: limit entre 1 y 100 (20 por
// defecto) y offset no negativo.
func (p *PageRequest) Normalize() {
	if p.Limit <= 0 {
		p.Limit = 20
	}
	if p.Limit > 100 {
		p.Limit = 100
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// PageResponse metadatos de página que acompañan un listado.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total,omitempty"`
}

// ErrorResponse cuerpo uniforme de error: Code es estable para que el cliente
// pueda hacer switch, Message va en lenguaje de negocio.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
