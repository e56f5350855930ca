package entity

import "time"

// Tipos de ubicación de almacenamiento.
const (
	LocationKindWarehouse  = "warehouse"  // bodega central
	LocationKindShop       = "shop"       // punto de venta
	LocationKindProduction = "production" // planta de producción
)

// ValidLocationKind indica si k es un tipo de ubicación reconocido.
func ValidLocationKind(k string) bool {
	return k == LocationKindWarehouse || k == LocationKindShop || k == LocationKindProduction
}

// Location representa un sitio físico donde se almacena inventario:
// bodega, tienda o planta de producción (multi-ubicación por empresa).
type Location struct {
	ID        string
	CompanyID string
	Name      string
	Kind      string // warehouse | shop | production
	Address   string
	CreatedAt time.Time
	UpdatedAt time.Time
}
