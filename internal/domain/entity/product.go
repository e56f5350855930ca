package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Métodos de consumo de inventario por capas de costo.
const (
	MethodFIFO = "FIFO" // primero en entrar, primero en salir
	MethodLIFO = "LIFO" // último en entrar, primero en salir
)

// ValidMethod indica si m es un método de inventario reconocido.
func ValidMethod(m string) bool { return m == MethodFIFO || m == MethodLIFO }

// Product representa un producto o SKU del inventario (multi-ubicación).
// Stock es el total denormalizado sobre todas las ubicaciones; la verdad por capas
// vive en los StockBatch cuando EnableBatchTracking está activo.
// Cost es el costo promedio ponderado de referencia (solo reportes; la asignación
// de costos siempre usa el costPrice de cada lote).
type Product struct {
	ID                  string
	CompanyID           string
	SKU                 string // código único por empresa
	Name                string
	Description         string
	Price               decimal.Decimal // precio de venta
	Cost                decimal.Decimal // costo promedio ponderado (inicia en 0)
	Stock               decimal.Decimal // total denormalizado
	InventoryMethod     string          // FIFO | LIFO
	EnableBatchTracking bool            // false = ruta legacy: solo Stock agregado, cambios sin lote
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
