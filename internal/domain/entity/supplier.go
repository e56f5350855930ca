package entity

import "time"

// Estados de un proveedor. Uno inactivo no admite lotes nuevos pero los
// existentes siguen referenciándolo.
const (
	SupplierStatusActive   = "active"
	SupplierStatusInactive = "inactive"
)

// Supplier representa un proveedor del que provienen los lotes de stock.
type Supplier struct {
	ID        string
	CompanyID string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Phone     string
	Email     string
	Address   string
	Status    string // active, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active indica si el proveedor admite compras nuevas.
func (s *Supplier) Active() bool { return s.Status == SupplierStatusActive }
