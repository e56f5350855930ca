package entity

import "time"

// Estados de una empresa. Una empresa suspendida conserva sus datos pero sus
// usuarios no pueden operar.
const (
	CompanyStatusActive    = "active"
	CompanyStatusSuspended = "suspended"
	CompanyStatusInactive  = "inactive"
)

// ValidCompanyStatus indica si s es un estado reconocido de empresa.
func ValidCompanyStatus(s string) bool {
	switch s {
	case CompanyStatusActive, CompanyStatusSuspended, CompanyStatusInactive:
		return true
	}
	return false
}

// Company representa una organización/tenant del sistema (multi-tenant, enfoque Colombia).
type Company struct {
	ID        string
	Name      string
	NIT       string // NIT colombiano (con o sin dígito de verificación)
	Address   string
	Phone     string
	Email     string
	Status    string // active, suspended, inactive
	CreatedAt time.Time
	UpdatedAt time.Time
}
