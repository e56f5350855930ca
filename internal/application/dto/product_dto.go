package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateProductRequest entrada para crear un producto.
type CreateProductRequest struct {
	SKU                 string          `json:"sku" validate:"required,min=1,max=100"`
	Name                string          `json:"name" validate:"required,min=1,max=200"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	InventoryMethod     string          `json:"inventory_method" validate:"required,oneof=FIFO LIFO"`
	EnableBatchTracking bool            `json:"enable_batch_tracking"`
}

// UpdateProductRequest entrada para actualizar un producto (sin Cost ni Stock: los mueve el motor).
type UpdateProductRequest struct {
	Name                *string          `json:"name" validate:"omitempty,min=1,max=200"`
	Description         *string          `json:"description"`
	Price               *decimal.Decimal `json:"price"`
	InventoryMethod     *string          `json:"inventory_method" validate:"omitempty,oneof=FIFO LIFO"`
	EnableBatchTracking *bool            `json:"enable_batch_tracking"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID                  string          `json:"id"`
	CompanyID           string          `json:"company_id"`
	SKU                 string          `json:"sku"`
	Name                string          `json:"name"`
	Description         string          `json:"description"`
	Price               decimal.Decimal `json:"price"`
	Cost                decimal.Decimal `json:"cost"`
	Stock               decimal.Decimal `json:"stock"`
	InventoryMethod     string          `json:"inventory_method"`
	EnableBatchTracking bool            `json:"enable_batch_tracking"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
