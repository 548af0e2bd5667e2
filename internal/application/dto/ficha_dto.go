package dto

import "time"

// CreateFichaRequest body para POST /api/fichas.
type CreateFichaRequest struct {
	EmployeeID string `json:"employee_id" validate:"required"`
	CompanyID  string `json:"company_id,omitempty"` // por defecto la empresa del colaborador
	ExpiresAt  string `json:"expires_at,omitempty"` // YYYY-MM-DD; por defecto un año
	Actor      string `json:"actor" validate:"required"`
}

// UpdateFichaStatusRequest body para PATCH /api/fichas/:id/status.
type UpdateFichaStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ativo suspenso arquivado"`
	Actor  string `json:"actor" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// DeactivateItemRequest body para POST /api/fichas/:id/items/:itemId/deactivate.
type DeactivateItemRequest struct {
	Status string `json:"status" validate:"required,oneof=danificado perdido"`
	Actor  string `json:"actor" validate:"required"`
	Reason string `json:"reason,omitempty"`
}

// FichaItemResponse ítem entregado.
type FichaItemResponse struct {
	ID              string `json:"id"`
	EquipmentTypeID string `json:"equipment_type_id"`
	EquipmentName   string `json:"equipment_name,omitempty"`
	Quantity        int    `json:"quantity"`
	DeliveredAt     string `json:"delivered_at"`
	ExpiresAt       string `json:"expires_at"`
	Status          string `json:"status"`
	DeliveryID      string `json:"delivery_id"`
	Notes           string `json:"notes,omitempty"`
}

// FichaResponse ficha de EPIs con su estado a mostrar.
type FichaResponse struct {
	ID            string              `json:"id"`
	EmployeeID    string              `json:"employee_id"`
	EmployeeName  string              `json:"employee_name,omitempty"`
	CompanyID     string              `json:"company_id"`
	IssuedAt      string              `json:"issued_at"`
	ExpiresAt     string              `json:"expires_at"`
	Status        string              `json:"status"`
	DisplayStatus string              `json:"display_status"`
	Items         []FichaItemResponse `json:"items"`
	ActiveUnits   int                 `json:"active_units"`
}

// HistoricoResponse evento del historial de la ficha.
type HistoricoResponse struct {
	ID          string    `json:"id"`
	FichaID     string    `json:"ficha_id"`
	Kind        string    `json:"kind"`
	Date        time.Time `json:"date"`
	Actor       string    `json:"actor"`
	Description string    `json:"description"`
	DeliveryID  string    `json:"delivery_id,omitempty"`
	ItemID      string    `json:"item_id,omitempty"`
	Equipment   []string  `json:"equipment,omitempty"`
	Quantities  []int     `json:"quantities,omitempty"`
	StockNotes  []string  `json:"stock_notes,omitempty"`
}
