package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// InboundRequest body para POST /api/stock/:id/inbound.
type InboundRequest struct {
	Quantity int              `json:"quantity" validate:"required,gt=0"`
	Actor    string           `json:"actor" validate:"required"`
	Reason   string           `json:"reason" validate:"required"`
	Kind     string           `json:"kind,omitempty" validate:"omitempty,oneof=entrada devolucao"`
	Invoice  string           `json:"invoice,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Supplier string           `json:"supplier,omitempty"`
	Lot      string           `json:"lot,omitempty"`
	Notes    string           `json:"notes,omitempty"`
}

// OutboundRequest body para POST /api/stock/:id/outbound.
type OutboundRequest struct {
	Quantity   int    `json:"quantity" validate:"required,gt=0"`
	Actor      string `json:"actor" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
	Kind       string `json:"kind,omitempty" validate:"omitempty,oneof=saida perda vencimento"`
	DeliveryID string `json:"delivery_id,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// AdjustRequest body para POST /api/stock/:id/adjust.
type AdjustRequest struct {
	NewQuantity *int   `json:"new_quantity" validate:"required,gte=0"`
	Actor       string `json:"actor" validate:"required"`
	Reason      string `json:"reason" validate:"required"`
	Notes       string `json:"notes,omitempty"`
}

// StockItemDTO ítem de stock con el estado derivado al momento de la lectura.
type StockItemDTO struct {
	ID              string           `json:"id"`
	EquipmentTypeID string           `json:"equipment_type_id"`
	EquipmentName   string           `json:"equipment_name"`
	CANumber        string           `json:"ca_number,omitempty"`
	OwnerID         string           `json:"owner_id"`
	Quantity        int              `json:"quantity"`
	MinQuantity     int              `json:"min_quantity"`
	Location        string           `json:"location"`
	Lot             string           `json:"lot,omitempty"`
	ExpiryDate      string           `json:"expiry_date,omitempty"`
	Status          string           `json:"status"`
	ExpiringSoon    bool             `json:"expiring_soon"`
	DaysToExpiry    *int             `json:"days_to_expiry,omitempty"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Supplier        string           `json:"supplier,omitempty"`
	LastMovementAt  *time.Time       `json:"last_movement_at,omitempty"`
}

// StockSummaryDTO totales del inventario.
type StockSummaryDTO struct {
	TotalItems   int             `json:"total_items"`
	TotalUnits   int             `json:"total_units"`
	TotalValue   decimal.Decimal `json:"total_value"` // Σ cantidad × costo unitario (ítems con costo y cantidad positiva)
	ByStatus     map[string]int  `json:"by_status"`
	ExpiringSoon int             `json:"expiring_soon"`
	Negative     int             `json:"negative"`
}

// StockAlertsDTO ítems que requieren atención.
type StockAlertsDTO struct {
	LowStock []StockItemDTO `json:"low_stock"`
	Expired  []StockItemDTO `json:"expired"`
	Expiring []StockItemDTO `json:"expiring"`
}

// ReplenishmentSuggestionDTO sugerencia de compra para un ítem en o bajo su mínimo.
type ReplenishmentSuggestionDTO struct {
	StockItemID        string          `json:"stock_item_id"`
	EquipmentTypeID    string          `json:"equipment_type_id"`
	EquipmentName      string          `json:"equipment_name"`
	CANumber           string          `json:"ca_number,omitempty"`
	Location           string          `json:"location"`
	CurrentStock       int             `json:"current_stock"`
	MinQuantity        int             `json:"min_quantity"`
	IdealStock         int             `json:"ideal_stock"`         // MinQuantity * 1.5, redondeado hacia arriba
	SuggestedOrderQty  int             `json:"suggested_order_qty"` // IdealStock - CurrentStock
	UnitCost           decimal.Decimal `json:"unit_cost"`
	EstimatedOrderCost decimal.Decimal `json:"estimated_order_cost"`
	Priority           int             `json:"priority"` // 1 = más urgente
}

// NotaItemRequest línea de una nota.
type NotaItemRequest struct {
	EquipmentTypeID string           `json:"equipment_type_id" validate:"required"`
	Quantity        int              `json:"quantity" validate:"required,gt=0"`
	UnitCost        *decimal.Decimal `json:"unit_cost,omitempty"`
	Lot             string           `json:"lot,omitempty"`
	Notes           string           `json:"notes,omitempty"`
}

// NotaRequest body para POST /api/notas/:kind.
type NotaRequest struct {
	Actor     string            `json:"actor" validate:"required"`
	Reason    string            `json:"reason" validate:"required"`
	Notes     string            `json:"notes,omitempty"`
	Supplier  string            `json:"supplier,omitempty"`
	Invoice   string            `json:"invoice,omitempty"`
	Recipient string            `json:"recipient,omitempty"`
	Requester string            `json:"requester,omitempty"`
	Items     []NotaItemRequest `json:"items" validate:"required,min=1,dive"`
}

// NotaUpdateRequest body para PUT /api/notas/:kind/:id. Los campos vacíos conservan su valor.
type NotaUpdateRequest struct {
	Actor     string            `json:"actor,omitempty"`
	Reason    string            `json:"reason,omitempty"`
	Notes     string            `json:"notes,omitempty"`
	Supplier  string            `json:"supplier,omitempty"`
	Invoice   string            `json:"invoice,omitempty"`
	Recipient string            `json:"recipient,omitempty"`
	Requester string            `json:"requester,omitempty"`
	Items     []NotaItemRequest `json:"items" validate:"required,min=1,dive"`
}
