package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados derivados de un ítem de stock.
const (
	StockStatusAvailable = "disponivel"
	StockStatusLow       = "baixo_estoque"
	StockStatusExpired   = "vencido"
	StockStatusEmpty     = "esgotado"
)

// Dueño y ubicación del almacén central.
const (
	CentralWarehouseID       = "almoxarifado"
	CentralWarehouseLocation = "Almoxarifado Central"
)

// StockItem un lote de un tipo de EPI en una ubicación (colección estoque).
// Quantity puede quedar negativa: las salidas no se bloquean por falta de stock.
// ExpiryDate se conserva como texto (YYYY-MM-DD o ISO-8601) y se interpreta al leer.
type StockItem struct {
	ID              string           `json:"id"`
	EquipmentTypeID string           `json:"tipoEPIId"`
	OwnerID         string           `json:"empresaId"`
	Quantity        int              `json:"quantidade"`
	MinQuantity     int              `json:"quantidadeMinima"`
	Location        string           `json:"localizacao"`
	Lot             string           `json:"lote,omitempty"`
	ExpiryDate      string           `json:"dataValidade,omitempty"`
	Status          string           `json:"status,omitempty"`
	UnitCost        *decimal.Decimal `json:"custoUnitario,omitempty"`
	Supplier        string           `json:"fornecedor,omitempty"`
	LastMovementAt  *time.Time       `json:"dataUltimaMovimentacao,omitempty"`
}

// IsCentral indica si el ítem pertenece al almacén central.
func (s *StockItem) IsCentral() bool {
	return s.OwnerID == CentralWarehouseID
}
