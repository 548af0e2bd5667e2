package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de movimiento del ledger de stock.
const (
	MovementInbound      = "entrada"
	MovementOutbound     = "saida"
	MovementDelivery     = "entrega"
	MovementAdjustment   = "ajuste"
	MovementReturn       = "devolucao"
	MovementLoss         = "perda"
	MovementExpiry       = "vencimento"
	MovementRegistration = "cadastro"
)

// IsInboundKind indica si el tipo suma unidades al stock.
func IsInboundKind(kind string) bool {
	return kind == MovementInbound || kind == MovementReturn
}

// IsOutboundKind indica si el tipo resta unidades al stock.
func IsOutboundKind(kind string) bool {
	switch kind {
	case MovementOutbound, MovementDelivery, MovementLoss, MovementExpiry:
		return true
	}
	return false
}

// StockMovement registro de movimiento (colección movimentacoesEstoque).
// Quantity es siempre positiva; el sentido lo dan Kind y las cantidades anterior/actual.
type StockMovement struct {
	ID               string           `json:"id"`
	StockItemID      string           `json:"itemEstoqueId"`
	Kind             string           `json:"tipo"`
	Quantity         int              `json:"quantidade"`
	PreviousQuantity int              `json:"quantidadeAnterior"`
	CurrentQuantity  int              `json:"quantidadeAtual"`
	ActorID          string           `json:"responsavelId"`
	Reason           string           `json:"motivo"`
	Date             time.Time        `json:"data"`
	Notes            string           `json:"observacoes,omitempty"`
	Invoice          string           `json:"notaFiscal,omitempty"`
	UnitCost         *decimal.Decimal `json:"custoUnitario,omitempty"`
	DeliveryID       string           `json:"entregaId,omitempty"`
	Lot              string           `json:"lote,omitempty"`
}

// Delta variación firmada producida por el movimiento.
func (m *StockMovement) Delta() int {
	return m.CurrentQuantity - m.PreviousQuantity
}
