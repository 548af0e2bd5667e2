package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockEvent entrada inmutable del historial de stock (colección historicoEstoque).
type StockEvent struct {
	ID               string             `json:"id"`
	StockItemID      string             `json:"itemEstoqueId"`
	EquipmentTypeID  string             `json:"tipoEPIId,omitempty"`
	Kind             string             `json:"tipo"`
	Date             time.Time          `json:"data"`
	Actor            string             `json:"responsavel"`
	Description      string             `json:"descricao"`
	Quantity         int                `json:"quantidade"`
	PreviousQuantity int                `json:"quantidadeAnterior"`
	CurrentQuantity  int                `json:"quantidadeAtual"`
	Reason           string             `json:"motivo,omitempty"`
	Details          *StockEventDetails `json:"detalhes,omitempty"`
}

// StockEventDetails referencias opcionales del evento.
type StockEventDetails struct {
	DeliveryID   string           `json:"entregaId,omitempty"`
	FichaID      string           `json:"fichaEPIId,omitempty"`
	EmployeeName string           `json:"colaboradorNome,omitempty"`
	NotaID       string           `json:"notaId,omitempty"`
	Invoice      string           `json:"notaFiscal,omitempty"`
	UnitCost     *decimal.Decimal `json:"custoUnitario,omitempty"`
	Supplier     string           `json:"fornecedor,omitempty"`
	Lot          string           `json:"lote,omitempty"`
	Notes        string           `json:"observacoes,omitempty"`
}

// Delta variación firmada registrada por el evento.
func (e *StockEvent) Delta() int {
	return e.CurrentQuantity - e.PreviousQuantity
}
