package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sentido de la nota de movimiento.
const (
	NotaInbound  = "entrada"
	NotaOutbound = "saida"
)

// Estados de una nota.
const (
	NotaPending   = "pendente"
	NotaProcessed = "processada"
	NotaCancelled = "cancelada"
)

// Nota nota de entrada o salida con varias líneas (colecciones notasEntrada / notasSaida).
// Supplier e Invoice aplican a entradas; Recipient y Requester a salidas.
type Nota struct {
	ID          string           `json:"id"`
	Number      string           `json:"numeroNota"`
	OwnerID     string           `json:"empresaId"`
	Date        time.Time        `json:"data"`
	Actor       string           `json:"responsavel"`
	Reason      string           `json:"motivo"`
	Supplier    string           `json:"fornecedor,omitempty"`
	Invoice     string           `json:"notaFiscal,omitempty"`
	TotalValue  *decimal.Decimal `json:"valorTotal,omitempty"`
	Recipient   string           `json:"destinatario,omitempty"`
	Requester   string           `json:"solicitante,omitempty"`
	Status      string           `json:"status"`
	Items       []NotaItem       `json:"itens"`
	Notes       string           `json:"observacoes,omitempty"`
	ProcessedAt *time.Time       `json:"dataProcessamento,omitempty"`
}

// NotaItem línea de la nota.
type NotaItem struct {
	ID              string           `json:"id"`
	EquipmentTypeID string           `json:"tipoEPIId"`
	Quantity        int              `json:"quantidade"`
	UnitCost        *decimal.Decimal `json:"custoUnitario,omitempty"`
	Lot             string           `json:"lote,omitempty"`
	Notes           string           `json:"observacoes,omitempty"`
}

// ComputeTotal suma cantidad × costo unitario de las líneas con costo.
func (n *Nota) ComputeTotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range n.Items {
		if it.UnitCost == nil {
			continue
		}
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
