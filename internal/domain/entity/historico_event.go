package entity

import "time"

// Tipos de evento del historial de la ficha.
const (
	HistoricoFichaCreated    = "ficha_criada"
	HistoricoDeliveryCreated = "entrega_criada"
	HistoricoDeliveryEdited  = "entrega_editada"
	HistoricoDeliveryDeleted = "entrega_excluida"
	HistoricoItemReturned    = "item_devolvido"
	HistoricoItemDeactivated = "item_desativado"
	HistoricoFichaStatus     = "ficha_status"
)

// HistoricoEvent entrada del historial de una ficha (colección historico).
type HistoricoEvent struct {
	ID          string            `json:"id"`
	FichaID     string            `json:"fichaEPIId"`
	Kind        string            `json:"tipo"`
	Date        time.Time         `json:"data"`
	Actor       string            `json:"responsavel"`
	Description string            `json:"descricao"`
	Details     *HistoricoDetails `json:"detalhes,omitempty"`
}

// HistoricoDetails referencias y resumen de equipos afectados.
type HistoricoDetails struct {
	DeliveryID string   `json:"entregaId,omitempty"`
	ItemID     string   `json:"itemId,omitempty"`
	Equipment  []string `json:"equipamentos,omitempty"`
	Quantities []int    `json:"quantidades,omitempty"`
	StockNotes []string `json:"observacoesEstoque,omitempty"`
}
