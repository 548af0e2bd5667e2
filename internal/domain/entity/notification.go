package entity

import "time"

// Tipos de notificación.
const (
	NotificationAlert     = "alerta"
	NotificationInfo      = "informacao"
	NotificationImportant = "importante"
	NotificationExpired   = "vencimento"
	NotificationLowStock  = "estoque_baixo"
	NotificationExpiring  = "vencendo"
)

// Notification aviso mostrado en el panel (colección notificacoes).
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"titulo"`
	Message   string    `json:"mensagem"`
	Kind      string    `json:"tipo"`
	Date      time.Time `json:"data"`
	Read      bool      `json:"lida"`
	Link      string    `json:"link,omitempty"`
	UserID    string    `json:"usuarioId,omitempty"`
	CompanyID string    `json:"empresaId,omitempty"`
}
