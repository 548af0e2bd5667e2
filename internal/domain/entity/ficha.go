package entity

import "time"

// Estados de la ficha de EPI. FichaStatusExpired solo se deriva para mostrar.
const (
	FichaStatusActive    = "ativo"
	FichaStatusExpired   = "vencido"
	FichaStatusSuspended = "suspenso"
	FichaStatusArchived  = "arquivado"
)

// Estados de un ítem entregado dentro de la ficha.
const (
	FichaItemDelivered = "entregue"
	FichaItemReturned  = "devolvido"
	FichaItemDamaged   = "danificado"
	FichaItemLost      = "perdido"
)

// Ficha ficha de control de EPIs de un colaborador (colección fichasEPI).
type Ficha struct {
	ID         string      `json:"id"`
	EmployeeID string      `json:"colaboradorId"`
	CompanyID  string      `json:"empresaId"`
	IssuedAt   string      `json:"dataEmissao"`
	ExpiresAt  string      `json:"dataValidade"`
	Status     string      `json:"status"`
	Items      []FichaItem `json:"itens"`
}

// FichaItem ítem entregado, etiquetado con la entrega que lo generó.
type FichaItem struct {
	ID              string `json:"id"`
	EquipmentTypeID string `json:"tipoEPIId"`
	Quantity        int    `json:"quantidade"`
	DeliveredAt     string `json:"dataEntrega"`
	ExpiresAt       string `json:"dataValidade"`
	Status          string `json:"status"`
	DeliveryID      string `json:"entregaId"`
	Notes           string `json:"observacoes,omitempty"`
}

// DisplayStatus estado a mostrar: una ficha activa con validez pasada se muestra vencida.
// Una fecha ausente o ilegible no vence la ficha.
func (f *Ficha) DisplayStatus(now time.Time) string {
	if f.Status != FichaStatusActive {
		return f.Status
	}
	if exp, ok := ParseDate(f.ExpiresAt); ok && exp.Before(now) {
		return FichaStatusExpired
	}
	return f.Status
}

// ItemsForDelivery ítems producidos por la entrega indicada.
func (f *Ficha) ItemsForDelivery(deliveryID string) []FichaItem {
	var out []FichaItem
	for _, it := range f.Items {
		if it.DeliveryID == deliveryID {
			out = append(out, it)
		}
	}
	return out
}

// WithoutDelivery devuelve los ítems que no pertenecen a la entrega.
func (f *Ficha) WithoutDelivery(deliveryID string) []FichaItem {
	out := make([]FichaItem, 0, len(f.Items))
	for _, it := range f.Items {
		if it.DeliveryID != deliveryID {
			out = append(out, it)
		}
	}
	return out
}

// DeliveredUnits total de unidades registradas en la ficha.
func (f *Ficha) DeliveredUnits() int {
	total := 0
	for _, it := range f.Items {
		total += it.Quantity
	}
	return total
}

// ActiveUnits unidades todavía en poder del colaborador.
func (f *Ficha) ActiveUnits() int {
	total := 0
	for _, it := range f.Items {
		if it.Status == FichaItemDelivered {
			total += it.Quantity
		}
	}
	return total
}
