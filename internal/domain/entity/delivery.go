package entity

// Estados de una entrega.
const (
	DeliveryUnsigned = "nao_assinado"
	DeliverySigned   = "assinado"
	DeliveryPending  = "pendente"
)

// Delivery recibo de entrega de EPIs a un colaborador (colección entregas).
type Delivery struct {
	ID            string         `json:"id"`
	FichaID       string         `json:"fichaEPIId"`
	DeliveredAt   string         `json:"dataEntrega"`
	Items         []DeliveryItem `json:"itens"`
	Actor         string         `json:"responsavel"`
	Status        string         `json:"status"`
	Signature     *Signature     `json:"assinatura,omitempty"`
	QRCode        string         `json:"qrCode,omitempty"`
	SignatureLink string         `json:"linkAssinatura,omitempty"`
}

// DeliveryItem línea de la entrega.
type DeliveryItem struct {
	ID              string `json:"id"`
	EquipmentTypeID string `json:"tipoEPIId"`
	Quantity        int    `json:"quantidade"`
	ExpiryDate      string `json:"dataValidade"`
}

// Signature datos de la firma digital del recibo.
type Signature struct {
	SignedAt string `json:"dataAssinatura"`
	IP       string `json:"ip,omitempty"`
	Device   string `json:"device,omitempty"`
}

// Editable solo las entregas sin firmar pueden editarse o eliminarse.
func (d *Delivery) Editable() bool {
	return d.Status == DeliveryUnsigned
}

// TotalUnits suma de unidades de todas las líneas.
func (d *Delivery) TotalUnits() int {
	total := 0
	for _, it := range d.Items {
		total += it.Quantity
	}
	return total
}
