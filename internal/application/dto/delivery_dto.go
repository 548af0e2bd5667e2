package dto

// DeliveryItemRequest línea de una entrega.
type DeliveryItemRequest struct {
	EquipmentTypeID string `json:"equipment_type_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
	ExpiryDate      string `json:"expiry_date,omitempty"` // YYYY-MM-DD; por defecto hoy + vida útil del tipo
}

// CreateDeliveryRequest body para POST /api/deliveries.
type CreateDeliveryRequest struct {
	FichaID     string                `json:"ficha_id" validate:"required"`
	DeliveredAt string                `json:"delivered_at,omitempty"` // YYYY-MM-DD; por defecto hoy
	Actor       string                `json:"actor" validate:"required"`
	Items       []DeliveryItemRequest `json:"items" validate:"required,min=1,dive"`
}

// UpdateDeliveryRequest body para PUT /api/deliveries/:id.
type UpdateDeliveryRequest struct {
	DeliveredAt string                `json:"delivered_at,omitempty"`
	Actor       string                `json:"actor" validate:"required"`
	Items       []DeliveryItemRequest `json:"items" validate:"required,min=1,dive"`
}

// ReturnItemRequest unidades devueltas de un tipo.
type ReturnItemRequest struct {
	EquipmentTypeID string `json:"equipment_type_id" validate:"required"`
	Quantity        int    `json:"quantity" validate:"required,gt=0"`
	Reason          string `json:"reason,omitempty"`
}

// ReturnRequest body para POST /api/deliveries/:id/returns.
type ReturnRequest struct {
	Actor string              `json:"actor" validate:"required"`
	Items []ReturnItemRequest `json:"items" validate:"required,min=1,dive"`
}

// SignRequest body para POST /api/deliveries/:id/sign.
type SignRequest struct {
	IP     string `json:"ip,omitempty"`
	Device string `json:"device,omitempty"`
}

// DeliveryItemResponse línea de la entrega con el nombre del equipo.
type DeliveryItemResponse struct {
	ID              string `json:"id"`
	EquipmentTypeID string `json:"equipment_type_id"`
	EquipmentName   string `json:"equipment_name,omitempty"`
	CANumber        string `json:"ca_number,omitempty"`
	Quantity        int    `json:"quantity"`
	ExpiryDate      string `json:"expiry_date"`
}

// SignatureResponse firma del recibo.
type SignatureResponse struct {
	SignedAt string `json:"signed_at"`
	IP       string `json:"ip,omitempty"`
	Device   string `json:"device,omitempty"`
}

// DeliveryResponse entrega.
type DeliveryResponse struct {
	ID            string                 `json:"id"`
	FichaID       string                 `json:"ficha_id"`
	DeliveredAt   string                 `json:"delivered_at"`
	Actor         string                 `json:"actor"`
	Status        string                 `json:"status"`
	Items         []DeliveryItemResponse `json:"items"`
	Signature     *SignatureResponse     `json:"signature,omitempty"`
	QRCode        string                 `json:"qr_code,omitempty"`
	SignatureLink string                 `json:"signature_link,omitempty"`
	TotalUnits    int                    `json:"total_units"`
}
