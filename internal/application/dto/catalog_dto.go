package dto

// CreateEquipmentTypeRequest body para POST /api/catalog.
type CreateEquipmentTypeRequest struct {
	Name            string `json:"name" validate:"required"`
	CANumber        string `json:"ca_number" validate:"required"`
	Manufacturer    string `json:"manufacturer" validate:"required"`
	Category        string `json:"category" validate:"required"`
	Description     string `json:"description,omitempty"`
	ServiceLifeDays int    `json:"service_life_days,omitempty" validate:"gte=0"` // 0 = 365 días
	Photo           string `json:"photo,omitempty"`
}

// UpdateEquipmentTypeRequest body para PUT /api/catalog/:id. Solo se modifican los campos presentes.
type UpdateEquipmentTypeRequest struct {
	Name            *string `json:"name,omitempty" validate:"omitempty,min=1"`
	CANumber        *string `json:"ca_number,omitempty" validate:"omitempty,min=1"`
	Manufacturer    *string `json:"manufacturer,omitempty" validate:"omitempty,min=1"`
	Category        *string `json:"category,omitempty" validate:"omitempty,min=1"`
	Description     *string `json:"description,omitempty"`
	ServiceLifeDays *int    `json:"service_life_days,omitempty" validate:"omitempty,gt=0"`
	Photo           *string `json:"photo,omitempty"`
}

// EquipmentTypeResponse tipo de EPI del catálogo.
type EquipmentTypeResponse struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	CANumber        string `json:"ca_number"`
	Manufacturer    string `json:"manufacturer"`
	Category        string `json:"category"`
	Description     string `json:"description,omitempty"`
	ServiceLifeDays int    `json:"service_life_days"`
	Photo           string `json:"photo,omitempty"`
}
