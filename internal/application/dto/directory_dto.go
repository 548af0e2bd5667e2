package dto

import "time"

// CompanyResponse empresa.
type CompanyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	CNPJ      string `json:"cnpj"`
	Address   string `json:"address"`
	Status    string `json:"status"`
	HoldingID string `json:"holding_id,omitempty"`
}

// EmployeeResponse colaborador.
type EmployeeResponse struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	CPF            string `json:"cpf"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role"`
	AdmissionDate  string `json:"admission_date,omitempty"`
	CompanyID      string `json:"company_id"`
	Status         string `json:"status"`
	HasActiveFicha bool   `json:"has_active_ficha"`
}

// NotificationResponse notificación del panel.
type NotificationResponse struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	Message string    `json:"message"`
	Kind    string    `json:"kind"`
	Date    time.Time `json:"date"`
	Read    bool      `json:"read"`
	Link    string    `json:"link,omitempty"`
}

// MarkNotificationRequest body para PATCH /api/notifications/:id.
type MarkNotificationRequest struct {
	Read *bool `json:"read" validate:"required"`
}
