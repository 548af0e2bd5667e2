package entity

// Company empresa contratante u holding (colección empresas).
type Company struct {
	ID        string `json:"id"`
	Name      string `json:"nome"`
	CNPJ      string `json:"cnpj"`
	Address   string `json:"endereco"`
	Status    string `json:"status"`
	HoldingID string `json:"holdingId,omitempty"`
	Kind      string `json:"tipo,omitempty"`
}

// Employee colaborador que recibe EPIs (colección colaboradores).
type Employee struct {
	ID             string `json:"id"`
	Name           string `json:"nome"`
	CPF            string `json:"cpf"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"cargo"`
	AdmissionDate  string `json:"dataAdmissao,omitempty"`
	CompanyID      string `json:"empresaId"`
	Status         string `json:"status"`
	HasActiveFicha bool   `json:"temFichaAtiva"`
}
