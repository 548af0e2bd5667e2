package usecase

import (
	"context"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// DirectoryUseCase consulta de colaboradores y empresas. Los datos se administran
// fuera de este servicio.
type DirectoryUseCase struct {
	employees repository.EmployeeRepository
	companies repository.CompanyRepository
}

// NewDirectoryUseCase construye el caso de uso.
func NewDirectoryUseCase(employees repository.EmployeeRepository, companies repository.CompanyRepository) *DirectoryUseCase {
	return &DirectoryUseCase{employees: employees, companies: companies}
}

// Employees lista colaboradores; companyID vacío lista todos.
func (uc *DirectoryUseCase) Employees(ctx context.Context, companyID string) ([]dto.EmployeeResponse, error) {
	list, err := uc.employees.List(ctx, companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EmployeeResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEmployeeResponse(e))
	}
	return out, nil
}

// Employee obtiene un colaborador.
func (uc *DirectoryUseCase) Employee(ctx context.Context, id string) (*dto.EmployeeResponse, error) {
	e, err := uc.employees.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toEmployeeResponse(e)
	return &out, nil
}

// Companies lista empresas.
func (uc *DirectoryUseCase) Companies(ctx context.Context) ([]dto.CompanyResponse, error) {
	list, err := uc.companies.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.CompanyResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCompanyResponse(c))
	}
	return out, nil
}

// Company obtiene una empresa.
func (uc *DirectoryUseCase) Company(ctx context.Context, id string) (*dto.CompanyResponse, error) {
	c, err := uc.companies.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	out := toCompanyResponse(c)
	return &out, nil
}

func toEmployeeResponse(e *entity.Employee) dto.EmployeeResponse {
	return dto.EmployeeResponse{
		ID:             e.ID,
		Name:           e.Name,
		CPF:            e.CPF,
		Email:          e.Email,
		Role:           e.Role,
		AdmissionDate:  e.AdmissionDate,
		CompanyID:      e.CompanyID,
		Status:         e.Status,
		HasActiveFicha: e.HasActiveFicha,
	}
}

func toCompanyResponse(c *entity.Company) dto.CompanyResponse {
	return dto.CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		CNPJ:      c.CNPJ,
		Address:   c.Address,
		Status:    c.Status,
		HoldingID: c.HoldingID,
	}
}
