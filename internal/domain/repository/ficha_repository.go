package repository

import (
	"context"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// FichaFilter filtros de fichas.
type FichaFilter struct {
	EmployeeID string
	CompanyID  string
	Status     string
}

// FichaRepository define el puerto de persistencia de fichas (fichasEPI).
type FichaRepository interface {
	Create(ctx context.Context, f *entity.Ficha) error
	GetByID(ctx context.Context, id string) (*entity.Ficha, error)
	List(ctx context.Context, f FichaFilter) ([]*entity.Ficha, error)
	Update(ctx context.Context, f *entity.Ficha) error
	UpdateItems(ctx context.Context, id string, items []entity.FichaItem) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// DeliveryRepository define el puerto de persistencia de entregas.
type DeliveryRepository interface {
	Create(ctx context.Context, d *entity.Delivery) error
	GetByID(ctx context.Context, id string) (*entity.Delivery, error)
	ListByFicha(ctx context.Context, fichaID string) ([]*entity.Delivery, error)
	Update(ctx context.Context, d *entity.Delivery) error
	Delete(ctx context.Context, id string) error
}

// HistoricoRepository define el puerto del historial de fichas.
type HistoricoRepository interface {
	Create(ctx context.Context, e *entity.HistoricoEvent) error
	ListByFicha(ctx context.Context, fichaID string) ([]*entity.HistoricoEvent, error)
}

// EmployeeRepository lectura de colaboradores.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Employee, error)
	List(ctx context.Context, companyID string) ([]*entity.Employee, error)
}

// CompanyRepository lectura de empresas.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Company, error)
	List(ctx context.Context) ([]*entity.Company, error)
}
