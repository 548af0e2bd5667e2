package docstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// FichaRepository implementa repository.FichaRepository sobre fichasEPI.
type FichaRepository struct {
	col Collection
}

// NewFichaRepository construye el repositorio.
func NewFichaRepository(b Backend) *FichaRepository {
	return &FichaRepository{col: b.Collection(CollectionFichas)}
}

var _ repository.FichaRepository = (*FichaRepository)(nil)

func (r *FichaRepository) Create(ctx context.Context, f *entity.Ficha) error {
	if f.ID == "" {
		f.ID = NewID("ficha")
	}
	if f.Items == nil {
		f.Items = []entity.FichaItem{}
	}
	if _, err := r.col.Create(ctx, f); err != nil {
		return fmt.Errorf("crear ficha: %w", err)
	}
	return nil
}

func (r *FichaRepository) GetByID(ctx context.Context, id string) (*entity.Ficha, error) {
	raw, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener ficha %s: %w", id, err)
	}
	return decodeOne[entity.Ficha](raw)
}

func (r *FichaRepository) List(ctx context.Context, f repository.FichaFilter) ([]*entity.Ficha, error) {
	q := Query{}.
		Where("colaboradorId", f.EmployeeID).
		Where("empresaId", f.CompanyID).
		Where("status", f.Status).
		SortBy("dataEmissao", true)
	raws, err := r.col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar fichas: %w", err)
	}
	return decodeAll[entity.Ficha](raws)
}

func (r *FichaRepository) Update(ctx context.Context, f *entity.Ficha) error {
	if _, err := r.col.Replace(ctx, f.ID, f); err != nil {
		return fmt.Errorf("actualizar ficha %s: %w", f.ID, err)
	}
	return nil
}

func (r *FichaRepository) UpdateItems(ctx context.Context, id string, items []entity.FichaItem) error {
	if items == nil {
		items = []entity.FichaItem{}
	}
	if _, err := r.col.Patch(ctx, id, map[string]any{"itens": items}); err != nil {
		return fmt.Errorf("actualizar ítems de la ficha %s: %w", id, err)
	}
	return nil
}

func (r *FichaRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if _, err := r.col.Patch(ctx, id, map[string]any{"status": status}); err != nil {
		return fmt.Errorf("actualizar estado de la ficha %s: %w", id, err)
	}
	return nil
}

// ── Entregas ──────────────────────────────────────────────────────────────────

// DeliveryRepository implementa repository.DeliveryRepository sobre entregas.
type DeliveryRepository struct {
	col Collection
}

// NewDeliveryRepository construye el repositorio.
func NewDeliveryRepository(b Backend) *DeliveryRepository {
	return &DeliveryRepository{col: b.Collection(CollectionDeliveries)}
}

var _ repository.DeliveryRepository = (*DeliveryRepository)(nil)

func (r *DeliveryRepository) Create(ctx context.Context, d *entity.Delivery) error {
	if d.ID == "" {
		d.ID = NewID("entrega")
	}
	if _, err := r.col.Create(ctx, d); err != nil {
		return fmt.Errorf("crear entrega: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id string) (*entity.Delivery, error) {
	raw, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener entrega %s: %w", id, err)
	}
	return decodeOne[entity.Delivery](raw)
}

func (r *DeliveryRepository) ListByFicha(ctx context.Context, fichaID string) ([]*entity.Delivery, error) {
	raws, err := r.col.List(ctx, Query{}.Where("fichaEPIId", fichaID).SortBy("dataEntrega", true))
	if err != nil {
		return nil, fmt.Errorf("listar entregas: %w", err)
	}
	return decodeAll[entity.Delivery](raws)
}

func (r *DeliveryRepository) Update(ctx context.Context, d *entity.Delivery) error {
	if _, err := r.col.Replace(ctx, d.ID, d); err != nil {
		return fmt.Errorf("actualizar entrega %s: %w", d.ID, err)
	}
	return nil
}

func (r *DeliveryRepository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar entrega %s: %w", id, err)
	}
	return nil
}

// ── Historial de fichas ───────────────────────────────────────────────────────

// HistoricoRepository implementa repository.HistoricoRepository sobre historico.
type HistoricoRepository struct {
	col Collection
}

// NewHistoricoRepository construye el repositorio.
func NewHistoricoRepository(b Backend) *HistoricoRepository {
	return &HistoricoRepository{col: b.Collection(CollectionHistorico)}
}

var _ repository.HistoricoRepository = (*HistoricoRepository)(nil)

func (r *HistoricoRepository) Create(ctx context.Context, e *entity.HistoricoEvent) error {
	if e.ID == "" {
		e.ID = NewID("hist")
	}
	if _, err := r.col.Create(ctx, e); err != nil {
		return fmt.Errorf("registrar historial: %w", err)
	}
	return nil
}

func (r *HistoricoRepository) ListByFicha(ctx context.Context, fichaID string) ([]*entity.HistoricoEvent, error) {
	raws, err := r.col.List(ctx, Query{}.Where("fichaEPIId", fichaID).SortBy("data", true))
	if err != nil {
		return nil, fmt.Errorf("listar historial: %w", err)
	}
	return decodeAll[entity.HistoricoEvent](raws)
}

// ── Colaboradores y empresas ──────────────────────────────────────────────────

// DirectoryRepository lectura de colaboradores y empresas.
type DirectoryRepository struct {
	employees Collection
	companies Collection
}

// NewDirectoryRepository construye el repositorio.
func NewDirectoryRepository(b Backend) *DirectoryRepository {
	return &DirectoryRepository{
		employees: b.Collection(CollectionEmployees),
		companies: b.Collection(CollectionCompanies),
	}
}

// Employees vista del repositorio como repository.EmployeeRepository.
func (r *DirectoryRepository) Employees() repository.EmployeeRepository { return employeeRepo{r} }

// Companies vista del repositorio como repository.CompanyRepository.
func (r *DirectoryRepository) Companies() repository.CompanyRepository { return companyRepo{r} }

type employeeRepo struct{ r *DirectoryRepository }

func (e employeeRepo) GetByID(ctx context.Context, id string) (*entity.Employee, error) {
	raw, err := e.r.employees.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener colaborador %s: %w", id, err)
	}
	return decodeOne[entity.Employee](raw)
}

func (e employeeRepo) List(ctx context.Context, companyID string) ([]*entity.Employee, error) {
	raws, err := e.r.employees.List(ctx, Query{}.Where("empresaId", companyID).SortBy("nome", false))
	if err != nil {
		return nil, fmt.Errorf("listar colaboradores: %w", err)
	}
	return decodeAll[entity.Employee](raws)
}

type companyRepo struct{ r *DirectoryRepository }

func (c companyRepo) GetByID(ctx context.Context, id string) (*entity.Company, error) {
	raw, err := c.r.companies.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener empresa %s: %w", id, err)
	}
	return decodeOne[entity.Company](raw)
}

func (c companyRepo) List(ctx context.Context) ([]*entity.Company, error) {
	raws, err := c.r.companies.List(ctx, Query{}.SortBy("nome", false))
	if err != nil {
		return nil, fmt.Errorf("listar empresas: %w", err)
	}
	return decodeAll[entity.Company](raws)
}
