package docstore

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// EquipmentTypeRepository implementa repository.EquipmentTypeRepository sobre tiposEPI.
type EquipmentTypeRepository struct {
	col Collection
}

// NewEquipmentTypeRepository construye el repositorio.
func NewEquipmentTypeRepository(b Backend) *EquipmentTypeRepository {
	return &EquipmentTypeRepository{col: b.Collection(CollectionEquipmentTypes)}
}

var _ repository.EquipmentTypeRepository = (*EquipmentTypeRepository)(nil)

func (r *EquipmentTypeRepository) Create(ctx context.Context, t *entity.EquipmentType) error {
	if t.ID == "" {
		t.ID = NewID("tipo")
	}
	if _, err := r.col.Create(ctx, t); err != nil {
		return fmt.Errorf("crear tipo de EPI: %w", err)
	}
	return nil
}

func (r *EquipmentTypeRepository) GetByID(ctx context.Context, id string) (*entity.EquipmentType, error) {
	raw, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener tipo de EPI %s: %w", id, err)
	}
	return decodeOne[entity.EquipmentType](raw)
}

func (r *EquipmentTypeRepository) List(ctx context.Context, f repository.EquipmentTypeFilter) ([]*entity.EquipmentType, error) {
	q := Query{}.
		Where("categoria", f.Category).
		Where("numeroCA", strings.TrimSpace(f.CANumber)).
		Like("nomeEquipamento", strings.TrimSpace(f.Search)).
		SortBy("nomeEquipamento", false)
	raws, err := r.col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar tipos de EPI: %w", err)
	}
	return decodeAll[entity.EquipmentType](raws)
}

func (r *EquipmentTypeRepository) Update(ctx context.Context, t *entity.EquipmentType) error {
	if _, err := r.col.Replace(ctx, t.ID, t); err != nil {
		return fmt.Errorf("actualizar tipo de EPI %s: %w", t.ID, err)
	}
	return nil
}

func (r *EquipmentTypeRepository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar tipo de EPI %s: %w", id, err)
	}
	return nil
}
