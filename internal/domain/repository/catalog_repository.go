package repository

import (
	"context"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// EquipmentTypeFilter filtros opcionales del catálogo.
type EquipmentTypeFilter struct {
	Category string
	CANumber string
	Search   string // coincidencia parcial en el nombre
}

// EquipmentTypeRepository define el puerto de persistencia del catálogo de EPIs.
type EquipmentTypeRepository interface {
	Create(ctx context.Context, t *entity.EquipmentType) error
	GetByID(ctx context.Context, id string) (*entity.EquipmentType, error)
	List(ctx context.Context, f EquipmentTypeFilter) ([]*entity.EquipmentType, error)
	Update(ctx context.Context, t *entity.EquipmentType) error
	Delete(ctx context.Context, id string) error
}
