package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// CatalogResult tipo de EPI más el resultado de la sincronización con el stock.
type CatalogResult struct {
	Type  *dto.EquipmentTypeResponse `json:"type,omitempty"`
	Stock inventory.StockOutcome     `json:"stock"`
}

// CatalogUseCase casos de uso del catálogo de EPIs. Cada alta o baja de un tipo
// se refleja en el stock del almacén central.
type CatalogUseCase struct {
	types repository.EquipmentTypeRepository
	sync  *inventory.CatalogSync
	log   *logger.Logger
}

// NewCatalogUseCase construye el caso de uso. types suele ser la caché del catálogo.
func NewCatalogUseCase(types repository.EquipmentTypeRepository, sync *inventory.CatalogSync, log *logger.Logger) *CatalogUseCase {
	return &CatalogUseCase{types: types, sync: sync, log: log}
}

// Create da de alta un tipo de EPI y crea su ítem de stock. Si el ítem no se puede
// crear, el tipo queda registrado y el fallo se informa en Stock.
func (uc *CatalogUseCase) Create(ctx context.Context, in dto.CreateEquipmentTypeRequest) (*CatalogResult, error) {
	t := &entity.EquipmentType{
		Name:            strings.TrimSpace(in.Name),
		CANumber:        strings.TrimSpace(in.CANumber),
		Manufacturer:    strings.TrimSpace(in.Manufacturer),
		Category:        strings.TrimSpace(in.Category),
		Description:     in.Description,
		ServiceLifeDays: in.ServiceLifeDays,
		Photo:           in.Photo,
	}
	if t.ServiceLifeDays == 0 {
		t.ServiceLifeDays = entity.DefaultServiceLifeDays
	}
	if err := validateType(t); err != nil {
		return nil, err
	}
	if err := uc.ensureUniqueCA(ctx, t.CANumber, ""); err != nil {
		return nil, err
	}
	if err := uc.types.Create(ctx, t); err != nil {
		return nil, err
	}
	uc.log.Info().Str("equipment_type_id", t.ID).Str("ca", t.CANumber).Msg("tipo de EPI creado")

	outcome := uc.sync.CreateForType(ctx, t)
	return &CatalogResult{Type: toEquipmentTypeResponse(t), Stock: outcome}, nil
}

// Get obtiene un tipo por ID.
func (uc *CatalogUseCase) Get(ctx context.Context, id string) (*dto.EquipmentTypeResponse, error) {
	t, err := uc.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toEquipmentTypeResponse(t), nil
}

// List lista el catálogo filtrando por categoría y texto en el nombre.
func (uc *CatalogUseCase) List(ctx context.Context, category, search string) ([]dto.EquipmentTypeResponse, error) {
	list, err := uc.types.List(ctx, repository.EquipmentTypeFilter{
		Category: strings.TrimSpace(category),
		Search:   strings.TrimSpace(search),
	})
	if err != nil {
		return nil, err
	}
	out := make([]dto.EquipmentTypeResponse, 0, len(list))
	for _, t := range list {
		out = append(out, *toEquipmentTypeResponse(t))
	}
	return out, nil
}

// Update modifica solo los campos presentes. El stock existente no se toca.
func (uc *CatalogUseCase) Update(ctx context.Context, id string, in dto.UpdateEquipmentTypeRequest) (*dto.EquipmentTypeResponse, error) {
	t, err := uc.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		t.Name = strings.TrimSpace(*in.Name)
	}
	if in.CANumber != nil && strings.TrimSpace(*in.CANumber) != t.CANumber {
		ca := strings.TrimSpace(*in.CANumber)
		if err := uc.ensureUniqueCA(ctx, ca, t.ID); err != nil {
			return nil, err
		}
		t.CANumber = ca
	}
	if in.Manufacturer != nil {
		t.Manufacturer = strings.TrimSpace(*in.Manufacturer)
	}
	if in.Category != nil {
		t.Category = strings.TrimSpace(*in.Category)
	}
	if in.Description != nil {
		t.Description = *in.Description
	}
	if in.ServiceLifeDays != nil {
		t.ServiceLifeDays = *in.ServiceLifeDays
	} else if t.ServiceLifeDays == 0 {
		// documentos importados sin vidaUtilDias
		t.ServiceLifeDays = entity.DefaultServiceLifeDays
	}
	if in.Photo != nil {
		t.Photo = *in.Photo
	}
	if err := validateType(t); err != nil {
		return nil, err
	}
	if err := uc.types.Update(ctx, t); err != nil {
		return nil, err
	}
	return toEquipmentTypeResponse(t), nil
}

// Delete elimina los ítems vacíos del tipo y luego el tipo. Los ítems con cantidad
// se conservan y se informan en Stock; la baja no se bloquea.
func (uc *CatalogUseCase) Delete(ctx context.Context, id string) (*CatalogResult, error) {
	t, err := uc.types.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	outcome := uc.sync.RemoveForType(ctx, t)
	if err := uc.types.Delete(ctx, id); err != nil {
		return nil, err
	}
	uc.log.Info().Str("equipment_type_id", id).Str("stock", outcome.Status).Msg("tipo de EPI eliminado")
	return &CatalogResult{Stock: outcome}, nil
}

// Sync crea el ítem de stock de los tipos que todavía no tienen ninguno.
func (uc *CatalogUseCase) Sync(ctx context.Context) (inventory.StockOutcome, error) {
	return uc.sync.Backfill(ctx)
}

// Categories categorías ofrecidas al usuario.
func (uc *CatalogUseCase) Categories() []string {
	out := make([]string, len(entity.Categories))
	copy(out, entity.Categories)
	return out
}

func (uc *CatalogUseCase) ensureUniqueCA(ctx context.Context, ca, selfID string) error {
	existing, err := uc.types.List(ctx, repository.EquipmentTypeFilter{CANumber: ca})
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return err
	}
	for _, e := range existing {
		if e.ID != selfID && e.CANumber == ca {
			return fmt.Errorf("%w: ya existe un tipo de EPI con CA %s", domain.ErrDuplicate, ca)
		}
	}
	return nil
}

func validateType(t *entity.EquipmentType) error {
	var missing []string
	if t.Name == "" {
		missing = append(missing, "nombre")
	}
	if t.CANumber == "" {
		missing = append(missing, "CA")
	}
	if t.Manufacturer == "" {
		missing = append(missing, "fabricante")
	}
	if t.Category == "" {
		missing = append(missing, "categoría")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: campos obligatorios: %s", domain.ErrInvalidInput, strings.Join(missing, ", "))
	}
	if t.ServiceLifeDays <= 0 {
		return fmt.Errorf("%w: la vida útil debe ser mayor que cero", domain.ErrInvalidInput)
	}
	return nil
}

func toEquipmentTypeResponse(t *entity.EquipmentType) *dto.EquipmentTypeResponse {
	return &dto.EquipmentTypeResponse{
		ID:              t.ID,
		Name:            t.Name,
		CANumber:        t.CANumber,
		Manufacturer:    t.Manufacturer,
		Category:        t.Category,
		Description:     t.Description,
		ServiceLifeDays: t.ServiceLifeDays,
		Photo:           t.Photo,
	}
}
