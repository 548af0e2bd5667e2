package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// StockQueryUseCase lecturas del inventario. El estado se deriva en cada lectura;
// el guardado en el documento es solo una instantánea.
type StockQueryUseCase struct {
	stock        repository.StockRepository
	movements    repository.StockMovementRepository
	events       repository.StockEventRepository
	types        repository.EquipmentTypeRepository
	expiringDays int
	now          func() time.Time
}

// NewStockQueryUseCase construye el caso de uso. expiringDays <= 0 usa 30.
func NewStockQueryUseCase(
	stock repository.StockRepository,
	movements repository.StockMovementRepository,
	events repository.StockEventRepository,
	types repository.EquipmentTypeRepository,
	expiringDays int,
) *StockQueryUseCase {
	if expiringDays <= 0 {
		expiringDays = domaininv.DefaultExpiringWindowDays
	}
	return &StockQueryUseCase{
		stock:        stock,
		movements:    movements,
		events:       events,
		types:        types,
		expiringDays: expiringDays,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *StockQueryUseCase) WithClock(now func() time.Time) *StockQueryUseCase {
	uc.now = now
	return uc
}

// List ítems filtrados por tipo y dueño. status filtra por el estado derivado,
// no por la instantánea guardada.
func (uc *StockQueryUseCase) List(ctx context.Context, equipmentTypeID, ownerID, status string) ([]dto.StockItemDTO, error) {
	items, err := uc.stock.List(ctx, repository.StockFilter{EquipmentTypeID: equipmentTypeID, OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	names := uc.typeIndex(ctx)
	now := uc.now()
	out := make([]dto.StockItemDTO, 0, len(items))
	for _, it := range items {
		view := uc.view(it, names, now)
		if status != "" && view.Status != status {
			continue
		}
		out = append(out, view)
	}
	return out, nil
}

// Get un ítem con su estado derivado.
func (uc *StockQueryUseCase) Get(ctx context.Context, id string) (*dto.StockItemDTO, error) {
	item, err := uc.stock.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	names := map[string]*entity.EquipmentType{}
	if typ, err := uc.types.GetByID(ctx, item.EquipmentTypeID); err == nil {
		names[typ.ID] = typ
	}
	view := uc.view(item, names, uc.now())
	return &view, nil
}

// Movements movimientos del ítem, más recientes primero.
func (uc *StockQueryUseCase) Movements(ctx context.Context, itemID string) ([]*entity.StockMovement, error) {
	if _, err := uc.stock.GetByID(ctx, itemID); err != nil {
		return nil, err
	}
	return uc.movements.List(ctx, repository.MovementFilter{StockItemID: itemID})
}

// History eventos del historial de stock del ítem.
func (uc *StockQueryUseCase) History(ctx context.Context, itemID string, f repository.StockEventFilter) ([]*entity.StockEvent, error) {
	f.StockItemID = itemID
	return uc.events.List(ctx, f)
}

// Summary conteo por estado derivado, unidades y valor total del inventario.
func (uc *StockQueryUseCase) Summary(ctx context.Context) (*dto.StockSummaryDTO, error) {
	items, err := uc.stock.List(ctx, repository.StockFilter{})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	out := &dto.StockSummaryDTO{
		TotalValue: decimal.Zero,
		ByStatus: map[string]int{
			entity.StockStatusAvailable: 0,
			entity.StockStatusLow:       0,
			entity.StockStatusExpired:   0,
			entity.StockStatusEmpty:     0,
		},
	}
	for _, it := range items {
		out.TotalItems++
		out.ByStatus[domaininv.DeriveStatus(it, now)]++
		if it.Quantity < 0 {
			out.Negative++
			continue
		}
		out.TotalUnits += it.Quantity
		if domaininv.IsExpiringSoon(it, now, uc.expiringDays) {
			out.ExpiringSoon++
		}
	}
	if out.TotalValue, err = uc.stock.TotalValue(ctx); err != nil {
		return nil, err
	}
	return out, nil
}

func (uc *StockQueryUseCase) typeIndex(ctx context.Context) map[string]*entity.EquipmentType {
	types, err := uc.types.List(ctx, repository.EquipmentTypeFilter{})
	if err != nil {
		return map[string]*entity.EquipmentType{}
	}
	idx := make(map[string]*entity.EquipmentType, len(types))
	for _, t := range types {
		idx[t.ID] = t
	}
	return idx
}

func (uc *StockQueryUseCase) view(it *entity.StockItem, types map[string]*entity.EquipmentType, now time.Time) dto.StockItemDTO {
	return stockView(it, types, now, uc.expiringDays)
}

func stockView(it *entity.StockItem, types map[string]*entity.EquipmentType, now time.Time, expiringDays int) dto.StockItemDTO {
	v := dto.StockItemDTO{
		ID:              it.ID,
		EquipmentTypeID: it.EquipmentTypeID,
		EquipmentName:   it.EquipmentTypeID,
		OwnerID:         it.OwnerID,
		Quantity:        it.Quantity,
		MinQuantity:     it.MinQuantity,
		Location:        it.Location,
		Lot:             it.Lot,
		ExpiryDate:      it.ExpiryDate,
		Status:          domaininv.DeriveStatus(it, now),
		ExpiringSoon:    domaininv.IsExpiringSoon(it, now, expiringDays),
		UnitCost:        it.UnitCost,
		Supplier:        it.Supplier,
		LastMovementAt:  it.LastMovementAt,
	}
	if t, ok := types[it.EquipmentTypeID]; ok {
		v.EquipmentName = t.Name
		v.CANumber = t.CANumber
	}
	if days, ok := domaininv.DaysUntilExpiry(it, now); ok {
		v.DaysToExpiry = &days
	}
	return v
}
