package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// resolveItemForType elige el ítem de stock que abastece un tipo de EPI:
// primero el del almacén central disponible, luego cualquiera del almacén central,
// luego el primero que exista. nil si el tipo no tiene ítems.
func resolveItemForType(ctx context.Context, stock repository.StockRepository, typeID string, now time.Time) (*entity.StockItem, error) {
	items, err := stock.List(ctx, repository.StockFilter{EquipmentTypeID: typeID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	var central *entity.StockItem
	for _, it := range items {
		if !it.IsCentral() {
			continue
		}
		if domaininv.DeriveStatus(it, now) == entity.StockStatusAvailable {
			return it, nil
		}
		if central == nil {
			central = it
		}
	}
	if central != nil {
		return central, nil
	}
	return items[0], nil
}

// centralItemForType el ítem del almacén central del tipo, o nil.
func centralItemForType(ctx context.Context, stock repository.StockRepository, typeID string) (*entity.StockItem, error) {
	items, err := stock.List(ctx, repository.StockFilter{EquipmentTypeID: typeID, OwnerID: entity.CentralWarehouseID})
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return items[0], nil
}
