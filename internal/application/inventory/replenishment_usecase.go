package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición del inventario.
type ReplenishmentUseCase struct {
	stock repository.StockRepository
	types repository.EquipmentTypeRepository
	now   func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(stock repository.StockRepository, types repository.EquipmentTypeRepository) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{stock: stock, types: types, now: time.Now}
}

// Suggestions devuelve los ítems en o bajo su mínimo con la cantidad sugerida de compra.
// Los vencidos también entran: sus unidades no sirven para entregar.
// ownerID vacío considera todos los dueños.
func (uc *ReplenishmentUseCase) Suggestions(ctx context.Context, ownerID string) ([]dto.ReplenishmentSuggestionDTO, error) {
	items, err := uc.stock.List(ctx, repository.StockFilter{OwnerID: ownerID})
	if err != nil {
		return nil, err
	}
	types := map[string]*entity.EquipmentType{}
	if list, err := uc.types.List(ctx, repository.EquipmentTypeFilter{}); err == nil {
		for _, t := range list {
			types[t.ID] = t
		}
	}

	now := uc.now()
	onePointFive := decimal.NewFromFloat(1.5)
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0)
	for _, item := range items {
		status := domaininv.DeriveStatus(item, now)
		if status == entity.StockStatusAvailable {
			continue
		}

		usable := item.Quantity
		if status == entity.StockStatusExpired || usable < 0 {
			usable = 0
		}
		ideal := int(decimal.NewFromInt(int64(item.MinQuantity)).Mul(onePointFive).Ceil().IntPart())
		suggested := ideal - usable
		if suggested <= 0 {
			continue
		}

		unitCost := decimal.Zero
		if item.UnitCost != nil {
			unitCost = *item.UnitCost
		}
		s := dto.ReplenishmentSuggestionDTO{
			StockItemID:        item.ID,
			EquipmentTypeID:    item.EquipmentTypeID,
			EquipmentName:      item.EquipmentTypeID,
			Location:           item.Location,
			CurrentStock:       item.Quantity,
			MinQuantity:        item.MinQuantity,
			IdealStock:         ideal,
			SuggestedOrderQty:  suggested,
			UnitCost:           unitCost,
			EstimatedOrderCost: unitCost.Mul(decimal.NewFromInt(int64(suggested))),
		}
		if t, ok := types[item.EquipmentTypeID]; ok {
			s.EquipmentName = t.Name
			s.CANumber = t.CANumber
		}
		suggestions = append(suggestions, s)
	}

	// Primero el mayor déficit relativo al mínimo, luego el mayor déficit absoluto.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		ra, rb := shortage(a), shortage(b)
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		if a.SuggestedOrderQty != b.SuggestedOrderQty {
			return a.SuggestedOrderQty > b.SuggestedOrderQty
		}
		return a.EquipmentName < b.EquipmentName
	})

	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}

func shortage(s dto.ReplenishmentSuggestionDTO) decimal.Decimal {
	if s.IdealStock <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(s.SuggestedOrderQty)).Div(decimal.NewFromInt(int64(s.IdealStock)))
}
