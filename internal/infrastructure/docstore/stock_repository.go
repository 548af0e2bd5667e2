package docstore

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

const (
	fieldQuantity = "quantidade"
	fieldUnitCost = "custoUnitario"
)

// StockRepository implementa repository.StockRepository sobre la colección estoque.
type StockRepository struct {
	col Collection
}

// NewStockRepository construye el repositorio.
func NewStockRepository(b Backend) *StockRepository {
	return &StockRepository{col: b.Collection(CollectionStock)}
}

var _ repository.StockRepository = (*StockRepository)(nil)

func (r *StockRepository) Create(ctx context.Context, item *entity.StockItem) error {
	if item.ID == "" {
		item.ID = NewID("estoque")
	}
	if _, err := r.col.Create(ctx, item); err != nil {
		return fmt.Errorf("crear ítem de stock: %w", err)
	}
	return nil
}

func (r *StockRepository) GetByID(ctx context.Context, id string) (*entity.StockItem, error) {
	raw, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener ítem de stock %s: %w", id, err)
	}
	return decodeOne[entity.StockItem](raw)
}

func (r *StockRepository) List(ctx context.Context, f repository.StockFilter) ([]*entity.StockItem, error) {
	q := Query{}.
		Where("tipoEPIId", f.EquipmentTypeID).
		Where("empresaId", f.OwnerID).
		Where("status", f.Status)
	raws, err := r.col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar stock: %w", err)
	}
	return decodeAll[entity.StockItem](raws)
}

func (r *StockRepository) Update(ctx context.Context, item *entity.StockItem) error {
	if _, err := r.col.Replace(ctx, item.ID, item); err != nil {
		return fmt.Errorf("actualizar ítem de stock %s: %w", item.ID, err)
	}
	return nil
}

func (r *StockRepository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar ítem de stock %s: %w", id, err)
	}
	return nil
}

// TotalValue suma en el backend cuando éste lo permite; si no, recorre los ítems.
func (r *StockRepository) TotalValue(ctx context.Context) (decimal.Decimal, error) {
	if v, ok := r.col.(Valuer); ok {
		total, err := v.SumProduct(ctx, fieldQuantity, fieldUnitCost)
		if err != nil {
			return decimal.Zero, fmt.Errorf("valorizar stock: %w", err)
		}
		return total, nil
	}
	items, err := r.List(ctx, repository.StockFilter{})
	if err != nil {
		return decimal.Zero, err
	}
	total := decimal.Zero
	for _, it := range items {
		if it.UnitCost == nil || it.Quantity < 0 {
			continue
		}
		total = total.Add(it.UnitCost.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total, nil
}

// AddQuantity usa el incremento atómico del backend si existe; si no, lee y escribe
// (json-server no ofrece otra cosa).
func (r *StockRepository) AddQuantity(ctx context.Context, id string, delta int, at time.Time) (*repository.QuantityChange, error) {
	set := map[string]any{"dataUltimaMovimentacao": at}
	if inc, ok := r.col.(Incrementer); ok {
		prev, cur, raw, err := inc.Increment(ctx, id, fieldQuantity, delta, set)
		if err != nil {
			return nil, fmt.Errorf("incrementar stock %s: %w", id, err)
		}
		item, err := decodeOne[entity.StockItem](raw)
		if err != nil {
			return nil, err
		}
		return &repository.QuantityChange{Previous: prev, Current: cur, Item: item}, nil
	}

	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.writeQuantity(ctx, current, current.Quantity+delta, set)
}

func (r *StockRepository) SetQuantity(ctx context.Context, id string, qty int, at time.Time) (*repository.QuantityChange, error) {
	current, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return r.writeQuantity(ctx, current, qty, map[string]any{"dataUltimaMovimentacao": at})
}

func (r *StockRepository) writeQuantity(ctx context.Context, current *entity.StockItem, qty int, set map[string]any) (*repository.QuantityChange, error) {
	fields := map[string]any{fieldQuantity: qty}
	for k, v := range set {
		fields[k] = v
	}
	raw, err := r.col.Patch(ctx, current.ID, fields)
	if err != nil {
		return nil, fmt.Errorf("actualizar cantidad de %s: %w", current.ID, err)
	}
	item, err := decodeOne[entity.StockItem](raw)
	if err != nil {
		return nil, err
	}
	return &repository.QuantityChange{Previous: current.Quantity, Current: qty, Item: item}, nil
}

func (r *StockRepository) PatchFields(ctx context.Context, id string, fields map[string]any) error {
	if _, err := r.col.Patch(ctx, id, fields); err != nil {
		return fmt.Errorf("actualizar ítem de stock %s: %w", id, err)
	}
	return nil
}

// ── Movimientos ───────────────────────────────────────────────────────────────

// StockMovementRepository implementa repository.StockMovementRepository.
type StockMovementRepository struct {
	col Collection
}

// NewStockMovementRepository construye el repositorio.
func NewStockMovementRepository(b Backend) *StockMovementRepository {
	return &StockMovementRepository{col: b.Collection(CollectionMovements)}
}

var _ repository.StockMovementRepository = (*StockMovementRepository)(nil)

func (r *StockMovementRepository) Create(ctx context.Context, m *entity.StockMovement) error {
	if m.ID == "" {
		m.ID = NewID("mov")
	}
	if _, err := r.col.Create(ctx, m); err != nil {
		return fmt.Errorf("registrar movimiento: %w", err)
	}
	return nil
}

func (r *StockMovementRepository) List(ctx context.Context, f repository.MovementFilter) ([]*entity.StockMovement, error) {
	q := Query{}.
		Where("itemEstoqueId", f.StockItemID).
		Where("tipo", f.Kind).
		Where("responsavelId", f.ActorID).
		Where("entregaId", f.DeliveryID).
		Range("data", f.From, f.To).
		SortBy("data", true)
	raws, err := r.col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar movimientos: %w", err)
	}
	return decodeAll[entity.StockMovement](raws)
}

// ── Historial de stock ────────────────────────────────────────────────────────

// StockEventRepository implementa repository.StockEventRepository.
type StockEventRepository struct {
	col Collection
}

// NewStockEventRepository construye el repositorio.
func NewStockEventRepository(b Backend) *StockEventRepository {
	return &StockEventRepository{col: b.Collection(CollectionStockEvents)}
}

var _ repository.StockEventRepository = (*StockEventRepository)(nil)

func (r *StockEventRepository) Create(ctx context.Context, e *entity.StockEvent) error {
	if e.ID == "" {
		e.ID = NewID("hist_est")
	}
	if _, err := r.col.Create(ctx, e); err != nil {
		return fmt.Errorf("registrar evento de stock: %w", err)
	}
	return nil
}

func (r *StockEventRepository) List(ctx context.Context, f repository.StockEventFilter) ([]*entity.StockEvent, error) {
	q := Query{}.
		Where("itemEstoqueId", f.StockItemID).
		Where("tipo", f.Kind).
		Where("responsavel", f.Actor).
		Range("data", f.From, f.To).
		SortBy("data", true)
	raws, err := r.col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar historial de stock: %w", err)
	}
	return decodeAll[entity.StockEvent](raws)
}
