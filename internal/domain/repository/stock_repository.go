package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// StockFilter filtros opcionales de ítems de stock.
type StockFilter struct {
	EquipmentTypeID string
	OwnerID         string
	Status          string // estado guardado (instantánea); el estado real se deriva al leer
}

// QuantityChange resultado de una escritura de cantidad.
type QuantityChange struct {
	Previous int
	Current  int
	Item     *entity.StockItem
}

// StockRepository define el puerto para consultar y actualizar ítems de stock.
type StockRepository interface {
	Create(ctx context.Context, item *entity.StockItem) error
	GetByID(ctx context.Context, id string) (*entity.StockItem, error)
	List(ctx context.Context, f StockFilter) ([]*entity.StockItem, error)
	Update(ctx context.Context, item *entity.StockItem) error
	Delete(ctx context.Context, id string) error
	// AddQuantity suma delta (puede ser negativo). Atómico cuando el backend lo soporta.
	AddQuantity(ctx context.Context, id string, delta int, at time.Time) (*QuantityChange, error)
	// SetQuantity escribe la cantidad absoluta.
	SetQuantity(ctx context.Context, id string, qty int, at time.Time) (*QuantityChange, error)
	// PatchFields actualiza campos sueltos (estado, costo, lote) sin tocar la cantidad.
	PatchFields(ctx context.Context, id string, fields map[string]any) error
	// TotalValue Σ cantidad × costo unitario de los ítems con costo y cantidad no negativa.
	TotalValue(ctx context.Context) (decimal.Decimal, error)
}

// MovementFilter filtros de movimientos de stock.
type MovementFilter struct {
	StockItemID string
	Kind        string
	ActorID     string
	DeliveryID  string
	From, To    *time.Time
}

// StockMovementRepository define el puerto de movimientos (movimentacoesEstoque).
type StockMovementRepository interface {
	Create(ctx context.Context, m *entity.StockMovement) error
	List(ctx context.Context, f MovementFilter) ([]*entity.StockMovement, error)
}

// StockEventFilter filtros del historial de stock.
type StockEventFilter struct {
	StockItemID string
	Kind        string
	Actor       string
	From, To    *time.Time
}

// StockEventRepository define el puerto del historial de stock (historicoEstoque).
// Los eventos son inmutables: no hay update ni delete.
type StockEventRepository interface {
	Create(ctx context.Context, e *entity.StockEvent) error
	List(ctx context.Context, f StockEventFilter) ([]*entity.StockEvent, error)
}
