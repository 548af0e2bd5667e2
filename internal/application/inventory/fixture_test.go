package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/memory"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

var refNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// fixture casos de uso de stock sobre el backend en memoria con reloj controlado.
type fixture struct {
	ctx           context.Context
	now           time.Time
	stock         *docstore.StockRepository
	movements     *docstore.StockMovementRepository
	events        *docstore.StockEventRepository
	types         *docstore.EquipmentTypeRepository
	notifications *docstore.NotificationRepository
	notasIn       *docstore.NotaRepository
	notasOut      *docstore.NotaRepository

	movement *inventory.MovementUseCase
	delivery *inventory.DeliveryStock
	sync     *inventory.CatalogSync
	notas    *inventory.NotaUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	b := memory.New()
	log := logger.Nop()
	f := &fixture{
		ctx:           context.Background(),
		now:           refNow,
		stock:         docstore.NewStockRepository(b),
		movements:     docstore.NewStockMovementRepository(b),
		events:        docstore.NewStockEventRepository(b),
		types:         docstore.NewEquipmentTypeRepository(b),
		notifications: docstore.NewNotificationRepository(b),
		notasIn:       docstore.NewNotaRepository(b, entity.NotaInbound),
		notasOut:      docstore.NewNotaRepository(b, entity.NotaOutbound),
	}
	f.movement = inventory.NewMovementUseCase(f.stock, f.movements, f.events, f.types, log).WithClock(f.clock)
	f.delivery = inventory.NewDeliveryStock(f.movement, f.stock, f.types, log)
	f.sync = inventory.NewCatalogSync(f.stock, f.events, f.types, log).WithClock(f.clock)
	f.notas = inventory.NewNotaUseCase(f.notasIn, f.notasOut, f.movement, f.stock, log)
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) advance(d time.Duration) { f.now = f.now.Add(d) }

func (f *fixture) seedType(t *testing.T, id, name, category string) *entity.EquipmentType {
	t.Helper()
	typ := &entity.EquipmentType{
		ID:              id,
		Name:            name,
		CANumber:        "CA-" + id,
		Manufacturer:    "3M",
		Category:        category,
		ServiceLifeDays: 365,
	}
	require.NoError(t, f.types.Create(f.ctx, typ))
	return typ
}

func (f *fixture) seedItem(t *testing.T, id, typeID, owner string, qty, min int, expiry string) *entity.StockItem {
	t.Helper()
	item := &entity.StockItem{
		ID:              id,
		EquipmentTypeID: typeID,
		OwnerID:         owner,
		Quantity:        qty,
		MinQuantity:     min,
		Location:        entity.CentralWarehouseLocation,
		Lot:             "LOTE-" + id,
		ExpiryDate:      expiry,
	}
	require.NoError(t, f.stock.Create(f.ctx, item))
	return item
}

func (f *fixture) quantity(t *testing.T, id string) int {
	t.Helper()
	item, err := f.stock.GetByID(f.ctx, id)
	require.NoError(t, err)
	return item.Quantity
}

func (f *fixture) eventsOf(t *testing.T, id string) []*entity.StockEvent {
	t.Helper()
	evs, err := f.events.List(f.ctx, repository.StockEventFilter{StockItemID: id})
	require.NoError(t, err)
	return evs
}
