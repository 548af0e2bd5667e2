package inventory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

var dc = inventory.DeliveryContext{
	DeliveryID:   "entrega_1",
	FichaID:      "ficha_1",
	EmployeeName: "João Silva",
	CompanyID:    "emp_1",
	Actor:        "ana",
}

func deliveryFixture(t *testing.T) *fixture {
	t.Helper()
	f := newFixture(t)
	for _, id := range []string{"A", "B", "C"} {
		f.seedType(t, id, "EPI "+id, entity.CategoryHands)
		f.seedItem(t, "e"+id, id, entity.CentralWarehouseID, 10, 2, "2026-01-01")
	}
	return f
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación, edición y eliminación de entregas
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyCreated_DescuentaCadaLinea(t *testing.T) {
	f := deliveryFixture(t)

	out := f.delivery.ApplyCreated(f.ctx, dc, []domaininv.Line{
		{EquipmentTypeID: "A", Quantity: 2},
		{EquipmentTypeID: "B", Quantity: 1},
	})
	assert.Equal(t, inventory.OutcomeApplied, out.Status)
	assert.Empty(t, out.Errors)
	require.Len(t, out.Movements, 2)
	assert.Equal(t, entity.MovementDelivery, out.Movements[0].Kind)

	assert.Equal(t, 8, f.quantity(t, "eA"))
	assert.Equal(t, 9, f.quantity(t, "eB"))

	evs := f.eventsOf(t, "eA")
	require.Len(t, evs, 1)
	assert.Equal(t, "ficha_1", evs[0].Details.FichaID)
	assert.Equal(t, "João Silva", evs[0].Details.EmployeeName)
}

func TestApplyEdited_AplicaSoloLaDiferencia(t *testing.T) {
	f := deliveryFixture(t)
	old := []domaininv.Line{{EquipmentTypeID: "A", Quantity: 2}, {EquipmentTypeID: "B", Quantity: 1}}
	updated := []domaininv.Line{{EquipmentTypeID: "A", Quantity: 3}, {EquipmentTypeID: "C", Quantity: 1}}

	out := f.delivery.ApplyEdited(f.ctx, dc, old, updated)
	assert.Equal(t, inventory.OutcomeApplied, out.Status)
	require.Len(t, out.Movements, 3)

	assert.Equal(t, 9, f.quantity(t, "eA"), "A sale una unidad más")
	assert.Equal(t, 11, f.quantity(t, "eB"), "B vuelve al stock")
	assert.Equal(t, 9, f.quantity(t, "eC"), "C sale una unidad")

	movs, err := f.movements.List(f.ctx, repository.MovementFilter{StockItemID: "eB"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, entity.MovementInbound, movs[0].Kind)
	assert.Equal(t, inventory.ReasonEditDecreased, movs[0].Reason)
}

func TestApplyEdited_SinCambiosNoMueveStock(t *testing.T) {
	f := deliveryFixture(t)
	lines := []domaininv.Line{{EquipmentTypeID: "A", Quantity: 2}}

	out := f.delivery.ApplyEdited(f.ctx, dc, lines, lines)
	assert.Equal(t, inventory.OutcomeSkipped, out.Status)
	assert.Equal(t, 10, f.quantity(t, "eA"))
}

func TestApplyDeleted_DevuelveTodo(t *testing.T) {
	f := deliveryFixture(t)
	lines := []domaininv.Line{{EquipmentTypeID: "A", Quantity: 2}, {EquipmentTypeID: "A", Quantity: 1}}
	f.delivery.ApplyCreated(f.ctx, dc, lines)
	require.Equal(t, 7, f.quantity(t, "eA"))

	out := f.delivery.ApplyDeleted(f.ctx, dc, lines)
	assert.Equal(t, inventory.OutcomeApplied, out.Status)
	assert.Equal(t, 10, f.quantity(t, "eA"))
}

func TestApplyCreated_TipoSinStockEsErrorBlando(t *testing.T) {
	f := deliveryFixture(t)
	f.seedType(t, "Z", "EPI Z", entity.CategoryHands)

	out := f.delivery.ApplyCreated(f.ctx, dc, []domaininv.Line{
		{EquipmentTypeID: "A", Quantity: 1},
		{EquipmentTypeID: "Z", Quantity: 1},
		{EquipmentTypeID: "inexistente", Quantity: 1},
	})
	assert.Equal(t, inventory.OutcomePartial, out.Status)
	assert.Len(t, out.Movements, 1)
	assert.Len(t, out.Errors, 2)
	assert.Equal(t, 9, f.quantity(t, "eA"))
}

func TestApplyCreated_PrefiereAlmacenCentralDisponible(t *testing.T) {
	f := newFixture(t)
	f.seedType(t, "A", "EPI A", entity.CategoryHands)
	f.seedItem(t, "obra", "A", "obra_1", 50, 2, "")
	f.seedItem(t, "central_vencido", "A", entity.CentralWarehouseID, 50, 2, "2020-01-01")
	f.seedItem(t, "central_ok", "A", entity.CentralWarehouseID, 50, 2, "2030-01-01")

	out := f.delivery.ApplyCreated(f.ctx, dc, []domaininv.Line{{EquipmentTypeID: "A", Quantity: 5}})
	require.Len(t, out.Movements, 1)
	assert.Equal(t, "central_ok", out.Movements[0].StockItemID)
	assert.Equal(t, 45, f.quantity(t, "central_ok"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Devoluciones
// ──────────────────────────────────────────────────────────────────────────────

func TestApplyReturn_IngresaEnAlmacenCentral(t *testing.T) {
	f := deliveryFixture(t)

	out := f.delivery.ApplyReturn(f.ctx, dc, []inventory.ReturnLine{{EquipmentTypeID: "A", Quantity: 2}})
	assert.Equal(t, inventory.OutcomeApplied, out.Status)
	assert.Equal(t, 12, f.quantity(t, "eA"))
	require.Len(t, out.Movements, 1)
	assert.Equal(t, entity.MovementReturn, out.Movements[0].Kind)
}

func TestApplyReturn_CreaItemSiNoExiste(t *testing.T) {
	f := newFixture(t)
	f.seedType(t, "N", "Protetor Auricular", entity.CategoryHearing)

	out := f.delivery.ApplyReturn(f.ctx, dc, []inventory.ReturnLine{
		{EquipmentTypeID: "N", Quantity: 3},
		{EquipmentTypeID: "N", Quantity: 0},
	})
	assert.Equal(t, inventory.OutcomePartial, out.Status)
	require.Len(t, out.Movements, 1)

	items, err := f.stock.List(f.ctx, repository.StockFilter{EquipmentTypeID: "N"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	it := items[0]
	assert.Equal(t, 3, it.Quantity)
	assert.Equal(t, 10, it.MinQuantity)
	assert.Equal(t, entity.CentralWarehouseID, it.OwnerID)
	assert.Equal(t, entity.CentralWarehouseLocation, it.Location)
	assert.Contains(t, it.Lot, "LOTE-DEV-")
	assert.Equal(t, "2026-03-15", it.ExpiryDate)
}
