package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

func cost(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

// ──────────────────────────────────────────────────────────────────────────────
// Notas de entrada
// ──────────────────────────────────────────────────────────────────────────────

func TestNotaEntrada_CreaYProcesa(t *testing.T) {
	f := newFixture(t)
	f.seedType(t, "t1", "Capacete X", entity.CategoryHead)
	f.seedType(t, "t2", "Luva", entity.CategoryHands)

	res, err := f.notas.Create(f.ctx, entity.NotaInbound, inventory.NotaInput{
		Actor:    "ana",
		Reason:   "Compra mensal",
		Supplier: "EPI Sul",
		Invoice:  "NF-123",
		Items: []inventory.NotaItemInput{
			{EquipmentTypeID: "t1", Quantity: 10, UnitCost: cost("2.50"), Lot: "L-77"},
			{EquipmentTypeID: "t2", Quantity: 4},
		},
	})
	require.NoError(t, err)

	n := res.Nota
	assert.Equal(t, entity.NotaProcessed, n.Status)
	assert.Regexp(t, `^ENTRADA-\d+$`, n.Number)
	assert.NotNil(t, n.ProcessedAt)
	require.NotNil(t, n.TotalValue)
	assert.True(t, decimal.NewFromInt(25).Equal(*n.TotalValue))
	assert.Equal(t, inventory.OutcomeApplied, res.Stock.Status)
	require.Len(t, res.Stock.Movements, 2)

	item, err := f.stock.GetByID(f.ctx, "estoque_almox_t1")
	require.NoError(t, err)
	assert.Equal(t, 10, item.Quantity)
	assert.Equal(t, "L-77", item.Lot)
	assert.Equal(t, "2026-03-15", item.ExpiryDate)
	assert.Equal(t, 4, f.quantity(t, "estoque_almox_t2"))

	evs := f.eventsOf(t, "estoque_almox_t1")
	require.Len(t, evs, 1)
	assert.Equal(t, n.ID, evs[0].Details.NotaID)
	assert.Equal(t, "Entrada via Nota "+n.Number, evs[0].Reason)

	stored, err := f.notasIn.GetByID(f.ctx, n.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.NotaProcessed, stored.Status)
	assert.Len(t, stored.Items, 2)
}

func TestNotaEntrada_EditarRevierteYReprocesa(t *testing.T) {
	f := newFixture(t)
	res, err := f.notas.Create(f.ctx, entity.NotaInbound, inventory.NotaInput{
		Actor: "ana", Reason: "Compra",
		Items: []inventory.NotaItemInput{{EquipmentTypeID: "t1", Quantity: 10}},
	})
	require.NoError(t, err)
	require.Equal(t, 10, f.quantity(t, "estoque_almox_t1"))

	f.advance(time.Minute)
	edited, err := f.notas.Edit(f.ctx, entity.NotaInbound, res.Nota.ID, inventory.NotaInput{
		Items: []inventory.NotaItemInput{{EquipmentTypeID: "t1", Quantity: 4}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.NotaProcessed, edited.Nota.Status)
	assert.Equal(t, "ana", edited.Nota.Actor, "los campos vacíos conservan su valor")
	assert.Len(t, edited.Stock.Movements, 2, "reversión + reproceso")
	assert.Equal(t, 4, f.quantity(t, "estoque_almox_t1"))

	evs := f.eventsOf(t, "estoque_almox_t1")
	require.Len(t, evs, 3)
	reasons := []string{evs[0].Reason, evs[1].Reason, evs[2].Reason}
	assert.Contains(t, reasons, "Reversão da nota "+res.Nota.Number+" (edição)")
}

func TestNota_ValidaEntrada(t *testing.T) {
	f := newFixture(t)

	_, err := f.notas.Create(f.ctx, "transferencia", inventory.NotaInput{Actor: "ana", Reason: "x",
		Items: []inventory.NotaItemInput{{EquipmentTypeID: "t1", Quantity: 1}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.notas.Create(f.ctx, entity.NotaInbound, inventory.NotaInput{Actor: "ana", Reason: "x"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.notas.Create(f.ctx, entity.NotaInbound, inventory.NotaInput{Actor: "ana", Reason: "x",
		Items: []inventory.NotaItemInput{{EquipmentTypeID: "t1", Quantity: 0}}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := f.notas.List(f.ctx, entity.NotaInbound, repository.NotaFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notas de salida
// ──────────────────────────────────────────────────────────────────────────────

func TestNotaSalida_LineaSinItemEsErrorBlando(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "estoque_almox_t1", "t1", entity.CentralWarehouseID, 20, 5, "")

	res, err := f.notas.Create(f.ctx, entity.NotaOutbound, inventory.NotaInput{
		Actor: "ana", Reason: "Obra norte", Recipient: "Obra Norte",
		Items: []inventory.NotaItemInput{
			{EquipmentTypeID: "t1", Quantity: 25},
			{EquipmentTypeID: "t9", Quantity: 1},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.NotaProcessed, res.Nota.Status)
	assert.Equal(t, inventory.OutcomePartial, res.Stock.Status)
	require.Len(t, res.Stock.Errors, 1)
	assert.Contains(t, res.Stock.Errors[0], "estoque_almox_t9")
	assert.Equal(t, -5, f.quantity(t, "estoque_almox_t1"))

	movs, err := f.movements.List(f.ctx, repository.MovementFilter{StockItemID: "estoque_almox_t1"})
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, "Processamento automático da nota de saída "+res.Nota.Number+" - Obra Norte", movs[0].Notes)
}

// ──────────────────────────────────────────────────────────────────────────────
// Estados
// ──────────────────────────────────────────────────────────────────────────────

func TestNota_CancelarSoloPendientes(t *testing.T) {
	f := newFixture(t)
	pending := &entity.Nota{
		ID: "nota_saida_1", Number: "SAIDA-1", OwnerID: entity.CentralWarehouseID, Date: refNow,
		Actor: "ana", Reason: "x", Status: entity.NotaPending,
		Items: []entity.NotaItem{{ID: "i1", EquipmentTypeID: "t1", Quantity: 1}},
	}
	require.NoError(t, f.notasOut.Create(f.ctx, pending))

	cancelled, err := f.notas.Cancel(f.ctx, entity.NotaOutbound, "nota_saida_1")
	require.NoError(t, err)
	assert.Equal(t, entity.NotaCancelled, cancelled.Status)

	_, err = f.notas.Cancel(f.ctx, entity.NotaOutbound, "nota_saida_1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.notas.Process(f.ctx, entity.NotaOutbound, "nota_saida_1")
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = f.notas.Edit(f.ctx, entity.NotaOutbound, "nota_saida_1", inventory.NotaInput{
		Items: []inventory.NotaItemInput{{EquipmentTypeID: "t1", Quantity: 2}},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.notas.Get(f.ctx, entity.NotaOutbound, "nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestNota_ProcesarPendiente(t *testing.T) {
	f := newFixture(t)
	f.seedItem(t, "estoque_almox_t1", "t1", entity.CentralWarehouseID, 3, 1, "")
	require.NoError(t, f.notasOut.Create(f.ctx, &entity.Nota{
		ID: "nota_saida_2", Number: "SAIDA-2", Date: refNow, Actor: "ana", Reason: "x",
		Status: entity.NotaPending,
		Items:  []entity.NotaItem{{ID: "i1", EquipmentTypeID: "t1", Quantity: 2}},
	}))

	res, err := f.notas.Process(f.ctx, entity.NotaOutbound, "nota_saida_2")
	require.NoError(t, err)
	assert.Equal(t, inventory.OutcomeApplied, res.Stock.Status)
	assert.Equal(t, 1, f.quantity(t, "estoque_almox_t1"))

	_, err = f.notas.Process(f.ctx, entity.NotaOutbound, "nota_saida_2")
	assert.ErrorIs(t, err, domain.ErrConflict, "una nota procesada no se procesa dos veces")
}
