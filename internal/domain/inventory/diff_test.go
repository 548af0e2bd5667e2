package inventory_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// DiffLines: edición de entregas
// ──────────────────────────────────────────────────────────────────────────────

// old = [{A,2},{B,1}], new = [{A,3},{C,1}] → salida A 1, entrada B 1, salida C 1.
func TestDiffLines_EjemploCanonico(t *testing.T) {
	oldLines := []inventory.Line{{EquipmentTypeID: "A", Quantity: 2}, {EquipmentTypeID: "B", Quantity: 1}}
	newLines := []inventory.Line{{EquipmentTypeID: "A", Quantity: 3}, {EquipmentTypeID: "C", Quantity: 1}}

	got := inventory.DiffLines(oldLines, newLines)

	require.Len(t, got, 3)
	assert.Equal(t, inventory.Adjustment{EquipmentTypeID: "A", Direction: inventory.DirectionOutbound, Quantity: 1}, got[0])
	assert.Equal(t, inventory.Adjustment{EquipmentTypeID: "B", Direction: inventory.DirectionInbound, Quantity: 1}, got[1])
	assert.Equal(t, inventory.Adjustment{EquipmentTypeID: "C", Direction: inventory.DirectionOutbound, Quantity: 1}, got[2])
}

// El efecto neto es igual a restar directamente las sumas por tipo.
func TestDiffLines_EfectoNetoIgualADiferenciaDirecta(t *testing.T) {
	oldLines := []inventory.Line{
		{EquipmentTypeID: "A", Quantity: 2}, {EquipmentTypeID: "A", Quantity: 4},
		{EquipmentTypeID: "B", Quantity: 7}, {EquipmentTypeID: "D", Quantity: 1},
	}
	newLines := []inventory.Line{
		{EquipmentTypeID: "A", Quantity: 5}, {EquipmentTypeID: "B", Quantity: 2},
		{EquipmentTypeID: "B", Quantity: 5}, {EquipmentTypeID: "C", Quantity: 9},
	}

	net := inventory.NetEffect(inventory.DiffLines(oldLines, newLines))

	assert.Equal(t, map[string]int{"A": -1, "C": 9, "D": -1}, net)
}

func TestDiffLines_SinCambiosNoGeneraAjustes(t *testing.T) {
	lines := []inventory.Line{{EquipmentTypeID: "A", Quantity: 2}, {EquipmentTypeID: "B", Quantity: 1}}
	assert.Empty(t, inventory.DiffLines(lines, lines))
	// Reordenar o partir líneas del mismo tipo tampoco genera movimientos.
	split := []inventory.Line{{EquipmentTypeID: "B", Quantity: 1}, {EquipmentTypeID: "A", Quantity: 1}, {EquipmentTypeID: "A", Quantity: 1}}
	assert.Empty(t, inventory.DiffLines(lines, split))
}

func TestDiffLines_EliminarEntregaDevuelveTodo(t *testing.T) {
	oldLines := []inventory.Line{{EquipmentTypeID: "A", Quantity: 2}, {EquipmentTypeID: "B", Quantity: 1}}
	got := inventory.DiffLines(oldLines, nil)
	require.Len(t, got, 2)
	for _, a := range got {
		assert.Equal(t, inventory.DirectionInbound, a.Direction)
	}
	assert.Equal(t, -2, got[0].Signed())
}

// ──────────────────────────────────────────────────────────────────────────────
// Mínimos por categoría y validez inicial
// ──────────────────────────────────────────────────────────────────────────────

func TestMinimumForCategory(t *testing.T) {
	assert.Equal(t, 10, inventory.MinimumForCategory(entity.CategoryHead))
	assert.Equal(t, 20, inventory.MinimumForCategory(entity.CategoryEyes))
	assert.Equal(t, 50, inventory.MinimumForCategory(entity.CategoryHearing))
	assert.Equal(t, 100, inventory.MinimumForCategory(entity.CategoryRespiratory))
	assert.Equal(t, 20, inventory.MinimumForCategory(entity.CategoryHands))
	assert.Equal(t, 10, inventory.MinimumForCategory(entity.CategoryFeet))
	assert.Equal(t, 5, inventory.MinimumForCategory(entity.CategoryBody))
	assert.Equal(t, 5, inventory.MinimumForCategory(entity.CategoryFall))
	assert.Equal(t, 15, inventory.MinimumForCategory(entity.CategorySignaling))
	assert.Equal(t, inventory.DefaultMinQuantity, inventory.MinimumForCategory(entity.CategoryEyesFace))
	assert.Equal(t, inventory.DefaultMinQuantity, inventory.MinimumForCategory("Desconocida"))
}

func TestInitialExpiry_VidaUtilMasUnAnio(t *testing.T) {
	today := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-01-15", inventory.InitialExpiry(today, 5))
	assert.Equal(t, "2027-01-10", inventory.InitialExpiry(today, 365))
	assert.Equal(t, "2027-01-10", inventory.InitialExpiry(today, 0), "vida útil por defecto")
}

func TestReturnExpiry(t *testing.T) {
	today := time.Date(2025, 1, 10, 9, 0, 0, 0, time.UTC)
	assert.Equal(t, "2025-02-09", inventory.ReturnExpiry(today, 30))
}

// ──────────────────────────────────────────────────────────────────────────────
// Costo promedio ponderado
// ──────────────────────────────────────────────────────────────────────────────

func TestWeightedUnitCost(t *testing.T) {
	got := inventory.WeightedUnitCost(10, decimal.NewFromInt(20), 10, decimal.NewFromInt(30))
	assert.True(t, got.Equal(decimal.NewFromInt(25)), "got %s", got)

	got = inventory.WeightedUnitCost(-4, decimal.NewFromInt(99), 5, decimal.NewFromInt(12))
	assert.True(t, got.Equal(decimal.NewFromInt(12)), "stock negativo se ignora, got %s", got)

	got = inventory.WeightedUnitCost(0, decimal.Zero, 0, decimal.NewFromInt(12))
	assert.True(t, got.IsZero())
}
