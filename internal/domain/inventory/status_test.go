package inventory_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/inventory"
)

// ──────────────────────────────────────────────────────────────────────────────
// DeriveStatus: precedencia esgotado > vencido > baixo_estoque > disponivel
// ──────────────────────────────────────────────────────────────────────────────

var refNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func item(qty, min int, expiry string) *entity.StockItem {
	return &entity.StockItem{ID: "estoque_1", Quantity: qty, MinQuantity: min, ExpiryDate: expiry}
}

func TestDeriveStatus_Precedencia(t *testing.T) {
	cases := []struct {
		name string
		item *entity.StockItem
		want string
	}{
		{"cero es agotado aunque esté vencido", item(0, 10, "2020-01-01"), entity.StockStatusEmpty},
		{"cero es agotado sin fecha", item(0, 0, ""), entity.StockStatusEmpty},
		{"negativo es agotado aunque el mínimo sea mayor", item(-4, 10, "2030-01-01"), entity.StockStatusEmpty},
		{"vencido gana a stock bajo", item(3, 10, "2025-03-01"), entity.StockStatusExpired},
		{"vencido con stock alto", item(500, 10, "2025-03-14T23:59:59Z"), entity.StockStatusExpired},
		{"stock igual al mínimo es bajo", item(10, 10, "2026-01-01"), entity.StockStatusLow},
		{"stock bajo sin fecha", item(4, 10, ""), entity.StockStatusLow},
		{"disponible", item(11, 10, "2026-01-01"), entity.StockStatusAvailable},
		{"fecha ilegible no vence", item(50, 10, "31/12/2001"), entity.StockStatusAvailable},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, inventory.DeriveStatus(tc.item, refNow))
		})
	}
}

// Las cantidades negativas (salidas permitidas sin stock) se muestran agotadas.
func TestDeriveStatus_NegativoEsAgotado(t *testing.T) {
	assert.Equal(t, entity.StockStatusEmpty, inventory.DeriveStatus(item(-3, 10, "2026-01-01"), refNow))
	assert.Equal(t, entity.StockStatusEmpty, inventory.DeriveStatus(item(-1, -5, ""), refNow))
}

// ──────────────────────────────────────────────────────────────────────────────
// Próximo a vencer
// ──────────────────────────────────────────────────────────────────────────────

func TestIsExpiringSoon_Ventana(t *testing.T) {
	assert.True(t, inventory.IsExpiringSoon(item(50, 10, "2025-04-10"), refNow, 30), "25 días dentro de la ventana")
	assert.False(t, inventory.IsExpiringSoon(item(50, 10, "2025-05-30"), refNow, 30), "fuera de la ventana")
	assert.True(t, inventory.IsExpiringSoon(item(50, 10, "2025-05-30"), refNow, 90), "ventana configurable")
	assert.False(t, inventory.IsExpiringSoon(item(50, 10, "2025-03-01"), refNow, 30), "ya vencido no es próximo")
	assert.False(t, inventory.IsExpiringSoon(item(50, 10, ""), refNow, 30), "sin fecha")
	assert.False(t, inventory.IsExpiringSoon(item(50, 10, "xx"), refNow, 30), "fecha ilegible")
}

func TestIsExpiringSoon_VentanaPorDefecto(t *testing.T) {
	assert.True(t, inventory.IsExpiringSoon(item(50, 10, "2025-04-10"), refNow, 0))
}

// Un ítem disponible puede estar a la vez próximo a vencer.
func TestIsExpiringSoon_IndependienteDelEstado(t *testing.T) {
	it := item(100, 10, "2025-04-01")
	assert.Equal(t, entity.StockStatusAvailable, inventory.DeriveStatus(it, refNow))
	assert.True(t, inventory.IsExpiringSoon(it, refNow, 30))
}

func TestDaysUntilExpiry(t *testing.T) {
	days, ok := inventory.DaysUntilExpiry(item(1, 0, "2025-03-25T12:00:00Z"), refNow)
	assert.True(t, ok)
	assert.Equal(t, 10, days)

	_, ok = inventory.DaysUntilExpiry(item(1, 0, ""), refNow)
	assert.False(t, ok)
}

// ──────────────────────────────────────────────────────────────────────────────
// Alertas
// ──────────────────────────────────────────────────────────────────────────────

func TestClassifyAlerts(t *testing.T) {
	items := []entity.StockItem{
		{ID: "bajo", Quantity: 2, MinQuantity: 10},
		{ID: "vencido", Quantity: 40, MinQuantity: 10, ExpiryDate: "2024-12-31"},
		{ID: "proximo", Quantity: 40, MinQuantity: 10, ExpiryDate: "2025-04-01"},
		{ID: "agotado", Quantity: 0, MinQuantity: 10},
		{ID: "ok", Quantity: 40, MinQuantity: 10, ExpiryDate: "2027-01-01"},
	}
	alerts := inventory.ClassifyAlerts(items, refNow, 30)

	ids := func(list []entity.StockItem) []string {
		out := make([]string, 0, len(list))
		for _, it := range list {
			out = append(out, it.ID)
		}
		return out
	}
	assert.Equal(t, []string{"bajo"}, ids(alerts.LowStock))
	assert.Equal(t, []string{"vencido"}, ids(alerts.Expired))
	assert.Equal(t, []string{"proximo"}, ids(alerts.Expiring))
	assert.False(t, alerts.Empty())
	assert.True(t, inventory.ClassifyAlerts(nil, refNow, 30).Empty())
}
