package inventory

import (
	"time"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// Alerts clasificación de ítems que requieren atención.
type Alerts struct {
	LowStock []entity.StockItem
	Expired  []entity.StockItem
	Expiring []entity.StockItem
}

// Empty indica que no hay nada que avisar.
func (a Alerts) Empty() bool {
	return len(a.LowStock) == 0 && len(a.Expired) == 0 && len(a.Expiring) == 0
}

// ClassifyAlerts separa ítems con stock bajo, vencidos y próximos a vencer.
// Un ítem aparece en una sola lista; los agotados no generan alerta de stock bajo.
func ClassifyAlerts(items []entity.StockItem, now time.Time, windowDays int) Alerts {
	var out Alerts
	for _, it := range items {
		switch DeriveStatus(&it, now) {
		case entity.StockStatusLow:
			out.LowStock = append(out.LowStock, it)
		case entity.StockStatusExpired:
			out.Expired = append(out.Expired, it)
		default:
			if IsExpiringSoon(&it, now, windowDays) {
				out.Expiring = append(out.Expiring, it)
			}
		}
	}
	return out
}
