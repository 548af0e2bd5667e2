package inventory

import (
	"time"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// DefaultExpiringWindowDays ventana por defecto de "próximo a vencer".
const DefaultExpiringWindowDays = 30

// DeriveStatus calcula el estado del ítem. Precedencia: esgotado > vencido > baixo_estoque > disponivel.
// Una cantidad negativa se considera agotada. Una fecha ausente o ilegible no vence el ítem.
func DeriveStatus(item *entity.StockItem, now time.Time) string {
	switch {
	case item.Quantity <= 0:
		return entity.StockStatusEmpty
	case IsExpired(item, now):
		return entity.StockStatusExpired
	case item.Quantity <= item.MinQuantity:
		return entity.StockStatusLow
	default:
		return entity.StockStatusAvailable
	}
}

// IsExpired indica si la fecha de validez ya pasó.
func IsExpired(item *entity.StockItem, now time.Time) bool {
	exp, ok := entity.ParseDate(item.ExpiryDate)
	if !ok {
		return false
	}
	return exp.Before(now)
}

// DaysUntilExpiry días completos hasta la validez (trunca hacia cero).
// ok es false cuando la fecha falta o no se puede leer.
func DaysUntilExpiry(item *entity.StockItem, now time.Time) (days int, ok bool) {
	exp, ok := entity.ParseDate(item.ExpiryDate)
	if !ok {
		return 0, false
	}
	return int(exp.Sub(now) / (24 * time.Hour)), true
}

// IsExpiringSoon indica si la validez cae dentro de la ventana y todavía no pasó.
// Es independiente de DeriveStatus: un ítem disponible puede estar próximo a vencer.
func IsExpiringSoon(item *entity.StockItem, now time.Time, windowDays int) bool {
	if windowDays <= 0 {
		windowDays = DefaultExpiringWindowDays
	}
	days, ok := DaysUntilExpiry(item, now)
	if !ok {
		return false
	}
	return days > 0 && days <= windowDays
}
