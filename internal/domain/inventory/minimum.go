package inventory

import (
	"time"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// DefaultMinQuantity mínimo para categorías sin valor propio.
const DefaultMinQuantity = 10

var minimumByCategory = map[string]int{
	entity.CategoryHead:        10,
	entity.CategoryEyes:        20,
	entity.CategoryHearing:     50,
	entity.CategoryRespiratory: 100,
	entity.CategoryHands:       20,
	entity.CategoryFeet:        10,
	entity.CategoryBody:        5,
	entity.CategoryFall:        5,
	entity.CategorySignaling:   15,
}

// MinimumForCategory cantidad mínima inicial de un ítem según la categoría del tipo.
func MinimumForCategory(category string) int {
	if v, ok := minimumByCategory[category]; ok {
		return v
	}
	return DefaultMinQuantity
}

// InitialExpiry validez de un ítem recién creado: hoy + vida útil + 365 días.
func InitialExpiry(today time.Time, serviceLifeDays int) string {
	if serviceLifeDays <= 0 {
		serviceLifeDays = entity.DefaultServiceLifeDays
	}
	return entity.FormatDate(today.AddDate(0, 0, serviceLifeDays+365))
}

// ReturnExpiry validez de un ítem creado para recibir devoluciones: hoy + vida útil.
func ReturnExpiry(today time.Time, serviceLifeDays int) string {
	if serviceLifeDays <= 0 {
		serviceLifeDays = entity.DefaultServiceLifeDays
	}
	return entity.FormatDate(today.AddDate(0, 0, serviceLifeDays))
}
