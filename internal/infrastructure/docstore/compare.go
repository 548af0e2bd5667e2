package docstore

import (
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// DateBound interpreta un límite de rango como instante. Un número suelto
// ("2025") no cuenta como fecha.
func DateBound(bound string) (time.Time, bool) {
	if _, err := strconv.ParseFloat(bound, 64); err == nil {
		return time.Time{}, false
	}
	return entity.ParseDate(bound)
}

// CompareValue compara un valor de documento con un límite: como número si ambos
// lo son, como instante si ambos son fechas (sin importar la precisión de los
// segundos) y si no como texto.
func CompareValue(v any, bound string) int {
	if n, ok := Number(v); ok {
		if b, err := strconv.ParseFloat(bound, 64); err == nil {
			switch {
			case n < b:
				return -1
			case n > b:
				return 1
			}
			return 0
		}
	}
	s := FormatValue(v)
	if b, ok := DateBound(bound); ok {
		if a, ok := entity.ParseDate(s); ok {
			return a.Compare(b)
		}
	}
	return strings.Compare(s, bound)
}

// MatchRange indica si el valor cumple un filtro _gte/_lte.
func MatchRange(v any, f Filter) bool {
	switch f.Op {
	case OpGte:
		return CompareValue(v, f.Value) >= 0
	case OpLte:
		return CompareValue(v, f.Value) <= 0
	}
	return true
}

// Number valor numérico de un campo decodificado de JSON.
func Number(v any) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case int:
		return float64(x), true
	case string:
		n, err := strconv.ParseFloat(x, 64)
		return n, err == nil
	}
	return 0, false
}
