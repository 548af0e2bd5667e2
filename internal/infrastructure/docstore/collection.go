// Package docstore define el puerto de almacenamiento de documentos JSON y los
// repositorios tipados que lo usan.
//
// Cada colección guarda documentos con un campo "id" de texto. Los backends
// (json-server vía REST, PostgreSQL JSONB, memoria) implementan Collection;
// los repositorios traducen entre documentos y entidades de dominio.
package docstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Nombres de colecciones.
const (
	CollectionEquipmentTypes = "tiposEPI"
	CollectionStock          = "estoque"
	CollectionMovements      = "movimentacoesEstoque"
	CollectionStockEvents    = "historicoEstoque"
	CollectionFichas         = "fichasEPI"
	CollectionDeliveries     = "entregas"
	CollectionHistorico      = "historico"
	CollectionNotasInbound   = "notasEntrada"
	CollectionNotasOutbound  = "notasSaida"
	CollectionNotifications  = "notificacoes"
	CollectionEmployees      = "colaboradores"
	CollectionCompanies      = "empresas"
)

// Collections todas las colecciones conocidas.
var Collections = []string{
	CollectionEquipmentTypes, CollectionStock, CollectionMovements, CollectionStockEvents,
	CollectionFichas, CollectionDeliveries, CollectionHistorico, CollectionNotasInbound,
	CollectionNotasOutbound, CollectionNotifications, CollectionEmployees, CollectionCompanies,
}

// Collection operaciones genéricas sobre una colección de documentos.
type Collection interface {
	Name() string
	List(ctx context.Context, q Query) ([]json.RawMessage, error)
	Get(ctx context.Context, id string) (json.RawMessage, error)
	Create(ctx context.Context, doc any) (json.RawMessage, error)
	Replace(ctx context.Context, id string, doc any) (json.RawMessage, error)
	Patch(ctx context.Context, id string, fields map[string]any) (json.RawMessage, error)
	Delete(ctx context.Context, id string) error
}

// Incrementer lo implementan los backends capaces de sumar un delta en el servidor
// de forma atómica. set se aplica en la misma escritura.
type Incrementer interface {
	Increment(ctx context.Context, id, field string, delta int, set map[string]any) (prev, current int, doc json.RawMessage, err error)
}

// Valuer lo implementan los backends que suman en el servidor cantidad × precio
// de los documentos con cantidad no negativa y precio informado.
type Valuer interface {
	SumProduct(ctx context.Context, qtyField, priceField string) (decimal.Decimal, error)
}

// Backend fábrica de colecciones más chequeo de salud.
type Backend interface {
	Collection(name string) Collection
	Ping(ctx context.Context) error
	Close()
}

// Op operador de filtro (sufijos de json-server).
type Op string

const (
	OpEq   Op = ""
	OpNe   Op = "_ne"
	OpLike Op = "_like"
	OpGte  Op = "_gte"
	OpLte  Op = "_lte"
)

// Filter condición sobre un campo de primer nivel.
type Filter struct {
	Field string
	Op    Op
	Value string
}

// Query filtros, orden y límite de un listado.
type Query struct {
	Filters []Filter
	Sort    string
	Desc    bool
	Limit   int
}

func (q Query) with(f Filter) Query {
	filters := make([]Filter, len(q.Filters), len(q.Filters)+1)
	copy(filters, q.Filters)
	q.Filters = append(filters, f)
	return q
}

// Where igualdad exacta. Los valores vacíos se ignoran.
func (q Query) Where(field string, value any) Query {
	s := FormatValue(value)
	if s == "" {
		return q
	}
	return q.with(Filter{Field: field, Op: OpEq, Value: s})
}

// Not desigualdad.
func (q Query) Not(field string, value any) Query {
	return q.with(Filter{Field: field, Op: OpNe, Value: FormatValue(value)})
}

// Like coincidencia parcial sin distinguir mayúsculas.
func (q Query) Like(field, value string) Query {
	if value == "" {
		return q
	}
	return q.with(Filter{Field: field, Op: OpLike, Value: value})
}

// Range límites inclusivos; un límite vacío se omite.
func (q Query) Range(field string, gte, lte any) Query {
	if s := FormatValue(gte); s != "" {
		q = q.with(Filter{Field: field, Op: OpGte, Value: s})
	}
	if s := FormatValue(lte); s != "" {
		q = q.with(Filter{Field: field, Op: OpLte, Value: s})
	}
	return q
}

// SortBy ordena por campo.
func (q Query) SortBy(field string, desc bool) Query {
	q.Sort = field
	q.Desc = desc
	return q
}

// Take limita el número de resultados.
func (q Query) Take(n int) Query {
	q.Limit = n
	return q
}

// FormatValue convierte un valor de filtro a texto como lo compara json-server.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case *string:
		if x == nil {
			return ""
		}
		return *x
	case bool:
		return strconv.FormatBool(x)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	case *time.Time:
		if x == nil {
			return ""
		}
		return x.UTC().Format(time.RFC3339Nano)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(x)
	}
}
