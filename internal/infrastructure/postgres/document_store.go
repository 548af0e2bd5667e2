package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
)

// DocumentStore implementa docstore.Backend sobre la tabla documents (JSONB).
type DocumentStore struct {
	pool *pgxpool.Pool
}

// NewDocumentStore construye el backend con el pool.
func NewDocumentStore(pool *pgxpool.Pool) *DocumentStore {
	return &DocumentStore{pool: pool}
}

var _ docstore.Backend = (*DocumentStore)(nil)

// Collection devuelve la colección con ese nombre.
func (s *DocumentStore) Collection(name string) docstore.Collection {
	return &documentCollection{pool: s.pool, name: name}
}

// Ping verifica la conexión.
func (s *DocumentStore) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}
	return nil
}

// Close cierra el pool.
func (s *DocumentStore) Close() {
	s.pool.Close()
}

type documentCollection struct {
	pool *pgxpool.Pool
	name string
}

var (
	_ docstore.Collection  = (*documentCollection)(nil)
	_ docstore.Incrementer = (*documentCollection)(nil)
	_ docstore.Valuer      = (*documentCollection)(nil)
)

func (c *documentCollection) Name() string { return c.name }

func (c *documentCollection) List(ctx context.Context, q docstore.Query) ([]json.RawMessage, error) {
	query, args := buildListQuery(c.name, q)
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listar %s: %w", c.name, err)
	}
	defer rows.Close()

	var out []json.RawMessage
	for rows.Next() {
		var body []byte
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("listar %s: %w", c.name, err)
		}
		out = append(out, json.RawMessage(body))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listar %s: %w", c.name, err)
	}
	return out, nil
}

func (c *documentCollection) Get(ctx context.Context, id string) (json.RawMessage, error) {
	var body []byte
	err := c.pool.QueryRow(ctx,
		`SELECT body FROM documents WHERE collection = $1 AND id = $2`, c.name, id,
	).Scan(&body)
	if err != nil {
		return nil, c.wrap(id, err)
	}
	return body, nil
}

func (c *documentCollection) Create(ctx context.Context, v any) (json.RawMessage, error) {
	doc, err := docstore.ToDocument(v)
	if err != nil {
		return nil, err
	}
	id := docstore.FormatValue(doc["id"])
	if id == "" {
		id = docstore.NewID("")
		doc["id"] = id
	}
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializar documento: %w", err)
	}
	var body []byte
	err = c.pool.QueryRow(ctx,
		`INSERT INTO documents (collection, id, body) VALUES ($1, $2, $3::text::jsonb) RETURNING body`,
		c.name, id, string(payload),
	).Scan(&body)
	if err != nil {
		return nil, c.wrap(id, err)
	}
	return body, nil
}

func (c *documentCollection) Replace(ctx context.Context, id string, v any) (json.RawMessage, error) {
	doc, err := docstore.ToDocument(v)
	if err != nil {
		return nil, err
	}
	doc["id"] = id
	payload, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializar documento: %w", err)
	}
	var body []byte
	err = c.pool.QueryRow(ctx,
		`UPDATE documents SET body = $3::text::jsonb, updated_at = now()
		 WHERE collection = $1 AND id = $2 RETURNING body`,
		c.name, id, string(payload),
	).Scan(&body)
	if err != nil {
		return nil, c.wrap(id, err)
	}
	return body, nil
}

func (c *documentCollection) Patch(ctx context.Context, id string, fields map[string]any) (json.RawMessage, error) {
	patch := make(map[string]any, len(fields))
	for k, v := range fields {
		if k != "id" {
			patch[k] = v
		}
	}
	payload, err := json.Marshal(patch)
	if err != nil {
		return nil, fmt.Errorf("serializar documento: %w", err)
	}
	var body []byte
	err = c.pool.QueryRow(ctx,
		`UPDATE documents SET body = body || $3::text::jsonb, updated_at = now()
		 WHERE collection = $1 AND id = $2 RETURNING body`,
		c.name, id, string(payload),
	).Scan(&body)
	if err != nil {
		return nil, c.wrap(id, err)
	}
	return body, nil
}

func (c *documentCollection) Delete(ctx context.Context, id string) error {
	tag, err := c.pool.Exec(ctx, `DELETE FROM documents WHERE collection = $1 AND id = $2`, c.name, id)
	if err != nil {
		return c.wrap(id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%s/%s: %w", c.name, id, domain.ErrNotFound)
	}
	return nil
}

// Increment suma delta en una sola sentencia UPDATE; la fila queda bloqueada
// durante la escritura, así que dos incrementos concurrentes no se pisan.
func (c *documentCollection) Increment(ctx context.Context, id, field string, delta int, set map[string]any) (int, int, json.RawMessage, error) {
	extra, err := json.Marshal(set)
	if err != nil {
		return 0, 0, nil, fmt.Errorf("serializar documento: %w", err)
	}
	if set == nil {
		extra = []byte("{}")
	}
	var (
		current int
		body    []byte
	)
	err = c.pool.QueryRow(ctx, `
		UPDATE documents
		SET body = jsonb_set(
		        body || $5::text::jsonb,
		        ARRAY[$3::text],
		        to_jsonb(COALESCE((body->>$3::text)::numeric, 0)::int + $4::int)
		    ),
		    updated_at = now()
		WHERE collection = $1 AND id = $2
		RETURNING (body->>$3::text)::int, body`,
		c.name, id, field, delta, string(extra),
	).Scan(&current, &body)
	if err != nil {
		return 0, 0, nil, c.wrap(id, err)
	}
	return current - delta, current, body, nil
}

// SumProduct calcula la suma en NUMERIC y la escanea con el códec de decimal del pool.
// Los documentos con cantidad negativa o sin precio no suman.
func (c *documentCollection) SumProduct(ctx context.Context, qtyField, priceField string) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := c.pool.QueryRow(ctx, `
		SELECT COALESCE(SUM(
		    CASE WHEN jsonb_typeof(body->$2::text) = 'number'
		              AND jsonb_typeof(body->$3::text) IN ('number', 'string')
		         THEN greatest((body->>$2::text)::numeric, 0) * (body->>$3::text)::numeric
		    END), 0)
		FROM documents
		WHERE collection = $1`,
		c.name, qtyField, priceField,
	).Scan(&total)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: sumar %s × %s: %w", c.name, qtyField, priceField, err)
	}
	return total, nil
}

func (c *documentCollection) wrap(id string, err error) error {
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return fmt.Errorf("%s/%s: %w", c.name, id, domain.ErrNotFound)
	case isUniqueViolation(err):
		return fmt.Errorf("%s/%s: %w", c.name, id, domain.ErrDuplicate)
	default:
		return fmt.Errorf("%s/%s: %w", c.name, id, err)
	}
}

// buildListQuery traduce la consulta a SQL. Los nombres de campo viajan como
// parámetros (body->>$n), nunca concatenados.
func buildListQuery(collection string, q docstore.Query) (string, []any) {
	var sb strings.Builder
	args := []any{collection}
	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	sb.WriteString("SELECT body FROM documents WHERE collection = $1")
	for _, f := range q.Filters {
		field := arg(f.Field) + "::text"
		switch f.Op {
		case docstore.OpEq:
			fmt.Fprintf(&sb, " AND body->>%s = %s", field, arg(f.Value))
		case docstore.OpNe:
			fmt.Fprintf(&sb, " AND body->>%s IS DISTINCT FROM %s", field, arg(f.Value))
		case docstore.OpLike:
			fmt.Fprintf(&sb, " AND body->>%s ILIKE '%%' || %s || '%%'", field, arg(f.Value))
		case docstore.OpGte, docstore.OpLte:
			cmp := ">="
			if f.Op == docstore.OpLte {
				cmp = "<="
			}
			if n, err := strconv.ParseFloat(f.Value, 64); err == nil {
				fmt.Fprintf(&sb,
					" AND CASE WHEN jsonb_typeof(body->%[1]s) = 'number' THEN (body->>%[1]s)::numeric %[2]s %[3]s::numeric ELSE false END",
					field, cmp, arg(n))
			} else if t, ok := docstore.DateBound(f.Value); ok {
				// como instante: el texto RFC3339 de precisión variable no ordena bien
				fmt.Fprintf(&sb,
					" AND CASE WHEN body->>%[1]s ~ '^[0-9]{4}-[0-9]{2}-[0-9]{2}' THEN (body->>%[1]s)::timestamptz %[2]s %[3]s::timestamptz ELSE false END",
					field, cmp, arg(t.UTC()))
			} else {
				fmt.Fprintf(&sb, " AND body->>%s %s %s", field, cmp, arg(f.Value))
			}
		}
	}

	if q.Sort != "" {
		dir := "ASC"
		if q.Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, " ORDER BY body->(%s::text) %s NULLS LAST, created_at", arg(q.Sort), dir)
	} else {
		sb.WriteString(" ORDER BY created_at, id")
	}
	if q.Limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", q.Limit)
	}
	return sb.String(), args
}
