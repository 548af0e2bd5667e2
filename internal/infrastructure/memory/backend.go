// Package memory implementa docstore.Backend en memoria. Sirve para pruebas y
// para levantar la API localmente a partir de un db.json sin json-server.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
)

// Backend colecciones en memoria protegidas por un único mutex.
type Backend struct {
	mu          sync.Mutex
	collections map[string]*collection
}

// New crea un backend vacío.
func New() *Backend {
	return &Backend{collections: make(map[string]*collection)}
}

// LoadFile crea un backend con el contenido de un archivo db.json de json-server.
func LoadFile(path string) (*Backend, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	b := New()
	if err := b.Load(raw); err != nil {
		return nil, fmt.Errorf("cargar %s: %w", path, err)
	}
	return b, nil
}

// Load agrega los documentos de un objeto {colección: [documentos]}.
func (b *Backend) Load(raw []byte) error {
	var data map[string][]map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return fmt.Errorf("%w: %v", docstore.ErrDecode, err)
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for name, docs := range data {
		c := b.collectionLocked(name)
		for _, d := range docs {
			id := docstore.FormatValue(d["id"])
			if id == "" {
				id = docstore.NewID("")
			}
			d["id"] = id
			c.put(id, d)
		}
	}
	return nil
}

// Dump devuelve el contenido completo en el formato de db.json.
func (b *Backend) Dump() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string][]map[string]any, len(b.collections))
	for name, c := range b.collections {
		docs := make([]map[string]any, 0, len(c.order))
		for _, id := range c.order {
			docs = append(docs, c.docs[id])
		}
		out[name] = docs
	}
	return json.MarshalIndent(out, "", "  ")
}

// Collection devuelve la colección, creándola si no existe.
func (b *Backend) Collection(name string) docstore.Collection {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.collectionLocked(name)
	return &handle{b: b, name: name}
}

func (b *Backend) collectionLocked(name string) *collection {
	c, ok := b.collections[name]
	if !ok {
		c = &collection{docs: make(map[string]map[string]any)}
		b.collections[name] = c
	}
	return c
}

// Ping siempre disponible.
func (b *Backend) Ping(context.Context) error { return nil }

// Close no libera nada.
func (b *Backend) Close() {}

var _ docstore.Backend = (*Backend)(nil)

type collection struct {
	order []string
	docs  map[string]map[string]any
}

func (c *collection) put(id string, doc map[string]any) {
	if _, ok := c.docs[id]; !ok {
		c.order = append(c.order, id)
	}
	c.docs[id] = doc
}

func (c *collection) remove(id string) {
	delete(c.docs, id)
	for i, v := range c.order {
		if v == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// handle implementa docstore.Collection para una colección del backend.
type handle struct {
	b    *Backend
	name string
}

var (
	_ docstore.Collection  = (*handle)(nil)
	_ docstore.Incrementer = (*handle)(nil)
)

func (h *handle) Name() string { return h.name }

func (h *handle) coll() *collection { return h.b.collectionLocked(h.name) }

func (h *handle) List(ctx context.Context, q docstore.Query) ([]json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.b.mu.Lock()
	c := h.coll()
	matched := make([]map[string]any, 0, len(c.order))
	for _, id := range c.order {
		doc := c.docs[id]
		if matches(doc, q.Filters) {
			matched = append(matched, doc)
		}
	}
	out, err := encodeSorted(matched, q)
	h.b.mu.Unlock()
	return out, err
}

func (h *handle) Get(ctx context.Context, id string) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	doc, ok := h.coll().docs[id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", h.name, id, domain.ErrNotFound)
	}
	return json.Marshal(doc)
}

func (h *handle) Create(ctx context.Context, v any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := normalize(v)
	if err != nil {
		return nil, err
	}
	id := docstore.FormatValue(doc["id"])
	if id == "" {
		id = docstore.NewID("")
		doc["id"] = id
	}
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	c := h.coll()
	if _, exists := c.docs[id]; exists {
		return nil, fmt.Errorf("%s/%s: %w", h.name, id, domain.ErrDuplicate)
	}
	c.put(id, doc)
	return json.Marshal(doc)
}

func (h *handle) Replace(ctx context.Context, id string, v any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	doc, err := normalize(v)
	if err != nil {
		return nil, err
	}
	doc["id"] = id
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	c := h.coll()
	if _, ok := c.docs[id]; !ok {
		return nil, fmt.Errorf("%s/%s: %w", h.name, id, domain.ErrNotFound)
	}
	c.put(id, doc)
	return json.Marshal(doc)
}

func (h *handle) Patch(ctx context.Context, id string, fields map[string]any) (json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	patch, err := normalize(fields)
	if err != nil {
		return nil, err
	}
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	doc, ok := h.coll().docs[id]
	if !ok {
		return nil, fmt.Errorf("%s/%s: %w", h.name, id, domain.ErrNotFound)
	}
	for k, v := range patch {
		if k == "id" {
			continue
		}
		doc[k] = v
	}
	return json.Marshal(doc)
}

func (h *handle) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	c := h.coll()
	if _, ok := c.docs[id]; !ok {
		return fmt.Errorf("%s/%s: %w", h.name, id, domain.ErrNotFound)
	}
	c.remove(id)
	return nil
}

// Increment suma delta al campo numérico bajo el mismo lock que el resto de escrituras.
func (h *handle) Increment(ctx context.Context, id, field string, delta int, set map[string]any) (int, int, json.RawMessage, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, nil, err
	}
	extra, err := normalize(set)
	if err != nil {
		return 0, 0, nil, err
	}
	h.b.mu.Lock()
	defer h.b.mu.Unlock()
	doc, ok := h.coll().docs[id]
	if !ok {
		return 0, 0, nil, fmt.Errorf("%s/%s: %w", h.name, id, domain.ErrNotFound)
	}
	prev := 0
	if n, ok := docstore.Number(doc[field]); ok {
		prev = int(n)
	}
	current := prev + delta
	doc[field] = float64(current)
	for k, v := range extra {
		doc[k] = v
	}
	raw, err := json.Marshal(doc)
	return prev, current, raw, err
}

// normalize pasa el valor por JSON para guardar solo tipos JSON.
func normalize(v any) (map[string]any, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("serializar documento: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", docstore.ErrDecode, err)
	}
	if m == nil {
		m = map[string]any{}
	}
	return m, nil
}

func matches(doc map[string]any, filters []docstore.Filter) bool {
	for _, f := range filters {
		v, present := doc[f.Field]
		actual := docstore.FormatValue(v)
		switch f.Op {
		case docstore.OpEq:
			if !present || actual != f.Value {
				return false
			}
		case docstore.OpNe:
			if present && actual == f.Value {
				return false
			}
		case docstore.OpLike:
			if !strings.Contains(strings.ToLower(actual), strings.ToLower(f.Value)) {
				return false
			}
		case docstore.OpGte, docstore.OpLte:
			if !present || !docstore.MatchRange(v, f) {
				return false
			}
		}
	}
	return true
}

func encodeSorted(docs []map[string]any, q docstore.Query) ([]json.RawMessage, error) {
	if q.Sort != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			c := docstore.CompareValue(docs[i][q.Sort], docstore.FormatValue(docs[j][q.Sort]))
			if q.Desc {
				return c > 0
			}
			return c < 0
		})
	}
	if q.Limit > 0 && len(docs) > q.Limit {
		docs = docs[:q.Limit]
	}
	out := make([]json.RawMessage, 0, len(docs))
	for _, d := range docs {
		raw, err := json.Marshal(d)
		if err != nil {
			return nil, err
		}
		out = append(out, raw)
	}
	return out, nil
}
