// Package jsonserver implementa docstore.Backend sobre la API REST de json-server.
package jsonserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

const maxErrorBody = 2048

// Config parámetros del cliente.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HealthPath string
	HTTPClient *http.Client // opcional, para pruebas
}

// Client cliente HTTP de json-server. Cada colección es un recurso /<nombre>.
type Client struct {
	baseURL    string
	healthPath string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente.
func NewClient(cfg Config, log *logger.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		hc = &http.Client{Timeout: timeout}
	}
	health := cfg.HealthPath
	if health == "" {
		health = "/holdings"
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		healthPath: health,
		httpClient: hc,
		log:        log,
	}
}

var _ docstore.Backend = (*Client)(nil)

// BaseURL URL base configurada.
func (c *Client) BaseURL() string { return c.baseURL }

// Collection devuelve el recurso REST de la colección.
func (c *Client) Collection(name string) docstore.Collection {
	return &resource{c: c, name: name}
}

// Ping HEAD sobre el endpoint de salud.
func (c *Client) Ping(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodHead, c.healthPath, nil, nil, "health")
	return err
}

// Close cierra conexiones inactivas.
func (c *Client) Close() { c.httpClient.CloseIdleConnections() }

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, collection string) (json.RawMessage, error) {
	start := time.Now()
	raw, err := c.send(ctx, method, path, query, body)
	observeRequest(method, collection, err, time.Since(start))
	if err != nil {
		c.log.Debug().Err(err).Str("method", method).Str("path", path).Msg("json-server")
	}
	return raw, err
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (json.RawMessage, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, &APIError{Kind: KindDecode, Method: method, Path: path, Err: err}
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Kind: KindTransport, Method: method, Path: path, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		text := string(data)
		if len(text) > maxErrorBody {
			text = text[:maxErrorBody]
		}
		return nil, &APIError{Kind: KindHTTPStatus, Method: method, Path: path, Status: resp.StatusCode, Body: text}
	}
	if method == http.MethodHead || len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}
	if !json.Valid(data) {
		return nil, &APIError{Kind: KindDecode, Method: method, Path: path, Err: fmt.Errorf("cuerpo no es JSON")}
	}
	return json.RawMessage(data), nil
}

// resource una colección de json-server.
type resource struct {
	c    *Client
	name string
}

var _ docstore.Collection = (*resource)(nil)

func (r *resource) Name() string { return r.name }

func (r *resource) path(id string) string {
	if id == "" {
		return "/" + r.name
	}
	return "/" + r.name + "/" + url.PathEscape(id)
}

// List delega los filtros en json-server salvo los rangos de fechas, que se
// evalúan aquí: json-server compara texto y "…:00Z" queda detrás de "…:00.5Z".
func (r *resource) List(ctx context.Context, q docstore.Query) ([]json.RawMessage, error) {
	remote, local := splitDateRanges(q)
	raw, err := r.c.do(ctx, http.MethodGet, r.path(""), EncodeQuery(remote), nil, r.name)
	if err != nil {
		return nil, err
	}
	var out []json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, &APIError{Kind: KindDecode, Method: http.MethodGet, Path: r.path(""), Err: err}
	}
	if len(local) == 0 {
		return out, nil
	}
	kept := out[:0]
	for _, doc := range out {
		var fields map[string]any
		if err := json.Unmarshal(doc, &fields); err != nil {
			return nil, &APIError{Kind: KindDecode, Method: http.MethodGet, Path: r.path(""), Err: err}
		}
		if matchAll(fields, local) {
			kept = append(kept, doc)
		}
	}
	if q.Limit > 0 && len(kept) > q.Limit {
		kept = kept[:q.Limit]
	}
	return kept, nil
}

// splitDateRanges separa los filtros _gte/_lte con límite de fecha. Si hay alguno,
// el límite de resultados también se aplica localmente.
func splitDateRanges(q docstore.Query) (docstore.Query, []docstore.Filter) {
	var local []docstore.Filter
	remote := q
	remote.Filters = nil
	for _, f := range q.Filters {
		if f.Op == docstore.OpGte || f.Op == docstore.OpLte {
			if _, ok := docstore.DateBound(f.Value); ok {
				local = append(local, f)
				continue
			}
		}
		remote.Filters = append(remote.Filters, f)
	}
	if len(local) > 0 {
		remote.Limit = 0
	}
	return remote, local
}

func matchAll(fields map[string]any, filters []docstore.Filter) bool {
	for _, f := range filters {
		v, ok := fields[f.Field]
		if !ok || !docstore.MatchRange(v, f) {
			return false
		}
	}
	return true
}

func (r *resource) Get(ctx context.Context, id string) (json.RawMessage, error) {
	return r.c.do(ctx, http.MethodGet, r.path(id), nil, nil, r.name)
}

func (r *resource) Create(ctx context.Context, doc any) (json.RawMessage, error) {
	return r.c.do(ctx, http.MethodPost, r.path(""), nil, doc, r.name)
}

func (r *resource) Replace(ctx context.Context, id string, doc any) (json.RawMessage, error) {
	return r.c.do(ctx, http.MethodPut, r.path(id), nil, doc, r.name)
}

func (r *resource) Patch(ctx context.Context, id string, fields map[string]any) (json.RawMessage, error) {
	return r.c.do(ctx, http.MethodPatch, r.path(id), nil, fields, r.name)
}

func (r *resource) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, http.MethodDelete, r.path(id), nil, nil, r.name)
	return err
}

// EncodeQuery traduce la consulta a parámetros de json-server
// (campo=valor, campo_like, campo_gte, campo_lte, campo_ne, _sort, _order, _limit).
func EncodeQuery(q docstore.Query) url.Values {
	v := url.Values{}
	for _, f := range q.Filters {
		v.Add(f.Field+string(f.Op), f.Value)
	}
	if q.Sort != "" {
		v.Set("_sort", q.Sort)
		if q.Desc {
			v.Set("_order", "desc")
		} else {
			v.Set("_order", "asc")
		}
	}
	if q.Limit > 0 {
		v.Set("_limit", strconv.Itoa(q.Limit))
	}
	return v
}
