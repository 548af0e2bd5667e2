package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/internal/application/deliveries"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/application/usecase"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/memory"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/pdf"
	apphttp "github.com/jhoicas/epi-control-api/internal/interfaces/http"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

const seed = `{
  "empresas": [{"id": "emp_1", "nome": "Construtora Alfa", "cnpj": "12.345.678/0001-90", "endereco": "Rua A, 100", "status": "ativa"}],
  "colaboradores": [
    {"id": "col_1", "nome": "João Silva", "cpf": "111.222.333-44", "cargo": "Soldador", "empresaId": "emp_1", "status": "ativo"}
  ]
}`

type downPinger struct{}

func (downPinger) Ping(context.Context) error { return errors.New("connection refused") }

// buildTestApp arma la API completa sobre el backend en memoria.
func buildTestApp(t *testing.T, pinger docstore.Pinger) *fiber.App {
	t.Helper()
	b := memory.New()
	require.NoError(t, b.Load([]byte(seed)))
	log := logger.Nop()
	if pinger == nil {
		pinger = b
	}

	types := docstore.NewEquipmentTypeRepository(b)
	stock := docstore.NewStockRepository(b)
	movementsRepo := docstore.NewStockMovementRepository(b)
	events := docstore.NewStockEventRepository(b)
	fichas := docstore.NewFichaRepository(b)
	historico := docstore.NewHistoricoRepository(b)
	notifications := docstore.NewNotificationRepository(b)
	dir := docstore.NewDirectoryRepository(b)
	generator := pdf.NewMarotoPDFGenerator()

	movements := inventory.NewMovementUseCase(stock, movementsRepo, events, types, log)
	sync := inventory.NewCatalogSync(stock, events, types, log)
	alerts := inventory.NewAlertUseCase(stock, types, notifications, 30, log)

	app := fiber.New()
	apphttp.Router(app, apphttp.RouterDeps{
		Catalog:       usecase.NewCatalogUseCase(types, sync, log),
		Fichas:        usecase.NewFichaUseCase(fichas, historico, dir.Employees(), types, 1, time.Millisecond, log),
		Notifications: usecase.NewNotificationUseCase(notifications),
		Directory:     usecase.NewDirectoryUseCase(dir.Employees(), dir.Companies()),
		Deliveries: deliveries.NewService(docstore.NewDeliveryRepository(b), fichas, historico,
			dir.Employees(), dir.Companies(), types, inventory.NewDeliveryStock(movements, stock, types, log),
			generator, entity.Company{Name: "Empresa Padrão"}, log),
		StockQuery: inventory.NewStockQueryUseCase(stock, movementsRepo, events, types, 30),
		Movements:  movements,
		Notas: inventory.NewNotaUseCase(docstore.NewNotaRepository(b, entity.NotaInbound),
			docstore.NewNotaRepository(b, entity.NotaOutbound), movements, stock, log),
		Alerts:        alerts,
		Replenishment: inventory.NewReplenishmentUseCase(stock, types),
		Reports:       generator,
		Health:        docstore.NewHealthMonitor(pinger, time.Minute, log),
		Backend:       "memory",
	})
	return app
}

// call lanza la petición y decodifica el cuerpo JSON en out (si no es nil).
func call(t *testing.T, app *fiber.App, method, path string, body any, out any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	if out != nil {
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal(raw, out), string(raw))
	}
	return resp
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func createHelmet(t *testing.T, app *fiber.App) string {
	t.Helper()
	var out struct {
		Type struct {
			ID string `json:"id"`
		} `json:"type"`
		Stock inventory.StockOutcome `json:"stock"`
	}
	resp := call(t, app, http.MethodPost, "/api/catalog", map[string]any{
		"name": "Capacete", "ca_number": "CA-100", "manufacturer": "MSA", "category": entity.CategoryHead,
	}, &out)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, out.Type.ID)
	return out.Type.ID
}

// ──────────────────────────────────────────────────────────────────────────────
// Salud y métricas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth_InformaBackend(t *testing.T) {
	app := buildTestApp(t, nil)
	var out map[string]any
	resp := call(t, app, http.MethodGet, "/health", nil, &out)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, "memory", out["backend"])
}

func TestMetrics_Expone(t *testing.T) {
	app := buildTestApp(t, nil)
	resp := call(t, app, http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestRequireStore_AlmacenCaidoResponde503(t *testing.T) {
	b := memory.New()
	monitor := docstore.NewHealthMonitor(downPinger{}, time.Minute, logger.Nop())
	require.False(t, monitor.Check(context.Background()))

	app := fiber.New()
	app.Get("/api/x", apphttp.RequireStore(monitor), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	var out errorBody
	resp := call(t, app, http.MethodGet, "/api/x", nil, &out)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)
	assert.Equal(t, "STORE_UNAVAILABLE", out.Code)

	// un monitor que nunca chequeó deja pasar
	fresh := docstore.NewHealthMonitor(b, time.Minute, logger.Nop())
	app2 := fiber.New()
	app2.Get("/api/x", apphttp.RequireStore(fresh), func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusOK) })
	assert.Equal(t, fiber.StatusOK, call(t, app2, http.MethodGet, "/api/x", nil, nil).StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo y stock
// ──────────────────────────────────────────────────────────────────────────────

func TestCatalog_CrearSincronizaStock(t *testing.T) {
	app := buildTestApp(t, nil)
	typeID := createHelmet(t, app)

	var items []map[string]any
	resp := call(t, app, http.MethodGet, "/api/stock?tipoEPIId="+typeID, nil, &items)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Len(t, items, 1)
	assert.Equal(t, entity.StockStatusEmpty, items[0]["status"])
}

func TestCatalog_ValidacionYDuplicado(t *testing.T) {
	app := buildTestApp(t, nil)

	var out errorBody
	resp := call(t, app, http.MethodPost, "/api/catalog", map[string]any{"name": "Sem CA"}, &out)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)

	createHelmet(t, app)
	resp = call(t, app, http.MethodPost, "/api/catalog", map[string]any{
		"name": "Outro", "ca_number": "CA-100", "manufacturer": "3M", "category": entity.CategoryHead,
	}, &out)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DUPLICATE", out.Code)
}

func TestCatalog_TipoInexistente404(t *testing.T) {
	app := buildTestApp(t, nil)
	var out errorBody
	resp := call(t, app, http.MethodGet, "/api/catalog/tipo_x", nil, &out)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", out.Code)
}

func TestStock_EntradaSalidaYAjuste(t *testing.T) {
	app := buildTestApp(t, nil)
	typeID := createHelmet(t, app)
	var items []map[string]any
	call(t, app, http.MethodGet, "/api/stock?tipoEPIId="+typeID, nil, &items)
	itemID := items[0]["id"].(string)

	var res inventory.MovementResult
	resp := call(t, app, http.MethodPost, "/api/stock/"+itemID+"/inbound",
		map[string]any{"quantity": 10, "actor": "Ana", "reason": "Compra"}, &res)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 10, res.Item.Quantity)

	resp = call(t, app, http.MethodPost, "/api/stock/"+itemID+"/outbound",
		map[string]any{"quantity": 12, "actor": "Ana", "reason": "Uso"}, &res)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, -2, res.Item.Quantity)

	resp = call(t, app, http.MethodPost, "/api/stock/"+itemID+"/adjust",
		map[string]any{"new_quantity": 5, "actor": "Ana", "reason": "Inventário"}, &res)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, 5, res.Item.Quantity)

	var movements []map[string]any
	call(t, app, http.MethodGet, "/api/stock/"+itemID+"/movements", nil, &movements)
	assert.Len(t, movements, 3)

	var out errorBody
	resp = call(t, app, http.MethodPost, "/api/stock/"+itemID+"/inbound",
		map[string]any{"quantity": 0, "actor": "Ana", "reason": "Compra"}, &out)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestStock_Informe(t *testing.T) {
	app := buildTestApp(t, nil)
	createHelmet(t, app)

	resp := call(t, app, http.MethodGet, "/api/stock/report", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "estoque_")
}

func TestNotas_TipoDesconocido400(t *testing.T) {
	app := buildTestApp(t, nil)
	var out errorBody
	resp := call(t, app, http.MethodGet, "/api/notas/transferencia", nil, &out)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

func TestNotas_EntradaSumaStock(t *testing.T) {
	app := buildTestApp(t, nil)
	typeID := createHelmet(t, app)

	var res inventory.NotaResult
	resp := call(t, app, http.MethodPost, "/api/notas/entrada", map[string]any{
		"actor": "Ana", "reason": "Compra", "supplier": "MSA",
		"items": []map[string]any{{"equipment_type_id": typeID, "quantity": 8}},
	}, &res)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, entity.NotaProcessed, res.Nota.Status)
	assert.Equal(t, inventory.OutcomeApplied, res.Stock.Status)
}

// ──────────────────────────────────────────────────────────────────────────────
// Fichas y entregas
// ──────────────────────────────────────────────────────────────────────────────

func TestEntrega_FlujoCompleto(t *testing.T) {
	app := buildTestApp(t, nil)
	typeID := createHelmet(t, app)

	var ficha struct {
		ID string `json:"id"`
	}
	resp := call(t, app, http.MethodPost, "/api/fichas", map[string]any{"employee_id": "col_1", "actor": "Ana"}, &ficha)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var created struct {
		Delivery struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"delivery"`
		Stock inventory.StockOutcome `json:"stock"`
	}
	resp = call(t, app, http.MethodPost, "/api/deliveries", map[string]any{
		"ficha_id": ficha.ID, "actor": "Ana",
		"items": []map[string]any{{"equipment_type_id": typeID, "quantity": 2}},
	}, &created)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	assert.Equal(t, entity.DeliveryUnsigned, created.Delivery.Status)
	assert.Equal(t, inventory.OutcomeApplied, created.Stock.Status)
	id := created.Delivery.ID

	var list []map[string]any
	call(t, app, http.MethodGet, "/api/fichas/"+ficha.ID+"/deliveries", nil, &list)
	assert.Len(t, list, 1)

	resp = call(t, app, http.MethodGet, "/api/deliveries/"+id+"/receipt", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/pdf", resp.Header.Get("Content-Type"))
	assert.Contains(t, resp.Header.Get("Content-Disposition"), "entrega_Jo")

	var signed map[string]any
	resp = call(t, app, http.MethodPost, "/api/deliveries/"+id+"/sign", map[string]any{"device": "tablet"}, &signed)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, entity.DeliverySigned, signed["status"])

	var out errorBody
	resp = call(t, app, http.MethodPut, "/api/deliveries/"+id, map[string]any{
		"actor": "Ana", "items": []map[string]any{{"equipment_type_id": typeID, "quantity": 1}},
	}, &out)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "DELIVERY_LOCKED", out.Code)

	resp = call(t, app, http.MethodDelete, "/api/deliveries/"+id+"?actor=Ana", nil, &out)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp = call(t, app, http.MethodPost, "/api/deliveries/"+id+"/unsign", nil, nil)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var deleted struct {
		Stock inventory.StockOutcome `json:"stock"`
	}
	resp = call(t, app, http.MethodDelete, "/api/deliveries/"+id+"?actor=Ana", nil, &deleted)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, inventory.OutcomeApplied, deleted.Stock.Status)

	var history []map[string]any
	call(t, app, http.MethodGet, "/api/fichas/"+ficha.ID+"/history", nil, &history)
	assert.GreaterOrEqual(t, len(history), 3)
}

func TestFicha_SegundaFichaActivaConflicto(t *testing.T) {
	app := buildTestApp(t, nil)
	body := map[string]any{"employee_id": "col_1", "actor": "Ana"}
	require.Equal(t, fiber.StatusCreated, call(t, app, http.MethodPost, "/api/fichas", body, nil).StatusCode)

	var out errorBody
	resp := call(t, app, http.MethodPost, "/api/fichas", body, &out)
	assert.Equal(t, fiber.StatusConflict, resp.StatusCode)
	assert.Equal(t, "CONFLICT", out.Code)
}

func TestFicha_EstadoInvalido400(t *testing.T) {
	app := buildTestApp(t, nil)
	var out errorBody
	resp := call(t, app, http.MethodPatch, "/api/fichas/ficha_x/status", map[string]any{"status": "vencido", "actor": "Ana"}, &out)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", out.Code)
}

// ──────────────────────────────────────────────────────────────────────────────
// Notificaciones y directorio
// ──────────────────────────────────────────────────────────────────────────────

func TestNotificaciones_ChequeoYMarcado(t *testing.T) {
	app := buildTestApp(t, nil)
	typeID := createHelmet(t, app)
	var items []map[string]any
	call(t, app, http.MethodGet, "/api/stock?tipoEPIId="+typeID, nil, &items)
	// 3 unidades con mínimo 10: baixo_estoque
	call(t, app, http.MethodPost, "/api/stock/"+items[0]["id"].(string)+"/inbound",
		map[string]any{"quantity": 3, "actor": "Ana", "reason": "Compra"}, nil)

	var checked struct {
		Created       int              `json:"created"`
		Notifications []map[string]any `json:"notifications"`
	}
	resp := call(t, app, http.MethodPost, "/api/notifications/check", nil, &checked)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Positive(t, checked.Created)

	id := checked.Notifications[0]["id"].(string)
	resp = call(t, app, http.MethodPatch, "/api/notifications/"+id, map[string]any{"read": true}, nil)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)

	var unread []map[string]any
	call(t, app, http.MethodGet, "/api/notifications?unread=true", nil, &unread)
	assert.Len(t, unread, checked.Created-1)
}

func TestDirectorio_ColaboradoresYEmpresas(t *testing.T) {
	app := buildTestApp(t, nil)

	var employees []map[string]any
	resp := call(t, app, http.MethodGet, "/api/employees?empresaId=emp_1", nil, &employees)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Len(t, employees, 1)

	var company map[string]any
	resp = call(t, app, http.MethodGet, "/api/companies/emp_1", nil, &company)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "Construtora Alfa", company["name"])

	resp = call(t, app, http.MethodGet, "/api/employees/col_x", nil, nil)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
