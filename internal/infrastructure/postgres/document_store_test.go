package postgres_test

import (
	"context"
	"os"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/docstore"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/postgres"
	"github.com/jhoicas/epi-control-api/pkg/config"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// setupStore levanta PostgreSQL en un contenedor y aplica las migraciones.
func setupStore(t *testing.T) *postgres.DocumentStore {
	t.Helper()
	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("prueba de integración omitida: TEST_INTEGRATION no está definida")
	}
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		tcpostgres.WithDatabase("epi_test"),
		tcpostgres.WithUsername("epi"),
		tcpostgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	p, err := strconv.Atoi(port.Port())
	require.NoError(t, err)

	cfg := config.DBConfig{
		Host: host, Port: p, User: "epi", Password: "test-password",
		DBName: "epi_test", SSLMode: "disable", MaxConns: 10,
	}
	require.NoError(t, postgres.Migrate(cfg, logger.Nop()))

	pool, err := postgres.NewPool(ctx, cfg, logger.Nop())
	require.NoError(t, err)
	store := postgres.NewDocumentStore(pool)
	t.Cleanup(store.Close)
	return store
}

func TestDocumentStore_CRUD(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	repo := docstore.NewEquipmentTypeRepository(store)

	typ := &entity.EquipmentType{Name: "Luva nitrílica", CANumber: "28011", Manufacturer: "Volk", Category: entity.CategoryHands, ServiceLifeDays: 180}
	require.NoError(t, repo.Create(ctx, typ))
	require.NotEmpty(t, typ.ID)

	got, err := repo.GetByID(ctx, typ.ID)
	require.NoError(t, err)
	assert.Equal(t, "28011", got.CANumber)

	list, err := repo.List(ctx, repository.EquipmentTypeFilter{Search: "NITR"})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	got.ServiceLifeDays = 365
	require.NoError(t, repo.Update(ctx, got))
	got, err = repo.GetByID(ctx, typ.ID)
	require.NoError(t, err)
	assert.Equal(t, 365, got.ServiceLifeDays)

	require.NoError(t, repo.Delete(ctx, typ.ID))
	_, err = repo.GetByID(ctx, typ.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, typ.ID), domain.ErrNotFound)
}

func TestDocumentStore_IdDuplicado(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	coll := store.Collection(docstore.CollectionCompanies)

	_, err := coll.Create(ctx, map[string]any{"id": "emp1", "nome": "ACME"})
	require.NoError(t, err)
	_, err = coll.Create(ctx, map[string]any{"id": "emp1", "nome": "ACME"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

// Los incrementos concurrentes no pierden escrituras.
func TestDocumentStore_IncrementoAtomico(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	stock := docstore.NewStockRepository(store)

	item := &entity.StockItem{EquipmentTypeID: "t1", Quantity: 100, MinQuantity: 10, Location: entity.CentralWarehouseLocation}
	require.NoError(t, stock.Create(ctx, item))

	var wg sync.WaitGroup
	for i := 0; i < 40; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := stock.AddQuantity(ctx, item.ID, -3, time.Now())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	got, err := stock.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, -20, got.Quantity)
	assert.NotNil(t, got.LastMovementAt)
}

func TestDocumentStore_FiltrosYOrden(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	coll := store.Collection(docstore.CollectionStock)

	for i, q := range []int{5, 0, 12} {
		_, err := coll.Create(ctx, map[string]any{"id": "e" + strconv.Itoa(i), "tipoEPIId": "t1", "quantidade": q})
		require.NoError(t, err)
	}

	raws, err := coll.List(ctx, docstore.Query{}.Where("tipoEPIId", "t1").Range("quantidade", 1, nil).SortBy("quantidade", true))
	require.NoError(t, err)
	require.Len(t, raws, 2)
	first, err := docstore.DocumentID(raws[0])
	require.NoError(t, err)
	assert.Equal(t, "e2", first)
}

// La valorización se calcula en NUMERIC y se escanea como decimal.
func TestDocumentStore_ValorTotalEnServidor(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	stock := docstore.NewStockRepository(store)

	cost := func(s string) *decimal.Decimal {
		d := decimal.RequireFromString(s)
		return &d
	}
	for _, it := range []*entity.StockItem{
		{EquipmentTypeID: "t1", Quantity: 3, UnitCost: cost("12.35")},
		{EquipmentTypeID: "t2", Quantity: 10, UnitCost: cost("0.10")},
		{EquipmentTypeID: "t3", Quantity: -4, UnitCost: cost("99")},
		{EquipmentTypeID: "t4", Quantity: 50},
	} {
		require.NoError(t, stock.Create(ctx, it))
	}

	total, err := stock.TotalValue(ctx)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("38.05").Equal(total), "3×12.35 + 10×0.10, got %s", total)
}

// Los rangos de fechas comparan instantes aunque la precisión del texto varíe.
func TestDocumentStore_RangoDeFechasPorInstante(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()
	coll := store.Collection(docstore.CollectionMovements)

	for id, at := range map[string]string{
		"m1": "2025-03-15T12:00:00Z",
		"m2": "2025-03-15T12:00:00.7Z",
		"m3": "2025-03-15T12:00:01Z",
	} {
		_, err := coll.Create(ctx, map[string]any{"id": id, "data": at})
		require.NoError(t, err)
	}

	from := time.Date(2025, 3, 15, 12, 0, 0, 500_000_000, time.UTC)
	raws, err := coll.List(ctx, docstore.Query{}.Range("data", from, nil).SortBy("data", false))
	require.NoError(t, err)
	ids := make([]string, 0, len(raws))
	for _, raw := range raws {
		id, err := docstore.DocumentID(raw)
		require.NoError(t, err)
		ids = append(ids, id)
	}
	assert.ElementsMatch(t, []string{"m2", "m3"}, ids)
}
