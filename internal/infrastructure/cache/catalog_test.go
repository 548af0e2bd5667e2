package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/internal/infrastructure/cache"
)

// countingRepo cuenta las lecturas que llegan al repositorio real.
type countingRepo struct {
	types map[string]entity.EquipmentType
	gets  int
	lists int

	// beforeWrite corre dentro de Update/Delete antes de escribir.
	beforeWrite func()
}

func newCountingRepo() *countingRepo {
	return &countingRepo{types: map[string]entity.EquipmentType{}}
}

func (r *countingRepo) Create(_ context.Context, t *entity.EquipmentType) error {
	r.types[t.ID] = *t
	return nil
}

func (r *countingRepo) GetByID(_ context.Context, id string) (*entity.EquipmentType, error) {
	r.gets++
	t := r.types[id]
	return &t, nil
}

func (r *countingRepo) List(_ context.Context, _ repository.EquipmentTypeFilter) ([]*entity.EquipmentType, error) {
	r.lists++
	out := make([]*entity.EquipmentType, 0, len(r.types))
	for _, t := range r.types {
		t := t
		out = append(out, &t)
	}
	return out, nil
}

func (r *countingRepo) Update(_ context.Context, t *entity.EquipmentType) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	r.types[t.ID] = *t
	return nil
}

func (r *countingRepo) Delete(_ context.Context, id string) error {
	if r.beforeWrite != nil {
		r.beforeWrite()
	}
	delete(r.types, id)
	return nil
}

func TestCatalogCache_GetByIDCacheado(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	c := cache.NewCatalogCache(repo, 10, time.Minute)
	require.NoError(t, c.Create(ctx, &entity.EquipmentType{ID: "t1", Name: "Capacete"}))

	for i := 0; i < 3; i++ {
		got, err := c.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "Capacete", got.Name)
	}
	assert.Equal(t, 1, repo.gets)
}

func TestCatalogCache_EscrituraInvalida(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	c := cache.NewCatalogCache(repo, 10, time.Minute)
	require.NoError(t, c.Create(ctx, &entity.EquipmentType{ID: "t1", Name: "Capacete"}))

	_, err := c.List(ctx, repository.EquipmentTypeFilter{})
	require.NoError(t, err)
	_, err = c.List(ctx, repository.EquipmentTypeFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, repo.lists)

	require.NoError(t, c.Update(ctx, &entity.EquipmentType{ID: "t1", Name: "Capacete classe B"}))
	got, err := c.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Capacete classe B", got.Name)

	list, err := c.List(ctx, repository.EquipmentTypeFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, repo.lists)
	require.Len(t, list, 1)
}

func TestCatalogCache_CopiasIndependientes(t *testing.T) {
	ctx := context.Background()
	c := cache.NewCatalogCache(newCountingRepo(), 10, time.Minute)
	require.NoError(t, c.Create(ctx, &entity.EquipmentType{ID: "t1", Name: "Luva"}))

	got, err := c.GetByID(ctx, "t1")
	require.NoError(t, err)
	got.Name = "alterado"

	again, err := c.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "Luva", again.Name)
}

func TestCatalogCache_LecturaDuranteEscrituraNoQuedaObsoleta(t *testing.T) {
	ctx := context.Background()
	repo := newCountingRepo()
	c := cache.NewCatalogCache(repo, 10, time.Minute)
	require.NoError(t, c.Create(ctx, &entity.EquipmentType{ID: "t1", Name: "Old"}))

	repo.beforeWrite = func() {
		got, err := c.GetByID(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "Old", got.Name)
		_, err = c.List(ctx, repository.EquipmentTypeFilter{})
		require.NoError(t, err)
	}
	require.NoError(t, c.Update(ctx, &entity.EquipmentType{ID: "t1", Name: "New"}))
	repo.beforeWrite = nil

	got, err := c.GetByID(ctx, "t1")
	require.NoError(t, err)
	assert.Equal(t, "New", got.Name)
	list, err := c.List(ctx, repository.EquipmentTypeFilter{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "New", list[0].Name)
}
