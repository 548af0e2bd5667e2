// Package cache decoradores con caché LRU para lecturas frecuentes.
package cache

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

var cacheLookups = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "epi_catalog_cache_lookups_total",
	Help: "Consultas a la caché del catálogo por resultado (hit, miss).",
}, []string{"result"})

// CatalogCache envuelve el repositorio del catálogo. Las lecturas por id y los
// listados se cachean; cualquier escritura invalida los listados y la entrada afectada.
type CatalogCache struct {
	next  repository.EquipmentTypeRepository
	byID  *expirable.LRU[string, entity.EquipmentType]
	lists *expirable.LRU[repository.EquipmentTypeFilter, []entity.EquipmentType]
}

var _ repository.EquipmentTypeRepository = (*CatalogCache)(nil)

// NewCatalogCache construye la caché. size <= 0 usa 256 entradas; ttl <= 0 usa 5 minutos.
func NewCatalogCache(next repository.EquipmentTypeRepository, size int, ttl time.Duration) *CatalogCache {
	if size <= 0 {
		size = 256
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CatalogCache{
		next:  next,
		byID:  expirable.NewLRU[string, entity.EquipmentType](size, nil, ttl),
		lists: expirable.NewLRU[repository.EquipmentTypeFilter, []entity.EquipmentType](32, nil, ttl),
	}
}

func (c *CatalogCache) GetByID(ctx context.Context, id string) (*entity.EquipmentType, error) {
	if t, ok := c.byID.Get(id); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return &t, nil
	}
	cacheLookups.WithLabelValues("miss").Inc()
	t, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.byID.Add(id, *t)
	return t, nil
}

func (c *CatalogCache) List(ctx context.Context, f repository.EquipmentTypeFilter) ([]*entity.EquipmentType, error) {
	if cached, ok := c.lists.Get(f); ok {
		cacheLookups.WithLabelValues("hit").Inc()
		return pointers(cached), nil
	}
	cacheLookups.WithLabelValues("miss").Inc()
	list, err := c.next.List(ctx, f)
	if err != nil {
		return nil, err
	}
	values := make([]entity.EquipmentType, len(list))
	for i, t := range list {
		values[i] = *t
		c.byID.Add(t.ID, *t)
	}
	c.lists.Add(f, values)
	return list, nil
}

func (c *CatalogCache) Create(ctx context.Context, t *entity.EquipmentType) error {
	if err := c.next.Create(ctx, t); err != nil {
		return err
	}
	c.lists.Purge()
	return nil
}

// Update invalida antes y después de escribir: una lectura concurrente puede
// volver a cachear el valor anterior mientras la escritura está en curso.
func (c *CatalogCache) Update(ctx context.Context, t *entity.EquipmentType) error {
	c.invalidate(t.ID)
	err := c.next.Update(ctx, t)
	c.invalidate(t.ID)
	return err
}

func (c *CatalogCache) Delete(ctx context.Context, id string) error {
	c.invalidate(id)
	err := c.next.Delete(ctx, id)
	c.invalidate(id)
	return err
}

func (c *CatalogCache) invalidate(id string) {
	c.byID.Remove(id)
	c.lists.Purge()
}

// Purge vacía la caché (p. ej. tras una importación masiva).
func (c *CatalogCache) Purge() {
	c.byID.Purge()
	c.lists.Purge()
}

// pointers devuelve copias para que el llamador no modifique lo cacheado.
func pointers(values []entity.EquipmentType) []*entity.EquipmentType {
	out := make([]*entity.EquipmentType, len(values))
	for i := range values {
		t := values[i]
		out[i] = &t
	}
	return out
}
