package inventory

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// SystemActor responsable de los eventos generados automáticamente.
const SystemActor = "Sistema"

// CatalogSync mantiene un ítem de stock por cada tipo de EPI del catálogo.
type CatalogSync struct {
	stock  repository.StockRepository
	events repository.StockEventRepository
	types  repository.EquipmentTypeRepository
	now    func() time.Time
	log    *logger.Logger
}

// NewCatalogSync construye el caso de uso.
func NewCatalogSync(
	stock repository.StockRepository,
	events repository.StockEventRepository,
	types repository.EquipmentTypeRepository,
	log *logger.Logger,
) *CatalogSync {
	return &CatalogSync{stock: stock, events: events, types: types, now: time.Now, log: log}
}

// WithClock reemplaza el reloj (pruebas).
func (s *CatalogSync) WithClock(now func() time.Time) *CatalogSync {
	s.now = now
	return s
}

// CreateForType crea el ítem del almacén central para un tipo nuevo: cantidad 0,
// mínimo según la categoría y validez hoy + vida útil + 365 días.
func (s *CatalogSync) CreateForType(ctx context.Context, typ *entity.EquipmentType) StockOutcome {
	out := newOutcome()
	s.createForType(ctx, out, typ)
	return s.done("catalog_create", out)
}

func (s *CatalogSync) createForType(ctx context.Context, out *StockOutcome, typ *entity.EquipmentType) {
	now := s.now()
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	item := &entity.StockItem{
		ID:              "estoque_" + ts + "_" + typ.ID,
		EquipmentTypeID: typ.ID,
		OwnerID:         entity.CentralWarehouseID,
		Quantity:        0,
		MinQuantity:     domaininv.MinimumForCategory(typ.Category),
		Location:        entity.CentralWarehouseLocation,
		Lot:             "LOTE-" + ts + "-" + strings.ToUpper(uuid.NewString()[:5]),
		ExpiryDate:      domaininv.InitialExpiry(now, typ.ServiceLifeDays),
	}
	item.Status = domaininv.DeriveStatus(item, now)
	if err := s.stock.Create(ctx, item); err != nil {
		out.fail(fmt.Sprintf("ítem de stock para %s: %v", typ.Name, err))
		return
	}

	ev := &entity.StockEvent{
		StockItemID:     item.ID,
		EquipmentTypeID: typ.ID,
		Kind:            entity.MovementRegistration,
		Date:            now,
		Actor:           SystemActor,
		Description:     describe(entity.MovementRegistration, typ.Name),
		Reason:          "Cadastro inicial do item no sistema",
		Details:         &entity.StockEventDetails{Lot: item.Lot},
	}
	if err := s.events.Create(ctx, ev); err != nil {
		out.fail(fmt.Sprintf("historial de %s: %v", item.ID, err))
	}
	out.Movements = append(out.Movements, AppliedMovement{
		StockItemID:     item.ID,
		EquipmentTypeID: typ.ID,
		Equipment:       typ.Name,
		Kind:            entity.MovementRegistration,
		Lot:             item.Lot,
	})
	movementsTotal.WithLabelValues(entity.MovementRegistration).Inc()
}

// RemoveForType elimina los ítems del tipo con cantidad exactamente cero. Los demás
// se conservan y se informan como error; la baja del tipo no se bloquea.
func (s *CatalogSync) RemoveForType(ctx context.Context, typ *entity.EquipmentType) StockOutcome {
	out := newOutcome()
	items, err := s.stock.List(ctx, repository.StockFilter{EquipmentTypeID: typ.ID})
	if err != nil {
		out.fail(fmt.Sprintf("stock de %s: %v", typ.Name, err))
		return s.done("catalog_delete", out)
	}
	for _, item := range items {
		if item.Quantity != 0 {
			out.fail(fmt.Sprintf("item %s no eliminado: tiene cantidad %d", item.ID, item.Quantity))
			continue
		}
		if err := s.stock.Delete(ctx, item.ID); err != nil {
			out.fail(fmt.Sprintf("item %s no eliminado: %v", item.ID, err))
			continue
		}
		out.Movements = append(out.Movements, removedItem(item, typ.Name))
	}
	return s.done("catalog_delete", out)
}

// Backfill crea el ítem de stock de cada tipo del catálogo que todavía no tiene ninguno.
func (s *CatalogSync) Backfill(ctx context.Context) (StockOutcome, error) {
	types, err := s.types.List(ctx, repository.EquipmentTypeFilter{})
	if err != nil {
		return StockOutcome{}, err
	}
	items, err := s.stock.List(ctx, repository.StockFilter{})
	if err != nil {
		return StockOutcome{}, err
	}
	covered := make(map[string]bool, len(items))
	for _, it := range items {
		covered[it.EquipmentTypeID] = true
	}

	out := newOutcome()
	for _, typ := range types {
		if covered[typ.ID] {
			continue
		}
		s.createForType(ctx, out, typ)
	}
	s.log.Info().Int("types", len(types)).Int("created", len(out.Movements)).Msg("catálogo sincronizado con el stock")
	return s.done("catalog_sync", out), nil
}

func (s *CatalogSync) done(workflow string, out *StockOutcome) StockOutcome {
	res := out.finish()
	if !res.OK() {
		softErrorsTotal.WithLabelValues(workflow).Add(float64(len(res.Errors)))
		s.log.Warn().Str("workflow", workflow).Strs("errors", res.Errors).Msg("sincronización de stock incompleta")
	}
	return res
}
