package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// AlertUseCase detecta ítems con stock bajo o vencimiento y genera notificaciones.
type AlertUseCase struct {
	stock         repository.StockRepository
	types         repository.EquipmentTypeRepository
	notifications repository.NotificationRepository
	expiringDays  int
	now           func() time.Time
	log           *logger.Logger
}

// NewAlertUseCase construye el caso de uso. expiringDays <= 0 usa 30.
func NewAlertUseCase(
	stock repository.StockRepository,
	types repository.EquipmentTypeRepository,
	notifications repository.NotificationRepository,
	expiringDays int,
	log *logger.Logger,
) *AlertUseCase {
	if expiringDays <= 0 {
		expiringDays = domaininv.DefaultExpiringWindowDays
	}
	return &AlertUseCase{
		stock:         stock,
		types:         types,
		notifications: notifications,
		expiringDays:  expiringDays,
		now:           time.Now,
		log:           log,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (uc *AlertUseCase) WithClock(now func() time.Time) *AlertUseCase {
	uc.now = now
	return uc
}

// Check clasifica el inventario actual sin escribir nada.
func (uc *AlertUseCase) Check(ctx context.Context) (*dto.StockAlertsDTO, error) {
	items, err := uc.stock.List(ctx, repository.StockFilter{})
	if err != nil {
		return nil, err
	}
	types := map[string]*entity.EquipmentType{}
	if list, err := uc.types.List(ctx, repository.EquipmentTypeFilter{}); err == nil {
		for _, t := range list {
			types[t.ID] = t
		}
	}

	now := uc.now()
	flat := make([]entity.StockItem, 0, len(items))
	for _, it := range items {
		flat = append(flat, *it)
	}
	alerts := domaininv.ClassifyAlerts(flat, now, uc.expiringDays)

	views := func(in []entity.StockItem) []dto.StockItemDTO {
		out := make([]dto.StockItemDTO, 0, len(in))
		for i := range in {
			out = append(out, stockView(&in[i], types, now, uc.expiringDays))
		}
		return out
	}
	return &dto.StockAlertsDTO{
		LowStock: views(alerts.LowStock),
		Expired:  views(alerts.Expired),
		Expiring: views(alerts.Expiring),
	}, nil
}

// Notify crea una notificación por alerta. No repite una notificación no leída
// del mismo tipo para el mismo ítem. Devuelve las notificaciones creadas.
func (uc *AlertUseCase) Notify(ctx context.Context) ([]*entity.Notification, error) {
	alerts, err := uc.Check(ctx)
	if err != nil {
		return nil, err
	}
	unread, err := uc.notifications.List(ctx, repository.NotificationFilter{UnreadOnly: true})
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(unread))
	for _, n := range unread {
		seen[n.Kind+"|"+n.Link] = true
	}

	now := uc.now()
	var created []*entity.Notification
	emit := func(kind, title, message string, v dto.StockItemDTO) {
		link := "/estoque/" + v.ID
		if seen[kind+"|"+link] {
			return
		}
		n := &entity.Notification{
			Title:     title,
			Message:   message,
			Kind:      kind,
			Date:      now,
			Link:      link,
			CompanyID: v.OwnerID,
		}
		if err := uc.notifications.Create(ctx, n); err != nil {
			uc.log.Warn().Err(err).Str("stock_item_id", v.ID).Str("kind", kind).Msg("no se pudo crear la notificación")
			return
		}
		seen[kind+"|"+link] = true
		created = append(created, n)
	}

	for _, v := range alerts.LowStock {
		emit(entity.NotificationLowStock,
			"Estoque baixo - "+v.EquipmentName,
			fmt.Sprintf("Apenas %d unidades em estoque (mínimo %d)", v.Quantity, v.MinQuantity), v)
	}
	for _, v := range alerts.Expired {
		emit(entity.NotificationExpired,
			"EPI vencido - "+v.EquipmentName,
			fmt.Sprintf("Lote %s venceu em %s", v.Lot, v.ExpiryDate), v)
	}
	for _, v := range alerts.Expiring {
		days := 0
		if v.DaysToExpiry != nil {
			days = *v.DaysToExpiry
		}
		emit(entity.NotificationExpiring,
			"EPI próximo ao vencimento - "+v.EquipmentName,
			fmt.Sprintf("Lote %s vence em %d dias", v.Lot, days), v)
	}

	if len(created) > 0 {
		uc.log.Info().Int("created", len(created)).Msg("notificaciones de stock generadas")
	}
	return created, nil
}

// Run ejecuta Notify al arrancar y en cada intervalo hasta que ctx se cancele.
func (uc *AlertUseCase) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	tick := func() {
		if _, err := uc.Notify(ctx); err != nil && ctx.Err() == nil {
			uc.log.Warn().Err(err).Msg("revisión de alertas de stock fallida")
		}
	}
	tick()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick()
		}
	}
}
