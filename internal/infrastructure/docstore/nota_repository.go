package docstore

import (
	"context"
	"fmt"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// NotaRepository implementa repository.NotaRepository para un sentido (entrada o saida).
type NotaRepository struct {
	col  Collection
	kind string
}

// NewNotaRepository construye el repositorio de notas del sentido indicado.
func NewNotaRepository(b Backend, kind string) *NotaRepository {
	name := CollectionNotasInbound
	if kind == entity.NotaOutbound {
		name = CollectionNotasOutbound
	}
	return &NotaRepository{col: b.Collection(name), kind: kind}
}

var _ repository.NotaRepository = (*NotaRepository)(nil)

func (r *NotaRepository) Create(ctx context.Context, n *entity.Nota) error {
	if n.ID == "" {
		n.ID = NewID("nota_" + r.kind)
	}
	if _, err := r.col.Create(ctx, n); err != nil {
		return fmt.Errorf("crear nota de %s: %w", r.kind, err)
	}
	return nil
}

func (r *NotaRepository) GetByID(ctx context.Context, id string) (*entity.Nota, error) {
	raw, err := r.col.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("obtener nota %s: %w", id, err)
	}
	return decodeOne[entity.Nota](raw)
}

func (r *NotaRepository) List(ctx context.Context, f repository.NotaFilter) ([]*entity.Nota, error) {
	q := Query{}.
		Where("status", f.Status).
		Where("responsavel", f.Actor).
		Range("data", f.From, f.To).
		SortBy("data", true)
	raws, err := r.col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar notas de %s: %w", r.kind, err)
	}
	return decodeAll[entity.Nota](raws)
}

func (r *NotaRepository) Update(ctx context.Context, n *entity.Nota) error {
	if _, err := r.col.Replace(ctx, n.ID, n); err != nil {
		return fmt.Errorf("actualizar nota %s: %w", n.ID, err)
	}
	return nil
}

func (r *NotaRepository) Delete(ctx context.Context, id string) error {
	if err := r.col.Delete(ctx, id); err != nil {
		return fmt.Errorf("eliminar nota %s: %w", id, err)
	}
	return nil
}

// ── Notificaciones ────────────────────────────────────────────────────────────

// NotificationRepository implementa repository.NotificationRepository.
type NotificationRepository struct {
	col Collection
}

// NewNotificationRepository construye el repositorio.
func NewNotificationRepository(b Backend) *NotificationRepository {
	return &NotificationRepository{col: b.Collection(CollectionNotifications)}
}

var _ repository.NotificationRepository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Create(ctx context.Context, n *entity.Notification) error {
	if n.ID == "" {
		n.ID = NewID("notif")
	}
	if _, err := r.col.Create(ctx, n); err != nil {
		return fmt.Errorf("crear notificación: %w", err)
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, f repository.NotificationFilter) ([]*entity.Notification, error) {
	q := Query{}.
		Where("tipo", f.Kind).
		Where("link", f.Link).
		SortBy("data", true)
	if f.UnreadOnly {
		q = q.Where("lida", false)
	}
	raws, err := r.col.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("listar notificaciones: %w", err)
	}
	return decodeAll[entity.Notification](raws)
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id string, read bool) error {
	if _, err := r.col.Patch(ctx, id, map[string]any{"lida": read}); err != nil {
		return fmt.Errorf("marcar notificación %s: %w", id, err)
	}
	return nil
}
