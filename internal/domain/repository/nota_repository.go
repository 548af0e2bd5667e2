package repository

import (
	"context"
	"time"

	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// NotaFilter filtros de notas de movimiento.
type NotaFilter struct {
	Status   string
	Actor    string
	From, To *time.Time
}

// NotaRepository define el puerto de notas. Una instancia por sentido (entrada o saida).
type NotaRepository interface {
	Create(ctx context.Context, n *entity.Nota) error
	GetByID(ctx context.Context, id string) (*entity.Nota, error)
	List(ctx context.Context, f NotaFilter) ([]*entity.Nota, error)
	Update(ctx context.Context, n *entity.Nota) error
	Delete(ctx context.Context, id string) error
}

// NotificationFilter filtros de notificaciones.
type NotificationFilter struct {
	UnreadOnly bool
	Kind       string
	Link       string
}

// NotificationRepository define el puerto de notificaciones.
type NotificationRepository interface {
	Create(ctx context.Context, n *entity.Notification) error
	List(ctx context.Context, f NotificationFilter) ([]*entity.Notification, error)
	MarkRead(ctx context.Context, id string, read bool) error
}
