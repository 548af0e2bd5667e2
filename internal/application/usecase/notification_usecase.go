package usecase

import (
	"context"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
)

// NotificationUseCase avisos del panel.
type NotificationUseCase struct {
	repo repository.NotificationRepository
}

// NewNotificationUseCase construye el caso de uso.
func NewNotificationUseCase(repo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{repo: repo}
}

// List lista notificaciones, opcionalmente solo las no leídas.
func (uc *NotificationUseCase) List(ctx context.Context, unreadOnly bool) ([]dto.NotificationResponse, error) {
	list, err := uc.repo.List(ctx, repository.NotificationFilter{UnreadOnly: unreadOnly})
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotificationResponse, 0, len(list))
	for _, n := range list {
		out = append(out, ToNotificationResponse(n))
	}
	return out, nil
}

// MarkRead marca una notificación como leída o no leída.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id string, read bool) error {
	return uc.repo.MarkRead(ctx, id, read)
}

// ToNotificationResponse convierte la entidad a DTO.
func ToNotificationResponse(n *entity.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:      n.ID,
		Title:   n.Title,
		Message: n.Message,
		Kind:    n.Kind,
		Date:    n.Date,
		Read:    n.Read,
		Link:    n.Link,
	}
}
