package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
	"github.com/jhoicas/epi-control-api/pkg/retry"
)

// FichaActor responsable de los eventos de historial generados por el sistema.
const FichaActor = "Sistema EPI"

// FichaUseCase casos de uso de fichas de EPI y su historial.
type FichaUseCase struct {
	fichas    repository.FichaRepository
	historico repository.HistoricoRepository
	employees repository.EmployeeRepository
	types     repository.EquipmentTypeRepository
	retry     retry.Policy
	now       func() time.Time
	log       *logger.Logger
}

// NewFichaUseCase construye el caso de uso. attempts/interval controlan el reintento
// del listado cuando el servidor de datos no responde.
func NewFichaUseCase(
	fichas repository.FichaRepository,
	historico repository.HistoricoRepository,
	employees repository.EmployeeRepository,
	types repository.EquipmentTypeRepository,
	attempts int,
	interval time.Duration,
	log *logger.Logger,
) *FichaUseCase {
	uc := &FichaUseCase{
		fichas:    fichas,
		historico: historico,
		employees: employees,
		types:     types,
		now:       time.Now,
		log:       log,
	}
	uc.retry = retry.Policy{
		Attempts: attempts,
		Interval: interval,
		Retryable: func(err error) bool {
			return errors.Is(err, domain.ErrStoreUnavailable)
		},
		OnRetry: func(attempt int, err error) {
			uc.log.Warn().Int("attempt", attempt).Err(err).Msg("reintentando listado de fichas")
		},
	}
	return uc
}

// WithClock reemplaza el reloj (pruebas).
func (uc *FichaUseCase) WithClock(now func() time.Time) *FichaUseCase {
	uc.now = now
	return uc
}

// Create abre una ficha para el colaborador. La empresa por defecto es la del
// colaborador y la validez por defecto un año.
func (uc *FichaUseCase) Create(ctx context.Context, in dto.CreateFichaRequest) (*dto.FichaResponse, error) {
	if in.EmployeeID == "" || in.Actor == "" {
		return nil, fmt.Errorf("%w: colaborador y responsable son obligatorios", domain.ErrInvalidInput)
	}
	emp, err := uc.employees.GetByID(ctx, in.EmployeeID)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	expires := now.AddDate(1, 0, 0)
	if in.ExpiresAt != "" {
		t, ok := entity.ParseDate(in.ExpiresAt)
		if !ok {
			return nil, fmt.Errorf("%w: fecha de validez inválida %q", domain.ErrInvalidInput, in.ExpiresAt)
		}
		if t.Before(startOfDay(now)) {
			return nil, fmt.Errorf("%w: la validez no puede estar en el pasado", domain.ErrInvalidInput)
		}
		expires = t
	}
	companyID := in.CompanyID
	if companyID == "" {
		companyID = emp.CompanyID
	}

	active, err := uc.fichas.List(ctx, repository.FichaFilter{EmployeeID: emp.ID, Status: entity.FichaStatusActive})
	if err != nil {
		return nil, err
	}
	if len(active) > 0 {
		return nil, fmt.Errorf("%w: el colaborador ya tiene la ficha activa %s", domain.ErrConflict, active[0].ID)
	}

	f := &entity.Ficha{
		EmployeeID: emp.ID,
		CompanyID:  companyID,
		IssuedAt:   entity.FormatDate(now),
		ExpiresAt:  entity.FormatDate(expires),
		Status:     entity.FichaStatusActive,
		Items:      []entity.FichaItem{},
	}
	if err := uc.fichas.Create(ctx, f); err != nil {
		return nil, err
	}
	uc.record(ctx, &entity.HistoricoEvent{
		FichaID:     f.ID,
		Kind:        entity.HistoricoFichaCreated,
		Actor:       FichaActor,
		Description: fmt.Sprintf("Ficha de EPI criada para o colaborador %s", emp.Name),
	})
	uc.log.Info().Str("ficha_id", f.ID).Str("employee_id", emp.ID).Str("actor", in.Actor).Msg("ficha creada")
	return uc.toResponse(ctx, f, emp.Name), nil
}

// Get obtiene una ficha con su estado a mostrar.
func (uc *FichaUseCase) Get(ctx context.Context, id string) (*dto.FichaResponse, error) {
	f, err := uc.fichas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.toResponse(ctx, f, uc.employeeName(ctx, f.EmployeeID)), nil
}

// List lista fichas. Si el servidor de datos no responde se reintenta con la política configurada.
// El filtro de estado se aplica sobre el estado a mostrar, de modo que "vencido" también filtra.
func (uc *FichaUseCase) List(ctx context.Context, employeeID, companyID, status string) ([]dto.FichaResponse, error) {
	filter := repository.FichaFilter{EmployeeID: employeeID, CompanyID: companyID}
	if status != entity.FichaStatusExpired && status != entity.FichaStatusActive {
		filter.Status = status
	}
	list, err := retry.Do(ctx, uc.retry, func(ctx context.Context) ([]*entity.Ficha, error) {
		return uc.fichas.List(ctx, filter)
	})
	if err != nil {
		return nil, err
	}
	now := uc.now()
	names := make(map[string]string)
	out := make([]dto.FichaResponse, 0, len(list))
	for _, f := range list {
		if status != "" && f.DisplayStatus(now) != status {
			continue
		}
		name, ok := names[f.EmployeeID]
		if !ok {
			name = uc.employeeName(ctx, f.EmployeeID)
			names[f.EmployeeID] = name
		}
		out = append(out, *uc.toResponse(ctx, f, name))
	}
	return out, nil
}

// UpdateStatus cambia el estado guardado (ativo, suspenso, arquivado).
func (uc *FichaUseCase) UpdateStatus(ctx context.Context, id string, in dto.UpdateFichaStatusRequest) (*dto.FichaResponse, error) {
	switch in.Status {
	case entity.FichaStatusActive, entity.FichaStatusSuspended, entity.FichaStatusArchived:
	default:
		return nil, fmt.Errorf("%w: estado de ficha inválido %q", domain.ErrInvalidInput, in.Status)
	}
	f, err := uc.fichas.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if f.Status == in.Status {
		return uc.toResponse(ctx, f, uc.employeeName(ctx, f.EmployeeID)), nil
	}
	previous := f.Status
	if err := uc.fichas.UpdateStatus(ctx, id, in.Status); err != nil {
		return nil, err
	}
	f.Status = in.Status

	desc := fmt.Sprintf("Status da ficha alterado de %s para %s", previous, in.Status)
	if in.Reason != "" {
		desc += " - " + in.Reason
	}
	uc.record(ctx, &entity.HistoricoEvent{
		FichaID:     id,
		Kind:        entity.HistoricoFichaStatus,
		Actor:       in.Actor,
		Description: desc,
	})
	return uc.toResponse(ctx, f, uc.employeeName(ctx, f.EmployeeID)), nil
}

// DeactivateItem marca un ítem entregado como danificado o perdido.
func (uc *FichaUseCase) DeactivateItem(ctx context.Context, fichaID, itemID string, in dto.DeactivateItemRequest) (*dto.FichaResponse, error) {
	if in.Status != entity.FichaItemDamaged && in.Status != entity.FichaItemLost {
		return nil, fmt.Errorf("%w: estado de ítem inválido %q", domain.ErrInvalidInput, in.Status)
	}
	f, err := uc.fichas.GetByID(ctx, fichaID)
	if err != nil {
		return nil, err
	}
	idx := -1
	for i := range f.Items {
		if f.Items[i].ID == itemID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("ítem %s de la ficha %s: %w", itemID, fichaID, domain.ErrNotFound)
	}
	if f.Items[idx].Status != entity.FichaItemDelivered {
		return nil, fmt.Errorf("%w: el ítem %s está %s", domain.ErrConflict, itemID, f.Items[idx].Status)
	}
	f.Items[idx].Status = in.Status
	if in.Reason != "" {
		f.Items[idx].Notes = in.Reason
	}
	if err := uc.fichas.UpdateItems(ctx, fichaID, f.Items); err != nil {
		return nil, err
	}

	equipment := uc.typeName(ctx, f.Items[idx].EquipmentTypeID)
	uc.record(ctx, &entity.HistoricoEvent{
		FichaID:     fichaID,
		Kind:        entity.HistoricoItemDeactivated,
		Actor:       in.Actor,
		Description: fmt.Sprintf("Equipamento desativado: %s", equipment),
		Details: &entity.HistoricoDetails{
			DeliveryID: f.Items[idx].DeliveryID,
			ItemID:     itemID,
			Equipment:  []string{equipment},
			Quantities: []int{f.Items[idx].Quantity},
		},
	})
	return uc.toResponse(ctx, f, uc.employeeName(ctx, f.EmployeeID)), nil
}

// History historial de la ficha, del más reciente al más antiguo.
func (uc *FichaUseCase) History(ctx context.Context, fichaID string) ([]dto.HistoricoResponse, error) {
	if _, err := uc.fichas.GetByID(ctx, fichaID); err != nil {
		return nil, err
	}
	events, err := uc.historico.ListByFicha(ctx, fichaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.HistoricoResponse, 0, len(events))
	for _, e := range events {
		out = append(out, ToHistoricoResponse(e))
	}
	return out, nil
}

// record registra un evento de historial. Un fallo no anula la operación principal.
func (uc *FichaUseCase) record(ctx context.Context, e *entity.HistoricoEvent) {
	e.Date = uc.now()
	if err := uc.historico.Create(ctx, e); err != nil {
		uc.log.Warn().Err(err).Str("ficha_id", e.FichaID).Str("kind", e.Kind).Msg("no se pudo registrar el historial")
	}
}

func (uc *FichaUseCase) employeeName(ctx context.Context, id string) string {
	emp, err := uc.employees.GetByID(ctx, id)
	if err != nil {
		return ""
	}
	return emp.Name
}

func (uc *FichaUseCase) typeName(ctx context.Context, id string) string {
	t, err := uc.types.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return t.Name
}

func (uc *FichaUseCase) toResponse(ctx context.Context, f *entity.Ficha, employeeName string) *dto.FichaResponse {
	items := make([]dto.FichaItemResponse, 0, len(f.Items))
	for _, it := range f.Items {
		items = append(items, dto.FichaItemResponse{
			ID:              it.ID,
			EquipmentTypeID: it.EquipmentTypeID,
			EquipmentName:   uc.typeName(ctx, it.EquipmentTypeID),
			Quantity:        it.Quantity,
			DeliveredAt:     it.DeliveredAt,
			ExpiresAt:       it.ExpiresAt,
			Status:          it.Status,
			DeliveryID:      it.DeliveryID,
			Notes:           it.Notes,
		})
	}
	return &dto.FichaResponse{
		ID:            f.ID,
		EmployeeID:    f.EmployeeID,
		EmployeeName:  employeeName,
		CompanyID:     f.CompanyID,
		IssuedAt:      f.IssuedAt,
		ExpiresAt:     f.ExpiresAt,
		Status:        f.Status,
		DisplayStatus: f.DisplayStatus(uc.now()),
		Items:         items,
		ActiveUnits:   f.ActiveUnits(),
	}
}

// ToHistoricoResponse aplana un evento del historial para la API.
func ToHistoricoResponse(e *entity.HistoricoEvent) dto.HistoricoResponse {
	out := dto.HistoricoResponse{
		ID:          e.ID,
		FichaID:     e.FichaID,
		Kind:        e.Kind,
		Date:        e.Date,
		Actor:       e.Actor,
		Description: e.Description,
	}
	if d := e.Details; d != nil {
		out.DeliveryID = d.DeliveryID
		out.ItemID = d.ItemID
		out.Equipment = d.Equipment
		out.Quantities = d.Quantities
		out.StockNotes = d.StockNotes
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
