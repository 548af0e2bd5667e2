// Package deliveries flujos compuestos de entregas de EPIs: el recibo, los ítems
// de la ficha, el historial y el stock se actualizan juntos. El stock se procesa
// por línea y sus fallos se informan sin deshacer el registro principal.
package deliveries

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/epi-control-api/internal/application/dto"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
	domaininv "github.com/jhoicas/epi-control-api/internal/domain/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/repository"
	"github.com/jhoicas/epi-control-api/pkg/logger"
)

// SignatureBaseURL prefijo del enlace de firma enviado al colaborador.
const SignatureBaseURL = "https://app.datalife.com/assinatura/"

// Result entrega resultante más el resultado de la parte de stock.
type Result struct {
	Delivery *dto.DeliveryResponse `json:"delivery,omitempty"`
	Stock    inventory.StockOutcome `json:"stock"`
}

// Service casos de uso de entregas.
type Service struct {
	deliveries repository.DeliveryRepository
	fichas     repository.FichaRepository
	historico  repository.HistoricoRepository
	employees  repository.EmployeeRepository
	companies  repository.CompanyRepository
	types      repository.EquipmentTypeRepository
	stock      *inventory.DeliveryStock
	receipts   ReceiptGenerator
	company    entity.Company
	now        func() time.Time
	log        *logger.Logger
}

// NewService construye el servicio. fallback se usa en el comprobante cuando la
// empresa de la ficha no existe en el servidor de datos.
func NewService(
	deliveries repository.DeliveryRepository,
	fichas repository.FichaRepository,
	historico repository.HistoricoRepository,
	employees repository.EmployeeRepository,
	companies repository.CompanyRepository,
	types repository.EquipmentTypeRepository,
	stock *inventory.DeliveryStock,
	receipts ReceiptGenerator,
	fallback entity.Company,
	log *logger.Logger,
) *Service {
	return &Service{
		deliveries: deliveries,
		fichas:     fichas,
		historico:  historico,
		employees:  employees,
		companies:  companies,
		types:      types,
		stock:      stock,
		receipts:   receipts,
		company:    fallback,
		now:        time.Now,
		log:        log,
	}
}

// WithClock reemplaza el reloj (pruebas).
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create registra la entrega, descuenta el stock, agrega los ítems a la ficha y
// deja constancia en el historial.
func (s *Service) Create(ctx context.Context, in dto.CreateDeliveryRequest) (*Result, error) {
	if in.FichaID == "" || in.Actor == "" {
		return nil, fmt.Errorf("%w: ficha y responsable son obligatorios", domain.ErrInvalidInput)
	}
	ficha, err := s.fichas.GetByID(ctx, in.FichaID)
	if err != nil {
		return nil, err
	}
	if ficha.Status != entity.FichaStatusActive {
		return nil, fmt.Errorf("%w: la ficha %s está %s", domain.ErrConflict, ficha.ID, ficha.Status)
	}
	emp, err := s.employees.GetByID(ctx, ficha.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("colaborador de la ficha %s: %w", ficha.ID, err)
	}

	now := s.now()
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	deliveredAt, err := deliveryDate(in.DeliveredAt, now)
	if err != nil {
		return nil, err
	}
	items, names, err := s.buildItems(ctx, in.Items, ts, now)
	if err != nil {
		return nil, err
	}

	d := &entity.Delivery{
		ID:            "entrega_" + ts + "_" + shortID(),
		FichaID:       ficha.ID,
		DeliveredAt:   deliveredAt,
		Items:         items,
		Actor:         in.Actor,
		Status:        entity.DeliveryUnsigned,
		QRCode:        "QR_" + ts,
		SignatureLink: SignatureBaseURL + ts,
	}
	if err := s.deliveries.Create(ctx, d); err != nil {
		return nil, err
	}

	dc := inventory.DeliveryContext{
		DeliveryID:   d.ID,
		FichaID:      ficha.ID,
		EmployeeName: emp.Name,
		CompanyID:    ficha.CompanyID,
		Actor:        in.Actor,
	}
	outcome := s.stock.ApplyCreated(ctx, dc, linesOf(d.Items))

	fichaItems := append(ficha.Items, fichaItemsFor(d, "ficha_", fmt.Sprintf("Entrega #%s", d.ID), nil)...)
	if err := s.fichas.UpdateItems(ctx, ficha.ID, fichaItems); err != nil {
		s.log.Error().Err(err).Str("delivery_id", d.ID).Str("ficha_id", ficha.ID).Msg("entrega creada sin actualizar la ficha")
		return nil, err
	}

	s.record(ctx, &entity.HistoricoEvent{
		FichaID:     ficha.ID,
		Kind:        entity.HistoricoDeliveryCreated,
		Actor:       in.Actor,
		Description: fmt.Sprintf("Entrega #%s criada com %d item(ns)", d.ID, len(d.Items)),
		Details:     details(d, names, outcome),
	})
	s.log.Info().Str("delivery_id", d.ID).Str("ficha_id", ficha.ID).Int("units", d.TotalUnits()).
		Str("stock", outcome.Status).Msg("entrega creada")
	return &Result{Delivery: s.toResponse(ctx, d), Stock: outcome}, nil
}

// Edit reemplaza las líneas de una entrega sin firmar. Las unidades ya devueltas o
// dadas de baja se conservan en la ficha; el stock solo recibe la diferencia neta
// entre lo que el colaborador tenía y lo que tendrá.
func (s *Service) Edit(ctx context.Context, id string, in dto.UpdateDeliveryRequest) (*Result, error) {
	if in.Actor == "" {
		return nil, fmt.Errorf("%w: el responsable es obligatorio", domain.ErrInvalidInput)
	}
	d, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	ficha, err := s.fichas.GetByID(ctx, d.FichaID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	ts := strconv.FormatInt(now.UnixMilli(), 10)
	items, names, err := s.buildItems(ctx, in.Items, ts, now)
	if err != nil {
		return nil, err
	}
	deliveredAt := d.DeliveredAt
	if in.DeliveredAt != "" {
		if deliveredAt, err = deliveryDate(in.DeliveredAt, now); err != nil {
			return nil, err
		}
	}

	settled := settledByType(d.ID, ficha)
	if err := checkSettled(items, settled); err != nil {
		return nil, err
	}
	oldHeld := heldLines(d, ficha)

	dc := inventory.DeliveryContext{
		DeliveryID:   d.ID,
		FichaID:      ficha.ID,
		EmployeeName: s.employeeName(ctx, ficha.EmployeeID),
		CompanyID:    ficha.CompanyID,
		Actor:        in.Actor,
	}

	d.Items = items
	d.DeliveredAt = deliveredAt
	held := fichaItemsFor(d, "ficha_edit_", fmt.Sprintf("Entrega #%s (editada)", d.ID), settled)
	outcome := s.stock.ApplyEdited(ctx, dc, oldHeld, fichaLines(held))

	if err := s.deliveries.Update(ctx, d); err != nil {
		return nil, err
	}

	fichaItems := append(withoutHeld(ficha, d.ID), held...)
	if err := s.fichas.UpdateItems(ctx, ficha.ID, fichaItems); err != nil {
		return nil, err
	}

	s.record(ctx, &entity.HistoricoEvent{
		FichaID:     ficha.ID,
		Kind:        entity.HistoricoDeliveryEdited,
		Actor:       in.Actor,
		Description: fmt.Sprintf("Entrega #%s editada - %d item(ns)", d.ID, len(d.Items)),
		Details:     details(d, names, outcome),
	})
	return &Result{Delivery: s.toResponse(ctx, d), Stock: outcome}, nil
}

// Delete elimina una entrega sin firmar. Las unidades que siguen en poder del
// colaborador vuelven al stock y sus ítems salen de la ficha.
func (s *Service) Delete(ctx context.Context, id, actor string) (*Result, error) {
	if actor == "" {
		return nil, fmt.Errorf("%w: el responsable es obligatorio", domain.ErrInvalidInput)
	}
	d, err := s.editable(ctx, id)
	if err != nil {
		return nil, err
	}
	ficha, err := s.fichas.GetByID(ctx, d.FichaID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	var outcome inventory.StockOutcome
	if ficha != nil {
		dc := inventory.DeliveryContext{
			DeliveryID:   d.ID,
			FichaID:      ficha.ID,
			EmployeeName: s.employeeName(ctx, ficha.EmployeeID),
			CompanyID:    ficha.CompanyID,
			Actor:        actor,
		}
		outcome = s.stock.ApplyDeleted(ctx, dc, heldLines(d, ficha))

		removed := len(ficha.ItemsForDelivery(d.ID))
		if err := s.fichas.UpdateItems(ctx, ficha.ID, ficha.WithoutDelivery(d.ID)); err != nil {
			return nil, err
		}
		names := s.namesOf(ctx, d.Items)
		s.record(ctx, &entity.HistoricoEvent{
			FichaID:     ficha.ID,
			Kind:        entity.HistoricoDeliveryDeleted,
			Actor:       actor,
			Description: fmt.Sprintf("Entrega #%s excluída - %d item(ns) removidos", d.ID, removed),
			Details:     details(d, names, outcome),
		})
	} else {
		outcome = inventory.Failed(fmt.Sprintf("ficha %s no encontrada; stock no devuelto", d.FichaID))
	}

	if err := s.deliveries.Delete(ctx, d.ID); err != nil {
		return nil, err
	}
	s.log.Info().Str("delivery_id", d.ID).Str("stock", outcome.Status).Msg("entrega eliminada")
	return &Result{Stock: outcome}, nil
}

// ProcessReturn marca como devueltas unidades de la entrega y las ingresa en el
// almacén central. Se admite también sobre entregas firmadas.
func (s *Service) ProcessReturn(ctx context.Context, id string, in dto.ReturnRequest) (*Result, error) {
	if in.Actor == "" || len(in.Items) == 0 {
		return nil, fmt.Errorf("%w: responsable e ítems son obligatorios", domain.ErrInvalidInput)
	}
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ficha, err := s.fichas.GetByID(ctx, d.FichaID)
	if err != nil {
		return nil, err
	}

	held := make(map[string]int)
	for _, it := range ficha.ItemsForDelivery(d.ID) {
		if it.Status == entity.FichaItemDelivered {
			held[it.EquipmentTypeID] += it.Quantity
		}
	}
	asked := make(map[string]int)
	for _, r := range in.Items {
		if r.Quantity <= 0 {
			return nil, fmt.Errorf("%w: cantidad devuelta de %s debe ser mayor que cero", domain.ErrInvalidInput, r.EquipmentTypeID)
		}
		asked[r.EquipmentTypeID] += r.Quantity
	}
	for typeID, qty := range asked {
		if qty > held[typeID] {
			return nil, fmt.Errorf("%w: se devuelven %d unidades de %s pero el colaborador tiene %d",
				domain.ErrInvalidInput, qty, typeID, held[typeID])
		}
	}

	items := ficha.Items
	lines := make([]inventory.ReturnLine, 0, len(in.Items))
	for _, r := range in.Items {
		items = markReturned(items, d.ID, r.EquipmentTypeID, r.Quantity, returnNote(r.Reason))
		lines = append(lines, inventory.ReturnLine{EquipmentTypeID: r.EquipmentTypeID, Quantity: r.Quantity, Reason: r.Reason})
	}

	dc := inventory.DeliveryContext{
		DeliveryID:   d.ID,
		FichaID:      ficha.ID,
		EmployeeName: s.employeeName(ctx, ficha.EmployeeID),
		CompanyID:    ficha.CompanyID,
		Actor:        in.Actor,
	}
	outcome := s.stock.ApplyReturn(ctx, dc, lines)

	if err := s.fichas.UpdateItems(ctx, ficha.ID, items); err != nil {
		return nil, err
	}

	total := 0
	equipment := make([]string, 0, len(in.Items))
	quantities := make([]int, 0, len(in.Items))
	for _, r := range in.Items {
		total += r.Quantity
		equipment = append(equipment, s.typeName(ctx, r.EquipmentTypeID))
		quantities = append(quantities, r.Quantity)
	}
	s.record(ctx, &entity.HistoricoEvent{
		FichaID:     ficha.ID,
		Kind:        entity.HistoricoItemReturned,
		Actor:       in.Actor,
		Description: fmt.Sprintf("Devolução de %d item(ns) processada", total),
		Details: &entity.HistoricoDetails{
			DeliveryID: d.ID,
			Equipment:  equipment,
			Quantities: quantities,
			StockNotes: outcome.Errors,
		},
	})
	return &Result{Delivery: s.toResponse(ctx, d), Stock: outcome}, nil
}

// Sign registra la firma del colaborador. Una entrega firmada ya no se edita.
func (s *Service) Sign(ctx context.Context, id string, in dto.SignRequest) (*dto.DeliveryResponse, error) {
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status == entity.DeliverySigned {
		return nil, fmt.Errorf("%w: la entrega %s ya está firmada", domain.ErrConflict, id)
	}
	d.Status = entity.DeliverySigned
	d.Signature = &entity.Signature{
		SignedAt: s.now().UTC().Format(time.RFC3339),
		IP:       in.IP,
		Device:   in.Device,
	}
	if err := s.deliveries.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, d), nil
}

// CancelSignature vuelve la entrega a "nao_assinado" y descarta la firma.
func (s *Service) CancelSignature(ctx context.Context, id string) (*dto.DeliveryResponse, error) {
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d.Status != entity.DeliverySigned {
		return nil, fmt.Errorf("%w: la entrega %s no está firmada", domain.ErrConflict, id)
	}
	d.Status = entity.DeliveryUnsigned
	d.Signature = nil
	if err := s.deliveries.Update(ctx, d); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, d), nil
}

// Get obtiene una entrega.
func (s *Service) Get(ctx context.Context, id string) (*dto.DeliveryResponse, error) {
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, d), nil
}

// ListByFicha entregas de una ficha, de la más reciente a la más antigua.
func (s *Service) ListByFicha(ctx context.Context, fichaID string) ([]dto.DeliveryResponse, error) {
	if _, err := s.fichas.GetByID(ctx, fichaID); err != nil {
		return nil, err
	}
	list, err := s.deliveries.ListByFicha(ctx, fichaID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.DeliveryResponse, 0, len(list))
	for _, d := range list {
		out = append(out, *s.toResponse(ctx, d))
	}
	return out, nil
}

// Receipt genera el comprobante en PDF. Devuelve los bytes y el nombre de archivo.
func (s *Service) Receipt(ctx context.Context, id string) ([]byte, string, error) {
	if s.receipts == nil {
		return nil, "", fmt.Errorf("comprobante: generador no configurado")
	}
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, "", err
	}
	ficha, err := s.fichas.GetByID(ctx, d.FichaID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener ficha: %w", err)
	}
	emp, err := s.employees.GetByID(ctx, ficha.EmployeeID)
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: obtener colaborador: %w", err)
	}
	company := s.company
	if c, err := s.companies.GetByID(ctx, ficha.CompanyID); err == nil {
		company = *c
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, "", fmt.Errorf("comprobante: obtener empresa: %w", err)
	}

	lines := make([]ReceiptLine, 0, len(d.Items))
	for _, it := range d.Items {
		line := ReceiptLine{Equipment: "EPI não encontrado", CANumber: "N/A", Category: "N/A", Quantity: it.Quantity, ExpiryDate: it.ExpiryDate}
		if t, err := s.types.GetByID(ctx, it.EquipmentTypeID); err == nil {
			line.Equipment, line.CANumber, line.Category = t.Name, t.CANumber, t.Category
		}
		lines = append(lines, line)
	}

	pdf, err := s.receipts.DeliveryReceipt(ctx, &Receipt{
		Company:     company,
		Employee:    *emp,
		Delivery:    *d,
		Lines:       lines,
		GeneratedAt: s.now(),
	})
	if err != nil {
		return nil, "", fmt.Errorf("comprobante: generar PDF: %w", err)
	}
	return pdf, receiptFilename(emp.Name, d.DeliveredAt), nil
}

func (s *Service) editable(ctx context.Context, id string) (*entity.Delivery, error) {
	d, err := s.deliveries.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !d.Editable() {
		return nil, fmt.Errorf("entrega %s: %w", id, domain.ErrDeliveryLocked)
	}
	return d, nil
}

// buildItems valida las líneas y completa la validez por defecto (hoy + vida útil).
func (s *Service) buildItems(ctx context.Context, in []dto.DeliveryItemRequest, ts string, now time.Time) ([]entity.DeliveryItem, []string, error) {
	if len(in) == 0 {
		return nil, nil, fmt.Errorf("%w: la entrega necesita al menos un ítem", domain.ErrInvalidInput)
	}
	today := entity.FormatDate(now)
	items := make([]entity.DeliveryItem, 0, len(in))
	names := make([]string, 0, len(in))
	for _, it := range in {
		if it.Quantity <= 0 {
			return nil, nil, fmt.Errorf("%w: la cantidad de %s debe ser mayor que cero", domain.ErrInvalidInput, it.EquipmentTypeID)
		}
		typ, err := s.types.GetByID(ctx, it.EquipmentTypeID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, nil, fmt.Errorf("%w: tipo de EPI %s no encontrado", domain.ErrInvalidInput, it.EquipmentTypeID)
			}
			return nil, nil, err
		}
		expiry := it.ExpiryDate
		if expiry == "" {
			life := typ.ServiceLifeDays
			if life <= 0 {
				life = entity.DefaultServiceLifeDays
			}
			expiry = entity.FormatDate(now.AddDate(0, 0, life))
		} else {
			t, ok := entity.ParseDate(expiry)
			if !ok {
				return nil, nil, fmt.Errorf("%w: validez inválida %q", domain.ErrInvalidInput, expiry)
			}
			if entity.FormatDate(t) < today {
				return nil, nil, fmt.Errorf("%w: la validez de %s ya pasó", domain.ErrInvalidInput, typ.Name)
			}
		}
		items = append(items, entity.DeliveryItem{
			ID:              "item_" + ts + "_" + shortID(),
			EquipmentTypeID: typ.ID,
			Quantity:        it.Quantity,
			ExpiryDate:      expiry,
		})
		names = append(names, typ.Name)
	}
	return items, names, nil
}

func (s *Service) namesOf(ctx context.Context, items []entity.DeliveryItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, s.typeName(ctx, it.EquipmentTypeID))
	}
	return out
}

// record registra un evento de historial. Un fallo solo se registra en el log.
func (s *Service) record(ctx context.Context, e *entity.HistoricoEvent) {
	e.Date = s.now()
	if err := s.historico.Create(ctx, e); err != nil {
		s.log.Warn().Err(err).Str("ficha_id", e.FichaID).Str("kind", e.Kind).Msg("no se pudo registrar el historial")
	}
}

func (s *Service) employeeName(ctx context.Context, id string) string {
	emp, err := s.employees.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return emp.Name
}

func (s *Service) typeName(ctx context.Context, id string) string {
	t, err := s.types.GetByID(ctx, id)
	if err != nil {
		return id
	}
	return t.Name
}

func (s *Service) toResponse(ctx context.Context, d *entity.Delivery) *dto.DeliveryResponse {
	items := make([]dto.DeliveryItemResponse, 0, len(d.Items))
	for _, it := range d.Items {
		row := dto.DeliveryItemResponse{
			ID:              it.ID,
			EquipmentTypeID: it.EquipmentTypeID,
			Quantity:        it.Quantity,
			ExpiryDate:      it.ExpiryDate,
		}
		if t, err := s.types.GetByID(ctx, it.EquipmentTypeID); err == nil {
			row.EquipmentName = t.Name
			row.CANumber = t.CANumber
		}
		items = append(items, row)
	}
	out := &dto.DeliveryResponse{
		ID:            d.ID,
		FichaID:       d.FichaID,
		DeliveredAt:   d.DeliveredAt,
		Actor:         d.Actor,
		Status:        d.Status,
		Items:         items,
		QRCode:        d.QRCode,
		SignatureLink: d.SignatureLink,
		TotalUnits:    d.TotalUnits(),
	}
	if d.Signature != nil {
		out.Signature = &dto.SignatureResponse{SignedAt: d.Signature.SignedAt, IP: d.Signature.IP, Device: d.Signature.Device}
	}
	return out
}

func linesOf(items []entity.DeliveryItem) []domaininv.Line {
	out := make([]domaininv.Line, 0, len(items))
	for _, it := range items {
		out = append(out, domaininv.Line{EquipmentTypeID: it.EquipmentTypeID, Quantity: it.Quantity})
	}
	return out
}

// heldLines unidades de la entrega que siguen en poder del colaborador. Si la ficha
// no tiene ítems de la entrega se usan las líneas de la entrega.
func heldLines(d *entity.Delivery, f *entity.Ficha) []domaininv.Line {
	own := f.ItemsForDelivery(d.ID)
	if len(own) == 0 {
		return linesOf(d.Items)
	}
	out := make([]domaininv.Line, 0, len(own))
	for _, it := range own {
		if it.Status == entity.FichaItemDelivered {
			out = append(out, domaininv.Line{EquipmentTypeID: it.EquipmentTypeID, Quantity: it.Quantity})
		}
	}
	return out
}

// settledByType unidades de la entrega que ya no están en poder del colaborador
// (devueltas, dañadas o perdidas), por tipo.
func settledByType(deliveryID string, f *entity.Ficha) map[string]int {
	out := make(map[string]int)
	for _, it := range f.ItemsForDelivery(deliveryID) {
		if it.Status != entity.FichaItemDelivered {
			out[it.EquipmentTypeID] += it.Quantity
		}
	}
	return out
}

// checkSettled impide editar una entrega por debajo de lo ya devuelto o dado de baja.
func checkSettled(items []entity.DeliveryItem, settled map[string]int) error {
	total := make(map[string]int, len(items))
	for _, it := range items {
		total[it.EquipmentTypeID] += it.Quantity
	}
	for typeID, qty := range settled {
		if total[typeID] < qty {
			return fmt.Errorf("%w: la entrega tiene %d unidades de %s ya devueltas o dadas de baja y la edición deja %d",
				domain.ErrInvalidInput, qty, typeID, total[typeID])
		}
	}
	return nil
}

// withoutHeld ítems de la ficha menos los que siguen entregados por esta entrega.
func withoutHeld(f *entity.Ficha, deliveryID string) []entity.FichaItem {
	out := make([]entity.FichaItem, 0, len(f.Items))
	for _, it := range f.Items {
		if it.DeliveryID == deliveryID && it.Status == entity.FichaItemDelivered {
			continue
		}
		out = append(out, it)
	}
	return out
}

func fichaLines(items []entity.FichaItem) []domaininv.Line {
	out := make([]domaininv.Line, 0, len(items))
	for _, it := range items {
		out = append(out, domaininv.Line{EquipmentTypeID: it.EquipmentTypeID, Quantity: it.Quantity})
	}
	return out
}

// fichaItemsFor ítems entregados de la ficha para las líneas de la entrega,
// descontando por tipo las unidades de settled.
func fichaItemsFor(d *entity.Delivery, prefix, notes string, settled map[string]int) []entity.FichaItem {
	left := make(map[string]int, len(settled))
	for typeID, qty := range settled {
		left[typeID] = qty
	}
	out := make([]entity.FichaItem, 0, len(d.Items))
	for _, it := range d.Items {
		qty := it.Quantity
		if n := min(left[it.EquipmentTypeID], qty); n > 0 {
			qty -= n
			left[it.EquipmentTypeID] -= n
		}
		if qty == 0 {
			continue
		}
		out = append(out, entity.FichaItem{
			ID:              prefix + it.ID,
			EquipmentTypeID: it.EquipmentTypeID,
			Quantity:        qty,
			DeliveredAt:     d.DeliveredAt,
			ExpiresAt:       it.ExpiryDate,
			Status:          entity.FichaItemDelivered,
			DeliveryID:      d.ID,
			Notes:           notes,
		})
	}
	return out
}

// markReturned marca qty unidades del tipo como devueltas. Un ítem que se devuelve
// en parte se divide: el resto sigue entregado.
func markReturned(items []entity.FichaItem, deliveryID, typeID string, qty int, note string) []entity.FichaItem {
	out := make([]entity.FichaItem, 0, len(items)+1)
	for _, it := range items {
		if qty == 0 || it.DeliveryID != deliveryID || it.EquipmentTypeID != typeID || it.Status != entity.FichaItemDelivered {
			out = append(out, it)
			continue
		}
		if it.Quantity <= qty {
			qty -= it.Quantity
			it.Status = entity.FichaItemReturned
			it.Notes = note
			out = append(out, it)
			continue
		}
		kept := it
		kept.Quantity = it.Quantity - qty
		returned := it
		returned.ID = it.ID + "_dev"
		returned.Quantity = qty
		returned.Status = entity.FichaItemReturned
		returned.Notes = note
		out = append(out, kept, returned)
		qty = 0
	}
	return out
}

func returnNote(reason string) string {
	if strings.TrimSpace(reason) == "" {
		return "Item devolvido"
	}
	return reason
}

func details(d *entity.Delivery, names []string, outcome inventory.StockOutcome) *entity.HistoricoDetails {
	quantities := make([]int, 0, len(d.Items))
	for _, it := range d.Items {
		quantities = append(quantities, it.Quantity)
	}
	return &entity.HistoricoDetails{
		DeliveryID: d.ID,
		Equipment:  names,
		Quantities: quantities,
		StockNotes: outcome.Errors,
	}
}

func deliveryDate(s string, now time.Time) (string, error) {
	if s == "" {
		return now.UTC().Format(time.RFC3339), nil
	}
	t, ok := entity.ParseDate(s)
	if !ok {
		return "", fmt.Errorf("%w: fecha de entrega inválida %q", domain.ErrInvalidInput, s)
	}
	if t.After(now) {
		return "", fmt.Errorf("%w: la fecha de entrega no puede ser futura", domain.ErrInvalidInput)
	}
	return s, nil
}

// receiptFilename entrega_<nombre>_<fecha>.pdf sin espacios.
func receiptFilename(employee, deliveredAt string) string {
	date := deliveredAt
	if t, ok := entity.ParseDate(deliveredAt); ok {
		date = entity.FormatDate(t)
	}
	name := strings.Join(strings.Fields(employee), "_")
	if name == "" {
		name = "colaborador"
	}
	return fmt.Sprintf("entrega_%s_%s.pdf", name, date)
}

func shortID() string {
	return uuid.NewString()[:5]
}
