// Package pdf genera los documentos imprimibles del control de EPIs con Maroto v2.
//
// Comprobante de entrega (A4):
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  CONTROLE DE ENTREGA DE EPIs                                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  DADOS DA EMPRESA / DADOS DO COLABORADOR / DADOS DA ENTREGA │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABELA: Equipamento | CA | Qtd | Validade | Categoria      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TERMO DE RESPONSABILIDADE                                  │
//	│  ASSINATURAS + QR com o link de assinatura                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/epi-control-api/internal/application/deliveries"
	"github.com/jhoicas/epi-control-api/internal/application/inventory"
	"github.com/jhoicas/epi-control-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 37, Green: 99, Blue: 235}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorStripe  = &props.Color{Red: 249, Green: 250, Blue: 251}
)

const brand = "DataLife EPI - Sistema de Gestão de Equipamentos"

var responsibilityTerms = []string{
	"Declaro ter recebido os Equipamentos de Proteção Individual (EPIs) relacionados acima, em perfeitas condições de uso e conservação. Comprometo-me a:",
	"• Utilizar os EPIs apenas durante a execução das atividades para as quais foram destinados;",
	"• Responsabilizar-me pela guarda, conservação e higienização dos equipamentos;",
	"• Comunicar imediatamente qualquer alteração que os torne impróprios para uso;",
	"• Devolver os EPIs quando solicitado pela empresa ou ao término do contrato de trabalho.",
	"Estou ciente de que o descumprimento das normas de segurança constitui ato faltoso, podendo acarretar as penalidades previstas em lei e na CLT.",
}

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa deliveries.ReceiptGenerator e inventory.StockReportGenerator.
type MarotoPDFGenerator struct{}

var (
	_ deliveries.ReceiptGenerator     = (*MarotoPDFGenerator)(nil)
	_ inventory.StockReportGenerator = (*MarotoPDFGenerator)(nil)
)

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// DeliveryReceipt genera el comprobante de entrega y devuelve sus bytes.
func (g *MarotoPDFGenerator) DeliveryReceipt(_ context.Context, r *deliveries.Receipt) ([]byte, error) {
	m := newDocument("Controle de Entrega de EPIs", nonEmpty(r.Company.Name, brand))
	if err := m.RegisterFooter(footerRow()); err != nil {
		return nil, fmt.Errorf("pdf: registrar pie: %w", err)
	}

	m.AddRows(titleRow("CONTROLE DE ENTREGA DE EPIs"))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(section("DADOS DA EMPRESA",
		"Empresa: "+nonEmpty(r.Company.Name, "—"),
		"CNPJ: "+nonEmpty(r.Company.CNPJ, "—"),
		"Endereço: "+nonEmpty(r.Company.Address, "—"),
	)...)
	m.AddRows(section("DADOS DO COLABORADOR",
		"Nome: "+r.Employee.Name,
		"CPF: "+nonEmpty(r.Employee.CPF, "—"),
		"Cargo: "+nonEmpty(r.Employee.Role, "—"),
		"Email: "+nonEmpty(r.Employee.Email, "—"),
	)...)
	m.AddRows(section("DADOS DA ENTREGA",
		"ID da Entrega: "+r.Delivery.ID,
		"Data da Entrega: "+brDate(r.Delivery.DeliveredAt),
		"Responsável: "+r.Delivery.Actor,
		"Status: "+deliveryStatusLabel(r.Delivery.Status),
	)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("EQUIPAMENTOS DE PROTEÇÃO INDIVIDUAL ENTREGUES"))
	m.AddRows(tableHeader([]string{"Equipamento", "CA", "Qtd", "Validade", "Categoria"}, []int{4, 2, 1, 2, 3}))
	for i, l := range r.Lines {
		m.AddRows(tableRow(i, []int{4, 2, 1, 2, 3}, []string{
			l.Equipment, l.CANumber, strconv.Itoa(l.Quantity), brDate(l.ExpiryDate), l.Category,
		}))
	}

	m.AddRows(line.NewRow(4))
	m.AddRows(sectionTitle("TERMO DE RESPONSABILIDADE"))
	for _, t := range responsibilityTerms {
		m.AddRows(text.NewRow(8, t, props.Text{Size: 8, Top: 1}))
	}

	m.AddRows(line.NewRow(6))
	m.AddRows(signatureRows(r)...)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return doc.GetBytes(), nil
}

// StockReport genera el informe de posición de stock.
func (g *MarotoPDFGenerator) StockReport(_ context.Context, r *inventory.StockReport) ([]byte, error) {
	m := newDocument("Relatório de Estoque de EPIs", brand)
	if err := m.RegisterFooter(footerRow()); err != nil {
		return nil, fmt.Errorf("pdf: registrar pie: %w", err)
	}

	m.AddRows(titleRow("RELATÓRIO DE ESTOQUE DE EPIs"))
	m.AddRows(text.NewRow(6, "Gerado em "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
		Size: 8, Align: align.Center, Color: colorGray,
	}))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	s := r.Summary
	m.AddRows(section("RESUMO",
		fmt.Sprintf("Itens: %d   |   Unidades: %d   |   Valor total: %s", s.TotalItems, s.TotalUnits, money(s.TotalValue)),
		fmt.Sprintf("Disponível: %d   |   Baixo estoque: %d   |   Vencido: %d   |   Esgotado: %d",
			s.ByStatus[entity.StockStatusAvailable], s.ByStatus[entity.StockStatusLow],
			s.ByStatus[entity.StockStatusExpired], s.ByStatus[entity.StockStatusEmpty]),
		fmt.Sprintf("Próximos do vencimento: %d   |   Com saldo negativo: %d", s.ExpiringSoon, s.Negative),
	)...)

	widths := []int{4, 2, 1, 1, 2, 2}
	m.AddRows(tableHeader([]string{"Equipamento", "Lote", "Qtd", "Mín.", "Validade", "Status"}, widths))
	for i, it := range r.Items {
		m.AddRows(tableRow(i, widths, []string{
			it.EquipmentName, nonEmpty(it.Lot, "—"), strconv.Itoa(it.Quantity), strconv.Itoa(it.MinQuantity),
			brDate(it.ExpiryDate), stockStatusLabel(it.Status),
		}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar informe: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// newDocument configura la página A4 compartida por los dos documentos.
func newDocument(title, author string) core.Maroto {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).WithRightMargin(12).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithAuthor(author, true).
		Build()
	return maroto.New(cfg)
}

// titleRow: título centrado con la marca debajo.
func titleRow(title string) core.Row {
	return row.New(18).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 16, Align: align.Center,
			Color: colorPrimary, Top: 2,
		}),
		text.New(brand, props.Text{
			Size: 8, Align: align.Center, Color: colorGray, Top: 11,
		}),
	))
}

func sectionTitle(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(text.New(title, props.Text{
		Style: fontstyle.Bold, Size: 10, Color: colorPrimary, Top: 2,
	})))
}

// section: título más una línea por dato.
func section(title string, lines ...string) []core.Row {
	rows := []core.Row{sectionTitle(title)}
	for _, l := range lines {
		rows = append(rows, row.New(5).Add(col.New(12).Add(
			text.New(l, props.Text{Size: 9, Left: 2}),
		)))
	}
	return append(rows, row.New(2))
}

// tableHeader: cabecera con fondo azul y texto blanco.
func tableHeader(labels []string, widths []int) core.Row {
	cols := make([]core.Col, len(labels))
	for i, label := range labels {
		cols[i] = col.New(widths[i]).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: cellAlign(i),
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(cols...).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

// tableRow: una fila de la tabla, con fondo alterno en las filas impares.
func tableRow(i int, widths []int, values []string) core.Row {
	cols := make([]core.Col, len(values))
	for j, v := range values {
		cols[j] = col.New(widths[j]).Add(text.New(v, props.Text{
			Size: 8, Align: cellAlign(j), Top: 1.5, Left: 1, Right: 1,
		}))
	}
	r := row.New(7).Add(cols...)
	if i%2 == 1 {
		r = r.WithStyle(&props.Cell{BackgroundColor: colorStripe})
	}
	return r
}

// la primera columna es descriptiva; las demás van centradas.
func cellAlign(i int) align.Type {
	if i == 0 {
		return align.Left
	}
	return align.Center
}

// signatureRows: firmas del colaborador y del responsable, y el QR con el
// link de firma digital cuando la entrega aún no está firmada.
func signatureRows(r *deliveries.Receipt) []core.Row {
	signer := func(label, name string) core.Col {
		return col.New(6).Add(
			text.New("_________________________________", props.Text{Align: align.Center, Top: 8}),
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Center, Top: 14}),
			text.New(name, props.Text{Size: 8, Align: align.Center, Top: 18, Color: colorGray}),
		)
	}
	rows := []core.Row{
		row.New(26).Add(
			signer("Assinatura do Colaborador", r.Employee.Name),
			signer("Responsável pela Entrega", r.Delivery.Actor),
		),
	}

	if r.Delivery.Signature != nil {
		rows = append(rows, row.New(8).Add(col.New(12).Add(
			text.New("Assinado digitalmente em "+brDateTime(r.Delivery.Signature.SignedAt), props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Center, Color: colorPrimary, Top: 2,
			}),
		)))
	} else if r.Delivery.SignatureLink != "" {
		legend := []core.Component{
			text.New("Escaneie o código QR para assinar\ndigitalmente esta entrega.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
		}
		for i, chunk := range splitEvery(r.Delivery.SignatureLink, 60) {
			legend = append(legend, text.New(chunk, props.Text{
				Size: 7, Top: 18 + float64(i)*4, Left: 3, Color: colorPrimary,
			}))
		}
		rows = append(rows, row.New(40).Add(
			col.New(3).Add(code.NewQr(r.Delivery.SignatureLink, props.Rect{Percent: 95, Center: true})),
			col.New(9).Add(legend...),
		))
	}

	return append(rows, row.New(6).Add(col.New(12).Add(
		text.New("Documento gerado em "+r.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
			Size: 7, Align: align.Right, Color: colorGray, Top: 2,
		}),
	)))
}

func footerRow() core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(brand, props.Text{
		Size: 7, Align: align.Center, Color: colorGray, Top: 2,
	})))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// brDate formatea una fecha ISO como DD/MM/AAAA. Vacía devuelve "—"; si no se puede leer, el texto original.
func brDate(s string) string {
	t, ok := entity.ParseDate(s)
	if !ok {
		return nonEmpty(s, "—")
	}
	return t.Format("02/01/2006")
}

func brDateTime(s string) string {
	t, ok := entity.ParseDate(s)
	if !ok {
		return s
	}
	return t.Format("02/01/2006 15:04")
}

// money formatea un valor como reales: "R$ 1.234,50".
func money(v decimal.Decimal) string {
	s := v.Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")
	out := "R$ " + formatMoney(intPart) + "," + frac
	if v.IsNegative() {
		return "-" + out
	}
	return out
}

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func formatMoney(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

// splitEvery divide s en trozos de max n caracteres.
func splitEvery(s string, n int) []string {
	var parts []string
	for len(s) > n {
		parts = append(parts, s[:n])
		s = s[n:]
	}
	if s != "" {
		parts = append(parts, s)
	}
	return parts
}

func deliveryStatusLabel(s string) string {
	switch s {
	case entity.DeliverySigned:
		return "Assinado"
	case entity.DeliveryUnsigned:
		return "Não assinado"
	}
	return s
}

func stockStatusLabel(s string) string {
	switch s {
	case entity.StockStatusAvailable:
		return "Disponível"
	case entity.StockStatusLow:
		return "Baixo estoque"
	case entity.StockStatusExpired:
		return "Vencido"
	case entity.StockStatusEmpty:
		return "Esgotado"
	}
	return s
}
