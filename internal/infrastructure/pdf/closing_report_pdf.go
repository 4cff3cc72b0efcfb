// Package pdf implementa el resumen imprimible del cierre de caja.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Cierre de Caja │ Sesión + Apertura/Cierre          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA ÓRDENES: N° | Estado | Hora | Total                   │
//	│  TABLA MOVIMIENTOS: Tipo | Descripción | Monto               │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PAGOS POR INSTRUMENTO: cash / card / transfer / ...        │
//	│  CONCILIACIÓN: Apertura / Esperado / Declarado / Diferencia │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/jhoicas/Caja-api/internal/application/dto"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 180, Green: 30, Blue: 30}
)

// ClosingReportPDFGenerator genera el resumen de cierre con Maroto v2.
type ClosingReportPDFGenerator struct{}

// NewClosingReportPDFGenerator construye el generador.
func NewClosingReportPDFGenerator() *ClosingReportPDFGenerator { return &ClosingReportPDFGenerator{} }

// Generate genera el PDF del reporte de cierre y devuelve sus bytes.
func (g *ClosingReportPDFGenerator) Generate(_ context.Context, report *dto.ClosingReport) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Cierre de Caja "+report.SessionID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(sectionTitle("ÓRDENES DE LA SESIÓN"))
	m.AddRows(orderHeaderRow())
	for _, r := range orderRows(report.Orders) {
		m.AddRows(r)
	}

	if len(report.Movements) > 0 {
		m.AddRows(line.NewRow(2))
		m.AddRows(sectionTitle("MOVIMIENTOS MANUALES"))
		for _, r := range movementRows(report.Movements) {
			m.AddRows(r)
		}
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("PAGOS POR INSTRUMENTO"))
	for _, r := range instrumentRows(report.PaymentsByType) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(2))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(reconciliationRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// headerRow: título (izq) e identificación de la sesión (der).
func headerRow(report *dto.ClosingReport) core.Row {
	closedAt := "—"
	if report.ClosedAt != nil {
		closedAt = report.ClosedAt.Format("02/01/2006 15:04")
	}
	return row.New(18).Add(
		col.New(6).Add(
			text.New("CIERRE DE CAJA", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Tienda: "+report.StoreID, props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(6).Add(
			text.New("Sesión "+report.SessionID, props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Top: 1,
			}),
			text.New("Apertura: "+report.OpenedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
			text.New("Cierre: "+closedAt, props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func sectionTitle(title string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
		}),
	))
}

func orderHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("N° Orden", 4, align.Left),
		h("Estado", 2, align.Center),
		h("Hora", 3, align.Center),
		h("Total", 3, align.Right),
	)
}

// orderRows: una fila por orden; las anuladas van en gris con su código CAN.
func orderRows(orders []dto.ReportOrder) []core.Row {
	result := make([]core.Row, 0, len(orders))
	for _, o := range orders {
		color := &props.Color{}
		if o.StatusCode == "CAN" {
			color = colorGray
		}
		result = append(result, row.New(6).Add(
			col.New(4).Add(text.New(o.OrderNumber, props.Text{Size: 8, Top: 1, Color: color})),
			col.New(2).Add(text.New(o.StatusCode, props.Text{Size: 8, Align: align.Center, Top: 1, Color: color})),
			col.New(3).Add(text.New(o.CreatedAt.Format("15:04:05"), props.Text{Size: 8, Align: align.Center, Top: 1, Color: color})),
			col.New(3).Add(text.New("$"+o.Total.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1, Color: color})),
		))
	}
	return result
}

func movementRows(movs []dto.ReportMovement) []core.Row {
	result := make([]core.Row, 0, len(movs))
	for _, m := range movs {
		amount := "$" + m.Amount.StringFixed(2)
		color := &props.Color{}
		if m.Type == "EXPENSE" {
			amount = "-" + amount
			color = colorRed
		}
		result = append(result, row.New(6).Add(
			col.New(2).Add(text.New(m.Type, props.Text{Size: 8, Top: 1})),
			col.New(5).Add(text.New(m.Description, props.Text{Size: 8, Top: 1, Color: colorGray})),
			col.New(2).Add(text.New(m.Instrument, props.Text{Size: 8, Align: align.Center, Top: 1, Color: colorGray})),
			col.New(3).Add(text.New(amount, props.Text{Size: 8, Align: align.Right, Top: 1, Color: color})),
		))
	}
	return result
}

func instrumentRows(totals []dto.InstrumentTotal) []core.Row {
	result := make([]core.Row, 0, len(totals))
	for _, t := range totals {
		result = append(result, row.New(6).Add(
			col.New(6).Add(text.New(t.Type, props.Text{Size: 8, Top: 1})),
			col.New(6).Add(text.New("$"+t.Total.StringFixed(2), props.Text{Size: 8, Align: align.Right, Top: 1})),
		))
	}
	return result
}

// reconciliationRow: bloque final con apertura, esperado, declarado y la
// diferencia (positiva = sobrante, negativa = faltante).
func reconciliationRow(report *dto.ClosingReport) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2,
		})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	diffColor := colorPrimary
	if report.Difference.IsNegative() {
		diffColor = colorRed
	}

	return row.New(34).Add(
		col.New(4),
		col.New(4).Add(
			label("Monto de apertura:"),
			label("Total ventas:"),
			label("Saldo esperado:"),
			label("Monto declarado:"),
			text.New("DIFERENCIA:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: diffColor, Right: 2,
			}),
		),
		col.New(4).Add(
			value("$"+report.OpeningAmount.StringFixed(2)),
			value("$"+report.TotalPayments.StringFixed(2)),
			value("$"+report.ClosingAmount.StringFixed(2)),
			value("$"+report.DeclaredAmount.StringFixed(2)),
			text.New("$"+report.Difference.StringFixed(2), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right,
				Color: diffColor, Right: 1,
			}),
		),
	)
}
