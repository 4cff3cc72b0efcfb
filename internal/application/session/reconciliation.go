package session

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ComputeExpectedBalance calcula el saldo esperado de la sesión:
//
//	apertura + Σ pagos de órdenes no anuladas − Σ egresos manuales
//
// Es una agregación pura de lectura, segura de repetir. Al cierre se invoca
// con repos atados a la transacción del cierre, de modo que un pago o egreso
// registrado un microsegundo después nunca queda incluido a medias.
func ComputeExpectedBalance(ctx context.Context, s *entity.CashSession, orders repository.OrderRepository, movements repository.CashMovementRepository) (decimal.Decimal, error) {
	payments, err := orders.SumPaymentsBySession(ctx, s.ID)
	if err != nil {
		return decimal.Zero, err
	}
	expenses, err := movements.SumBySessionAndType(ctx, s.ID, entity.MovementTypeExpense)
	if err != nil {
		return decimal.Zero, err
	}
	return s.OpeningAmount.Add(payments).Sub(expenses), nil
}

// BuildClosingReport arma el reporte de cierre: todas las órdenes con sus
// líneas y pagos, los movimientos manuales, los pagos agrupados por
// instrumento y los montos apertura/cierre/declarado con su diferencia
// (positiva = sobrante, negativa = faltante). Determinista: mismas entradas,
// mismo reporte.
func BuildClosingReport(ctx context.Context, s *entity.CashSession, orders repository.OrderRepository, movements repository.CashMovementRepository) (*dto.ClosingReport, error) {
	list, err := orders.ListBySession(ctx, s.ID)
	if err != nil {
		return nil, err
	}

	byType := map[string]decimal.Decimal{}
	totalPayments := decimal.Zero
	reportOrders := make([]dto.ReportOrder, 0, len(list))
	for _, o := range list {
		ro, err := buildReportOrder(ctx, o, orders)
		if err != nil {
			return nil, err
		}
		reportOrders = append(reportOrders, ro)
		// Las órdenes anuladas se listan pero no cuentan en el esperado: su
		// efectivo se devolvió al anular.
		if o.Status == entity.OrderStatusCancelled {
			continue
		}
		for _, p := range ro.Payments {
			byType[p.Type] = byType[p.Type].Add(p.Total)
			totalPayments = totalPayments.Add(p.Total)
		}
	}

	movs, err := movements.ListBySession(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	totalExpenses := decimal.Zero
	totalIncomes := decimal.Zero
	reportMovs := make([]dto.ReportMovement, 0, len(movs))
	for _, m := range movs {
		reportMovs = append(reportMovs, dto.ReportMovement{
			Type:        m.Type,
			Amount:      m.Amount,
			Description: m.Description,
			Instrument:  m.Instrument,
			CreatedAt:   m.CreatedAt,
		})
		switch m.Type {
		case entity.MovementTypeExpense:
			totalExpenses = totalExpenses.Add(m.Amount)
		case entity.MovementTypeIncome:
			totalIncomes = totalIncomes.Add(m.Amount)
		}
	}

	closing := s.OpeningAmount.Add(totalPayments).Sub(totalExpenses)
	if s.ClosingAmount != nil {
		closing = *s.ClosingAmount
	}
	declared := decimal.Zero
	if s.DeclaredAmount != nil {
		declared = *s.DeclaredAmount
	}

	return &dto.ClosingReport{
		SessionID:      s.ID,
		StoreID:        s.StoreID,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
		OpeningAmount:  s.OpeningAmount,
		ClosingAmount:  closing,
		DeclaredAmount: declared,
		Difference:     declared.Sub(closing),
		TotalPayments:  totalPayments,
		TotalExpenses:  totalExpenses,
		TotalIncomes:   totalIncomes,
		PaymentsByType: sortedTotals(byType),
		Orders:         reportOrders,
		Movements:      reportMovs,
	}, nil
}

// buildReportOrder carga líneas y pagos de una orden y deriva el código corto
// de estado para el resumen imprimible.
func buildReportOrder(ctx context.Context, o *entity.Order, orders repository.OrderRepository) (dto.ReportOrder, error) {
	products, err := orders.ListProducts(ctx, o.ID)
	if err != nil {
		return dto.ReportOrder{}, err
	}
	services, err := orders.ListServices(ctx, o.ID)
	if err != nil {
		return dto.ReportOrder{}, err
	}
	payments, err := orders.ListPayments(ctx, o.ID)
	if err != nil {
		return dto.ReportOrder{}, err
	}

	total := decimal.Zero
	prodLines := make([]dto.ReportProductLine, 0, len(products))
	for _, p := range products {
		sub := p.Subtotal()
		total = total.Add(sub)
		prodLines = append(prodLines, dto.ReportProductLine{
			ProductName: p.ProductName,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Subtotal:    sub,
		})
	}
	svcLines := make([]dto.ReportServiceLine, 0, len(services))
	for _, sv := range services {
		total = total.Add(sv.Price)
		svcLines = append(svcLines, dto.ReportServiceLine{
			Name:       sv.Name,
			Price:      sv.Price,
			StatusCode: StatusCode(sv.Status),
		})
	}
	byType := map[string]decimal.Decimal{}
	for _, p := range payments {
		byType[p.Type] = byType[p.Type].Add(p.Amount)
	}

	return dto.ReportOrder{
		OrderNumber: o.OrderNumber,
		StatusCode:  StatusCode(o.Status),
		CreatedAt:   o.CreatedAt,
		Products:    prodLines,
		Services:    svcLines,
		Payments:    sortedTotals(byType),
		Total:       total,
	}, nil
}

// StatusCode abrevia un estado de orden o de servicio a tres letras para
// resúmenes imprimibles.
func StatusCode(status string) string {
	switch status {
	case entity.OrderStatusPending:
		return "PEN"
	case entity.OrderStatusCompleted:
		return "COM"
	case entity.OrderStatusCancelled:
		return "CAN"
	case entity.ServiceStatusInProgress:
		return "INP"
	case entity.ServiceStatusDelivered:
		return "DEL"
	case entity.ServiceStatusPaid:
		return "PAG"
	case entity.ServiceStatusAnnulled:
		return "ANU"
	default:
		return status
	}
}

// sortedTotals vuelca el mapa a un slice ordenado por tipo de instrumento.
func sortedTotals(byType map[string]decimal.Decimal) []dto.InstrumentTotal {
	out := make([]dto.InstrumentTotal, 0, len(byType))
	for t, total := range byType {
		out = append(out, dto.InstrumentTotal{Type: t, Total: total})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}
