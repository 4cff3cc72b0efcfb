package session_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

// arma una sesión cerrada con órdenes de varios instrumentos y movimientos.
func buildClosedSession(t *testing.T) (*memory.Store, *entity.CashSession) {
	t.Helper()
	st := memory.New()
	ctx := context.Background()

	openedAt := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	closedAt := openedAt.Add(9 * time.Hour)
	closing := dec("100")
	declared := dec("100")
	s := &entity.CashSession{
		ID: "sess-1", StoreID: testStoreID, OpenedByID: testCajeroID,
		Status: entity.SessionStatusClosed, OpeningAmount: dec("50"),
		ClosingAmount: &closing, DeclaredAmount: &declared,
		OpenedAt: openedAt, ClosedAt: &closedAt,
	}
	require.NoError(t, st.Sessions().Create(ctx, &entity.CashSession{
		ID: s.ID, StoreID: s.StoreID, OpenedByID: s.OpenedByID,
		Status: entity.SessionStatusOpen, OpeningAmount: s.OpeningAmount, OpenedAt: openedAt,
	}))

	orders := st.Orders()
	for i, tc := range []struct {
		number, status, payType, amount string
	}{
		{"V-1", entity.OrderStatusCompleted, "cash", "30"},
		{"V-2", entity.OrderStatusCompleted, "card", "45"},
		{"V-3", entity.OrderStatusCancelled, "cash", "500"},
	} {
		o := &entity.Order{
			ID: "order-" + tc.number, OrderNumber: tc.number,
			CashSessionID: s.ID, UserID: testCajeroID, Status: tc.status,
			CreatedAt: openedAt.Add(time.Duration(i) * time.Minute),
		}
		require.NoError(t, orders.Create(ctx, o))
		require.NoError(t, orders.AddPayment(ctx, &entity.PaymentMethod{
			ID: "pay-" + tc.number, OrderID: o.ID, Type: tc.payType, Amount: dec(tc.amount),
		}))
	}

	require.NoError(t, st.Movements().Create(ctx, &entity.CashMovement{
		ID: "mov-1", CashSessionID: s.ID, Type: entity.MovementTypeExpense,
		Amount: dec("25"), Description: "papelería", Instrument: "cash",
		CreatedByID: testCajeroID, CreatedAt: openedAt.Add(2 * time.Hour),
	}))
	require.NoError(t, st.Movements().Create(ctx, &entity.CashMovement{
		ID: "mov-2", CashSessionID: s.ID, Type: entity.MovementTypeIncome,
		Amount: dec("10"), Description: "base adicional", Instrument: "cash",
		CreatedByID: testCajeroID, CreatedAt: openedAt.Add(3 * time.Hour),
	}))

	return st, s
}

func TestComputeExpectedBalance_ExcluyeAnuladasEIngresos(t *testing.T) {
	st, s := buildClosedSession(t)

	got, err := session.ComputeExpectedBalance(context.Background(), s, st.Orders(), st.Movements())
	require.NoError(t, err)

	// 50 apertura + (30 + 45) pagos no anulados − 25 egresos. Los INCOME se
	// reportan pero no entran en el esperado.
	assert.True(t, got.Equal(dec("100")), "esperado 100, obtuvo %s", got)
}

func TestBuildClosingReport_Totales(t *testing.T) {
	st, s := buildClosedSession(t)

	report, err := session.BuildClosingReport(context.Background(), s, st.Orders(), st.Movements())
	require.NoError(t, err)

	assert.True(t, report.TotalPayments.Equal(dec("75")))
	assert.True(t, report.TotalExpenses.Equal(dec("25")))
	assert.True(t, report.TotalIncomes.Equal(dec("10")))
	assert.True(t, report.ClosingAmount.Equal(dec("100")), "usa el monto congelado al cierre")
	assert.True(t, report.Difference.IsZero())

	// Agrupación por instrumento, ordenada por tipo y sin las anuladas.
	require.Len(t, report.PaymentsByType, 2)
	assert.Equal(t, "card", report.PaymentsByType[0].Type)
	assert.True(t, report.PaymentsByType[0].Total.Equal(dec("45")))
	assert.Equal(t, "cash", report.PaymentsByType[1].Type)
	assert.True(t, report.PaymentsByType[1].Total.Equal(dec("30")))

	require.Len(t, report.Orders, 3)
	assert.Equal(t, "CAN", report.Orders[2].StatusCode)
}

// El mismo insumo produce el mismo reporte byte a byte.
func TestBuildClosingReport_Determinista(t *testing.T) {
	st, s := buildClosedSession(t)
	ctx := context.Background()

	first, err := session.BuildClosingReport(ctx, s, st.Orders(), st.Movements())
	require.NoError(t, err)
	second, err := session.BuildClosingReport(ctx, s, st.Orders(), st.Movements())
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestStatusCode_Abreviaturas(t *testing.T) {
	cases := map[string]string{
		entity.OrderStatusPending:      "PEN",
		entity.OrderStatusCompleted:    "COM",
		entity.OrderStatusCancelled:    "CAN",
		entity.ServiceStatusInProgress: "INP",
		entity.ServiceStatusDelivered:  "DEL",
		entity.ServiceStatusPaid:       "PAG",
		entity.ServiceStatusAnnulled:   "ANU",
		"ALGO_RARO":                    "ALGO_RARO",
	}
	for in, want := range cases {
		assert.Equal(t, want, session.StatusCode(in), "status %s", in)
	}
}
