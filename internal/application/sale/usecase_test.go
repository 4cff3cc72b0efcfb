package sale_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/sale"
	"github.com/jhoicas/Caja-api/internal/application/scope"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

const (
	testTenantID   = "t-principal"
	testStoreID    = "store-centro"
	testCajeroID   = "user-cajero"
	testSessionID  = "sess-abierta"
	testCafeID     = "sp-cafe"
	testPanID      = "sp-pan"
	testAjenoSP    = "sp-ajeno"
	testOtherStore = "store-ajena"
)

type fixture struct {
	store *memory.Store
	uc    *sale.UseCase
}

// newFixture arma tienda, cajero miembro, sesión abierta y dos productos con
// stock (café a 10.00 x5 y pan a 4.00 x3).
func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := memory.New()
	st.PutTenant(entity.Tenant{ID: testTenantID, Name: "Demo", Status: "active"})
	st.PutStore(entity.Store{ID: testStoreID, TenantID: testTenantID, Name: "Centro", Status: "active"})
	st.PutStore(entity.Store{ID: testOtherStore, TenantID: testTenantID, Name: "Norte", Status: "active"})
	st.AddMember(testStoreID, testCajeroID)

	st.PutProduct(entity.Product{ID: "prod-cafe", TenantID: testTenantID, SKU: "CAFE", Name: "Café molido"})
	st.PutProduct(entity.Product{ID: "prod-pan", TenantID: testTenantID, SKU: "PAN", Name: "Pan artesanal"})
	st.PutStoreProduct(entity.StoreProduct{
		ID: testCafeID, StoreID: testStoreID, ProductID: "prod-cafe",
		Stock: 5, Price: dec("10.00"), StockThreshold: 1,
	})
	st.PutStoreProduct(entity.StoreProduct{
		ID: testPanID, StoreID: testStoreID, ProductID: "prod-pan",
		Stock: 3, Price: dec("4.00"), StockThreshold: 1,
	})
	st.PutStoreProduct(entity.StoreProduct{
		ID: testAjenoSP, StoreID: testOtherStore, ProductID: "prod-cafe",
		Stock: 9, Price: dec("10.00"),
	})

	require.NoError(t, st.Sessions().Create(context.Background(), &entity.CashSession{
		ID: testSessionID, StoreID: testStoreID, OpenedByID: testCajeroID,
		Status: entity.SessionStatusOpen, OpeningAmount: dec("100"), OpenedAt: time.Now(),
	}))

	access := scope.NewMembershipScope(st.Stores())
	uc := sale.NewUseCase(memory.NewTxRunner(st), st.Sessions(), st.Orders(), st.StoreProducts(), access)
	return &fixture{store: st, uc: uc}
}

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) stockOf(t *testing.T, id string) int64 {
	t.Helper()
	sp, err := f.store.StoreProducts().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, sp)
	return sp.Stock
}

func (f *fixture) create(in dto.CreateSaleRequest) (*dto.OrderResponse, error) {
	return f.uc.CreateSale(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, in)
}

// ─── Liquidación ─────────────────────────────────────────────────────────────

func TestCreateSale_PagoCompleto_Completada(t *testing.T) {
	f := newFixture(t)

	out, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines: []dto.SaleProductLine{
			{StoreProductID: testCafeID, Quantity: 2},
			{StoreProductID: testPanID, Quantity: 1},
		},
		ServiceLines: []dto.SaleServiceLine{{Name: "Domicilio", Price: dec("3.00")}},
		Payments:     []dto.SalePayment{{Type: "cash", Amount: dec("27.00")}},
	})
	require.NoError(t, err)

	// 2×10 + 1×4 + 3 = 27, pagado completo.
	assert.Equal(t, entity.OrderStatusCompleted, out.Status)
	assert.True(t, out.Total.Equal(dec("27.00")))
	assert.True(t, out.TotalPaid.Equal(dec("27.00")))
	assert.Equal(t, "Café molido", out.Products[0].ProductName)
	assert.Equal(t, int64(3), f.stockOf(t, testCafeID))
	assert.Equal(t, int64(2), f.stockOf(t, testPanID))
}

func TestCreateSale_PagoParcial_QuedaPendiente(t *testing.T) {
	f := newFixture(t)

	out, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ServiceLines:  []dto.SaleServiceLine{{Name: "Arreglo", Price: dec("50.00")}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("20.00")}},
	})
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusPending, out.Status, "anticipo parcial deja la orden pendiente")
}

// El precio cobrado es el vigente al vender: cambiarlo después no toca órdenes.
func TestCreateSale_SnapshotDePrecio(t *testing.T) {
	f := newFixture(t)

	out, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: 1}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10.00")}},
	})
	require.NoError(t, err)

	// Sube el precio del catálogo; la orden conserva el precio original.
	f.store.PutStoreProduct(entity.StoreProduct{
		ID: testCafeID, StoreID: testStoreID, ProductID: "prod-cafe",
		Stock: 4, Price: dec("99.00"),
	})
	again, err := f.uc.GetOrder(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, out.ID)
	require.NoError(t, err)
	assert.True(t, again.Products[0].UnitPrice.Equal(dec("10.00")))
}

// Una línea sin stock aborta la venta entera: ni orden ni decrementos parciales.
func TestCreateSale_StockInsuficiente_TodoONada(t *testing.T) {
	f := newFixture(t)

	out, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines: []dto.SaleProductLine{
			{StoreProductID: testCafeID, Quantity: 2},
			{StoreProductID: testPanID, Quantity: 50},
		},
		Payments: []dto.SalePayment{{Type: "cash", Amount: dec("1000")}},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Contains(t, err.Error(), "prod-pan", "el error identifica el producto")
	assert.Nil(t, out)

	assert.Equal(t, int64(5), f.stockOf(t, testCafeID), "la primera línea se revierte")
	assert.Equal(t, int64(3), f.stockOf(t, testPanID))
}

// Con stock 1 y ventas concurrentes, exactamente una gana.
func TestCreateSale_VentasConcurrentes_UnaGana(t *testing.T) {
	f := newFixture(t)
	f.store.PutStoreProduct(entity.StoreProduct{
		ID: "sp-unico", StoreID: testStoreID, ProductID: "prod-cafe", Stock: 1, Price: dec("10"),
	})

	const n = 8
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.create(dto.CreateSaleRequest{
				CashSessionID: testSessionID,
				ProductLines:  []dto.SaleProductLine{{StoreProductID: "sp-unico", Quantity: 1}},
				Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10")}},
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, domain.ErrInsufficientStock)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, int64(0), f.stockOf(t, "sp-unico"))
}

func TestCreateSale_SesionCerrada_Rechazada(t *testing.T) {
	f := newFixture(t)
	ok, err := f.store.Sessions().Close(context.Background(), testSessionID, testCajeroID, dec("100"), dec("100"), time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: 1}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.Equal(t, int64(5), f.stockOf(t, testCafeID), "no se toca stock")
}

func TestCreateSale_SinLineas_Invalida(t *testing.T) {
	f := newFixture(t)
	_, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateSale_CantidadNoPositiva_Invalida(t *testing.T) {
	f := newFixture(t)

	// Una cantidad negativa volvería el decremento un incremento de stock.
	for _, qty := range []int64{0, -3} {
		_, err := f.create(dto.CreateSaleRequest{
			CashSessionID: testSessionID,
			ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: qty}},
			Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10")}},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
	assert.Equal(t, int64(5), f.stockOf(t, testCafeID))
}

func TestCreateSale_PagoNegativo_Invalido(t *testing.T) {
	f := newFixture(t)
	_, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: 1}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("-1")}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// Un producto de otra tienda no es vendible en esta sesión.
func TestCreateSale_ProductoDeOtraTienda_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testAjenoSP, Quantity: 1}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCreateSale_SesionDeOtroTenant_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.CreateSale(context.Background(), "t-ajeno", testCajeroID, entity.RoleAdmin, dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: 1}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10")}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ─── Anulación ───────────────────────────────────────────────────────────────

func TestCancel_RestauraStock(t *testing.T) {
	f := newFixture(t)
	out, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: 3}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("30")}},
	})
	require.NoError(t, err)
	require.Equal(t, int64(2), f.stockOf(t, testCafeID))

	cancelled, err := f.uc.Cancel(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, out.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.OrderStatusCancelled, cancelled.Status)
	assert.Equal(t, int64(5), f.stockOf(t, testCafeID))
}

// Reintentos de anulación no restauran stock dos veces.
func TestCancel_Idempotente(t *testing.T) {
	f := newFixture(t)
	out, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: 2}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("20")}},
	})
	require.NoError(t, err)

	_, err = f.uc.Cancel(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, out.ID)
	require.NoError(t, err)
	again, err := f.uc.Cancel(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, out.ID)
	require.NoError(t, err, "anular dos veces es no-op, no error")

	assert.Equal(t, entity.OrderStatusCancelled, again.Status)
	assert.Equal(t, int64(5), f.stockOf(t, testCafeID), "el stock se restaura una sola vez")
}

// La anulación sobre una sesión ya cerrada se rechaza: su reporte está congelado.
func TestCancel_SesionCerrada_Rechazada(t *testing.T) {
	f := newFixture(t)
	out, err := f.create(dto.CreateSaleRequest{
		CashSessionID: testSessionID,
		ProductLines:  []dto.SaleProductLine{{StoreProductID: testCafeID, Quantity: 1}},
		Payments:      []dto.SalePayment{{Type: "cash", Amount: dec("10")}},
	})
	require.NoError(t, err)

	ok, err := f.store.Sessions().Close(context.Background(), testSessionID, testCajeroID, dec("110"), dec("110"), time.Now())
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.uc.Cancel(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, out.ID)
	assert.ErrorIs(t, err, domain.ErrSessionClosed)
	assert.Equal(t, int64(4), f.stockOf(t, testCafeID), "el stock no se restaura")
}

func TestCancel_OrdenInexistente_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.uc.Cancel(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, "order-fantasma")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
