package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Caja-api/internal/application/scope"
	"github.com/jhoicas/Caja-api/internal/application/usecase"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/infrastructure/memory"
)

const (
	testTenantID  = "t-principal"
	otherTenantID = "t-ajeno"
	testStoreID   = "store-centro"
	testCajeroID  = "user-cajero"
)

func newCatalogFixture(t *testing.T) (*memory.Store, *usecase.CatalogUseCase) {
	t.Helper()
	st := memory.New()
	st.PutTenant(entity.Tenant{ID: testTenantID, Name: "Principal", Status: "active"})
	st.PutTenant(entity.Tenant{ID: otherTenantID, Name: "Ajeno", Status: "active"})
	st.PutStore(entity.Store{ID: testStoreID, TenantID: testTenantID, Name: "Tienda Centro", Status: "active"})
	st.AddMember(testStoreID, testCajeroID)

	st.PutProduct(entity.Product{ID: "prod-cafe", TenantID: testTenantID, SKU: "CAFE-250", Name: "Café molido 250g", Status: "active"})
	st.PutProduct(entity.Product{ID: "prod-ajeno", TenantID: otherTenantID, SKU: "X-1", Name: "Producto ajeno", Status: "active"})
	st.PutStoreProduct(entity.StoreProduct{
		ID: "sp-cafe", StoreID: testStoreID, ProductID: "prod-cafe", ProductName: "Café molido 250g",
		Stock: 2, Price: decimal.RequireFromString("10.50"), StockThreshold: 5,
	})

	uc := usecase.NewCatalogUseCase(st.StoreProducts(), st.Catalog(), scope.NewMembershipScope(st.Stores()))
	return st, uc
}

func TestGetProduct_DevuelveFicha(t *testing.T) {
	_, uc := newCatalogFixture(t)

	out, err := uc.GetProduct(context.Background(), testTenantID, "prod-cafe")
	require.NoError(t, err)
	assert.Equal(t, "prod-cafe", out.ID)
	assert.Equal(t, "CAFE-250", out.SKU)
	assert.Equal(t, "Café molido 250g", out.Name)
}

func TestGetProduct_DeOtroTenant_NotFound(t *testing.T) {
	_, uc := newCatalogFixture(t)

	_, err := uc.GetProduct(context.Background(), testTenantID, "prod-ajeno")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestGetProduct_Inexistente_NotFound(t *testing.T) {
	_, uc := newCatalogFixture(t)

	_, err := uc.GetProduct(context.Background(), testTenantID, "prod-nope")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListStoreProducts_MarcaStockBajo(t *testing.T) {
	_, uc := newCatalogFixture(t)

	out, err := uc.ListStoreProducts(context.Background(), testTenantID, testCajeroID, entity.RoleCajero, testStoreID)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, int64(2), out[0].Stock)
	assert.True(t, out[0].LowStock, "stock 2 con umbral 5 debe alertar")
}

func TestListStoreProducts_NoMiembro_Forbidden(t *testing.T) {
	_, uc := newCatalogFixture(t)

	_, err := uc.ListStoreProducts(context.Background(), testTenantID, "user-extrano", entity.RoleVendedor, testStoreID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
