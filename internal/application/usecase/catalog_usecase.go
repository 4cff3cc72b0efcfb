package usecase

import (
	"context"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/scope"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// CatalogUseCase lectura del stock y precios por tienda. El mantenimiento del
// catálogo es un colaborador externo; aquí solo la vista que necesita el punto
// de venta, con la bandera de stock bajo según el umbral configurado.
type CatalogUseCase struct {
	stockRepo   repository.StoreProductRepository
	productRepo repository.ProductRepository
	access      scope.StoreAccess
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(stockRepo repository.StoreProductRepository, productRepo repository.ProductRepository, access scope.StoreAccess) *CatalogUseCase {
	return &CatalogUseCase{stockRepo: stockRepo, productRepo: productRepo, access: access}
}

// GetProduct obtiene la ficha de catálogo de un producto del tenant. Un
// producto de otro tenant se reporta como inexistente.
func (uc *CatalogUseCase) GetProduct(ctx context.Context, tenantID, productID string) (*dto.ProductResponse, error) {
	p, err := uc.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if p == nil || p.TenantID != tenantID {
		return nil, domain.ErrNotFound
	}
	return &dto.ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}, nil
}

// ListStoreProducts lista stock y precio de los productos de una tienda.
func (uc *CatalogUseCase) ListStoreProducts(ctx context.Context, tenantID, userID, role, storeID string) ([]dto.StoreProductResponse, error) {
	if err := uc.access.CanAccessStore(ctx, tenantID, storeID, userID, role); err != nil {
		return nil, err
	}
	list, err := uc.stockRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StoreProductResponse, 0, len(list))
	for _, sp := range list {
		out = append(out, dto.StoreProductResponse{
			ID:             sp.ID,
			StoreID:        sp.StoreID,
			ProductID:      sp.ProductID,
			ProductName:    sp.ProductName,
			Stock:          sp.Stock,
			Price:          sp.Price,
			StockThreshold: sp.StockThreshold,
			LowStock:       sp.LowStock(),
			UpdatedAt:      sp.UpdatedAt,
		})
	}
	return out, nil
}
