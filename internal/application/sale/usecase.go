// Package sale implementa la liquidación de ventas: construcción atómica del
// agregado orden/líneas/pagos con decremento condicional de stock, y la
// anulación idempotente con restauración de inventario.
package sale

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/scope"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// TxRunner ejecuta el callback de venta dentro de una transacción con repos
// atados a ella. Lo implementa postgres.TxRunner.
type TxRunner interface {
	RunSale(ctx context.Context, fn func(
		sessions repository.CashSessionRepository,
		orders repository.OrderRepository,
		stock repository.StoreProductRepository,
	) error) error
}

// UseCase liquidación y anulación de ventas.
type UseCase struct {
	txRunner    TxRunner
	sessionRepo repository.CashSessionRepository
	orderRepo   repository.OrderRepository
	stockRepo   repository.StoreProductRepository
	access      scope.StoreAccess
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	sessionRepo repository.CashSessionRepository,
	orderRepo repository.OrderRepository,
	stockRepo repository.StoreProductRepository,
	access scope.StoreAccess,
) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		sessionRepo: sessionRepo,
		orderRepo:   orderRepo,
		stockRepo:   stockRepo,
		access:      access,
	}
}

// CreateSale crea la orden con sus líneas y pagos en una sola transacción.
// Cada línea de producto copia el precio vigente como snapshot y decrementa
// stock con el update condicional del ledger; el primer INSUFFICIENT_STOCK
// aborta la transacción completa con el producto identificado en el error.
// Una venta es todo-o-nada entre sus líneas.
func (uc *UseCase) CreateSale(ctx context.Context, tenantID, userID, role string, in dto.CreateSaleRequest) (*dto.OrderResponse, error) {
	if len(in.ProductLines) == 0 && len(in.ServiceLines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	// Las cantidades deben ser positivas: una cantidad <= 0 convertiría el
	// decremento condicional del ledger en un incremento.
	for _, line := range in.ProductLines {
		if line.Quantity <= 0 {
			return nil, domain.ErrInvalidInput
		}
	}
	// Los pagos pueden no cubrir el total (anticipos de servicios) pero nunca
	// ser negativos. Los precios de servicio tampoco.
	for _, p := range in.Payments {
		if p.Amount.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}
	for _, sv := range in.ServiceLines {
		if sv.Price.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
	}

	// Validación fuera de la transacción: sesión visible, del tenant y abierta.
	// La comprobación definitiva se repite dentro de la tx con la fila
	// bloqueada; una venta contra sesión cerrada se rechaza, no se encola.
	s, err := uc.scopedSession(ctx, tenantID, userID, role, in.CashSessionID)
	if err != nil {
		return nil, err
	}
	if !s.IsOpen() {
		return nil, domain.ErrSessionClosed
	}

	now := time.Now()
	order := &entity.Order{
		ID:            uuid.New().String(),
		OrderNumber:   newOrderNumber(now),
		CashSessionID: s.ID,
		UserID:        userID,
		CreatedAt:     now,
	}
	var products []*entity.OrderProduct
	var services []*entity.Service
	var payments []*entity.PaymentMethod

	err = uc.txRunner.RunSale(ctx, func(
		sessions repository.CashSessionRepository,
		orders repository.OrderRepository,
		stock repository.StoreProductRepository,
	) error {
		locked, err := sessions.GetForUpdate(ctx, s.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if !locked.IsOpen() {
			return domain.ErrSessionClosed
		}

		total := decimal.Zero
		products = products[:0]
		for _, line := range in.ProductLines {
			sp, err := stock.GetByID(ctx, line.StoreProductID)
			if err != nil {
				return err
			}
			if sp == nil || sp.StoreID != locked.StoreID {
				return domain.ErrNotFound
			}
			ok, err := stock.DecrementStock(ctx, sp.ID, line.Quantity)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("%w: producto %s", domain.ErrInsufficientStock, sp.ProductID)
			}
			p := &entity.OrderProduct{
				ID:             uuid.New().String(),
				OrderID:        order.ID,
				StoreProductID: sp.ID,
				ProductID:      sp.ProductID,
				ProductName:    sp.ProductName,
				Quantity:       line.Quantity,
				UnitPrice:      sp.Price, // snapshot: copia de valor, no referencia
			}
			total = total.Add(p.Subtotal())
			products = append(products, p)
		}

		services = services[:0]
		for _, line := range in.ServiceLines {
			sv := &entity.Service{
				ID:      uuid.New().String(),
				OrderID: order.ID,
				Name:    line.Name,
				Price:   line.Price,
				Status:  entity.ServiceStatusInProgress,
			}
			total = total.Add(sv.Price)
			services = append(services, sv)
		}

		paid := decimal.Zero
		payments = payments[:0]
		for _, line := range in.Payments {
			payments = append(payments, &entity.PaymentMethod{
				ID:      uuid.New().String(),
				OrderID: order.ID,
				Type:    line.Type,
				Amount:  line.Amount,
			})
			paid = paid.Add(line.Amount)
		}

		// El total se recalcula siempre en el servidor; el cliente no manda
		// totales. Pago completo liquida la orden, parcial la deja PENDING.
		order.Status = entity.OrderStatusCompleted
		if paid.LessThan(total) {
			order.Status = entity.OrderStatusPending
		}

		if err := orders.Create(ctx, order); err != nil {
			return err
		}
		for _, p := range products {
			if err := orders.AddProduct(ctx, p); err != nil {
				return err
			}
		}
		for _, sv := range services {
			if err := orders.AddService(ctx, sv); err != nil {
				return err
			}
		}
		for _, pm := range payments {
			if err := orders.AddPayment(ctx, pm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toOrderResponse(order, products, services, payments), nil
}

// Cancel anula una orden y restaura el stock de sus líneas de producto en la
// misma transacción. Idempotente: anular una orden ya anulada es no-op, no un
// error, para tolerar reintentos tras un timeout de red sin restaurar doble.
// Se rechaza si la sesión de la orden ya cerró, para que el reporte de una
// sesión cerrada permanezca congelado.
func (uc *UseCase) Cancel(ctx context.Context, tenantID, userID, role, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	s, err := uc.scopedSession(ctx, tenantID, userID, role, o.CashSessionID)
	if err != nil {
		return nil, err
	}
	if !s.IsOpen() {
		return nil, domain.ErrSessionClosed
	}

	err = uc.txRunner.RunSale(ctx, func(
		sessions repository.CashSessionRepository,
		orders repository.OrderRepository,
		stock repository.StoreProductRepository,
	) error {
		locked, err := sessions.GetForUpdate(ctx, s.ID)
		if err != nil {
			return err
		}
		if locked == nil || !locked.IsOpen() {
			return domain.ErrSessionClosed
		}

		// Transición condicional: cero filas afectadas significa que la orden
		// ya estaba CANCELLED y no hay nada que restaurar.
		changed, err := orders.MarkCancelled(ctx, orderID)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		lines, err := orders.ListProducts(ctx, orderID)
		if err != nil {
			return err
		}
		for _, line := range lines {
			if err := stock.RestoreStock(ctx, line.StoreProductID, line.Quantity); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.loadAggregate(ctx, orderID)
}

// GetOrder devuelve el agregado completo de una orden, acotado al tenant.
func (uc *UseCase) GetOrder(ctx context.Context, tenantID, userID, role, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	if _, err := uc.scopedSession(ctx, tenantID, userID, role, o.CashSessionID); err != nil {
		return nil, err
	}
	return uc.loadAggregate(ctx, orderID)
}

// scopedSession carga la sesión aplicando el filtro de tenant/membresía.
func (uc *UseCase) scopedSession(ctx context.Context, tenantID, userID, role, sessionID string) (*entity.CashSession, error) {
	s, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.access.CanAccessStore(ctx, tenantID, s.StoreID, userID, role); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *UseCase) loadAggregate(ctx context.Context, orderID string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil || o == nil {
		if err == nil {
			err = domain.ErrNotFound
		}
		return nil, err
	}
	products, err := uc.orderRepo.ListProducts(ctx, orderID)
	if err != nil {
		return nil, err
	}
	services, err := uc.orderRepo.ListServices(ctx, orderID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.orderRepo.ListPayments(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return toOrderResponse(o, products, services, payments), nil
}

// newOrderNumber genera un consecutivo legible: V-<epoch ms>-<sufijo>.
// La unicidad la garantiza el constraint sobre order_number.
func newOrderNumber(now time.Time) string {
	return fmt.Sprintf("V-%d-%s", now.UnixMilli(), uuid.New().String()[:4])
}

func toOrderResponse(o *entity.Order, products []*entity.OrderProduct, services []*entity.Service, payments []*entity.PaymentMethod) *dto.OrderResponse {
	resp := &dto.OrderResponse{
		ID:            o.ID,
		OrderNumber:   o.OrderNumber,
		CashSessionID: o.CashSessionID,
		UserID:        o.UserID,
		Status:        o.Status,
		Total:         decimal.Zero,
		TotalPaid:     decimal.Zero,
		Products:      make([]dto.OrderProductResponse, 0, len(products)),
		Services:      make([]dto.OrderServiceResponse, 0, len(services)),
		Payments:      make([]dto.OrderPaymentResponse, 0, len(payments)),
		CreatedAt:     o.CreatedAt,
	}
	for _, p := range products {
		sub := p.Subtotal()
		resp.Total = resp.Total.Add(sub)
		resp.Products = append(resp.Products, dto.OrderProductResponse{
			StoreProductID: p.StoreProductID,
			ProductID:      p.ProductID,
			ProductName:    p.ProductName,
			Quantity:       p.Quantity,
			UnitPrice:      p.UnitPrice,
			Subtotal:       sub,
		})
	}
	for _, sv := range services {
		resp.Total = resp.Total.Add(sv.Price)
		resp.Services = append(resp.Services, dto.OrderServiceResponse{
			ID:     sv.ID,
			Name:   sv.Name,
			Price:  sv.Price,
			Status: sv.Status,
		})
	}
	for _, pm := range payments {
		resp.TotalPaid = resp.TotalPaid.Add(pm.Amount)
		resp.Payments = append(resp.Payments, dto.OrderPaymentResponse{
			Type:   pm.Type,
			Amount: pm.Amount,
		})
	}
	return resp
}
