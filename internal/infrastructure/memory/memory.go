// Package memory es una implementación en memoria de los repositorios y del
// runner transaccional, con la misma semántica observable que el adaptador de
// PostgreSQL: updates condicionales, unicidad de sesión OPEN por tienda y
// transacciones todo-o-nada. Respaldo para desarrollo sin base de datos y para
// las pruebas de los casos de uso.
package memory

import (
	"context"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Caja-api/internal/application/movement"
	"github.com/jhoicas/Caja-api/internal/application/sale"
	"github.com/jhoicas/Caja-api/internal/application/session"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// Store guarda todas las entidades por valor: los repos copian al entrar y al
// salir, nunca comparten punteros con el caller. Eso hace que el snapshot de
// una transacción sea una copia superficial de los mapas.
type Store struct {
	mu sync.Mutex

	sessions    map[string]entity.CashSession
	openByStore map[string]string // store ID -> ID de la sesión OPEN

	orders        map[string]entity.Order
	orderProducts map[string][]entity.OrderProduct
	orderServices map[string][]entity.Service
	orderPayments map[string][]entity.PaymentMethod

	movements map[string][]entity.CashMovement // por sesión

	storeProducts map[string]entity.StoreProduct

	stores  map[string]entity.Store
	members map[string]map[string]bool // store ID -> user ID
	tenants map[string]entity.Tenant
	modules map[string]map[string]bool // tenant ID -> módulo activo
	catalog map[string]entity.Product
	users   map[string]entity.User
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		sessions:      map[string]entity.CashSession{},
		openByStore:   map[string]string{},
		orders:        map[string]entity.Order{},
		orderProducts: map[string][]entity.OrderProduct{},
		orderServices: map[string][]entity.Service{},
		orderPayments: map[string][]entity.PaymentMethod{},
		movements:     map[string][]entity.CashMovement{},
		storeProducts: map[string]entity.StoreProduct{},
		stores:        map[string]entity.Store{},
		members:       map[string]map[string]bool{},
		tenants:       map[string]entity.Tenant{},
		modules:       map[string]map[string]bool{},
		catalog:       map[string]entity.Product{},
		users:         map[string]entity.User{},
	}
}

// Seeding para desarrollo y pruebas.

// PutTenant registra un tenant.
func (s *Store) PutTenant(t entity.Tenant) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tenants[t.ID] = t
}

// EnableModule activa un módulo para el tenant.
func (s *Store) EnableModule(tenantID, moduleName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.modules[tenantID] == nil {
		s.modules[tenantID] = map[string]bool{}
	}
	s.modules[tenantID][moduleName] = true
}

// PutStore registra una tienda.
func (s *Store) PutStore(st entity.Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stores[st.ID] = st
}

// AddMember agrega un usuario a la membresía de una tienda.
func (s *Store) AddMember(storeID, userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[storeID] == nil {
		s.members[storeID] = map[string]bool{}
	}
	s.members[storeID][userID] = true
}

// PutProduct registra una ficha de catálogo.
func (s *Store) PutProduct(p entity.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.catalog[p.ID] = p
}

// PutStoreProduct registra stock y precio de un producto en una tienda.
func (s *Store) PutStoreProduct(sp entity.StoreProduct) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.storeProducts[sp.ID] = sp
}

// PutUser registra un usuario.
func (s *Store) PutUser(u entity.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Constructores de repos fuera de transacción (bloquean por operación).

// Sessions repo de sesiones de caja.
func (s *Store) Sessions() repository.CashSessionRepository {
	return &sessionRepo{s: s, lock: true}
}

// Orders repo de órdenes.
func (s *Store) Orders() repository.OrderRepository {
	return &orderRepo{s: s, lock: true}
}

// StoreProducts ledger de stock.
func (s *Store) StoreProducts() repository.StoreProductRepository {
	return &storeProductRepo{s: s, lock: true}
}

// Movements repo de movimientos manuales.
func (s *Store) Movements() repository.CashMovementRepository {
	return &movementRepo{s: s, lock: true}
}

// Stores repo de tiendas y membresías.
func (s *Store) Stores() repository.StoreRepository {
	return &storeRepo{s: s}
}

// Tenants repo de tenants y módulos.
func (s *Store) Tenants() repository.TenantRepository {
	return &tenantRepo{s: s}
}

// Catalog repo de solo lectura del catálogo.
func (s *Store) Catalog() repository.ProductRepository {
	return &productRepo{s: s}
}

// Users repo de usuarios.
func (s *Store) Users() repository.UserRepository {
	return &userRepo{s: s}
}

// snapshot copia los mapas mutables por transacción. Como las entidades se
// guardan por valor y los slices son append-only, la copia superficial basta
// para deshacer.
type snapshot struct {
	sessions      map[string]entity.CashSession
	openByStore   map[string]string
	orders        map[string]entity.Order
	orderProducts map[string][]entity.OrderProduct
	orderServices map[string][]entity.Service
	orderPayments map[string][]entity.PaymentMethod
	movements     map[string][]entity.CashMovement
	storeProducts map[string]entity.StoreProduct
}

func (s *Store) snapshot() snapshot {
	return snapshot{
		sessions:      maps.Clone(s.sessions),
		openByStore:   maps.Clone(s.openByStore),
		orders:        maps.Clone(s.orders),
		orderProducts: maps.Clone(s.orderProducts),
		orderServices: maps.Clone(s.orderServices),
		orderPayments: maps.Clone(s.orderPayments),
		movements:     maps.Clone(s.movements),
		storeProducts: maps.Clone(s.storeProducts),
	}
}

func (s *Store) restore(sn snapshot) {
	s.sessions = sn.sessions
	s.openByStore = sn.openByStore
	s.orders = sn.orders
	s.orderProducts = sn.orderProducts
	s.orderServices = sn.orderServices
	s.orderPayments = sn.orderPayments
	s.movements = sn.movements
	s.storeProducts = sn.storeProducts
}

// TxRunner serializa las transacciones con el mutex del Store y deshace con
// snapshot si el callback falla. El mutex cumple el papel del lock de fila:
// dos cierres o dos ventas concurrentes se ejecutan una después de la otra y
// la segunda observa el estado que dejó la primera.
type TxRunner struct {
	s *Store
}

var _ session.TxRunner = (*TxRunner)(nil)
var _ sale.TxRunner = (*TxRunner)(nil)
var _ movement.TxRunner = (*TxRunner)(nil)

// NewTxRunner construye el runner sobre el Store.
func NewTxRunner(s *Store) *TxRunner {
	return &TxRunner{s: s}
}

func (r *TxRunner) run(fn func() error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	sn := r.s.snapshot()
	if err := fn(); err != nil {
		r.s.restore(sn)
		return err
	}
	return nil
}

// RunOpen transacción de apertura de sesión.
func (r *TxRunner) RunOpen(ctx context.Context, fn func(sessions repository.CashSessionRepository) error) error {
	return r.run(func() error {
		return fn(&sessionRepo{s: r.s})
	})
}

// RunClose transacción de cierre.
func (r *TxRunner) RunClose(ctx context.Context, fn func(
	sessions repository.CashSessionRepository,
	orders repository.OrderRepository,
	movements repository.CashMovementRepository,
) error) error {
	return r.run(func() error {
		return fn(&sessionRepo{s: r.s}, &orderRepo{s: r.s}, &movementRepo{s: r.s})
	})
}

// RunSale transacción de venta o anulación.
func (r *TxRunner) RunSale(ctx context.Context, fn func(
	sessions repository.CashSessionRepository,
	orders repository.OrderRepository,
	stock repository.StoreProductRepository,
) error) error {
	return r.run(func() error {
		return fn(&sessionRepo{s: r.s}, &orderRepo{s: r.s}, &storeProductRepo{s: r.s})
	})
}

// RunMovement transacción de movimiento manual.
func (r *TxRunner) RunMovement(ctx context.Context, fn func(
	sessions repository.CashSessionRepository,
	movements repository.CashMovementRepository,
) error) error {
	return r.run(func() error {
		return fn(&sessionRepo{s: r.s}, &movementRepo{s: r.s})
	})
}

// Repos. El campo lock distingue uso directo (bloquea por operación) de uso
// dentro de una transacción (el runner ya sostiene el mutex).

type sessionRepo struct {
	s    *Store
	lock bool
}

var _ repository.CashSessionRepository = (*sessionRepo)(nil)

func (r *sessionRepo) unlock() func() {
	if !r.lock {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *sessionRepo) Create(ctx context.Context, sess *entity.CashSession) error {
	defer r.unlock()()
	if _, taken := r.s.openByStore[sess.StoreID]; taken {
		return domain.ErrSessionAlreadyOpen
	}
	r.s.sessions[sess.ID] = *sess
	r.s.openByStore[sess.StoreID] = sess.ID
	return nil
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*entity.CashSession, error) {
	defer r.unlock()()
	sess, ok := r.s.sessions[id]
	if !ok {
		return nil, nil
	}
	return &sess, nil
}

func (r *sessionRepo) GetForUpdate(ctx context.Context, id string) (*entity.CashSession, error) {
	return r.GetByID(ctx, id)
}

func (r *sessionRepo) FindOpenByStore(ctx context.Context, storeID string) (*entity.CashSession, error) {
	defer r.unlock()()
	id, ok := r.s.openByStore[storeID]
	if !ok {
		return nil, nil
	}
	sess := r.s.sessions[id]
	return &sess, nil
}

func (r *sessionRepo) Close(ctx context.Context, id, closedByID string, closing, declared decimal.Decimal, closedAt time.Time) (bool, error) {
	defer r.unlock()()
	sess, ok := r.s.sessions[id]
	if !ok || sess.Status != entity.SessionStatusOpen {
		return false, nil
	}
	sess.Status = entity.SessionStatusClosed
	sess.ClosedByID = &closedByID
	sess.ClosingAmount = &closing
	sess.DeclaredAmount = &declared
	sess.ClosedAt = &closedAt
	r.s.sessions[id] = sess
	delete(r.s.openByStore, sess.StoreID)
	return true, nil
}

type orderRepo struct {
	s    *Store
	lock bool
}

var _ repository.OrderRepository = (*orderRepo)(nil)

func (r *orderRepo) unlock() func() {
	if !r.lock {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *orderRepo) Create(ctx context.Context, o *entity.Order) error {
	defer r.unlock()()
	r.s.orders[o.ID] = *o
	return nil
}

func (r *orderRepo) AddProduct(ctx context.Context, line *entity.OrderProduct) error {
	defer r.unlock()()
	withName := *line
	if p, ok := r.s.catalog[line.ProductID]; ok {
		withName.ProductName = p.Name
	}
	r.s.orderProducts[line.OrderID] = append(r.s.orderProducts[line.OrderID], withName)
	return nil
}

func (r *orderRepo) AddService(ctx context.Context, line *entity.Service) error {
	defer r.unlock()()
	r.s.orderServices[line.OrderID] = append(r.s.orderServices[line.OrderID], *line)
	return nil
}

func (r *orderRepo) AddPayment(ctx context.Context, p *entity.PaymentMethod) error {
	defer r.unlock()()
	r.s.orderPayments[p.OrderID] = append(r.s.orderPayments[p.OrderID], *p)
	return nil
}

func (r *orderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	defer r.unlock()()
	o, ok := r.s.orders[id]
	if !ok {
		return nil, nil
	}
	return &o, nil
}

func (r *orderRepo) ListProducts(ctx context.Context, orderID string) ([]*entity.OrderProduct, error) {
	defer r.unlock()()
	lines := r.s.orderProducts[orderID]
	out := make([]*entity.OrderProduct, 0, len(lines))
	for i := range lines {
		line := lines[i]
		out = append(out, &line)
	}
	return out, nil
}

func (r *orderRepo) ListServices(ctx context.Context, orderID string) ([]*entity.Service, error) {
	defer r.unlock()()
	lines := r.s.orderServices[orderID]
	out := make([]*entity.Service, 0, len(lines))
	for i := range lines {
		line := lines[i]
		out = append(out, &line)
	}
	return out, nil
}

func (r *orderRepo) ListPayments(ctx context.Context, orderID string) ([]*entity.PaymentMethod, error) {
	defer r.unlock()()
	lines := r.s.orderPayments[orderID]
	out := make([]*entity.PaymentMethod, 0, len(lines))
	for i := range lines {
		line := lines[i]
		out = append(out, &line)
	}
	return out, nil
}

func (r *orderRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.Order, error) {
	defer r.unlock()()
	var out []*entity.Order
	for id := range r.s.orders {
		o := r.s.orders[id]
		if o.CashSessionID == sessionID {
			out = append(out, &o)
		}
	}
	// Orden de creación, como el ORDER BY del adaptador SQL.
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *orderRepo) SumPaymentsBySession(ctx context.Context, sessionID string) (decimal.Decimal, error) {
	defer r.unlock()()
	total := decimal.Zero
	for id, o := range r.s.orders {
		if o.CashSessionID != sessionID || o.Status == entity.OrderStatusCancelled {
			continue
		}
		for _, p := range r.s.orderPayments[id] {
			total = total.Add(p.Amount)
		}
	}
	return total, nil
}

func (r *orderRepo) MarkCancelled(ctx context.Context, id string) (bool, error) {
	defer r.unlock()()
	o, ok := r.s.orders[id]
	if !ok || o.Status == entity.OrderStatusCancelled {
		return false, nil
	}
	o.Status = entity.OrderStatusCancelled
	r.s.orders[id] = o
	return true, nil
}

type storeProductRepo struct {
	s    *Store
	lock bool
}

var _ repository.StoreProductRepository = (*storeProductRepo)(nil)

func (r *storeProductRepo) unlock() func() {
	if !r.lock {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *storeProductRepo) GetByID(ctx context.Context, id string) (*entity.StoreProduct, error) {
	defer r.unlock()()
	sp, ok := r.s.storeProducts[id]
	if !ok {
		return nil, nil
	}
	if p, found := r.s.catalog[sp.ProductID]; found {
		sp.ProductName = p.Name
	}
	return &sp, nil
}

func (r *storeProductRepo) DecrementStock(ctx context.Context, id string, qty int64) (bool, error) {
	defer r.unlock()()
	sp, ok := r.s.storeProducts[id]
	if !ok || sp.Stock < qty {
		return false, nil
	}
	sp.Stock -= qty
	sp.UpdatedAt = time.Now()
	r.s.storeProducts[id] = sp
	return true, nil
}

func (r *storeProductRepo) RestoreStock(ctx context.Context, id string, qty int64) error {
	defer r.unlock()()
	sp, ok := r.s.storeProducts[id]
	if !ok {
		return domain.ErrNotFound
	}
	sp.Stock += qty
	sp.UpdatedAt = time.Now()
	r.s.storeProducts[id] = sp
	return nil
}

func (r *storeProductRepo) ListByStore(ctx context.Context, storeID string) ([]*entity.StoreProduct, error) {
	defer r.unlock()()
	var out []*entity.StoreProduct
	for id := range r.s.storeProducts {
		sp := r.s.storeProducts[id]
		if sp.StoreID != storeID {
			continue
		}
		if p, found := r.s.catalog[sp.ProductID]; found {
			sp.ProductName = p.Name
		}
		out = append(out, &sp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductName < out[j].ProductName })
	return out, nil
}

type movementRepo struct {
	s    *Store
	lock bool
}

var _ repository.CashMovementRepository = (*movementRepo)(nil)

func (r *movementRepo) unlock() func() {
	if !r.lock {
		return func() {}
	}
	r.s.mu.Lock()
	return r.s.mu.Unlock
}

func (r *movementRepo) Create(ctx context.Context, m *entity.CashMovement) error {
	defer r.unlock()()
	r.s.movements[m.CashSessionID] = append(r.s.movements[m.CashSessionID], *m)
	return nil
}

func (r *movementRepo) ListBySession(ctx context.Context, sessionID string) ([]*entity.CashMovement, error) {
	defer r.unlock()()
	movs := r.s.movements[sessionID]
	out := make([]*entity.CashMovement, 0, len(movs))
	for i := range movs {
		m := movs[i]
		out = append(out, &m)
	}
	return out, nil
}

func (r *movementRepo) SumBySessionAndType(ctx context.Context, sessionID, movType string) (decimal.Decimal, error) {
	defer r.unlock()()
	total := decimal.Zero
	for _, m := range r.s.movements[sessionID] {
		if m.Type == movType {
			total = total.Add(m.Amount)
		}
	}
	return total, nil
}

type storeRepo struct{ s *Store }

var _ repository.StoreRepository = (*storeRepo)(nil)

func (r *storeRepo) GetByID(ctx context.Context, id string) (*entity.Store, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	st, ok := r.s.stores[id]
	if !ok {
		return nil, nil
	}
	return &st, nil
}

func (r *storeRepo) IsMember(ctx context.Context, storeID, userID string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.members[storeID][userID], nil
}

type tenantRepo struct{ s *Store }

var _ repository.TenantRepository = (*tenantRepo)(nil)

func (r *tenantRepo) GetByID(ctx context.Context, id string) (*entity.Tenant, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tenants[id]
	if !ok {
		return nil, nil
	}
	return &t, nil
}

func (r *tenantRepo) HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.modules[tenantID][moduleName], nil
}

type productRepo struct{ s *Store }

var _ repository.ProductRepository = (*productRepo)(nil)

func (r *productRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.catalog[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

type userRepo struct{ s *Store }

var _ repository.UserRepository = (*userRepo)(nil)

func (r *userRepo) Create(ctx context.Context, u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.TenantID == u.TenantID && existing.Email == u.Email {
			return domain.ErrEmailAlreadyExists
		}
	}
	r.s.users[u.ID] = *u
	return nil
}

func (r *userRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (r *userRepo) GetByEmailAndTenant(ctx context.Context, email, tenantID string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id := range r.s.users {
		u := r.s.users[id]
		if u.Email == email && u.TenantID == tenantID {
			return &u, nil
		}
	}
	return nil, nil
}
