// Package session implementa el ciclo de vida de la sesión de caja:
// apertura con unicidad por tienda, cierre con conciliación y consulta.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/Caja-api/internal/application/dto"
	"github.com/jhoicas/Caja-api/internal/application/scope"
	"github.com/jhoicas/Caja-api/internal/domain"
	"github.com/jhoicas/Caja-api/internal/domain/entity"
	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// TxRunner ejecuta callbacks dentro de una transacción con repos atados a ella.
// Lo implementa postgres.TxRunner.
type TxRunner interface {
	RunOpen(ctx context.Context, fn func(sessions repository.CashSessionRepository) error) error
	RunClose(ctx context.Context, fn func(
		sessions repository.CashSessionRepository,
		orders repository.OrderRepository,
		movements repository.CashMovementRepository,
	) error) error
}

// UseCase gestiona apertura, cierre y consulta de sesiones de caja.
type UseCase struct {
	txRunner     TxRunner
	sessionRepo  repository.CashSessionRepository
	orderRepo    repository.OrderRepository
	movementRepo repository.CashMovementRepository
	access       scope.StoreAccess
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	sessionRepo repository.CashSessionRepository,
	orderRepo repository.OrderRepository,
	movementRepo repository.CashMovementRepository,
	access scope.StoreAccess,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		sessionRepo:  sessionRepo,
		orderRepo:    orderRepo,
		movementRepo: movementRepo,
		access:       access,
	}
}

// Open abre una sesión de caja para la tienda. La unicidad es POR TIENDA: una
// caja registradora es un recurso físico, así que a lo sumo una sesión OPEN
// por tienda. La comprobación y el insert son atómicos frente a aperturas
// concurrentes: el índice único parcial decide, no una lectura previa.
func (uc *UseCase) Open(ctx context.Context, tenantID, userID, role string, in dto.OpenSessionRequest) (*dto.SessionResponse, error) {
	if in.OpeningAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	if err := uc.access.CanAccessStore(ctx, tenantID, in.StoreID, userID, role); err != nil {
		return nil, err
	}

	s := &entity.CashSession{
		ID:            uuid.New().String(),
		StoreID:       in.StoreID,
		OpenedByID:    userID,
		Status:        entity.SessionStatusOpen,
		OpeningAmount: in.OpeningAmount,
		OpenedAt:      time.Now(),
	}

	err := uc.txRunner.RunOpen(ctx, func(sessions repository.CashSessionRepository) error {
		// Chequeo amable para el error típico; la carrera real la resuelve el
		// índice único en Create.
		open, err := sessions.FindOpenByStore(ctx, in.StoreID)
		if err != nil {
			return err
		}
		if open != nil {
			return domain.ErrSessionAlreadyOpen
		}
		return sessions.Create(ctx, s)
	})
	if err != nil {
		return nil, err
	}
	return toSessionResponse(s), nil
}

// Close cierra la sesión: calcula el saldo esperado sobre el mismo snapshot
// transaccional de la transición OPEN→CLOSED y retorna el reporte de cierre
// completo, o un motivo de conflicto claro; nunca un reporte a medias.
func (uc *UseCase) Close(ctx context.Context, tenantID, closerID, role, sessionID string, in dto.CloseSessionRequest) (*dto.ClosingReport, error) {
	if in.DeclaredAmount.IsNegative() {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.sessionRepo.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, domain.ErrNotFound
	}
	if err := uc.access.CanAccessStore(ctx, tenantID, s.StoreID, closerID, role); err != nil {
		return nil, err
	}
	// Solo el cajero que abrió o un rol privilegiado pueden cerrar.
	if closerID != s.OpenedByID && role != entity.RoleAdmin {
		return nil, domain.ErrForbidden
	}
	if !s.IsOpen() {
		return nil, domain.ErrAlreadyClosed
	}

	var report *dto.ClosingReport
	err = uc.txRunner.RunClose(ctx, func(
		sessions repository.CashSessionRepository,
		orders repository.OrderRepository,
		movements repository.CashMovementRepository,
	) error {
		// Bloquea la fila de la sesión: las ventas y movimientos en vuelo
		// sostienen el mismo lock, así que o commitean antes del snapshot o
		// ven la sesión cerrada. No hay inclusión parcial.
		locked, err := sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if !locked.IsOpen() {
			return domain.ErrAlreadyClosed
		}

		closing, err := ComputeExpectedBalance(ctx, locked, orders, movements)
		if err != nil {
			return err
		}

		now := time.Now()
		// Update condicional "WHERE status='OPEN'": punto de linealización.
		// Cero filas afectadas significa que un cierre concurrente ganó.
		ok, err := sessions.Close(ctx, sessionID, closerID, closing, in.DeclaredAmount, now)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrAlreadyClosed
		}

		locked.Status = entity.SessionStatusClosed
		locked.ClosedByID = &closerID
		locked.ClosingAmount = &closing
		locked.DeclaredAmount = &in.DeclaredAmount
		locked.ClosedAt = &now

		report, err = BuildClosingReport(ctx, locked, orders, movements)
		return err
	})
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Get consulta el estado de una sesión, acotada al tenant del caller.
func (uc *UseCase) Get(ctx context.Context, tenantID, userID, role, sessionID string) (*dto.SessionResponse, error) {
	s, err := uc.scopedSession(ctx, tenantID, userID, role, sessionID)
	if err != nil {
		return nil, err
	}
	return toSessionResponse(s), nil
}

// Report regenera el reporte de cierre de una sesión ya cerrada. Es una
// agregación de solo lectura: repetirla produce el mismo resultado byte a byte
// porque los insumos de una sesión CLOSED están congelados por definición.
func (uc *UseCase) Report(ctx context.Context, tenantID, userID, role, sessionID string) (*dto.ClosingReport, error) {
	s, err := uc.scopedSession(ctx, tenantID, userID, role, sessionID)
	if err != nil {
		return nil, err
	}
	if s.IsOpen() {
		return nil, domain.ErrSessionOpen
	}
	return BuildClosingReport(ctx, s, uc.orderRepo, uc.movementRepo)
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

func toSessionResponse(s *entity.CashSession) *dto.SessionResponse {
	return &dto.SessionResponse{
		ID:             s.ID,
		StoreID:        s.StoreID,
		OpenedByID:     s.OpenedByID,
		ClosedByID:     s.ClosedByID,
		Status:         s.Status,
		OpeningAmount:  s.OpeningAmount,
		ClosingAmount:  s.ClosingAmount,
		DeclaredAmount: s.DeclaredAmount,
		OpenedAt:       s.OpenedAt,
		ClosedAt:       s.ClosedAt,
	}
}
