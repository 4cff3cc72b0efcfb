// Package movement registra ajustes manuales de caja (ingresos/egresos)
// ligados a una sesión abierta. Los movimientos son append-only: jamás se
// actualizan ni eliminan; las correcciones se hacen con movimientos inversos.
package movement

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

// TxRunner ejecuta el callback de movimiento dentro de una transacción.
// Lo implementa postgres.TxRunner.
type TxRunner interface {
	RunMovement(ctx context.Context, fn func(
		sessions repository.CashSessionRepository,
		movements repository.CashMovementRepository,
	) error) error
}

// UseCase registro y consulta de movimientos manuales de caja.
type UseCase struct {
	txRunner     TxRunner
	sessionRepo  repository.CashSessionRepository
	movementRepo repository.CashMovementRepository
	access       scope.StoreAccess
}

// NewUseCase construye el caso de uso.
func NewUseCase(
	txRunner TxRunner,
	sessionRepo repository.CashSessionRepository,
	movementRepo repository.CashMovementRepository,
	access scope.StoreAccess,
) *UseCase {
	return &UseCase{
		txRunner:     txRunner,
		sessionRepo:  sessionRepo,
		movementRepo: movementRepo,
		access:       access,
	}
}

// Register registra un movimiento contra una sesión abierta. La comprobación
// de sesión abierta se hace con la fila bloqueada, en la misma transacción del
// insert: ningún movimiento puede colarse después del snapshot del cierre.
func (uc *UseCase) Register(ctx context.Context, tenantID, userID, role, sessionID string, in dto.CreateMovementRequest) (*dto.MovementResponse, error) {
	if !in.Amount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}
	s, err := uc.scopedSession(ctx, tenantID, userID, role, sessionID)
	if err != nil {
		return nil, err
	}
	if !s.IsOpen() {
		return nil, domain.ErrSessionClosed
	}

	instrument := in.Instrument
	if instrument == "" {
		instrument = entity.PaymentTypeCash
	}
	m := &entity.CashMovement{
		ID:            uuid.New().String(),
		CashSessionID: sessionID,
		Type:          in.Type,
		Amount:        in.Amount,
		Description:   in.Description,
		Instrument:    instrument,
		CreatedByID:   userID,
		CreatedAt:     time.Now(),
	}

	err = uc.txRunner.RunMovement(ctx, func(
		sessions repository.CashSessionRepository,
		movements repository.CashMovementRepository,
	) error {
		locked, err := sessions.GetForUpdate(ctx, sessionID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if !locked.IsOpen() {
			return domain.ErrSessionClosed
		}
		return movements.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	return toMovementResponse(m), nil
}

// List lista los movimientos de una sesión, acotada al tenant.
func (uc *UseCase) List(ctx context.Context, tenantID, userID, role, sessionID string) ([]dto.MovementResponse, error) {
	if _, err := uc.scopedSession(ctx, tenantID, userID, role, sessionID); err != nil {
		return nil, err
	}
	movs, err := uc.movementRepo.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, m := range movs {
		out = append(out, *toMovementResponse(m))
	}
	return out, nil
}

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

func toMovementResponse(m *entity.CashMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		CashSessionID: m.CashSessionID,
		Type:          m.Type,
		Amount:        m.Amount,
		Description:   m.Description,
		Instrument:    m.Instrument,
		CreatedByID:   m.CreatedByID,
		CreatedAt:     m.CreatedAt,
	}
}
