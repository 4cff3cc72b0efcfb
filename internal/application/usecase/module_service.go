package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/Caja-api/internal/domain/repository"
)

// ModuleService verifica qué módulos SaaS tiene activos un tenant (CASH,
// INVENTORY). Es el único punto de la aplicación que conoce la lógica de
// activación de módulos; el middleware RequireModule lo consulta antes de que
// cualquier operación del núcleo sea alcanzable.
type ModuleService struct {
	tenantRepo repository.TenantRepository
}

// NewModuleService construye el servicio de módulos.
func NewModuleService(tenantRepo repository.TenantRepository) *ModuleService {
	return &ModuleService{tenantRepo: tenantRepo}
}

// HasActiveModule informa si el tenant tiene el módulo activo y sin vencer.
// Devuelve false (sin error) si no lo tiene contratado; error solo ante fallos
// de infraestructura (DB caída, timeout, etc.).
func (s *ModuleService) HasActiveModule(ctx context.Context, tenantID, moduleName string) (bool, error) {
	if tenantID == "" || moduleName == "" {
		return false, fmt.Errorf("module: tenantID y moduleName son obligatorios")
	}
	return s.tenantRepo.HasActiveModule(ctx, tenantID, moduleName)
}
