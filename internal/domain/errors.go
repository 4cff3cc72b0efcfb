package domain

import "errors"

// Errores de dominio (sin dependencias externas). Los handlers HTTP los
// traducen a códigos de estado y los casos de uso los retornan sin envolver
// salvo que necesiten contexto adicional.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// Sesión de caja
	ErrSessionAlreadyOpen = errors.New("la tienda ya tiene una sesión de caja abierta")
	ErrSessionClosed      = errors.New("la sesión de caja está cerrada")
	ErrAlreadyClosed      = errors.New("la sesión de caja ya fue cerrada")
	ErrSessionOpen        = errors.New("la sesión de caja sigue abierta")

	// Inventario y ventas
	ErrInsufficientStock = errors.New("stock insuficiente")

	// Infraestructura transitoria: seguro de reintentar, las operaciones del
	// núcleo son atómicas todo-o-nada.
	ErrTxTimeout = errors.New("la transacción excedió el tiempo máximo")
)
