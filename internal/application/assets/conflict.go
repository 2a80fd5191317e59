package assets

import (
	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
)

// ConflictError conflicto 409: otro actor mutó el activo. Lleva la foto
// autoritativa recién traída del servidor para que el operador re-evalúe.
// Nunca se resuelve en silencio ni se reintenta automáticamente.
type ConflictError struct {
	Asset *entity.Asset // vista ya re-sincronizada (nil si el re-fetch también falló)
	Err   error         // el error tipado original del servidor
}

func (e *ConflictError) Error() string { return e.Err.Error() }

func (e *ConflictError) Unwrap() error { return e.Err }
