package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrForbidden           = errors.New("acceso denegado")
	ErrConflict            = errors.New("conflicto con el estado actual")
	ErrAssetDecommissioned = errors.New("el activo está dado de baja")
	ErrAssetActive         = errors.New("el activo no está dado de baja")
	ErrEvidenceRequired    = errors.New("se requiere un archivo de evidencia")
	ErrReasonCodeRequired  = errors.New("se requiere un código de motivo del catálogo")
	ErrSessionExpired      = errors.New("la sesión expiró y no pudo renovarse")
)

// ValidationError error de validación local asociado a un campo del formulario.
// Se produce antes de cualquier llamada de red.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// ValidationErrors agrupa los errores de todos los campos inválidos de un envío.
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	parts := make([]string, len(ve))
	for i, e := range ve {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

func (ve ValidationErrors) Unwrap() error { return ErrInvalidInput }

// FieldError devuelve el error del campo indicado, o nil si el campo es válido.
func (ve ValidationErrors) FieldError(field string) *ValidationError {
	for _, e := range ve {
		if e.Field == field {
			return e
		}
	}
	return nil
}
