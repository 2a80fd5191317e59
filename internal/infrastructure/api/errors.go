package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Códigos de error del servicio remoto. La clasificación se hace una sola vez
// aquí; el resto de la aplicación consume el error tipado y nunca vuelve a
// interpretar códigos HTTP crudos.
const (
	CodeBadRequest           = "BAD_REQUEST"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodeForbidden            = "FORBIDDEN"
	CodeNotFound             = "NOT_FOUND"
	CodeConflict             = "CONFLICT"
	CodePayloadTooLarge      = "PAYLOAD_TOO_LARGE"
	CodeUnsupportedMediaType = "UNSUPPORTED_MEDIA_TYPE"
	CodeRateLimited          = "RATE_LIMITED"
	CodeInternalServerError  = "INTERNAL_SERVER_ERROR"
	CodeNetworkError         = "NETWORK_ERROR"
)

// mensajes tabla estática código → mensaje para el operador.
var mensajes = map[string]string{
	CodeBadRequest:           "La solicitud contiene datos inválidos",
	CodeUnauthorized:         "La sesión expiró; vuelva a iniciar sesión",
	CodeForbidden:            "No tiene permisos para esta operación",
	CodeNotFound:             "El recurso solicitado ya no existe",
	CodeConflict:             "Otro operador modificó el registro; revise y reintente",
	CodePayloadTooLarge:      "El archivo adjunto excede el tamaño permitido",
	CodeUnsupportedMediaType: "El tipo de archivo adjunto no está permitido",
	CodeRateLimited:          "Demasiadas solicitudes; espere un momento",
	CodeInternalServerError:  "Error del servidor; intente nuevamente más tarde",
	CodeNetworkError:         "No se pudo contactar al servidor; revise su conexión",
}

// Error error tipado de la capa de red: mensaje para el operador más el
// detalle técnico (código, request id, detalles crudos) para soporte.
type Error struct {
	Status    int    `json:"status"`
	Code      string `json:"code"`
	Message   string `json:"message"`
	RequestID string `json:"requestId,omitempty"`
	Details   any    `json:"details,omitempty"`
}

func (e *Error) Error() string { return e.Message }

// codeFromStatus deriva el código cuando el cuerpo del servidor no trae uno.
func codeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return CodeBadRequest
	case http.StatusUnauthorized:
		return CodeUnauthorized
	case http.StatusForbidden:
		return CodeForbidden
	case http.StatusNotFound:
		return CodeNotFound
	case http.StatusConflict:
		return CodeConflict
	case http.StatusRequestEntityTooLarge:
		return CodePayloadTooLarge
	case http.StatusUnsupportedMediaType:
		return CodeUnsupportedMediaType
	case http.StatusTooManyRequests:
		return CodeRateLimited
	}
	if status >= 500 {
		return CodeInternalServerError
	}
	return fmt.Sprintf("HTTP_%d", status)
}

// resolveMessage aplica la cadena de resolución: tabla estática → mensaje del
// servidor → "HTTP <status>"; con el request id entre paréntesis si existe.
func resolveMessage(code, serverMessage, requestID string, status int) string {
	msg, ok := mensajes[code]
	if !ok {
		msg = serverMessage
	}
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	if requestID != "" {
		msg = fmt.Sprintf("%s (%s)", msg, requestID)
	}
	return msg
}

// newError construye el error tipado a partir de lo que entregó el servidor.
func newError(status int, code, serverMessage, requestID string, details any) *Error {
	if code == "" {
		code = codeFromStatus(status)
	}
	return &Error{
		Status:    status,
		Code:      code,
		Message:   resolveMessage(code, serverMessage, requestID, status),
		RequestID: requestID,
		Details:   details,
	}
}

// AsError extrae el *Error tipado de una cadena de errores, si lo hay.
func AsError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsCode indica si err es un error tipado con el código dado.
func IsCode(err error, code string) bool {
	if apiErr, ok := AsError(err); ok {
		return apiErr.Code == code
	}
	return false
}

// Predicados por categoría de la taxonomía.
func IsUnauthorized(err error) bool { return IsCode(err, CodeUnauthorized) }
func IsForbidden(err error) bool    { return IsCode(err, CodeForbidden) }
func IsNotFound(err error) bool     { return IsCode(err, CodeNotFound) }
func IsConflict(err error) bool     { return IsCode(err, CodeConflict) }
