package forcedelete

import (
	"context"
	"errors"
	"net/http"

	"github.com/patrimonio-cl/console-activos/pkg/logger"
)

// FallbackPhrase frase de confirmación si el servidor no emite una propia.
const FallbackPhrase = "ELIMINAR DEFINITIVAMENTE"

var (
	// ErrNotOpen la fase de confirmación requiere haber abierto el flujo.
	ErrNotOpen = errors.New("force-delete: el flujo no está abierto")
	// ErrMismatch el texto tipeado no coincide con la frase del servidor.
	// Se falla localmente: jamás se emite el DELETE con una frase distinta.
	ErrMismatch = errors.New("force-delete: el texto de confirmación no coincide")
)

// Client subconjunto del invocador que necesita el flujo.
type Client interface {
	Request(ctx context.Context, method, path string, body, out any) error
}

// ReloadFunc recarga el listado de la entidad tras el borrado.
type ReloadFunc func(ctx context.Context) error

// Target parametriza el flujo para una clase de entidad: par de rutas más la
// recarga. Un único flujo genérico sirve a las seis clases; nada aquí conoce
// la entidad concreta.
type Target struct {
	Kind        string
	SummaryPath string
	ForcePath   string
	Reload      ReloadFunc
}

// Summary resumen de dependencias calculado por el servidor más la frase de
// confirmación de un solo uso.
type Summary struct {
	Summary          map[string]int `json:"summary"`
	ConfirmationText string         `json:"confirmationText"`
}

// confirmRequest cuerpo del DELETE: el servidor valida la frase de nuevo
// (defensa en profundidad).
type confirmRequest struct {
	ConfirmationText string `json:"confirmationText"`
}

// Flow flujo de borrado definitivo en dos fases: resumen + confirmación tipeada.
type Flow struct {
	client Client
	target Target
	log    *logger.Logger

	summary *Summary
	phrase  string
	open    bool
}

// New construye el flujo para un target.
func New(client Client, target Target, log *logger.Logger) *Flow {
	if log == nil {
		log = logger.Nop()
	}
	return &Flow{client: client, target: target, log: log.Component("forcedelete")}
}

// Open fase 1: trae el resumen de dependencias y guarda la frase de
// confirmación. Si el fetch falla, el flujo queda cerrado y se reporta el error.
func (f *Flow) Open(ctx context.Context) (*Summary, error) {
	var s Summary
	if err := f.client.Request(ctx, http.MethodGet, f.target.SummaryPath, nil, &s); err != nil {
		f.open = false
		return nil, err
	}
	f.summary = &s
	f.phrase = s.ConfirmationText
	if f.phrase == "" {
		f.phrase = FallbackPhrase
	}
	f.open = true
	return &s, nil
}

// Confirm fase 2: exige que el texto tipeado sea idéntico a la frase
// (sensible a mayúsculas y espacios). Con la frase correcta emite el DELETE
// llevando el texto para la segunda verificación del servidor. Si el DELETE
// falla, el flujo sigue abierto para reintentar sin re-consultar el resumen.
func (f *Flow) Confirm(ctx context.Context, typed string) error {
	if !f.open {
		return ErrNotOpen
	}
	if typed != f.phrase {
		return ErrMismatch
	}
	if err := f.client.Request(ctx, http.MethodDelete, f.target.ForcePath, confirmRequest{ConfirmationText: typed}, nil); err != nil {
		return err
	}
	f.open = false
	f.summary = nil
	f.log.Info().Str("kind", f.target.Kind).Str("path", f.target.ForcePath).Msg("borrado definitivo ejecutado")
	if f.target.Reload != nil {
		if err := f.target.Reload(ctx); err != nil {
			return err
		}
	}
	return nil
}

// IsOpen indica si la fase de confirmación está disponible.
func (f *Flow) IsOpen() bool { return f.open }

// Summary devuelve el resumen traído en Open (nil si el flujo está cerrado).
func (f *Flow) CurrentSummary() *Summary { return f.summary }

// Cancel cierra el flujo sin borrar.
func (f *Flow) Cancel() {
	f.open = false
	f.summary = nil
}
