package assets

import (
	"context"
	"fmt"
	"sync"

	"github.com/patrimonio-cl/console-activos/internal/application/dto"
	"github.com/patrimonio-cl/console-activos/internal/domain"
	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
	"github.com/patrimonio-cl/console-activos/internal/infrastructure/api"
	"github.com/patrimonio-cl/console-activos/pkg/logger"
)

// Engine máquina de estados del ciclo de vida de un activo. Cada transición se
// valida en el cliente antes de enviarla (fallar rápido y no subir archivos en
// vano); el servidor re-valida y manda en caso de conflicto.
//
// Estados: ACTIVO (cualquier estado no terminal) y BAJA (estado BAJA o
// soft-delete). BAJA es terminal para las operaciones de avance; su única
// arista de salida es la restauración.
type Engine struct {
	api     API
	session Session
	log     *logger.Logger

	mu      sync.RWMutex
	view    map[int64]*entity.Asset
	catalog *entity.ReasonCodeCatalog
}

// NewEngine construye el motor.
func NewEngine(apiSvc API, sess Session, log *logger.Logger) *Engine {
	if log == nil {
		log = logger.Nop()
	}
	return &Engine{
		api:     apiSvc,
		session: sess,
		log:     log.Component("assets"),
		view:    make(map[int64]*entity.Asset),
	}
}

// ── Vista local ───────────────────────────────────────────────────────────────

// View devuelve la foto local del activo, si se conoce.
func (e *Engine) View(id int64) (*entity.Asset, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	a, ok := e.view[id]
	return a, ok
}

// remember reemplaza la vista local por la respuesta autoritativa del servidor.
func (e *Engine) remember(a *entity.Asset) {
	if a == nil {
		return
	}
	e.mu.Lock()
	e.view[a.ID] = a
	e.mu.Unlock()
}

// Load trae el activo del servidor y actualiza la vista local.
func (e *Engine) Load(ctx context.Context, id int64) (*entity.Asset, error) {
	a, err := e.api.GetAsset(ctx, id)
	if err != nil {
		return nil, err
	}
	e.remember(a)
	return a, nil
}

// List trae una página de activos y refresca la vista local de cada uno.
func (e *Engine) List(ctx context.Context, page dto.PageRequest) (*dto.AssetListResponse, error) {
	resp, err := e.api.ListAssets(ctx, page)
	if err != nil {
		return nil, err
	}
	for i := range resp.Items {
		a := resp.Items[i]
		e.remember(&a)
	}
	return resp, nil
}

// snapshot devuelve la vista local del activo o la trae si no se conoce.
func (e *Engine) snapshot(ctx context.Context, id int64) (*entity.Asset, error) {
	if a, ok := e.View(id); ok {
		return a, nil
	}
	return e.Load(ctx, id)
}

// ── Catálogo de motivos ───────────────────────────────────────────────────────

// ReasonCodes devuelve el catálogo de motivos, trayéndolo del servidor la
// primera vez. La UI nunca inventa códigos.
func (e *Engine) ReasonCodes(ctx context.Context) (*entity.ReasonCodeCatalog, error) {
	e.mu.RLock()
	cat := e.catalog
	e.mu.RUnlock()
	if cat != nil {
		return cat, nil
	}
	cat, err := e.api.ReasonCodes(ctx)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	e.catalog = cat
	e.mu.Unlock()
	return cat, nil
}

// checkReason valida que code pertenezca a la familia indicada del catálogo.
func (e *Engine) checkReason(ctx context.Context, family, code string) error {
	if code == "" {
		return domain.ErrReasonCodeRequired
	}
	cat, err := e.ReasonCodes(ctx)
	if err != nil {
		return err
	}
	if !cat.Contains(family, code) {
		return &domain.ValidationError{Field: "reasonCode", Message: fmt.Sprintf("el código %q no pertenece al catálogo de %s", code, family)}
	}
	return nil
}

// ── Operaciones ───────────────────────────────────────────────────────────────

// Create valida el formulario y registra el activo. El servidor asigna el
// código interno; el activo nace ACTIVO.
func (e *Engine) Create(ctx context.Context, in dto.AssetInput) (*entity.Asset, error) {
	req, err := validateAssetInput(in)
	if err != nil {
		return nil, err
	}
	a, err := e.api.CreateAsset(ctx, *req)
	if err != nil {
		return nil, err
	}
	e.remember(a)
	e.log.Info().Int64("asset_id", a.ID).Str("internal_code", a.InternalCode).Msg("activo creado")
	return a, nil
}

// Update valida el formulario y actualiza los atributos del activo.
func (e *Engine) Update(ctx context.Context, id int64, in dto.AssetInput) (*entity.Asset, error) {
	req, err := validateAssetInput(in)
	if err != nil {
		return nil, err
	}
	a, err := e.api.UpdateAsset(ctx, id, *req)
	if err != nil {
		return nil, e.reconcile(ctx, id, err)
	}
	e.remember(a)
	return a, nil
}

// Relocate mueve el activo a otra dependencia del mismo establecimiento.
// Guards: activo no dado de baja, dependencia destino distinta de la actual y
// perteneciente al mismo establecimiento. No requiere evidencia.
func (e *Engine) Relocate(ctx context.Context, id int64, to entity.Dependency) (*entity.Asset, error) {
	asset, err := e.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.IsDecommissioned() {
		return nil, domain.ErrAssetDecommissioned
	}
	if to.ID == asset.DependencyID {
		return nil, &domain.ValidationError{Field: "toDependencyId", Message: "la dependencia destino es la actual"}
	}
	if to.EstablishmentID != asset.EstablishmentID {
		return nil, &domain.ValidationError{Field: "toDependencyId", Message: "la dependencia destino pertenece a otro establecimiento; use traslado"}
	}
	updated, err := e.api.Relocate(ctx, id, to.ID)
	if err != nil {
		return nil, e.reconcile(ctx, id, err)
	}
	e.remember(updated)
	return updated, nil
}

// Transfer traslada el activo a otro establecimiento. Operación privilegiada:
// exige rol central, evidencia adjunta y motivo del catálogo de traslados.
func (e *Engine) Transfer(ctx context.Context, id int64, to entity.Dependency, in dto.TransferInput) (*entity.Asset, error) {
	if user := e.session.CurrentUser(); !user.CanTransfer() {
		return nil, fmt.Errorf("trasladar activos requiere rol central: %w", domain.ErrForbidden)
	}
	if err := validateEvidence(in.File); err != nil {
		return nil, err
	}
	asset, err := e.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.IsDecommissioned() {
		return nil, domain.ErrAssetDecommissioned
	}
	if to.EstablishmentID == asset.EstablishmentID {
		return nil, &domain.ValidationError{Field: "toEstablishmentId", Message: "el destino es el establecimiento actual; use reubicación"}
	}
	if err := e.checkReason(ctx, entity.ReasonFamilyTransfer, in.ReasonCode); err != nil {
		return nil, err
	}
	in.ToEstablishmentID = to.EstablishmentID
	in.ToDependencyID = to.ID
	updated, err := e.api.Transfer(ctx, id, in)
	if err != nil {
		return nil, e.reconcile(ctx, id, err)
	}
	e.remember(updated)
	e.log.Info().Int64("asset_id", id).Int64("to_establishment", to.EstablishmentID).Msg("activo trasladado")
	return updated, nil
}

// ChangeStatus cambia el estado del activo; si el destino es BAJA el activo
// queda dado de baja. Exige evidencia y motivo del catálogo de cambios de estado.
func (e *Engine) ChangeStatus(ctx context.Context, id int64, in dto.StatusChangeInput) (*entity.Asset, error) {
	if err := validateEvidence(in.File); err != nil {
		return nil, err
	}
	asset, err := e.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.IsDecommissioned() {
		return nil, domain.ErrAssetDecommissioned
	}
	if in.AssetStateID == asset.State.ID {
		return nil, &domain.ValidationError{Field: "assetStateId", Message: "el activo ya está en ese estado"}
	}
	if err := e.checkReason(ctx, entity.ReasonFamilyStatusChange, in.ReasonCode); err != nil {
		return nil, err
	}
	updated, err := e.api.ChangeStatus(ctx, id, in)
	if err != nil {
		return nil, e.reconcile(ctx, id, err)
	}
	e.remember(updated)
	if updated.IsDecommissioned() {
		e.log.Info().Int64("asset_id", id).Msg("activo dado de baja")
	}
	return updated, nil
}

// Restore reactiva un activo dado de baja: limpia el soft-delete y vuelve a
// ACTIVO. Solo procede desde BAJA; exige evidencia y motivo del catálogo de
// restauraciones.
func (e *Engine) Restore(ctx context.Context, id int64, in dto.RestoreInput) (*entity.Asset, error) {
	if err := validateEvidence(in.File); err != nil {
		return nil, err
	}
	asset, err := e.snapshot(ctx, id)
	if err != nil {
		return nil, err
	}
	if !asset.IsDecommissioned() {
		return nil, domain.ErrAssetActive
	}
	if err := e.checkReason(ctx, entity.ReasonFamilyRestore, in.ReasonCode); err != nil {
		return nil, err
	}
	updated, err := e.api.Restore(ctx, id, in)
	if err != nil {
		return nil, e.reconcile(ctx, id, err)
	}
	e.remember(updated)
	e.log.Info().Int64("asset_id", id).Msg("activo restaurado")
	return updated, nil
}

// ── Conflictos ────────────────────────────────────────────────────────────────

// reconcile aplica la política de conflicto: ante un 409 se trae la foto
// autoritativa, se reemplaza la vista local y se devuelve el error con esa
// foto para que el operador re-evalúe. Nunca merge automático: el dominio
// (activos físicos con traza legal) lo prohíbe.
func (e *Engine) reconcile(ctx context.Context, id int64, err error) error {
	if !api.IsConflict(err) {
		return err
	}
	fresh, ferr := e.api.GetAsset(ctx, id)
	if ferr != nil {
		e.log.Warn().Err(ferr).Int64("asset_id", id).Msg("no se pudo re-sincronizar tras el conflicto")
		return &ConflictError{Err: err}
	}
	e.remember(fresh)
	e.log.Info().Int64("asset_id", id).Msg("conflicto 409: vista local re-sincronizada")
	return &ConflictError{Asset: fresh, Err: err}
}
