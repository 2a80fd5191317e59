package assets_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/patrimonio-cl/console-activos/internal/application/assets"
	"github.com/patrimonio-cl/console-activos/internal/application/dto"
	"github.com/patrimonio-cl/console-activos/internal/domain"
	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
	"github.com/patrimonio-cl/console-activos/internal/infrastructure/api"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeAPI implementa assets.API con respuestas programadas y registro de llamadas.
type fakeAPI struct {
	calls []string

	assets  map[int64]*entity.Asset
	catalog *entity.ReasonCodeCatalog

	createResp   *entity.Asset
	relocateResp *entity.Asset
	transferResp *entity.Asset
	statusResp   *entity.Asset
	restoreResp  *entity.Asset

	relocateErr error
	transferErr error
	statusErr   error
	restoreErr  error
	updateErr   error

	lastCreate dto.CreateAssetRequest
}

func (f *fakeAPI) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeAPI) count(name string) int {
	n := 0
	for _, c := range f.calls {
		if c == name {
			n++
		}
	}
	return n
}

func (f *fakeAPI) CreateAsset(ctx context.Context, req dto.CreateAssetRequest) (*entity.Asset, error) {
	f.record("create")
	f.lastCreate = req
	return f.createResp, nil
}

func (f *fakeAPI) UpdateAsset(ctx context.Context, id int64, req dto.CreateAssetRequest) (*entity.Asset, error) {
	f.record("update")
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.assets[id], nil
}

func (f *fakeAPI) GetAsset(ctx context.Context, id int64) (*entity.Asset, error) {
	f.record("get")
	a, ok := f.assets[id]
	if !ok {
		return nil, &api.Error{Status: 404, Code: api.CodeNotFound, Message: "no existe"}
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAPI) ListAssets(ctx context.Context, page dto.PageRequest) (*dto.AssetListResponse, error) {
	f.record("list")
	out := &dto.AssetListResponse{}
	for _, a := range f.assets {
		out.Items = append(out.Items, *a)
	}
	return out, nil
}

func (f *fakeAPI) Relocate(ctx context.Context, id, toDependencyID int64) (*entity.Asset, error) {
	f.record("relocate")
	if f.relocateErr != nil {
		return nil, f.relocateErr
	}
	return f.relocateResp, nil
}

func (f *fakeAPI) Transfer(ctx context.Context, id int64, in dto.TransferInput) (*entity.Asset, error) {
	f.record("transfer")
	if f.transferErr != nil {
		return nil, f.transferErr
	}
	return f.transferResp, nil
}

func (f *fakeAPI) ChangeStatus(ctx context.Context, id int64, in dto.StatusChangeInput) (*entity.Asset, error) {
	f.record("status")
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	return f.statusResp, nil
}

func (f *fakeAPI) Restore(ctx context.Context, id int64, in dto.RestoreInput) (*entity.Asset, error) {
	f.record("restore")
	if f.restoreErr != nil {
		return nil, f.restoreErr
	}
	return f.restoreResp, nil
}

func (f *fakeAPI) ReasonCodes(ctx context.Context) (*entity.ReasonCodeCatalog, error) {
	f.record("reason-codes")
	return f.catalog, nil
}

type fakeSession struct {
	user *entity.User
}

func (f *fakeSession) CurrentUser() *entity.User { return f.user }

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func defaultCatalog() *entity.ReasonCodeCatalog {
	return &entity.ReasonCodeCatalog{
		Transfer:     []entity.ReasonCode{{Code: "TRASLADO_PROGRAMADO", Label: "Traslado programado"}},
		StatusChange: []entity.ReasonCode{{Code: "OBSOLETO", Label: "Obsolescencia"}, {Code: "DETERIORO", Label: "Deterioro"}},
		Restore:      []entity.ReasonCode{{Code: "ERROR_BAJA", Label: "Baja por error"}},
	}
}

func activeAsset(id int64) *entity.Asset {
	return &entity.Asset{
		ID:              id,
		InternalCode:    "INV-0042",
		EstablishmentID: 10,
		DependencyID:    100,
		AssetTypeID:     3,
		State:           entity.AssetState{ID: 1, Name: "OPERATIVO"},
		Quantity:        1,
	}
}

func bajaAsset(id int64) *entity.Asset {
	a := activeAsset(id)
	a.State = entity.AssetState{ID: 7, Name: entity.AssetStateBaja}
	a.Deleted = true
	return a
}

func pdfFile() *entity.EvidenceFile {
	return &entity.EvidenceFile{Name: "acta.pdf", Content: []byte("%PDF-1.4")}
}

func newEngine(t *testing.T, f *fakeAPI, role string) *assets.Engine {
	t.Helper()
	if f.catalog == nil {
		f.catalog = defaultCatalog()
	}
	sess := &fakeSession{user: &entity.User{ID: "u1", Role: role}}
	return assets.NewEngine(f, sess, nil)
}

func validInput() dto.AssetInput {
	return dto.AssetInput{
		EstablishmentID:   10,
		DependencyID:      100,
		AssetTypeID:       3,
		AssetStateID:      1,
		Name:              "Notebook",
		Quantity:          "3",
		AccountingAccount: "1401-01",
		AcquisitionValue:  "1000",
		AcquisitionDate:   "2024-01-10",
	}
}

// ──────────────────────────────────────────────────────────────────────────────
// Creación
// ──────────────────────────────────────────────────────────────────────────────

func TestCreate_CantidadCeroFallaLocalmenteSinRed(t *testing.T) {
	f := &fakeAPI{}
	e := newEngine(t, f, entity.RoleOperador)

	in := validInput()
	in.Quantity = "0"

	_, err := e.Create(context.Background(), in)

	require.Error(t, err)
	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs), "debe ser un error de validación local")
	require.NotNil(t, errs.FieldError("quantity"), "el campo en falta es quantity")
	assert.Empty(t, f.calls, "con validación fallida no se toca la red")
}

func TestCreate_FormularioValidoCreaActivoActivo(t *testing.T) {
	created := activeAsset(42)
	f := &fakeAPI{createResp: created}
	e := newEngine(t, f, entity.RoleOperador)

	a, err := e.Create(context.Background(), validInput())

	require.NoError(t, err)
	assert.Equal(t, "INV-0042", a.InternalCode, "el código interno lo asigna el servidor")
	assert.False(t, a.IsDecommissioned(), "el activo nace ACTIVO")

	assert.Equal(t, 3, f.lastCreate.Quantity)
	assert.True(t, f.lastCreate.AcquisitionValue.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "2024-01-10", f.lastCreate.AcquisitionDate.Format("2006-01-02"))

	// La vista local queda poblada con la respuesta autoritativa.
	v, ok := e.View(42)
	require.True(t, ok)
	assert.Equal(t, created.ID, v.ID)
}

func TestCreate_SinCatalogoNiNombreFalla(t *testing.T) {
	f := &fakeAPI{}
	e := newEngine(t, f, entity.RoleOperador)

	in := validInput()
	in.Name = ""
	in.CatalogItemID = nil

	_, err := e.Create(context.Background(), in)
	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.NotNil(t, errs.FieldError("name"))
	assert.Empty(t, f.calls)
}

func TestCreate_RUTInvalidoDelResponsableFalla(t *testing.T) {
	f := &fakeAPI{}
	e := newEngine(t, f, entity.RoleOperador)

	in := validInput()
	in.Responsible = &dto.ResponsibleInput{Name: "Juana Soto", RUT: "12.345.678-0"} // DV correcto es 5

	_, err := e.Create(context.Background(), in)
	var errs domain.ValidationErrors
	require.True(t, errors.As(err, &errs))
	assert.NotNil(t, errs.FieldError("responsible.rut"))
	assert.Empty(t, f.calls)
}

func TestCreate_RUTValidoSeNormaliza(t *testing.T) {
	f := &fakeAPI{createResp: activeAsset(1)}
	e := newEngine(t, f, entity.RoleOperador)

	in := validInput()
	in.Responsible = &dto.ResponsibleInput{Name: "Juana Soto", RUT: "12.345.678-5"}

	_, err := e.Create(context.Background(), in)
	require.NoError(t, err)
	require.NotNil(t, f.lastCreate.Responsible)
	assert.Equal(t, "12345678-5", f.lastCreate.Responsible.RUT)
}

// ──────────────────────────────────────────────────────────────────────────────
// Guards de evidencia y de estado terminal
// ──────────────────────────────────────────────────────────────────────────────

func TestOperacionesConEvidencia_SinArchivoFallanSinRed(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1), 2: bajaAsset(2)}}
	e := newEngine(t, f, entity.RoleCentral)
	ctx := context.Background()

	_, err := e.Transfer(ctx, 1, entity.Dependency{ID: 200, EstablishmentID: 20}, dto.TransferInput{ReasonCode: "TRASLADO_PROGRAMADO"})
	assert.ErrorIs(t, err, domain.ErrEvidenceRequired, "traslado sin archivo")

	_, err = e.ChangeStatus(ctx, 1, dto.StatusChangeInput{AssetStateID: 7, ReasonCode: "OBSOLETO"})
	assert.ErrorIs(t, err, domain.ErrEvidenceRequired, "cambio de estado sin archivo")

	_, err = e.Restore(ctx, 2, dto.RestoreInput{ReasonCode: "ERROR_BAJA"})
	assert.ErrorIs(t, err, domain.ErrEvidenceRequired, "restauración sin archivo")

	assert.Empty(t, f.calls, "el guard de evidencia corre antes de cualquier llamada")
}

func TestOperacionesConEvidencia_ExtensionNoPermitidaFalla(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleCentral)

	_, err := e.ChangeStatus(context.Background(), 1, dto.StatusChangeInput{
		AssetStateID: 7,
		ReasonCode:   "OBSOLETO",
		DocType:      entity.DocTypeActa,
		File:         &entity.EvidenceFile{Name: "evidencia.exe", Content: []byte("MZ")},
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "file", verr.Field)
	assert.Empty(t, f.calls)
}

func TestActivoDadoDeBaja_RechazaOperacionesDeAvance(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{2: bajaAsset(2)}}
	e := newEngine(t, f, entity.RoleCentral)
	ctx := context.Background()

	_, err := e.Load(ctx, 2)
	require.NoError(t, err)
	f.calls = nil

	_, err = e.Relocate(ctx, 2, entity.Dependency{ID: 101, EstablishmentID: 10})
	assert.ErrorIs(t, err, domain.ErrAssetDecommissioned, "reubicar un activo en BAJA")

	_, err = e.Transfer(ctx, 2, entity.Dependency{ID: 200, EstablishmentID: 20}, dto.TransferInput{
		ReasonCode: "TRASLADO_PROGRAMADO", DocType: entity.DocTypeActa, File: pdfFile(),
	})
	assert.ErrorIs(t, err, domain.ErrAssetDecommissioned, "trasladar un activo en BAJA")

	_, err = e.ChangeStatus(ctx, 2, dto.StatusChangeInput{
		AssetStateID: 1, ReasonCode: "OBSOLETO", DocType: entity.DocTypeActa, File: pdfFile(),
	})
	assert.ErrorIs(t, err, domain.ErrAssetDecommissioned, "cambiar estado de un activo en BAJA")

	assert.Zero(t, f.count("relocate")+f.count("transfer")+f.count("status"),
		"ninguna operación de avance debe llegar a la red")
}

// ──────────────────────────────────────────────────────────────────────────────
// Reubicación
// ──────────────────────────────────────────────────────────────────────────────

func TestRelocate_MismaDependenciaSeRechazaAntesDeEnviar(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleOperador)

	_, err := e.Relocate(context.Background(), 1, entity.Dependency{ID: 100, EstablishmentID: 10})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "toDependencyId", verr.Field)
	assert.Zero(t, f.count("relocate"))
}

func TestRelocate_OtroEstablecimientoSeRechaza(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleOperador)

	_, err := e.Relocate(context.Background(), 1, entity.Dependency{ID: 300, EstablishmentID: 99})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Message, "traslado", "debe orientar al operador hacia la operación correcta")
	assert.Zero(t, f.count("relocate"))
}

func TestRelocate_ValidoActualizaLaVista(t *testing.T) {
	moved := activeAsset(1)
	moved.DependencyID = 101
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}, relocateResp: moved}
	e := newEngine(t, f, entity.RoleOperador)

	a, err := e.Relocate(context.Background(), 1, entity.Dependency{ID: 101, EstablishmentID: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(101), a.DependencyID)

	v, _ := e.View(1)
	assert.Equal(t, int64(101), v.DependencyID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Traslado
// ──────────────────────────────────────────────────────────────────────────────

func TestTransfer_RolNoCentralSeRechazaSinRed(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleOperador)

	_, err := e.Transfer(context.Background(), 1, entity.Dependency{ID: 200, EstablishmentID: 20}, dto.TransferInput{
		ReasonCode: "TRASLADO_PROGRAMADO", DocType: entity.DocTypeActa, File: pdfFile(),
	})

	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.Empty(t, f.calls, "sin rol central no se envía nada")
}

func TestTransfer_CodigoDeOtraFamiliaSeRechaza(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleCentral)

	_, err := e.Transfer(context.Background(), 1, entity.Dependency{ID: 200, EstablishmentID: 20}, dto.TransferInput{
		ReasonCode: "OBSOLETO", // pertenece a cambios de estado, no a traslados
		DocType:    entity.DocTypeActa,
		File:       pdfFile(),
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "reasonCode", verr.Field)
	assert.Zero(t, f.count("transfer"))
}

func TestTransfer_ValidoCompletaDestinoYActualizaVista(t *testing.T) {
	moved := activeAsset(1)
	moved.EstablishmentID = 20
	moved.DependencyID = 200
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}, transferResp: moved}
	e := newEngine(t, f, entity.RoleCentral)

	a, err := e.Transfer(context.Background(), 1, entity.Dependency{ID: 200, EstablishmentID: 20}, dto.TransferInput{
		ReasonCode: "TRASLADO_PROGRAMADO", DocType: entity.DocTypeActa, File: pdfFile(),
	})

	require.NoError(t, err)
	assert.Equal(t, int64(20), a.EstablishmentID)
	v, _ := e.View(1)
	assert.Equal(t, int64(200), v.DependencyID)
}

// ──────────────────────────────────────────────────────────────────────────────
// Cambio de estado y baja
// ──────────────────────────────────────────────────────────────────────────────

func TestChangeStatus_MismoEstadoSeRechaza(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleOperador)

	_, err := e.ChangeStatus(context.Background(), 1, dto.StatusChangeInput{
		AssetStateID: 1, ReasonCode: "DETERIORO", DocType: entity.DocTypeActa, File: pdfFile(),
	})

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, "assetStateId", verr.Field)
	assert.Zero(t, f.count("status"))
}

func TestChangeStatus_BajaDejaElActivoTerminal(t *testing.T) {
	f := &fakeAPI{
		assets:     map[int64]*entity.Asset{42: activeAsset(42)},
		statusResp: bajaAsset(42),
	}
	e := newEngine(t, f, entity.RoleOperador)
	ctx := context.Background()

	a, err := e.ChangeStatus(ctx, 42, dto.StatusChangeInput{
		AssetStateID: 7, // BAJA
		ReasonCode:   "OBSOLETO",
		DocType:      entity.DocTypeActa,
		File:         pdfFile(),
	})
	require.NoError(t, err)
	assert.True(t, a.IsDecommissioned(), "con destino BAJA el activo queda dado de baja")

	// La reubicación posterior del #42 debe morir antes de enviarse.
	f.calls = nil
	_, err = e.Relocate(ctx, 42, entity.Dependency{ID: 101, EstablishmentID: 10})
	assert.ErrorIs(t, err, domain.ErrAssetDecommissioned)
	assert.Zero(t, f.count("relocate"))
}

// ──────────────────────────────────────────────────────────────────────────────
// Restauración y conflicto 409
// ──────────────────────────────────────────────────────────────────────────────

func TestRestore_SobreActivoVigenteSeRechaza(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleOperador)

	_, err := e.Restore(context.Background(), 1, dto.RestoreInput{
		ReasonCode: "ERROR_BAJA", DocType: entity.DocTypeActa, File: pdfFile(),
	})

	assert.ErrorIs(t, err, domain.ErrAssetActive)
	assert.Zero(t, f.count("restore"))
}

func TestRestore_ValidoVuelveAActivo(t *testing.T) {
	restored := activeAsset(2)
	f := &fakeAPI{assets: map[int64]*entity.Asset{2: bajaAsset(2)}, restoreResp: restored}
	e := newEngine(t, f, entity.RoleOperador)

	a, err := e.Restore(context.Background(), 2, dto.RestoreInput{
		ReasonCode: "ERROR_BAJA", DocType: entity.DocTypeActa, File: pdfFile(),
	})
	require.NoError(t, err)
	assert.False(t, a.IsDecommissioned())
	assert.False(t, a.Deleted, "la restauración limpia el soft-delete")
}

func TestRestore_RepetidoRecibe409YReemplazaLaVista(t *testing.T) {
	// La vista local cree que el activo sigue en BAJA, pero otro actor ya lo
	// restauró: el servidor responde 409 y el motor re-sincroniza, sin
	// aplicar una segunda restauración.
	f := &fakeAPI{
		assets: map[int64]*entity.Asset{2: bajaAsset(2)},
	}
	e := newEngine(t, f, entity.RoleOperador)
	_, err := e.Load(context.Background(), 2)
	require.NoError(t, err)

	f.assets[2] = activeAsset(2) // estado autoritativo ya restaurado
	f.restoreErr = &api.Error{Status: 409, Code: api.CodeConflict, Message: "el activo ya fue restaurado"}

	_, err = e.Restore(context.Background(), 2, dto.RestoreInput{
		ReasonCode: "ERROR_BAJA", DocType: entity.DocTypeActa, File: pdfFile(),
	})

	require.Error(t, err)
	var conflict *assets.ConflictError
	require.True(t, errors.As(err, &conflict), "el 409 debe exponerse como ConflictError")
	require.NotNil(t, conflict.Asset, "el conflicto lleva la foto re-sincronizada")
	assert.False(t, conflict.Asset.IsDecommissioned())
	assert.True(t, api.IsConflict(err), "la taxonomía original sigue visible vía Unwrap")

	v, ok := e.View(2)
	require.True(t, ok)
	assert.False(t, v.IsDecommissioned(), "la vista local fue reemplazada por la autoritativa")
	assert.Equal(t, 1, f.count("restore"), "jamás se reintenta la mutación automáticamente")
}

func TestTransfer_409SinReFetchExitosoIgualSurfaceaElConflicto(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{1: activeAsset(1)}}
	e := newEngine(t, f, entity.RoleCentral)
	_, err := e.Load(context.Background(), 1)
	require.NoError(t, err)

	f.transferErr = &api.Error{Status: 409, Code: api.CodeConflict, Message: "conflicto"}
	delete(f.assets, 1) // el re-fetch devolverá 404

	_, err = e.Transfer(context.Background(), 1, entity.Dependency{ID: 200, EstablishmentID: 20}, dto.TransferInput{
		ReasonCode: "TRASLADO_PROGRAMADO", DocType: entity.DocTypeActa, File: pdfFile(),
	})

	var conflict *assets.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Nil(t, conflict.Asset, "sin re-fetch posible el conflicto viaja sin foto")
}

// ──────────────────────────────────────────────────────────────────────────────
// Catálogo de motivos
// ──────────────────────────────────────────────────────────────────────────────

func TestReasonCodes_SeCacheanTrasLaPrimeraLlamada(t *testing.T) {
	f := &fakeAPI{}
	e := newEngine(t, f, entity.RoleOperador)

	_, err := e.ReasonCodes(context.Background())
	require.NoError(t, err)
	_, err = e.ReasonCodes(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, f.count("reason-codes"))
}

func TestCheckReason_SinCodigoEsError(t *testing.T) {
	f := &fakeAPI{assets: map[int64]*entity.Asset{2: bajaAsset(2)}}
	e := newEngine(t, f, entity.RoleOperador)

	_, err := e.Restore(context.Background(), 2, dto.RestoreInput{
		DocType: entity.DocTypeActa, File: pdfFile(),
	})
	assert.ErrorIs(t, err, domain.ErrReasonCodeRequired)
	assert.Zero(t, f.count("restore"))
}
