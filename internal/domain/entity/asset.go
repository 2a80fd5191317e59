package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetStateBaja nombre del estado terminal de baja. Un activo en BAJA (o con
// soft-delete) solo admite la operación de restauración.
const AssetStateBaja = "BAJA"

// AssetState estado operativo de un activo según el catálogo del servidor.
type AssetState struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// IsBaja indica si el estado corresponde a la baja definitiva.
func (s AssetState) IsBaja() bool { return s.Name == AssetStateBaja }

// ResponsibleParty responsable asignado a un activo (opcional).
type ResponsibleParty struct {
	Name       string `json:"name"`
	RUT        string `json:"rut"` // normalizado: \d{7,8}-[\dK]
	Role       string `json:"role"`
	CostCenter string `json:"costCenter"`
}

// Asset activo físico del inventario. El ID es numérico; InternalCode es el
// código interno visible para el operador y lo asigna el servidor al crear.
type Asset struct {
	ID                int64             `json:"id"`
	InternalCode      string            `json:"internalCode"`
	EstablishmentID   int64             `json:"establishmentId"`
	DependencyID      int64             `json:"dependencyId"`
	AssetTypeID       int64             `json:"assetTypeId"`
	State             AssetState        `json:"state"`
	Name              string            `json:"name"`
	Quantity          int               `json:"quantity"`
	CatalogItemID     *int64            `json:"catalogItemId,omitempty"`
	Responsible       *ResponsibleParty `json:"responsible,omitempty"`
	AccountingAccount string            `json:"accountingAccount"`
	AcquisitionValue  decimal.Decimal   `json:"acquisitionValue"`
	AcquisitionDate   time.Time         `json:"acquisitionDate"`
	Deleted           bool              `json:"deleted"`
	DeletedAt         *time.Time        `json:"deletedAt,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// IsDecommissioned indica si el activo está dado de baja: estado BAJA o
// flag de soft-delete. Un activo dado de baja no acepta reubicación,
// traslado ni cambio de estado; solo restauración.
func (a *Asset) IsDecommissioned() bool {
	return a.Deleted || a.State.IsBaja()
}
