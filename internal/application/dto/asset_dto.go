package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
)

// ResponsibleInput bloque opcional de responsable tal como llega del formulario.
type ResponsibleInput struct {
	Name       string `json:"name"`
	RUT        string `json:"rut"`
	Role       string `json:"role"`
	CostCenter string `json:"costCenter"`
}

// AssetInput campos del formulario de creación/edición de un activo. Los
// numéricos llegan como texto (así los entrega la pantalla) y se validan y
// convierten en el cliente antes de armar el payload.
type AssetInput struct {
	EstablishmentID   int64             `json:"establishmentId"`
	DependencyID      int64             `json:"dependencyId"`
	AssetTypeID       int64             `json:"assetTypeId"`
	AssetStateID      int64             `json:"assetStateId"`
	Name              string            `json:"name"`
	CatalogItemID     *int64            `json:"catalogItemId,omitempty"`
	Quantity          string            `json:"quantity"`
	AccountingAccount string            `json:"accountingAccount"`
	AcquisitionValue  string            `json:"acquisitionValue"`
	AcquisitionDate   string            `json:"acquisitionDate"` // YYYY-MM-DD
	Responsible       *ResponsibleInput `json:"responsible,omitempty"`
}

// CreateAssetRequest payload ya validado para POST /assets y PUT /assets/{id}.
type CreateAssetRequest struct {
	EstablishmentID   int64                    `json:"establishmentId"`
	DependencyID      int64                    `json:"dependencyId"`
	AssetTypeID       int64                    `json:"assetTypeId"`
	AssetStateID      int64                    `json:"assetStateId"`
	Name              string                   `json:"name,omitempty"`
	CatalogItemID     *int64                   `json:"catalogItemId,omitempty"`
	Quantity          int                      `json:"quantity"`
	AccountingAccount string                   `json:"accountingAccount"`
	AcquisitionValue  decimal.Decimal          `json:"acquisitionValue"`
	AcquisitionDate   time.Time                `json:"acquisitionDate"`
	Responsible       *entity.ResponsibleParty `json:"responsible,omitempty"`
}

// RelocateRequest payload de PUT /assets/{id}/relocate.
type RelocateRequest struct {
	ToDependencyID int64 `json:"toDependencyId"`
}

// TransferInput entrada del traslado entre establecimientos (multipart).
type TransferInput struct {
	ToEstablishmentID int64
	ToDependencyID    int64
	ReasonCode        string
	DocType           string
	Note              string
	File              *entity.EvidenceFile
}

// StatusChangeInput entrada del cambio de estado (multipart).
type StatusChangeInput struct {
	AssetStateID int64
	ReasonCode   string
	DocType      string
	Note         string
	File         *entity.EvidenceFile
}

// RestoreInput entrada de la restauración de un activo dado de baja (multipart).
type RestoreInput struct {
	ReasonCode string
	DocType    string
	Note       string
	File       *entity.EvidenceFile
}

// AssetListResponse página de activos.
type AssetListResponse struct {
	Items []entity.Asset `json:"items"`
	Page  PageResponse   `json:"page"`
}
