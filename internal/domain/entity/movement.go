package entity

import "time"

// Tipos de movimiento del ciclo de vida de un activo.
const (
	MovementTypeRELOCATION     = "RELOCATION"      // reubicación entre dependencias del mismo establecimiento
	MovementTypeTRANSFER       = "TRANSFER"        // traslado entre establecimientos
	MovementTypeSTATUSCHANGE   = "STATUS_CHANGE"   // cambio de estado (incluye baja)
	MovementTypeINVENTORYCHECK = "INVENTORY_CHECK" // verificación de inventario / restauración
)

// Movement registro inmutable de una transición del ciclo de vida.
// Esta capa solo crea movimientos; nunca los edita ni los elimina.
type Movement struct {
	ID                  int64      `json:"id"`
	AssetID             int64      `json:"assetId"`
	Type                string     `json:"type"`
	ReasonCode          string     `json:"reasonCode"`
	FromEstablishmentID *int64     `json:"fromEstablishmentId,omitempty"`
	ToEstablishmentID   *int64     `json:"toEstablishmentId,omitempty"`
	FromDependencyID    *int64     `json:"fromDependencyId,omitempty"`
	ToDependencyID      *int64     `json:"toDependencyId,omitempty"`
	FromStateID         *int64     `json:"fromStateId,omitempty"`
	ToStateID           *int64     `json:"toStateId,omitempty"`
	EvidenceID          *int64     `json:"evidenceId,omitempty"`
	Note                string     `json:"note,omitempty"`
	CreatedAt           time.Time  `json:"createdAt"`
	CreatedBy           string     `json:"createdBy"`
	Date                *time.Time `json:"date,omitempty"`
}
