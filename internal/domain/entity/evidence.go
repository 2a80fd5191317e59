package entity

import (
	"path/filepath"
	"strings"
	"time"
)

// Tipos de documento de respaldo habituales (el servidor admite otros).
const (
	DocTypeActa      = "ACTA"
	DocTypeFactura   = "FACTURA"
	DocTypeResolucion = "RESOLUCION"
	DocTypeOtro      = "OTRO"
)

// Evidence documento de respaldo asociado a un activo y, opcionalmente, a un
// movimiento específico. Traslado, cambio de estado y restauración exigen
// evidencia adjunta; sin archivo el envío se rechaza en el cliente.
type Evidence struct {
	ID         int64     `json:"id"`
	AssetID    int64     `json:"assetId"`
	MovementID *int64    `json:"movementId,omitempty"`
	DocType    string    `json:"docType"`
	Note       string    `json:"note,omitempty"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	CreatedAt  time.Time `json:"createdAt"`
}

// EvidenceFile archivo aún no subido, tal como lo entrega el formulario.
type EvidenceFile struct {
	Name    string
	Content []byte
}

// IsAllowedEvidenceFile acepta únicamente PDF, JPG y PNG (por extensión).
func IsAllowedEvidenceFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf", ".jpg", ".jpeg", ".png":
		return true
	}
	return false
}
