package entity

// Familias de operación a las que pertenece un código de motivo.
const (
	ReasonFamilyTransfer     = "transfer"
	ReasonFamilyStatusChange = "statusChange"
	ReasonFamilyRestore      = "restore"
)

// ReasonCode entrada del catálogo de motivos {código, etiqueta}.
// La UI siempre obtiene la lista del servidor; nunca inventa códigos.
type ReasonCode struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// ReasonCodeCatalog catálogo de motivos agrupado por familia de operación.
type ReasonCodeCatalog struct {
	Transfer     []ReasonCode `json:"transfer"`
	StatusChange []ReasonCode `json:"statusChange"`
	Restore      []ReasonCode `json:"restore"`
}

// Family devuelve los códigos de la familia indicada.
func (c *ReasonCodeCatalog) Family(family string) []ReasonCode {
	switch family {
	case ReasonFamilyTransfer:
		return c.Transfer
	case ReasonFamilyStatusChange:
		return c.StatusChange
	case ReasonFamilyRestore:
		return c.Restore
	}
	return nil
}

// Contains indica si code es válido para la familia dada.
func (c *ReasonCodeCatalog) Contains(family, code string) bool {
	for _, rc := range c.Family(family) {
		if rc.Code == code {
			return true
		}
	}
	return false
}
