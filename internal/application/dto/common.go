package dto

// PageRequest paginación para listados. Take se acota a [1,100] antes de
// enviar (el servidor aplica el mismo límite; replicarlo evita listados sin cota).
type PageRequest struct {
	Take int `json:"take"`
	Skip int `json:"skip"`
}

// DefaultPage aplica valores por defecto si Take/Skip son cero.
func (p *PageRequest) DefaultPage() {
	if p.Take <= 0 {
		p.Take = 20
	}
	if p.Skip < 0 {
		p.Skip = 0
	}
}

// PageResponse metadatos de página en respuestas de listado.
type PageResponse struct {
	Take  int `json:"take"`
	Skip  int `json:"skip"`
	Total int `json:"total,omitempty"`
}
