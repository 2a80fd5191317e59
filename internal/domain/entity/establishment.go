package entity

// Institution nivel superior de la jerarquía de ubicaciones.
type Institution struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Establishment establecimiento al que pertenecen dependencias y activos.
type Establishment struct {
	ID            int64  `json:"id"`
	InstitutionID int64  `json:"institutionId"`
	Name          string `json:"name"`
}

// Dependency dependencia (ubicación de segundo nivel) dentro de un establecimiento.
type Dependency struct {
	ID              int64  `json:"id"`
	EstablishmentID int64  `json:"establishmentId"`
	Name            string `json:"name"`
}
