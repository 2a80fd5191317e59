package entity

import "time"

// Roles de operador. El rol central es el único habilitado para trasladar
// activos entre establecimientos.
const (
	RoleCentral  = "central"
	RoleOperador = "operador"
)

// User operador autenticado de la consola.
type User struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	Name            string    `json:"name"`
	Role            string    `json:"role"`
	EstablishmentID *int64    `json:"establishmentId,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// CanTransfer indica si el rol permite traslados entre establecimientos.
func (u *User) CanTransfer() bool { return u != nil && u.Role == RoleCentral }
