package dto

import "github.com/patrimonio-cl/console-activos/internal/domain/entity"

// LoginRequest credenciales del operador.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse token emitido más el usuario autenticado. La cookie de
// refresh viaja aparte (Set-Cookie) y la conserva el cookie jar del cliente.
type LoginResponse struct {
	Token string      `json:"token"`
	User  entity.User `json:"user"`
}

// RefreshResponse token nuevo emitido por /auth/refresh.
type RefreshResponse struct {
	Token string `json:"token"`
}
