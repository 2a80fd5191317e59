package api

import (
	"context"
	"net/http"

	"github.com/patrimonio-cl/console-activos/internal/application/dto"
)

// AuthService endpoints de autenticación. Van siempre por la vía anónima: un
// 401 de /auth/login o /auth/refresh no debe disparar otra renovación.
type AuthService struct {
	client *Client
}

// NewAuthService construye el servicio de autenticación sobre el cliente.
func NewAuthService(c *Client) *AuthService {
	return &AuthService{client: c}
}

// Login valida credenciales y devuelve token + usuario. La cookie de refresh
// queda en el jar del cliente.
func (s *AuthService) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	body := dto.LoginRequest{Email: email, Password: password}
	if err := s.client.RequestAnonymous(ctx, http.MethodPost, "/auth/login", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Refresh emite un token nuevo usando la cookie de refresh del jar.
func (s *AuthService) Refresh(ctx context.Context) (string, error) {
	var out dto.RefreshResponse
	if err := s.client.RequestAnonymous(ctx, http.MethodPost, "/auth/refresh", nil, &out); err != nil {
		return "", err
	}
	return out.Token, nil
}

// Logout invalida la sesión en el servidor. El caller limpia el estado local
// aunque esta llamada falle.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.client.RequestAnonymous(ctx, http.MethodPost, "/auth/logout", nil, nil)
}
