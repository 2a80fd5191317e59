package session

import (
	"context"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/patrimonio-cl/console-activos/internal/application/dto"
	"github.com/patrimonio-cl/console-activos/internal/domain"
	"github.com/patrimonio-cl/console-activos/internal/domain/entity"
	"github.com/patrimonio-cl/console-activos/pkg/logger"
)

// renewalGrace ventana durante la cual una renovación recién completada se
// reutiliza en vez de golpear /auth/refresh otra vez (peticiones concurrentes
// que observaron el mismo 401).
const renewalGrace = 5 * time.Second

// AuthAPI endpoints de autenticación que consume el manager.
type AuthAPI interface {
	Login(ctx context.Context, email, password string) (*dto.LoginResponse, error)
	Refresh(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
}

// CredentialStore persistencia local de la credencial.
type CredentialStore interface {
	Save(token string) error
	Load() (string, error)
	Clear() error
}

// Manager dueño de la credencial vigente: la persiste, la restaura al partir
// y la renueva en silencio cuando expira. Hay a lo más un token vigente;
// último escritor gana (login o renovación exitosa).
type Manager struct {
	auth  AuthAPI
	store CredentialStore
	log   *logger.Logger

	mu        sync.Mutex
	token     string
	override  string
	user      *entity.User
	renewedAt time.Time
	subs      []func(token string)
}

// NewManager construye el manager y restaura la credencial persistida si
// existe. Una credencial ilegible se descarta (arranque en frío sin sesión).
func NewManager(auth AuthAPI, store CredentialStore, log *logger.Logger) *Manager {
	if log == nil {
		log = logger.Nop()
	}
	m := &Manager{auth: auth, store: store, log: log.Component("session")}
	if store != nil {
		tok, err := store.Load()
		if err != nil {
			m.log.Warn().Err(err).Msg("credencial persistida ilegible; se descarta")
			_ = store.Clear()
		} else {
			m.token = tok
		}
	}
	return m
}

// Token devuelve la mejor credencial conocida: override explícito, luego la
// persistida, luego la de memoria.
func (m *Manager) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.override != "" {
		return m.override
	}
	if m.store != nil {
		if tok, err := m.store.Load(); err == nil && tok != "" {
			return tok
		}
	}
	return m.token
}

// SetOverride fija una credencial explícita que gana sobre todo lo demás
// (útil para soporte). Cadena vacía la quita.
func (m *Manager) SetOverride(token string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.override = token
}

// Subscribe registra un callback que recibe cada token nuevo (login o
// renovación). Se invoca de forma síncrona bajo el mismo orden de emisión.
func (m *Manager) Subscribe(fn func(token string)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

// Login autentica al operador, adopta el token y lo persiste.
func (m *Manager) Login(ctx context.Context, email, password string) (*entity.User, error) {
	resp, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}
	m.adopt(resp.Token)
	m.mu.Lock()
	user := resp.User
	m.user = &user
	m.mu.Unlock()
	m.log.Info().Str("email", email).Str("role", resp.User.Role).Msg("sesión iniciada")
	return &user, nil
}

// Renew renueva la credencial contra /auth/refresh. Si otra petición acaba de
// renovar, reutiliza ese token. Devuelve ("", false) si la renovación falla;
// el caller debe tratar la sesión como no autenticada.
func (m *Manager) Renew(ctx context.Context) (string, bool) {
	m.mu.Lock()
	if m.token != "" && time.Since(m.renewedAt) < renewalGrace {
		tok := m.token
		m.mu.Unlock()
		return tok, true
	}
	m.mu.Unlock()

	token, err := m.auth.Refresh(ctx)
	if err != nil || token == "" {
		m.log.Warn().Err(err).Msg("renovación de credencial fallida")
		return "", false
	}
	m.adopt(token)
	return token, true
}

// Logout cierra la sesión. La llamada remota es best-effort: el estado local
// se limpia incondicionalmente aunque el servidor falle (gana la UX local).
func (m *Manager) Logout(ctx context.Context) {
	if err := m.auth.Logout(ctx); err != nil {
		m.log.Warn().Err(err).Msg("logout remoto falló; se limpia igual el estado local")
	}
	m.mu.Lock()
	m.token = ""
	m.override = ""
	m.user = nil
	m.renewedAt = time.Time{}
	m.mu.Unlock()
	if m.store != nil {
		if err := m.store.Clear(); err != nil {
			m.log.Warn().Err(err).Msg("no se pudo borrar la credencial persistida")
		}
	}
}

// CurrentUser devuelve el usuario de la sesión (nil si no hay login en esta ejecución).
func (m *Manager) CurrentUser() *entity.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

// Authenticated indica si hay alguna credencial disponible.
func (m *Manager) Authenticated() bool { return m.Token() != "" }

// ExpiresAt lee el claim exp del token vigente sin verificar la firma (el
// cliente no conoce el secreto; solo le interesa el instante de expiración).
func (m *Manager) ExpiresAt() (time.Time, bool) {
	tok := m.Token()
	if tok == "" {
		return time.Time{}, false
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// KeepAlive renueva la sesión en segundo plano cada interval hasta que el
// contexto termine. Los fallos se registran en warn y no alertan al operador;
// la próxima petición real escalará si la sesión de verdad murió.
func (m *Manager) KeepAlive(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if !m.Authenticated() {
				continue
			}
			if _, ok := m.Renew(ctx); !ok {
				if exp, known := m.ExpiresAt(); known {
					m.log.Warn().Time("token_expira", exp).Msg("ping de sesión falló; se reintenta en el próximo ciclo")
				} else {
					m.log.Warn().Msg("ping de sesión falló; se reintenta en el próximo ciclo")
				}
			}
		}
	}
}

// adopt fija el token nuevo, lo persiste y lo difunde a los suscriptores.
func (m *Manager) adopt(token string) {
	m.mu.Lock()
	m.token = token
	m.renewedAt = time.Now()
	subs := make([]func(string), len(m.subs))
	copy(subs, m.subs)
	m.mu.Unlock()

	if m.store != nil {
		if err := m.store.Save(token); err != nil {
			m.log.Warn().Err(err).Msg("no se pudo persistir la credencial")
		}
	}
	for _, fn := range subs {
		fn(token)
	}
}

// RequireAuthenticated error estándar cuando una operación necesita sesión.
func (m *Manager) RequireAuthenticated() error {
	if !m.Authenticated() {
		return domain.ErrUnauthorized
	}
	return nil
}
