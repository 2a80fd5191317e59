package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/patrimonio-cl/console-activos/pkg/logger"
)

// Límites de paginación que el servidor impone en `take`; se replican aquí
// para no enviar nunca listados sin cota.
const (
	minTake = 1
	maxTake = 100
)

const maxErrorBody = 1 << 20 // 1 MiB de cuerpo de error como máximo

// TokenProvider entrega la credencial vigente y sabe renovarla.
// Lo implementa session.Manager.
type TokenProvider interface {
	Token() string
	Renew(ctx context.Context) (string, bool)
}

// Options parámetros de construcción del cliente.
type Options struct {
	BaseURL     string
	Timeout     time.Duration
	DownloadDir string
	Logger      *logger.Logger
}

// Client ejecutor de peticiones con política de reintento único ante
// credencial expirada. Toda la clasificación de errores HTTP vive aquí.
type Client struct {
	baseURL     string
	http        *http.Client
	log         *logger.Logger
	tokens      TokenProvider
	downloadDir string
}

// New construye el cliente. El cookie jar conserva la cookie de refresh que
// emite el servidor en el login.
func New(opts Options) *Client {
	jar, _ := cookiejar.New(nil)
	lg := opts.Logger
	if lg == nil {
		lg = logger.Nop()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
		http: &http.Client{
			Timeout: timeout,
			Jar:     jar,
		},
		log:         lg.Component("api"),
		downloadDir: opts.DownloadDir,
	}
}

// UseTokens conecta el proveedor de credenciales (se hace después de construir
// el session.Manager, que a su vez usa este cliente para /auth).
func (c *Client) UseTokens(tp TokenProvider) { c.tokens = tp }

// ClampTake acota el tamaño de página solicitado al rango [1, 100].
func ClampTake(take int) int {
	if take < minTake {
		return minTake
	}
	if take > maxTake {
		return maxTake
	}
	return take
}

// PageQuery arma los parámetros de paginación con `take` ya acotado.
func PageQuery(take, skip int) url.Values {
	q := url.Values{}
	q.Set("take", fmt.Sprintf("%d", ClampTake(take)))
	if skip > 0 {
		q.Set("skip", fmt.Sprintf("%d", skip))
	}
	return q
}

// requestSpec describe una petición de forma re-ejecutable: el cuerpo se
// reconstruye en cada intento, nunca se comparte un reader entre intentos.
type requestSpec struct {
	method    string
	path      string
	query     url.Values
	jsonBody  any
	form      *Form
	anonymous bool // sin Authorization y sin reintento por 401 (endpoints /auth)
}

// Request ejecuta una petición JSON y decodifica la respuesta en out (si out no es nil).
func (c *Client) Request(ctx context.Context, method, path string, body, out any) error {
	return c.exec(ctx, requestSpec{method: method, path: path, jsonBody: body}, out)
}

// RequestQuery como Request pero con query string.
func (c *Client) RequestQuery(ctx context.Context, method, path string, query url.Values, body, out any) error {
	return c.exec(ctx, requestSpec{method: method, path: path, query: query, jsonBody: body}, out)
}

// RequestAnonymous ejecuta una petición sin credencial (login, refresh, logout).
func (c *Client) RequestAnonymous(ctx context.Context, method, path string, body, out any) error {
	return c.exec(ctx, requestSpec{method: method, path: path, jsonBody: body, anonymous: true}, out)
}

// RequestMultipart ejecuta una petición multipart/form-data (adjuntos de evidencia).
func (c *Client) RequestMultipart(ctx context.Context, method, path string, form *Form, out any) error {
	return c.exec(ctx, requestSpec{method: method, path: path, form: form}, out)
}

// Download ejecuta una descarga binaria y la guarda bajo el directorio de
// descargas con el nombre indicado. Devuelve la ruta final del archivo.
func (c *Client) Download(ctx context.Context, path, filename string) (string, error) {
	resp, err := c.do(ctx, requestSpec{method: http.MethodGet, path: path})
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	dest := filepath.Join(c.downloadDir, filepath.Base(filename))
	f, err := os.OpenFile(dest, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return "", fmt.Errorf("descarga: crear %s: %w", dest, err)
	}
	defer f.Close()
	if _, err := io.Copy(f, resp.Body); err != nil {
		return "", fmt.Errorf("descarga: escribir %s: %w", dest, err)
	}
	return dest, nil
}

// exec corre la petición y decodifica la respuesta JSON.
func (c *Client) exec(ctx context.Context, spec requestSpec, out any) error {
	resp, err := c.do(ctx, spec)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("api: decodificar respuesta de %s %s: %w", spec.method, spec.path, err)
	}
	return nil
}

// do ejecuta la petición con la política compartida:
//   - adjunta la credencial vigente como Bearer,
//   - ante 401 en el primer intento renueva y reintenta exactamente una vez,
//   - un segundo 401 (o una renovación fallida) es terminal,
//   - cualquier respuesta no exitosa se convierte en *Error tipado.
//
// El bucle está acotado a dos intentos con un flag explícito; nunca recursión.
func (c *Client) do(ctx context.Context, spec requestSpec) (*http.Response, error) {
	correlationID := uuid.NewString()

	var token string
	if !spec.anonymous && c.tokens != nil {
		token = c.tokens.Token()
	}

	retried := false
	for {
		req, err := c.build(ctx, spec, token, correlationID)
		if err != nil {
			return nil, err
		}

		resp, err := c.http.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			c.log.Warn().Err(err).Str("method", spec.method).Str("path", spec.path).Msg("fallo de red")
			return nil, newError(0, CodeNetworkError, err.Error(), "", nil)
		}

		if resp.StatusCode == http.StatusUnauthorized && !spec.anonymous && !retried && c.tokens != nil {
			apiErr := c.parseError(resp, correlationID)
			newToken, ok := c.tokens.Renew(ctx)
			if !ok {
				// La renovación falló: se devuelve el 401 original como terminal.
				return nil, apiErr
			}
			c.log.Debug().Str("path", spec.path).Msg("credencial renovada, reintentando una vez")
			token = newToken
			retried = true
			continue
		}

		if resp.StatusCode >= 200 && resp.StatusCode < 300 {
			return resp, nil
		}
		return nil, c.parseError(resp, correlationID)
	}
}

// build arma el http.Request del intento: cuerpo fresco en cada llamada.
func (c *Client) build(ctx context.Context, spec requestSpec, token, correlationID string) (*http.Request, error) {
	u := c.baseURL + spec.path
	if len(spec.query) > 0 {
		u += "?" + spec.query.Encode()
	}

	var body io.Reader
	contentType := ""
	switch {
	case spec.form != nil:
		encoded, ct, err := spec.form.encode()
		if err != nil {
			return nil, fmt.Errorf("api: armar multipart: %w", err)
		}
		body = bytes.NewReader(encoded)
		contentType = ct
	case spec.jsonBody != nil:
		raw, err := json.Marshal(spec.jsonBody)
		if err != nil {
			return nil, fmt.Errorf("api: serializar cuerpo: %w", err)
		}
		body = bytes.NewReader(raw)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, u, body)
	if err != nil {
		return nil, fmt.Errorf("api: crear request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Client-Request-Id", correlationID)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req, nil
}

// errorBody cuerpo de error que entrega el servicio remoto.
type errorBody struct {
	Error     string          `json:"error"`
	Code      string          `json:"code"`
	RequestID string          `json:"requestId"`
	Details   json.RawMessage `json:"details"`
}

// parseError consume y cierra el cuerpo de la respuesta fallida y lo convierte
// en el error tipado. Prefiere el cuerpo JSON estructurado; si no lo hay, usa
// el texto crudo como mensaje del servidor.
func (c *Client) parseError(resp *http.Response, correlationID string) *Error {
	defer resp.Body.Close()
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	var parsed errorBody
	serverMessage := ""
	code := ""
	var details any
	if err := json.Unmarshal(raw, &parsed); err == nil {
		serverMessage = parsed.Error
		code = parsed.Code
		if len(parsed.Details) > 0 {
			details = parsed.Details
		}
	} else {
		serverMessage = strings.TrimSpace(string(raw))
	}

	requestID := parsed.RequestID
	if requestID == "" {
		requestID = resp.Header.Get("x-request-id")
	}

	apiErr := newError(resp.StatusCode, code, serverMessage, requestID, details)
	c.log.Debug().
		Int("status", resp.StatusCode).
		Str("code", apiErr.Code).
		Str("request_id", requestID).
		Str("correlation_id", correlationID).
		Msg("respuesta de error del servidor")
	return apiErr
}
