package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
	"github.com/jhoicas/gacha-api/internal/domain/repository"
	"github.com/jhoicas/gacha-api/pkg/logger"
)

// Verificar en tiempo de compilación que Client implementa PrizeBackend.
var _ repository.PrizeBackend = (*Client)(nil)

// Acciones del endpoint remoto.
const (
	ActionAdd       = "add"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionDecrement = "decrement"
)

const (
	maxResponseBytes = 1 << 20
	maxSnippetRunes  = 200
)

// Client variante remota del backend: un único endpoint (script de hoja de cálculo)
// con GET para leer todo y POST {action} para cada escritura. Cada llamada es un solo
// viaje de ida y vuelta; no hay escrituras en varios pasos.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient construye el cliente con un timeout de red. El servicio no impone otro timeout;
// quien llama puede acotar con el contexto.
func NewClient(endpoint string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return NewClientWithHTTP(endpoint, &http.Client{Timeout: timeout}, log)
}

// NewClientWithHTTP permite inyectar el *http.Client (tests).
func NewClientWithHTTP(endpoint string, hc *http.Client, log *logger.Logger) *Client {
	if log == nil {
		log = logger.Nop()
	}
	return &Client{endpoint: endpoint, httpClient: hc, log: log}
}

// ── Estructuras del protocolo ────────────────────────────────────────────────

type actionRequest struct {
	Action string `json:"action"`
	Data   any    `json:"data,omitempty"`
	ID     string `json:"id,omitempty"`
}

// Los registros se decodifican como mapas: la hoja puede entregar números como texto.
type actionResponse struct {
	Prizes   *[]map[string]any `json:"prizes"`
	Success  *bool             `json:"success"`
	Prize    map[string]any    `json:"prize"`
	NewStock *int              `json:"newStock"`
	Error    json.RawMessage   `json:"error"`
}

func (r actionResponse) succeeded() bool { return r.Success != nil && *r.Success }

// errorMessage devuelve el texto del campo error si viene con contenido.
func (r actionResponse) errorMessage() string {
	raw := bytes.TrimSpace(r.Error)
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

// ── Implementación del puerto ────────────────────────────────────────────────

// Load obtiene la colección completa (GET).
func (c *Client) Load(ctx context.Context) ([]entity.Prize, error) {
	resp, err := c.do(ctx, "load", http.MethodGet, nil)
	if err != nil {
		return nil, err
	}
	if resp.Prizes == nil {
		return nil, notConfirmed("load", "falta el campo prizes")
	}
	prizes, err := domainprize.DecodeRecords(*resp.Prizes)
	if err != nil {
		return nil, domain.NewBackendError("load", domain.CategoryUnknown, 0, err)
	}
	return prizes, nil
}

// Add crea el premio y devuelve el registro guardado en la hoja.
func (c *Client) Add(ctx context.Context, p entity.Prize) (*entity.Prize, error) {
	resp, err := c.do(ctx, ActionAdd, http.MethodPost, actionRequest{Action: ActionAdd, Data: p})
	if err != nil {
		return nil, err
	}
	if !resp.succeeded() || resp.Prize == nil {
		return nil, notConfirmed(ActionAdd, "falta success o prize")
	}
	saved, err := domainprize.DecodeRecord(resp.Prize)
	if err != nil {
		return nil, domain.NewBackendError(ActionAdd, domain.CategoryUnknown, 0, err)
	}
	return &saved, nil
}

// Update envía el registro completo con su id.
func (c *Client) Update(ctx context.Context, p entity.Prize) error {
	resp, err := c.do(ctx, ActionUpdate, http.MethodPost, actionRequest{Action: ActionUpdate, Data: p})
	if err != nil {
		return err
	}
	if !resp.succeeded() {
		return notConfirmed(ActionUpdate, "falta success")
	}
	return nil
}

// Delete elimina por id.
func (c *Client) Delete(ctx context.Context, id string) error {
	resp, err := c.do(ctx, ActionDelete, http.MethodPost, actionRequest{Action: ActionDelete, ID: id})
	if err != nil {
		return err
	}
	if !resp.succeeded() {
		return notConfirmed(ActionDelete, "falta success")
	}
	return nil
}

// DecrementStock descuenta una unidad en la hoja y devuelve newStock.
func (c *Client) DecrementStock(ctx context.Context, id string) (int, error) {
	resp, err := c.do(ctx, ActionDecrement, http.MethodPost, actionRequest{Action: ActionDecrement, ID: id})
	if err != nil {
		return 0, err
	}
	if !resp.succeeded() || resp.NewStock == nil {
		return 0, notConfirmed(ActionDecrement, "falta success o newStock")
	}
	return *resp.NewStock, nil
}

// do ejecuta un viaje de ida y vuelta y clasifica los fallos:
// excepción de transporte → network; status no 2xx → por status; campo error → script.
func (c *Client) do(ctx context.Context, op, method string, payload any) (*actionResponse, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, domain.NewBackendError(op, domain.CategoryUnknown, 0, fmt.Errorf("serializar request: %w", err))
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint, body)
	if err != nil {
		return nil, domain.NewBackendError(op, domain.CategoryUnknown, 0, fmt.Errorf("crear HTTP request: %w", err))
	}
	if payload != nil {
		// text/plain evita el preflight CORS del script publicado.
		req.Header.Set("Content-Type", "text/plain;charset=utf-8")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("timeout o cancelación: %w", errors.Join(ctx.Err(), err))
		}
		return nil, domain.NewBackendError(op, domain.CategoryNetwork, 0, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, domain.NewBackendError(op, domain.CategoryNetwork, resp.StatusCode, fmt.Errorf("leer respuesta: %w", err))
	}
	c.log.Debug().
		Str("op", op).
		Int("status", resp.StatusCode).
		Dur("latency", time.Since(start)).
		Msg("llamada al script remoto")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, domain.NewBackendError(op, domain.CategoryFromStatus(resp.StatusCode), resp.StatusCode,
			fmt.Errorf("HTTP %d: %s", resp.StatusCode, snippet(raw)))
	}

	var out actionResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, domain.NewBackendError(op, domain.CategoryUnknown, resp.StatusCode,
			fmt.Errorf("%w: respuesta no es JSON válido: %v", domain.ErrNotConfirmed, err))
	}
	if msg := out.errorMessage(); msg != "" {
		return nil, domain.NewBackendError(op, domain.CategoryScript, resp.StatusCode, errors.New(msg))
	}
	return &out, nil
}

func notConfirmed(op, detail string) error {
	return domain.NewBackendError(op, domain.CategoryUnknown, 0, fmt.Errorf("%w: %s", domain.ErrNotConfirmed, detail))
}

// snippet recorta el cuerpo a maxSnippetRunes runas; nunca parte un carácter multibyte.
func snippet(raw []byte) string {
	s := strings.ToValidUTF8(strings.TrimSpace(string(raw)), "\uFFFD")
	if utf8.RuneCountInString(s) <= maxSnippetRunes {
		return s
	}
	return string([]rune(s)[:maxSnippetRunes]) + "…"
}
