package sheets_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gacha-api/internal/application/dto"
	appprize "github.com/jhoicas/gacha-api/internal/application/prize"
	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
	"github.com/jhoicas/gacha-api/internal/infrastructure/sheets"
	"github.com/jhoicas/gacha-api/internal/interfaces/sheetstub"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

func prize(id, name string, stock int) entity.Prize {
	total := stock
	return entity.Prize{ID: id, Name: name, ImageURL: "https://img.example/" + id, Stock: stock, TotalStock: &total, Order: 1, CreatedAt: 1_700_000_000_000}
}

// stubClient levanta el stub de la hoja detrás de un servidor HTTP real.
func stubClient(t *testing.T, prizes ...entity.Prize) (*sheets.Client, *sheetstub.Sheet) {
	t.Helper()
	sheet := sheetstub.NewSheet(prizes...)
	srv := httptest.NewServer(adaptor.FiberApp(sheetstub.New(sheet)))
	t.Cleanup(srv.Close)
	return sheets.NewClient(srv.URL, 5*time.Second, nil), sheet
}

// rawClient cliente contra un handler arbitrario (respuestas de error).
func rawClient(t *testing.T, h http.HandlerFunc) *sheets.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return sheets.NewClientWithHTTP(srv.URL, srv.Client(), nil)
}

func backendError(t *testing.T, err error) *domain.BackendError {
	t.Helper()
	var be *domain.BackendError
	require.True(t, errors.As(err, &be), "se esperaba BackendError, se obtuvo %v", err)
	return be
}

// ──────────────────────────────────────────────────────────────────────────────
// Contra el stub de la hoja
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_LoadDesdeLaHoja(t *testing.T) {
	c, _ := stubClient(t, prize("a", "Llavero", 3), prize("b", "Taza", 0))

	got, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Llavero", got[0].Name)
	assert.Equal(t, 3, got[0].Stock)
	assert.Equal(t, 0, got[1].Stock)
}

func TestClient_HojaVaciaNoEsError(t *testing.T) {
	c, _ := stubClient(t)

	got, err := c.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_EscriturasUnViajeCadaUna(t *testing.T) {
	ctx := context.Background()
	c, sheet := stubClient(t)

	added, err := c.Add(ctx, prize("a", "Llavero", 2))
	require.NoError(t, err)
	assert.Equal(t, "a", added.ID)

	upd := prize("a", "Llavero dorado", 2)
	require.NoError(t, c.Update(ctx, upd))

	n, err := c.DecrementStock(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	rows, err := sheet.Prizes()
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "Llavero dorado", rows[0].Name)
	assert.Equal(t, 1, rows[0].Stock)

	require.NoError(t, c.Delete(ctx, "a"))
	rows, err = sheet.Prizes()
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClient_ErrorDelScript(t *testing.T) {
	c, _ := stubClient(t)

	err := c.Delete(context.Background(), "no-existe")
	be := backendError(t, err)
	assert.Equal(t, domain.CategoryScript, be.Category)
	assert.Contains(t, err.Error(), "Prize not found")
}

func TestClient_ServicioAdoptaElRegistroRemoto(t *testing.T) {
	ctx := context.Background()
	c, sheet := stubClient(t, prize("a", "Llavero", 1))
	svc := appprize.NewService(appprize.NewStore(), c, nil)

	_, err := svc.LoadPrizes(ctx)
	require.NoError(t, err)
	p, err := svc.AddPrize(ctx, dto.CreatePrizeRequest{Name: "Peluche", Stock: 4})
	require.NoError(t, err)

	remaining, err := svc.DecrementStock(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, remaining)

	rows, err := sheet.Prizes()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, p.ID, rows[1].ID)
	assert.Equal(t, 4, *rows[1].TotalStock)
	assert.Equal(t, 0, rows[0].Stock)
}

// ──────────────────────────────────────────────────────────────────────────────
// Clasificación de fallos
// ──────────────────────────────────────────────────────────────────────────────

func TestClient_StatusHTTP(t *testing.T) {
	cases := map[int]domain.BackendErrorCategory{
		http.StatusUnauthorized:        domain.CategoryUnauthorized,
		http.StatusForbidden:           domain.CategoryForbidden,
		http.StatusNotFound:            domain.CategoryNotFound,
		http.StatusTooManyRequests:     domain.CategoryRateLimit,
		http.StatusInternalServerError: domain.CategoryServer,
		http.StatusBadGateway:          domain.CategoryServer,
	}
	for status, want := range cases {
		c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(status)
			_, _ = io.WriteString(w, "<html>error</html>")
		})

		_, err := c.Load(context.Background())
		be := backendError(t, err)
		assert.Equal(t, want, be.Category, "status %d", status)
		assert.Equal(t, status, be.Status)
	}
}

func TestClient_CampoErrorAunqueStatus200(t *testing.T) {
	c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"error":"Sheet 'Prizes' not found"}`)
	})

	_, err := c.Load(context.Background())
	be := backendError(t, err)
	assert.Equal(t, domain.CategoryScript, be.Category)
	assert.Contains(t, be.Error(), "Sheet 'Prizes' not found")
}

func TestClient_RespuestaSinCamposRequeridos(t *testing.T) {
	c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":true}`)
	})
	ctx := context.Background()

	_, err := c.Add(ctx, prize("a", "Llavero", 1))
	assert.ErrorIs(t, err, domain.ErrNotConfirmed, "add sin prize")
	assert.Equal(t, domain.CategoryUnknown, domain.CategoryOf(err))

	_, err = c.DecrementStock(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotConfirmed, "decrement sin newStock")

	_, err = c.Load(ctx)
	assert.ErrorIs(t, err, domain.ErrNotConfirmed, "load sin prizes")

	assert.NoError(t, c.Update(ctx, prize("a", "Llavero", 1)))
}

func TestClient_SuccessFalse(t *testing.T) {
	c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"success":false}`)
	})
	assert.ErrorIs(t, c.Delete(context.Background(), "a"), domain.ErrNotConfirmed)
}

func TestClient_JSONInvalido(t *testing.T) {
	c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<!DOCTYPE html><p>Login</p>`)
	})
	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrNotConfirmed)
}

func TestClient_SinConexionEsNetwork(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := sheets.NewClient(url, time.Second, nil)
	_, err := c.Load(context.Background())
	assert.Equal(t, domain.CategoryNetwork, domain.CategoryOf(err))
}

func TestClient_EnviaTextPlain(t *testing.T) {
	var contentType, action string
	c := rawClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		body, _ := io.ReadAll(r.Body)
		action = string(body)
		_, _ = io.WriteString(w, `{"success":true,"newStock":4}`)
	})

	n, err := c.DecrementStock(context.Background(), "a")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, "text/plain;charset=utf-8", contentType)
	assert.JSONEq(t, `{"action":"decrement","id":"a"}`, action)
}

func TestClient_LoadAceptaNumerosComoTexto(t *testing.T) {
	c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"prizes":[{"id":"a","name":"Llavero","imageUrl":"","stock":"5","totalStock":"8","createdAt":"1700000000000"}]}`)
	})

	got, err := c.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 5, got[0].Stock)
	assert.Equal(t, 8, got[0].Capacity())
	assert.Equal(t, int64(1700000000000), got[0].CreatedAt)
}

func TestClient_LoadRegistroIncompletoEsCorrupto(t *testing.T) {
	c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{"prizes":[{"id":"a","name":"x"}]}`)
	})

	_, err := c.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptData)
	assert.Equal(t, domain.CategoryUnknown, domain.CategoryOf(err))
}

func TestClient_CuerpoDeErrorLargoSeRecortaSinRomperUTF8(t *testing.T) {
	body := strings.Repeat("ñ", 300)
	c := rawClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = io.WriteString(w, "x"+body)
	})

	_, err := c.Load(context.Background())
	require.Error(t, err)
	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "…"))
	assert.Equal(t, 199, strings.Count(msg, "ñ"))
}
