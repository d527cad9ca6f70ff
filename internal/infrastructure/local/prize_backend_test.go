package local_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/gacha-api/internal/application/dto"
	appprize "github.com/jhoicas/gacha-api/internal/application/prize"
	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
	"github.com/jhoicas/gacha-api/internal/infrastructure/kv"
	"github.com/jhoicas/gacha-api/internal/infrastructure/local"
)

func newBolt(t *testing.T, path string) *kv.BoltStore {
	t.Helper()
	s, err := kv.NewBoltStore(path, "gacha")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func prize(id string, stock int) entity.Prize {
	total := stock
	return entity.Prize{ID: id, Name: "Premio " + id, Stock: stock, TotalStock: &total, Order: 1, CreatedAt: 1}
}

func TestLoad_SinDatosDevuelveVacio(t *testing.T) {
	b := local.NewPrizeBackend(newBolt(t, filepath.Join(t.TempDir(), "gacha.db")), nil)

	prizes, err := b.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, prizes)
	assert.Empty(t, prizes)
}

func TestLoad_JSONIlegibleDevuelveVacio(t *testing.T) {
	store := newBolt(t, filepath.Join(t.TempDir(), "gacha.db"))
	require.NoError(t, store.Set(context.Background(), local.PrizesKey, []byte("{no es json")))
	b := local.NewPrizeBackend(store, nil)

	prizes, err := b.Load(context.Background())
	require.NoError(t, err, "el contenido ilegible no es un error de E/S")
	assert.Empty(t, prizes)
}

func TestLoad_RegistroSinCamposRequeridosEsCorrupto(t *testing.T) {
	store := newBolt(t, filepath.Join(t.TempDir(), "gacha.db"))
	require.NoError(t, store.Set(context.Background(), local.PrizesKey, []byte(`[{"id":"a","name":"x"}]`)))
	b := local.NewPrizeBackend(store, nil)

	_, err := b.Load(context.Background())
	assert.ErrorIs(t, err, domain.ErrCorruptData)
	assert.ErrorContains(t, err, "imageUrl")
}

func TestInitializer_RegistroIncompletoLimpiaBolt(t *testing.T) {
	ctx := context.Background()
	store := newBolt(t, filepath.Join(t.TempDir(), "gacha.db"))
	require.NoError(t, store.Set(ctx, local.PrizesKey, []byte(`[{"id":"a","name":"x"}]`)))
	b := local.NewPrizeBackend(store, nil)
	svc := appprize.NewService(appprize.NewStore(), b, nil)

	res := appprize.NewInitializer(svc, b, false, nil).Run(ctx)

	assert.True(t, res.Cleared)
	assert.Zero(t, res.Loaded)
	require.NotNil(t, res.Error)
	assert.Equal(t, "Datos de premios inválidos", res.Error.Title)
	assert.Empty(t, svc.Store().All())

	_, found, err := store.Get(ctx, local.PrizesKey)
	require.NoError(t, err)
	assert.False(t, found, "la clave local se borra")
}

func TestSaveLoadYClear(t *testing.T) {
	ctx := context.Background()
	b := local.NewPrizeBackend(newBolt(t, filepath.Join(t.TempDir(), "gacha.db")), nil)

	in := []entity.Prize{prize("a", 3), prize("b", 0)}
	require.NoError(t, b.Save(ctx, in))

	out, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, in, out)

	require.NoError(t, b.Clear(ctx))
	out, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestOperacionesPuntuales(t *testing.T) {
	ctx := context.Background()
	b := local.NewPrizeBackend(newBolt(t, filepath.Join(t.TempDir(), "gacha.db")), nil)

	added, err := b.Add(ctx, prize("a", 1))
	require.NoError(t, err)
	assert.Equal(t, "a", added.ID)

	n, err := b.DecrementStock(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, n)
	n, err = b.DecrementStock(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, 0, n, "nunca baja de cero")

	upd := prize("a", 7)
	upd.Name = "Renombrado"
	require.NoError(t, b.Update(ctx, upd))
	out, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Renombrado", out[0].Name)

	require.NoError(t, b.Delete(ctx, "a"))
	err = b.Delete(ctx, "a")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, domain.CategoryNotFound, domain.CategoryOf(err))
}

func TestServicio_PersisteEntreReinicios(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "gacha.db")

	store, err := kv.NewBoltStore(path, "gacha")
	require.NoError(t, err)
	svc := appprize.NewService(appprize.NewStore(), local.NewPrizeBackend(store, nil), nil)
	_, err = svc.LoadPrizes(ctx)
	require.NoError(t, err)
	p, err := svc.AddPrize(ctx, dto.CreatePrizeRequest{Name: "Peluche", Stock: 2})
	require.NoError(t, err)
	_, err = svc.DecrementStock(ctx, p.ID)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	svc2 := appprize.NewService(appprize.NewStore(), local.NewPrizeBackend(newBolt(t, path), nil), nil)
	loaded, err := svc2.LoadPrizes(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, p.ID, loaded[0].ID)
	assert.Equal(t, 1, loaded[0].Stock)
	assert.Equal(t, 2, *loaded[0].TotalStock)
}
