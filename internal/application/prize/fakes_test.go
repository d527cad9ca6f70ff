package prize_test

import (
	"context"
	"sync"

	"github.com/jhoicas/gacha-api/internal/domain"
	"github.com/jhoicas/gacha-api/internal/domain/entity"
	domainprize "github.com/jhoicas/gacha-api/internal/domain/prize"
	"github.com/jhoicas/gacha-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Backend en memoria con fallos programables
// ──────────────────────────────────────────────────────────────────────────────

type fakeBackend struct {
	mu     sync.Mutex
	prizes []entity.Prize
	calls  []string

	loadErr   error
	addErr    error
	updateErr error
	deleteErr error
	decErr    error

	// addResult, si no es nil, es lo que "confirma" el backend en Add.
	addResult *entity.Prize
	// decOverride, si no es nil, es el newStock que informa el backend.
	decOverride *int
}

var _ repository.PrizeBackend = (*fakeBackend)(nil)

func newFakeBackend(prizes ...entity.Prize) *fakeBackend {
	return &fakeBackend{prizes: entity.ClonePrizes(prizes)}
}

func (f *fakeBackend) record(op string) {
	f.mu.Lock()
	f.calls = append(f.calls, op)
	f.mu.Unlock()
}

func (f *fakeBackend) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeBackend) Load(context.Context) ([]entity.Prize, error) {
	f.record("load")
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return entity.ClonePrizes(f.prizes), nil
}

func (f *fakeBackend) Add(_ context.Context, p entity.Prize) (*entity.Prize, error) {
	f.record("add")
	if f.addErr != nil {
		return nil, f.addErr
	}
	if f.addResult != nil {
		out := f.addResult.Clone()
		f.prizes = append(f.prizes, out)
		return &out, nil
	}
	f.prizes = append(f.prizes, p.Clone())
	return nil, nil
}

func (f *fakeBackend) Update(_ context.Context, p entity.Prize) error {
	f.record("update")
	if f.updateErr != nil {
		return f.updateErr
	}
	idx := domainprize.IndexOf(f.prizes, p.ID)
	if idx < 0 {
		return domain.NewBackendError("update", domain.CategoryNotFound, 0, domain.ErrNotFound)
	}
	f.prizes[idx] = p.Clone()
	return nil
}

func (f *fakeBackend) Delete(_ context.Context, id string) error {
	f.record("delete")
	if f.deleteErr != nil {
		return f.deleteErr
	}
	idx := domainprize.IndexOf(f.prizes, id)
	if idx < 0 {
		return domain.NewBackendError("delete", domain.CategoryNotFound, 0, domain.ErrNotFound)
	}
	f.prizes = append(f.prizes[:idx], f.prizes[idx+1:]...)
	return nil
}

func (f *fakeBackend) DecrementStock(_ context.Context, id string) (int, error) {
	f.record("decrement")
	if f.decErr != nil {
		return 0, f.decErr
	}
	if f.decOverride != nil {
		return *f.decOverride, nil
	}
	idx := domainprize.IndexOf(f.prizes, id)
	if idx < 0 {
		return 0, domain.NewBackendError("decrement", domain.CategoryNotFound, 0, domain.ErrNotFound)
	}
	f.prizes[idx].Stock = max(0, f.prizes[idx].Stock-1)
	return f.prizes[idx].Stock, nil
}

// snapshotBackend agrega Save/Clear: así se comporta la variante local.
type snapshotBackend struct {
	*fakeBackend
	saves   [][]entity.Prize
	saveErr error
	cleared int
}

var (
	_ repository.SnapshotWriter = (*snapshotBackend)(nil)
	_ repository.Clearer        = (*snapshotBackend)(nil)
)

func (s *snapshotBackend) Save(_ context.Context, prizes []entity.Prize) error {
	s.record("save")
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves = append(s.saves, entity.ClonePrizes(prizes))
	s.prizes = entity.ClonePrizes(prizes)
	return nil
}

func (s *snapshotBackend) Clear(context.Context) error {
	s.record("clear")
	s.cleared++
	s.prizes = nil
	return nil
}

// ──────────────────────────────────────────────────────────────────────────────
// Métricas que registran lo observado
// ──────────────────────────────────────────────────────────────────────────────

type recordingMetrics struct {
	ops       map[string]int
	errs      map[string]int
	rollbacks map[string]int
}

func newRecordingMetrics() *recordingMetrics {
	return &recordingMetrics{ops: map[string]int{}, errs: map[string]int{}, rollbacks: map[string]int{}}
}

func (m *recordingMetrics) ObserveOperation(op string, err error) {
	m.ops[op]++
	if err != nil {
		m.errs[op]++
	}
}

func (m *recordingMetrics) ObserveRollback(op string) { m.rollbacks[op]++ }

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func intPtr(n int) *int { return &n }

func strPtr(s string) *string { return &s }

func seed(id, name string, stock, total int, order float64) entity.Prize {
	return entity.Prize{
		ID:         id,
		Name:       name,
		ImageURL:   "https://img.example/" + id + ".png",
		Stock:      stock,
		TotalStock: intPtr(total),
		Order:      order,
		CreatedAt:  1_700_000_000_000,
	}
}
