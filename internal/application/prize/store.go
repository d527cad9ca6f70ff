package prize

import (
	"sync"

	"github.com/jhoicas/gacha-api/internal/domain/entity"
)

// Store fuente de verdad en memoria de la colección de premios (vida = proceso).
// Solo el Service escribe; el mutex protege las lecturas concurrentes del servidor HTTP
// pero no serializa operaciones completas del servicio.
type Store struct {
	mu        sync.RWMutex
	notifyMu  sync.Mutex // ordena las notificaciones igual que los reemplazos
	prizes    []entity.Prize
	listeners map[int]func([]entity.Prize)
	nextSub   int
}

// NewStore construye un Store vacío.
func NewStore() *Store {
	return &Store{listeners: make(map[int]func([]entity.Prize))}
}

// Set reemplaza la colección completa. No hay reemplazo parcial: el rollback es un intercambio de snapshot.
// Los suscriptores reciben los snapshots en el mismo orden en que se aplicaron y no deben llamar a Set.
func (s *Store) Set(prizes []entity.Prize) {
	next := entity.ClonePrizes(prizes)

	s.notifyMu.Lock()
	defer s.notifyMu.Unlock()

	s.mu.Lock()
	s.prizes = next
	fns := make([]func([]entity.Prize), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(entity.ClonePrizes(next))
	}
}

// All devuelve una copia de la colección en su orden actual.
func (s *Store) All() []entity.Prize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return entity.ClonePrizes(s.prizes)
}

// Available subsecuencia con stock > 0, mismo orden.
func (s *Store) Available() []entity.Prize {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Prize, 0, len(s.prizes))
	for _, p := range s.prizes {
		if p.Available() {
			out = append(out, p.Clone())
		}
	}
	return out
}

// Subscribe registra fn para cada Set; devuelve la función para darse de baja.
func (s *Store) Subscribe(fn func([]entity.Prize)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.listeners[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// Reset vacía la colección (teardown de tests y recarga).
func (s *Store) Reset() { s.Set(nil) }
