package studio

import (
	"sync"

	"golang.org/x/sync/semaphore"

	"genstudio/internal/domain"
)

// Guard admits one in-flight generation per session. A second attempt fails
// immediately with domain.ErrBusy instead of queueing.
type Guard struct {
	mu       sync.Mutex
	sessions map[string]*semaphore.Weighted
}

func NewGuard() *Guard {
	return &Guard{sessions: make(map[string]*semaphore.Weighted)}
}

// Acquire reserves the session. The returned release func must be called
// exactly once.
func (g *Guard) Acquire(session string) (func(), error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	sem, ok := g.sessions[session]
	if !ok {
		sem = semaphore.NewWeighted(1)
		g.sessions[session] = sem
	}
	if !sem.TryAcquire(1) {
		return nil, domain.ErrBusy
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			sem.Release(1)
			if g.sessions[session] == sem {
				delete(g.sessions, session)
			}
		})
	}, nil
}

// Active reports how many sessions currently hold a slot.
func (g *Guard) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}
