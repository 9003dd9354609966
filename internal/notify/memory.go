package notify

import (
	"context"
	"sync"
)

// Memory acumula notificaciones en memoria. La capa HTTP lo usa para
// devolver mensajes flash en la respuesta; los tests para aserciones.
type Memory struct {
	mu    sync.Mutex
	items []Notification
}

func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Notify(ctx context.Context, n Notification) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = append(m.items, n)
}

// Drain devuelve lo acumulado y vacía el buffer.
func (m *Memory) Drain() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := m.items
	m.items = nil
	return out
}

// All devuelve una copia de lo acumulado sin vaciar.
func (m *Memory) All() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.items))
	copy(out, m.items)
	return out
}

var _ Notifier = (*Memory)(nil)
