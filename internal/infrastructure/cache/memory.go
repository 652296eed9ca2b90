package cache

import (
	"strings"
	"sync"
	"time"

	"github.com/tu-usuario/bodega-pos/internal/application/ports"
)

var _ ports.Cache = (*Memory)(nil)

type item struct {
	value     any
	expiresAt time.Time
}

// Memory cache en memoria con TTL por entrada e invalidación por prefijo.
// Suficiente para una instancia; el puerto permite cambiarlo por Redis sin
// tocar los casos de uso.
type Memory struct {
	mu    sync.RWMutex
	items map[string]item
	done  chan struct{}
	once  sync.Once
}

// NewMemory construye el cache y arranca el janitor que barre entradas vencidas.
func NewMemory() *Memory {
	m := &Memory{
		items: make(map[string]item),
		done:  make(chan struct{}),
	}
	go m.janitor()
	return m
}

// Get devuelve el valor si existe y no venció. Expiración perezosa: una
// entrada vencida se borra en la lectura aunque el janitor no haya pasado.
func (m *Memory) Get(key string) (any, bool) {
	m.mu.RLock()
	it, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	if time.Now().After(it.expiresAt) {
		m.mu.Lock()
		delete(m.items, key)
		m.mu.Unlock()
		return nil, false
	}
	return it.value, true
}

// Set guarda un valor con vigencia ttl. Con ttl <= 0 no se cachea.
func (m *Memory) Set(key string, value any, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	m.mu.Lock()
	m.items[key] = item{value: value, expiresAt: time.Now().Add(ttl)}
	m.mu.Unlock()
}

// InvalidatePrefix elimina todas las claves que empiecen por prefix.
func (m *Memory) InvalidatePrefix(prefix string) {
	m.mu.Lock()
	for key := range m.items {
		if strings.HasPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	m.mu.Unlock()
}

// Close detiene el janitor.
func (m *Memory) Close() {
	m.once.Do(func() { close(m.done) })
}

func (m *Memory) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			now := time.Now()
			m.mu.Lock()
			for key, it := range m.items {
				if now.After(it.expiresAt) {
					delete(m.items, key)
				}
			}
			m.mu.Unlock()
		}
	}
}
