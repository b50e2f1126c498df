package cache

import (
	"sync"

	"github.com/example/storefront/internal/domain"
)

// MemoryProductCache — потокобезопасный кэш товаров. List отдаёт товары в
// порядке первого добавления, повторный Set заменяет товар на месте.
type MemoryProductCache struct {
	mu    sync.RWMutex
	store map[string]domain.Product
	order []string
}

func NewMemoryProductCache() *MemoryProductCache {
	return &MemoryProductCache{store: make(map[string]domain.Product)}
}

func (c *MemoryProductCache) Get(id string) (domain.Product, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.store[id]
	return p, ok
}

func (c *MemoryProductCache) Set(id string, p domain.Product) {
	c.mu.Lock()
	if _, ok := c.store[id]; !ok {
		c.order = append(c.order, id)
	}
	c.store[id] = p
	c.mu.Unlock()
}

func (c *MemoryProductCache) List() []domain.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]domain.Product, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.store[id])
	}
	return out
}

var _ domain.ProductCache = (*MemoryProductCache)(nil)
