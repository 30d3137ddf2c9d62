package repository

import (
	"context"
	"sync"
	"time"

	"catalog-service/models"

	"github.com/google/uuid"
)

// MemoryAdapter is an in-memory ProductRepo implementation used by tests and
// local runs without a database. It applies the same field-map update
// semantics as the mongo adapter.
type MemoryAdapter struct {
	mu       sync.RWMutex
	products map[uuid.UUID]*models.Product
	order    []uuid.UUID
}

func NewMemoryAdapter() *MemoryAdapter {
	return &MemoryAdapter{
		products: make(map[uuid.UUID]*models.Product),
	}
}

func (m *MemoryAdapter) Create(ctx context.Context, product *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	clone := *product
	m.products[product.ID] = &clone
	m.order = append(m.order, product.ID)
	return nil
}

// FindAll returns products in insertion order.
func (m *MemoryAdapter) FindAll(ctx context.Context) ([]*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := []*models.Product{}
	for _, id := range m.order {
		if p, ok := m.products[id]; ok {
			clone := *p
			products = append(products, &clone)
		}
	}
	return products, nil
}

func (m *MemoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (m *MemoryAdapter) Update(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (*models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, ok := m.products[id]
	if !ok {
		return nil, ErrNotFound
	}

	for k, v := range fields {
		switch k {
		case "name":
			if s, ok := v.(string); ok {
				p.Name = s
			}
		case "price":
			if f, ok := v.(float64); ok {
				p.Price = f
			}
		case "category":
			if s, ok := v.(string); ok {
				p.Category = s
			}
		case "description":
			if s, ok := v.(string); ok {
				p.Description = s
			}
		case "image":
			if s, ok := v.(string); ok {
				p.Image = &s
			}
		case "in_stock":
			if b, ok := v.(bool); ok {
				p.InStock = b
			}
		}
	}
	p.UpdatedAt = time.Now().UTC()

	clone := *p
	return &clone, nil
}

func (m *MemoryAdapter) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	for i, oid := range m.order {
		if oid == id {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
