// Package memory keeps products and orders in process memory. The product
// set is loaded from a JSON catalog file and can follow edits to it.
package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	domorder "example.com/loja/internal/domain/order"
	domproduct "example.com/loja/internal/domain/product"
)

type catalogFile struct {
	Products []*domproduct.Product `json:"products"`
}

type ProductRepository struct {
	mu       sync.RWMutex
	products []*domproduct.Product
	byID     map[string]*domproduct.Product
	log      *zap.Logger
}

func NewProductRepository(products []*domproduct.Product) *ProductRepository {
	r := &ProductRepository{log: zap.NewNop()}
	r.replace(products)
	return r
}

// LoadProductFile reads a {"products": [...]} document.
func LoadProductFile(path string) ([]*domproduct.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var doc catalogFile
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse catalog %s: %w", path, err)
	}
	for i, p := range doc.Products {
		if p == nil || p.ID == "" {
			return nil, fmt.Errorf("parse catalog %s: product %d has no id", path, i)
		}
	}
	return doc.Products, nil
}

func (r *ProductRepository) WithLogger(log *zap.Logger) *ProductRepository {
	if log != nil {
		r.log = log
	}
	return r
}

func (r *ProductRepository) replace(products []*domproduct.Product) {
	byID := make(map[string]*domproduct.Product, len(products))
	list := make([]*domproduct.Product, 0, len(products))
	for _, p := range products {
		cp := *p
		if _, dup := byID[cp.ID]; dup {
			continue
		}
		byID[cp.ID] = &cp
		list = append(list, &cp)
	}

	r.mu.Lock()
	r.products = list
	r.byID = byID
	r.mu.Unlock()
}

func (r *ProductRepository) List(ctx context.Context, filter domproduct.ListFilter) ([]*domproduct.Product, error) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	category := strings.TrimSpace(filter.Category)

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []*domproduct.Product{}
	for _, p := range r.products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		cp := *p
		products = append(products, &cp)
	}
	return products, nil
}

func (r *ProductRepository) GetByIDs(ctx context.Context, ids []string) ([]*domproduct.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	products := make([]*domproduct.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := r.byID[id]; ok {
			cp := *p
			products = append(products, &cp)
		}
	}
	return products, nil
}

// reserve checks every change against current stock and applies all of
// them, or none.
func (r *ProductRepository) reserve(changes []domproduct.StockChange) (map[string]domproduct.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	need := make(map[string]int64, len(changes))
	order := make([]string, 0, len(changes))
	for _, c := range changes {
		if _, seen := need[c.ProductID]; !seen {
			order = append(order, c.ProductID)
		}
		need[c.ProductID] += c.Quantity
	}

	snapshot := make(map[string]domproduct.Product, len(need))
	for _, id := range order {
		p, ok := r.byID[id]
		if !ok {
			return nil, domorder.Rejected(domproduct.Unavailable(id, domproduct.ErrProductNotFound))
		}
		if p.Stock < need[id] {
			return nil, domorder.Rejected(domproduct.Unavailable(id, domproduct.ErrOutOfStock))
		}
		snapshot[id] = *p
	}
	for id, qty := range need {
		r.byID[id].Stock -= qty
	}
	return snapshot, nil
}

// Watch reloads the catalog file whenever it is written, until ctx is done.
// A file that fails to parse leaves the current products in place.
func (r *ProductRepository) Watch(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watcher: %w", err)
	}
	defer watcher.Close()

	// Editors often replace the file, so watch the directory.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}
	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			products, err := LoadProductFile(path)
			if err != nil {
				r.log.Warn("catalog reload failed", zap.String("path", path), zap.Error(err))
				continue
			}
			r.replace(products)
			r.log.Info("catalog reloaded", zap.String("path", path), zap.Int("products", len(products)))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.log.Warn("catalog watcher error", zap.Error(err))
		}
	}
}
