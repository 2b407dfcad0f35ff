package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"

	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
)

type OrderRepository struct {
	products *ProductRepository

	mu     sync.RWMutex
	orders map[string]*domorder.Order
}

func NewOrderRepository(products *ProductRepository) *OrderRepository {
	return &OrderRepository{
		products: products,
		orders:   make(map[string]*domorder.Order),
	}
}

func (r *OrderRepository) CreateFromItems(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	changes := make([]domproduct.StockChange, 0, len(o.Items))
	for _, item := range o.Items {
		changes = append(changes, domproduct.StockChange{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	snapshot, err := r.products.reserve(changes)
	if err != nil {
		return nil, err
	}

	subtotal := decimal.Zero
	items := make([]domorder.OrderItem, 0, len(o.Items))
	for _, item := range o.Items {
		p := snapshot[item.ProductID]
		subtotal = subtotal.Add(domprice.LineTotal(p.Price, item.Quantity))
		items = append(items, domorder.OrderItem{
			ProductID: item.ProductID,
			Name:      p.Title,
			Price:     p.Price,
			Quantity:  item.Quantity,
		})
	}

	created := *o
	created.Items = items
	created.Totals = domprice.Compute(subtotal)

	r.mu.Lock()
	stored := created
	r.orders[created.ID] = &stored
	r.mu.Unlock()

	return &created, nil
}

func (r *OrderRepository) List(ctx context.Context) ([]*domorder.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	orders := make([]*domorder.Order, 0, len(r.orders))
	for _, o := range r.orders {
		cp := *o
		orders = append(orders, &cp)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (r *OrderRepository) GetByID(ctx context.Context, id string) (*domorder.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, domorder.ErrOrderNotFound
	}
	cp := *o
	return &cp, nil
}
