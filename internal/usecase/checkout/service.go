package checkout

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domorder "example.com/loja/internal/domain/order"
)

type OrderRepository interface {
	CreateFromItems(ctx context.Context, o *domorder.Order) (*domorder.Order, error)
}

// Notifier tells the customer their order was received.
type Notifier interface {
	OrderPlaced(ctx context.Context, o *domorder.Order) error
}

type Service struct {
	orderRepo OrderRepository
	notifier  Notifier
	log       *zap.Logger

	now   func() time.Time
	newID func() string
}

func NewService(orderRepo OrderRepository, notifier Notifier, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		orderRepo: orderRepo,
		notifier:  notifier,
		log:       log,
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

func (s *Service) Checkout(ctx context.Context, customer domorder.Customer, items []domorder.Item) (*domorder.Order, error) {
	customer = customer.Trimmed()
	if err := domorder.ValidateCustomer(customer); err != nil {
		return nil, err
	}

	orderItems, err := mergeItems(items)
	if err != nil {
		return nil, err
	}

	order, err := s.orderRepo.CreateFromItems(ctx, &domorder.Order{
		ID:        s.newID(),
		Customer:  customer,
		Items:     orderItems,
		Status:    domorder.StatusProcessing,
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("order placed",
		zap.String("order_id", order.ID),
		zap.Int("items", len(order.Items)),
		zap.String("total", order.Totals.Total.StringFixed(2)),
	)

	if s.notifier != nil {
		if err := s.notifier.OrderPlaced(ctx, order); err != nil {
			s.log.Warn("order confirmation not sent", zap.String("order_id", order.ID), zap.Error(err))
		}
	}

	return order, nil
}

// mergeItems folds repeated product ids into one line, keeping first-seen order.
func mergeItems(items []domorder.Item) ([]domorder.OrderItem, error) {
	if len(items) == 0 {
		return nil, domorder.ErrEmptyOrderItems
	}

	index := make(map[string]int, len(items))
	merged := make([]domorder.OrderItem, 0, len(items))
	for _, item := range items {
		id := strings.TrimSpace(item.ID)
		if id == "" || item.Qty <= 0 {
			return nil, domorder.ErrCheckoutValidation
		}
		if i, ok := index[id]; ok {
			merged[i].Quantity += item.Qty
			continue
		}
		index[id] = len(merged)
		merged = append(merged, domorder.OrderItem{ProductID: id, Quantity: item.Qty})
	}
	return merged, nil
}
