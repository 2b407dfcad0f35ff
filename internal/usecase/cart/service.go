package cart

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	domcart "example.com/loja/internal/domain/cart"
	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
)

type ProductLookup interface {
	Lookup(id string) (*domproduct.Product, bool)
}

type Checkout struct {
	Customer      domorder.Customer
	AcceptedTerms bool
}

type Service struct {
	store    domcart.Store
	products ProductLookup
	orders   domorder.Submitter
	log      *zap.Logger

	mu         sync.Mutex
	cart       *domcart.Cart
	submitting atomic.Bool
}

func NewService(store domcart.Store, products ProductLookup, orders domorder.Submitter, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		store:    store,
		products: products,
		orders:   orders,
		log:      log,
		cart:     domcart.New(nil),
	}
}

// Load replaces the in-memory cart with the stored one. Missing or
// unreadable state yields an empty cart.
func (s *Service) Load(ctx context.Context) {
	items, err := s.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, domcart.ErrStateNotFound) {
			s.log.Warn("discarding unreadable cart state", zap.Error(err))
		}
		items = nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart = domcart.New(items)
}

// Add puts productID from the latest catalog into the cart. Unknown or
// sold-out products are ignored and reported as false.
func (s *Service) Add(ctx context.Context, productID string, requested int64) (bool, error) {
	p, ok := s.products.Lookup(productID)
	if !ok {
		return false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cart.Add(p, requested) {
		return false, nil
	}
	return true, s.persist(ctx)
}

func (s *Service) SetQuantity(ctx context.Context, lineID string, requested int64) (domcart.LineItem, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	line, ok := s.cart.SetQuantity(lineID, requested)
	if !ok {
		return domcart.LineItem{}, false, nil
	}
	return line, true, s.persist(ctx)
}

func (s *Service) Remove(ctx context.Context, lineID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.cart.Remove(lineID) {
		return false, nil
	}
	return true, s.persist(ctx)
}

func (s *Service) Items() []domcart.LineItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Items()
}

func (s *Service) Count() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Count()
}

func (s *Service) Totals() domprice.Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Totals()
}

// Submitting reports whether an order submission is in flight.
func (s *Service) Submitting() bool {
	return s.submitting.Load()
}

// PlaceOrder checks the preconditions, submits the cart and empties it on
// success. A failed submission leaves the cart as it was.
func (s *Service) PlaceOrder(ctx context.Context, in Checkout) (*domorder.Receipt, error) {
	s.mu.Lock()
	empty := s.cart.IsEmpty()
	s.mu.Unlock()
	if empty {
		return nil, domorder.ErrEmptyCart
	}
	if !in.AcceptedTerms {
		return nil, domorder.ErrTermsNotAccepted
	}
	customer := in.Customer.Trimmed()
	if err := domorder.ValidateCustomer(customer); err != nil {
		return nil, err
	}

	if !s.submitting.CompareAndSwap(false, true) {
		return nil, domorder.ErrSubmissionInFlight
	}
	defer s.submitting.Store(false)

	s.mu.Lock()
	lines := s.cart.Items()
	s.mu.Unlock()

	items := make([]domorder.Item, 0, len(lines))
	for _, line := range lines {
		items = append(items, domorder.Item{ID: line.ID, Qty: line.Qty})
	}

	receipt, err := s.orders.Submit(ctx, customer, items)
	if err != nil {
		var subErr *domorder.SubmissionError
		if !errors.As(err, &subErr) {
			err = &domorder.SubmissionError{Err: err}
		}
		s.log.Warn("order submission failed", zap.Int("items", len(items)), zap.Error(err))
		return nil, err
	}

	s.mu.Lock()
	s.cart.Clear()
	if err := s.persist(ctx); err != nil {
		s.log.Error("order placed but emptied cart was not saved",
			zap.String("order_id", receipt.OrderID), zap.Error(err))
	}
	s.mu.Unlock()

	s.log.Info("order placed", zap.String("order_id", receipt.OrderID))
	return receipt, nil
}

// persist must be called with s.mu held.
func (s *Service) persist(ctx context.Context) error {
	if err := s.store.Save(ctx, s.cart.Items()); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}
