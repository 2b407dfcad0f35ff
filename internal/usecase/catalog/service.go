package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	domcategory "example.com/loja/internal/domain/category"
	domproduct "example.com/loja/internal/domain/product"
)

// ErrStale is returned for a response that was overtaken by a newer search.
var ErrStale = errors.New("stale catalog response")

type Query struct {
	Text     string
	Category string
}

// Normalize trims both fields; empty fields are left out of the request.
func (q Query) Normalize() Query {
	return Query{
		Text:     strings.TrimSpace(q.Text),
		Category: strings.TrimSpace(q.Category),
	}
}

type Client interface {
	Search(ctx context.Context, q Query) ([]*domproduct.Product, error)
}

type Result struct {
	Products   []*domproduct.Product
	Categories []string
}

type Service struct {
	client Client
	log    *zap.Logger

	mu       sync.Mutex
	seq      uint64
	cancel   context.CancelFunc
	products []*domproduct.Product
	byID     map[string]*domproduct.Product
}

func NewService(client Client, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{
		client: client,
		log:    log,
		byID:   map[string]*domproduct.Product{},
	}
}

// Search issues a catalog request and makes its result current. Starting a
// search cancels the one still in flight; a response that is no longer the
// latest is dropped with ErrStale. On failure the current set becomes empty.
func (s *Service) Search(ctx context.Context, q Query) (Result, error) {
	q = q.Normalize()

	s.mu.Lock()
	s.seq++
	token := s.seq
	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.mu.Unlock()

	products, err := s.client.Search(ctx, q)

	s.mu.Lock()
	defer s.mu.Unlock()
	cancel()
	if token != s.seq {
		s.log.Debug("dropping stale catalog response",
			zap.Uint64("token", token), zap.Uint64("latest", s.seq))
		return Result{}, ErrStale
	}
	s.cancel = nil

	if err != nil {
		s.setProducts(nil)
		if !errors.Is(err, domproduct.ErrCatalogUnavailable) {
			err = fmt.Errorf("%w: %w", domproduct.ErrCatalogUnavailable, err)
		}
		s.log.Warn("catalog search failed",
			zap.String("q", q.Text), zap.String("category", q.Category), zap.Error(err))
		return Result{Products: []*domproduct.Product{}, Categories: []string{}}, err
	}

	s.setProducts(products)
	return Result{
		Products:   s.snapshot(),
		Categories: domcategory.Labels(products),
	}, nil
}

// Products returns the most recently fetched set in service order.
func (s *Service) Products() []*domproduct.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Lookup finds a product in the most recently fetched set.
func (s *Service) Lookup(id string) (*domproduct.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	cloned := *p
	return &cloned, true
}

func (s *Service) setProducts(products []*domproduct.Product) {
	s.products = make([]*domproduct.Product, 0, len(products))
	s.byID = make(map[string]*domproduct.Product, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		s.products = append(s.products, p)
		s.byID[p.ID] = p
	}
}

func (s *Service) snapshot() []*domproduct.Product {
	out := make([]*domproduct.Product, 0, len(s.products))
	for _, p := range s.products {
		cloned := *p
		out = append(out, &cloned)
	}
	return out
}
