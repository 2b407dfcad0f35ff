package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
)

type mockOrderRepository struct {
	received  *domorder.Order
	createErr error
}

func (m *mockOrderRepository) CreateFromItems(ctx context.Context, o *domorder.Order) (*domorder.Order, error) {
	m.received = o
	if m.createErr != nil {
		return nil, m.createErr
	}
	created := *o
	created.Totals = domprice.Compute(decimal.NewFromInt(100))
	return &created, nil
}

type mockNotifier struct {
	sent []string
	err  error
}

func (m *mockNotifier) OrderPlaced(ctx context.Context, o *domorder.Order) error {
	m.sent = append(m.sent, o.ID)
	return m.err
}

func validCustomer() domorder.Customer {
	return domorder.Customer{
		Name:    "Ana",
		Email:   "ana@example.com",
		Address: "Rua A, 1",
		City:    "Recife",
		State:   "PE",
		Zip:     "50000-000",
	}
}

func newTestService(repo *mockOrderRepository, notifier Notifier) *Service {
	svc := NewService(repo, notifier, nil)
	svc.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	svc.newID = func() string { return "order-1" }
	return svc
}

func TestCheckout_Success(t *testing.T) {
	repo := &mockOrderRepository{}
	notifier := &mockNotifier{}
	svc := newTestService(repo, notifier)

	order, err := svc.Checkout(context.Background(), validCustomer(), []domorder.Item{
		{ID: "1", Qty: 2},
		{ID: "2", Qty: 1},
		{ID: "1", Qty: 1},
	})

	require.NoError(t, err)
	require.Equal(t, "order-1", order.ID)
	require.Equal(t, domorder.StatusProcessing, order.Status)
	require.Equal(t, []domorder.OrderItem{
		{ProductID: "1", Quantity: 3},
		{ProductID: "2", Quantity: 1},
	}, repo.received.Items)
	require.Equal(t, time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC), repo.received.CreatedAt)
	require.Equal(t, []string{"order-1"}, notifier.sent)
}

func TestCheckout_TrimsCustomer(t *testing.T) {
	repo := &mockOrderRepository{}
	svc := newTestService(repo, nil)

	c := validCustomer()
	c.Name = "  Ana  "
	c.Notes = " porta azul "

	_, err := svc.Checkout(context.Background(), c, []domorder.Item{{ID: "1", Qty: 1}})

	require.NoError(t, err)
	require.Equal(t, "Ana", repo.received.Customer.Name)
	require.Equal(t, "porta azul", repo.received.Customer.Notes)
}

func TestCheckout_MissingFields(t *testing.T) {
	repo := &mockOrderRepository{}
	svc := newTestService(repo, nil)

	c := validCustomer()
	c.Email = "   "
	c.Zip = ""

	_, err := svc.Checkout(context.Background(), c, []domorder.Item{{ID: "1", Qty: 1}})

	var reqErr *domorder.RequiredFieldsError
	require.ErrorAs(t, err, &reqErr)
	require.Equal(t, []string{"email", "zip"}, reqErr.Fields)
	require.ErrorIs(t, err, domorder.ErrCheckoutValidation)
	require.Nil(t, repo.received, "repository must not be called")
}

func TestCheckout_InvalidItems(t *testing.T) {
	tests := []struct {
		name    string
		items   []domorder.Item
		wantErr error
	}{
		{name: "no items", items: nil, wantErr: domorder.ErrEmptyOrderItems},
		{name: "zero quantity", items: []domorder.Item{{ID: "1", Qty: 0}}, wantErr: domorder.ErrCheckoutValidation},
		{name: "negative quantity", items: []domorder.Item{{ID: "1", Qty: -2}}, wantErr: domorder.ErrCheckoutValidation},
		{name: "blank id", items: []domorder.Item{{ID: " ", Qty: 1}}, wantErr: domorder.ErrCheckoutValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockOrderRepository{}
			svc := newTestService(repo, nil)

			order, err := svc.Checkout(context.Background(), validCustomer(), tt.items)

			require.ErrorIs(t, err, tt.wantErr)
			require.Nil(t, order)
			require.Nil(t, repo.received)
		})
	}
}

func TestCheckout_RepositoryError(t *testing.T) {
	repo := &mockOrderRepository{createErr: domorder.ErrCheckoutValidation}
	notifier := &mockNotifier{}
	svc := newTestService(repo, notifier)

	order, err := svc.Checkout(context.Background(), validCustomer(), []domorder.Item{{ID: "1", Qty: 1}})

	require.ErrorIs(t, err, domorder.ErrCheckoutValidation)
	require.Nil(t, order)
	require.Empty(t, notifier.sent)
}

func TestCheckout_NotifierFailureIsNotFatal(t *testing.T) {
	repo := &mockOrderRepository{}
	notifier := &mockNotifier{err: errors.New("smtp down")}
	svc := newTestService(repo, notifier)

	order, err := svc.Checkout(context.Background(), validCustomer(), []domorder.Item{{ID: "1", Qty: 1}})

	require.NoError(t, err)
	require.Equal(t, "order-1", order.ID)
	require.Len(t, notifier.sent, 1)
}

func TestNewService_AssignsUUIDs(t *testing.T) {
	repo := &mockOrderRepository{}
	svc := NewService(repo, nil, nil)

	a, err := svc.Checkout(context.Background(), validCustomer(), []domorder.Item{{ID: "1", Qty: 1}})
	require.NoError(t, err)
	b, err := svc.Checkout(context.Background(), validCustomer(), []domorder.Item{{ID: "1", Qty: 1}})
	require.NoError(t, err)

	require.Len(t, a.ID, 36)
	require.NotEqual(t, a.ID, b.ID)
}
