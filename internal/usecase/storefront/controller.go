package storefront

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/language"

	domcart "example.com/loja/internal/domain/cart"
	domcategory "example.com/loja/internal/domain/category"
	domorder "example.com/loja/internal/domain/order"
	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
	cartuc "example.com/loja/internal/usecase/cart"
	cataloguc "example.com/loja/internal/usecase/catalog"
)

const (
	msgCatalogError = "Could not load products. Please try again later."
	msgSubmitting   = "Processing order..."
)

type Filter struct {
	Text     string
	Category string
	Sort     domproduct.SortKey
}

type Options struct {
	Quiescence time.Duration
	Language   language.Tag
	Money      *domprice.MoneyFormatter
	Logger     *zap.Logger
}

// Controller owns all storefront state: the filter, the fetched catalog, the
// cart and what the view shows. Adapters call its methods and render the
// getters; they never mutate state directly.
type Controller struct {
	catalog  *cataloguc.Service
	cart     *cartuc.Service
	debounce *cataloguc.Debouncer
	lang     language.Tag
	money    *domprice.MoneyFormatter
	log      *zap.Logger

	// ctx scopes searches started by the debouncer.
	ctx    context.Context
	cancel context.CancelFunc

	mu         sync.Mutex
	filter     Filter
	categories []string
	catalogErr error
	cartOpen   bool
	status     string
	onChange   func()
}

func New(catalog *cataloguc.Service, cart *cartuc.Service, opts Options) *Controller {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	lang := opts.Language
	if lang == language.Und {
		lang = language.BrazilianPortuguese
	}
	money := opts.Money
	if money == nil {
		money = domprice.NewMoneyFormatter(lang, "BRL")
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		catalog:  catalog,
		cart:     cart,
		debounce: cataloguc.NewDebouncer(opts.Quiescence),
		lang:     lang,
		money:    money,
		log:      log,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// OnChange registers a callback run after state changes that happen in the
// background (debounced searches).
func (c *Controller) OnChange(fn func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onChange = fn
}

// Load is the page-load sequence: restore the cart, then fetch the catalog.
func (c *Controller) Load(ctx context.Context) error {
	c.cart.Load(ctx)
	return c.refresh(ctx)
}

// SetSearchText schedules a search once typing has been quiet for the
// quiescence window.
func (c *Controller) SetSearchText(text string) {
	c.mu.Lock()
	c.filter.Text = text
	c.mu.Unlock()

	c.debounce.Do(func() {
		err := c.refresh(c.ctx)
		if errors.Is(err, cataloguc.ErrStale) || errors.Is(err, context.Canceled) {
			return
		}
		c.mu.Lock()
		fn := c.onChange
		c.mu.Unlock()
		if fn != nil {
			fn()
		}
	})
}

// SetCategory searches immediately.
func (c *Controller) SetCategory(ctx context.Context, category string) error {
	c.mu.Lock()
	c.filter.Category = category
	c.mu.Unlock()
	return c.refresh(ctx)
}

// Search sets both query filters and fetches at once, bypassing the
// debounce. Non-interactive adapters use it.
func (c *Controller) Search(ctx context.Context, text, category string) error {
	c.debounce.Cancel()
	c.mu.Lock()
	c.filter.Text = text
	c.filter.Category = category
	c.mu.Unlock()
	return c.refresh(ctx)
}

// SetSort only reorders what is already fetched.
func (c *Controller) SetSort(key domproduct.SortKey) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.filter.Sort = key
}

// Refresh re-runs the current query immediately.
func (c *Controller) Refresh(ctx context.Context) error {
	return c.refresh(ctx)
}

func (c *Controller) refresh(ctx context.Context) error {
	c.mu.Lock()
	q := cataloguc.Query{Text: c.filter.Text, Category: c.filter.Category}
	c.mu.Unlock()

	res, err := c.catalog.Search(ctx, q)
	if errors.Is(err, cataloguc.ErrStale) {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.catalogErr = err
	if err != nil {
		// the selector keeps its options and selection for the retry
		return err
	}
	c.categories = res.Categories
	c.filter.Category = domcategory.Resolve(c.filter.Category, res.Categories)
	return nil
}

func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Products is the current catalog ordered by the selected sort key.
func (c *Controller) Products() []*domproduct.Product {
	c.mu.Lock()
	key := c.filter.Sort
	c.mu.Unlock()
	return cataloguc.Sort(c.catalog.Products(), key, c.lang)
}

func (c *Controller) Categories() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.categories...)
}

// CatalogError is the user-visible message for a failed catalog fetch, or "".
func (c *Controller) CatalogError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.catalogErr == nil {
		return ""
	}
	return msgCatalogError
}

// Add puts a product in the cart and surfaces the cart view.
func (c *Controller) Add(ctx context.Context, productID string, requested int64) error {
	added, err := c.cart.Add(ctx, productID, requested)
	if !added {
		return err
	}
	c.OpenCart()
	return err
}

func (c *Controller) SetQuantity(ctx context.Context, lineID string, requested int64) (domcart.LineItem, error) {
	line, _, err := c.cart.SetQuantity(ctx, lineID, requested)
	return line, err
}

func (c *Controller) Remove(ctx context.Context, lineID string) error {
	_, err := c.cart.Remove(ctx, lineID)
	return err
}

func (c *Controller) CartItems() []domcart.LineItem {
	return c.cart.Items()
}

func (c *Controller) CartCount() int64 {
	return c.cart.Count()
}

func (c *Controller) Totals() domprice.Totals {
	return c.cart.Totals()
}

func (c *Controller) OpenCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = true
}

// CloseCart also handles the escape gesture.
func (c *Controller) CloseCart() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cartOpen = false
}

func (c *Controller) CartOpen() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cartOpen
}

// Submitting is true while an order is in flight; adapters disable the
// submit control with it.
func (c *Controller) Submitting() bool {
	return c.cart.Submitting()
}

func (c *Controller) Status() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// PlaceOrder submits the cart. Every outcome is reported through Status; the
// returned error is the same outcome for callers that branch on it.
func (c *Controller) PlaceOrder(ctx context.Context, in cartuc.Checkout) (*domorder.Receipt, error) {
	if !c.cart.Submitting() {
		c.setStatus(msgSubmitting)
	}

	receipt, err := c.cart.PlaceOrder(ctx, in)
	if err != nil {
		c.setStatus(failureMessage(err))
		return nil, err
	}

	c.setStatus(fmt.Sprintf("Order placed! Number: %s. Total: %s.",
		receipt.OrderID, c.money.Format(receipt.Totals.Total)))

	// stock changed on the server
	if err := c.refresh(ctx); err != nil && !errors.Is(err, cataloguc.ErrStale) {
		c.log.Warn("catalog refresh after order failed", zap.Error(err))
	}
	return receipt, nil
}

func (c *Controller) Money() *domprice.MoneyFormatter {
	return c.money
}

// Close stops pending debounced searches.
func (c *Controller) Close() {
	c.debounce.Stop()
	c.cancel()
}

func (c *Controller) setStatus(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.status = s
}

func failureMessage(err error) string {
	var subErr *domorder.SubmissionError
	if errors.As(err, &subErr) {
		return "Checkout failed: " + subErr.Error()
	}
	return capitalize(err.Error()) + "."
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
