package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	domorder "example.com/loja/internal/domain/order"
	domproduct "example.com/loja/internal/domain/product"
	checkoutuc "example.com/loja/internal/usecase/checkout"
	orderuc "example.com/loja/internal/usecase/order"
	productuc "example.com/loja/internal/usecase/product"
)

// HealthCheck reports whether a backing service is reachable.
type HealthCheck func(ctx context.Context) error

type API struct {
	productSvc  *productuc.Service
	checkoutSvc *checkoutuc.Service
	orderSvc    *orderuc.Service
	health      map[string]HealthCheck
	listOrders  bool
	validator   *validator.Validate
	log         *zap.Logger
}

type Dependencies struct {
	ProductService  *productuc.Service
	CheckoutService *checkoutuc.Service
	OrderService    *orderuc.Service
	HealthChecks    map[string]HealthCheck
	// ExposeOrderList mounts GET /api/orders. The listing carries customer
	// contact data and there is no authentication, so it stays off unless an
	// operator runs the server on a private network.
	ExposeOrderList bool
	Logger          *zap.Logger
}

func NewAPI(deps Dependencies) *API {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &API{
		productSvc:  deps.ProductService,
		checkoutSvc: deps.CheckoutService,
		orderSvc:    deps.OrderService,
		health:      deps.HealthChecks,
		listOrders:  deps.ExposeOrderList,
		validator:   validate,
		log:         log,
	}
}

func (a *API) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(requestLogger(a.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.AllowContentType("application/json", "text/plain"))

	r.Get("/health", a.handleHealth)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", a.handleListProducts)
		r.Get("/categories", a.handleListCategories)
		r.Post("/orders", a.handleCreateOrder)
		if a.listOrders {
			r.Get("/orders", a.handleListOrders)
		}
		r.Get("/orders/{id}", a.handleGetOrder)
	})

	return r
}

func (a *API) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	checks := make(map[string]string, len(a.health))
	for name, check := range a.health {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		err := check(ctx)
		cancel()
		if err != nil {
			status = http.StatusServiceUnavailable
			checks[name] = err.Error()
			continue
		}
		checks[name] = "ok"
	}

	body := map[string]any{"status": "ok"}
	if status != http.StatusOK {
		body["status"] = "degraded"
	}
	if len(checks) > 0 {
		body["checks"] = checks
	}
	writeJSON(w, status, body)
}

func (a *API) decodeAndValidate(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := a.validator.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return validationError(verrs)
		}
		return err
	}
	return nil
}

func validationError(verrs validator.ValidationErrors) error {
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		ns := fe.Namespace()
		if i := strings.Index(ns, "."); i >= 0 {
			ns = ns[i+1:]
		}
		parts = append(parts, fmt.Sprintf("%s (%s)", ns, fe.Tag()))
	}
	return fmt.Errorf("invalid order data: %s", strings.Join(parts, ", "))
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

func respondError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{OK: false, Message: err.Error()})
}

func mapProduct(p *domproduct.Product) map[string]any {
	m := map[string]any{
		"id":        p.ID,
		"title":     p.Title,
		"price":     p.Price.InexactFloat64(),
		"stock":     p.Stock,
		"image_url": p.ImageURL,
	}
	if p.CompareAtPrice != nil {
		m["compare_at_price"] = p.CompareAtPrice.InexactFloat64()
	}
	if p.Category != "" {
		m["category"] = p.Category
	}
	return m
}

func mapOrder(o *domorder.Order) map[string]any {
	items := make([]map[string]any, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, map[string]any{
			"product_id": item.ProductID,
			"name":       item.Name,
			"price":      item.Price.InexactFloat64(),
			"quantity":   item.Quantity,
		})
	}

	return map[string]any{
		"id":         o.ID,
		"customer":   o.Customer,
		"status":     o.Status,
		"totals":     mapTotals(o),
		"created_at": o.CreatedAt,
		"items":      items,
	}
}

func mapTotals(o *domorder.Order) map[string]any {
	return map[string]any{
		"subtotal": o.Totals.Subtotal.InexactFloat64(),
		"shipping": o.Totals.Shipping.InexactFloat64(),
		"total":    o.Totals.Total.InexactFloat64(),
	}
}

func handleDomainError(w http.ResponseWriter, err error) {
	var reqErr *domorder.RequiredFieldsError
	switch {
	case errors.As(err, &reqErr),
		errors.Is(err, domorder.ErrEmptyOrderItems):
		respondError(w, http.StatusBadRequest, err)
	case errors.Is(err, domorder.ErrCheckoutValidation):
		// covers ErrProductNotFound and ErrOutOfStock raised while reserving
		respondError(w, http.StatusUnprocessableEntity, err)
	case errors.Is(err, domorder.ErrOrderNotFound):
		respondError(w, http.StatusNotFound, err)
	default:
		respondError(w, http.StatusInternalServerError, err)
	}
}
