package http

import (
	"net/http"

	"go.uber.org/zap"

	domproduct "example.com/loja/internal/domain/product"
)

func (a *API) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter := domproduct.ListFilter{
		Search:   r.URL.Query().Get("q"),
		Category: r.URL.Query().Get("category"),
	}

	products, err := a.productSvc.List(r.Context(), filter)
	if err != nil {
		a.log.Error("list products", zap.Error(err))
		handleDomainError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(products))
	for _, p := range products {
		resp = append(resp, mapProduct(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": resp})
}

func (a *API) handleListCategories(w http.ResponseWriter, r *http.Request) {
	labels, err := a.productSvc.Categories(r.Context())
	if err != nil {
		a.log.Error("list categories", zap.Error(err))
		handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": labels})
}
