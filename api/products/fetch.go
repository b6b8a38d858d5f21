package products

import (
	"knitcraft_server/database"
	"knitcraft_server/handling"
	"net/http"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/go-chi/chi/v5"
)

// FetchProducts handles GET /products with filtering, sorting and pagination.
// Only active products are listed.
func (p *ProductRoutesManager) FetchProducts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		p.logger.Warn("Invalid query parameters", gecho.Field("error", err))
		handling.RespondError(err, "Invalid query parameters", p.logger, w)
		return
	}
	opts.IncludeHidden = false

	products, total, err := p.productService.ListProducts(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", p.logger, w)
		return
	}

	page, pageSize := database.NormalizePage(opts.Page, opts.PageSize)
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   products,
			"pagination": database.NewPagination(page, pageSize, total),
			"meta": map[string]any{
				"query_time_ms": time.Since(start).Milliseconds(),
				"count":         len(products),
			},
		}),
		gecho.Send(),
	)
}

// FetchProductBySlug handles GET /products/{slug}.
func (p *ProductRoutesManager) FetchProductBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	product, err := p.productService.GetProductBySlug(r.Context(), slug)
	if err != nil {
		handling.RespondError(err, "Product", p.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}
