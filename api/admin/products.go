package admin

import (
	"knitcraft_server/database"
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
)

// ListProducts returns the catalog including hidden products.
func (ar *AdminRoutesManager) ListProducts(w http.ResponseWriter, r *http.Request) {
	opts, err := handling.ParseProductListOptions(r)
	if err != nil {
		handling.RespondError(err, "Invalid query parameters", ar.logger, w)
		return
	}
	opts.IncludeHidden = true

	products, total, err := ar.productService.ListProducts(r.Context(), opts)
	if err != nil {
		handling.HandleError(err, "Failed to fetch products", ar.logger, w)
		return
	}

	page, pageSize := database.NormalizePage(opts.Page, opts.PageSize)
	gecho.Success(w,
		gecho.WithData(map[string]any{
			"products":   products,
			"pagination": database.NewPagination(page, pageSize, total),
		}),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid product id", ar.logger, w)
		return
	}

	product, err := ar.productService.GetProduct(r.Context(), id)
	if err != nil {
		handling.RespondError(err, "Product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateProduct(w http.ResponseWriter, r *http.Request) {
	body, err := lib.ExtractAndValidateBody[structs.ProductRequest](r)
	if err != nil {
		handling.RespondError(err, "Product", ar.logger, w)
		return
	}

	product, err := ar.productService.CreateProduct(r.Context(), body)
	if err != nil {
		handling.RespondError(err, "Failed to create product", ar.logger, w)
		return
	}

	ar.logger.Info("Product created", gecho.Field("product_id", product.ID), gecho.Field("slug", product.Slug))
	gecho.Success(w,
		gecho.WithMessage("Product created"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid product id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateProductRequest](r)
	if err != nil {
		handling.RespondError(err, "Product", ar.logger, w)
		return
	}

	product, err := ar.productService.UpdateProduct(r.Context(), id, body)
	if err != nil {
		handling.RespondError(err, "Product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Product updated"),
		gecho.WithData(product),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid product id", ar.logger, w)
		return
	}

	if err := ar.productService.DeleteProduct(r.Context(), id); err != nil {
		handling.RespondError(err, "Product", ar.logger, w)
		return
	}

	ar.logger.Info("Product deleted", gecho.Field("product_id", id))
	gecho.Success(w,
		gecho.WithMessage("Product deleted"),
		gecho.Send(),
	)
}
