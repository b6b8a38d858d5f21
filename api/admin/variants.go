package admin

import (
	"knitcraft_server/handling"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

func variantParams(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	productID, err := handling.URLParamUUID(r, "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	variantID, err := handling.URLParamUUID(r, "variantId")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return productID, variantID, nil
}

func (ar *AdminRoutesManager) ListVariants(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid product id", ar.logger, w)
		return
	}

	variants, err := ar.productService.ListVariants(r.Context(), productID)
	if err != nil {
		handling.RespondError(err, "Product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithData(variants),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) CreateVariant(w http.ResponseWriter, r *http.Request) {
	productID, err := handling.URLParamUUID(r, "id")
	if err != nil {
		handling.RespondError(err, "Invalid product id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.VariantRequest](r)
	if err != nil {
		handling.RespondError(err, "Variant", ar.logger, w)
		return
	}

	variant, err := ar.productService.CreateVariant(r.Context(), productID, body)
	if err != nil {
		handling.RespondError(err, "Product", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Variant created"),
		gecho.WithData(variant),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	productID, variantID, err := variantParams(r)
	if err != nil {
		handling.RespondError(err, "Invalid id", ar.logger, w)
		return
	}

	body, err := lib.ExtractAndValidateBody[structs.UpdateVariantRequest](r)
	if err != nil {
		handling.RespondError(err, "Variant", ar.logger, w)
		return
	}

	variant, err := ar.productService.UpdateVariant(r.Context(), productID, variantID, body)
	if err != nil {
		handling.RespondError(err, "Variant", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Variant updated"),
		gecho.WithData(variant),
		gecho.Send(),
	)
}

func (ar *AdminRoutesManager) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	productID, variantID, err := variantParams(r)
	if err != nil {
		handling.RespondError(err, "Invalid id", ar.logger, w)
		return
	}

	if err := ar.productService.DeleteVariant(r.Context(), productID, variantID); err != nil {
		handling.RespondError(err, "Variant", ar.logger, w)
		return
	}

	gecho.Success(w,
		gecho.WithMessage("Variant deleted"),
		gecho.Send(),
	)
}
