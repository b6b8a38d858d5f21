package handling

import (
	"fmt"
	"knitcraft_server/lib"
	"knitcraft_server/structs"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// URLParamUUID reads a chi path parameter as a UUID.
func URLParamUUID(r *http.Request, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, lib.NewValidationError(name, "must be a valid UUID")
	}
	return id, nil
}

func parseInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, lib.NewValidationError(key, "must be a number")
	}
	return val, nil
}

func parseBool(r *http.Request, key string) (*bool, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, lib.NewValidationError(key, "must be true or false")
	}
	return &val, nil
}

func parseDecimal(r *http.Request, key string) (*decimal.Decimal, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	val, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, lib.NewValidationError(key, "must be a decimal number")
	}
	return &val, nil
}

func parseOptionalUUID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, lib.NewValidationError(key, "must be a valid UUID")
	}
	return &id, nil
}

// ParsePage reads page and pageSize; page_size is accepted as an alias.
func ParsePage(r *http.Request) (int, int, error) {
	page, err := parseInt(r, "page")
	if err != nil {
		return 0, 0, err
	}
	key := "pageSize"
	if r.URL.Query().Get(key) == "" {
		key = "page_size"
	}
	pageSize, err := parseInt(r, key)
	if err != nil {
		return 0, 0, err
	}
	return page, pageSize, nil
}

// ParseProductListOptions parses the catalog query string.
func ParseProductListOptions(r *http.Request) (*structs.ProductListOptions, error) {
	query := r.URL.Query()
	opts := &structs.ProductListOptions{Search: strings.TrimSpace(query.Get("search"))}

	var err error
	if opts.Page, opts.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}
	if opts.MinPrice, err = parseDecimal(r, "minPrice"); err != nil {
		return nil, err
	}
	if opts.MaxPrice, err = parseDecimal(r, "maxPrice"); err != nil {
		return nil, err
	}
	if opts.MinPrice != nil && opts.MaxPrice != nil && opts.MinPrice.GreaterThan(*opts.MaxPrice) {
		return nil, lib.NewValidationError("maxPrice", "must be greater than or equal to minPrice")
	}
	if opts.Customizable, err = parseBool(r, "customizable"); err != nil {
		return nil, err
	}

	switch sort := structs.ProductSort(query.Get("sort")); sort {
	case "", structs.ProductSortNewest, structs.ProductSortPriceAsc, structs.ProductSortPriceDesc, structs.ProductSortName:
		opts.Sort = sort
	default:
		return nil, lib.NewValidationError("sort", fmt.Sprintf("unknown sort %q", sort))
	}

	return opts, nil
}

// ParseOrderListOptions parses the admin order listing filters.
func ParseOrderListOptions(r *http.Request) (*structs.OrderListOptions, error) {
	query := r.URL.Query()
	opts := &structs.OrderListOptions{
		Status:        strings.ToUpper(query.Get("status")),
		PaymentStatus: strings.ToUpper(query.Get("paymentStatus")),
		Search:        strings.TrimSpace(query.Get("search")),
	}

	var err error
	if opts.Page, opts.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}
	return opts, nil
}

// ParseReviewFilter parses productId and pagination for review listings.
func ParseReviewFilter(r *http.Request) (*structs.ReviewFilter, error) {
	filter := &structs.ReviewFilter{}

	var err error
	if filter.ProductID, err = parseOptionalUUID(r, "productId"); err != nil {
		return nil, err
	}
	if filter.Page, filter.PageSize, err = ParsePage(r); err != nil {
		return nil, err
	}
	return filter, nil
}

// ParseProductID reads the optional productId query parameter.
func ParseProductID(r *http.Request) (*uuid.UUID, error) {
	return parseOptionalUUID(r, "productId")
}

// ParseLimit reads the limit query parameter, zero when absent.
func ParseLimit(r *http.Request) (int, error) {
	return parseInt(r, "limit")
}

// ParseBoolQuery reads a boolean query parameter, false when absent.
func ParseBoolQuery(r *http.Request, key string) (bool, error) {
	val, err := parseBool(r, key)
	if err != nil || val == nil {
		return false, err
	}
	return *val, nil
}
