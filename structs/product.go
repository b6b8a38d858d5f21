package structs

import "github.com/shopspring/decimal"

type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortName      ProductSort = "name"
)

type ProductListOptions struct {
	Page          int
	PageSize      int
	Search        string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	Customizable  *bool
	IncludeHidden bool
	Sort          ProductSort
}

type ProductRequest struct {
	Name               string          `json:"name" validate:"required,min=2,max=200"`
	Slug               string          `json:"slug" validate:"omitempty,max=200"`
	Description        string          `json:"description" validate:"max=5000"`
	Price              decimal.Decimal `json:"price"`
	DiscountPercentage int             `json:"discountPercentage" validate:"gte=0,lte=100"`
	Stock              int             `json:"stock" validate:"gte=0"`
	DeliveryDaysMin    int             `json:"deliveryDaysMin" validate:"gte=0"`
	DeliveryDaysMax    int             `json:"deliveryDaysMax" validate:"gte=0"`
	IsCustomizable     bool            `json:"isCustomizable"`
	AllowWhatsapp      *bool           `json:"allowWhatsapp"`
	AllowEmail         *bool           `json:"allowEmail"`
	IsActive           *bool           `json:"isActive"`
	Images             []string        `json:"images" validate:"dive,url"`
}

type UpdateProductRequest struct {
	Name               *string          `json:"name" validate:"omitempty,min=2,max=200"`
	Slug               *string          `json:"slug" validate:"omitempty,max=200"`
	Description        *string          `json:"description" validate:"omitempty,max=5000"`
	Price              *decimal.Decimal `json:"price"`
	DiscountPercentage *int             `json:"discountPercentage" validate:"omitempty,gte=0,lte=100"`
	Stock              *int             `json:"stock" validate:"omitempty,gte=0"`
	DeliveryDaysMin    *int             `json:"deliveryDaysMin" validate:"omitempty,gte=0"`
	DeliveryDaysMax    *int             `json:"deliveryDaysMax" validate:"omitempty,gte=0"`
	IsCustomizable     *bool            `json:"isCustomizable"`
	AllowWhatsapp      *bool            `json:"allowWhatsapp"`
	AllowEmail         *bool            `json:"allowEmail"`
	IsActive           *bool            `json:"isActive"`
	Images             []string         `json:"images" validate:"omitempty,dive,url"`
}

type VariantRequest struct {
	Name            string           `json:"name" validate:"required,min=1,max=100"`
	DaysMin         int              `json:"daysMin" validate:"gte=0"`
	DaysMax         int              `json:"daysMax" validate:"gte=0"`
	PriceMultiplier *decimal.Decimal `json:"priceMultiplier"`
}

type UpdateVariantRequest struct {
	Name            *string          `json:"name" validate:"omitempty,min=1,max=100"`
	DaysMin         *int             `json:"daysMin" validate:"omitempty,gte=0"`
	DaysMax         *int             `json:"daysMax" validate:"omitempty,gte=0"`
	PriceMultiplier *decimal.Decimal `json:"priceMultiplier"`
}
