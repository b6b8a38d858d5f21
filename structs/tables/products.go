package tables

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Product struct {
	tableName          struct{}         `bun:"table:products,alias:p"`
	ID                 uuid.UUID        `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Slug               string           `bun:"slug,unique,notnull" json:"slug"`
	Name               string           `bun:"name,notnull" json:"name"`
	Description        string           `bun:"description,notnull" json:"description"`
	Price              decimal.Decimal  `bun:"price,type:numeric(12,2),notnull" json:"price"`
	DiscountPercentage int              `bun:"discount_percentage,notnull,default:0" json:"discountPercentage"`
	Stock              int              `bun:"stock,notnull,default:0" json:"stock"`
	DeliveryDaysMin    int              `bun:"delivery_days_min,notnull,default:0" json:"deliveryDaysMin"`
	DeliveryDaysMax    int              `bun:"delivery_days_max,notnull,default:0" json:"deliveryDaysMax"`
	IsCustomizable     bool             `bun:"is_customizable,notnull,default:false" json:"isCustomizable"`
	AllowWhatsapp      bool             `bun:"allow_whatsapp,notnull,default:true" json:"allowWhatsapp"`
	AllowEmail         bool             `bun:"allow_email,notnull,default:true" json:"allowEmail"`
	IsActive           bool             `bun:"is_active,notnull,default:true" json:"isActive"`
	Images             []string         `bun:"images,array" json:"images"`
	CreatedAt          time.Time        `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
	UpdatedAt          time.Time        `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
	Variants           []ProductVariant `bun:"rel:has-many,join:id=product_id" json:"variants,omitempty"`
}

// EffectivePrice applies the product discount, rounded to cents.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.DiscountPercentage <= 0 {
		return p.Price.Round(2)
	}
	factor := decimal.NewFromInt(int64(100 - p.DiscountPercentage)).Div(decimal.NewFromInt(100))
	return p.Price.Mul(factor).Round(2)
}

// ProductVariant is a sellable option of a product with its own production window.
type ProductVariant struct {
	tableName       struct{}        `bun:"table:product_variants,alias:pv"`
	ID              uuid.UUID       `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductID       uuid.UUID       `bun:"product_id,type:uuid,notnull" json:"productId"`
	Name            string          `bun:"name,notnull" json:"name"`
	DaysMin         int             `bun:"days_min,notnull" json:"daysMin"`
	DaysMax         int             `bun:"days_max,notnull" json:"daysMax"`
	PriceMultiplier decimal.Decimal `bun:"price_multiplier,type:numeric(6,3),notnull,default:1" json:"priceMultiplier"`
	CreatedAt       time.Time       `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}

func (v *ProductVariant) Contains(days int) bool {
	return days >= v.DaysMin && days <= v.DaysMax
}
