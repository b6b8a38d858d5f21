package tables

import (
	"time"

	"github.com/google/uuid"
)

type Review struct {
	tableName   struct{}   `bun:"table:reviews,alias:r"`
	Id          uuid.UUID  `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	ProductId   *uuid.UUID `bun:"product_id,type:uuid,nullzero" json:"productId,omitempty"`
	UserId      uuid.UUID  `bun:"user_id,type:uuid,notnull" json:"userId"`
	AuthorName  string     `bun:"author_name,notnull" json:"authorName"`
	Rating      int        `bun:"rating,notnull" json:"rating"`
	Comment     string     `bun:"comment,notnull" json:"comment"`
	IsVerified  bool       `bun:"is_verified,notnull,default:false" json:"isVerified"`
	IsPublished bool       `bun:"is_published,notnull,default:true" json:"isPublished"`
	Helpful     int        `bun:"helpful,notnull,default:0" json:"helpful"`
	CreatedAt   time.Time  `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
