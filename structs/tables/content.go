package tables

import (
	"knitcraft_server/structs"
	"time"

	"github.com/google/uuid"
)

// AboutPageKey identifies the single About row.
const AboutPageKey = "about"

type About struct {
	tableName struct{}              `bun:"table:about_pages,alias:ab"`
	Id        uuid.UUID             `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Key       string                `bun:"key,unique,notnull" json:"-"`
	Title     string                `bun:"title,notnull" json:"title"`
	Subtitle  string                `bun:"subtitle,notnull,default:''" json:"subtitle"`
	Story     string                `bun:"story,notnull,default:''" json:"story"`
	ImageURL  string                `bun:"image_url,notnull,default:''" json:"imageUrl"`
	Extended  structs.AboutExtended `bun:"extended,type:jsonb,notnull" json:"extended"`
	UpdatedAt time.Time             `bun:"updated_at,notnull,default:current_timestamp" json:"updatedAt"`
}

type ContactMessage struct {
	tableName struct{}  `bun:"table:contact_messages,alias:cm"`
	Id        uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()" json:"id"`
	Name      string    `bun:"name,notnull" json:"name"`
	Email     string    `bun:"email,notnull" json:"email"`
	Subject   string    `bun:"subject,notnull" json:"subject"`
	Message   string    `bun:"message,notnull" json:"message"`
	IsRead    bool      `bun:"is_read,notnull,default:false" json:"isRead"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"createdAt"`
}
