package tables

import (
	"knitcraft_server/structs"
	"time"

	"github.com/google/uuid"
)

type User struct {
	tableName    struct{}     `bun:"table:users,alias:u"`
	Id           uuid.UUID    `json:"id" bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	Email        string       `json:"email" bun:"email,unique,notnull"`
	Name         string       `json:"name" bun:"name,notnull"`
	Role         structs.Role `json:"role" bun:"role,notnull,default:'GUEST'"`
	PasswordHash string       `json:"-" bun:"password_hash,nullzero"` // NULL for guests
	LastLogin    *time.Time   `json:"lastLogin,omitempty" bun:"last_login,nullzero"`
	CreatedAt    time.Time    `json:"createdAt" bun:"created_at,notnull,default:current_timestamp"`
}

func (u *User) IsGuest() bool {
	return u.Role == structs.RoleGuest || u.PasswordHash == ""
}

type AuthResponse struct {
	User *User `json:"user"`
}
