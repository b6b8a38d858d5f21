package services

import (
	"context"
	"knitcraft_server/structs"
	"strings"

	"github.com/google/uuid"
)

const (
	GuestSingletonEmail = "guest@knitcraft.local"
	guestSingletonName  = "Guest"
)

// resolveCustomer returns the id of the authenticated caller, or upserts a
// guest for the given email. An empty email maps to the shared guest account.
func resolveCustomer(ctx context.Context, users UserStore, principal *structs.Principal, email, name string) (uuid.UUID, error) {
	if principal != nil {
		return principal.UserID, nil
	}

	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" {
		email, name = GuestSingletonEmail, guestSingletonName
	}
	if name == "" {
		name = guestSingletonName
	}

	user, err := users.UpsertGuest(ctx, email, name)
	if err != nil {
		return uuid.Nil, err
	}
	return user.Id, nil
}
