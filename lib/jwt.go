package lib

import (
	"errors"
	"fmt"
	"knitcraft_server/structs"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const tokenIssuer = "knitcraft"

// wireClaims is the JWT payload; AuthClaims is what the rest of the code sees.
type wireClaims struct {
	Email string       `json:"email"`
	Role  structs.Role `json:"role"`
	jwt.RegisteredClaims
}

// SignToken issues an HS256 token for sub that expires after ttl.
func SignToken(sub uuid.UUID, email string, role structs.Role, ttl time.Duration, secret string) (string, *structs.AuthClaims, error) {
	now := time.Now().Truncate(time.Second)
	claims := &structs.AuthClaims{Sub: sub, Email: email, Role: role, Iat: now, Exp: now.Add(ttl), Jti: uuid.New()}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, wireClaims{
		Email: email,
		Role:  role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   sub.String(),
			ID:        claims.Jti.String(),
			IssuedAt:  jwt.NewNumericDate(claims.Iat),
			ExpiresAt: jwt.NewNumericDate(claims.Exp),
		},
	}).SignedString([]byte(secret))
	if err != nil {
		return "", nil, err
	}
	return signed, claims, nil
}

// ParseToken verifies signature, issuer and expiry. Expired tokens yield
// ErrExpiredToken, anything else wrong yields ErrInvalidToken.
func ParseToken(tokenStr, secret string) (*structs.AuthClaims, error) {
	var wc wireClaims
	_, err := jwt.ParseWithClaims(tokenStr, &wc, func(*jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
	)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	sub, err := uuid.Parse(wc.Subject)
	if err != nil {
		return nil, fmt.Errorf("%w: bad subject", ErrInvalidToken)
	}
	jti, err := uuid.Parse(wc.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad token id", ErrInvalidToken)
	}
	if wc.IssuedAt == nil {
		return nil, fmt.Errorf("%w: missing iat", ErrInvalidToken)
	}

	return &structs.AuthClaims{
		Sub:   sub,
		Email: wc.Email,
		Role:  wc.Role,
		Iat:   wc.IssuedAt.Time,
		Exp:   wc.ExpiresAt.Time,
		Jti:   jti,
	}, nil
}
