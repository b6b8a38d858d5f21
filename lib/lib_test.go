package lib

import (
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWhatsAppLink(t *testing.T) {
	assert.Equal(t, "https://wa.me/12345678900?text=hi", GenerateWhatsAppLink("+1 (234) 567-8900", "hi"))
}

func TestGenerateWhatsAppLinkEncodesMessage(t *testing.T) {
	link := GenerateWhatsAppLink("31 6 1234", "Order KC-1 & total: 12+3")
	assert.Equal(t, "https://wa.me/3161234?text=Order%20KC-1%20%26%20total%3A%2012%2B3", link)
}

func TestGenerateOrderNumberFormat(t *testing.T) {
	pattern := regexp.MustCompile(`^KC-\d{6}-[A-Z0-9]{4}$`)
	for range 20 {
		assert.Regexp(t, pattern, GenerateOrderNumber())
	}
}

func TestSlugify(t *testing.T) {
	cases := map[string]string{
		"Chunky Wool Beanie!":  "chunky-wool-beanie",
		"  Crème   Cardigan  ": "creme-cardigan",
		"Baby blanket (XL) #2": "baby-blanket-xl-2",
	}
	for in, want := range cases {
		assert.Equal(t, want, Slugify(in), in)
	}
}

func TestGenerateCartLineID(t *testing.T) {
	productID := uuid.MustParse("8f14e45f-ceea-4e7a-9c1b-2b7f6e3f7c11")
	a, err := GenerateCartLineID(productID)
	require.NoError(t, err)
	b, err := GenerateCartLineID(productID)
	require.NoError(t, err)

	assert.Regexp(t, `^8f14e45f-[a-z0-9]{6}$`, a)
	assert.NotEqual(t, a, b)
}

func TestMapPgErrorUniqueViolation(t *testing.T) {
	err := MapPgError(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"}))
	assert.True(t, IsUniqueViolation(err))
	assert.False(t, IsNotFound(err))
}

func TestMapPgErrorPassesThroughUnknown(t *testing.T) {
	boom := errors.New("boom")
	assert.Equal(t, boom, MapPgError(boom))
	assert.NoError(t, MapPgError(nil))
}

func TestRangeErrorMessage(t *testing.T) {
	err := &RangeError{Field: "estimatedDays", Min: 5, Max: 10, Got: 12}
	assert.Equal(t, "estimatedDays must be between 5 and 10, got 12", err.Error())
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery", DefaultArgonParams)
	require.NoError(t, err)

	ok, err := VerifyPassword("correct horse battery", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyPassword("wrong password", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = VerifyPassword("x", "not-a-hash")
	assert.ErrorIs(t, err, ErrInvalidHash)

	assert.False(t, NeedsRehash(hash, DefaultArgonParams))
	stronger := *DefaultArgonParams
	stronger.Time++
	assert.True(t, NeedsRehash(hash, &stronger))
	assert.True(t, NeedsRehash("garbage", DefaultArgonParams))
}

func TestSignAndParseToken(t *testing.T) {
	userID := uuid.New()
	token, claims, err := SignToken(userID, "maker@example.com", "ADMIN", time.Minute, "secret")
	require.NoError(t, err)

	parsed, err := ParseToken(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, userID, parsed.Sub)
	assert.Equal(t, claims.Jti, parsed.Jti)
	assert.EqualValues(t, "ADMIN", parsed.Role)

	_, err = ParseToken(token, "other-secret")
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, _, err := SignToken(userID, "maker@example.com", "ADMIN", -time.Minute, "secret")
	require.NoError(t, err)
	_, err = ParseToken(expired, "secret")
	assert.ErrorIs(t, err, ErrExpiredToken)
}
