package lib

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

const (
	cartIDBytes    = 24
	csrfTokenBytes = 32
)

func randomToken(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// GenerateCartID returns the opaque value stored in the cart cookie.
func GenerateCartID() (string, error) {
	return randomToken(cartIDBytes)
}

// GenerateCSRFToken returns a token for the double-submit CSRF cookie.
func GenerateCSRFToken() (string, error) {
	return randomToken(csrfTokenBytes)
}

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

func randomSuffix(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	for i := range b {
		b[i] = suffixAlphabet[int(b[i])%len(suffixAlphabet)]
	}
	return string(b), nil
}

// GenerateCartLineID builds a line id from the product id and a random suffix,
// so the same product added twice lands on separate lines.
func GenerateCartLineID(productID uuid.UUID) (string, error) {
	suffix, err := randomSuffix(6)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s", productID.String()[:8], suffix), nil
}

// Slugify lowercases a name and joins its ASCII words with dashes.
// "Chunky Wool Beanie!" becomes "chunky-wool-beanie".
func Slugify(name string) string {
	// Strip accents: "Crème" -> "Creme"
	decomposed := norm.NFD.String(name)

	var sb strings.Builder
	dash := false
	for _, r := range decomposed {
		switch {
		case unicode.Is(unicode.Mn, r):
			continue
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)):
			sb.WriteRune(unicode.ToLower(r))
			dash = false
		default:
			if !dash && sb.Len() > 0 {
				sb.WriteByte('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}
