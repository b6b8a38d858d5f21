package lib

import (
	"fmt"
	"math/rand"
	"time"
)

const OrderNumberPrefix = "KC"

// GenerateOrderNumber generates an order number in the format KC-NNNNNN-XXXX:
// the last six digits of the current unix milliseconds and a random
// 4-character alphanumeric suffix. Uniqueness is enforced by the database.
func GenerateOrderNumber() string {
	now := time.Now()

	// Use a local rand.Source + rand.Rand for thread safety
	r := rand.New(rand.NewSource(now.UnixNano()))

	const chars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	const length = 4

	randomPart := make([]byte, length)
	for i := range randomPart {
		randomPart[i] = chars[r.Intn(len(chars))]
	}

	return fmt.Sprintf("%s-%06d-%s", OrderNumberPrefix, now.UnixMilli()%1_000_000, string(randomPart))
}
