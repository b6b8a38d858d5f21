package lib

import (
	"net/url"
	"strings"
	"unicode"
)

const whatsAppBaseURL = "https://wa.me/"

// GenerateWhatsAppLink builds a wa.me deep link. The phone number keeps only
// its digits and the message is URL-encoded with %20 for spaces.
func GenerateWhatsAppLink(phone, message string) string {
	digits := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) && r < unicode.MaxASCII {
			return r
		}
		return -1
	}, phone)

	return whatsAppBaseURL + digits + "?text=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}
