package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"
	"time"
)

var slugStripPattern = regexp.MustCompile(`[^a-z0-9]+`)

// GenerateSlug normalizes a page title into a URL slug.
func GenerateSlug(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = slugStripPattern.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// GenerateReference produces a short opaque reference for donation and
// refund records, prefixed so support staff can tell them apart.
func GenerateReference(prefix string) (string, error) {
	const digits = "abcdefghijklmnopqrstuvwxyz0123456789"
	const length = 10
	b := make([]byte, length)

	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			return "", err
		}
		b[i] = digits[num.Int64()]
	}
	return fmt.Sprintf("%s-%s", prefix, string(b)), nil
}

// FormatDateRange renders a report range for email and log output.
func FormatDateRange(from time.Time, to time.Time) string {
	return fmt.Sprintf("%s to %s", from.Format("2006-01-02"), to.Format("2006-01-02"))
}
