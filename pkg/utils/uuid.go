package utils

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// OrderNumberPrefix starts every human-readable order number
const OrderNumberPrefix = "DH"

// GenerateOrderNumber returns DH followed by 8 upper-case hex characters.
// It carries no separators so it survives bank apps that drop punctuation.
func GenerateOrderNumber() string {
	return OrderNumberPrefix + strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
}

// FormatReceiptCode builds prefix + YYYYMMDD + 4-digit sequence
func FormatReceiptCode(prefix string, day time.Time, seq int64) string {
	return fmt.Sprintf("%s%s%04d", prefix, ReceiptDay(day), seq)
}

// ReceiptDay is the YYYYMMDD key of the receipt sequence
func ReceiptDay(t time.Time) string {
	return t.Format("20060102")
}

var nonDigit = regexp.MustCompile(`\D`)

// NormalizePhone keeps only the digits of a phone number, preserving a leading +
func NormalizePhone(phone string) string {
	phone = strings.TrimSpace(phone)
	plus := strings.HasPrefix(phone, "+")
	digits := nonDigit.ReplaceAllString(phone, "")
	if plus && digits != "" {
		return "+" + digits
	}
	return digits
}

// ParseAmount reads a cashier-typed amount such as "50.000" or "50,000 đ".
// All non-digit characters are dropped.
func ParseAmount(s string) (int64, error) {
	digits := nonDigit.ReplaceAllString(s, "")
	if digits == "" {
		return 0, fmt.Errorf("amount %q has no digits", s)
	}
	var n int64
	for _, r := range digits {
		d := int64(r - '0')
		if n > (1<<63-1-d)/10 {
			return 0, fmt.Errorf("amount %q is too large", s)
		}
		n = n*10 + d
	}
	return n, nil
}
