// Package bankhook authenticates and decodes bank-transfer notifications sent
// by payment aggregators whose payload schema is only loosely controlled.
package bankhook

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrMissingSignature = errors.New("missing webhook signature")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// SignatureHeaders are checked in order; the first non-empty one is used
var SignatureHeaders = []string{"X-Signature", "Signature", "X-Webhook-Signature", "X-Hmac-Signature"}

// Sign returns the hex HMAC-SHA256 of body
func Sign(secret string, body []byte) string {
	return hex.EncodeToString(digest(secret, body))
}

func digest(secret string, body []byte) []byte {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return mac.Sum(nil)
}

// SignatureFromHeader returns the first signature header present
func SignatureFromHeader(h http.Header) string {
	for _, name := range SignatureHeaders {
		if v := strings.TrimSpace(h.Get(name)); v != "" {
			return v
		}
	}
	return ""
}

// Verify checks signature against HMAC-SHA256(secret, body). The signature may
// be hex or base64 and may carry a "sha256=" prefix. An empty secret disables
// verification.
func Verify(secret string, body []byte, signature string) error {
	if secret == "" {
		return nil
	}
	signature = strings.TrimSpace(signature)
	if len(signature) >= 7 && strings.EqualFold(signature[:7], "sha256=") {
		signature = signature[7:]
	}
	if signature == "" {
		return ErrMissingSignature
	}

	expected := digest(secret, body)
	if got, err := hex.DecodeString(signature); err == nil && hmac.Equal(got, expected) {
		return nil
	}
	if got, err := base64.StdEncoding.DecodeString(signature); err == nil && hmac.Equal(got, expected) {
		return nil
	}
	return ErrInvalidSignature
}

// VerifyRequest is Verify with the signature taken from the request headers
func VerifyRequest(secret string, body []byte, h http.Header) error {
	return Verify(secret, body, SignatureFromHeader(h))
}
