package bankhook

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var (
	ErrMalformedPayload = errors.New("payload is not a JSON object")
	ErrMissingAmount    = errors.New("payload has no usable amount")
	ErrMissingContent   = errors.New("payload has no transfer content")
)

// Field aliases seen across aggregators, in lookup order
var (
	amountKeys        = []string{"amount", "transferAmount", "value", "transactionAmount"}
	contentKeys       = []string{"content", "description", "addInfo", "message"}
	transactionIDKeys = []string{"transactionId", "transaction_id", "txnId", "reference", "id"}
)

var nonNumeric = regexp.MustCompile(`[^0-9.\-]`)

// Notification is the part of a bank payload the reconciler needs
type Notification struct {
	Amount        int64
	Content       string
	TransactionID string
}

// Parse extracts amount, content and transaction id from the top level of the
// body or from a nested "data" object (or the first element of a "data" array).
func Parse(body []byte) (*Notification, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root map[string]interface{}
	if err := dec.Decode(&root); err != nil || root == nil {
		return nil, ErrMalformedPayload
	}

	scopes := []map[string]interface{}{root}
	switch data := root["data"].(type) {
	case map[string]interface{}:
		scopes = append(scopes, data)
	case []interface{}:
		if len(data) > 0 {
			if first, ok := data[0].(map[string]interface{}); ok {
				scopes = append(scopes, first)
			}
		}
	}

	n := &Notification{}

	amount, ok := lookup(scopes, amountKeys, parseAmount)
	if !ok {
		return nil, ErrMissingAmount
	}
	n.Amount = amount

	content, _ := lookup(scopes, contentKeys, parseText)
	if strings.TrimSpace(content) == "" {
		return nil, ErrMissingContent
	}
	n.Content = content

	n.TransactionID, _ = lookup(scopes, transactionIDKeys, parseText)
	return n, nil
}

// lookup tries each key in order across all scopes, so a more specific alias
// in "data" wins over a generic one on the envelope.
func lookup[T any](scopes []map[string]interface{}, keys []string, parse func(interface{}) (T, bool)) (T, bool) {
	for _, key := range keys {
		for _, scope := range scopes {
			raw, exists := scope[key]
			if !exists || raw == nil {
				continue
			}
			if v, ok := parse(raw); ok {
				return v, true
			}
		}
	}
	var zero T
	return zero, false
}

// parseAmount accepts JSON numbers and numeric strings; non-numeric characters
// are stripped from strings and the result is rounded to whole units.
func parseAmount(raw interface{}) (int64, bool) {
	var s string
	switch v := raw.(type) {
	case json.Number:
		s = v.String()
	case string:
		s = nonNumeric.ReplaceAllString(v, "")
	case float64:
		s = strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return 0, false
	}
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int64(math.Round(f)), true
}

func parseText(raw interface{}) (string, bool) {
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		return s, s != ""
	case json.Number:
		return v.String(), true
	case bool:
		return "", false
	default:
		s := strings.TrimSpace(fmt.Sprint(v))
		return s, s != "" && !strings.HasPrefix(s, "map[") && !strings.HasPrefix(s, "[")
	}
}
