package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is how the customer settles an order
type PaymentMethod string

const (
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

func (m PaymentMethod) String() string {
	return string(m)
}

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodTransfer
}

// InitialStatus is the status an order gets when it is written at checkout.
// Only bank transfers wait for reconciliation.
func (m PaymentMethod) InitialStatus() OrderStatus {
	if m == PaymentMethodTransfer {
		return OrderStatusPending
	}
	return OrderStatusCompleted
}

// ParsePaymentMethod parses a case-insensitive payment method name
func ParsePaymentMethod(v string) (PaymentMethod, error) {
	m := PaymentMethod(strings.ToLower(strings.TrimSpace(v)))
	if !m.Valid() {
		return "", fmt.Errorf("unsupported payment method %q", v)
	}
	return m, nil
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(v)
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethod", value)
	}
	return nil
}
