package entity

// ReceiptHeader holds the store header printed at the top of a receipt.
type ReceiptHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptItem represents a single line item on a receipt.
type ReceiptItem struct {
	Name      string   `json:"name"`
	Labels    []string `json:"labels,omitempty"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	Total     int64    `json:"total"`
}

// Receipt is a value object representing a printable income receipt.
// It is NOT a database entity; it is composed from a completed order at print time.
type Receipt struct {
	Header          ReceiptHeader `json:"header"`
	ReceiptCode     string        `json:"receipt_code"`
	OrderNumber     string        `json:"order_number"`
	Date            string        `json:"date"`
	Customer        string        `json:"customer,omitempty"`
	PaymentMethod   string        `json:"payment_method"`
	Items           []ReceiptItem `json:"items"`
	Subtotal        int64         `json:"subtotal"`
	DiscountCode    string        `json:"discount_code,omitempty"`
	DiscountAmount  int64         `json:"discount_amount"`
	LoyaltyDiscount int64         `json:"loyalty_discount"`
	Total           int64         `json:"total"`
	Paid            int64         `json:"paid"`
	Change          int64         `json:"change"`
}
