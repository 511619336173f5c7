package service

import (
	"strings"

	"github.com/sangkips/fnb-pos/internal/domain/entity"
	"github.com/sangkips/fnb-pos/pkg/printer"
)

// FormatReceipt converts a Receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, width int) []byte {
	doc := printer.NewDocument(width)

	// Header
	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.Text("PHIEU THU").
		SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("So:", r.ReceiptCode).
		KeyValue("Don:", r.OrderNumber).
		KeyValue("Ngay:", r.Date)
	if r.Customer != "" {
		doc.KeyValue("Khach:", r.Customer)
	}
	doc.KeyValue("Thanh toan:", paymentLabel(r.PaymentMethod)).
		Separator('-')

	for _, item := range r.Items {
		doc.ItemLine(item.Quantity, item.Name, printer.FormatVND(item.Total))
		for _, label := range item.Labels {
			doc.Text("  " + label)
		}
		if item.Quantity > 1 {
			doc.Text("  @ " + printer.FormatVND(item.UnitPrice))
		}
	}

	doc.Separator('-')

	doc.KeyValue("Tam tinh:", printer.FormatVND(r.Subtotal))
	if r.DiscountAmount > 0 {
		doc.KeyValue("Giam gia "+r.DiscountCode+":", "-"+printer.FormatVND(r.DiscountAmount))
	}
	if r.LoyaltyDiscount > 0 {
		doc.KeyValue("Diem tich luy:", "-"+printer.FormatVND(r.LoyaltyDiscount))
	}
	doc.SetBold(true).
		KeyValue("TONG CONG:", printer.FormatVND(r.Total)).
		SetBold(false).
		KeyValue("Khach dua:", printer.FormatVND(r.Paid))
	if r.Change > 0 {
		doc.KeyValue("Tien thoi:", printer.FormatVND(r.Change))
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		Text("Cam on quy khach!").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	return doc.Bytes()
}

func paymentLabel(method string) string {
	switch strings.ToLower(method) {
	case "cash":
		return "Tien mat"
	case "transfer":
		return "Chuyen khoan"
	}
	return method
}
