// Package notify formats invoice receipts and delivers them on a best-effort
// background queue. Nothing in this package reports failures to the caller
// that triggered a notification.
package notify

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"shop-backoffice/internal/core"

	"github.com/ttacon/libphonenumber"
)

const waBaseURL = "https://wa.me/"

// Job is one queued receipt.
type Job struct {
	InvoiceNo string `json:"invoice_no"`
	Phone     string `json:"phone"`
	Message   string `json:"message"`
	Link      string `json:"link"`
}

// NewInvoiceJob builds the receipt text and wa.me link for a completed sale.
func NewInvoiceJob(sale core.SaleRecord, currency, region string) Job {
	msg := FormatInvoiceMessage(sale, currency)
	phone := NormalizePhone(sale.CustomerPhone, region)
	return Job{
		InvoiceNo: sale.InvoiceNo,
		Phone:     phone,
		Message:   msg,
		Link:      WhatsAppLink(phone, msg),
	}
}

// FormatInvoiceMessage renders a receipt in WhatsApp markdown.
func FormatInvoiceMessage(sale core.SaleRecord, currency string) string {
	customer := sale.CustomerName
	if customer == "" {
		customer = "Valued Customer"
	}
	date := sale.SaleDate
	if date.IsZero() {
		date = time.Now()
	}

	var b strings.Builder
	b.WriteString("🧾 *INVOICE RECEIPT* 🧾\n")
	b.WriteString("═══════════════════════════\n\n")
	fmt.Fprintf(&b, "📋 *Invoice:* %s\n", sale.InvoiceNo)
	fmt.Fprintf(&b, "👤 *Customer:* %s\n", customer)
	fmt.Fprintf(&b, "📅 *Date:* %s\n\n", date.Format("02/01/2006 15:04"))

	b.WriteString("📦 *ITEMS PURCHASED:*\n")
	b.WriteString("─────────────────────────────\n")
	for i, it := range sale.Items {
		fmt.Fprintf(&b, "%d. *%s*\n", i+1, it.ProductName)
		fmt.Fprintf(&b, "   Qty: %d × %s %s = *%s %s*\n\n",
			it.Quantity, currency, it.Price.StringFixed(2), currency, it.Total.StringFixed(2))
	}
	b.WriteString("─────────────────────────────\n")
	fmt.Fprintf(&b, "💰 *TOTAL: %s %s*\n", currency, sale.TotalAmount.StringFixed(2))
	b.WriteString("─────────────────────────────\n\n")

	b.WriteString("🙏 *Thank you for your business!*\n")
	b.WriteString("📞 Contact us for support\n")
	b.WriteString("✨ We appreciate you! ✨")
	return b.String()
}

// NormalizePhone returns the number as international digits without '+'.
// Local numbers are read against region. Numbers libphonenumber rejects
// are passed through with separators stripped.
func NormalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if p, err := libphonenumber.Parse(raw, region); err == nil && libphonenumber.IsValidNumber(p) {
		return strings.TrimPrefix(libphonenumber.Format(p, libphonenumber.E164), "+")
	}
	return strings.NewReplacer("+", "", " ", "", "-", "", "(", "", ")", "").Replace(raw)
}

// WhatsAppLink builds a click-to-chat link with the message pre-filled.
func WhatsAppLink(phone, message string) string {
	// QueryEscape encodes spaces as '+'; wa.me expects %20.
	text := strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
	return waBaseURL + phone + "?text=" + text
}
