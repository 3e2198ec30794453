// Package handoff turns an order into the WhatsApp message and deep link
// used to hand the sale to a human operator. Pure string construction,
// no I/O.
package handoff

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/NicolasArtemio/frontend-basv1/internal/model"
	"github.com/NicolasArtemio/frontend-basv1/internal/money"
)

// RenderMessage builds the human-readable order summary sent to the shop
// operator. Returns "" for an empty order.
func RenderMessage(shopName string, items []model.LineItem) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s! 🐾\nQuiero realizar el siguiente pedido:\n\n", shopName)

	var total float64
	for _, item := range items {
		subtotal := item.Subtotal()
		total += subtotal
		fmt.Fprintf(&b, "▪ %dx %s (%s) - %s\n",
			item.Quantity, item.Product.Name, item.PriceMode.Label(), money.FormatPesos(subtotal))
	}

	fmt.Fprintf(&b, "\n💰 *Total Estimado: %s*", money.FormatPesos(total))
	b.WriteString("\n\nQuedo a la espera de la confirmación. Gracias!")

	return b.String()
}

// BuildDeepLink composes the wa.me link carrying the rendered order.
// Returns "" for an empty order; output is byte-identical across calls
// on the same input.
func BuildDeepLink(shopName string, items []model.LineItem, phoneNumber string) string {
	message := RenderMessage(shopName, items)
	if message == "" {
		return ""
	}
	return "https://wa.me/" + phoneNumber + "?text=" + encodeComponent(message)
}

// encodeComponent percent-encodes like the browser's encodeURIComponent:
// spaces become %20, never '+'.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
