package service

import (
	"fmt"
	"strings"

	"github.com/chainmind/order-lifecycle/internal/core/domain"
	"github.com/chainmind/order-lifecycle/internal/port"
)

// Message templating for notifications and vendor emails. Events may
// carry partial product/vendor references, so every accessor has a
// neutral fallback instead of failing the effect.

func productLabel(ev domain.TransitionEvent) string {
	if name := strings.TrimSpace(ev.Product.Name); name != "" {
		return name
	}
	if sku := strings.TrimSpace(ev.Product.SKU); sku != "" {
		return sku
	}
	return "item"
}

func vendorLabel(ev domain.TransitionEvent) string {
	if name := strings.TrimSpace(ev.Vendor.Name); name != "" {
		return name
	}
	return "your supplier"
}

func amountLabel(ev domain.TransitionEvent) string {
	currency := strings.TrimSpace(ev.Currency)
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%.2f %s", ev.Total, currency)
}

func submittedTitle() string { return "Purchase order submitted" }

func submittedMessage(ev domain.TransitionEvent) string {
	return fmt.Sprintf("Order %s: %d × %s requested from %s (%s).",
		ev.OrderID, ev.Quantity, productLabel(ev), vendorLabel(ev), amountLabel(ev))
}

func approvedTitle() string { return "Purchase order approved" }

func approvedMessage(ev domain.TransitionEvent) string {
	return fmt.Sprintf("Order %s for %d × %s was approved and sent to %s.",
		ev.OrderID, ev.Quantity, productLabel(ev), vendorLabel(ev))
}

func rejectedTitle() string { return "Purchase order rejected" }

func rejectedMessage(ev domain.TransitionEvent) string {
	msg := fmt.Sprintf("Order %s for %d × %s was rejected.",
		ev.OrderID, ev.Quantity, productLabel(ev))
	if reason := strings.TrimSpace(ev.Reason); reason != "" {
		msg += " Reason: " + reason
	}
	return msg
}

func deliveredTitle() string { return "Stock replenished" }

func deliveredMessage(ev domain.TransitionEvent) string {
	return fmt.Sprintf("Order %s delivered: %d × %s added to inventory.",
		ev.OrderID, ev.Quantity, productLabel(ev))
}

func deliveredVendorMessage(ev domain.TransitionEvent) string {
	return fmt.Sprintf("Delivery of order %s (%d × %s) was confirmed by the buyer.",
		ev.OrderID, ev.Quantity, productLabel(ev))
}

func reorderConfirmationEmail(ev domain.TransitionEvent, contact domain.VendorContact) port.EmailMessage {
	greeting := strings.TrimSpace(contact.Name)
	if greeting == "" {
		greeting = "there"
	}
	subject := fmt.Sprintf("Purchase order %s — %d × %s", ev.OrderID, ev.Quantity, productLabel(ev))
	text := fmt.Sprintf(
		"Hi %s,\n\nA purchase order has been approved and awaits fulfilment.\n\n"+
			"Order:    %s\nProduct:  %s\nSKU:      %s\nQuantity: %d\nTotal:    %s\n\n"+
			"Please confirm and arrange shipment at your earliest convenience.\n",
		greeting, ev.OrderID, productLabel(ev), ev.Product.SKU, ev.Quantity, amountLabel(ev))
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>A purchase order has been approved and awaits fulfilment.</p>"+
			"<table><tr><td>Order</td><td>%s</td></tr><tr><td>Product</td><td>%s</td></tr>"+
			"<tr><td>SKU</td><td>%s</td></tr><tr><td>Quantity</td><td>%d</td></tr>"+
			"<tr><td>Total</td><td>%s</td></tr></table>"+
			"<p>Please confirm and arrange shipment at your earliest convenience.</p>",
		greeting, ev.OrderID, productLabel(ev), ev.Product.SKU, ev.Quantity, amountLabel(ev))
	return port.EmailMessage{
		To:       contact.Email,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}
}

func deliveryAckEmail(ev domain.TransitionEvent, contact domain.VendorContact) port.EmailMessage {
	greeting := strings.TrimSpace(contact.Name)
	if greeting == "" {
		greeting = "there"
	}
	subject := fmt.Sprintf("Delivery confirmed — order %s", ev.OrderID)
	text := fmt.Sprintf(
		"Hi %s,\n\nThe buyer confirmed delivery of order %s (%d × %s).\n"+
			"Thank you for fulfilling this order.\n",
		greeting, ev.OrderID, ev.Quantity, productLabel(ev))
	html := fmt.Sprintf(
		"<p>Hi %s,</p><p>The buyer confirmed delivery of order %s (%d × %s).</p>"+
			"<p>Thank you for fulfilling this order.</p>",
		greeting, ev.OrderID, ev.Quantity, productLabel(ev))
	return port.EmailMessage{
		To:       contact.Email,
		Subject:  subject,
		TextBody: text,
		HTMLBody: html,
	}
}
