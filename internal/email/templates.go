package email

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/example/gardenia/internal/domain/order"
)

// BuildOrderConfirmationBody renders the HTML body for the order
// confirmation mail.
func BuildOrderConfirmationBody(o order.Order, userName string) string {
	var items strings.Builder
	for _, item := range o.Items {
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		items.WriteString(fmt.Sprintf(
			`<tr>
				<td style="padding: 10px; border-bottom: 1px solid #e4ece4;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #e4ece4; text-align: center;">%d</td>
				<td style="padding: 10px; border-bottom: 1px solid #e4ece4; text-align: right;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #e4ece4; text-align: right;">%s</td>
			</tr>`,
			item.Name, item.Quantity, item.Price.StringFixed(2), subtotal.StringFixed(2),
		))
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #2d3a2d; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #2e7d32; padding: 24px; border-radius: 8px 8px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 22px;">Thank you for your order, %s!</h1>
	</div>
	<div style="background: #fff; padding: 24px; border: 1px solid #e4ece4; border-top: none; border-radius: 0 0 8px 8px;">
		<p style="margin-top: 0;">Your Gardenia order has been received and is being processed.</p>
		<p style="font-size: 14px; color: #667;">Order number: <strong style="font-family: monospace;">%s</strong></p>

		<table style="width: 100%%; border-collapse: collapse; margin: 16px 0;">
			<thead>
				<tr style="background: #f3f7f3;">
					<th style="padding: 10px; text-align: left;">Item</th>
					<th style="padding: 10px; text-align: center;">Qty</th>
					<th style="padding: 10px; text-align: right;">Price</th>
					<th style="padding: 10px; text-align: right;">Subtotal</th>
				</tr>
			</thead>
			<tbody>%s</tbody>
		</table>

		<table style="width: 100%%; margin: 16px 0; font-size: 14px;">
			<tr><td>Items</td><td style="text-align: right;">%s</td></tr>
			<tr><td>Tax</td><td style="text-align: right;">%s</td></tr>
			<tr><td>Shipping</td><td style="text-align: right;">%s</td></tr>
			<tr><td style="font-weight: bold; font-size: 16px;">Total</td>
				<td style="text-align: right; font-weight: bold; font-size: 16px; color: #2e7d32;">%s</td></tr>
		</table>

		<p style="font-size: 13px; color: #667;">Shipping to: %s, %s %s</p>
		<p style="font-size: 12px; color: #99a;">A PDF receipt is attached. This mailbox is not monitored.</p>
	</div>
</body>
</html>`,
		userName, o.ID, items.String(),
		o.ItemsPrice.StringFixed(2), o.TaxPrice.StringFixed(2),
		o.ShippingPrice.StringFixed(2), o.TotalPrice.StringFixed(2),
		o.Shipping.Address, o.Shipping.City, o.Shipping.PostalCode)
}

// BuildStatusUpdateBody renders the HTML body for an order status change
// mail.
func BuildStatusUpdateBody(o order.Order, userName string, newStatus order.Status) string {
	extra := ""
	switch newStatus {
	case order.StatusOutForDelivery:
		extra = "Your plants are on their way. Please make sure someone is home to receive them."
	case order.StatusDelivered:
		extra = "We hope everything arrived in perfect shape. Happy gardening!"
	case order.StatusCancelled:
		extra = "If you did not request this cancellation, please contact support."
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<body style="font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #2d3a2d; max-width: 600px; margin: 0 auto; padding: 20px;">
	<div style="background: #2e7d32; padding: 24px; border-radius: 8px 8px 0 0;">
		<h1 style="color: white; margin: 0; font-size: 22px;">Order update</h1>
	</div>
	<div style="background: #fff; padding: 24px; border: 1px solid #e4ece4; border-top: none; border-radius: 0 0 8px 8px;">
		<p style="margin-top: 0;">Hi %s,</p>
		<p>Your order <strong style="font-family: monospace;">%s</strong> is now
			<strong style="color: #2e7d32;">%s</strong>.</p>
		<p>%s</p>
	</div>
</body>
</html>`, userName, o.ID, newStatus, extra)
}
