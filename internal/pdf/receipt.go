// Package pdf renders order receipts.
package pdf

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"github.com/example/gardenia/internal/domain/order"
)

// GenerateReceipt renders a one-page PDF receipt for an order.
func GenerateReceipt(o order.Order, userName string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle(fmt.Sprintf("Gardenia receipt %s", o.ID), false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 20)
	doc.SetTextColor(46, 125, 50)
	doc.Cell(0, 12, "Gardenia")
	doc.Ln(14)

	doc.SetFont("Helvetica", "", 11)
	doc.SetTextColor(0, 0, 0)
	doc.Cell(0, 6, fmt.Sprintf("Receipt for order %s", o.ID))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Customer: %s", userName))
	doc.Ln(6)
	doc.Cell(0, 6, fmt.Sprintf("Date: %s", o.CreatedAt.Format("2006-01-02 15:04")))
	doc.Ln(10)

	doc.SetFont("Helvetica", "B", 10)
	doc.SetFillColor(243, 247, 243)
	doc.CellFormat(90, 8, "Item", "1", 0, "L", true, 0, "")
	doc.CellFormat(20, 8, "Qty", "1", 0, "C", true, 0, "")
	doc.CellFormat(35, 8, "Price", "1", 0, "R", true, 0, "")
	doc.CellFormat(35, 8, "Subtotal", "1", 1, "R", true, 0, "")

	doc.SetFont("Helvetica", "", 10)
	for _, item := range o.Items {
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(item.Quantity)))
		doc.CellFormat(90, 8, item.Name, "1", 0, "L", false, 0, "")
		doc.CellFormat(20, 8, fmt.Sprintf("%d", item.Quantity), "1", 0, "C", false, 0, "")
		doc.CellFormat(35, 8, item.Price.StringFixed(2), "1", 0, "R", false, 0, "")
		doc.CellFormat(35, 8, subtotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	doc.Ln(4)
	writeTotal := func(label string, v decimal.Decimal, bold bool) {
		style := ""
		if bold {
			style = "B"
		}
		doc.SetFont("Helvetica", style, 10)
		doc.CellFormat(145, 7, label, "", 0, "R", false, 0, "")
		doc.CellFormat(35, 7, v.StringFixed(2), "", 1, "R", false, 0, "")
	}
	writeTotal("Items", o.ItemsPrice, false)
	writeTotal("Tax", o.TaxPrice, false)
	writeTotal("Shipping", o.ShippingPrice, false)
	writeTotal("Total", o.TotalPrice, true)

	doc.Ln(8)
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(102, 102, 102)
	doc.Cell(0, 5, fmt.Sprintf("Ship to: %s, %s %s, %s",
		o.Shipping.Address, o.Shipping.City, o.Shipping.PostalCode, o.Shipping.Country))
	doc.Ln(5)
	doc.Cell(0, 5, "Thank you for shopping with Gardenia.")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("render receipt: %w", err)
	}
	return buf.Bytes(), nil
}
