// Package tui renders client state for the terminal.
package tui

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"fashionhub/internal/client/cart"
	"fashionhub/internal/client/catalog"
	"fashionhub/internal/client/identity"
	"fashionhub/internal/client/keyspace"
)

func renderField(label, value string) string {
	return labelStyle.Render(label) + valueStyle.Render(value)
}

func price(d decimal.Decimal) string {
	return d.StringFixed(2)
}

// Identity renders who is signed in and which storage namespace is active.
func Identity(id *identity.Identity, keys keyspace.Keys) string {
	var lines []string
	lines = append(lines, renderField("Session", StatusText(id != nil)))
	if id != nil {
		lines = append(lines, renderField("User", fmt.Sprintf("%s <%s>", id.Name, id.Email)))
		lines = append(lines, renderField("ID", fmt.Sprintf("%d", id.ID)))
		if id.Role != nil {
			lines = append(lines, renderField("Role", *id.Role))
		}
		if id.Avatar != nil {
			lines = append(lines, labelStyle.Render("Avatar")+urlStyle.Render(*id.Avatar))
		}
	}
	lines = append(lines, renderField("Cart key", keys.Cart))
	lines = append(lines, renderField("Favorites key", keys.Favorites))
	return strings.Join(lines, "\n")
}

// Products renders the catalog, starring favorites.
func Products(products []catalog.Product, isFavorite func(id string) bool) string {
	if len(products) == 0 {
		return hintStyle.Render("No products")
	}
	var lines []string
	lines = append(lines, titleStyle.Render("Products"))
	for _, p := range products {
		star := " "
		if isFavorite != nil && isFavorite(p.ID) {
			star = starStyle.Render("*")
		}
		row := star + " " + idColStyle.Render(p.ID) + nameColStyle.Render(p.Name) +
			priceColStyle.Render(price(p.Price)) + "  " +
			hintStyle.Render(strings.Join(p.AvailableSizes, " "))
		lines = append(lines, row)
	}
	return strings.Join(lines, "\n")
}

// Cart renders the line items and the total.
func Cart(items []cart.Item, total decimal.Decimal) string {
	if len(items) == 0 {
		return hintStyle.Render("Cart is empty")
	}
	var lines []string
	lines = append(lines, titleStyle.Render("Cart"))
	header := idColStyle.Render("id") + nameColStyle.Render("name") + sizeColStyle.Render("size") +
		qtyColStyle.Render("qty") + priceColStyle.Render("subtotal")
	lines = append(lines, headerColStyle.Render(header))
	for _, it := range items {
		row := idColStyle.Render(it.ID) + nameColStyle.Render(it.Name) + sizeColStyle.Render(it.SelectedSize) +
			qtyColStyle.Render(fmt.Sprintf("%d", it.Quantity)) + priceColStyle.Render(price(it.Subtotal()))
		lines = append(lines, row)
	}
	lines = append(lines, "")
	lines = append(lines, labelStyle.Render("Total")+totalStyle.Render(price(total)))
	return strings.Join(lines, "\n")
}

// Favorites renders the starred products.
func Favorites(products []catalog.Product) string {
	if len(products) == 0 {
		return hintStyle.Render("No favorites yet")
	}
	var lines []string
	lines = append(lines, titleStyle.Render("Favorites"))
	for _, p := range products {
		lines = append(lines, starStyle.Render("* ")+idColStyle.Render(p.ID)+nameColStyle.Render(p.Name)+priceColStyle.Render(price(p.Price)))
	}
	return strings.Join(lines, "\n")
}
