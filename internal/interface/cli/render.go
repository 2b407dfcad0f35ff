package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	domcart "example.com/loja/internal/domain/cart"
	domprice "example.com/loja/internal/domain/pricing"
	domproduct "example.com/loja/internal/domain/product"
	"example.com/loja/internal/usecase/storefront"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	priceStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	compareStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Strikethrough(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	soldOutStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	cardStyle     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1).Width(36)
	cartPanel     = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	totalRowStyle = lipgloss.NewStyle().Bold(true)
)

const cardsPerRow = 3

func renderCard(p *domproduct.Product, money *domprice.MoneyFormatter) string {
	lines := []string{
		titleStyle.Render(p.Title),
		mutedStyle.Render("#" + p.ID),
	}

	price := priceStyle.Render(money.Format(p.Price))
	if p.HasDiscount() {
		price += " " + compareStyle.Render(money.Format(*p.CompareAtPrice))
	}
	lines = append(lines, price)

	if p.Category != "" {
		lines = append(lines, mutedStyle.Render(p.Category))
	}
	if p.InStock() {
		lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d in stock", p.Stock)))
	} else {
		lines = append(lines, soldOutStyle.Render("Sold out"))
	}
	return cardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderCatalog lays the product cards out in rows, or the empty/error
// message when there is nothing to show.
func renderCatalog(c *storefront.Controller) string {
	if msg := c.CatalogError(); msg != "" {
		return errorStyle.Render(msg)
	}
	products := c.Products()
	if len(products) == 0 {
		return mutedStyle.Render("No products found.")
	}

	var rows []string
	for i := 0; i < len(products); i += cardsPerRow {
		end := min(i+cardsPerRow, len(products))
		cards := make([]string, 0, end-i)
		for _, p := range products[i:end] {
			cards = append(cards, renderCard(p, c.Money()))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCategories(c *storefront.Controller) string {
	labels := c.Categories()
	current := c.Filter().Category
	parts := make([]string, 0, len(labels)+1)
	all := "All"
	if current == "" {
		all = titleStyle.Render("[All]")
	}
	parts = append(parts, all)
	for _, l := range labels {
		if l == current {
			l = titleStyle.Render("[" + l + "]")
		}
		parts = append(parts, l)
	}
	return strings.Join(parts, "  ")
}

func renderCart(items []domcart.LineItem, totals domprice.Totals, money *domprice.MoneyFormatter) string {
	if len(items) == 0 {
		return cartPanel.Render(mutedStyle.Render("Your cart is empty."))
	}

	lines := make([]string, 0, len(items)+4)
	for _, item := range items {
		lines = append(lines, fmt.Sprintf("%s  %s x%d  %s",
			mutedStyle.Render("#"+item.ID),
			titleStyle.Render(item.Title),
			item.Qty,
			money.Format(item.Total()),
		))
	}
	lines = append(lines,
		"",
		"Subtotal: "+money.Format(totals.Subtotal),
		"Shipping: "+money.Format(totals.Shipping),
		totalRowStyle.Render("Total: "+money.Format(totals.Total)),
	)
	return cartPanel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func renderStatus(s string) string {
	if s == "" {
		return ""
	}
	return statusStyle.Render(s)
}
