package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	domcategory "example.com/loja/internal/domain/category"
	domproduct "example.com/loja/internal/domain/product"
	cartuc "example.com/loja/internal/usecase/cart"
	"example.com/loja/internal/usecase/storefront"
)

const shopHelp = `commands:
  search <text>          filter by title (runs after typing pauses)
  category <name|all>    filter by category
  sort <key|none>        price-asc, price-desc, title-asc, title-desc
  list                   show products
  add <id> [qty]         add to cart
  set <id> <qty>         change quantity
  remove <id>            remove from cart
  cart | close           open or close the cart
  checkout k=v ...       name, email, phone, address, city, state, zip, notes, terms=yes
  quit`

// lockedWriter serializes output from the prompt loop and debounced
// searches.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) println(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func newShopCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shop",
		Short: "Interactive storefront session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			out := &lockedWriter{w: a.out}
			c.OnChange(func() {
				out.println(renderCatalog(c))
			})

			out.println(renderCategories(c))
			out.println(renderCatalog(c))
			return runShop(cmd.Context(), c, a.in, out)
		},
	}
}

func runShop(ctx context.Context, c *storefront.Controller, in io.Reader, out *lockedWriter) error {
	scanner := bufio.NewScanner(in)
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		cmd, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		args := strings.Fields(rest)

		switch cmd {
		case "quit", "exit":
			return nil
		case "help":
			out.println(shopHelp)
		case "search":
			c.SetSearchText(rest)
		case "category":
			name := rest
			if name == "all" {
				name = domcategory.All
			}
			_ = c.SetCategory(ctx, name)
			out.println(renderCategories(c))
			out.println(renderCatalog(c))
		case "sort":
			key, err := domproduct.ParseSortKey(rest)
			if err != nil {
				out.println(errorStyle.Render(err.Error()))
				continue
			}
			c.SetSort(key)
			out.println(renderCatalog(c))
		case "list":
			out.println(renderCatalog(c))
		case "add":
			if len(args) == 0 {
				out.println(shopHelp)
				continue
			}
			qty := int64(1)
			if len(args) > 1 {
				qty = cartuc.ParseQuantity(args[1])
			}
			if err := c.Add(ctx, args[0], qty); err != nil {
				out.println(errorStyle.Render(err.Error()))
			}
			if c.CartOpen() {
				out.println(renderCart(c.CartItems(), c.Totals(), c.Money()))
			}
		case "set":
			if len(args) < 2 {
				out.println(shopHelp)
				continue
			}
			if _, err := c.SetQuantity(ctx, args[0], cartuc.ParseQuantity(args[1])); err != nil {
				out.println(errorStyle.Render(err.Error()))
			}
			out.println(renderCart(c.CartItems(), c.Totals(), c.Money()))
		case "remove", "rm":
			if len(args) == 0 {
				out.println(shopHelp)
				continue
			}
			if err := c.Remove(ctx, args[0]); err != nil {
				out.println(errorStyle.Render(err.Error()))
			}
			out.println(renderCart(c.CartItems(), c.Totals(), c.Money()))
		case "cart":
			c.OpenCart()
			out.println(renderCart(c.CartItems(), c.Totals(), c.Money()))
		case "close":
			c.CloseCart()
		case "checkout":
			_, _ = c.PlaceOrder(ctx, parseCheckout(args))
			out.println(renderStatus(c.Status()))
		default:
			out.println(shopHelp)
		}
	}
}

// parseCheckout reads key=value pairs. Underscores stand in for spaces.
func parseCheckout(args []string) cartuc.Checkout {
	var in cartuc.Checkout
	fields := map[string]*string{
		"name":    &in.Customer.Name,
		"email":   &in.Customer.Email,
		"phone":   &in.Customer.Phone,
		"address": &in.Customer.Address,
		"city":    &in.Customer.City,
		"state":   &in.Customer.State,
		"zip":     &in.Customer.Zip,
		"notes":   &in.Customer.Notes,
	}
	for _, arg := range args {
		k, v, ok := strings.Cut(arg, "=")
		if !ok {
			continue
		}
		v = strings.ReplaceAll(v, "_", " ")
		if k == "terms" {
			in.AcceptedTerms = v == "yes" || v == "true" || v == "1"
			continue
		}
		if dst, ok := fields[k]; ok {
			*dst = v
		}
	}
	return in
}
