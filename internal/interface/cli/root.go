// Package cli is the terminal storefront: cobra commands bound to the
// storefront controller.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	domorder "example.com/loja/internal/domain/order"
	domproduct "example.com/loja/internal/domain/product"
	cartuc "example.com/loja/internal/usecase/cart"
)

// NewRootCommand builds the storefront command tree writing to out.
func NewRootCommand(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: in, out: out}

	root := &cobra.Command{
		Use:           "storefront",
		Short:         "Browse the catalog, manage the cart and place orders",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init()
		},
	}
	root.SetIn(in)
	root.SetOut(out)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", defaultConfigPath(), "config file")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().StringVar(&a.apiURL, "api", "", "catalog/order API base URL")
	root.PersistentFlags().StringVar(&a.cartStore, "cart-store", "", "cart store: file, sqlite or redis")
	root.PersistentFlags().StringVar(&a.cartPath, "cart-path", "", "directory for the file and sqlite cart stores")

	root.AddCommand(
		newProductsCmd(a),
		newCategoriesCmd(a),
		newCartCmd(a),
		newCheckoutCmd(a),
		newShopCmd(a),
	)
	closeAfterRun(root, a)
	return root
}

// closeAfterRun releases stores and timers after every command, including
// ones that fail; cobra skips post-run hooks on error.
func closeAfterRun(cmd *cobra.Command, a *app) {
	if run := cmd.RunE; run != nil {
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			defer a.close()
			return run(cmd, args)
		}
	}
	for _, sub := range cmd.Commands() {
		closeAfterRun(sub, a)
	}
}

func defaultConfigPath() string {
	if v := os.Getenv("LOJA_CONFIG"); v != "" {
		return v
	}
	return "loja.yaml"
}

func newProductsCmd(a *app) *cobra.Command {
	var (
		text     string
		category string
		sortKey  string
	)
	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := domproduct.ParseSortKey(sortKey)
			if err != nil {
				return err
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			c.SetSort(key)
			if text != "" || category != "" {
				// failures show up through CatalogError
				_ = c.Search(cmd.Context(), text, category)
			}
			fmt.Fprintln(a.out, renderCategories(c))
			fmt.Fprintln(a.out, renderCatalog(c))
			return nil
		},
	}
	cmd.Flags().StringVarP(&text, "query", "q", "", "title search")
	cmd.Flags().StringVar(&category, "category", "", "category filter")
	cmd.Flags().StringVarP(&sortKey, "sort", "s", "", "price-asc, price-desc, title-asc or title-desc")
	return cmd
}

func newCategoriesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List catalog categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			if msg := c.CatalogError(); msg != "" {
				fmt.Fprintln(a.out, errorStyle.Render(msg))
				return nil
			}
			for _, l := range c.Categories() {
				fmt.Fprintln(a.out, l)
			}
			return nil
		},
	}
}

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, renderCart(c.CartItems(), c.Totals(), c.Money()))
			return nil
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "add <product-id> [qty]",
		Short: "Add a product to the cart",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			qty := int64(1)
			if len(args) == 2 {
				qty = cartuc.ParseQuantity(args[1])
			}
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Add(cmd.Context(), args[0], qty); err != nil {
				return err
			}
			fmt.Fprintln(a.out, renderCart(c.CartItems(), c.Totals(), c.Money()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <product-id> <qty>",
		Short: "Change a line quantity",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := c.SetQuantity(cmd.Context(), args[0], cartuc.ParseQuantity(args[1])); err != nil {
				return err
			}
			fmt.Fprintln(a.out, renderCart(c.CartItems(), c.Totals(), c.Money()))
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:     "remove <product-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a line from the cart",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			if err := c.Remove(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintln(a.out, renderCart(c.CartItems(), c.Totals(), c.Money()))
			return nil
		},
	})
	return cmd
}

func newCheckoutCmd(a *app) *cobra.Command {
	var (
		customer domorder.Customer
		accept   bool
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Place an order for the cart contents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := a.controller(cmd.Context())
			if err != nil {
				return err
			}
			_, err = c.PlaceOrder(cmd.Context(), cartuc.Checkout{Customer: customer, AcceptedTerms: accept})
			fmt.Fprintln(a.out, renderStatus(c.Status()))
			if err != nil {
				return ErrReported
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&customer.Name, "name", "", "full name")
	f.StringVar(&customer.Email, "email", "", "email")
	f.StringVar(&customer.Phone, "phone", "", "phone")
	f.StringVar(&customer.Address, "address", "", "street address")
	f.StringVar(&customer.City, "city", "", "city")
	f.StringVar(&customer.State, "state", "", "state")
	f.StringVar(&customer.Zip, "zip", "", "postal code")
	f.StringVar(&customer.Notes, "notes", "", "delivery notes")
	f.BoolVar(&accept, "accept-terms", false, "accept the terms of sale")
	return cmd
}

// ErrReported is returned when the failure was already printed.
var ErrReported = errors.New("checkout failed")
