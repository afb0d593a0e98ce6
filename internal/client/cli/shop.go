package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"fashionhub/internal/client/tui"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "List the catalog",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		a := current
		a.println(tui.Products(a.catalog.Products(), a.shop.IsFavorite))
	},
}

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show or change the cart",
	Args:  cobra.NoArgs,
	Run:   showCart,
}

func showCart(cmd *cobra.Command, args []string) {
	a := current
	a.println(tui.Cart(a.shop.CartItems(), a.shop.TotalPrice()))
}

var cartShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the cart",
	Args:  cobra.NoArgs,
	Run:   showCart,
}

var cartAddCmd = &cobra.Command{
	Use:   "add [product-id] [size] [quantity]",
	Short: "Add a product in a size (quantity defaults to 1)",
	Args:  cobra.RangeArgs(2, 3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		p, err := a.catalog.Lookup(args[0])
		if err != nil {
			return err
		}
		if !p.HasSize(args[1]) {
			return fmt.Errorf("%s is not available in size %s", p.Name, args[1])
		}
		qty := 1
		if len(args) == 3 {
			if qty, err = parseQuantity(args[2]); err != nil {
				return err
			}
		}
		if err := a.shop.AddToCart(p, args[1], qty); err != nil {
			return err
		}
		showCart(cmd, nil)
		return nil
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove [product-id] [size]",
	Short: "Remove a line item",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		current.shop.RemoveFromCart(args[0], args[1])
		showCart(cmd, nil)
	},
}

var cartSetCmd = &cobra.Command{
	Use:   "set [product-id] [size] [quantity]",
	Short: "Set a line item's quantity (0 removes it)",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		qty, err := parseQuantity(args[2])
		if err != nil {
			return err
		}
		current.shop.SetQuantity(args[0], args[1], qty)
		showCart(cmd, nil)
		return nil
	},
}

var cartSizeCmd = &cobra.Command{
	Use:   "size [product-id] [old-size] [new-size]",
	Short: "Change a line item's size",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		p, err := a.catalog.Lookup(args[0])
		if err == nil && !p.HasSize(args[2]) {
			return fmt.Errorf("%s is not available in size %s", p.Name, args[2])
		}
		if err := a.shop.ChangeSize(args[0], args[1], args[2]); err != nil {
			return err
		}
		showCart(cmd, nil)
		return nil
	},
}

var cartClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the cart",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		current.shop.ClearCart()
		showCart(cmd, nil)
	},
}

var favCmd = &cobra.Command{
	Use:   "fav",
	Short: "Show or change favorites",
	Args:  cobra.NoArgs,
	Run:   showFavorites,
}

func showFavorites(cmd *cobra.Command, args []string) {
	current.println(tui.Favorites(current.shop.Favorites()))
}

var favListCmd = &cobra.Command{
	Use:   "list",
	Short: "List favorites",
	Args:  cobra.NoArgs,
	Run:   showFavorites,
}

var favAddCmd = &cobra.Command{
	Use:   "add [product-id]",
	Short: "Star a product",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a := current
		p, err := a.catalog.Lookup(args[0])
		if err != nil {
			return err
		}
		a.shop.AddFavorite(p)
		showFavorites(cmd, nil)
		return nil
	},
}

var favRemoveCmd = &cobra.Command{
	Use:   "remove [product-id]",
	Short: "Unstar a product",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		current.shop.RemoveFavorite(args[0])
		showFavorites(cmd, nil)
	},
}

func init() {
	cartCmd.AddCommand(cartShowCmd, cartAddCmd, cartRemoveCmd, cartSetCmd, cartSizeCmd, cartClearCmd)
	favCmd.AddCommand(favListCmd, favAddCmd, favRemoveCmd)
}

func parseQuantity(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid quantity %q", s)
	}
	return n, nil
}
