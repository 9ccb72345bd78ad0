package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"text/tabwriter"

	"storefront/internal/cartctl"
	"storefront/internal/cartview"
	"storefront/internal/client"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCartCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show and change the cart",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runCart(cmd, nil)
			},
		},
		&cobra.Command{
			Use:   "add <product-id> [quantity]",
			Short: "Add a product to the cart",
			Args:  cobra.RangeArgs(1, 2),
			RunE: func(cmd *cobra.Command, args []string) error {
				qty := 1
				if len(args) == 2 {
					n, err := strconv.Atoi(args[1])
					if err != nil || n < 1 {
						return fmt.Errorf("invalid quantity %q", args[1])
					}
					qty = n
				}
				return a.runCart(cmd, func(ctx context.Context, c *cartctl.Controller) error {
					return c.Add(ctx, args[0], qty)
				})
			},
		},
		&cobra.Command{
			Use:   "inc <product-id>",
			Short: "Raise a line by one",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runCart(cmd, func(ctx context.Context, c *cartctl.Controller) error {
					return c.Increment(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "dec <product-id>",
			Short: "Lower a line by one, never below 1",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runCart(cmd, func(ctx context.Context, c *cartctl.Controller) error {
					return c.Decrement(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "remove <product-id>",
			Short: "Remove a line",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runCart(cmd, func(ctx context.Context, c *cartctl.Controller) error {
					return c.Remove(ctx, args[0])
				})
			},
		},
		&cobra.Command{
			Use:   "clear",
			Short: "Empty the cart",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.runCart(cmd, func(ctx context.Context, c *cartctl.Controller) error {
					return c.Clear(ctx)
				})
			},
		},
	)
	return cmd
}

// runCart loads the cart, applies op when given, and prints the result.
func (a *app) runCart(cmd *cobra.Command, op func(context.Context, *cartctl.Controller) error) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
	defer cancel()

	ctl, err := a.controller()
	if err != nil {
		return err
	}
	if err := ctl.Load(ctx); err != nil {
		return a.shopperError(err)
	}
	if op != nil {
		if err := op(ctx, ctl); err != nil {
			return a.shopperError(err)
		}
	}
	printCart(cmd.OutOrStdout(), ctl.View())
	return nil
}

// shopperError renders err for the terminal. A rejected token is dropped so
// the next command runs as a guest.
func (a *app) shopperError(err error) error {
	a.logger.Debug("cart operation failed", zap.Error(err))
	var remote *client.RemoteError
	if errors.As(err, &remote) && remote.Status == http.StatusUnauthorized {
		if ferr := a.forgetAuth(); ferr != nil {
			a.logger.Warn("forget expired sign-in", zap.Error(ferr))
		}
	}
	return errors.New(cartctl.Message(err))
}

func printCart(w io.Writer, v cartview.View) {
	if v.IsEmpty() {
		fmt.Fprintln(w, "Your cart is empty.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tPRICE\tQTY\tTOTAL")
	for _, l := range v.Lines() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\n",
			l.ProductID, l.Name, l.Price.StringFixed(2), l.Quantity, l.Total().StringFixed(2))
	}
	_ = tw.Flush()
	fmt.Fprintf(w, "Items: %d  Subtotal: %s\n", v.ItemCount(), v.Subtotal().StringFixed(2))
}
