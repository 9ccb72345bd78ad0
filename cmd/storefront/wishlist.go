package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWishlistCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wishlist",
		Short: "Manage the local wishlist",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "toggle <product-id>",
			Short: "Add or remove a product",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				added, err := a.wishlist.Toggle(args[0])
				if err != nil {
					return err
				}
				if added {
					fmt.Fprintf(cmd.OutOrStdout(), "Added %s to wishlist.\n", args[0])
				} else {
					fmt.Fprintf(cmd.OutOrStdout(), "Removed %s from wishlist.\n", args[0])
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "Print wishlisted product ids",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ids, err := a.wishlist.List()
				if err != nil {
					return err
				}
				for _, id := range ids {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			},
		},
	)
	return cmd
}
