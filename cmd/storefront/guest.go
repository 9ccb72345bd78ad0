package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newGuestCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "guest",
		Short: "Inspect the anonymous session",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "id",
			Short: "Print the guest session id, creating one if needed",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				id, _, err := a.guests.SessionID()
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), id)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Forget the guest session id",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.guests.Clear()
			},
		},
	)
	return cmd
}
