package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "login <email> <password>",
		Short: "Sign in and merge the guest cart into your account",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			guestID, _, err := a.guests.SessionID()
			if err != nil {
				return err
			}
			auth, err := a.api.Login(ctx, args[0], args[1], guestID)
			if err != nil {
				return err
			}
			if err := a.saveAuth(auth.AccessToken, auth.User.ID); err != nil {
				return err
			}
			// The server has folded the guest cart into the account.
			if err := a.guests.Clear(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s.\n", auth.User.Email)
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "register <username> <email> <password>",
		Short: "Create an account and sign in",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), a.timeout)
			defer cancel()

			auth, err := a.api.Register(ctx, args[0], args[1], args[2])
			if err != nil {
				return err
			}
			if err := a.saveAuth(auth.AccessToken, auth.User.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s.\n", auth.User.Username)
			return nil
		},
	}
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored sign-in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.forgetAuth(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func (a *app) saveAuth(token, userID string) error {
	if err := a.store.Set(tokenKey, token); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := a.store.Set(userIDKey, userID); err != nil {
		return fmt.Errorf("save user id: %w", err)
	}
	return nil
}

func (a *app) forgetAuth() error {
	if err := a.store.Delete(tokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	if err := a.store.Delete(userIDKey); err != nil {
		return fmt.Errorf("clear user id: %w", err)
	}
	return nil
}
