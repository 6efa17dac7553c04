package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/manhhung3004/Gentsshop/api"
	"github.com/manhhung3004/Gentsshop/app"
)

type loginOptions struct {
	Email    string
	Password string
}

func newLoginCommand(rt *cli) *cobra.Command {
	opts := &loginOptions{}

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session",
		Example: `  gentsshop login --email ann@example.com --password secret
  echo secret | gentsshop login --email ann@example.com`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if opts.Password == "" {
				pw, err := readLine(cmd)
				if err != nil {
					return err
				}
				opts.Password = pw
			}
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				user, err := a.Session.Login(ctx, opts.Email, opts.Password)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.ErrOrStderr(), api.MsgLoginSuccess)
				return render(cmd.OutOrStdout(), rt.global.Output, user)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Email, "email", "e", "", "Account email")
	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "Account password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func readLine(cmd *cobra.Command) (string, error) {
	sc := bufio.NewScanner(cmd.InOrStdin())
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return "", errors.New("password is required")
	}
	return strings.TrimRight(sc.Text(), "\r"), nil
}

func newLogoutCommand(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				if err := a.Session.Logout(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), api.MsgLogoutSuccess)
				return nil
			})
		},
	}
}

func newMeCommand(rt *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the signed-in user as the server knows it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return rt.withApp(cmd, func(ctx context.Context, a *app.App) error {
				user, err := a.Session.LoadUser(ctx)
				if err != nil {
					return err
				}
				return render(cmd.OutOrStdout(), rt.global.Output, user)
			})
		},
	}
}
