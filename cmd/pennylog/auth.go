package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pennylog/pennylog/internal/cli"
	"github.com/pennylog/pennylog/internal/config"
	"github.com/pennylog/pennylog/internal/model"
	"github.com/pennylog/pennylog/internal/session"
)

func loginCmd() *cobra.Command {
	var tokenFile string

	cmd := &cobra.Command{
		Use:   "login <token>",
		Short: "Sign in with a backend access token",
		Long: `Store a backend access token and switch to the authenticated store.
Guest data stays on this device: nothing is migrated into the account.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			var token string
			switch {
			case len(args) == 1:
				token = args[0]
			case tokenFile != "":
				raw, err := os.ReadFile(tokenFile)
				if err != nil {
					return fmt.Errorf("failed to read token file: %w", err)
				}
				token = strings.TrimSpace(string(raw))
			default:
				return fmt.Errorf("provide a token argument or --token-file")
			}

			sess, err := model.SessionFromToken(token, time.Now())
			if err != nil {
				return fmt.Errorf("invalid access token: %w", err)
			}
			if !sess.Authenticated() {
				return fmt.Errorf("token does not carry an account identity")
			}

			if err := os.MkdirAll(config.DataDir(), 0o700); err != nil {
				return fmt.Errorf("failed to create data directory: %w", err)
			}
			if err := os.WriteFile(tokenPath(), []byte(token+"\n"), 0o600); err != nil {
				return fmt.Errorf("failed to store token: %w", err)
			}

			if err := session.TransitionToAuthenticated(ctx, config.DataDir()); err != nil {
				return err
			}

			who := sess.Email
			if who == "" {
				who = sess.UserID
			}
			fmt.Println(cli.FormatSuccess(fmt.Sprintf("Signed in as %s", who)))
			fmt.Println(cli.FormatInfo("Guest expenses stay on this device and are not merged into your account."))
			return nil
		},
	}

	cmd.Flags().StringVar(&tokenFile, "token-file", "", "read the access token from a file")

	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and return to guest mode",
		RunE: func(_ *cobra.Command, _ []string) error {
			err := os.Remove(tokenPath())
			if os.IsNotExist(err) {
				fmt.Println(cli.FormatInfo("Already in guest mode."))
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to remove token: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Signed out. Back to guest mode."))
			return nil
		},
	}
}
