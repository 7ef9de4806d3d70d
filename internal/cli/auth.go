package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

func credentialsFlags(cmd *cobra.Command, user, pass *string) {
	cmd.Flags().StringVar(user, "user", "", "Username (required)")
	cmd.Flags().StringVar(pass, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
}

func newSignupCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": user, "password": pass}
			var result Success

			if err := client.Post(cmd.Context(), "/signup", req, &result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("signup failed: %s", result.Error)
			}

			output(cmd).PrintMessage("Account created for " + user)
			return nil
		},
	}
	credentialsFlags(cmd, &user, &pass)

	return cmd
}

func newLoginCmd() *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save the session token",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"username": user, "password": pass}
			var result LoginResult

			if err := client.Post(cmd.Context(), "/login", req, &result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("login failed: %s", result.Error)
			}

			// Save token
			if err := cfg.SaveToken(result.Token); err != nil {
				return fmt.Errorf("failed to save token: %w", err)
			}

			output(cmd).Print(result)
			return nil
		},
	}
	credentialsFlags(cmd, &user, &pass)

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the saved token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Token == "" {
				return errors.New("not logged in")
			}

			var result Success
			if err := client.Post(cmd.Context(), "/logout", nil, &result); err != nil {
				return err
			}
			if err := cfg.ClearToken(); err != nil {
				return fmt.Errorf("failed to remove token file: %w", err)
			}

			output(cmd).PrintMessage("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result User

			if err := client.Get(cmd.Context(), "/user", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
