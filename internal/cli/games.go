package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newGamesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "games",
		Short: "Game commands",
	}

	cmd.AddCommand(newGamesListCmd())
	cmd.AddCommand(newGamesGetCmd())
	cmd.AddCommand(newGamesCreateCmd())
	cmd.AddCommand(newGamesUpdateStateCmd())

	return cmd
}

// parseID validates a positional id argument
func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q: must be a positive integer", arg)
	}
	return id, nil
}

func newGamesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List games",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Game
			if err := client.Get(cmd.Context(), "/games", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGamesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a game's current snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			var result GameSnapshot
			if err := client.Get(cmd.Context(), fmt.Sprintf("/games/%d", id), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGamesCreateCmd() *cobra.Command {
	var mode, state string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game owned by the logged in user",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"mode": mode, "state": state}
			var result Game

			if err := client.Post(cmd.Context(), "/games", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&mode, "mode", "", "Game mode: walls or wrap (default walls)")
	cmd.Flags().StringVar(&state, "state", "", "Initial state as JSON")

	return cmd
}

func newGamesUpdateStateCmd() *cobra.Command {
	var state string

	cmd := &cobra.Command{
		Use:   "update-state <id>",
		Short: "Replace a game's saved state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req := map[string]string{"state": state}
			var result Game
			if err := client.Put(cmd.Context(), fmt.Sprintf("/games/%d/state", id), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&state, "state", "", "New state as JSON (required)")
	_ = cmd.MarkFlagRequired("state")

	return cmd
}
