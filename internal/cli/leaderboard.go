package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newLeaderboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leaderboard",
		Short: "Leaderboard commands",
	}

	cmd.AddCommand(newLeaderboardListCmd())
	cmd.AddCommand(newLeaderboardSubmitCmd())

	return cmd
}

func newLeaderboardListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Show the top scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/leaderboard"
			if limit > 0 {
				path += "?limit=" + strconv.Itoa(limit)
			}

			var result []LeaderboardEntry
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum entries to show (server caps at 10)")

	return cmd
}

func newLeaderboardSubmitCmd() *cobra.Command {
	var user string
	var score int

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a score",
		RunE: func(cmd *cobra.Command, args []string) error {
			if score < 0 {
				return fmt.Errorf("--score must not be negative")
			}

			req := map[string]any{"username": user, "score": score}
			var result Success

			if err := client.Post(cmd.Context(), "/leaderboard", req, &result); err != nil {
				return err
			}
			if !result.Success {
				return fmt.Errorf("submit failed: %s", result.Error)
			}

			output(cmd).PrintMessage(fmt.Sprintf("Submitted %d for %s", score, user))
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Player name (required)")
	cmd.Flags().IntVar(&score, "score", 0, "Score (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
