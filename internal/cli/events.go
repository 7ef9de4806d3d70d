package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	var jsonOutput bool
	var count int

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream live events",
		Long: `Connect to an SSE endpoint and print events as they arrive.

Events include:
  - connected: Stream opened
  - score_submitted: A score was posted to the leaderboard
  - game_created: A game was created
  - game_state: A game's saved state changed

Press Ctrl+C to disconnect.`,
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")
	cmd.PersistentFlags().IntVar(&count, "count", 0, "Disconnect after this many events (0 streams until interrupted)")

	cmd.AddCommand(&cobra.Command{
		Use:   "leaderboard",
		Short: "Follow leaderboard submissions",
		RunE: func(cmd *cobra.Command, args []string) error {
			return streamEvents(cmd, "/leaderboard/events", jsonOutput, count)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "game <id>",
		Short: "Follow one game's state changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return streamEvents(cmd, fmt.Sprintf("/games/%d/events", id), jsonOutput, count)
		},
	})

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(cmd *cobra.Command, path string, jsonOutput bool, count int) error {
	// Set up cancellation
	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	body, err := client.Stream(ctx, path)
	if err != nil {
		return err
	}
	defer func() { _ = body.Close() }()

	w := cmd.OutOrStdout()
	seen, err := readEvents(ctx, body, func(event, data string) {
		printEvent(w, event, data, jsonOutput)
	}, count)
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("stream error: %w", err)
	}

	if !jsonOutput {
		fmt.Fprintf(w, "Disconnected after %d events\n", seen)
	}
	return nil
}

// readEvents parses an SSE stream, calling fn for each complete event until
// the stream ends, ctx is done or limit events were seen (limit 0 means no limit)
func readEvents(ctx context.Context, r io.Reader, fn func(event, data string), limit int) (int, error) {
	scanner := bufio.NewScanner(r)
	var currentEvent string
	var dataLines []string
	seen := 0

	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "event: "):
			currentEvent = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			dataLines = append(dataLines, strings.TrimPrefix(line, "data: "))
		case strings.HasPrefix(line, ":"):
			// Comment lines are keepalives
		case line == "":
			// End of event
			if currentEvent != "" {
				seen++
				fn(currentEvent, strings.Join(dataLines, "\n"))
				if limit > 0 && seen >= limit {
					return seen, nil
				}
			}
			currentEvent = ""
			dataLines = nil
		}

		if ctx.Err() != nil {
			return seen, ctx.Err()
		}
	}

	return seen, scanner.Err()
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		evt := SSEEvent{
			Time:  now,
			Event: event,
			Data:  data,
		}
		jsonData, _ := json.Marshal(evt)
		fmt.Fprintln(w, string(jsonData))
	} else {
		timestamp := now.Format("2006-01-02 15:04:05")
		// Truncate data if it's too long for display
		displayData := data
		if len(displayData) > 100 {
			displayData = displayData[:100] + "..."
		}
		// Remove newlines for cleaner display
		displayData = strings.ReplaceAll(displayData, "\n", " ")
		fmt.Fprintf(w, "[%s] %s: %s\n", timestamp, event, displayData)
	}
}
