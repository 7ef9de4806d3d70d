package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTodosCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "todos",
		Short: "Todo list commands",
	}

	cmd.AddCommand(newTodosListCmd())
	cmd.AddCommand(newTodosAddCmd())
	cmd.AddCommand(newTodosDoneCmd())
	cmd.AddCommand(newTodosRmCmd())

	return cmd
}

func newTodosListCmd() *cobra.Command {
	var status string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/todos"
			if status != "" {
				path += "?status=" + status
			}

			var result []Todo
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&status, "status", "", "Filter: all, resolved or pending")

	return cmd
}

func newTodosAddCmd() *cobra.Command {
	var title, description, due string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a todo",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]any{"title": title, "description": description}
			if due != "" {
				req["due_date"] = due
			}

			var result Todo
			if err := client.Post(cmd.Context(), "/todos", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&description, "description", "", "Description")
	cmd.Flags().StringVar(&due, "due", "", "Due date, YYYY-MM-DD or RFC3339")
	_ = cmd.MarkFlagRequired("title")

	return cmd
}

func newTodosDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <id>",
		Short: "Mark a todo as resolved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			path := fmt.Sprintf("/todos/%d", id)

			var result Todo
			if err := client.Get(cmd.Context(), path, &result); err != nil {
				return err
			}
			// Toggle flips the flag, so only send it when still pending
			if !result.Resolved {
				if err := client.Post(cmd.Context(), path+"/toggle", nil, &result); err != nil {
					return err
				}
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newTodosRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "Delete a todo",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			if err := client.Delete(cmd.Context(), fmt.Sprintf("/todos/%d", id)); err != nil {
				return err
			}

			output(cmd).PrintMessage(fmt.Sprintf("Deleted todo %d", id))
			return nil
		},
	}
}
