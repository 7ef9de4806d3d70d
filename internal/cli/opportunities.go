package cli

import (
	"github.com/spf13/cobra"
)

func newOpportunitiesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "opportunities",
		Short: "Sales opportunity commands",
	}

	cmd.AddCommand(newOpportunitiesListCmd())
	cmd.AddCommand(newOpportunitiesCreateCmd())

	return cmd
}

func newOpportunitiesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the latest opportunities",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result []Opportunity
			if err := client.Get(cmd.Context(), "/opportunities", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

// opportunityFields are the string fields sent on create, in flag order
var opportunityFields = []struct {
	flag  string
	field string
	usage string
}{
	{"title", "title", "Opportunity title"},
	{"client", "client", "Client name"},
	{"contact-name", "contact_name", "Contact name"},
	{"contact-email", "contact_email", "Contact email"},
	{"description", "description", "Description"},
	{"type", "type", "Engagement type"},
	{"complexity", "complexity", "Complexity"},
	{"duration", "duration", "Expected duration"},
	{"skills", "skills", "Required skills"},
}

func newOpportunitiesCreateCmd() *cobra.Command {
	values := make(map[string]*string, len(opportunityFields))
	var dealValue float64

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an opportunity and generate insights for it",
		Long: `Create an opportunity. Every field is required by the server;
missing ones are reported back as a validation error.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req := make(map[string]any, len(opportunityFields)+1)
			for _, f := range opportunityFields {
				if cmd.Flags().Changed(f.flag) {
					req[f.field] = *values[f.flag]
				}
			}
			if cmd.Flags().Changed("deal-value") {
				req["deal_value"] = dealValue
			}

			var result Opportunity
			if err := client.Post(cmd.Context(), "/opportunities", req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	for _, f := range opportunityFields {
		values[f.flag] = cmd.Flags().String(f.flag, "", f.usage)
	}
	cmd.Flags().Float64Var(&dealValue, "deal-value", 0, "Deal value")

	return cmd
}
