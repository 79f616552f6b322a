package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thermalsanctuary/booking-backend/internal/apiclient"
)

func newTicketCommand(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ticket <code>",
		Short: "Show a booked ticket",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			code := args[0]
			client := settingsFrom(v).client()

			res, err := client.GetTicket(cmd.Context(), code)
			if err != nil {
				if apiclient.IsNotFound(err) {
					return fmt.Errorf("no booking found for ticket %s", code)
				}
				return fmt.Errorf("failed to fetch ticket: %w", err)
			}

			out := cmd.OutOrStdout()
			if err := res.Document.RenderText(out); err != nil {
				return err
			}

			path, _ := cmd.Flags().GetString("print")
			if path == "" {
				return nil
			}
			html, err := client.GetTicketPrint(cmd.Context(), code)
			if err != nil {
				return fmt.Errorf("failed to fetch printable ticket: %w", err)
			}
			if err := os.WriteFile(path, html, 0o644); err != nil {
				return fmt.Errorf("failed to write printable ticket: %w", err)
			}
			fmt.Fprintf(out, "Printable ticket written to %s\n", path)
			return nil
		},
	}
	cmd.Flags().String("print", "", "also save the printable HTML ticket to this file")
	return cmd
}
