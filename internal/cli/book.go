package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thermalsanctuary/booking-backend/internal/tui"
	"github.com/thermalsanctuary/booking-backend/internal/wizard"
)

func newBookCommand(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "book",
		Short: "Book a visit with the interactive wizard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s := settingsFrom(v)
			logger, closeLog, err := s.logger()
			if err != nil {
				return err
			}
			defer closeLog()

			logger.WithField("api_url", s.APIURL).Info("Starting booking wizard")
			model := tui.New(s.client(), wizard.WithLogger(logger))
			if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
				return fmt.Errorf("wizard exited: %w", err)
			}
			return nil
		},
	}
}
