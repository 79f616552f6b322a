// Package cli holds the sanctuary command line: the terminal booking wizard,
// ticket lookup and admin bootstrap.
package cli

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thermalsanctuary/booking-backend/internal/apiclient"
)

const (
	envPrefix      = "SANCTUARY"
	defaultAPIURL  = "http://localhost:8080/api/v1"
	defaultTimeout = 12 * time.Second
)

var (
	version = "dev"
	commit  = "none"
)

// Settings are the values shared by every subcommand
type Settings struct {
	APIURL  string
	Timeout time.Duration
	LogFile string
}

// NewRootCommand builds the command tree. Flags can also be set through
// SANCTUARY_* environment variables, e.g. SANCTUARY_API_URL.
func NewRootCommand() *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	root := &cobra.Command{
		Use:           "sanctuary",
		Short:         "Thermal sanctuary booking from the terminal",
		Long:          `Book thermal circuit entries and treatments, look up tickets and manage admin accounts.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String("api-url", defaultAPIURL, "base URL of the booking API")
	flags.Duration("timeout", defaultTimeout, "HTTP request timeout")
	flags.String("log-file", "", "write wizard logs to this file")
	_ = v.BindPFlags(flags)

	root.AddCommand(
		newBookCommand(v),
		newTicketCommand(v),
		newAdminCommand(v),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI and returns the process exit code
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return 1
	}
	return 0
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			out := fmt.Sprintf("sanctuary %s", version)
			if commit != "none" && commit != "" {
				out += fmt.Sprintf(" (%s)", commit)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
		},
	}
}

func settingsFrom(v *viper.Viper) Settings {
	timeout := v.GetDuration("timeout")
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return Settings{
		APIURL:  strings.TrimSpace(v.GetString("api-url")),
		Timeout: timeout,
		LogFile: strings.TrimSpace(v.GetString("log-file")),
	}
}

func (s Settings) client() *apiclient.Client {
	return apiclient.NewClient(s.APIURL, &http.Client{Timeout: s.Timeout})
}

// logger returns a logger that never writes to the terminal the TUI owns
func (s Settings) logger() (*logrus.Logger, func(), error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	if s.LogFile == "" {
		logger.SetOutput(io.Discard)
		return logger, func() {}, nil
	}

	f, err := os.OpenFile(s.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	logger.SetOutput(f)
	logger.SetLevel(logrus.DebugLevel)
	return logger, func() { _ = f.Close() }, nil
}
