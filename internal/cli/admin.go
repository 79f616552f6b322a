package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/manifoldco/promptui"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/thermalsanctuary/booking-backend/internal/config"
	"github.com/thermalsanctuary/booking-backend/internal/database"
	"github.com/thermalsanctuary/booking-backend/internal/services"
)

// promptPassword asks for a password without echoing it
var promptPassword = func(label string) (string, error) {
	prompt := promptui.Prompt{
		Label:    label,
		Mask:     '*',
		Validate: validatePassword,
	}
	return prompt.Run()
}

// openAdminStore connects to the database holding admin accounts
var openAdminStore = func(url, driver string) (services.AdminUserStore, io.Closer, error) {
	db, err := database.NewConnection(config.DatabaseConfig{
		URL:                url,
		Driver:             driver,
		MaxConnections:     2,
		MaxIdleConnections: 1,
		ConnMaxLifetime:    time.Minute,
	})
	if err != nil {
		return nil, nil, err
	}
	return database.NewAdminUserRepository(db), db, nil
}

func validatePassword(input string) error {
	if len(input) < services.MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters", services.MinPasswordLength)
	}
	return nil
}

func newAdminCommand(v *viper.Viper) *cobra.Command {
	admin := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}

	create := &cobra.Command{
		Use:   "create",
		Short: "Create an admin account directly in the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			name, _ := cmd.Flags().GetString("name")
			dbURL := strings.TrimSpace(v.GetString("database-url"))
			if dbURL == "" {
				return errors.New("a database URL is required (--database-url or DATABASE_URL)")
			}

			password, err := promptPassword("Password")
			if err != nil {
				return fmt.Errorf("password prompt: %w", err)
			}
			confirm, err := promptPassword("Confirm password")
			if err != nil {
				return fmt.Errorf("password prompt: %w", err)
			}
			if password != confirm {
				return errors.New("passwords do not match")
			}

			store, closer, err := openAdminStore(dbURL, v.GetString("db-driver"))
			if err != nil {
				return err
			}
			defer closer.Close()

			logger := logrus.New()
			logger.SetOutput(cmd.ErrOrStderr())
			svc := services.NewAdminAuthService(store, nil, v.GetInt("bcrypt-cost"), logger)

			created, err := svc.CreateAdmin(cmd.Context(), email, password, name)
			if err != nil {
				return err
			}

			t := table.NewWriter()
			t.SetOutputMirror(cmd.OutOrStdout())
			t.SetStyle(table.StyleRounded)
			t.SetTitle("Admin created")
			t.AppendRows([]table.Row{
				{"ID", created.ID.String()},
				{"Email", created.Email},
				{"Name", created.FullName},
			})
			t.Render()
			return nil
		},
	}

	flags := create.Flags()
	flags.String("email", "", "admin email address")
	flags.String("name", "", "admin full name")
	flags.String("database-url", "", "PostgreSQL URL (defaults to DATABASE_URL)")
	flags.String("db-driver", "pgx", "database driver: pgx or postgres")
	flags.Int("bcrypt-cost", 12, "bcrypt cost for the password hash")
	_ = create.MarkFlagRequired("email")

	_ = v.BindPFlag("database-url", flags.Lookup("database-url"))
	_ = v.BindPFlag("db-driver", flags.Lookup("db-driver"))
	_ = v.BindPFlag("bcrypt-cost", flags.Lookup("bcrypt-cost"))
	_ = v.BindEnv("database-url", envPrefix+"_DATABASE_URL", "DATABASE_URL")
	_ = v.BindEnv("db-driver", envPrefix+"_DB_DRIVER", "DB_DRIVER")

	admin.AddCommand(create)
	return admin
}
