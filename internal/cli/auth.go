// auth.go implements the "fincoach register" and "fincoach login" commands.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fincoach-dev/fincoach/internal/api"
	"github.com/fincoach-dev/fincoach/internal/log"
	"github.com/fincoach-dev/fincoach/internal/ui"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account",
	Long: `Create an account on the advisory backend. The email and password
flags double as the credentials for later commands.`,
	RunE: runRegister,
}

var registerUsername string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Check your credentials",
	RunE:  runLogin,
}

func init() {
	registerCmd.Flags().StringVar(&registerUsername, "username", "", "Display name for the new account")
}

func runRegister(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	in := api.RegisterRequest{
		Email:    credentials.email,
		Username: registerUsername,
		Password: credentials.password,
	}
	if in.Email == "" || in.Username == "" || in.Password == "" {
		return fmt.Errorf("--email, --username and --password are required")
	}

	user, err := newClient().Register(cmd.Context(), in)
	if err != nil {
		return fmt.Errorf("registration failed: %s", api.UserMessage(err))
	}
	p.Success("Registration successful! Welcome %s. Please log in.", user.Username)
	return nil
}

func runLogin(cmd *cobra.Command, args []string) error {
	p := ui.NewPrinter(cmd.OutOrStdout())
	u, err := login(cmd.Context(), newClient())
	if err != nil {
		return err
	}
	record(openEvents(), u, log.LogEvent{Event: log.EventLoginSucceeded})
	p.Success("Login successful! Welcome back, %s", u.Username)
	return nil
}
