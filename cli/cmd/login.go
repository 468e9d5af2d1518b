// ABOUTME: Login command for the ecofinds CLI
// ABOUTME: Authenticates against the backend and persists the session file

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
)

var (
	loginUsername string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Authenticate and store a session",
	Long:  `Authenticate against the EcoFinds backend and persist the session for later commands.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		if loginUsername == "" || loginPassword == "" {
			if err := promptCredentials(); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		exitCode := runLogin(ctx, os.Stdout, loginUsername, loginPassword)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
}

// promptCredentials asks for whichever of username/password was not given as a flag
func promptCredentials() error {
	var fields []huh.Field
	if loginUsername == "" {
		fields = append(fields, huh.NewInput().
			Title("Username").
			Value(&loginUsername).
			Validate(requireValue("username")))
	}
	if loginPassword == "" {
		fields = append(fields, huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&loginPassword).
			Validate(requireValue("password")))
	}
	return huh.NewForm(huh.NewGroup(fields...)).Run()
}

func requireValue(name string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

// runLogin performs the login and returns an exit code
func runLogin(ctx context.Context, w io.Writer, username, password string) int {
	session := services.NewSessionManager(newAuthClient())

	if err := session.Login(ctx, username, password); err != nil {
		authErr := services.NormalizeAuthError(err)
		fmt.Fprintf(w, "Error: %s\n", authErr.Message)
		return 2
	}

	user := session.CurrentUser()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatLoginJSON(user))
	} else {
		fmt.Fprintln(w, formatLoginHuman(user))
	}

	return 0
}

// formatLoginHuman formats the logged-in user for human readability
func formatLoginHuman(user *models.User) string {
	return fmt.Sprintf("%s %s",
		titleStyle.Render("Logged in as"),
		user.Username)
}

// formatLoginJSON formats the logged-in user as JSON
func formatLoginJSON(user *models.User) string {
	data, _ := json.MarshalIndent(user, "", "  ")
	return string(data)
}
