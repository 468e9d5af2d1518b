// ABOUTME: Whoami command for the ecofinds CLI
// ABOUTME: Shows the authenticated user's profile from the backend

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/models"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the authenticated user",
	Long:  `Display the profile of the user the stored session belongs to.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

// runWhoami resolves the stored session and returns an exit code. The
// session manager validates the token against the backend: a rejected
// token tears the local session down, a transient failure keeps it.
func runWhoami(ctx context.Context, w io.Writer) int {
	auth := newAuthClient()
	if !auth.IsAuthenticated() {
		fmt.Fprintln(w, "Not logged in. Run 'ecofinds login' first.")
		return 2
	}

	session := services.NewSessionManager(auth)
	session.Hydrate(ctx)

	if !session.IsAuthenticated() {
		if auth.IsAuthenticated() {
			fmt.Fprintln(w, "Error: could not verify the session with the backend.")
		} else {
			fmt.Fprintln(w, "Session expired. Run 'ecofinds login' again.")
		}
		return 2
	}

	user := session.CurrentUser()
	if IsJSONOutput() {
		fmt.Fprintln(w, formatWhoamiJSON(user))
	} else {
		fmt.Fprintln(w, formatWhoamiHuman(user))
	}

	return 0
}

// formatWhoamiHuman formats the profile for human readability
func formatWhoamiHuman(user *models.User) string {
	out := fmt.Sprintf(`%s
Username:  %s
Email:     %s`,
		titleStyle.Render(user.DisplayName()),
		user.Username,
		user.Email)
	if user.PhoneNumber != "" {
		out += fmt.Sprintf("\nPhone:     %s", user.PhoneNumber)
	}
	if user.Address != "" {
		out += fmt.Sprintf("\nAddress:   %s", user.Address)
	}
	if user.DateJoined != "" {
		out += "\n" + mutedStyle.Render(fmt.Sprintf("Member since %s", user.DateJoined))
	}
	return out
}

// formatWhoamiJSON formats the profile as JSON
func formatWhoamiJSON(user *models.User) string {
	data, _ := json.MarshalIndent(user, "", "  ")
	return string(data)
}
