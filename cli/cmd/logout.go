// ABOUTME: Logout command for the ecofinds CLI
// ABOUTME: Revokes the refresh token and clears the persisted session

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Long:  `Revoke the refresh token on the backend and delete the locally stored session.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

// runLogout clears the session and returns an exit code. Logout always
// succeeds locally even when the backend is unreachable.
func runLogout(ctx context.Context, w io.Writer) int {
	session := services.NewSessionManager(newAuthClient())
	session.Logout(ctx)

	if IsJSONOutput() {
		fmt.Fprintln(w, `{"logged_out": true}`)
	} else {
		fmt.Fprintln(w, "Logged out.")
	}
	return 0
}
