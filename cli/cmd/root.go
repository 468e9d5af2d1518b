// ABOUTME: Root command for the ecofinds CLI
// ABOUTME: Handles global flags, API URL resolution, and shared client wiring

package cmd

import (
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/cache"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/services"
	"github.com/programmer-nick234/EcoFinds-Sustainable-Second-Hand-Marketplace/store"
)

var (
	apiURL      string
	jsonOutput  bool
	sessionFile string
)

const (
	defaultAPIURL  = "http://localhost:8000/api"
	requestTimeout = 15 * time.Second
)

// rootCmd is the base command
var rootCmd = &cobra.Command{
	Use:   "ecofinds",
	Short: "CLI for the EcoFinds marketplace",
	Long: `ecofinds is a command-line interface for the EcoFinds second-hand marketplace.

It lets sellers manage their listings and browse the catalog without a browser.

Environment Variables:
  ECOFINDS_API_URL  Backend API URL (default: http://localhost:8000/api)`,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "Backend API URL (overrides ECOFINDS_API_URL)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output JSON instead of human-readable text")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "Session file path (default: per-user config dir)")
}

// GetAPIURL returns the API URL from flag, env, or default (in priority order)
func GetAPIURL() string {
	if apiURL != "" {
		return apiURL
	}
	if envURL := os.Getenv("ECOFINDS_API_URL"); envURL != "" {
		return envURL
	}
	return defaultAPIURL
}

// IsJSONOutput returns whether JSON output is requested
func IsJSONOutput() bool {
	return jsonOutput
}

// sessionPath returns the session file location from flag or default
func sessionPath() string {
	if sessionFile != "" {
		return sessionFile
	}
	return store.DefaultSessionPath()
}

// newAPIClient builds an API client over the persisted session file
func newAPIClient() *services.Client {
	return services.NewClient(GetAPIURL(), requestTimeout, store.NewFileStore(sessionPath()))
}

// newAuthClient builds an auth client over the persisted session file
func newAuthClient() *services.AuthClient {
	return services.NewAuthClient(newAPIClient())
}

// newCatalogClient builds a catalog client over the persisted session file.
// The cache only lives for the one command invocation, which keeps the
// categories lookup from firing twice within a single run.
func newCatalogClient() *services.CatalogClient {
	return services.NewCatalogClient(newAPIClient(), cache.New(time.Minute), time.Minute)
}
