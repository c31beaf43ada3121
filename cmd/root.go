package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/rakshanetra/rakshanetra-cli/internal"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	apiURL  string
	version string = "dev"
	commit  string = "unknown"
	date    string = "unknown"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "rakshanetra",
	Short: "Terminal client for the RakshaNetra security platform",
	Long: `A CLI client for the RakshaNetra security platform.

Sign in once and the client keeps your credentials in a local store;
every other command talks to the platform API on your behalf.

Features:
  • Security dashboard with device sessions and activity log
  • Device report with app permissions and malware scan verdicts
  • Profile and device-session management
  • AI-powered account recovery guides
  • RakshaMitra AI chat with attachments and offline export

Quick Start:
  rakshanetra login                  # Sign in
  rakshanetra dashboard              # View the security dashboard
  rakshanetra chat                   # Talk to RakshaMitra`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		internal.SetVerbose(verbose)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Override the API base URL")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}

// buildClient wires config, token store and API client together.
func buildClient() (*internal.Client, *internal.TokenStore, error) {
	cfg, err := internal.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if apiURL != "" {
		cfg.BaseURL = apiURL
	}

	store, err := internal.NewTokenStore()
	if err != nil {
		return nil, nil, err
	}

	return internal.NewClient(cfg, store), store, nil
}

// requireAuth gates private commands on a stored access token.
func requireAuth(store *internal.TokenStore) error {
	if !store.IsAuthenticated() {
		return fmt.Errorf("not logged in; run 'rakshanetra login' first")
	}
	return nil
}

// handleAuthFailure clears credentials when err proves the session is
// invalid. Transport errors and server faults leave the store alone.
func handleAuthFailure(store *internal.TokenStore, err error) {
	if !internal.IsAuthFailure(err) {
		return
	}
	if clearErr := store.Clear(); clearErr != nil {
		internal.LogWarn("Failed to clear credentials: %v", clearErr)
		return
	}
	fmt.Fprintln(os.Stderr, "Session expired; credentials cleared. Run 'rakshanetra login' to sign in again.")
}

// confirm asks a y/N question on stdin.
func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}
