package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	loginUsername string
	loginPassword string
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the platform",
	Long:  `Authenticate with username and password and store the issued tokens locally.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}

		// Public-only: an authenticated user belongs on the dashboard.
		if store.IsAuthenticated() {
			fmt.Println(hintStyle.Render("Already logged in. Run 'rakshanetra dashboard' or 'rakshanetra logout' first."))
			return nil
		}

		username := loginUsername
		password := loginPassword
		reader := bufio.NewReader(os.Stdin)

		if username == "" {
			fmt.Print("Username: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read username: %w", err)
			}
			username = strings.TrimSpace(line)
		}
		if password == "" {
			fmt.Print("Password: ")
			line, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("failed to read password: %w", err)
			}
			password = strings.TrimSpace(line)
		}

		user, err := client.Login(username, password)
		if err != nil {
			return err
		}

		name := user.Username
		if name == "" {
			name = username
		}
		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Logged in as %s", name)))
		fmt.Println(hintStyle.Render("Run 'rakshanetra dashboard' to view your security overview."))
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Logged out"))
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "Username (prompted when omitted)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
