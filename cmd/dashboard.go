package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	activeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show the security dashboard",
	Long:  `Display the account overview: device sessions and recent activity.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		data, err := client.FetchDashboard()
		if err != nil {
			handleAuthFailure(store, err)
			return err
		}

		fmt.Println(headerStyle.Render("Command Center"))
		fmt.Println(metaStyle.Render(fmt.Sprintf("User ID: %s", data.User.ID)))
		fmt.Println()

		active := 0
		for _, s := range data.Sessions {
			if s.IsActive {
				active++
			}
		}
		fmt.Printf("Sessions: %s active / %d total\n",
			activeStyle.Render(fmt.Sprintf("%d", active)), len(data.Sessions))

		if len(data.Sessions) > 0 {
			fmt.Println()
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SESSION\tDEVICE\tIP\tSTATUS\tLAST SEEN")
			for _, s := range data.Sessions {
				status := inactiveStyle.Render("inactive")
				if s.IsActive {
					status = activeStyle.Render("active")
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
					shortID(s.SessionID), s.Device, s.IP, status, s.LastSeen)
			}
			_ = w.Flush()
		}

		// Most recent events first, capped at ten like the web dashboard.
		if len(data.ActivityLogs) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Recent Activity"))
			logs := data.ActivityLogs
			if len(logs) > 10 {
				logs = logs[:10]
			}
			for _, log := range logs {
				fmt.Printf("  %s  %s\n", metaStyle.Render(formatTimestamp(log.Timestamp)), log.Event)
			}
		}

		return nil
	},
}

// shortID truncates long server ids for table display.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12] + "…"
	}
	return id
}

// formatTimestamp renders an RFC3339 timestamp as local HH:MM, falling
// back to the raw string when it does not parse.
func formatTimestamp(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format("15:04")
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
