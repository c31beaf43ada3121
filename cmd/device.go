package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	threatStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	cleanStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	permStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135"))
)

var deviceCmd = &cobra.Command{
	Use:   "device",
	Short: "Show the device report",
	Long:  `Display device information, installed apps with their permissions, and malware scan verdicts from the mobile agent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		report, err := client.DeviceReport()
		if err != nil {
			handleAuthFailure(store, err)
			return err
		}

		info := report.DeviceInfoPage.Data.DeviceInfo
		fmt.Println(headerStyle.Render("Device Report"))
		if info.Model != "" {
			fmt.Printf("Model:       %s\n", info.Model)
		}
		if info.OSVersion != "" {
			fmt.Printf("OS:          %s\n", info.OSVersion)
		}
		if info.Battery != "" {
			fmt.Printf("Battery:     %s\n", info.Battery)
		}
		if info.Storage != "" {
			fmt.Printf("Storage:     %s\n", info.Storage)
		}
		if info.LastSynced != "" {
			fmt.Printf("Last Sync:   %s\n", info.LastSynced)
		}

		fmt.Println()
		malicious := report.MaliciousCount()
		if malicious > 0 {
			fmt.Println(threatStyle.Render(fmt.Sprintf("⚠ %d malicious item(s) detected", malicious)))
		} else {
			fmt.Println(cleanStyle.Render("✓ No malware detected"))
		}

		if len(report.MalwareScanPage.Data) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Scan Results"))
			names := make([]string, 0, len(report.MalwareScanPage.Data))
			for name := range report.MalwareScanPage.Data {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				verdict := report.MalwareScanPage.Data[name]
				mark := cleanStyle.Render("clean")
				if verdict.Malicious {
					mark = threatStyle.Render("MALICIOUS")
				}
				fmt.Printf("  %-40s %s\n", name, mark)
				if verdict.Detail != "" {
					fmt.Printf("    %s\n", metaStyle.Render(verdict.Detail))
				}
			}
		}

		if len(report.AppsPage.Data) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render(fmt.Sprintf("Installed Apps (%d)", len(report.AppsPage.Data))))
			for _, app := range report.AppsPage.Data {
				fmt.Printf("  %s\n", app.Name)
				perms := app.Permissions
				extra := 0
				if len(perms) > 5 {
					extra = len(perms) - 5
					perms = perms[:5]
				}
				for _, p := range perms {
					fmt.Printf("    %s\n", permStyle.Render(p))
				}
				if extra > 0 {
					fmt.Printf("    %s\n", metaStyle.Render(fmt.Sprintf("+%d more", extra)))
				}
			}
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(deviceCmd)
}
