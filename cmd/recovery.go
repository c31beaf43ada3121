package cmd

import (
	"fmt"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/rakshanetra/rakshanetra-cli/internal"
	"github.com/spf13/cobra"
)

var recoveryLang string

var (
	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	linkStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Underline(true)

	badgeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var recoveryCmd = &cobra.Command{
	Use:   "recovery <platform>",
	Short: "Generate an account recovery guide",
	Long: `Ask the recovery engine for a step-by-step guide to recover an
account on the given platform (e.g. Facebook, Google, Instagram).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		lang := recoveryLang
		if lang == "" {
			cfg, cfgErr := internal.LoadConfig()
			if cfgErr == nil {
				lang = cfg.Language
			} else {
				lang = "English"
			}
		}

		result, err := client.InitiateRecovery(args[0], lang)
		if err != nil {
			handleAuthFailure(store, err)
			return err
		}

		renderRecovery(result)
		return nil
	},
}

func renderRecovery(result *internal.RecoveryResult) {
	fmt.Println(headerStyle.Render(result.Title))
	line := fmt.Sprintf("ID: %s", result.RecoveryID)
	if result.FromCache {
		line += "  " + badgeStyle.Render("⚡ cached")
	}
	fmt.Println(metaStyle.Render(line))

	guide := result.JSONData

	if len(guide.Warnings) > 0 {
		fmt.Println()
		fmt.Println(warnStyle.Render("Critical Warnings"))
		for _, w := range guide.Warnings {
			fmt.Printf("  • %s\n", internal.RenderInline(w))
		}
	}

	if len(guide.Guide) > 0 {
		titles := make([]string, 0, len(guide.Guide))
		for title := range guide.Guide {
			// Shown separately on the web app's sidebar; skipped here
			// to match.
			if title == "Post-Recovery Security Recommendations" {
				continue
			}
			titles = append(titles, title)
		}
		sort.Strings(titles)

		for _, title := range titles {
			section := guide.Guide[title]
			fmt.Println()
			fmt.Println(sectionStyle.Render(title))
			if section.EstimatedTimeMinutes > 0 {
				fmt.Println(metaStyle.Render(fmt.Sprintf("  ~%d minutes", section.EstimatedTimeMinutes)))
			}
			for i, step := range section.Steps {
				fmt.Printf("  %d. %s\n", i+1, internal.RenderInline(step))
			}
			if len(section.Troubleshooting) > 0 {
				fmt.Println(metaStyle.Render("  Troubleshooting:"))
				for _, tip := range section.Troubleshooting {
					fmt.Printf("    - %s\n", internal.RenderInline(tip))
				}
			}
			if section.OfficialLink != "" {
				fmt.Printf("  %s\n", linkStyle.Render(section.OfficialLink))
			}
		}
	}

	if len(guide.SupportContacts) > 0 {
		fmt.Println()
		fmt.Println(sectionStyle.Render("Support Links"))
		for _, entry := range guide.SupportContacts {
			link := internal.ParseSmartLink(entry)
			if link.URL == "" {
				// No URL in the entry; render it as plain text rather
				// than an empty link.
				fmt.Printf("  %s\n", entry)
				continue
			}
			fmt.Printf("  %s  %s\n", link.Text, linkStyle.Render(link.URL))
		}
	}

	if len(guide.AlternativeVerification) > 0 {
		fmt.Println()
		fmt.Println(sectionStyle.Render("Alternative Verification"))
		for _, method := range guide.AlternativeVerification {
			fmt.Printf("  • %s\n", internal.RenderInline(method))
		}
	}
}

func init() {
	recoveryCmd.Flags().StringVar(&recoveryLang, "lang", "", "Guide language (default from config, English otherwise)")
	rootCmd.AddCommand(recoveryCmd)
}
