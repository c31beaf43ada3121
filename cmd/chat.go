package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rakshanetra/rakshanetra-cli/internal"
	"github.com/rakshanetra/rakshanetra-cli/internal/export"
	"github.com/spf13/cobra"
)

var (
	userStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	assistantStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Bold(true)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the RakshaMitra assistant",
	Long: `Open an interactive chat with the RakshaMitra AI assistant.

Inside the chat:
  /sessions        list conversation sessions
  /select <n>      switch to session n
  /history         show the selected conversation
  /new             end the active context and start fresh
  /attach <path>   attach a file to the next message
  /quit            leave the chat

Anything else is sent as a message.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		conv := internal.NewConversation(client)

		cache, err := internal.OpenHistoryCache()
		if err != nil {
			internal.LogWarn("History cache unavailable: %v", err)
			cache = nil
		} else {
			defer func() { _ = cache.Close() }()
		}

		if err := conv.LoadHistory(50, 0); err != nil {
			if internal.IsAuthFailure(err) {
				handleAuthFailure(store, err)
				return err
			}
			internal.LogWarn("Failed to load history: %v", err)
		} else if cache != nil {
			if err := cache.PutAll(conv.Sessions()); err != nil {
				internal.LogWarn("Failed to cache history: %v", err)
			}
		}

		sessions := conv.Sessions()
		fmt.Println(headerStyle.Render("RakshaMitra"))
		fmt.Println(metaStyle.Render(fmt.Sprintf("%d session(s) loaded. Type /help for commands.", len(sessions))))

		if selected := conv.SelectedID(); selected != "" {
			printTranscript(conv.SelectedMessages())
		}

		var attachments []string
		reader := bufio.NewReader(os.Stdin)

		for {
			fmt.Print(promptStyle.Render("you> "))
			line, err := reader.ReadString('\n')
			if err != nil {
				fmt.Println()
				return nil
			}
			line = strings.TrimSpace(line)
			if line == "" && len(attachments) == 0 {
				continue
			}

			if strings.HasPrefix(line, "/") {
				done, err := runChatCommand(line, conv, &attachments)
				if err != nil {
					fmt.Println(warnStyle.Render(err.Error()))
				}
				if done {
					return nil
				}
				continue
			}

			files := attachments
			attachments = nil

			reply, err := conv.SendMessage(line, files)
			if err != nil {
				if errors.Is(err, internal.ErrEmptyMessage) {
					continue
				}
				fmt.Println(warnStyle.Render("Failed to send message: " + err.Error()))
				continue
			}

			fmt.Printf("%s %s\n", assistantStyle.Render("mitra>"), internal.RenderInline(reply.Content))

			if cache != nil {
				for _, s := range conv.Sessions() {
					if s.SessionID == conv.SelectedID() {
						if err := cache.Put(s); err != nil {
							internal.LogWarn("Failed to cache session: %v", err)
						}
						break
					}
				}
			}
		}
	},
}

// runChatCommand handles one slash command. It reports whether the REPL
// should exit.
func runChatCommand(line string, conv *internal.Conversation, attachments *[]string) (bool, error) {
	fields := strings.Fields(line)
	switch fields[0] {
	case "/quit", "/exit":
		return true, nil

	case "/help":
		fmt.Println(metaStyle.Render("/sessions /select <n> /history /new /attach <path> /quit"))
		return false, nil

	case "/sessions":
		sessions := conv.Sessions()
		if len(sessions) == 0 {
			fmt.Println(metaStyle.Render("no sessions"))
			return false, nil
		}
		for i, s := range sessions {
			marker := " "
			if s.SessionID == conv.SelectedID() {
				marker = "*"
			}
			fmt.Printf("%s %2d  %s  %s  %d message(s)\n",
				marker, i+1, shortID(s.SessionID),
				s.UpdatedAt.Local().Format("2006-01-02 15:04"), len(s.Messages))
		}
		return false, nil

	case "/select":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /select <n>")
		}
		n, err := strconv.Atoi(fields[1])
		sessions := conv.Sessions()
		if err != nil || n < 1 || n > len(sessions) {
			return false, fmt.Errorf("no session %s", fields[1])
		}
		if err := conv.Select(sessions[n-1].SessionID); err != nil {
			return false, err
		}
		printTranscript(conv.SelectedMessages())
		return false, nil

	case "/history":
		printTranscript(conv.SelectedMessages())
		return false, nil

	case "/new":
		if !confirm("Start a new chat session? This clears the active context.") {
			return false, nil
		}
		if err := conv.NewSession(); err != nil {
			return false, fmt.Errorf("failed to reset session: %w", err)
		}
		fmt.Println(successStyle.Render("✓ New session started"))
		return false, nil

	case "/attach":
		if len(fields) != 2 {
			return false, fmt.Errorf("usage: /attach <path>")
		}
		if _, err := os.Stat(fields[1]); err != nil {
			return false, fmt.Errorf("cannot attach %s: %w", fields[1], err)
		}
		*attachments = append(*attachments, fields[1])
		fmt.Println(metaStyle.Render(fmt.Sprintf("attached %s (%d pending)", fields[1], len(*attachments))))
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s", fields[0])
	}
}

func printTranscript(messages []internal.Message) {
	for _, m := range messages {
		label := assistantStyle.Render("mitra>")
		if m.Role == "user" {
			label = userStyle.Render("you>")
		}
		suffix := ""
		switch m.Delivery {
		case internal.DeliveryPending:
			suffix = metaStyle.Render(" (sending…)")
		case internal.DeliveryFailed:
			suffix = warnStyle.Render(" (failed)")
		}
		fmt.Printf("%s %s%s\n", label, internal.RenderInline(m.Content), suffix)
	}
}

var (
	exportFormat string
	exportOutput string
	exportID     string
)

var chatExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export chat sessions",
	Long: `Export chat sessions to files. Sessions come from the server when
reachable, falling back to the offline history cache.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}

		cache, err := internal.OpenHistoryCache()
		if err != nil {
			return err
		}
		defer func() { _ = cache.Close() }()

		var sessions []internal.Session
		if store.IsAuthenticated() {
			fetched, err := client.ChatHistory(50, 0)
			if err != nil {
				handleAuthFailure(store, err)
				internal.LogWarn("Server unreachable, exporting cached history: %v", err)
			} else {
				if err := cache.PutAll(fetched); err != nil {
					internal.LogWarn("Failed to cache history: %v", err)
				}
				sessions = fetched
			}
		}
		if sessions == nil {
			sessions, err = cache.All()
			if err != nil {
				return err
			}
		}

		if exportID != "" {
			filtered := sessions[:0]
			for _, s := range sessions {
				if s.SessionID == exportID {
					filtered = append(filtered, s)
				}
			}
			sessions = filtered
		}
		if len(sessions) == 0 {
			return fmt.Errorf("no sessions to export")
		}

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(exportOutput, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		for i := range sessions {
			name := fmt.Sprintf("session_%s.%s", sessions[i].SessionID, exporter.Extension())
			path := filepath.Join(exportOutput, name)
			f, err := os.Create(path)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", path, err)
			}
			if err := exporter.Export(&sessions[i], f); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to export %s: %w", sessions[i].SessionID, err)
			}
			if err := f.Close(); err != nil {
				return err
			}
			internal.LogInfo("Exported %s", path)
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("✓ Exported %d session(s) to %s", len(sessions), exportOutput)))
		return nil
	},
}

func init() {
	chatExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, jsonl, md, yaml)")
	chatExportCmd.Flags().StringVarP(&exportOutput, "output", "o", "chat-export", "Output directory")
	chatExportCmd.Flags().StringVar(&exportID, "session", "", "Export only the given session id")

	chatCmd.AddCommand(chatExportCmd)
	rootCmd.AddCommand(chatCmd)
}
