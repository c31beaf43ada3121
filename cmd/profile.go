package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rakshanetra/rakshanetra-cli/internal"
	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show and manage the account profile",
	Long:  `Display the account profile and active device sessions. Subcommands update the profile, change the password, and revoke device sessions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		// Profile and device sessions are independent; fetch them
		// concurrently and join before rendering.
		type profileResult struct {
			profile *internal.Profile
			err     error
		}
		type sessionsResult struct {
			sessions []internal.DeviceSession
			err      error
		}
		profileCh := make(chan profileResult, 1)
		sessionsCh := make(chan sessionsResult, 1)

		go func() {
			p, err := client.Profile()
			profileCh <- profileResult{p, err}
		}()
		go func() {
			s, err := client.DeviceSessions()
			sessionsCh <- sessionsResult{s, err}
		}()

		pr := <-profileCh
		sr := <-sessionsCh

		if pr.err != nil {
			handleAuthFailure(store, pr.err)
			return pr.err
		}
		if sr.err != nil {
			handleAuthFailure(store, sr.err)
			return sr.err
		}

		fmt.Println(headerStyle.Render("Profile"))
		fmt.Printf("Name:     %s\n", pr.profile.FullName)
		if pr.profile.Username != "" {
			fmt.Printf("Username: %s\n", pr.profile.Username)
		}
		if pr.profile.Email != "" {
			fmt.Printf("Email:    %s\n", pr.profile.Email)
		}
		if pr.profile.ProfilePicURL != "" {
			fmt.Printf("Picture:  %s\n", pr.profile.ProfilePicURL)
		}

		if len(pr.profile.EmergencyContacts) > 0 {
			fmt.Println()
			fmt.Println(headerStyle.Render("Emergency Contacts"))
			for _, c := range pr.profile.EmergencyContacts {
				fmt.Printf("  %s <%s>\n", c.Name, c.Email)
			}
		}

		fmt.Println()
		printDeviceSessions(sr.sessions)
		return nil
	},
}

func printDeviceSessions(sessions []internal.DeviceSession) {
	fmt.Println(headerStyle.Render(fmt.Sprintf("Device Sessions (%d)", len(sessions))))
	if len(sessions) == 0 {
		fmt.Println(metaStyle.Render("  none"))
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "SESSION\tDEVICE\tIP\tSTATUS\tLAST SEEN")
	for _, s := range sessions {
		status := inactiveStyle.Render("inactive")
		if s.IsActive {
			status = activeStyle.Render("active")
		}
		device := s.Device
		if s.IsCurrent {
			device += " (this device)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			shortID(s.SessionID), device, s.IP, status, s.LastSeen)
	}
	_ = w.Flush()
}

var (
	updateFullName string
	updatePicURL   string
	updateContacts []string
)

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update profile fields",
	Long: `Patch the account profile. Emergency contacts are given as
repeatable "Name=email" pairs and replace the stored list.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		patch := &internal.Profile{
			FullName:      updateFullName,
			ProfilePicURL: updatePicURL,
		}
		for _, raw := range updateContacts {
			contact, err := parseContact(raw)
			if err != nil {
				return err
			}
			patch.EmergencyContacts = append(patch.EmergencyContacts, contact)
		}

		if err := client.UpdateProfile(patch); err != nil {
			handleAuthFailure(store, err)
			return err
		}
		fmt.Println(successStyle.Render("✓ Profile updated successfully!"))
		return nil
	},
}

func parseContact(raw string) (internal.EmergencyContact, error) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '=' {
			return internal.EmergencyContact{Name: raw[:i], Email: raw[i+1:]}, nil
		}
	}
	return internal.EmergencyContact{}, fmt.Errorf("invalid contact %q (expected Name=email)", raw)
}

var profileChangePasswordCmd = &cobra.Command{
	Use:   "change-password",
	Short: "Change the account password",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		var current, newPassword string
		fmt.Print("Current password: ")
		if _, err := fmt.Scanln(&current); err != nil {
			return fmt.Errorf("failed to read current password: %w", err)
		}
		fmt.Print("New password: ")
		if _, err := fmt.Scanln(&newPassword); err != nil {
			return fmt.Errorf("failed to read new password: %w", err)
		}

		if err := client.ChangePassword(current, newPassword); err != nil {
			handleAuthFailure(store, err)
			return err
		}
		fmt.Println(successStyle.Render("✓ Password changed successfully"))
		return nil
	},
}

var profileSessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "List active device sessions",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}

		sessions, err := client.DeviceSessions()
		if err != nil {
			handleAuthFailure(store, err)
			return err
		}
		printDeviceSessions(sessions)
		return nil
	},
}

var logoutDeviceCmd = &cobra.Command{
	Use:   "logout-device <session-id>",
	Short: "Revoke one device session",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}
		if !confirm("Logout this device?") {
			return nil
		}

		if err := client.LogoutDevice(args[0]); err != nil {
			handleAuthFailure(store, err)
			return err
		}
		fmt.Println(successStyle.Render("✓ Device logged out"))
		return nil
	},
}

var logoutAllCmd = &cobra.Command{
	Use:   "logout-all",
	Short: "Revoke every device session",
	Long:  `Revoke all device sessions, including this one, and clear the stored credentials.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, store, err := buildClient()
		if err != nil {
			return err
		}
		if err := requireAuth(store); err != nil {
			return err
		}
		if !confirm("Logout from all devices?") {
			return nil
		}

		if err := client.LogoutAll(); err != nil {
			handleAuthFailure(store, err)
			return err
		}
		if err := store.Clear(); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Logged out everywhere"))
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().StringVar(&updateFullName, "name", "", "Full name")
	profileUpdateCmd.Flags().StringVar(&updatePicURL, "picture", "", "Profile picture URL")
	profileUpdateCmd.Flags().StringArrayVar(&updateContacts, "contact", nil, "Emergency contact as Name=email (repeatable)")

	profileCmd.AddCommand(profileUpdateCmd)
	profileCmd.AddCommand(profileChangePasswordCmd)
	profileCmd.AddCommand(profileSessionsCmd)
	profileCmd.AddCommand(logoutDeviceCmd)
	profileCmd.AddCommand(logoutAllCmd)
	rootCmd.AddCommand(profileCmd)
}
