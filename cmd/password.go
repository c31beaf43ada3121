package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var resendOTP bool

var forgotPasswordCmd = &cobra.Command{
	Use:   "forgot-password <email>",
	Short: "Request a password reset OTP",
	Long:  `Request a one-time password sent to the account's email address.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient()
		if err != nil {
			return err
		}
		email := args[0]

		if resendOTP {
			if err := client.ResendOTP(email); err != nil {
				return err
			}
			fmt.Println(successStyle.Render("✓ OTP re-sent to your email."))
			return nil
		}

		if err := client.ForgotPassword(email); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ OTP sent to your email."))
		fmt.Println(hintStyle.Render("Complete the reset with 'rakshanetra reset-password " + email + "'."))
		return nil
	},
}

var resetNewPassword string

var resetPasswordCmd = &cobra.Command{
	Use:   "reset-password <email> <otp>",
	Short: "Reset the password with an OTP",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, _, err := buildClient()
		if err != nil {
			return err
		}

		newPassword := resetNewPassword
		if newPassword == "" {
			fmt.Print("New password: ")
			if _, err := fmt.Scanln(&newPassword); err != nil {
				return fmt.Errorf("failed to read new password: %w", err)
			}
		}

		if err := client.ResetPassword(args[0], args[1], newPassword); err != nil {
			return err
		}
		fmt.Println(successStyle.Render("✓ Password reset successfully! Login with your new password."))
		return nil
	},
}

func init() {
	forgotPasswordCmd.Flags().BoolVar(&resendOTP, "resend", false, "Re-send a previously requested OTP")
	resetPasswordCmd.Flags().StringVar(&resetNewPassword, "new-password", "", "New password (prompted when omitted)")

	rootCmd.AddCommand(forgotPasswordCmd)
	rootCmd.AddCommand(resetPasswordCmd)
}
