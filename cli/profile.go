package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkittipat/feedloop/models"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "View and update your profile",
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show your profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/profile"); err != nil {
			return err
		}

		user, err := theApp.Client.Me(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("ID:    %d\n", user.ID)
		fmt.Printf("Name:  %s\n", user.FullName)
		fmt.Printf("Email: %s\n", user.Email)
		fmt.Printf("Role:  %s\n", user.Role)
		if user.ManagerID != nil {
			fmt.Printf("Manager ID: %d\n", *user.ManagerID)
		}
		return nil
	},
}

var profileUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update your profile",
	Long: `Update your name, email or password. Only the flags you pass are
changed.

Examples:
  feedloop profile update --full-name "Jo Smith"
  feedloop profile update --password newsecret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/profile"); err != nil {
			return err
		}

		var payload models.UserUpdate
		if cmd.Flags().Changed("email") {
			v, _ := cmd.Flags().GetString("email")
			payload.Email = &v
		}
		if cmd.Flags().Changed("full-name") {
			v, _ := cmd.Flags().GetString("full-name")
			payload.FullName = &v
		}
		if cmd.Flags().Changed("password") {
			v, _ := cmd.Flags().GetString("password")
			payload.Password = &v
		}
		if payload.Email == nil && payload.FullName == nil && payload.Password == nil {
			return fmt.Errorf("nothing to update: pass --email, --full-name or --password")
		}

		user, err := theApp.Client.UpdateMe(cmd.Context(), payload)
		if err != nil {
			return err
		}
		fmt.Printf("Profile updated for %s.\n", user.Email)
		return nil
	},
}

func init() {
	profileUpdateCmd.Flags().String("email", "", "new email")
	profileUpdateCmd.Flags().String("full-name", "", "new display name")
	profileUpdateCmd.Flags().String("password", "", "new password")

	profileCmd.AddCommand(profileShowCmd, profileUpdateCmd)
	rootCmd.AddCommand(profileCmd)
}
