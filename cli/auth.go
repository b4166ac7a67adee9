package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkittipat/feedloop/models"
	"github.com/pkittipat/feedloop/session"
)

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Sign in, sign out and manage your account",
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in to the feedback service.

The issued token is stored locally and reused until it expires, you log
out, or the server rejects it.

Examples:
  feedloop auth login --email me@example.com --password secret`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")

		if email == "" {
			return fmt.Errorf("--email is required")
		}
		if password == "" {
			return fmt.Errorf("--password is required")
		}

		if err := theApp.Session.Login(cmd.Context(), email, password); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}

		user := theApp.Session.User()
		fmt.Printf("Signed in as %s (%s)\n", user.FullName, user.Role)
		return nil
	},
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear the stored token",
	RunE: func(cmd *cobra.Command, args []string) error {
		theApp.Session.Logout(cmd.Context())
		fmt.Println("Signed out.")
		return nil
	},
}

var authRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new account on the feedback service.

Employees should name their manager; use 'feedloop managers' to list
available manager IDs. Registration does not sign you in.

Examples:
  feedloop auth register --email me@example.com --password secret --full-name "Jo Smith" --role employee --manager-id 3`,
	RunE: func(cmd *cobra.Command, args []string) error {
		email, _ := cmd.Flags().GetString("email")
		password, _ := cmd.Flags().GetString("password")
		fullName, _ := cmd.Flags().GetString("full-name")
		role, _ := cmd.Flags().GetString("role")
		managerID, _ := cmd.Flags().GetInt("manager-id")

		payload := models.UserCreate{
			Email:    email,
			Password: password,
			FullName: fullName,
			Role:     models.Role(role),
		}
		if managerID > 0 {
			payload.ManagerID = &managerID
		}

		user, err := theApp.Session.Register(cmd.Context(), payload)
		if err != nil {
			return fmt.Errorf("registration failed: %w", err)
		}

		fmt.Printf("Account created for %s (id %d).\n", user.Email, user.ID)
		fmt.Println("Sign in with 'feedloop auth login'.")
		return nil
	},
}

var authWhoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	RunE: func(cmd *cobra.Command, args []string) error {
		if theApp.Session.Status() == session.StatusAuthenticated {
			user := theApp.Session.User()
			fmt.Printf("Signed in\n")
			fmt.Printf("ID:    %d\n", user.ID)
			fmt.Printf("Name:  %s\n", user.FullName)
			fmt.Printf("Email: %s\n", user.Email)
			fmt.Printf("Role:  %s\n", user.Role)
			if user.ManagerID != nil {
				fmt.Printf("Manager ID: %d\n", *user.ManagerID)
			}
			return nil
		}

		// the backend may simply be unreachable; fall back to the cached
		// profile so 'whoami' still answers offline
		cached, err := theApp.Session.CachedProfile(cmd.Context())
		if err == nil && cached != nil {
			fmt.Printf("Not verified (backend unreachable or token rejected).\n")
			fmt.Printf("Last known user: %s <%s> (%s)\n", cached.FullName, cached.Email, cached.Role)
			return nil
		}

		fmt.Println("Not signed in. Use 'feedloop auth login'.")
		return nil
	},
}

func init() {
	authLoginCmd.Flags().String("email", "", "account email")
	authLoginCmd.Flags().String("password", "", "account password")

	authRegisterCmd.Flags().String("email", "", "account email")
	authRegisterCmd.Flags().String("password", "", "account password")
	authRegisterCmd.Flags().String("full-name", "", "display name")
	authRegisterCmd.Flags().String("role", "employee", "account role: manager or employee")
	authRegisterCmd.Flags().Int("manager-id", 0, "id of your manager (employees)")

	authCmd.AddCommand(authLoginCmd, authLogoutCmd, authRegisterCmd, authWhoamiCmd)
	rootCmd.AddCommand(authCmd)
}
