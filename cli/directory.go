package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "List your reports (managers)",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/employees"); err != nil {
			return err
		}

		users, err := theApp.Client.Users(cmd.Context())
		if err != nil {
			return err
		}
		if len(users) == 0 {
			fmt.Println("No employees found.")
			return nil
		}
		for _, u := range users {
			fmt.Printf("%4d  %-25s %s\n", u.ID, u.FullName, u.Email)
		}
		return nil
	},
}

var managersCmd = &cobra.Command{
	Use:   "managers",
	Short: "List managers",
	Long:  "List managers. This is public so the registration form can offer a manager picker.",
	RunE: func(cmd *cobra.Command, args []string) error {
		managers, err := theApp.Client.Managers(cmd.Context())
		if err != nil {
			return err
		}
		if len(managers) == 0 {
			fmt.Println("No managers found.")
			return nil
		}
		for _, m := range managers {
			fmt.Printf("%4d  %-25s %s\n", m.ID, m.FullName, m.Email)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(employeesCmd, managersCmd)
}
