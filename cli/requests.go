package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var requestsCmd = &cobra.Command{
	Use:   "requests",
	Short: "Feedback requests",
}

var requestsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback requests visible to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/requests"); err != nil {
			return err
		}

		requests, err := theApp.Client.FeedbackRequests(cmd.Context())
		if err != nil {
			return err
		}
		if len(requests) == 0 {
			fmt.Println("No feedback requests.")
			return nil
		}
		for _, r := range requests {
			fmt.Printf("%4d  employee %-4d  %-9s  %s\n",
				r.ID, r.EmployeeID, r.Status, r.CreatedAt.Format("2006-01-02"))
		}
		return nil
	},
}

var requestsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Ask your manager for feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/requests"); err != nil {
			return err
		}

		request, err := theApp.Client.CreateFeedbackRequest(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Feedback request %d created (%s).\n", request.ID, request.Status)
		return nil
	},
}

func init() {
	requestsCmd.AddCommand(requestsListCmd, requestsCreateCmd)
	rootCmd.AddCommand(requestsCmd)
}
