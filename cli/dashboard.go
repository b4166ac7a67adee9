package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkittipat/feedloop/models"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show your feedback dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/dashboard"); err != nil {
			return err
		}

		user := theApp.Session.User()
		if user.Role == models.RoleManager {
			dashboard, err := theApp.Client.ManagerDashboard(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("Manager dashboard for %s\n\n", user.FullName)
			fmt.Printf("Employees:       %d\n", dashboard.EmployeesCount)
			fmt.Printf("Feedback given:  %d\n", dashboard.FeedbackCount)
			printSentiments(dashboard.FeedbackBySentiment)
			printRecent(dashboard.RecentFeedback)
			return nil
		}

		dashboard, err := theApp.Client.EmployeeDashboard(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Printf("Dashboard for %s\n\n", user.FullName)
		fmt.Printf("Feedback received: %d\n", dashboard.FeedbackCount)
		printSentiments(dashboard.FeedbackBySentiment)
		printRecent(dashboard.RecentFeedback)
		return nil
	},
}

func printSentiments(breakdown models.SentimentBreakdown) {
	fmt.Println("\nBy sentiment:")
	for _, s := range []string{"positive", "neutral", "negative"} {
		fmt.Printf("  %-8s %d\n", s, breakdown[s])
	}
}

func printRecent(recent []models.Feedback) {
	if len(recent) == 0 {
		return
	}
	fmt.Println("\nRecent feedback:")
	for _, f := range recent {
		fmt.Printf("  %4d  %-8s  %s  %s\n",
			f.ID, f.Sentiment, f.CreatedAt.Format("2006-01-02"), summarize(f.Content, 50))
	}
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}
