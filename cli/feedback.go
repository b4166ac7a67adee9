package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkittipat/feedloop/models"
)

var feedbackCmd = &cobra.Command{
	Use:   "feedback",
	Short: "Browse and manage feedback",
}

var feedbackListCmd = &cobra.Command{
	Use:   "list",
	Short: "List feedback visible to you",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback"); err != nil {
			return err
		}

		feedbacks, err := theApp.Client.Feedbacks(cmd.Context())
		if err != nil {
			return err
		}
		if len(feedbacks) == 0 {
			fmt.Println("No feedback yet.")
			return nil
		}

		for _, f := range feedbacks {
			ack := " "
			if f.IsAcknowledged {
				ack = "✓"
			}
			fmt.Printf("%4d  [%s] %-8s  %s  %s\n",
				f.ID, ack, f.Sentiment, f.CreatedAt.Format("2006-01-02"), summarize(f.Content, 60))
		}
		return nil
	},
}

var feedbackShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one feedback record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback/:id"); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid feedback id %q", args[0])
		}

		feedback, err := theApp.Client.Feedback(cmd.Context(), id)
		if err != nil {
			return err
		}
		printFeedback(feedback)

		tags, err := theApp.Client.FeedbackTags(cmd.Context(), id)
		if err == nil && len(tags) > 0 {
			fmt.Printf("Tags: %s\n", strings.Join(tags, ", "))
		}
		return nil
	},
}

var feedbackCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Give feedback to an employee (managers)",
	Long: `Give structured feedback to one of your reports.

Examples:
  feedloop feedback create --employee-id 7 --sentiment positive \
    --content "Great quarter" --strengths "Ownership" --areas-to-improve "Delegation"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback/create"); err != nil {
			return err
		}

		employeeID, _ := cmd.Flags().GetInt("employee-id")
		content, _ := cmd.Flags().GetString("content")
		strengths, _ := cmd.Flags().GetString("strengths")
		areas, _ := cmd.Flags().GetString("areas-to-improve")
		sentiment, _ := cmd.Flags().GetString("sentiment")
		anonymous, _ := cmd.Flags().GetBool("anonymous")
		tags, _ := cmd.Flags().GetStringSlice("tags")
		requestID, _ := cmd.Flags().GetInt("request-id")

		if !models.Sentiment(sentiment).Valid() {
			return fmt.Errorf("--sentiment must be positive, neutral or negative")
		}

		payload := models.FeedbackCreate{
			Content:        content,
			Strengths:      strengths,
			AreasToImprove: areas,
			Sentiment:      models.Sentiment(sentiment),
			IsAnonymous:    anonymous,
			Tags:           tags,
			EmployeeID:     employeeID,
		}
		if requestID > 0 {
			payload.FeedbackRequestID = &requestID
		}

		feedback, err := theApp.Client.CreateFeedback(cmd.Context(), payload)
		if err != nil {
			return err
		}
		fmt.Printf("Feedback %d created for employee %d.\n", feedback.ID, feedback.EmployeeID)
		return nil
	},
}

var feedbackUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update feedback you gave (managers)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback/:id"); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid feedback id %q", args[0])
		}

		var payload models.FeedbackUpdate
		if cmd.Flags().Changed("content") {
			v, _ := cmd.Flags().GetString("content")
			payload.Content = &v
		}
		if cmd.Flags().Changed("strengths") {
			v, _ := cmd.Flags().GetString("strengths")
			payload.Strengths = &v
		}
		if cmd.Flags().Changed("areas-to-improve") {
			v, _ := cmd.Flags().GetString("areas-to-improve")
			payload.AreasToImprove = &v
		}
		if cmd.Flags().Changed("sentiment") {
			v, _ := cmd.Flags().GetString("sentiment")
			if !models.Sentiment(v).Valid() {
				return fmt.Errorf("--sentiment must be positive, neutral or negative")
			}
			s := models.Sentiment(v)
			payload.Sentiment = &s
		}

		feedback, err := theApp.Client.UpdateFeedback(cmd.Context(), id, payload)
		if err != nil {
			return err
		}
		fmt.Printf("Feedback %d updated.\n", feedback.ID)
		return nil
	},
}

var feedbackAckCmd = &cobra.Command{
	Use:   "acknowledge <id>",
	Short: "Acknowledge feedback you received",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback/:id"); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid feedback id %q", args[0])
		}

		if _, err := theApp.Client.AcknowledgeFeedback(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Feedback %d acknowledged.\n", id)
		return nil
	},
}

var feedbackCommentCmd = &cobra.Command{
	Use:   "comment <id>",
	Short: "Comment on a feedback record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback/:id"); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid feedback id %q", args[0])
		}
		message, _ := cmd.Flags().GetString("message")
		if message == "" {
			return fmt.Errorf("--message is required")
		}

		comment, err := theApp.Client.CommentOnFeedback(cmd.Context(), id, message)
		if err != nil {
			return err
		}
		fmt.Printf("Comment %d added to feedback %d.\n", comment.ID, comment.FeedbackID)
		return nil
	},
}

var feedbackTagCmd = &cobra.Command{
	Use:   "tag <id>",
	Short: "Attach tags to a feedback record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback/:id"); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid feedback id %q", args[0])
		}
		tags, _ := cmd.Flags().GetStringSlice("tags")
		if len(tags) == 0 {
			return fmt.Errorf("--tags is required")
		}

		if err := theApp.Client.AddFeedbackTags(cmd.Context(), id, tags); err != nil {
			return err
		}
		fmt.Printf("Tagged feedback %d: %s\n", id, strings.Join(tags, ", "))
		return nil
	},
}

func printFeedback(f *models.Feedback) {
	fmt.Printf("Feedback %d (%s)\n", f.ID, f.Sentiment)
	fmt.Printf("Created: %s\n", f.CreatedAt.Format("2006-01-02 15:04"))
	if f.IsAnonymous {
		fmt.Println("From: (anonymous)")
	} else {
		fmt.Printf("From manager %d to employee %d\n", f.ManagerID, f.EmployeeID)
	}
	if f.IsAcknowledged {
		fmt.Println("Acknowledged: yes")
	} else {
		fmt.Println("Acknowledged: no")
	}
	fmt.Printf("\n%s\n", f.Content)
	fmt.Printf("\nStrengths:\n%s\n", f.Strengths)
	fmt.Printf("\nAreas to improve:\n%s\n", f.AreasToImprove)
}

func summarize(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

func init() {
	feedbackCreateCmd.Flags().Int("employee-id", 0, "employee receiving the feedback")
	feedbackCreateCmd.Flags().String("content", "", "overall feedback")
	feedbackCreateCmd.Flags().String("strengths", "", "observed strengths")
	feedbackCreateCmd.Flags().String("areas-to-improve", "", "growth areas")
	feedbackCreateCmd.Flags().String("sentiment", "", "positive, neutral or negative")
	feedbackCreateCmd.Flags().Bool("anonymous", false, "hide your name from the employee")
	feedbackCreateCmd.Flags().StringSlice("tags", nil, "tags to attach")
	feedbackCreateCmd.Flags().Int("request-id", 0, "feedback request being answered")

	feedbackUpdateCmd.Flags().String("content", "", "overall feedback")
	feedbackUpdateCmd.Flags().String("strengths", "", "observed strengths")
	feedbackUpdateCmd.Flags().String("areas-to-improve", "", "growth areas")
	feedbackUpdateCmd.Flags().String("sentiment", "", "positive, neutral or negative")

	feedbackCommentCmd.Flags().String("message", "", "comment text")

	feedbackTagCmd.Flags().StringSlice("tags", nil, "tags to attach")

	feedbackCmd.AddCommand(
		feedbackListCmd, feedbackShowCmd, feedbackCreateCmd, feedbackUpdateCmd,
		feedbackAckCmd, feedbackCommentCmd, feedbackTagCmd, feedbackExportCmd,
	)
	rootCmd.AddCommand(feedbackCmd)
}
