package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkittipat/feedloop/models"
)

var feedbackExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export a feedback record to a text report",
	Long: `Export one feedback record, including its tags, to a plain-text
report suitable for printing or archiving.

Examples:
  feedloop feedback export 12 --out feedback-12.txt`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback/:id"); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid feedback id %q", args[0])
		}
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = fmt.Sprintf("feedback-%d.txt", id)
		}

		feedback, err := theApp.Client.Feedback(cmd.Context(), id)
		if err != nil {
			return err
		}
		tags, err := theApp.Client.FeedbackTags(cmd.Context(), id)
		if err != nil {
			// tags are decoration on the report; export without them
			theApp.Logger.Warn("fetching tags for export failed", "error", err)
			tags = nil
		}

		report := renderFeedbackReport(feedback, tags)
		if err := os.WriteFile(out, []byte(report), 0o644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}

		fmt.Printf("Exported feedback %d to %s\n", id, out)
		return nil
	},
}

func renderFeedbackReport(f *models.Feedback, tags []string) string {
	var sb strings.Builder
	rule := strings.Repeat("=", 60)

	sb.WriteString(rule + "\n")
	sb.WriteString(fmt.Sprintf("FEEDBACK REPORT #%d\n", f.ID))
	sb.WriteString(rule + "\n\n")

	sb.WriteString(fmt.Sprintf("Date:        %s\n", f.CreatedAt.Format("January 2, 2006")))
	sb.WriteString(fmt.Sprintf("Sentiment:   %s\n", f.Sentiment))
	if f.IsAnonymous {
		sb.WriteString("Manager:     (anonymous)\n")
	} else {
		sb.WriteString(fmt.Sprintf("Manager ID:  %d\n", f.ManagerID))
	}
	sb.WriteString(fmt.Sprintf("Employee ID: %d\n", f.EmployeeID))
	if f.IsAcknowledged {
		sb.WriteString("Status:      acknowledged\n")
	} else {
		sb.WriteString("Status:      not yet acknowledged\n")
	}
	if len(tags) > 0 {
		sb.WriteString(fmt.Sprintf("Tags:        %s\n", strings.Join(tags, ", ")))
	}

	sb.WriteString("\nFeedback\n--------\n")
	sb.WriteString(f.Content + "\n")
	sb.WriteString("\nStrengths\n---------\n")
	sb.WriteString(f.Strengths + "\n")
	sb.WriteString("\nAreas to improve\n----------------\n")
	sb.WriteString(f.AreasToImprove + "\n")

	return sb.String()
}

func init() {
	feedbackExportCmd.Flags().String("out", "", "output file path")
}
