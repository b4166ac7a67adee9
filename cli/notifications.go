package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "View and manage notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your notifications",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/dashboard"); err != nil {
			return err
		}

		notifications, err := theApp.Client.Notifications(cmd.Context())
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			fmt.Println("No notifications.")
			return nil
		}
		for _, n := range notifications {
			marker := "*"
			if n.Read {
				marker = " "
			}
			fmt.Printf("%4d %s %s  %s\n", n.ID, marker, n.CreatedAt.Format("2006-01-02"), n.Message)
		}
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/dashboard"); err != nil {
			return err
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid notification id %q", args[0])
		}

		if err := theApp.Client.MarkNotificationRead(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Printf("Notification %d marked as read.\n", id)
		return nil
	},
}

var tagsCmd = &cobra.Command{
	Use:   "tags",
	Short: "List all tags in use",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ensureRoute("/feedback"); err != nil {
			return err
		}

		tags, err := theApp.Client.Tags(cmd.Context())
		if err != nil {
			return err
		}
		if len(tags) == 0 {
			fmt.Println("No tags yet.")
			return nil
		}
		fmt.Println(strings.Join(tags, "\n"))
		return nil
	},
}

func init() {
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd)
	rootCmd.AddCommand(notificationsCmd, tagsCmd)
}
