// Package cli is the command surface of the client. Each command stands in
// for a page of the original application and consults the route guard with
// the live session state before doing anything.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pkittipat/feedloop/app"
	"github.com/pkittipat/feedloop/models"
	"github.com/pkittipat/feedloop/routes"
)

var theApp *app.App

var rootCmd = &cobra.Command{
	Use:   "feedloop",
	Short: "Client for the employee feedback service",
	Long: `feedloop is a client for the employee feedback service.

Managers give structured feedback to their reports, employees acknowledge
and comment on it, and either side can request feedback. Sign in once with
'feedloop auth login'; the session token is stored locally and verified on
every run until you log out or it expires.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		a, err := app.New(cmd.Context(), nil)
		if err != nil {
			return err
		}
		theApp = a
		theApp.Session.Bootstrap(cmd.Context())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if theApp != nil {
			theApp.Cleanup(cmd.Context())
		}
	},
}

// Execute runs the command tree.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// ensureRoute evaluates the guard for the page this command represents.
// It is called on every invocation, never cached, so the decision always
// reflects the session state established by this run's bootstrap.
func ensureRoute(path string) error {
	route, ok := routes.Lookup(path)
	if !ok {
		return fmt.Errorf("no route registered for %s", path)
	}

	var role models.Role
	if u := theApp.Session.User(); u != nil {
		role = u.Role
	}

	decision := route.Decide(theApp.Session.Status(), role)
	if decision.Allow {
		return nil
	}
	switch decision.RedirectTo {
	case routes.LoginPath:
		return fmt.Errorf("you are not signed in: run 'feedloop auth login'")
	case routes.DashboardPath:
		return fmt.Errorf("your role does not have access to this page")
	default:
		return fmt.Errorf("access denied")
	}
}
