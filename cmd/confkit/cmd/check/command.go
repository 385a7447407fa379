// Package check provides the check command that evaluates a permission.
package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/cmd/emoji"
	"github.com/agentstation/confkit/internal/cmd/output"
	"github.com/agentstation/confkit/pkg/acl"
)

// Decision is the structured output of the check command.
type Decision struct {
	User      string `json:"user" yaml:"user"`
	Operation string `json:"operation" yaml:"operation"`
	Allowed   bool   `json:"allowed" yaml:"allowed"`
}

// NewCommand creates the check command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var userFlag, opFlag string

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Short:   "Check whether a user may perform an operation",
		Long: `Check evaluates the authorization rules against the current store.

Users are written kind[:email[:key]] with kind one of guest, admin, team,
speaker or sponsor. Operations are written kind[:key], for example
view-session:web-components or administration.`,
		Example: `  confkit check --user speaker:jane@example.com:jane-doe --op edit-speaker:jane-doe
  confkit check --user team:ops@example.com --op edit-session:keynote`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			user, err := acl.ParseUser(userFlag)
			if err != nil {
				return err
			}
			op, err := acl.ParseOperation(opFlag)
			if err != nil {
				return err
			}
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}

			d := Decision{
				User:      user.String(),
				Operation: op.String(),
				Allowed:   c.IsAllowed(cmd.Context(), user, op),
			}
			out := cmd.OutOrStdout()
			if format != output.FormatTable {
				return output.Write(out, format, d, nil)
			}
			if d.Allowed {
				fmt.Fprintf(out, "%s allowed: %s may %s\n", emoji.Success, d.User, d.Operation)
			} else {
				fmt.Fprintf(out, "%s denied: %s may not %s\n", emoji.Error, d.User, d.Operation)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&userFlag, "user", "guest", "User as kind[:email[:key]]")
	cmd.Flags().StringVar(&opFlag, "op", "", "Operation as kind[:key]")
	_ = cmd.MarkFlagRequired("op")

	return cmd
}
