// Package sessions provides the sessions command.
package sessions

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/cmd/documents"
	"github.com/agentstation/confkit/internal/cmd/emoji"
	"github.com/agentstation/confkit/internal/cmd/filter"
	"github.com/agentstation/confkit/internal/cmd/output"
	"github.com/agentstation/confkit/pkg/differ"
	"github.com/agentstation/confkit/pkg/models"
)

type printer = documents.Printer[models.Session, models.SessionPatch]

// NewCommand creates the sessions command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sessions",
		GroupID: "content",
		Short:   "List and edit sessions",
		Long: `Sessions are synchronized from the source or created locally. Edits are
stored as a patch of overrides that survives later synchronizations.`,
	}

	cmd.AddCommand(
		newListCommand(app),
		newGetCommand(app),
		newCreateCommand(app),
		newPatchCommand(app),
		newDeleteCommand(app),
		newDiffCommand(app),
	)
	return cmd
}

func newPrinter(cmd *cobra.Command, app application.Application) (printer, error) {
	format, err := output.Resolve(app.OutputFormat())
	if err != nil {
		return printer{}, err
	}
	return printer{W: cmd.OutOrStdout(), Format: format, Table: output.SessionsData}, nil
}

func newListCommand(app application.Application) *cobra.Command {
	var (
		keyPattern string
		origin     string
		f          filter.SessionFilter
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List sessions with their effective values",
		Example: `  confkit sessions list --speaker jane-doe
  confkit sessions list --key 'go-*' --origin patched`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if f.Key, err = filter.Keys(keyPattern); err != nil {
				return err
			}
			if f.Origin, err = filter.ParseOrigin(origin); err != nil {
				return err
			}
			p, err := newPrinter(cmd, app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			views, err := c.Catalog().Sessions.List(cmd.Context())
			if err != nil {
				return err
			}
			return p.List(f.Apply(views))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&keyPattern, "key", "", "Glob or regex on the session key")
	flags.StringVar((*string)(&f.Speaker), "speaker", "", "Only sessions presented by this speaker key")
	flags.StringVar((*string)(&f.Category), "category", "", "Only sessions of this category key")
	flags.StringVar((*string)(&f.Format), "format-key", "", "Only sessions of this format key")
	flags.StringVar(&origin, "origin", "", "Only sessions from: source, patched, local")
	flags.StringVar(&f.Search, "search", "", "Case-insensitive search in titles")
	return cmd
}

// newDiffCommand shows how the local overrides change the source values.
func newDiffCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <key>",
		Short: "Show the local overrides of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			doc, err := c.Catalog().Sessions.Document(cmd.Context(), models.Key(args[0]))
			if err != nil {
				return err
			}
			changes := differ.Overrides(differ.New(), doc)
			table := output.OverridesData(changes)
			return output.Write(cmd.OutOrStdout(), format, changes, &table)
		},
	}
}

func newGetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd, app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			view, err := c.Catalog().Sessions.Get(cmd.Context(), models.Key(args[0]))
			if err != nil {
				return err
			}
			return p.One(view)
		},
	}
}

func newCreateCommand(app application.Application) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "create -f <file>",
		Short: "Create a local session from a complete patch",
		Example: `  confkit sessions create -f keynote.yaml
  cat keynote.json | confkit sessions create -f -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := newPrinter(cmd, app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			view, err := documents.Create(cmd.Context(), c.Catalog().Sessions.Documents, file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s created session %s (%s)\n", emoji.Success, view.Key, view.ID)
			return p.One(view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON patch file, - for stdin")
	return cmd
}

func newPatchCommand(app application.Application) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "patch <id> -f <file>",
		Short: "Replace the local overrides of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := newPrinter(cmd, app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			view, err := documents.Patch(cmd.Context(), c.Catalog().Sessions.Documents, models.ID(args[0]), file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return p.One(view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON patch file, - for stdin")
	return cmd
}

func newDeleteCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a session",
		Long:  `Delete removes the document. A later sync recreates sessions that still exist in the source.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.Client()
			if err != nil {
				return err
			}
			view, err := c.Catalog().Sessions.Delete(cmd.Context(), models.ID(args[0]))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s deleted session %s (%s)\n", emoji.Success, view.Key, view.ID)
			return nil
		},
	}
}
