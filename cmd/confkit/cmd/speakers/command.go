// Package speakers provides the speakers command.
package speakers

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/cmd/documents"
	"github.com/agentstation/confkit/internal/cmd/filter"
	"github.com/agentstation/confkit/internal/cmd/output"
	"github.com/agentstation/confkit/pkg/differ"
	"github.com/agentstation/confkit/pkg/models"
)

// NewCommand creates the speakers command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "speakers",
		GroupID: "content",
		Short:   "List and edit speakers",
	}
	cmd.AddCommand(
		newListCommand(app),
		newGetCommand(app),
		newSessionsCommand(app),
		newPatchCommand(app),
		newDiffCommand(app),
	)
	return cmd
}

func format(app application.Application) (output.Format, error) {
	return output.Resolve(app.OutputFormat())
}

func newListCommand(app application.Application) *cobra.Command {
	var (
		keyPattern string
		origin     string
		sf         filter.SpeakerFilter
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List speakers with their effective values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if sf.Key, err = filter.Keys(keyPattern); err != nil {
				return err
			}
			if sf.Origin, err = filter.ParseOrigin(origin); err != nil {
				return err
			}
			f, err := format(app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			views, err := c.Catalog().Speakers.List(cmd.Context())
			if err != nil {
				return err
			}
			p := documents.Printer[models.Speaker, models.SpeakerPatch]{W: cmd.OutOrStdout(), Format: f, Table: output.SpeakersData}
			return p.List(sf.Apply(views))
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&keyPattern, "key", "", "Glob or regex on the speaker key")
	flags.BoolVar(&sf.Featured, "featured", false, "Only featured speakers")
	flags.StringVar(&origin, "origin", "", "Only speakers from: source, patched, local")
	flags.StringVar(&sf.Search, "search", "", "Case-insensitive search in names and companies")
	return cmd
}

func newDiffCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <key>",
		Short: "Show the local overrides of a speaker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format(app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			doc, err := c.Catalog().Speakers.Document(cmd.Context(), models.Key(args[0]))
			if err != nil {
				return err
			}
			changes := differ.Overrides(differ.New(), doc)
			table := output.OverridesData(changes)
			return output.Write(cmd.OutOrStdout(), f, changes, &table)
		},
	}
}

func newGetCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Show a speaker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format(app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			view, err := c.Catalog().Speakers.Get(cmd.Context(), models.Key(args[0]))
			if err != nil {
				return err
			}
			p := documents.Printer[models.Speaker, models.SpeakerPatch]{W: cmd.OutOrStdout(), Format: f, Table: output.SpeakersData}
			return p.One(view)
		},
	}
}

// newSessionsCommand lists the sessions a speaker presents.
func newSessionsCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "sessions <key>",
		Short: "List the sessions of a speaker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format(app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			key := models.Key(args[0])
			if _, err := c.Catalog().Speakers.Get(cmd.Context(), key); err != nil {
				return err
			}
			views, err := c.Catalog().Sessions.FindBySpeaker(cmd.Context(), key)
			if err != nil {
				return err
			}
			p := documents.Printer[models.Session, models.SessionPatch]{W: cmd.OutOrStdout(), Format: f, Table: output.SessionsData}
			return p.List(views)
		},
	}
}

func newPatchCommand(app application.Application) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "patch <id> -f <file>",
		Short: "Replace the local overrides of a speaker",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := format(app)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			view, err := documents.Patch(cmd.Context(), c.Catalog().Speakers.Documents, models.ID(args[0]), file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			p := documents.Printer[models.Speaker, models.SpeakerPatch]{W: cmd.OutOrStdout(), Format: f, Table: output.SpeakersData}
			return p.One(view)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML or JSON patch file, - for stdin")
	return cmd
}
