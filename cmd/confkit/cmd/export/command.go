// Package export provides the export command that dumps the effective
// content of the store.
package export

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/cmd/emoji"
	"github.com/agentstation/confkit/internal/cmd/output"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/constants"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
)

// Bundle is everything a site generator needs, with overrides applied.
type Bundle struct {
	Site       *models.SiteInfo  `json:"site,omitempty" yaml:"site,omitempty"`
	Sessions   []models.Session  `json:"sessions" yaml:"sessions"`
	Speakers   []models.Speaker  `json:"speakers" yaml:"speakers"`
	Categories []models.Category `json:"categories" yaml:"categories"`
	Formats    []models.Format   `json:"formats" yaml:"formats"`
	Sponsors   []models.Sponsor  `json:"sponsors" yaml:"sponsors"`
}

// NewCommand creates the export command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:     "export",
		GroupID: "content",
		Short:   "Export the effective content as YAML or JSON",
		Long: `Export writes the site, the effective sessions and speakers, and the
categories, formats and sponsors in a single document. Table output is not
supported; YAML is used unless --format json is given.`,
		Example: `  confkit export > content.yaml
  confkit export -o json --file content.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.ParseFormat(app.OutputFormat())
			if err != nil {
				return err
			}
			if format != output.FormatJSON {
				format = output.FormatYAML
			}
			c, err := app.Client()
			if err != nil {
				return err
			}
			bundle, err := Collect(cmd.Context(), c.Catalog())
			if err != nil {
				return err
			}

			if file == "" {
				return output.Write(cmd.OutOrStdout(), format, bundle, nil)
			}
			var buf bytes.Buffer
			if err := output.Write(&buf, format, bundle, nil); err != nil {
				return err
			}
			if err := os.WriteFile(file, buf.Bytes(), constants.FilePermissions); err != nil {
				return errors.WrapResource("write", "export", file, err)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "%s exported %d sessions and %d speakers to %s\n",
				emoji.Success, len(bundle.Sessions), len(bundle.Speakers), file)
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Output file (default: stdout)")

	return cmd
}

// Collect reads the whole catalog. A missing site is left out.
func Collect(ctx context.Context, c *catalog.Catalog) (*Bundle, error) {
	b := &Bundle{}

	site, err := c.Site.Get(ctx)
	switch {
	case err == nil:
		b.Site = &site
	case !errors.IsNotFound(err):
		return nil, err
	}

	sessions, err := c.Sessions.Effective(ctx)
	if err != nil {
		return nil, err
	}
	b.Sessions = sessions

	speakers, err := c.Speakers.Effective(ctx)
	if err != nil {
		return nil, err
	}
	b.Speakers = speakers

	if b.Categories, err = c.Categories.List(ctx); err != nil {
		return nil, err
	}
	if b.Formats, err = c.Formats.List(ctx); err != nil {
		return nil, err
	}
	if b.Sponsors, err = c.Sponsors.List(ctx); err != nil {
		return nil, err
	}
	return b, nil
}
