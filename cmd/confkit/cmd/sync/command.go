// Package sync provides the sync command.
package sync

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/internal/cmd/emoji"
	"github.com/agentstation/confkit/internal/cmd/output"
	"github.com/agentstation/confkit/pkg/sync"
)

// NewCommand creates the sync command using app context.
func NewCommand(app application.Application) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "sync",
		GroupID: "core",
		Short:   "Synchronize sessions and speakers from the source",
		Long: `Sync fetches the accepted talks and their speakers from the configured
source and merges them into the store. Local overrides are preserved;
documents missing from the source are reported as stale and kept.`,
		Example: `  confkit sync
  confkit sync --dry-run
  confkit sync --workers 8 --timeout 2m`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := output.Resolve(app.OutputFormat())
			if err != nil {
				return err
			}
			opts, err := optionsFromFlags(cmd)
			if err != nil {
				return err
			}
			c, err := app.Client()
			if err != nil {
				return err
			}

			result, err := c.Sync(cmd.Context(), opts...)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if format != output.FormatTable {
				return output.Write(out, format, result, nil)
			}
			table := output.SyncResultData(result)
			if err := output.Write(out, format, result, &table); err != nil {
				return err
			}
			summary(out, result)
			return nil
		},
	}

	cmd.Flags().Int("workers", 0, "Concurrent document merges (default from config)")
	cmd.Flags().Duration("timeout", 0, "Timeout of the run, 0 for none (default from config)")
	cmd.Flags().Bool("dry-run", false, "Merge without writing to the store")

	return cmd
}

// optionsFromFlags only overrides the configured defaults for flags the
// user set.
func optionsFromFlags(cmd *cobra.Command) ([]sync.Option, error) {
	var opts []sync.Option
	flags := cmd.Flags()
	if flags.Changed("workers") {
		n, err := flags.GetInt("workers")
		if err != nil {
			return nil, err
		}
		opts = append(opts, sync.WithWorkers(n))
	}
	if flags.Changed("timeout") {
		d, err := flags.GetDuration("timeout")
		if err != nil {
			return nil, err
		}
		opts = append(opts, sync.WithTimeout(d))
	}
	if flags.Changed("dry-run") {
		dry, err := flags.GetBool("dry-run")
		if err != nil {
			return nil, err
		}
		opts = append(opts, sync.WithDryRun(dry))
	}
	return opts, nil
}

func summary(w io.Writer, r *sync.Result) {
	for _, rej := range r.Rejections {
		fmt.Fprintf(w, "%s rejected %s %s (%s): %s\n", emoji.Error, rej.Resource, rej.Key, rej.ID, rej.Reason)
	}
	for _, id := range r.Stale {
		fmt.Fprintf(w, "%s stale %s: no longer in the source\n", emoji.Warning, id)
	}
	total := r.Total()
	if r.DryRun {
		fmt.Fprintf(w, "%s dry run, nothing was written (%s)\n", emoji.Info, r.Duration)
		return
	}
	fmt.Fprintf(w, "%s synchronized %d documents in %s\n", emoji.Success, total.Created+total.Merged, r.Duration)
}
