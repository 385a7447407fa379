// Package documents provides the overlay document operations shared by the
// sessions and speakers commands.
package documents

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/confkit/internal/cmd/output"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
)

// Table converts views to table format.
type Table[T any, P overlay.Patch[T]] func([]overlay.View[T, P]) output.Data

// Printer writes views in the selected format.
type Printer[T any, P overlay.Patch[T]] struct {
	W      io.Writer
	Format output.Format
	Table  Table[T, P]
}

// List prints every view.
func (p Printer[T, P]) List(views []overlay.View[T, P]) error {
	tabular := p.Table(views)
	return output.Write(p.W, p.Format, views, &tabular)
}

// One prints a single view. Tables show the key-value form of the
// effective value.
func (p Printer[T, P]) One(view overlay.View[T, P]) error {
	if p.Format == output.FormatTable || p.Format == "" {
		return output.Write(p.W, p.Format, view.Effective, nil)
	}
	return output.Write(p.W, p.Format, view, nil)
}

// ReadPatch decodes a YAML or JSON patch from path, or from stdin when
// path is "-".
func ReadPatch[P any](path string, stdin io.Reader) (P, error) {
	var patch P
	var (
		data []byte
		err  error
	)
	switch path {
	case "":
		return patch, fmt.Errorf("a patch file is required (-f)")
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return patch, fmt.Errorf("reading patch: %w", err)
	}
	if err := yaml.UnmarshalWithOptions(data, &patch, yaml.DisallowUnknownField()); err != nil {
		return patch, fmt.Errorf("parsing patch: %w", err)
	}
	return patch, nil
}

// Create stores a local document read from path.
func Create[T any, P overlay.Patch[T]](ctx context.Context, docs *catalog.Documents[T, P], path string, stdin io.Reader) (overlay.View[T, P], error) {
	patch, err := ReadPatch[P](path, stdin)
	if err != nil {
		return overlay.View[T, P]{}, err
	}
	return docs.Create(ctx, patch)
}

// Patch replaces the patch of the document id with the one read from path.
func Patch[T any, P overlay.Patch[T]](ctx context.Context, docs *catalog.Documents[T, P], id models.ID, path string, stdin io.Reader) (overlay.View[T, P], error) {
	patch, err := ReadPatch[P](path, stdin)
	if err != nil {
		return overlay.View[T, P]{}, err
	}
	return docs.Patch(ctx, id, patch)
}
