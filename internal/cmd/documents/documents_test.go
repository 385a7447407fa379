package documents

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/internal/cmd/output"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
)

func TestReadPatch(t *testing.T) {
	path := filepath.Join(t.TempDir(), "patch.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"city":"Nantes","featured":true}`), 0o600))

	patch, err := ReadPatch[models.SpeakerPatch](path, nil)
	require.NoError(t, err)
	require.NotNil(t, patch.City)
	assert.Equal(t, "Nantes", *patch.City)
	require.NotNil(t, patch.Featured)
	assert.True(t, *patch.Featured)
	assert.Nil(t, patch.Name)

	patch, err = ReadPatch[models.SpeakerPatch]("-", strings.NewReader("company: Gophers Inc\n"))
	require.NoError(t, err)
	require.NotNil(t, patch.Company)
	assert.Equal(t, "Gophers Inc", *patch.Company)
}

func TestReadPatchErrors(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		stdin string
	}{
		{name: "no path", path: ""},
		{name: "missing file", path: filepath.Join(t.TempDir(), "missing.yaml")},
		{name: "unknown field", path: "-", stdin: "nickname: gopher\n"},
		{name: "wrong type", path: "-", stdin: "featured: [1, 2]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadPatch[models.SpeakerPatch](tt.path, strings.NewReader(tt.stdin))
			assert.Error(t, err)
		})
	}
}

func TestPrinter(t *testing.T) {
	city := "Nantes"
	view := overlay.SpeakerView{
		ID:        "s-jane",
		Key:       "jane-doe",
		Effective: models.Speaker{ID: "s-jane", Key: "jane-doe", Name: "Jane Doe", City: city},
		Patch:     models.SpeakerPatch{City: &city},
	}

	var buf bytes.Buffer
	p := Printer[models.Speaker, models.SpeakerPatch]{W: &buf, Format: output.FormatTable, Table: output.SpeakersData}
	require.NoError(t, p.List([]overlay.SpeakerView{view}))
	assert.Contains(t, buf.String(), "jane-doe")
	assert.Contains(t, buf.String(), "source+patch")

	buf.Reset()
	require.NoError(t, p.One(view))
	assert.Contains(t, buf.String(), "Jane Doe")
	assert.NotContains(t, buf.String(), "source+patch")

	buf.Reset()
	p.Format = output.FormatYAML
	require.NoError(t, p.One(view))
	assert.Contains(t, buf.String(), "patch:")
	assert.Contains(t, buf.String(), "city: Nantes")
}
