package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/internal/utils/ptr"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/sync"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"table", FormatTable, false},
		{"JSON", FormatJSON, false},
		{"yaml", FormatYAML, false},
		{"", "", false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatExplicit(t *testing.T) {
	assert.Equal(t, FormatYAML, DetectFormat("YAML"))
}

func sessionView(local bool, patch models.SessionPatch) overlay.SessionView {
	return overlay.SessionView{
		ID:  "t-1",
		Key: "go-in-production",
		Effective: models.Session{
			Title: "Go in production", Speakers: []models.Key{"jane-doe", "john-smith"},
			Category: "cloud", Format: "conference", Language: models.LangEnglish,
		},
		Patch: patch,
		Local: local,
	}
}

func TestSessionsData(t *testing.T) {
	data := SessionsData([]overlay.SessionView{
		sessionView(false, models.SessionPatch{}),
		sessionView(false, models.SessionPatch{VideoID: ptr.To("yt")}),
		sessionView(true, models.SessionPatch{}),
	})
	require.Len(t, data.Rows, 3)
	assert.Equal(t, "jane-doe, john-smith", data.Rows[0][2])
	assert.Equal(t, "source", data.Rows[0][6])
	assert.Equal(t, "source+patch", data.Rows[1][6])
	assert.Equal(t, "local", data.Rows[2][6])
}

func TestSyncResultData(t *testing.T) {
	result := &sync.Result{Counts: map[string]sync.Counts{
		catalog.ResourceSpeaker: {Created: 2},
		catalog.ResourceSession: {Created: 1, Rejected: 1},
	}}
	data := SyncResultData(result)
	require.Len(t, data.Rows, 3)
	assert.Equal(t, []string{"session", "1", "0", "1", "0"}, data.Rows[0])
	assert.Equal(t, []string{"speaker", "2", "0", "0", "0"}, data.Rows[1])
	assert.Equal(t, []string{"total", "3", "0", "1", "0"}, data.Rows[2])
}

func TestWrite(t *testing.T) {
	site := models.SiteInfo{EventID: "devfest", Name: "DevFest", Start: time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)}

	t.Run("table from struct", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, FormatTable, site, nil))
		out := strings.ToUpper(buf.String())
		assert.Contains(t, out, "EVENT ID")
		assert.Contains(t, out, "DEVFEST")
	})

	t.Run("table from data", func(t *testing.T) {
		var buf bytes.Buffer
		tabular := &Data{Headers: []string{"Key"}, Rows: [][]string{{"go-in-production"}}}
		require.NoError(t, Write(&buf, FormatTable, site, tabular))
		assert.Contains(t, buf.String(), "go-in-production")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, FormatJSON, site, nil))
		assert.Contains(t, buf.String(), `"event_id": "devfest"`)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, Write(&buf, FormatYAML, site, nil))
		assert.Contains(t, buf.String(), "event_id: devfest")
	})
}
