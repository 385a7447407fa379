package export

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit"
	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/sources"
)

func syncedApp(t *testing.T, format string) (*application.Mock, confkit.Client) {
	t.Helper()
	event := &sources.Event{
		Site:       &models.SiteInfo{EventID: "devfest", Name: "DevFest"},
		Categories: []models.Category{{ID: "c-cloud", Name: "Cloud"}},
		Formats:    []models.Format{{ID: "f-talk", Name: "Conference"}},
		Speakers:   []models.Speaker{{ID: "s-jane", Name: "Jane Doe", Description: "Gopher"}},
		Talks: []sources.Talk{{
			ID: "t-1", Title: "Go in production", State: sources.TalkAccepted,
			Abstract: "Lessons learned", Category: "c-cloud", Format: "f-talk",
			Speakers: []models.ID{"s-jane"}, Language: "english",
		}},
	}
	client, err := confkit.New(confkit.WithSource(sources.Func(func(context.Context) (*sources.Event, error) {
		return event, nil
	})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	_, err = client.Sync(context.Background())
	require.NoError(t, err)

	return &application.Mock{
		ClientFunc:       func() (confkit.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return format },
	}, client
}

func TestCollectAppliesPatches(t *testing.T) {
	_, client := syncedApp(t, "")
	ctx := context.Background()

	title := "Go in production, revisited"
	_, err := client.Catalog().Sessions.Patch(ctx, "t-1", models.SessionPatch{Title: &title})
	require.NoError(t, err)

	b, err := Collect(ctx, client.Catalog())
	require.NoError(t, err)
	require.NotNil(t, b.Site)
	assert.Equal(t, "DevFest", b.Site.Name)
	require.Len(t, b.Sessions, 1)
	assert.Equal(t, title, b.Sessions[0].Title)
	assert.Len(t, b.Speakers, 1)
	assert.Len(t, b.Categories, 1)
	assert.Len(t, b.Formats, 1)
	assert.Empty(t, b.Sponsors)
}

func TestCollectWithoutSite(t *testing.T) {
	client, err := confkit.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	b, err := Collect(context.Background(), client.Catalog())
	require.NoError(t, err)
	assert.Nil(t, b.Site)
	assert.Empty(t, b.Sessions)
}

func TestExportCommand(t *testing.T) {
	t.Run("yaml by default", func(t *testing.T) {
		app, _ := syncedApp(t, "table")
		cmd := NewCommand(app)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetArgs([]string{})
		require.NoError(t, cmd.ExecuteContext(context.Background()))

		var b Bundle
		require.NoError(t, yaml.Unmarshal(out.Bytes(), &b))
		require.Len(t, b.Sessions, 1)
		assert.Equal(t, models.Key("go-in-production"), b.Sessions[0].Key)
	})

	t.Run("json to file", func(t *testing.T) {
		app, _ := syncedApp(t, "json")
		path := filepath.Join(t.TempDir(), "content.json")
		cmd := NewCommand(app)
		cmd.SetOut(&bytes.Buffer{})
		cmd.SetErr(&bytes.Buffer{})
		cmd.SetArgs([]string{"--file", path})
		require.NoError(t, cmd.ExecuteContext(context.Background()))

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var b Bundle
		require.NoError(t, json.Unmarshal(data, &b))
		assert.Len(t, b.Speakers, 1)
		assert.Equal(t, models.Key("jane-doe"), b.Speakers[0].Key)
	})
}
