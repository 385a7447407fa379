package sync

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit"
	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/sources"
	"github.com/agentstation/confkit/pkg/sync"
)

func testEvent() *sources.Event {
	return &sources.Event{
		Categories: []models.Category{{ID: "c-cloud", Name: "Cloud"}},
		Formats:    []models.Format{{ID: "f-talk", Name: "Conference"}},
		Speakers:   []models.Speaker{{ID: "s-jane", Name: "Jane Doe", Description: "Gopher"}},
		Talks: []sources.Talk{{
			ID: "t-1", Title: "Go in production", State: sources.TalkAccepted,
			Abstract: "Lessons learned", Category: "c-cloud", Format: "f-talk",
			Speakers: []models.ID{"s-jane"}, Language: "english",
		}},
	}
}

func newApp(t *testing.T, format string, opts ...confkit.Option) (*application.Mock, confkit.Client) {
	t.Helper()
	client, err := confkit.New(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })
	return &application.Mock{
		ClientFunc:       func() (confkit.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return format },
	}, client
}

func withEvent() confkit.Option {
	return confkit.WithSource(sources.Func(func(context.Context) (*sources.Event, error) {
		return testEvent(), nil
	}))
}

func run(t *testing.T, app application.Application, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(app)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSyncCommand(t *testing.T) {
	app, client := newApp(t, "json", withEvent())

	out, err := run(t, app)
	require.NoError(t, err)

	var result sync.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.False(t, result.DryRun)
	assert.Equal(t, 1, result.Counts["session"].Created)
	assert.Equal(t, 1, result.Counts["speaker"].Created)

	view, err := client.Catalog().Sessions.Get(context.Background(), "go-in-production")
	require.NoError(t, err)
	assert.Equal(t, []models.Key{"jane-doe"}, view.Effective.Speakers)
}

func TestSyncCommandDryRun(t *testing.T) {
	app, client := newApp(t, "json", withEvent())

	out, err := run(t, app, "--dry-run")
	require.NoError(t, err)

	var result sync.Result
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	assert.True(t, result.DryRun)
	assert.Equal(t, 1, result.Counts["session"].Created)

	views, err := client.Catalog().Sessions.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, views)
}

func TestSyncCommandTable(t *testing.T) {
	app, _ := newApp(t, "table", withEvent())

	out, err := run(t, app)
	require.NoError(t, err)
	assert.Contains(t, out, "RESOURCE")
	assert.Contains(t, out, "session")
	assert.Contains(t, out, "synchronized")

	out, err = run(t, app, "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "dry run")
}

func TestSyncCommandErrors(t *testing.T) {
	t.Run("no source", func(t *testing.T) {
		app, _ := newApp(t, "json")
		_, err := run(t, app)
		assert.Error(t, err)
	})
	t.Run("invalid workers", func(t *testing.T) {
		app, _ := newApp(t, "json", withEvent())
		_, err := run(t, app, "--workers", "0")
		assert.Error(t, err)
	})
	t.Run("invalid format", func(t *testing.T) {
		app, _ := newApp(t, "xml", withEvent())
		_, err := run(t, app)
		assert.Error(t, err)
	})
}
