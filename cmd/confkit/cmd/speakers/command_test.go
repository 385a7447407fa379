package speakers

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit"
	"github.com/agentstation/confkit/cmd/application"
	"github.com/agentstation/confkit/pkg/differ"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/sources"
)

func syncedClient(t *testing.T) confkit.Client {
	t.Helper()
	event := &sources.Event{
		Speakers: []models.Speaker{
			{ID: "s-jane", Name: "Jane Doe", Description: "Gopher", Company: "Acme"},
			{ID: "s-john", Name: "John Smith", Description: "Rustacean"},
		},
		Talks: []sources.Talk{{
			ID: "t-1", Title: "Go in production", State: sources.TalkAccepted,
			Abstract: "Lessons learned", Speakers: []models.ID{"s-jane"},
		}},
	}
	client, err := confkit.New(confkit.WithSource(sources.Func(func(context.Context) (*sources.Event, error) {
		return event, nil
	})))
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close(context.Background()) })

	_, err = client.Sync(context.Background())
	require.NoError(t, err)
	return client
}

func run(t *testing.T, client confkit.Client, format, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := NewCommand(&application.Mock{
		ClientFunc:       func() (confkit.Client, error) { return client, nil },
		OutputFormatFunc: func() string { return format },
	})
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(append([]string{}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func listKeys(t *testing.T, out string) []models.Key {
	t.Helper()
	var views []overlay.SpeakerView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	keys := make([]models.Key, 0, len(views))
	for _, v := range views {
		keys = append(keys, v.Key)
	}
	return keys
}

func TestListAndGet(t *testing.T) {
	client := syncedClient(t)

	out, err := run(t, client, "json", "", "list")
	require.NoError(t, err)
	assert.ElementsMatch(t, []models.Key{"jane-doe", "john-smith"}, listKeys(t, out))

	out, err = run(t, client, "json", "", "list", "--search", "acme")
	require.NoError(t, err)
	assert.Equal(t, []models.Key{"jane-doe"}, listKeys(t, out))

	out, err = run(t, client, "json", "", "list", "--key", "john*")
	require.NoError(t, err)
	assert.Equal(t, []models.Key{"john-smith"}, listKeys(t, out))

	out, err = run(t, client, "table", "", "get", "jane-doe")
	require.NoError(t, err)
	assert.Contains(t, out, "Jane Doe")

	_, err = run(t, client, "json", "", "get", "nobody")
	assert.True(t, errors.IsNotFound(err))

	_, err = run(t, client, "json", "", "list", "--origin", "elsewhere")
	assert.Error(t, err)
}

func TestSessions(t *testing.T) {
	client := syncedClient(t)

	out, err := run(t, client, "json", "", "sessions", "jane-doe")
	require.NoError(t, err)
	var views []overlay.SessionView
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 1)
	assert.Equal(t, models.Key("go-in-production"), views[0].Key)

	out, err = run(t, client, "json", "", "sessions", "john-smith")
	require.NoError(t, err)
	assert.JSONEq(t, "[]", out)

	_, err = run(t, client, "json", "", "sessions", "nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestPatchFeaturedAndDiff(t *testing.T) {
	client := syncedClient(t)

	out, err := run(t, client, "json", "featured: true\ncompany: Gophers Inc\n", "patch", "s-jane", "-f", "-")
	require.NoError(t, err)
	var view overlay.SpeakerView
	require.NoError(t, json.Unmarshal([]byte(out), &view))
	assert.True(t, view.Effective.Featured)
	assert.Equal(t, "Gophers Inc", view.Effective.Company)

	out, err = run(t, client, "json", "", "list", "--featured")
	require.NoError(t, err)
	assert.Equal(t, []models.Key{"jane-doe"}, listKeys(t, out))

	out, err = run(t, client, "json", "", "list", "--origin", "patched")
	require.NoError(t, err)
	assert.Equal(t, []models.Key{"jane-doe"}, listKeys(t, out))

	out, err = run(t, client, "json", "", "diff", "jane-doe")
	require.NoError(t, err)
	var changes []differ.FieldChange
	require.NoError(t, json.Unmarshal([]byte(out), &changes))
	assert.Equal(t, []differ.FieldChange{
		{Path: "company", OldValue: "Acme", NewValue: "Gophers Inc", Type: differ.ChangeTypeUpdate},
		{Path: "featured", OldValue: "false", NewValue: "true", Type: differ.ChangeTypeUpdate},
	}, changes)

	_, err = run(t, client, "json", "nickname: janie\n", "patch", "s-jane", "-f", "-")
	assert.Error(t, err, "unknown fields are rejected")
}
