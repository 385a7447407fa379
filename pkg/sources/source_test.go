package sources_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/pkg/sources"
)

func TestParseID(t *testing.T) {
	id, err := sources.ParseID(" Conference-Hall ")
	require.NoError(t, err)
	assert.Equal(t, sources.ConferenceHallID, id)

	id, err = sources.ParseID("file")
	require.NoError(t, err)
	assert.Equal(t, sources.FileID, id)

	_, err = sources.ParseID("sessionize")
	assert.Error(t, err)
}

func TestFunc(t *testing.T) {
	src := sources.Func(func(context.Context) (*sources.Event, error) {
		return &sources.Event{Talks: []sources.Talk{{ID: "t-1", State: sources.TalkAccepted}}}, nil
	})
	assert.Equal(t, sources.ID("func"), src.ID())

	event, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, event.Talks, 1)
	assert.True(t, event.Talks[0].Accepted())
	assert.False(t, sources.Talk{State: sources.TalkBackup}.Accepted())
}
