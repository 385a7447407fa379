package confkit_test

import (
	"context"
	gosync "sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit"
	"github.com/agentstation/confkit/pkg/acl"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/sources"
	"github.com/agentstation/confkit/pkg/sync"
)

func event() *sources.Event {
	return &sources.Event{
		Site:       &models.SiteInfo{EventID: "devfest", Name: "DevFest Nantes"},
		Categories: []models.Category{{ID: "c-1", Name: "Cloud"}},
		Formats:    []models.Format{{ID: "f-1", Name: "Quickie"}},
		Speakers:   []models.Speaker{{ID: "s-1", Name: "Jane Doe", Description: "Gopher"}},
		Talks: []sources.Talk{{
			ID: "t-1", Title: "Go at scale", State: sources.TalkAccepted, Abstract: "Scaling Go",
			Category: "c-1", Format: "f-1", Speakers: []models.ID{"s-1"}, Language: "English",
		}},
	}
}

type counter struct {
	calls atomic.Int32
}

func (c *counter) Fetch(context.Context) (*sources.Event, error) {
	c.calls.Add(1)
	return event(), nil
}

func (c *counter) ID() sources.ID { return "counter" }

func TestSyncTriggersHooks(t *testing.T) {
	ctx := context.Background()
	ck, err := confkit.New(confkit.WithSource(&counter{}))
	require.NoError(t, err)
	t.Cleanup(func() { _ = ck.Close(ctx) })

	var (
		mu      gosync.Mutex
		changes []catalog.Change
		synced  []*sync.Result
	)
	ck.OnDocumentChanged(func(_ context.Context, c catalog.Change) {
		mu.Lock()
		defer mu.Unlock()
		changes = append(changes, c)
	})
	ck.OnSynced(func(_ context.Context, r *sync.Result) {
		mu.Lock()
		defer mu.Unlock()
		synced = append(synced, r)
	})

	result, err := ck.Sync(ctx)
	require.NoError(t, err)
	require.Len(t, result.Sessions, 1)
	assert.Equal(t, models.Key("go-at-scale"), result.Sessions[0].Key)
	assert.Equal(t, []models.Key{"jane-doe"}, result.Sessions[0].Speakers)

	mu.Lock()
	require.Len(t, synced, 1)
	assert.Same(t, result, synced[0])
	resources := map[string]bool{}
	for _, c := range changes {
		resources[c.Resource] = true
	}
	mu.Unlock()
	assert.True(t, resources[catalog.ResourceSession])
	assert.True(t, resources[catalog.ResourceSpeaker])

	site, err := ck.Catalog().Site.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DevFest Nantes", site.Name)
}

func TestSyncWithoutSource(t *testing.T) {
	ck, err := confkit.New()
	require.NoError(t, err)

	_, err = ck.Sync(context.Background())
	require.Error(t, err)
	var cfgErr *errors.ConfigError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestSyncOptionsDefaults(t *testing.T) {
	ck, err := confkit.New(
		confkit.WithSource(&counter{}),
		confkit.WithSyncOptions(sync.WithDryRun(true)),
	)
	require.NoError(t, err)

	result, err := ck.Sync(context.Background())
	require.NoError(t, err)
	assert.True(t, result.DryRun)

	sessions, err := ck.Catalog().Sessions.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, sessions)

	// call options override the defaults
	result, err = ck.Sync(context.Background(), sync.WithDryRun(false))
	require.NoError(t, err)
	assert.False(t, result.DryRun)
}

func TestIsAllowedUsesCatalog(t *testing.T) {
	ctx := context.Background()
	ck, err := confkit.New(confkit.WithSource(&counter{}))
	require.NoError(t, err)
	_, err = ck.Sync(ctx)
	require.NoError(t, err)

	assert.True(t, ck.IsAllowed(ctx, acl.SpeakerUser("jane@example.com", "jane-doe"), acl.EditSessionOp("go-at-scale")))
	assert.False(t, ck.IsAllowed(ctx, acl.SpeakerUser("john@example.com", "john"), acl.EditSessionOp("go-at-scale")))
	assert.False(t, ck.IsAllowed(ctx, acl.GuestUser(), acl.ViewSiteOp()))
}

func TestAutoSync(t *testing.T) {
	src := &counter{}
	ck, err := confkit.New(
		confkit.WithSource(src),
		confkit.WithAutoSyncInterval(10*time.Millisecond),
		confkit.WithAutoSync(true),
	)
	require.NoError(t, err)

	synced := make(chan struct{}, 16)
	ck.OnSynced(func(context.Context, *sync.Result) {
		select {
		case synced <- struct{}{}:
		default:
		}
	})

	select {
	case <-synced:
	case <-time.After(5 * time.Second):
		t.Fatal("auto-sync did not run")
	}

	require.NoError(t, ck.Close(context.Background()))
	calls := src.calls.Load()
	time.Sleep(50 * time.Millisecond)
	// at most the run in flight when Close was called completes
	assert.LessOrEqual(t, src.calls.Load(), calls+1)
}

func TestOptionsValidation(t *testing.T) {
	_, err := confkit.New(confkit.WithAutoSync(true))
	require.Error(t, err)

	_, err = confkit.New(confkit.WithAutoSyncInterval(0))
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))

	_, err = confkit.New(confkit.WithStores(catalog.Stores{}, nil))
	require.Error(t, err)
}

func TestWithStoresCloser(t *testing.T) {
	closed := false
	ck, err := confkit.New(confkit.WithStores(catalog.NewMemoryStores(), func(context.Context) error {
		closed = true
		return nil
	}))
	require.NoError(t, err)
	require.NoError(t, ck.Close(context.Background()))
	assert.True(t, closed)
}
