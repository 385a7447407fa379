package catalog_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/internal/utils/ptr"
	"github.com/agentstation/confkit/pkg/catalog"
	"github.com/agentstation/confkit/pkg/errors"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
)

func completeSession(title string, speakers ...models.Key) models.SessionPatch {
	return models.SessionPatch{
		Title:       ptr.To(title),
		Format:      ptr.To(models.Key("conference")),
		Speakers:    ptr.To(speakers),
		Category:    ptr.To(models.Key("backend")),
		Language:    ptr.To(models.LangFrench),
		Description: ptr.To("All about " + title),
	}
}

type recorder struct {
	mu      sync.Mutex
	changes []catalog.Change
}

func (r *recorder) listen(_ context.Context, c catalog.Change) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changes = append(r.changes, c)
}

func newCatalog(t *testing.T) (*catalog.Catalog, *recorder) {
	t.Helper()
	c := catalog.New(catalog.NewMemoryStores())
	rec := &recorder{}
	c.OnChange(rec.listen)
	return c, rec
}

func TestCreateSession(t *testing.T) {
	ctx := context.Background()
	c, rec := newCatalog(t)

	view, err := c.Sessions.Create(ctx, completeSession("Ça marche en Go", "jane"))
	require.NoError(t, err)
	assert.True(t, view.Local)
	assert.False(t, view.ID.IsZero())
	assert.Equal(t, models.Key("ca-marche-en-go"), view.Key)
	assert.Equal(t, view.Key, view.Effective.Key)
	assert.Equal(t, view.ID, view.Effective.ID)
	assert.Equal(t, models.LangFrench, view.Effective.Language)

	got, err := c.Sessions.Get(ctx, "ca-marche-en-go")
	require.NoError(t, err)
	assert.Equal(t, view, got)

	require.Len(t, rec.changes, 1)
	assert.Equal(t, catalog.Change{Resource: catalog.ResourceSession, Kind: catalog.ChangeCreated, ID: view.ID, Key: view.Key}, rec.changes[0])
}

func TestCreateIncompleteSession(t *testing.T) {
	ctx := context.Background()
	c, rec := newCatalog(t)

	patch := completeSession("No description", "jane")
	patch.Description = nil
	patch.Category = nil

	_, err := c.Sessions.Create(ctx, patch)
	require.Error(t, err)
	assert.True(t, errors.IsIncomplete(err))

	var incomplete *errors.IncompleteDocumentError
	require.ErrorAs(t, err, &incomplete)
	assert.Equal(t, []string{"category", "description"}, incomplete.Missing)

	all, err := c.Sessions.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, rec.changes)
}

func TestCreateDuplicateKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	_, err := c.Sessions.Create(ctx, completeSession("Hello", "jane"))
	require.NoError(t, err)

	_, err = c.Sessions.Create(ctx, completeSession("hello!", "john"))
	require.Error(t, err)
	assert.True(t, errors.IsDuplicateKey(err))
}

func TestPatchKeepsKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	created, err := c.Sessions.Create(ctx, completeSession("Original title", "jane"))
	require.NoError(t, err)

	patch := completeSession("Renamed", "jane", "john")
	patched, err := c.Sessions.Patch(ctx, created.ID, patch)
	require.NoError(t, err)
	assert.Equal(t, created.Key, patched.Key)
	assert.Equal(t, "Renamed", patched.Effective.Title)

	_, err = c.Sessions.Get(ctx, "renamed")
	assert.True(t, errors.IsNotFound(err))
}

func TestPatchCannotMakeLocalDocumentIncomplete(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	created, err := c.Sessions.Create(ctx, completeSession("Keep me whole", "jane"))
	require.NoError(t, err)

	_, err = c.Sessions.Patch(ctx, created.ID, models.SessionPatch{Title: ptr.To("Only a title")})
	assert.True(t, errors.IsIncomplete(err))

	got, err := c.Sessions.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Keep me whole", got.Effective.Title)
}

func TestPatchCanonicalDocument(t *testing.T) {
	ctx := context.Background()
	stores := catalog.NewMemoryStores()
	c := catalog.New(stores)

	canonical := models.Session{
		ID: "talk-1", Key: "from-source", Title: "From source",
		Format: "conference", Speakers: []models.Key{"jane"}, Category: "web",
		Language: models.LangEnglish, Description: "desc",
	}
	doc := overlay.FromCanonical[models.Session, models.SessionPatch]("talk-1", "from-source", canonical)
	require.NoError(t, stores.Sessions.Insert(ctx, doc))

	view, err := c.Sessions.Patch(ctx, "talk-1", models.SessionPatch{VideoID: ptr.To("abc123")})
	require.NoError(t, err)
	assert.False(t, view.Local)
	assert.Equal(t, "abc123", view.Effective.VideoID)
	assert.Equal(t, "From source", view.Effective.Title)
}

func TestPatchMissing(t *testing.T) {
	c, _ := newCatalog(t)
	_, err := c.Sessions.Patch(context.Background(), "nope", completeSession("x", "y"))
	assert.True(t, errors.IsNotFound(err))
}

func TestDeleteSession(t *testing.T) {
	ctx := context.Background()
	c, rec := newCatalog(t)

	created, err := c.Sessions.Create(ctx, completeSession("Short lived", "jane"))
	require.NoError(t, err)

	removed, err := c.Sessions.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Key, removed.Key)

	_, err = c.Sessions.Delete(ctx, created.ID)
	assert.True(t, errors.IsNotFound(err))

	require.Len(t, rec.changes, 2)
	assert.Equal(t, catalog.ChangeDeleted, rec.changes[1].Kind)
}

func TestFindBySpeakerAndSessionSpeakers(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	_, err := c.Sessions.Create(ctx, completeSession("Alpha", "jane", "john"))
	require.NoError(t, err)
	_, err = c.Sessions.Create(ctx, completeSession("Beta", "john"))
	require.NoError(t, err)
	_, err = c.Sessions.Create(ctx, completeSession("Gamma", "mary"))
	require.NoError(t, err)

	sessions, err := c.Sessions.FindBySpeaker(ctx, "john")
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, models.Key("alpha"), sessions[0].Key)
	assert.Equal(t, models.Key("beta"), sessions[1].Key)

	speakers, err := c.Sessions.SessionSpeakers(ctx, "alpha")
	require.NoError(t, err)
	assert.Equal(t, []models.Key{"jane", "john"}, speakers)

	_, err = c.Sessions.SessionSpeakers(ctx, "missing")
	assert.True(t, errors.IsNotFound(err))
}

func TestSpeakerPhotoURLValidated(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	patch := models.SpeakerPatch{
		Name:        ptr.To("Jane Doe"),
		Description: ptr.To("Gopher"),
		PhotoURL:    ptr.To("not a url"),
	}
	_, err := c.Speakers.Create(ctx, patch)
	assert.True(t, errors.IsValidationError(err))

	patch.PhotoURL = ptr.To("https://example.com/jane.png")
	view, err := c.Speakers.Create(ctx, patch)
	require.NoError(t, err)
	assert.Equal(t, models.Key("jane-doe"), view.Key)
}

func TestEntities(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	cat, err := c.Categories.Create(ctx, models.Category{Name: "Cloud & DevOps"})
	require.NoError(t, err)
	assert.Equal(t, models.Key("cloud-devops"), cat.Key)
	assert.False(t, cat.ID.IsZero())

	_, err = c.Categories.Create(ctx, models.Category{Name: "Cloud DevOps"})
	assert.True(t, errors.IsDuplicateKey(err))

	_, err = c.Categories.Create(ctx, models.Category{})
	assert.True(t, errors.IsValidationError(err))

	got, err := c.Categories.Get(ctx, "cloud-devops")
	require.NoError(t, err)
	assert.Equal(t, cat, got)

	_, err = c.Sponsors.Create(ctx, models.Sponsor{Name: "ACME", Website: "acme"})
	assert.True(t, errors.IsValidationError(err))

	_, err = c.Categories.Delete(ctx, cat.ID)
	require.NoError(t, err)
	_, err = c.Categories.Get(ctx, "cloud-devops")
	assert.True(t, errors.IsNotFound(err))
}

func TestEntitiesUpsertKeepsKey(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	first, created, err := c.Formats.Upsert(ctx, models.Format{ID: "f1", Name: "Quickie"})
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, models.Key("quickie"), first.Key)

	second, created, err := c.Formats.Upsert(ctx, models.Format{ID: "f1", Name: "Lightning talk"})
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, models.Key("quickie"), second.Key)
	assert.Equal(t, "Lightning talk", second.Name)

	keys, err := c.Formats.KeysByID(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[models.ID]models.Key{"f1": "quickie"}, keys)
}

func TestSite(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	_, err := c.Site.Get(ctx)
	assert.True(t, errors.IsNotFound(err))

	require.NoError(t, c.Site.Replace(ctx, models.SiteInfo{EventID: "e1", Name: "DevFest"}))
	require.NoError(t, c.Site.Replace(ctx, models.SiteInfo{EventID: "e1", Name: "DevFest 2026"}))

	info, err := c.Site.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "DevFest 2026", info.Name)
}

func TestListenerMayWriteTheChangedDocument(t *testing.T) {
	ctx := context.Background()
	c, _ := newCatalog(t)

	var once sync.Once
	c.OnChange(func(ctx context.Context, change catalog.Change) {
		if change.Kind != catalog.ChangeCreated {
			return
		}
		once.Do(func() {
			_, err := c.Sessions.Patch(ctx, change.ID, completeSession("Renamed", "jane"))
			assert.NoError(t, err)
		})
	})

	created, err := c.Sessions.Create(ctx, completeSession("Original", "jane"))
	require.NoError(t, err)

	view, err := c.Sessions.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", view.Effective.Title)
	assert.Equal(t, models.Key("original"), view.Key)
}
