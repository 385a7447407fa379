package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/confkit/internal/utils/ptr"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
)

func sessions() []overlay.SessionView {
	return []overlay.SessionView{
		{
			ID: "t-1", Key: "go-in-production",
			Effective: models.Session{Title: "Go in production", Speakers: []models.Key{"jane-doe"}, Category: "cloud", Format: "conference"},
		},
		{
			ID: "t-2", Key: "go-generics",
			Effective: models.Session{Title: "Generics in Go", Speakers: []models.Key{"john-smith"}, Category: "languages", Format: "quickie"},
			Patch:     models.SessionPatch{Format: ptr.To(models.Key("quickie"))},
		},
		{
			ID: "l-1", Key: "web-components", Local: true,
			Effective: models.Session{Title: "Web components", Speakers: []models.Key{"jane-doe", "john-smith"}, Category: "web", Format: "conference"},
		},
	}
}

func keysOf(views []overlay.SessionView) []models.Key {
	keys := make([]models.Key, len(views))
	for i, v := range views {
		keys[i] = v.Key
	}
	return keys
}

func TestSessionFilter(t *testing.T) {
	goKeys, err := Keys("go-*")
	require.NoError(t, err)

	tests := []struct {
		name   string
		filter *SessionFilter
		want   []models.Key
	}{
		{"nil filter", nil, []models.Key{"go-in-production", "go-generics", "web-components"}},
		{"key glob", &SessionFilter{Key: goKeys}, []models.Key{"go-in-production", "go-generics"}},
		{"speaker", &SessionFilter{Speaker: "jane-doe"}, []models.Key{"go-in-production", "web-components"}},
		{"category", &SessionFilter{Category: "cloud"}, []models.Key{"go-in-production"}},
		{"format", &SessionFilter{Format: "quickie"}, []models.Key{"go-generics"}},
		{"origin source", &SessionFilter{Origin: OriginSource}, []models.Key{"go-in-production"}},
		{"origin patched", &SessionFilter{Origin: OriginPatched}, []models.Key{"go-generics"}},
		{"origin local", &SessionFilter{Origin: OriginLocal}, []models.Key{"web-components"}},
		{"search", &SessionFilter{Search: "GENERICS"}, []models.Key{"go-generics"}},
		{"combined", &SessionFilter{Key: goKeys, Speaker: "john-smith"}, []models.Key{"go-generics"}},
		{"no match", &SessionFilter{Speaker: "nobody"}, []models.Key{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, keysOf(tt.filter.Apply(sessions())))
		})
	}
}

func TestSpeakerFilter(t *testing.T) {
	views := []overlay.SpeakerView{
		{Key: "jane-doe", Effective: models.Speaker{Name: "Jane Doe", Company: "Gophers Inc", Featured: true}},
		{Key: "john-smith", Effective: models.Speaker{Name: "John Smith", Company: "Crabs Ltd"}},
	}

	f := &SpeakerFilter{Featured: true}
	require.Len(t, f.Apply(views), 1)
	assert.Equal(t, models.Key("jane-doe"), f.Apply(views)[0].Key)

	f = &SpeakerFilter{Search: "crabs"}
	require.Len(t, f.Apply(views), 1)
	assert.Equal(t, models.Key("john-smith"), f.Apply(views)[0].Key)

	key, err := Keys("^j.*-(doe|smith)$")
	require.NoError(t, err)
	f = &SpeakerFilter{Key: key, Origin: OriginSource}
	assert.Len(t, f.Apply(views), 2)
}

func TestParseOrigin(t *testing.T) {
	o, err := ParseOrigin("Patched")
	require.NoError(t, err)
	assert.Equal(t, OriginPatched, o)

	o, err = ParseOrigin("")
	require.NoError(t, err)
	assert.Equal(t, OriginAny, o)

	_, err = ParseOrigin("remote")
	assert.Error(t, err)
}

func TestKeysEmpty(t *testing.T) {
	m, err := Keys("")
	require.NoError(t, err)
	assert.Nil(t, m)

	_, err = Keys("[")
	assert.Error(t, err)
}
