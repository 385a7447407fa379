package models_test

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/agentstation/confkit/internal/utils/ptr"
	"github.com/agentstation/confkit/pkg/models"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"simple", "Hello World", "hello-world"},
		{"diacritics", "Ça va, l'API Go 1.22 !", "ca-va-l-api-go-1-22"},
		{"french title", "Déployer à l'échelle avec Kubernetes", "deployer-a-l-echelle-avec-kubernetes"},
		{"collapses separators", "  --Rust  &&  Go-- ", "rust-go"},
		{"only symbols", "!!! ???", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, models.Slugify(tt.input))
		})
	}
}

func TestKeyFor(t *testing.T) {
	assert.Equal(t, models.Key("jane-doe"), models.KeyFor("Jane Doe", "uid-1"))
	assert.Equal(t, models.Key("uid-1"), models.KeyFor("", "uid-1"))
	assert.Equal(t, models.Key("uid-1"), models.KeyFor("???", "UID_1"))
}

func TestNewID(t *testing.T) {
	a, b := models.NewID(), models.NewID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsZero())
	assert.Len(t, a.String(), 36)
}

func TestLangFromUserField(t *testing.T) {
	tests := []struct {
		input string
		want  models.Lang
	}{
		{"Français", models.LangFrench},
		{"francais", models.LangFrench},
		{"French", models.LangFrench},
		{"fr", models.LangFrench},
		{"English", models.LangEnglish},
		{"anglais", models.LangEnglish},
		{"EN", models.LangEnglish},
		{"", models.DefaultLang},
		{"klingon", models.DefaultLang},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, models.LangFromUserField(tt.input))
		})
	}
}

func TestLang(t *testing.T) {
	t.Run("parse keeps base language", func(t *testing.T) {
		l, err := models.ParseLang("fr-CA")
		require.NoError(t, err)
		assert.Equal(t, models.LangFrench, l)
	})

	t.Run("invalid tag", func(t *testing.T) {
		_, err := models.ParseLang("not a tag!")
		assert.Error(t, err)
	})

	t.Run("regional tags", func(t *testing.T) {
		assert.Equal(t, language.MustParse("fr-FR"), models.LangFrench.Tag())
		assert.Equal(t, language.MustParse("en-US"), models.Lang("").Tag())
	})

	t.Run("json round trip through text marshaling", func(t *testing.T) {
		var out struct {
			Lang models.Lang `json:"lang"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"lang":"fr-FR"}`), &out))
		assert.Equal(t, models.LangFrench, out.Lang)

		data, err := json.Marshal(out)
		require.NoError(t, err)
		assert.JSONEq(t, `{"lang":"fr"}`, string(data))
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  models.Level
		ok    bool
	}{
		{"beginner", models.LevelAll, true},
		{"ALL", models.LevelAll, true},
		{"intermediate", models.LevelAdvanced, true},
		{"advanced", models.LevelAdvanced, true},
		{"Expert", models.LevelExpert, true},
		{"guru", models.LevelAll, false},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := models.ParseLevel(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestSessionPatchOverlay(t *testing.T) {
	canonical := &models.Session{
		ID:          "1",
		Key:         "from-source",
		Title:       "From source",
		Format:      "talk",
		Speakers:    []models.Key{"jane"},
		Category:    "web",
		Language:    models.LangFrench,
		Description: "abstract",
	}

	t.Run("empty patch keeps canonical", func(t *testing.T) {
		got := models.SessionPatch{}.Overlay("1", "from-source", canonical)
		if diff := cmp.Diff(*canonical, got); diff != "" {
			t.Errorf("Overlay() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("patch fields win", func(t *testing.T) {
		patch := models.SessionPatch{
			Title:    ptr.To("Patched"),
			Speakers: &[]models.Key{"jane", "john"},
			Draft:    ptr.To(true),
		}
		got := patch.Overlay("1", "from-source", canonical)
		assert.Equal(t, "Patched", got.Title)
		assert.Equal(t, []models.Key{"jane", "john"}, got.Speakers)
		assert.True(t, got.Draft)
		assert.Equal(t, models.Key("web"), got.Category)
		assert.Equal(t, models.Key("from-source"), got.Key)
	})

	t.Run("empty override is still an override", func(t *testing.T) {
		patch := models.SessionPatch{Speakers: &[]models.Key{}}
		got := patch.Overlay("1", "from-source", canonical)
		assert.Empty(t, got.Speakers)
	})

	t.Run("effective slices do not alias the patch", func(t *testing.T) {
		speakers := []models.Key{"jane"}
		got := models.SessionPatch{Speakers: &speakers}.Overlay("1", "k", nil)
		got.Speakers[0] = "mallory"
		assert.Equal(t, models.Key("jane"), speakers[0])
	})
}

func TestSessionPatchMissing(t *testing.T) {
	assert.Equal(t,
		[]string{"title", "format", "speakers", "category", "language", "description"},
		models.SessionPatch{}.Missing())

	complete := models.SessionPatch{
		Title:       ptr.To(""),
		Format:      ptr.To(models.Key("talk")),
		Speakers:    &[]models.Key{},
		Category:    ptr.To(models.Key("web")),
		Language:    ptr.To(models.LangEnglish),
		Description: ptr.To(""),
	}
	assert.Empty(t, complete.Missing())
	assert.False(t, complete.IsEmpty())
	assert.True(t, models.SessionPatch{}.IsEmpty())
}

func TestSpeakerPatch(t *testing.T) {
	assert.Equal(t, []string{"name", "description"}, models.SpeakerPatch{}.Missing())

	base := &models.Speaker{ID: "s1", Key: "jane", Name: "Jane", Company: "ACME", Description: "bio"}
	got := models.SpeakerPatch{Company: ptr.To("Initech")}.Overlay("s1", "jane", base)
	assert.Equal(t, "Initech", got.Company)
	assert.Equal(t, "Jane", got.Name)
}

func TestDefaults(t *testing.T) {
	assert.Equal(t, models.UnknownKey, models.DefaultCategory().Key)
	assert.Equal(t, models.UnknownName, models.DefaultFormat().Name)
	assert.Equal(t, "site", models.SiteInfo{EventID: "abc"}.RecordID())
}
