package output

import (
	"sort"
	"strconv"
	"strings"

	"github.com/agentstation/confkit/pkg/differ"
	"github.com/agentstation/confkit/pkg/models"
	"github.com/agentstation/confkit/pkg/overlay"
	"github.com/agentstation/confkit/pkg/sync"
)

// origin labels a document as local or synchronized, marking patched ones.
func origin(local, patched bool) string {
	switch {
	case local:
		return "local"
	case patched:
		return "source+patch"
	default:
		return "source"
	}
}

func keys(ks []models.Key) string {
	parts := make([]string, len(ks))
	for i, k := range ks {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}

// SessionsData converts session views to table format.
func SessionsData(views []overlay.SessionView) Data {
	data := Data{Headers: []string{"Key", "Title", "Speakers", "Category", "Format", "Lang", "Origin"}}
	for _, v := range views {
		s := v.Effective
		data.Rows = append(data.Rows, []string{
			string(v.Key), s.Title, keys(s.Speakers), string(s.Category), string(s.Format),
			string(s.Language), origin(v.Local, v.Patch != models.SessionPatch{}),
		})
	}
	return data
}

// SpeakersData converts speaker views to table format.
func SpeakersData(views []overlay.SpeakerView) Data {
	data := Data{Headers: []string{"Key", "Name", "Company", "City", "Featured", "Origin"}}
	for _, v := range views {
		s := v.Effective
		data.Rows = append(data.Rows, []string{
			string(v.Key), s.Name, s.Company, s.City, strconv.FormatBool(s.Featured),
			origin(v.Local, v.Patch != models.SpeakerPatch{}),
		})
	}
	return data
}

// SyncResultData summarizes a synchronization run per resource.
func SyncResultData(r *sync.Result) Data {
	data := Data{
		Headers:         []string{"Resource", "Created", "Merged", "Rejected", "Stale"},
		ColumnAlignment: []Align{AlignLeft, AlignRight, AlignRight, AlignRight, AlignRight},
	}
	resources := make([]string, 0, len(r.Counts))
	for resource := range r.Counts {
		resources = append(resources, resource)
	}
	sort.Strings(resources)
	for _, resource := range resources {
		c := r.Counts[resource]
		data.Rows = append(data.Rows, countsRow(resource, c))
	}
	data.Rows = append(data.Rows, countsRow("total", r.Total()))
	return data
}

func countsRow(label string, c sync.Counts) []string {
	return []string{
		label,
		strconv.Itoa(c.Created),
		strconv.Itoa(c.Merged),
		strconv.Itoa(c.Rejected),
		strconv.Itoa(c.Stale),
	}
}

// OverridesData lists the overridden fields of a document.
func OverridesData(changes []differ.FieldChange) Data {
	data := Data{Headers: []string{"Field", "Source", "Override", "Change"}}
	for _, c := range changes {
		data.Rows = append(data.Rows, []string{c.Path, c.OldValue, c.NewValue, string(c.Type)})
	}
	return data
}
