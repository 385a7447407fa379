// Package differ compares the local overrides of a document with the values
// received from the source.
package differ

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/agentstation/confkit/pkg/overlay"
)

// ChangeType represents the effect of an override.
type ChangeType string

const (
	// ChangeTypeAdd marks a field of a local document, with no source value.
	ChangeTypeAdd ChangeType = "add"
	// ChangeTypeUpdate marks an override that differs from the source value.
	ChangeTypeUpdate ChangeType = "update"
	// ChangeTypeSame marks an override equal to the source value. A later
	// source change will not show through it.
	ChangeTypeSame ChangeType = "same"
)

// FieldChange represents the override of a single field.
type FieldChange struct {
	Path     string     `json:"path" yaml:"path"`
	OldValue string     `json:"source,omitempty" yaml:"source,omitempty"`
	NewValue string     `json:"override" yaml:"override"`
	Type     ChangeType `json:"type" yaml:"type"`
}

// Differ compares patches with canonical values.
type Differ struct {
	ignored  map[string]bool
	maxWidth int
}

// New creates a differ.
func New(opts ...Option) *Differ {
	d := &Differ{ignored: map[string]bool{}, maxWidth: 60}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Overrides lists the fields set in the patch of doc, ordered by path.
func Overrides[T any, P overlay.Patch[T]](d *Differ, doc overlay.Document[T, P]) []FieldChange {
	patch := reflect.ValueOf(doc.Patch)
	if patch.Kind() != reflect.Struct {
		return nil
	}
	var canonical reflect.Value
	if doc.Canonical != nil {
		canonical = reflect.ValueOf(*doc.Canonical)
	}

	changes := []FieldChange{}
	for i := range patch.NumField() {
		field := patch.Type().Field(i)
		value := patch.Field(i)
		if value.Kind() != reflect.Pointer || value.IsNil() {
			continue
		}
		path := fieldPath(field)
		if d.ignored[path] {
			continue
		}

		override := value.Elem()
		change := FieldChange{
			Path:     path,
			NewValue: d.format(override),
			Type:     ChangeTypeAdd,
		}
		if canonical.IsValid() {
			if source := canonical.FieldByName(field.Name); source.IsValid() {
				change.OldValue = d.format(source)
				change.Type = ChangeTypeUpdate
				if reflect.DeepEqual(source.Interface(), override.Interface()) {
					change.Type = ChangeTypeSame
				}
			}
		}
		changes = append(changes, change)
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Path < changes[j].Path })
	return changes
}

func (d *Differ) format(v reflect.Value) string {
	var s string
	if v.Kind() == reflect.Slice {
		parts := make([]string, v.Len())
		for i := range v.Len() {
			parts[i] = fmt.Sprintf("%v", v.Index(i).Interface())
		}
		s = strings.Join(parts, ",")
	} else {
		s = fmt.Sprintf("%v", v.Interface())
	}
	return truncateString(s, d.maxWidth)
}

func fieldPath(field reflect.StructField) string {
	tag := field.Tag.Get("json")
	if name, _, _ := strings.Cut(tag, ","); name != "" && name != "-" {
		return name
	}
	return field.Name
}

// truncateString truncates a string to a maximum length.
func truncateString(s string, maxLen int) string {
	r := []rune(s)
	if maxLen <= 3 || len(r) <= maxLen {
		return s
	}
	return string(r[:maxLen-3]) + "..."
}
