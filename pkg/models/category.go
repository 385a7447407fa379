package models

// UnknownName names the fallback category and format.
const UnknownName = "<Unknown>"

// UnknownKey is the key of the fallback category and format.
const UnknownKey Key = "unknown"

// Category is a track of the conference (web, cloud, data...).
type Category struct {
	ID          ID     `json:"id" bson:"id" yaml:"id"`
	Key         Key    `json:"key" bson:"key" yaml:"key"`
	Name        string `json:"name" bson:"name" yaml:"name" validate:"required"`
	Description string `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
}

// RecordID implements store.Record.
func (c Category) RecordID() string { return string(c.ID) }

// RecordKey implements store.Record.
func (c Category) RecordKey() string { return string(c.Key) }

// DefaultCategory is used when a session references no known category.
func DefaultCategory() Category {
	return Category{ID: ID(UnknownKey), Key: UnknownKey, Name: UnknownName}
}

// Format is the kind of slot of a session (talk, quickie, workshop...).
type Format struct {
	ID          ID     `json:"id" bson:"id" yaml:"id"`
	Key         Key    `json:"key" bson:"key" yaml:"key"`
	Name        string `json:"name" bson:"name" yaml:"name" validate:"required"`
	Description string `json:"description,omitempty" bson:"description,omitempty" yaml:"description,omitempty"`
}

// RecordID implements store.Record.
func (f Format) RecordID() string { return string(f.ID) }

// RecordKey implements store.Record.
func (f Format) RecordKey() string { return string(f.Key) }

// DefaultFormat is used when a session references no known format.
func DefaultFormat() Format {
	return Format{ID: ID(UnknownKey), Key: UnknownKey, Name: UnknownName}
}

// Label returns the name the key is derived from.
func (c Category) Label() string { return c.Name }

// WithIdentity returns c with the given id and key.
func (c Category) WithIdentity(id ID, key Key) Category {
	c.ID, c.Key = id, key
	return c
}

// Label returns the name the key is derived from.
func (f Format) Label() string { return f.Name }

// WithIdentity returns f with the given id and key.
func (f Format) WithIdentity(id ID, key Key) Format {
	f.ID, f.Key = id, key
	return f
}
