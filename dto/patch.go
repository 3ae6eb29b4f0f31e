package dto

import "encoding/json"

// OptString is a tri-state JSON string: a key that is absent stays
// unset, an explicit null is recorded as null, and anything else is a
// value. For note updates unset and null both mean "keep the stored
// value"; only Set fields overwrite.
type OptString struct {
	Present bool
	Null    bool
	Value   string
}

func (o *OptString) UnmarshalJSON(data []byte) error {
	o.Present = true
	if string(data) == "null" {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

func (o OptString) MarshalJSON() ([]byte, error) {
	if !o.Present || o.Null {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}

// Set reports whether the field carries a value to apply.
func (o OptString) Set() bool {
	return o.Present && !o.Null
}

// StringValue returns a set OptString holding v.
func StringValue(v string) OptString {
	return OptString{Present: true, Value: v}
}

// NotePatch is the update payload shared by the replace and patch
// endpoints. Fields left unset (or null) retain the stored value when
// applied.
type NotePatch struct {
	Title OptString `json:"title"`
	Body  OptString `json:"body"`
}

// Validate enforces the note field length limits, mirroring the
// creation payload rules.
func (p NotePatch) Validate() error {
	if p.Title.Set() && len(p.Title.Value) > MaxTitleLen {
		return ErrFieldTooLong
	}
	if p.Body.Set() && len(p.Body.Value) > MaxBodyLen {
		return ErrFieldTooLong
	}
	return nil
}
