// Package dialog holds draft input and validation errors for modal forms.
package dialog

import (
	"maps"
	"slices"
	"strings"
)

// Kind identifies a dialog.
type Kind string

const (
	NewAlbum    Kind = "newAlbum"
	RenameAlbum Kind = "renameAlbum"
	NewMedia    Kind = "newMedia"
)

// FieldOpen is the pseudo-field naming the open flag in reset subsets.
const FieldOpen = "open"

// MsgRequired is the error attached to empty required fields.
const MsgRequired = "Required"

// Spec declares a dialog kind.
type Spec struct {
	Kind Kind

	// Defaults are the initial values of every field.
	Defaults map[string]string

	// Required fields must be non-blank on submit.
	Required []string

	// Reset is the subset restored to Defaults on close or success. Fields
	// outside it persist across resets. FieldOpen closes the dialog.
	Reset []string

	// ErrorKey is where remote failures are attached.
	ErrorKey string
}

// DefaultSpecs returns the dialogs the application declares.
func DefaultSpecs() []Spec {
	return []Spec{
		{
			Kind:     NewAlbum,
			Defaults: map[string]string{"name": ""},
			Required: []string{"name"},
			Reset:    []string{FieldOpen, "name"},
			ErrorKey: "newAlbum",
		},
		{
			Kind:     RenameAlbum,
			Defaults: map[string]string{"name": "", "id": ""},
			Required: []string{"name"},
			Reset:    []string{FieldOpen, "name", "id"},
			ErrorKey: "renameAlbum",
		},
		{
			// recent remembers the last submitted url across resets.
			Kind:     NewMedia,
			Defaults: map[string]string{"url": "", "recent": ""},
			Required: []string{"url"},
			Reset:    []string{FieldOpen, "url"},
			ErrorKey: "newMedia",
		},
	}
}

// SpecFor looks up a kind among DefaultSpecs.
func SpecFor(kind Kind) (Spec, bool) {
	for _, spec := range DefaultSpecs() {
		if spec.Kind == kind {
			return spec, true
		}
	}
	return Spec{}, false
}

// Draft is the state of one dialog.
type Draft struct {
	Open   bool
	Values map[string]string
	Errors map[string]string
}

// Value returns a field value.
func (d Draft) Value(field string) string {
	return d.Values[field]
}

// HasErrors reports whether any error is attached.
func (d Draft) HasErrors() bool {
	return len(d.Errors) > 0
}

func (d Draft) clone() Draft {
	return Draft{
		Open:   d.Open,
		Values: maps.Clone(d.Values),
		Errors: maps.Clone(d.Errors),
	}
}

// Set holds one independent draft per declared kind.
type Set struct {
	specs  map[Kind]Spec
	drafts map[Kind]*Draft
}

// NewSet creates drafts for the given specs, all closed and at defaults.
func NewSet(specs ...Spec) *Set {
	s := &Set{
		specs:  make(map[Kind]Spec, len(specs)),
		drafts: make(map[Kind]*Draft, len(specs)),
	}
	for _, spec := range specs {
		s.specs[spec.Kind] = spec
		s.drafts[spec.Kind] = &Draft{
			Values: maps.Clone(spec.Defaults),
			Errors: map[string]string{},
		}
	}
	return s
}

// Spec returns the declaration of kind.
func (s *Set) Spec(kind Kind) (Spec, bool) {
	spec, ok := s.specs[kind]
	return spec, ok
}

func (s *Set) Has(kind Kind) bool {
	_, ok := s.drafts[kind]
	return ok
}

// Open opens the dialog, restores its reset subset to defaults and then
// applies values on top. Errors from a previous session are cleared.
func (s *Set) Open(kind Kind, values map[string]string) {
	d, ok := s.drafts[kind]
	if !ok {
		return
	}
	s.ResetNamedFields(kind, s.specs[kind].Reset...)
	clear(d.Errors)
	maps.Copy(d.Values, values)
	d.Open = true
}

// Close restores the declared reset subset and clears errors.
func (s *Set) Close(kind Kind) {
	if _, ok := s.drafts[kind]; !ok {
		return
	}
	s.ResetNamedFields(kind, s.specs[kind].Reset...)
	s.ClearErrors(kind)
}

// IsOpen reports whether kind is open.
func (s *Set) IsOpen(kind Kind) bool {
	d, ok := s.drafts[kind]
	return ok && d.Open
}

// SetField edits a field. Any attached error is stale after an edit and is
// cleared.
func (s *Set) SetField(kind Kind, field, value string) {
	d, ok := s.drafts[kind]
	if !ok {
		return
	}
	d.Values[field] = value
	clear(d.Errors)
}

// ResetNamedFields restores exactly the named fields to their defaults.
// Fields outside the subset are left unchanged.
func (s *Set) ResetNamedFields(kind Kind, fields ...string) {
	d, ok := s.drafts[kind]
	if !ok {
		return
	}
	defaults := s.specs[kind].Defaults
	for _, f := range fields {
		if f == FieldOpen {
			d.Open = false
			continue
		}
		if v, ok := defaults[f]; ok {
			d.Values[f] = v
		} else {
			delete(d.Values, f)
		}
	}
}

// Validate checks the required fields of the current draft. Each blank field
// gets MsgRequired. It returns false when any field failed.
func (s *Set) Validate(kind Kind) bool {
	d, ok := s.drafts[kind]
	if !ok {
		return false
	}
	valid := true
	for _, f := range s.specs[kind].Required {
		if strings.TrimSpace(d.Values[f]) == "" {
			d.Errors[f] = MsgRequired
			valid = false
		}
	}
	return valid
}

// SetError attaches msg under key.
func (s *Set) SetError(kind Kind, key, msg string) {
	if d, ok := s.drafts[kind]; ok {
		d.Errors[key] = msg
	}
}

// ClearErrors removes every error of kind.
func (s *Set) ClearErrors(kind Kind) {
	if d, ok := s.drafts[kind]; ok {
		clear(d.Errors)
	}
}

// Errors returns a copy of the error map of kind.
func (s *Set) Errors(kind Kind) map[string]string {
	if d, ok := s.drafts[kind]; ok {
		return maps.Clone(d.Errors)
	}
	return nil
}

// Draft returns a copy of the draft of kind.
func (s *Set) Draft(kind Kind) Draft {
	if d, ok := s.drafts[kind]; ok {
		return d.clone()
	}
	return Draft{}
}

// Kinds lists the declared kinds in a stable order.
func (s *Set) Kinds() []Kind {
	return slices.Sorted(maps.Keys(s.specs))
}

// Clone returns an independent copy.
func (s *Set) Clone() *Set {
	out := &Set{specs: s.specs, drafts: make(map[Kind]*Draft, len(s.drafts))}
	for k, d := range s.drafts {
		c := d.clone()
		out.drafts[k] = &c
	}
	return out
}
