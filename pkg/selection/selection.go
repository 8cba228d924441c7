package selection

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrInvalidSelection is wrapped by every ValidationError.
var ErrInvalidSelection = errors.New("invalid selection")

// LocationSet is a named destination and the number of files to produce there.
type LocationSet struct {
	Location string `json:"location" validate:"notblank"`
	NumFiles int    `json:"numFiles" validate:"gt=0"`
}

// Selection is one saved configuration for a (node, scheme, property).
type Selection struct {
	Scheme       string        `json:"scheme" validate:"notblank"`
	Property     string        `json:"property" validate:"notblank"`
	Chips        []Chip        `json:"chips"`
	Range        Range         `json:"range"`
	Node         string        `json:"node" validate:"notblank"`
	LocationSets []LocationSet `json:"locationSets" validate:"required,min=1,dive"`
}

// Key identifies a selection in the store.
type Key struct {
	Node     string
	Scheme   string
	Property string
}

// GroupKey identifies a row of grouped selections.
type GroupKey struct {
	Node   string `json:"node"`
	Scheme string `json:"scheme"`
}

func (s Selection) Key() Key {
	return Key{Node: s.Node, Scheme: s.Scheme, Property: s.Property}
}

func (s Selection) GroupKey() GroupKey {
	return GroupKey{Node: s.Node, Scheme: s.Scheme}
}

// SampledCount is the number of chips subject to the range, forced chips excluded.
func (s Selection) SampledCount() int {
	n := 0
	for _, c := range s.Chips {
		if !c.Forced {
			n++
		}
	}
	return n
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	out := s
	out.Chips = append([]Chip(nil), s.Chips...)
	out.LocationSets = append([]LocationSet(nil), s.LocationSets...)
	return out
}

// Normalize returns a deep copy with surrounding whitespace removed from the
// key fields and location names.
func (s Selection) Normalize() Selection {
	out := s.Clone()
	out.Scheme = strings.TrimSpace(out.Scheme)
	out.Property = strings.TrimSpace(out.Property)
	out.Node = strings.TrimSpace(out.Node)
	out.LocationSets = NormalizeLocations(out.LocationSets)
	return out
}

// NormalizeLocations returns a copy of sets with trimmed location names.
func NormalizeLocations(sets []LocationSet) []LocationSet {
	if sets == nil {
		return nil
	}
	out := make([]LocationSet, len(sets))
	for i, ls := range sets {
		out[i] = LocationSet{Location: strings.TrimSpace(ls.Location), NumFiles: ls.NumFiles}
	}
	return out
}

// SameChips reports whether a and b hold the same chips, ignoring order.
func SameChips(a, b []Chip) bool {
	if len(a) != len(b) {
		return false
	}
	ka, kb := chipKeys(a), chipKeys(b)
	for i := range ka {
		if ka[i] != kb[i] {
			return false
		}
	}
	return true
}

func chipKeys(chips []Chip) []string {
	keys := make([]string, len(chips))
	for i, c := range chips {
		keys[i] = EncodeChipLabel(c)
	}
	sort.Strings(keys)
	return keys
}

// ValidationError lists every problem found in a candidate.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ErrInvalidSelection, strings.Join(e.Problems, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidSelection
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks a candidate before it may enter the store.
func (s Selection) Validate() error {
	var problems []string
	if err := validate.Struct(s); err != nil {
		problems = append(problems, describe(err)...)
	}
	problems = append(problems, locationProblems(s.LocationSets, false)...)
	if !s.Range.Valid(s.SampledCount()) {
		problems = append(problems, fmt.Sprintf("range %s must satisfy 0 <= min <= max <= %d", s.Range, s.SampledCount()))
	}
	if len(problems) > 0 {
		return &ValidationError{Problems: dedupe(problems)}
	}
	return nil
}

// ValidateLocationSets checks a location bundle on its own.
func ValidateLocationSets(sets []LocationSet) error {
	problems := locationProblems(sets, true)
	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

func locationProblems(sets []LocationSet, requireOne bool) []string {
	var problems []string
	if requireOne && len(sets) == 0 {
		problems = append(problems, "at least one location is required")
	}
	seen := make(map[string]bool, len(sets))
	for i, ls := range sets {
		name := strings.TrimSpace(ls.Location)
		if name == "" {
			problems = append(problems, fmt.Sprintf("locationSets[%d]: location must not be blank", i))
		} else if seen[name] {
			problems = append(problems, fmt.Sprintf("locationSets[%d]: duplicate location %q", i, name))
		}
		seen[name] = true
		if ls.NumFiles <= 0 {
			problems = append(problems, fmt.Sprintf("locationSets[%d]: numFiles must be greater than 0", i))
		}
	}
	return problems
}

func describe(err error) []string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []string{err.Error()}
	}
	out := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "Selection.")
		if strings.HasPrefix(field, "locationSets[") {
			// entries are reported by locationProblems
			continue
		}
		switch fe.Tag() {
		case "required", "notblank":
			out = append(out, field+" is required")
		case "min":
			out = append(out, field+" must have at least "+fe.Param()+" entry")
		default:
			out = append(out, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return out
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, s := range in {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}
