package pagetab

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Record is one flattened, annotated row describing a single element of the
// document tree. Records are produced in pre-order document order and are
// immutable once produced.
type Record struct {
	// Tag is the element name. Text-only nodes never produce records.
	Tag string `json:"tag"`

	// Attributes is the full raw attribute mapping, serialized for display.
	Attributes string `json:"attributes"`

	// SpecialAttributes is the tag-specific subset (src/alt for images,
	// href/rel/target for links, and so on). Empty for unrecognized tags.
	SpecialAttributes map[string]string `json:"specialAttributes"`

	// Text is the element's own and descendant text, whitespace-collapsed
	// and capped at 1000 characters.
	Text string `json:"text"`

	// HTML is the serialized subtree markup, capped at 1000 characters.
	HTML string `json:"html"`

	// ParentTag is the name of the immediate parent element; empty for the
	// root element.
	ParentTag string `json:"parentTag"`

	// Level is the depth from the root element (root = 0).
	Level int `json:"level"`

	// XPath is the absolute structural locator for the element.
	XPath string `json:"xpath"`

	// CSSPath is the " > "-joined root-to-element display path. Each token
	// is tag, tag#id, or tag.class1.class2, which makes the whole path a
	// valid CSS selector.
	CSSPath string `json:"cssPath"`

	// ChildCount is the number of direct element children. Text nodes are
	// not counted.
	ChildCount int `json:"childCount"`

	HasClass bool `json:"hasClass"`
	HasID    bool `json:"hasId"`

	// Class is the class list joined by single spaces; ID is the raw id
	// attribute value.
	Class string `json:"class"`
	ID    string `json:"id"`
}

// SpecialAttrsString serializes SpecialAttributes for display, keys sorted
// for determinism. Empty when the tag has no special attributes.
func (r Record) SpecialAttrsString() string {
	if len(r.SpecialAttributes) == 0 {
		return ""
	}
	keys := make([]string, 0, len(r.SpecialAttributes))
	for k := range r.SpecialAttributes {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+`="`+r.SpecialAttributes[k]+`"`)
	}
	return strings.Join(parts, " ")
}

// Snapshot describes one flatten run over one document.
type Snapshot struct {
	ID           string    `json:"id"`
	URL          string    `json:"url"`
	FinalURL     string    `json:"finalUrl"`
	FetchedAt    time.Time `json:"fetchedAt"`
	ContentHash  string    `json:"contentHash"`
	ElementCount int       `json:"elementCount"`
}

// Validate returns an error if the snapshot contains invalid fields.
func (s *Snapshot) Validate() error {
	if s.URL == "" {
		return Errorf(EINVALID, "snapshot URL required")
	}
	if s.FinalURL == "" {
		return Errorf(EINVALID, "snapshot final URL required")
	}
	return nil
}

// NewSnapshot returns a snapshot for a document fetched now.
func NewSnapshot(url, finalURL, contentHash string, elementCount int) *Snapshot {
	return &Snapshot{
		ID:           uuid.NewString(),
		URL:          url,
		FinalURL:     finalURL,
		FetchedAt:    time.Now().UTC(),
		ContentHash:  contentHash,
		ElementCount: elementCount,
	}
}

// FilterOptions selects a subset of records. All set predicates must hold
// (AND-combined); the zero value selects everything.
type FilterOptions struct {
	// Tags restricts records to those whose Tag is in the set.
	Tags []string `json:"tags"`

	// MinLevel and MaxLevel bound Level inclusively.
	MinLevel *int `json:"minLevel"`
	MaxLevel *int `json:"maxLevel"`

	// HasText keeps only records with non-empty Text.
	HasText bool `json:"hasText"`

	// HasClass and HasID keep only records carrying a class or id.
	HasClass bool `json:"hasClass"`
	HasID    bool `json:"hasId"`
}

// Match reports whether a single record satisfies all set predicates.
func (o FilterOptions) Match(r Record) bool {
	if len(o.Tags) > 0 {
		found := false
		for _, tag := range o.Tags {
			if r.Tag == tag {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if o.MinLevel != nil && r.Level < *o.MinLevel {
		return false
	}
	if o.MaxLevel != nil && r.Level > *o.MaxLevel {
		return false
	}
	if o.HasText && r.Text == "" {
		return false
	}
	if o.HasClass && !r.HasClass {
		return false
	}
	if o.HasID && !r.HasID {
		return false
	}
	return true
}

// Filter returns the records matching opts, preserving order. The input
// slice is never mutated; with zero-value opts the result is element-wise
// equal to the input.
func Filter(records []Record, opts FilterOptions) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if opts.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

// Images returns only the image records, in original order.
func Images(records []Record) []Record {
	return Filter(records, FilterOptions{Tags: []string{"img"}})
}

// Links returns only the anchor records, in original order.
func Links(records []Record) []Record {
	return Filter(records, FilterOptions{Tags: []string{"a"}})
}
