// Package vocab holds the weighted keyword sets used to score rows.
package vocab

import (
	"sort"
	"strings"
)

// Category identifies one of the four term sets.
type Category int

const (
	Location Category = iota
	Container
	Rate
	Logistics
)

// Weight returns the score contribution of one matching term.
func (c Category) Weight() float64 {
	switch c {
	case Location:
		return 3
	case Container:
		return 2.5
	case Rate:
		return 2
	case Logistics:
		return 1.5
	default:
		return 0
	}
}

func (c Category) String() string {
	switch c {
	case Location:
		return "location"
	case Container:
		return "container"
	case Rate:
		return "rate"
	case Logistics:
		return "logistics"
	default:
		return "unknown"
	}
}

// Categories lists all categories in scoring order.
var Categories = []Category{Location, Container, Rate, Logistics}

var (
	defaultLocation = []string{
		"origin", "destination", "port", "pol", "pod", "country", "area",
		"carrier", "carriers", "from", "to", "via", "start",
	}
	defaultContainer = []string{
		"20'", "40'", "dc", "hc", "rf", "rq", "box", "soc",
		"20rf", "40rf", "20rq", "40rq", "dry", "reefer", "container",
	}
	defaultRate      = []string{"rate", "currency", "charges", "price", "cost", "amount", "fee", "tariff"}
	defaultLogistics = []string{"mode", "term", "code", "routing", "service", "transit"}
)

// TermSet is an immutable set of lower-cased keywords, kept sorted so
// iteration is deterministic.
type TermSet struct {
	terms []string
}

// NewTermSet builds a set from the given terms. Terms are lower-cased and
// trimmed; blanks and duplicates are dropped.
func NewTermSet(terms ...[]string) TermSet {
	seen := make(map[string]struct{})
	var out []string
	for _, list := range terms {
		for _, t := range list {
			t = strings.ToLower(strings.TrimSpace(t))
			if t == "" {
				continue
			}
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			out = append(out, t)
		}
	}
	sort.Strings(out)
	return TermSet{terms: out}
}

// Terms returns a copy of the terms.
func (s TermSet) Terms() []string {
	return append([]string(nil), s.terms...)
}

// Len returns the number of terms.
func (s TermSet) Len() int {
	return len(s.terms)
}

// Contains reports whether term is in the set.
func (s TermSet) Contains(term string) bool {
	i := sort.SearchStrings(s.terms, term)
	return i < len(s.terms) && s.terms[i] == term
}

// CountIn returns how many distinct terms occur as substrings of text.
func (s TermSet) CountIn(text string) int {
	n := 0
	for _, t := range s.terms {
		if strings.Contains(text, t) {
			n++
		}
	}
	return n
}

// CustomTerms carries caller-supplied extra terms per category.
type CustomTerms struct {
	Location  []string `json:"location,omitempty" yaml:"location,omitempty" toml:"location,omitempty"`
	Container []string `json:"container,omitempty" yaml:"container,omitempty" toml:"container,omitempty"`
	Rate      []string `json:"rate,omitempty" yaml:"rate,omitempty" toml:"rate,omitempty"`
	Logistics []string `json:"logistics,omitempty" yaml:"logistics,omitempty" toml:"logistics,omitempty"`
}

// Empty reports whether no custom terms are set.
func (c CustomTerms) Empty() bool {
	return len(c.Location) == 0 && len(c.Container) == 0 && len(c.Rate) == 0 && len(c.Logistics) == 0
}

// Vocabulary is the four term sets used by the row scorer.
// It is constructed once per extractor and never mutated.
type Vocabulary struct {
	sets [4]TermSet
}

// Default returns the built-in vocabulary.
func Default() *Vocabulary {
	return New(CustomTerms{})
}

// New returns the built-in vocabulary unioned with custom terms.
func New(custom CustomTerms) *Vocabulary {
	return &Vocabulary{sets: [4]TermSet{
		NewTermSet(defaultLocation, custom.Location),
		NewTermSet(defaultContainer, custom.Container),
		NewTermSet(defaultRate, custom.Rate),
		NewTermSet(defaultLogistics, custom.Logistics),
	}}
}

// Set returns the term set for a category.
func (v *Vocabulary) Set(c Category) TermSet {
	if c < Location || c > Logistics {
		return TermSet{}
	}
	return v.sets[c]
}
