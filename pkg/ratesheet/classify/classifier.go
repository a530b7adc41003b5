// Package classify assigns a role to each sheet of a workbook from its name.
package classify

import (
	"strings"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/models"
)

// Params holds parameters for sheet name classification.
type Params struct {
	// Threshold is the minimum similarity for a keyword match.
	Threshold int `json:"threshold" yaml:"threshold" toml:"threshold"`
	// FreeTimeKeywords mark free-time, demurrage, detention and storage sheets.
	FreeTimeKeywords []string `json:"freetime_keywords" yaml:"freetime_keywords" toml:"freetime_keywords"`
	// RuleKeywords mark rules, policy and condition sheets.
	RuleKeywords []string `json:"rule_keywords" yaml:"rule_keywords" toml:"rule_keywords"`
	// SurchargeKeywords mark surcharge and tariff sheets.
	SurchargeKeywords []string `json:"surcharge_keywords" yaml:"surcharge_keywords" toml:"surcharge_keywords"`
	// Similarity compares a lower-cased sheet name with a keyword.
	// Nil means PartialRatio.
	Similarity Similarity `json:"-" yaml:"-" toml:"-"`
}

// DefaultParams returns default classification parameters.
func DefaultParams() Params {
	return Params{
		Threshold:         70,
		FreeTimeKeywords:  []string{"free time", "freetime", "demurrage", "detention", "storage"},
		RuleKeywords:      []string{"rule", "policy", "term", "condition", "regulation", "note", "remark"},
		SurchargeKeywords: []string{"surcharge", "tariff", "charge"},
		Similarity:        PartialRatio,
	}
}

// Classifier assigns roles to sheet names. It is immutable once built.
type Classifier struct {
	ignored map[string]struct{}
	params  Params
}

// New creates a Classifier. Ignored names match exactly and case-sensitively.
func New(ignored []string, p Params) *Classifier {
	if p.Similarity == nil {
		p.Similarity = PartialRatio
	}
	set := make(map[string]struct{}, len(ignored))
	for _, name := range ignored {
		set[name] = struct{}{}
	}
	return &Classifier{ignored: set, params: p}
}

// Classify returns the role of a sheet: ignored, then free time, rules,
// surcharge, and otherwise a rate table candidate.
func (c *Classifier) Classify(name string) models.SheetRole {
	switch {
	case c.IsIgnored(name):
		return models.RoleIgnored
	case c.matchesAny(name, c.params.FreeTimeKeywords):
		return models.RoleFreeTime
	case c.matchesAny(name, c.params.RuleKeywords):
		return models.RoleRules
	case c.matchesAny(name, c.params.SurchargeKeywords):
		return models.RoleSurcharge
	default:
		return models.RoleRateTable
	}
}

// IsIgnored reports whether name is on the ignore list.
func (c *Classifier) IsIgnored(name string) bool {
	_, ok := c.ignored[name]
	return ok
}

// IsSurcharge reports whether a sheet that is not ignored matches a
// surcharge keyword, whatever its priority role. A free-time sheet named
// "Detention Charges" is also a surcharge sheet.
func (c *Classifier) IsSurcharge(name string) bool {
	return !c.IsIgnored(name) && c.matchesAny(name, c.params.SurchargeKeywords)
}

func (c *Classifier) matchesAny(name string, keywords []string) bool {
	text := strings.ToLower(name)
	for _, kw := range keywords {
		if c.params.Similarity(text, strings.ToLower(kw)) >= c.params.Threshold {
			return true
		}
	}
	return false
}
