// Package ratesheet extracts rate tables and their context from freight
// rate workbooks.
package ratesheet

import (
	"go.uber.org/zap"

	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/classify"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/detect"
	"github.com/ukaji3/ratesheet-go/pkg/ratesheet/vocab"
)

// Options configures extraction behavior.
type Options struct {
	// IgnoredSheets lists sheet names to skip. Matching is exact.
	IgnoredSheets []string
	// CustomTerms extends the built-in header vocabulary.
	CustomTerms vocab.CustomTerms
	// Detect holds the header and table-end detection parameters. Unset
	// required fields are filled from detect.DefaultParams.
	Detect detect.Params
	// Classify holds the sheet name classification parameters.
	Classify classify.Params
	// Logger receives extraction progress. If nil, nothing is logged.
	Logger *zap.Logger
}

// DefaultOptions returns default extraction options.
func DefaultOptions() Options {
	return Options{
		Detect:   detect.DefaultParams(),
		Classify: classify.DefaultParams(),
	}
}

// withDefaults fills unset parameters with their defaults.
func (o Options) withDefaults() Options {
	o.Detect = o.Detect.FillDefaults()
	c := o.Classify
	if c.Threshold == 0 && len(c.FreeTimeKeywords) == 0 && len(c.RuleKeywords) == 0 && len(c.SurchargeKeywords) == 0 {
		sim := c.Similarity
		o.Classify = classify.DefaultParams()
		if sim != nil {
			o.Classify.Similarity = sim
		}
	}
	return o
}

func (o Options) logger() *zap.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return zap.NewNop()
}
