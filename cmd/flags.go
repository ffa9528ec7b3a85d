package cmd

import (
	"fmt"
	"strings"

	"github.com/rnwolfe/prio/internal/rank"
	"github.com/rnwolfe/prio/internal/task"
)

// strategyValue is a --strategy flag checked against the known strategies
// when it is parsed.
type strategyValue struct {
	name string
	// known resolves the strategy set; loadStrategies when nil.
	known func() (*rank.StrategySet, error)
}

func (v *strategyValue) String() string { return v.name }
func (v *strategyValue) Type() string   { return "strategy" }

func (v *strategyValue) Set(s string) error {
	known := v.known
	if known == nil {
		known = loadStrategies
	}
	set, err := known()
	if err != nil {
		return err
	}
	if !set.Has(s) {
		return fmt.Errorf("unknown strategy %q (valid: %s)", s, strings.Join(set.Names(), ", "))
	}
	v.name = s
	return nil
}

// outputFormat selects how results are printed.
type outputFormat string

const (
	formatText outputFormat = "text"
	formatJSON outputFormat = "json"
	formatYAML outputFormat = "yaml"
)

// formatValue is a --format flag limited to the given formats.
type formatValue struct {
	format  outputFormat
	allowed []outputFormat
}

func newFormatValue(def outputFormat, allowed ...outputFormat) *formatValue {
	return &formatValue{format: def, allowed: allowed}
}

func (v *formatValue) String() string { return string(v.format) }
func (v *formatValue) Type() string   { return "format" }

func (v *formatValue) Set(s string) error {
	for _, f := range v.allowed {
		if strings.EqualFold(s, string(f)) {
			v.format = f
			return nil
		}
	}
	names := make([]string, len(v.allowed))
	for i, f := range v.allowed {
		names[i] = string(f)
	}
	return fmt.Errorf("unknown format %q (valid: %s)", s, strings.Join(names, ", "))
}

// encoding maps a structured format to its file encoding.
func (v *formatValue) encoding() task.Encoding {
	if v.format == formatYAML {
		return task.YAML
	}
	return task.JSON
}
