package safety

import (
	_ "embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

// Category names used by the decision ladder.
const (
	CategoryClinicalCondition   = "clinical_condition"
	CategoryMedication          = "medication"
	CategorySupplement          = "supplement"
	CategoryPersonalizedRequest = "personalized_request"
	CategoryMealPlan            = "meal_plan"
	CategoryNumericTargets      = "numeric_targets"
	CategoryMinor               = "minor"
	CategoryPossibleEmergency   = "possible_emergency"
)

//go:embed defaults.yaml
var defaultTableYAML []byte

// PatternTable is the versioned classifier configuration: category pattern
// lists, policy toggles, and refusal templates.
type PatternTable struct {
	Categories []CategoryPatterns `yaml:"categories"`
	Policy     Policy             `yaml:"policy"`
	Templates  Templates          `yaml:"templates"`
}

type CategoryPatterns struct {
	Name     string   `yaml:"name"`
	Patterns []string `yaml:"patterns"`
}

// Policy toggles optional categories on or off. Disabled categories are not
// evaluated at all.
type Policy struct {
	SupplementEnabled     bool `yaml:"supplement_enabled"`
	NumericTargetsEnabled bool `yaml:"numeric_targets_enabled"`
}

// Templates are the canned refusal responses.
type Templates struct {
	General    string `yaml:"general"`
	Minor      string `yaml:"minor"`
	Medication string `yaml:"medication"`
}

// DefaultPatternTable returns the embedded pattern table.
func DefaultPatternTable() (PatternTable, error) {
	var t PatternTable
	if err := yaml.Unmarshal(defaultTableYAML, &t); err != nil {
		return PatternTable{}, fmt.Errorf("embedded pattern table: %w", err)
	}
	return t, nil
}

// LoadPatternTable reads the table from path, falling back to the embedded
// defaults when the file is missing or malformed. Bad config data must not
// prevent startup.
func LoadPatternTable(log *logger.Logger, path string) PatternTable {
	fallback := func(reason string, err error) PatternTable {
		if log != nil {
			log.Warn("risk pattern table: using embedded defaults", "reason", reason, "path", path, "error", err)
		}
		t, dErr := DefaultPatternTable()
		if dErr != nil {
			// The embedded table is part of the binary; failing to parse it
			// is a build defect, not a runtime condition.
			panic(dErr)
		}
		return t
	}

	if path == "" {
		return fallback("no path configured", nil)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fallback("read failed", err)
	}
	var t PatternTable
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return fallback("parse failed", err)
	}
	if len(t.Categories) == 0 {
		return fallback("no categories", nil)
	}
	return t
}

type compiledCategory struct {
	name     string
	patterns []*regexp.Regexp
	sources  []string
}

func compileTable(t PatternTable) ([]compiledCategory, error) {
	out := make([]compiledCategory, 0, len(t.Categories))
	for _, cat := range t.Categories {
		switch cat.Name {
		case CategorySupplement:
			if !t.Policy.SupplementEnabled {
				continue
			}
		case CategoryNumericTargets:
			if !t.Policy.NumericTargetsEnabled {
				continue
			}
		}
		cc := compiledCategory{name: cat.Name}
		for _, p := range cat.Patterns {
			re, err := regexp.Compile("(?i)" + p)
			if err != nil {
				return nil, fmt.Errorf("category %s pattern %q: %w", cat.Name, p, err)
			}
			cc.patterns = append(cc.patterns, re)
			cc.sources = append(cc.sources, p)
		}
		out = append(out, cc)
	}
	return out, nil
}
