package safety

import (
	"fmt"
	"strings"
)

type Decision string

const (
	DecisionAllow                Decision = "allow"
	DecisionRefuse               Decision = "refuse"
	DecisionAllowWithConstraints Decision = "allow_with_constraints"
)

// ConstraintSuffix is appended to the system prompt when the decision is
// ALLOW_WITH_CONSTRAINTS.
const ConstraintSuffix = "\n\nADDITIONAL CONSTRAINTS:\n" +
	"- Do not recommend any specific product, supplement, or brand.\n" +
	"- Do not provide dosages or numeric targets.\n" +
	"- Keep the answer general and educational.\n"

// Result is the outcome of one classification. It is produced per question
// and retained only for audit logging.
type Result struct {
	Decision          Decision `json:"decision"`
	Reasons           []string `json:"reasons"`
	MatchedPatterns   []string `json:"matched_patterns"`
	Response          string   `json:"response,omitempty"`
	MatchedCategories []string `json:"matched_categories"`
}

// Refused reports whether the pipeline must answer with Response and skip
// the model call entirely.
func (r Result) Refused() bool {
	return r.Decision == DecisionRefuse
}

// Classifier decides, before any model call, whether a question must be
// refused or constrained. It is deterministic and side-effect-free.
type Classifier struct {
	categories []compiledCategory
	templates  Templates
}

func NewClassifier(table PatternTable) (*Classifier, error) {
	compiled, err := compileTable(table)
	if err != nil {
		return nil, err
	}
	return &Classifier{categories: compiled, templates: table.Templates}, nil
}

// Classify evaluates question + history + context against the category table
// and applies the refusal ladder. The inputs are used only for risk
// detection, never for generating advice.
func (c *Classifier) Classify(question, historyText, context string) Result {
	combined := strings.TrimSpace(question + "\n" + historyText + "\n" + context)

	matched := map[string][]string{}
	var matchedOrder []string
	for _, cat := range c.categories {
		var hits []string
		for i, re := range cat.patterns {
			if re.MatchString(combined) {
				hits = append(hits, cat.sources[i])
			}
		}
		if len(hits) > 0 {
			matched[cat.name] = hits
			matchedOrder = append(matchedOrder, cat.name)
		}
	}

	refuse := func(reason, response string, patterns []string) Result {
		return Result{
			Decision:          DecisionRefuse,
			Reasons:           []string{reason},
			MatchedPatterns:   patterns,
			Response:          response,
			MatchedCategories: matchedOrder,
		}
	}
	constrain := func(reason string, patterns []string) Result {
		return Result{
			Decision:          DecisionAllowWithConstraints,
			Reasons:           []string{reason},
			MatchedPatterns:   patterns,
			MatchedCategories: matchedOrder,
		}
	}

	// The ladder is ordered; the first matching rule wins and categories are
	// never combined once a refusal fires.
	if hits, ok := matched[CategoryMedication]; ok {
		return refuse("Medication / clinical compatibility question", c.templates.Medication, hits)
	}

	if minorHits, ok := matched[CategoryMinor]; ok {
		_, personalized := matched[CategoryPersonalizedRequest]
		_, mealPlan := matched[CategoryMealPlan]
		if personalized || mealPlan {
			patterns := append([]string{}, minorHits...)
			patterns = append(patterns, matched[CategoryPersonalizedRequest]...)
			patterns = append(patterns, matched[CategoryMealPlan]...)
			return refuse("Minor + weight/plan/personalized request", c.templates.Minor, patterns)
		}
	}

	if hits, ok := matched[CategoryPossibleEmergency]; ok {
		return refuse("Possible emergency / urgent situation", c.templates.General, hits)
	}

	if hits, ok := matched[CategoryClinicalCondition]; ok {
		return refuse("Clinical condition mentioned", c.templates.General, hits)
	}

	if hits, ok := matched[CategoryMealPlan]; ok {
		return refuse("Meal plan request", c.templates.General, hits)
	}

	if hits, ok := matched[CategoryPersonalizedRequest]; ok {
		return refuse("Personalized recommendation request", c.templates.General, hits)
	}

	if hits, ok := matched[CategorySupplement]; ok {
		return constrain("Supplement mentioned (allow general info only)", hits)
	}

	if hits, ok := matched[CategoryNumericTargets]; ok {
		return constrain("Numeric targets mentioned (avoid numbers in reply)", hits)
	}

	return Result{
		Decision:          DecisionAllow,
		Reasons:           []string{},
		MatchedPatterns:   []string{},
		MatchedCategories: matchedOrder,
	}
}

// AuditFields renders the result as key/value pairs for structured logging.
func (r Result) AuditFields() []interface{} {
	return []interface{}{
		"decision", string(r.Decision),
		"reasons", strings.Join(r.Reasons, "; "),
		"matched_categories", strings.Join(r.MatchedCategories, ","),
		"matched_patterns", fmt.Sprintf("%d", len(r.MatchedPatterns)),
	}
}
