package agents

import (
	"strings"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
)

// routing keywords per domain, matched as case-insensitive substrings. The
// router is a cheap dispatch heuristic, not a semantic classifier; callers
// may override it by naming a domain directly.
var routingKeywords = map[Domain][]string{
	DomainNutrition: {
		"nutrition", "diet", "food", "meal", "eating", "vitamin",
		"protein", "carb", "fat", "calorie", "recipe", "ingredient",
		"supplement", "mineral", "nutrient", "healthy eating",
	},
	DomainFitness: {
		"workout", "exercise", "fitness", "training", "gym", "muscle",
		"strength", "cardio", "running", "weight", "reps", "sets",
		"sports", "athletic", "performance", "endurance",
	},
	DomainWellness: {
		"stress", "anxiety", "depression", "mental health", "meditation",
		"mindfulness", "therapy", "wellness", "self-care", "burnout",
		"sleep", "relaxation", "breathing", "emotional", "mood",
	},
}

// routeOrder fixes the evaluation order so ties resolve deterministically:
// the first domain reaching the highest score wins.
var routeOrder = []Domain{DomainNutrition, DomainFitness, DomainWellness}

// Router dispatches questions to domain pipelines by keyword overlap.
type Router struct {
	log       *logger.Logger
	pipelines map[Domain]Pipeline
}

func NewRouter(log *logger.Logger, pipelines ...Pipeline) *Router {
	m := make(map[Domain]Pipeline, len(pipelines))
	for _, p := range pipelines {
		m[p.Domain()] = p
	}
	return &Router{
		log:       log.With("component", "AgentRouter"),
		pipelines: m,
	}
}

// Route picks the domain whose keywords score highest in the question. Zero
// matches everywhere defaults to nutrition, the most general domain.
func (r *Router) Route(question string) Domain {
	lower := strings.ToLower(question)

	best := DomainNutrition
	bestScore := 0
	for _, domain := range routeOrder {
		score := 0
		for _, kw := range routingKeywords[domain] {
			if strings.Contains(lower, kw) {
				score++
			}
		}
		if score > bestScore {
			best = domain
			bestScore = score
		}
	}
	return best
}

// Pipeline returns the pipeline for an explicitly named domain, or nil when
// the domain is unknown.
func (r *Router) Pipeline(domain Domain) Pipeline {
	return r.pipelines[domain]
}

// Resolve returns the pipeline for the request: the named domain when given
// and known, otherwise the routed one. "auto" and empty both mean route.
func (r *Router) Resolve(question string, domain Domain) Pipeline {
	if domain != "" && domain != "auto" {
		if p, ok := r.pipelines[domain]; ok {
			return p
		}
		r.log.Warn("unknown agent domain requested, routing instead", "domain", string(domain))
	}
	return r.pipelines[r.Route(question)]
}

// Keywords returns the routing keywords for a domain.
func Keywords(domain Domain) []string {
	kws := routingKeywords[domain]
	out := make([]string, len(kws))
	copy(out, kws)
	return out
}

// Domains lists the registered domains in evaluation order.
func (r *Router) Domains() []Domain {
	out := make([]Domain, 0, len(r.pipelines))
	for _, d := range routeOrder {
		if _, ok := r.pipelines[d]; ok {
			out = append(out, d)
		}
	}
	return out
}
