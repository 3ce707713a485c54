package agents

import (
	"context"
	"testing"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/session"
)

type fakePipeline struct {
	domain Domain
}

func (p *fakePipeline) Domain() Domain { return p.domain }

func (p *fakePipeline) Answer(ctx context.Context, question, language string, history []session.Turn) <-chan string {
	out := make(chan string)
	close(out)
	return out
}

func newTestRouter() *Router {
	return NewRouter(logger.NewNop(),
		&fakePipeline{domain: DomainNutrition},
		&fakePipeline{domain: DomainFitness},
		&fakePipeline{domain: DomainWellness},
	)
}

func TestRouteByKeywordScore(t *testing.T) {
	r := newTestRouter()

	cases := []struct {
		question string
		want     Domain
	}{
		{"What should my protein and calorie intake look like on a vegetarian diet?", DomainNutrition},
		{"Give me a gym workout to build muscle strength", DomainFitness},
		{"How do I manage stress and anxiety with meditation?", DomainWellness},
	}
	for _, tc := range cases {
		if got := r.Route(tc.question); got != tc.want {
			t.Fatalf("route %q: want=%q got=%q", tc.question, tc.want, got)
		}
	}
}

func TestRouteIsCaseInsensitive(t *testing.T) {
	r := newTestRouter()
	if got := r.Route("BEST WORKOUT FOR THE GYM"); got != DomainFitness {
		t.Fatalf("route: want=%q got=%q", DomainFitness, got)
	}
}

func TestRouteDefaultsToNutritionOnZeroScore(t *testing.T) {
	r := newTestRouter()
	if got := r.Route("bonjour, comment vas-tu?"); got != DomainNutrition {
		t.Fatalf("route: want=%q got=%q", DomainNutrition, got)
	}
}

func TestRouteTieGoesToFirstDomainInOrder(t *testing.T) {
	r := newTestRouter()

	// One fitness keyword and one wellness keyword; fitness is evaluated
	// first and must win the tie.
	if got := r.Route("does a workout help with burnout"); got != DomainFitness {
		t.Fatalf("route: want=%q got=%q", DomainFitness, got)
	}
}

func TestResolvePrefersExplicitDomain(t *testing.T) {
	r := newTestRouter()

	p := r.Resolve("give me a gym workout", DomainWellness)
	if p.Domain() != DomainWellness {
		t.Fatalf("resolve: want=%q got=%q", DomainWellness, p.Domain())
	}
}

func TestResolveAutoRoutes(t *testing.T) {
	r := newTestRouter()

	p := r.Resolve("give me a gym workout", Domain("auto"))
	if p.Domain() != DomainFitness {
		t.Fatalf("resolve: want=%q got=%q", DomainFitness, p.Domain())
	}
}

func TestResolveFallsBackToRoutingOnUnknownDomain(t *testing.T) {
	r := newTestRouter()

	p := r.Resolve("give me a gym workout", Domain("astrology"))
	if p.Domain() != DomainFitness {
		t.Fatalf("resolve: want=%q got=%q", DomainFitness, p.Domain())
	}
}

func TestDomainsListedInEvaluationOrder(t *testing.T) {
	r := newTestRouter()

	got := r.Domains()
	want := []Domain{DomainNutrition, DomainFitness, DomainWellness}
	if len(got) != len(want) {
		t.Fatalf("domains: want=%v got=%v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("domains[%d]: want=%q got=%q", i, want[i], got[i])
		}
	}
}
