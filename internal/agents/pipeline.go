package agents

import (
	"context"

	"github.com/benboulanger/agent-platform/internal/prompt"
	"github.com/benboulanger/agent-platform/internal/safety"
	"github.com/benboulanger/agent-platform/internal/session"
)

// Domain identifies a specialized assistant.
type Domain string

const (
	DomainNutrition Domain = "nutrition"
	DomainFitness   Domain = "fitness"
	DomainWellness  Domain = "wellness"
)

// Pipeline is one domain assistant. Answer is the single entry point
// combining the risk short-circuit, retrieval where the domain has a
// collection, prompt assembly, and streaming. The returned channel is closed
// when the answer is complete; it always terminates with user-visible text
// on failure.
type Pipeline interface {
	Domain() Domain
	Answer(ctx context.Context, question, language string, history []session.Turn) <-chan string
}

// AuditSink receives the risk decision for every answered question,
// regardless of outcome. Failures are logged by the sink, not propagated
// into the answer path.
type AuditSink interface {
	RecordRisk(ctx context.Context, domain Domain, question string, result safety.Result)
}

// NopAuditSink discards audit records.
type NopAuditSink struct{}

func (NopAuditSink) RecordRisk(ctx context.Context, domain Domain, question string, result safety.Result) {
}

// oneShot returns a closed-after-one-increment channel for canned answers.
func oneShot(msg string) <-chan string {
	out := make(chan string, 1)
	out <- msg
	close(out)
	return out
}

// classify runs the risk ladder over the question plus windowed history.
// Retrieval context is deliberately not included: the decision must be made
// before any provider call.
func classify(classifier *safety.Classifier, question, language string, history []session.Turn) safety.Result {
	historyText := prompt.HistoryText(language, prompt.Window(history))
	return classifier.Classify(question, historyText, "")
}

// constraintSystem returns the system-prompt augmentation for the decision.
func constraintSystem(result safety.Result) string {
	if result.Decision == safety.DecisionAllowWithConstraints {
		return safety.ConstraintSuffix
	}
	return ""
}
