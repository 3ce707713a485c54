package agents

import (
	"context"
	"errors"

	"github.com/benboulanger/agent-platform/internal/chatstream"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/prompt"
	"github.com/benboulanger/agent-platform/internal/retrieval"
	"github.com/benboulanger/agent-platform/internal/safety"
	"github.com/benboulanger/agent-platform/internal/session"
)

const (
	nutritionTemperature = 0.3
	nutritionTopK        = 5
)

const (
	collectionUnavailableMsg = "Error: the document collection is not available. Please run the indexing job first to index your documents."
	noMatchesMsg             = "No relevant information found. Please make sure you have indexed some transcripts."
	degradedMsg              = "Error processing your question: the answer could not be generated right now."
)

// NutritionPipeline is the grounded assistant: every answer is built from
// retrieved transcript chunks, and the model is instructed to fall back to
// the catalog's not-found message when the context is insufficient.
type NutritionPipeline struct {
	log        *logger.Logger
	classifier *safety.Classifier
	retriever  *retrieval.Retriever
	assembler  *prompt.Assembler
	streamer   *chatstream.Streamer
	audit      AuditSink
}

func NewNutritionPipeline(
	log *logger.Logger,
	classifier *safety.Classifier,
	retriever *retrieval.Retriever,
	assembler *prompt.Assembler,
	streamer *chatstream.Streamer,
	audit AuditSink,
) *NutritionPipeline {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &NutritionPipeline{
		log:        log.With("agent", string(DomainNutrition)),
		classifier: classifier,
		retriever:  retriever,
		assembler:  assembler,
		streamer:   streamer,
		audit:      audit,
	}
}

func (p *NutritionPipeline) Domain() Domain {
	return DomainNutrition
}

func (p *NutritionPipeline) Answer(ctx context.Context, question, language string, history []session.Turn) <-chan string {
	risk := classify(p.classifier, question, language, history)
	p.audit.RecordRisk(ctx, DomainNutrition, question, risk)
	if risk.Refused() {
		p.log.Info("question refused", risk.AuditFields()...)
		return oneShot(risk.Response)
	}

	docs, err := p.retriever.Retrieve(ctx, question, nutritionTopK)
	if err != nil {
		switch {
		case errors.Is(err, retrieval.ErrCollectionUnavailable):
			p.log.Warn("collection unavailable", "error", err)
			return oneShot(collectionUnavailableMsg)
		case errors.Is(err, retrieval.ErrNoMatches):
			return oneShot(noMatchesMsg)
		default:
			p.log.Error("retrieval failed", "error", err)
			return oneShot(degradedMsg)
		}
	}

	full := p.assembler.Assemble(question, language, docs, history)
	return p.streamer.Stream(ctx, constraintSystem(risk), full, nutritionTemperature)
}
