package agents

import (
	"context"
	"fmt"
	"strings"

	"github.com/benboulanger/agent-platform/internal/chatstream"
	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/safety"
	"github.com/benboulanger/agent-platform/internal/session"
)

const fitnessTemperature = 0.7

// workoutPlans keys are fitness levels inferred from the question text.
var workoutPlans = map[string][]string{
	"beginner": {
		"3 sets of 10 push-ups",
		"3 sets of 15 squats",
		"3 sets of 30-second plank",
		"20-minute walk",
	},
	"intermediate": {
		"4 sets of 15 push-ups",
		"4 sets of 20 squats",
		"4 sets of 45-second plank",
		"3 sets of 10 lunges each leg",
		"30-minute jog",
	},
	"advanced": {
		"5 sets of 20 push-ups",
		"5 sets of 25 squats",
		"5 sets of 60-second plank",
		"4 sets of 15 lunges each leg",
		"4 sets of 10 burpees",
		"45-minute intense cardio",
	},
}

var fitnessTips = []string{
	"Eat protein within 30 minutes after workout",
	"Stay hydrated - drink water before, during, and after exercise",
	"Include complex carbohydrates for sustained energy",
	"Don't skip meals on workout days",
	"Consider a light snack 1-2 hours before exercise",
}

// FitnessPipeline answers from a small built-in knowledge table instead of a
// vector collection. The same risk ladder still runs before any model call.
type FitnessPipeline struct {
	log        *logger.Logger
	classifier *safety.Classifier
	streamer   *chatstream.Streamer
	audit      AuditSink
}

func NewFitnessPipeline(log *logger.Logger, classifier *safety.Classifier, streamer *chatstream.Streamer, audit AuditSink) *FitnessPipeline {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &FitnessPipeline{
		log:        log.With("agent", string(DomainFitness)),
		classifier: classifier,
		streamer:   streamer,
		audit:      audit,
	}
}

func (p *FitnessPipeline) Domain() Domain {
	return DomainFitness
}

func fitnessLevel(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "advanced") || strings.Contains(lower, "expert"):
		return "advanced"
	case strings.Contains(lower, "intermediate"):
		return "intermediate"
	default:
		return "beginner"
	}
}

func bulletList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

func fitnessPrompt(question, language string) string {
	level := fitnessLevel(question)
	context := fmt.Sprintf("Workout Plan (%s):\n%s\nFitness Tips:\n%s",
		level, bulletList(workoutPlans[level]), bulletList(fitnessTips))

	return fmt.Sprintf(`You are a professional fitness coach with expertise in:
- Workout planning and exercise techniques
- Nutrition for athletic performance
- Injury prevention and recovery
- Motivation and goal setting

STYLE:
- Enthusiastic and motivating
- Focus on proper form and safety
- Provide actionable advice
- Encourage progressive improvement

Available context:
%s
User question: %s

Provide helpful, motivating fitness advice in %s.`, context, question, language)
}

func (p *FitnessPipeline) Answer(ctx context.Context, question, language string, history []session.Turn) <-chan string {
	risk := classify(p.classifier, question, language, history)
	p.audit.RecordRisk(ctx, DomainFitness, question, risk)
	if risk.Refused() {
		p.log.Info("question refused", risk.AuditFields()...)
		return oneShot(risk.Response)
	}

	system := fitnessPrompt(question, language)
	if c := constraintSystem(risk); c != "" {
		system += c
	}
	return p.streamer.Stream(ctx, system, question, fitnessTemperature)
}
