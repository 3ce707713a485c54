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

const wellnessTemperature = 0.8

var meditationTechniques = map[string][]string{
	"breathing": {
		"4-7-8 breathing: Inhale for 4, hold for 7, exhale for 8",
		"Box breathing: Inhale 4, hold 4, exhale 4, hold 4",
		"Belly breathing: Deep diaphragmatic breaths",
	},
	"mindfulness": {
		"Body scan meditation",
		"Walking meditation",
		"Mindful eating practice",
		"Present moment awareness",
	},
	"stress_relief": {
		"Progressive muscle relaxation",
		"Visualization meditation",
		"Loving-kindness meditation",
		"Mantra repetition",
	},
}

var wellnessTips = []string{
	"Practice gratitude daily - write down 3 things you're grateful for",
	"Maintain regular sleep schedule - 7-9 hours per night",
	"Limit screen time before bed",
	"Connect with nature regularly",
	"Practice saying 'no' to protect your energy",
	"Schedule regular breaks during work",
	"Maintain social connections with supportive people",
}

var stressManagementTips = []string{
	"Identify your stress triggers",
	"Use the STOP technique: Stop, Take a breath, Observe, Proceed mindfully",
	"Break large tasks into smaller, manageable steps",
	"Practice self-compassion when facing challenges",
	"Engage in regular physical activity",
	"Maintain work-life boundaries",
}

// WellnessPipeline mirrors the fitness pipeline with a mental-wellness
// knowledge table and a warmer persona.
type WellnessPipeline struct {
	log        *logger.Logger
	classifier *safety.Classifier
	streamer   *chatstream.Streamer
	audit      AuditSink
}

func NewWellnessPipeline(log *logger.Logger, classifier *safety.Classifier, streamer *chatstream.Streamer, audit AuditSink) *WellnessPipeline {
	if audit == nil {
		audit = NopAuditSink{}
	}
	return &WellnessPipeline{
		log:        log.With("agent", string(DomainWellness)),
		classifier: classifier,
		streamer:   streamer,
		audit:      audit,
	}
}

func (p *WellnessPipeline) Domain() Domain {
	return DomainWellness
}

func meditationCategory(question string) string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "mindfulness"):
		return "mindfulness"
	case strings.Contains(lower, "stress"):
		return "stress_relief"
	default:
		return "breathing"
	}
}

func wellnessPrompt(question, language string) string {
	category := meditationCategory(question)
	context := fmt.Sprintf("Meditation Techniques (%s):\n%s\nWellness Tips:\n%s\nStress Management:\n%s",
		category, bulletList(meditationTechniques[category]), bulletList(wellnessTips), bulletList(stressManagementTips))

	return fmt.Sprintf(`You are a compassionate wellness therapist and mental health coach with expertise in:
- Mindfulness and meditation practices
- Stress management and anxiety reduction
- Emotional regulation and coping strategies
- Work-life balance and burnout prevention
- Self-care and personal wellness

STYLE:
- Warm, empathetic, and non-judgmental
- Provide practical, evidence-based advice
- Encourage self-reflection and mindful awareness
- Emphasize self-compassion and gradual progress
- Always recommend professional help for serious mental health concerns

Available context:
%s
User question: %s

Provide caring, supportive wellness guidance in %s.
Remember: If someone expresses thoughts of self-harm, encourage them to seek immediate professional help.`, context, question, language)
}

func (p *WellnessPipeline) Answer(ctx context.Context, question, language string, history []session.Turn) <-chan string {
	risk := classify(p.classifier, question, language, history)
	p.audit.RecordRisk(ctx, DomainWellness, question, risk)
	if risk.Refused() {
		p.log.Info("question refused", risk.AuditFields()...)
		return oneShot(risk.Response)
	}

	system := wellnessPrompt(question, language)
	if c := constraintSystem(risk); c != "" {
		system += c
	}
	return p.streamer.Stream(ctx, system, question, wellnessTemperature)
}
