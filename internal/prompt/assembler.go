package prompt

import (
	"fmt"
	"strings"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/session"
	"github.com/benboulanger/agent-platform/internal/style"
)

// HistoryWindow is how many prior turns (not exchanges) are kept in the
// prompt. Older turns are silently dropped.
const HistoryWindow = 6

// Template is the per-language prompt scaffold. Templates are data, not
// inline literals, so the wording cannot drift between call sites.
type Template struct {
	ContextLabel      string
	HistoryLabel      string
	QuestionLabel     string
	InstructionsLabel string
	// GroundingRule carries one %q verb for the language-specific
	// not-found message.
	GroundingRule string
	StyleRules    []string
	SafetyFooter  []string
	RoleLabels    map[string]string
}

var templates = map[string]Template{
	"fr": {
		ContextLabel:      "CONTEXTE DISPONIBLE:",
		HistoryLabel:      "HISTORIQUE DE LA CONVERSATION:",
		QuestionLabel:     "QUESTION DE L'UTILISATEUR:",
		InstructionsLabel: "INSTRUCTIONS SPÉCIALES:",
		GroundingRule:     "Si l'information n'est pas disponible dans le contexte, réponds: %q",
		StyleRules: []string{
			"Applique rigoureusement ta structure narrative et tes expressions caractéristiques",
			"Reste dans ton rôle avec ton style unique et reconnaissable",
		},
		SafetyFooter: []string{
			"Ne pose aucun diagnostic médical",
			"Ne recommande aucun médicament ni complément spécifique",
			"Redirige toute question médicale vers un professionnel de santé",
		},
		RoleLabels: map[string]string{
			session.RoleUser:      "Utilisateur",
			session.RoleAssistant: "Assistant",
		},
	},
	"en": {
		ContextLabel:      "AVAILABLE CONTEXT:",
		HistoryLabel:      "CONVERSATION HISTORY:",
		QuestionLabel:     "USER QUESTION:",
		InstructionsLabel: "SPECIAL INSTRUCTIONS:",
		GroundingRule:     "If information is not available in the context, respond: %q",
		StyleRules: []string{
			"Strictly apply your narrative structure and characteristic expressions",
			"Stay in your role with your unique and recognizable style",
		},
		SafetyFooter: []string{
			"Do not provide any medical diagnosis",
			"Do not recommend any specific medication or supplement",
			"Redirect medical questions to a healthcare professional",
		},
		RoleLabels: map[string]string{
			session.RoleUser:      "User",
			session.RoleAssistant: "Assistant",
		},
	},
}

// Assembler builds the single language-specific prompt string from persona,
// style, retrieved context, bounded history, and the question.
type Assembler struct {
	log     *logger.Logger
	catalog *style.Catalog
}

func NewAssembler(log *logger.Logger, catalog *style.Catalog) *Assembler {
	return &Assembler{
		log:     log.With("component", "PromptAssembler"),
		catalog: catalog,
	}
}

// resolveLanguage maps an unsupported language to the default. The fallback
// is French, not English, and both the template and the catalog lookups use
// the resolved language so the pieces stay consistent.
func resolveLanguage(lang string) string {
	if _, ok := templates[lang]; ok {
		return lang
	}
	return style.DefaultLanguage
}

// Window returns the most recent HistoryWindow turns of history. The
// in-flight user question must not be part of history; callers pass turns
// recorded before it.
func Window(history []session.Turn) []session.Turn {
	if len(history) <= HistoryWindow {
		return history
	}
	return history[len(history)-HistoryWindow:]
}

// HistoryText renders history as role-labeled lines for risk classification
// and prompt inclusion.
func HistoryText(lang string, history []session.Turn) string {
	tpl := templates[resolveLanguage(lang)]
	lines := make([]string, 0, len(history))
	for _, turn := range history {
		label, ok := tpl.RoleLabels[turn.Role]
		if !ok {
			label = turn.Role
		}
		lines = append(lines, fmt.Sprintf("%s: %s", label, turn.Content))
	}
	return strings.Join(lines, "\n")
}

// Assemble builds the full prompt. Context docs are concatenated in
// retrieval order with no deduplication; history is windowed to the last
// HistoryWindow turns.
func (a *Assembler) Assemble(question, language string, contextDocs []string, history []session.Turn) string {
	lang := resolveLanguage(language)
	tpl := templates[lang]

	basePrompt := a.catalog.BasePrompt(lang)
	styleBlock := a.catalog.StyleBlock(lang)
	notFound := a.catalog.NotFoundMessage(lang)

	var b strings.Builder
	if basePrompt != "" {
		b.WriteString(basePrompt)
		b.WriteString("\n\n")
	}
	if styleBlock != "" {
		b.WriteString(styleBlock)
		b.WriteString("\n")
	}

	b.WriteString(tpl.ContextLabel)
	b.WriteString("\n")
	b.WriteString(strings.Join(contextDocs, "\n\n"))
	b.WriteString("\n\n")

	if windowed := Window(history); len(windowed) > 0 {
		b.WriteString(tpl.HistoryLabel)
		b.WriteString("\n")
		b.WriteString(HistoryText(lang, windowed))
		b.WriteString("\n\n")
	}

	b.WriteString(tpl.QuestionLabel)
	b.WriteString(" ")
	b.WriteString(question)
	b.WriteString("\n\n")

	b.WriteString(tpl.InstructionsLabel)
	b.WriteString("\n")
	fmt.Fprintf(&b, "- "+tpl.GroundingRule+"\n", notFound)
	for _, rule := range tpl.StyleRules {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}
	for _, rule := range tpl.SafetyFooter {
		b.WriteString("- ")
		b.WriteString(rule)
		b.WriteString("\n")
	}

	return b.String()
}
