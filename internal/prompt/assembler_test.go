package prompt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/benboulanger/agent-platform/internal/pkg/logger"
	"github.com/benboulanger/agent-platform/internal/session"
	"github.com/benboulanger/agent-platform/internal/style"
)

const testStyleGuides = `{
  "fr": {
    "title": "STYLE FR",
    "narrative_structure": {"title": "Structure", "steps": ["Reformule", "Explique"]},
    "characteristic_expressions": {"title": "Expressions", "phrases": ["On entend souvent dire"]},
    "tone_and_voice": {"title": "Ton", "characteristics": ["Tutoiement"]},
    "key_messages": {"title": "Messages", "messages": ["Tout est équilibre"]},
    "not_found_message": "Je n'ai pas cette information."
  },
  "en": {
    "title": "STYLE EN",
    "narrative_structure": {"title": "Structure", "steps": ["Rephrase", "Explain"]},
    "characteristic_expressions": {"title": "Expressions", "phrases": ["People often say"]},
    "tone_and_voice": {"title": "Tone", "characteristics": ["Casual"]},
    "key_messages": {"title": "Messages", "messages": ["Balance is everything"]},
    "not_found_message": "I don't have that information."
  }
}`

const testSystemPrompts = `{
  "fr": {"content": "Tu es Ben, nutritionniste expert."},
  "en": {"content": "You are Ben, a nutrition expert."}
}`

func newTestAssembler(t *testing.T) *Assembler {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "style_guides.json"), []byte(testStyleGuides), 0o644); err != nil {
		t.Fatalf("write style guides: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "system_prompts.json"), []byte(testSystemPrompts), 0o644); err != nil {
		t.Fatalf("write system prompts: %v", err)
	}
	log := logger.NewNop()
	return NewAssembler(log, style.Load(log, dir))
}

func TestAssembleIncludesContextAndQuestion(t *testing.T) {
	a := newTestAssembler(t)

	out := a.Assemble("Pourquoi les fibres?", "fr", []string{"doc un", "doc deux"}, nil)

	if !strings.Contains(out, "Tu es Ben, nutritionniste expert.") {
		t.Fatalf("missing base prompt:\n%s", out)
	}
	if !strings.Contains(out, "CONTEXTE DISPONIBLE:\ndoc un\n\ndoc deux") {
		t.Fatalf("context docs not joined in retrieval order:\n%s", out)
	}
	if !strings.Contains(out, "QUESTION DE L'UTILISATEUR: Pourquoi les fibres?") {
		t.Fatalf("missing question:\n%s", out)
	}
	if !strings.Contains(out, `"Je n'ai pas cette information."`) {
		t.Fatalf("missing grounding fallback message:\n%s", out)
	}
}

func TestAssembleEnglishUsesEnglishTemplate(t *testing.T) {
	a := newTestAssembler(t)

	out := a.Assemble("Why fiber?", "en", []string{"doc"}, nil)

	if !strings.Contains(out, "AVAILABLE CONTEXT:") {
		t.Fatalf("expected english labels:\n%s", out)
	}
	if !strings.Contains(out, "You are Ben, a nutrition expert.") {
		t.Fatalf("expected english base prompt:\n%s", out)
	}
	if !strings.Contains(out, `"I don't have that information."`) {
		t.Fatalf("expected english fallback message:\n%s", out)
	}
}

func TestAssembleUnsupportedLanguageFallsBackToFrench(t *testing.T) {
	a := newTestAssembler(t)

	for _, lang := range []string{"es", "de", ""} {
		out := a.Assemble("Hola", lang, []string{"doc"}, nil)
		if !strings.Contains(out, "CONTEXTE DISPONIBLE:") {
			t.Fatalf("lang %q: expected french labels:\n%s", lang, out)
		}
		if !strings.Contains(out, `"Je n'ai pas cette information."`) {
			t.Fatalf("lang %q: fallback message must be the french one:\n%s", lang, out)
		}
	}
}

func TestAssembleWindowsHistoryToLastSixTurns(t *testing.T) {
	a := newTestAssembler(t)

	var history []session.Turn
	for i := 0; i < 8; i++ {
		role := session.RoleUser
		if i%2 == 1 {
			role = session.RoleAssistant
		}
		history = append(history, session.Turn{Role: role, Content: fmt.Sprintf("turn-%d", i)})
	}

	out := a.Assemble("Question?", "fr", []string{"doc"}, history)

	for i := 0; i < 2; i++ {
		if strings.Contains(out, fmt.Sprintf("turn-%d", i)) {
			t.Fatalf("turn-%d should have been dropped:\n%s", i, out)
		}
	}
	for i := 2; i < 8; i++ {
		if !strings.Contains(out, fmt.Sprintf("turn-%d", i)) {
			t.Fatalf("turn-%d missing from history block:\n%s", i, out)
		}
	}
}

func TestAssembleOmitsHistoryBlockWhenEmpty(t *testing.T) {
	a := newTestAssembler(t)

	out := a.Assemble("Question?", "fr", []string{"doc"}, nil)

	if strings.Contains(out, "HISTORIQUE DE LA CONVERSATION:") {
		t.Fatalf("history block present without history:\n%s", out)
	}
}

func TestHistoryTextUsesRoleLabels(t *testing.T) {
	history := []session.Turn{
		{Role: session.RoleUser, Content: "salut"},
		{Role: session.RoleAssistant, Content: "bonjour"},
	}

	got := HistoryText("fr", history)
	want := "Utilisateur: salut\nAssistant: bonjour"
	if got != want {
		t.Fatalf("history text: want=%q got=%q", want, got)
	}
}

func TestWindowKeepsShortHistoryIntact(t *testing.T) {
	history := []session.Turn{{Role: session.RoleUser, Content: "a"}}
	if got := Window(history); len(got) != 1 {
		t.Fatalf("window length: want=1 got=%d", len(got))
	}
}
